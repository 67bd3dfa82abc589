package blockchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	lcrypto "github.com/LodestoneLabs/lodestone/internal/crypto"
)

var (
	// ErrInvalidContent rejects payloads that are not well-formed text.
	// Raised before any hashing happens.
	ErrInvalidContent = errors.New("block content is not valid UTF-8 text")

	// ErrAlreadyAdmitted rejects a block that already carries an index,
	// i.e. one that went through admission before.
	ErrAlreadyAdmitted = errors.New("block was already admitted to a chain")
)

// Chain is an append-only sequence of blocks, each bound to its predecessor
// by digest. A chain has exactly one writer: Admit holds the chain lock for
// the full duration of the nonce search, so admissions never overlap and
// blocks land in strictly increasing index order with no gaps.
type Chain struct {
	mu sync.Mutex

	difficulty int
	blocks     []*Block

	log *slog.Logger
}

// New creates a chain and admits the genesis block at the given difficulty.
// Genesis is not special-cased: it runs the ordinary admission path, where
// index 0 selects the no-predecessor marker. The context bounds the genesis
// nonce search.
func New(ctx context.Context, difficulty int, log *slog.Logger) (*Chain, error) {
	if difficulty < 1 || difficulty > lcrypto.DigestHexLen {
		return nil, fmt.Errorf("difficulty out of range [1,%d]: %d", lcrypto.DigestHexLen, difficulty)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Chain{
		difficulty: difficulty,
		log:        log,
	}
	if err := c.Admit(ctx, NewBlock(GenesisContent)); err != nil {
		return nil, fmt.Errorf("admit genesis: %w", err)
	}
	return c, nil
}

// Admit binds a detached block to the chain: it assigns the next index,
// copies the predecessor's digest (or the genesis marker), then increments
// the nonce until the digest meets the chain difficulty, and appends the
// block. After Admit returns nil the block must not be mutated.
//
// On error the chain is unchanged and the block keeps its pre-admission
// nonce and digest. Cancelling ctx is the only way to abort the search.
func (c *Chain) Admit(ctx context.Context, b *Block) error {
	if b.Index != IndexUnassigned {
		return ErrAlreadyAdmitted
	}
	if !utf8.ValidString(b.Content) {
		return ErrInvalidContent
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	index := len(c.blocks)
	prevDigest := GenesisPrevDigest
	if index > 0 {
		prevDigest = c.blocks[index-1].Digest
	}

	start := time.Now()
	nonce, digest, err := mine(ctx, b.Content, b.Nonce, c.difficulty)
	if err != nil {
		return fmt.Errorf("mine block %d: %w", index, err)
	}

	b.Index = index
	b.PrevDigest = prevDigest
	b.Nonce = nonce
	b.Digest = digest
	c.blocks = append(c.blocks, b)

	c.log.Info("block admitted",
		"index", index,
		"nonce", nonce,
		"digest", digest,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

func (c *Chain) Difficulty() int { return c.difficulty }

func (c *Chain) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.blocks)
}

// Tip returns the most recently admitted block.
func (c *Chain) Tip() *Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocks[len(c.blocks)-1]
}

// Blocks returns the admitted blocks in index order. The slice is a copy;
// the blocks themselves are shared and, past admission, immutable by
// contract.
func (c *Chain) Blocks() []*Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}
