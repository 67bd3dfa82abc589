package blockchain

import (
	"strconv"

	lcrypto "github.com/LodestoneLabs/lodestone/internal/crypto"
)

const (
	// GenesisContent is the payload of every chain's first block.
	GenesisContent = "this is the genesis"

	// GenesisPrevDigest marks the predecessor of the genesis block. It is
	// display-only and never fed to the hasher.
	GenesisPrevDigest = "(genesis has no previous block)"
)

// IndexUnassigned is the Index of a block that has not been admitted to a
// chain yet.
const IndexUnassigned = -1

// Block is a single record of the ledger. A block is created detached, then
// bound to a chain by admission (see Chain.Admit), which assigns Index and
// PrevDigest and searches Nonce until Digest satisfies the chain's
// difficulty. After admission a block is logically immutable.
type Block struct {
	Index      int
	Content    string
	Nonce      uint64
	Digest     string
	PrevDigest string
}

// NewBlock returns a detached block for the given payload. The digest is
// computed immediately so the digest invariant holds from construction on.
func NewBlock(content string) *Block {
	b := &Block{
		Index:   IndexUnassigned,
		Content: content,
		Nonce:   0,
	}
	b.ComputeDigest()
	return b
}

// ComputeDigest recomputes Digest from the current Content and Nonce. The
// hashed input is the payload immediately followed by the decimal nonce, no
// separator; this exact concatenation is what other implementations of the
// protocol hash, so it must not change.
func (b *Block) ComputeDigest() {
	b.Digest = lcrypto.SumHex(digestInput(b.Content, b.Nonce))
}

func digestInput(content string, nonce uint64) []byte {
	return []byte(content + strconv.FormatUint(nonce, 10))
}
