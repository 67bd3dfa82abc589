package blockchain

import (
	"fmt"

	lcrypto "github.com/LodestoneLabs/lodestone/internal/crypto"
)

// ViolationKind classifies an integrity violation.
type ViolationKind int

const (
	// LinkMismatch: a block's PrevDigest does not match its predecessor's
	// Digest.
	LinkMismatch ViolationKind = iota
	// DigestMismatch: a block's Digest is not the hash of its content and
	// nonce. Catches tampering with Content or Digest without re-mining.
	DigestMismatch
	// ProofOfWorkUnsatisfied: a block's Digest does not carry the required
	// leading zeros.
	ProofOfWorkUnsatisfied
)

func (k ViolationKind) String() string {
	switch k {
	case LinkMismatch:
		return "link mismatch"
	case DigestMismatch:
		return "digest mismatch"
	case ProofOfWorkUnsatisfied:
		return "proof of work unsatisfied"
	default:
		return fmt.Sprintf("unknown violation kind %d", int(k))
	}
}

// IntegrityError reports the first violation found by CheckIntegrity: what
// failed and at which block.
type IntegrityError struct {
	Kind  ViolationKind
	Index int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("chain integrity violated at block %d: %s", e.Index, e.Kind)
}

// CheckIntegrity walks the chain and re-derives every linkage and
// proof-of-work condition. For each block past genesis, in order: the
// predecessor link, the digest recomputation, the difficulty prefix. The
// first violation stops the pass and is returned as an *IntegrityError;
// a fully valid chain yields nil.
//
// Genesis is trusted by construction and not checked.
func (c *Chain) CheckIntegrity() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 1; i < len(c.blocks); i++ {
		b := c.blocks[i]

		if b.PrevDigest != c.blocks[i-1].Digest {
			return &IntegrityError{Kind: LinkMismatch, Index: i}
		}
		if b.Digest != lcrypto.SumHex(digestInput(b.Content, b.Nonce)) {
			return &IntegrityError{Kind: DigestMismatch, Index: i}
		}
		if !meetsDifficulty(b.Digest, c.difficulty) {
			return &IntegrityError{Kind: ProofOfWorkUnsatisfied, Index: i}
		}
	}
	return nil
}
