package blockchain

import (
	"context"
	"errors"
	"testing"
)

func newTestChain(t *testing.T, difficulty int, contents ...string) *Chain {
	t.Helper()
	c, err := New(context.Background(), difficulty, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, content := range contents {
		if err := c.Admit(context.Background(), NewBlock(content)); err != nil {
			t.Fatalf("Admit(%q): %v", content, err)
		}
	}
	return c
}

func assertViolation(t *testing.T, err error, kind ViolationKind, index int) {
	t.Helper()
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want *IntegrityError", err)
	}
	if ie.Kind != kind || ie.Index != index {
		t.Fatalf("violation = {%s, %d}, want {%s, %d}", ie.Kind, ie.Index, kind, index)
	}
}

func TestNewAdmitsGenesis(t *testing.T) {
	c := newTestChain(t, 2)

	if c.Len() != 1 {
		t.Fatalf("fresh chain has %d blocks, want 1", c.Len())
	}
	g := c.Tip()
	if g.Index != 0 {
		t.Fatalf("genesis index = %d, want 0", g.Index)
	}
	if g.Content != GenesisContent {
		t.Fatalf("genesis content = %q, want %q", g.Content, GenesisContent)
	}
	if g.PrevDigest != GenesisPrevDigest {
		t.Fatalf("genesis predecessor = %q, want the no-predecessor marker", g.PrevDigest)
	}
	if !meetsDifficulty(g.Digest, 2) {
		t.Fatalf("genesis digest %s does not meet difficulty 2", g.Digest)
	}
}

func TestNewRejectsBadDifficulty(t *testing.T) {
	for _, d := range []int{0, -3, 65} {
		if _, err := New(context.Background(), d, nil); err == nil {
			t.Errorf("New(difficulty=%d) succeeded, want error", d)
		}
	}
}

func TestAdmitChainsBlocksInOrder(t *testing.T) {
	c := newTestChain(t, 2,
		"This is an example of content. Our first block",
		"Blockchain is cool! This will be our second block",
		"Hello World. Third block!",
		"42. Fourth and final block",
	)

	blocks := c.Blocks()
	if len(blocks) != 5 {
		t.Fatalf("chain has %d blocks, want 5", len(blocks))
	}
	for i, b := range blocks {
		if b.Index != i {
			t.Errorf("blocks[%d].Index = %d", i, b.Index)
		}
		if !meetsDifficulty(b.Digest, c.Difficulty()) {
			t.Errorf("blocks[%d] digest %s fails proof of work", i, b.Digest)
		}
		if i > 0 && b.PrevDigest != blocks[i-1].Digest {
			t.Errorf("blocks[%d] predecessor link broken", i)
		}
	}
	if err := c.CheckIntegrity(); err != nil {
		t.Fatalf("CheckIntegrity: %v", err)
	}
}

func TestAdmitRejectsAdmittedBlock(t *testing.T) {
	c := newTestChain(t, 1)
	b := NewBlock("only once")
	if err := c.Admit(context.Background(), b); err != nil {
		t.Fatalf("first Admit: %v", err)
	}
	if err := c.Admit(context.Background(), b); !errors.Is(err, ErrAlreadyAdmitted) {
		t.Fatalf("second Admit err = %v, want ErrAlreadyAdmitted", err)
	}
}

func TestAdmitRejectsInvalidContent(t *testing.T) {
	c := newTestChain(t, 1)
	b := NewBlock(string([]byte{0xff, 0xfe, 0xfd}))
	if err := c.Admit(context.Background(), b); !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("err = %v, want ErrInvalidContent", err)
	}
	if c.Len() != 1 {
		t.Fatalf("rejected block was appended, chain length %d", c.Len())
	}
}

func TestAdmitCancelled(t *testing.T) {
	c := newTestChain(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBlock("Hello") // digest 80878c5b..., not minable on the first probe
	err := c.Admit(ctx, b)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if c.Len() != 1 {
		t.Fatalf("cancelled admission changed the chain, length %d", c.Len())
	}
	if b.Index != IndexUnassigned {
		t.Fatalf("cancelled block got index %d", b.Index)
	}
}

func TestCheckIntegrityDetectsTamperedContent(t *testing.T) {
	c := newTestChain(t, 2, "first", "second", "third", "fourth")

	c.Blocks()[2].Content = "first?"
	assertViolation(t, c.CheckIntegrity(), DigestMismatch, 2)
}

func TestCheckIntegrityDetectsTamperedDigest(t *testing.T) {
	c := newTestChain(t, 2, "first", "second", "third", "fourth")

	c.Blocks()[2].Digest = helloNonceZeroDigest
	assertViolation(t, c.CheckIntegrity(), DigestMismatch, 2)
}

func TestCheckIntegrityDetectsBrokenLink(t *testing.T) {
	c := newTestChain(t, 2, "first", "second", "third", "fourth")

	c.Blocks()[2].PrevDigest = helloNonceZeroDigest
	assertViolation(t, c.CheckIntegrity(), LinkMismatch, 2)
}

func TestCheckIntegrityDetectsMissingProofOfWork(t *testing.T) {
	c := newTestChain(t, 1)

	// A block whose digest is honestly recomputable but was never mined:
	// SHA-256("Hello0") starts with '8'.
	b := &Block{
		Index:      1,
		Content:    "Hello",
		Nonce:      0,
		Digest:     helloNonceZeroDigest,
		PrevDigest: c.Tip().Digest,
	}
	c.blocks = append(c.blocks, b)

	assertViolation(t, c.CheckIntegrity(), ProofOfWorkUnsatisfied, 1)
}

func TestCheckIntegrityTrustsGenesis(t *testing.T) {
	c := newTestChain(t, 2, "only child")

	// Genesis is excluded from the verification pass; its content is not
	// re-derived.
	c.Blocks()[0].Content = "rewritten history"
	if err := c.CheckIntegrity(); err != nil {
		t.Fatalf("CheckIntegrity: %v", err)
	}
}
