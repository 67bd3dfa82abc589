package blockchain

import (
	"context"
	"strings"

	lcrypto "github.com/LodestoneLabs/lodestone/internal/crypto"
)

// How often the nonce search polls the context. The loop body is a single
// SHA-256, so even a coarse cadence keeps cancellation latency well under a
// millisecond.
const cancelCheckInterval = 1 << 16

// meetsDifficulty reports whether digest carries the required number of
// leading zero hex characters.
func meetsDifficulty(digest string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if difficulty > len(digest) {
		return false
	}
	return digest[:difficulty] == strings.Repeat("0", difficulty)
}

// mine brute-forces a nonce (starting at startNonce) until the digest of
// content++decimal(nonce) meets the difficulty. It is a pure search: no
// chain state is read or written, so it can be exercised in isolation.
//
// Expected work is 16^difficulty trials; there is no iteration bound. The
// context is the only way out of a search that is not converging.
func mine(ctx context.Context, content string, startNonce uint64, difficulty int) (uint64, string, error) {
	nonce := startNonce
	digest := lcrypto.SumHex(digestInput(content, nonce))

	for i := 0; !meetsDifficulty(digest, difficulty); i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, "", err
			}
		}
		nonce++
		digest = lcrypto.SumHex(digestInput(content, nonce))
	}
	return nonce, digest, nil
}
