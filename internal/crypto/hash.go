package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestHexLen is the length of a SumHex result: SHA-256, hex encoded.
const DigestHexLen = sha256.Size * 2

func Sum(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// SumHex returns the SHA-256 digest of data as a lowercase hex string.
func SumHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
