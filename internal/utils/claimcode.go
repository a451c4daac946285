package utils

import (
	"crypto/rand"
	"fmt"
)

// ClaimCodeAlphabet is the character set for reward claim codes. Uppercase
// letters and digits only so the code survives handwriting at a pickup
// counter.
const ClaimCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ClaimCodeLength is the fixed length of generated claim codes.
const ClaimCodeLength = 8

// GenerateClaimCode generates a random 8-character claim code drawn uniformly
// from A-Z0-9. Codes are not checked for global uniqueness.
func GenerateClaimCode() (string, error) {
	// 252 is the largest multiple of 36 below 256; bytes at or above it are
	// rejected to keep the distribution uniform.
	const limit = 252

	code := make([]byte, 0, ClaimCodeLength)
	buf := make([]byte, 16)
	for len(code) < ClaimCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("claim code generation failed: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, ClaimCodeAlphabet[int(b)%len(ClaimCodeAlphabet)])
			if len(code) == ClaimCodeLength {
				break
			}
		}
	}
	return string(code), nil
}
