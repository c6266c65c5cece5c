package signing

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Signer implements usecase.Signer with a SHA-256 hex digest.
// Signatures are tamper-evidence, not authentication: the threat model is
// out-of-band row edits, not an adversary who can also recompute digests.
type SHA256Signer struct{}

// NewSHA256Signer creates a new SHA256Signer.
func NewSHA256Signer() *SHA256Signer {
	return &SHA256Signer{}
}

// Digest returns the lowercase hex SHA-256 of the payload.
func (s *SHA256Signer) Digest(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
