package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"gitlab.com/answer-validator.net/internal/core/ports/primary"
)

var _ primary.SubmissionHasher = Blake2bHasher{}

// Blake2bHasher fingerprints the canonical text of a submission with BLAKE2b-256
type Blake2bHasher struct{}

func (Blake2bHasher) Hash(submission string) string {
	sum := blake2b.Sum256([]byte(submission))
	return hex.EncodeToString(sum[:])
}
