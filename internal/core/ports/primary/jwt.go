package primary

import (
	"context"

	"github.com/google/uuid"
)

// JWTService issues and verifies HMAC bearer tokens carrying a user id in "sub"
type JWTService interface {
	GenerateTokenHMAC(ctx context.Context, method string, claims map[string]interface{}) (string, error)
	// VerifySubject validates token and returns the user id held by its sub claim
	VerifySubject(ctx context.Context, token string) (uuid.UUID, error)
}

// SubmissionHasher fingerprints submitted answers so identical submissions can be grouped
type SubmissionHasher interface {
	Hash(submission string) string
}
