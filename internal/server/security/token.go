package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenEntropyBytes is the number of random bytes in an opaque token.
// 32 bytes makes collisions implausible at any realistic issuance rate.
const tokenEntropyBytes = 32

// GenerateToken returns an unguessable URL-safe opaque string drawn from the
// crypto/rand source. The string carries no decodable structure; it is used
// purely as a lookup key. If the database still reports a uniqueness
// violation on insert, the caller retries generation.
func GenerateToken() (string, error) {
	b := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("reading random source: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
