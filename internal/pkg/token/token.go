// Package token generates opaque refresh token values.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

// NumBytes is the entropy of a generated token in bytes.
const NumBytes = 48

// Generate returns a URL-safe random token with NumBytes of entropy.
func Generate() (string, error) {
	buf := make([]byte, NumBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
