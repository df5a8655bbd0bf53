package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Session tokens are opaque bearer strings: a fixed project prefix so tokens
// are recognizable in logs and support tickets, followed by base64url
// entropy. Nothing parses a token beyond equality lookups.
const (
	tokenPrefix      = "dpr_"
	minTokenEntropy  = 24
	defaultTokenSize = 32
)

type RandomTokenGenerator struct {
	Size int
}

func (g RandomTokenGenerator) NewToken() (string, error) {
	size := g.Size
	if size < minTokenEntropy {
		size = defaultTokenSize
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: entropy read failed: %w", err)
	}
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
