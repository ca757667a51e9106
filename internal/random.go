package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// Token is 128 bits of CSPRNG entropy. Rendered as unpadded base64url it
// forms the CSRF token value that travels in both the cookie and the
// request header.
type Token [16]byte

func NewToken() (Token, error) {
	var t Token
	_, err := rand.Read(t[:])
	return t, err
}

func (t Token) Bytes() []byte {
	return t[:]
}

func (t Token) String() string {
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(t[:])
}

func ParseToken(token string) (Token, error) {
	var t Token

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return t, err
	}
	if len(raw) != len(t) {
		return t, errors.New("invalid token size")
	}

	copy(t[:], raw)
	return t, nil
}
