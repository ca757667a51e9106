package custsession

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// sealedPayload is the cookie-visible session artifact. It is encrypted and
// authenticated as a unit; IssuedAt bounds its age to the session TTL so a
// stale cookie fails to unseal even before the store is consulted.
type sealedPayload struct {
	CustomerID string `json:"customerId"`
	Role       string `json:"role"`
	SessionID  string `json:"sessionId"`
	IssuedAt   int64  `json:"iat"`
}

func (p *sealedPayload) complete() bool {
	return p.CustomerID != "" && p.Role != "" && p.SessionID != ""
}

var errSealExpired = errors.New("sealed payload expired")

// sealKey derives the AES-256 key from the configured secret. Hashing lets
// operators supply any sufficiently long secret without worrying about
// exact key sizing.
func sealKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// sealPayload encrypts p with AES-256-GCM and encodes the nonce-prefixed
// ciphertext as unpadded base64url.
func sealPayload(secret string, p sealedPayload) (string, error) {
	plain, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(sealKey(secret))
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// unsealPayload decrypts token and enforces the max-age bound. Every
// failure mode — bad encoding, tampering, truncation, expiry, missing
// fields — is an error; callers treat all of them identically as "no
// session".
func unsealPayload(secret, token string, maxAge time.Duration, now time.Time) (*sealedPayload, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(sealKey(secret))
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("sealed payload shorter than nonce")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]

	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("unsealing payload: %w", err)
	}

	var p sealedPayload
	if err := json.Unmarshal(plain, &p); err != nil {
		return nil, err
	}
	if !p.complete() {
		return nil, errors.New("sealed payload incomplete")
	}

	issued := time.Unix(p.IssuedAt, 0)
	if now.Sub(issued) > maxAge {
		return nil, errSealExpired
	}

	return &p, nil
}
