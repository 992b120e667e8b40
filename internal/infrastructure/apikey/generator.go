package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const (
	PrefixLive = "sk_live_"

	randomBytes = 32
	// characters of the plaintext kept for display after the prefix
	displayChars = 6
)

// Issued is a freshly generated key. Plain is shown to the operator once and
// never stored.
type Issued struct {
	Plain         string
	Hash          string
	DisplayPrefix string
}

type Generator interface {
	Generate() (*Issued, error)
	Hash(plain string) string
	Verify(plain, hash string) bool
}

type generator struct {
	prefix string
}

func NewGenerator() Generator {
	return &generator{prefix: PrefixLive}
}

func (g *generator) Generate() (*Issued, error) {
	buf := make([]byte, randomBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	plain := g.prefix + hex.EncodeToString(buf)
	return &Issued{
		Plain:         plain,
		Hash:          g.Hash(plain),
		DisplayPrefix: plain[:len(g.prefix)+displayChars],
	}, nil
}

func (g *generator) Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func (g *generator) Verify(plain, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(g.Hash(plain)), []byte(hash)) == 1
}
