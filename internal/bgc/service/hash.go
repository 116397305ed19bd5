package service

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Hasher derives stable, non-reversible identifiers from SSNs and orders.
// With a key the digest is a MAC, so the small SSN space cannot be
// enumerated without it.
type Hasher struct {
	key []byte
}

// NewHasher returns a hasher keyed with key. Keys longer than 64 bytes are
// truncated to fit blake2b.
func NewHasher(key []byte) *Hasher {
	if len(key) > blake2b.Size {
		key = key[:blake2b.Size]
	}
	return &Hasher{key: append([]byte(nil), key...)}
}

// Sum hashes the parts joined by NUL.
func (h *Hasher) Sum(parts ...string) string {
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// Only reachable with an oversized key, which NewHasher prevents.
		panic(err)
	}
	for i, p := range parts {
		if i > 0 {
			mac.Write([]byte{0})
		}
		mac.Write([]byte(p))
	}
	return hex.EncodeToString(mac.Sum(nil))
}

// Subject is the audit identifier for an SSN.
func (h *Hasher) Subject(ssn string) string {
	return h.Sum("subject", normalizeSSN(ssn))
}

func normalizeSSN(ssn string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, ssn)
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}
