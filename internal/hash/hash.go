// Package hash provides content hashing for layer pixel blobs.
//
// Saved documents store each layer's pixels as a PNG blob named by its
// SHA-256 digest, so identical layers share one file and a blob can be
// verified against its name on load. The package provides a real
// implementation using crypto/sha256 and a fake implementation for testing.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hasher names blob content.
type Hasher interface {
	// HashBytes computes the hash of data.
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes returns the hex SHA-256 digest of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with deterministic hashes for testing.
// Content hashes to a sequence number in first-seen order.
type FakeHasher struct {
	seen map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{seen: make(map[string]string)}
}

// HashBytes returns a stable fake digest for data.
func (h *FakeHasher) HashBytes(data []byte) string {
	key := string(data)
	if hash, ok := h.seen[key]; ok {
		return hash
	}
	hash := fmt.Sprintf("fakehash%d", len(h.seen))
	h.seen[key] = hash
	return hash
}
