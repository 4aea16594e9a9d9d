package id

import (
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes of every entity id.
const (
	PrefixTeam   = "team"
	PrefixPlayer = "plr"
	PrefixGame   = "game"
	PrefixSet    = "set"
	PrefixPlay   = "play"
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "game-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Generator issues ids for one entity prefix. Engines take a Generator so
// tests can substitute a deterministic sequence.
type Generator func(prefix string) (string, error)

// Sequence returns a Generator producing prefix-1, prefix-2, ... per prefix.
func Sequence() Generator {
	var mu sync.Mutex
	counters := make(map[string]int)
	return func(prefix string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		counters[prefix]++
		return fmt.Sprintf("%s-%d", prefix, counters[prefix]), nil
	}
}
