// Package rng decides the safe tile of every tower level.
package rng

import (
	cryptoRand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"sync"
	"tower_backend/internal/model"
)

// Source yields uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

// lockedSource makes a *rand.Rand safe for concurrent sessions.
type lockedSource struct {
	mtx sync.Mutex
	r   *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.r.IntN(n)
}

// NewSource returns a ChaCha8 stream keyed from crypto/rand.
func NewSource() (Source, error) {
	var seed [32]byte
	if _, err := cryptoRand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return &lockedSource{r: rand.New(rand.NewChaCha8(seed))}, nil
}

// NewSeededSource is reproducible, for tests and simulations.
func NewSeededSource(seed uint64) Source {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, 0))}
}

type Policy struct {
	src Source
}

func NewPolicy(src Source) *Policy {
	return &Policy{src: src}
}

// GenerateLadder draws one safe index per level, each uniform in
// [0, choicesPerLevel) and independent of the others.
func (p *Policy) GenerateLadder(choicesPerLevel, levelCount int) ([]int, error) {
	if choicesPerLevel < model.MinChoicesPerLevel || choicesPerLevel > model.MaxChoicesPerLevel {
		return nil, fmt.Errorf("choices per level must be between %d and %d, got %d",
			model.MinChoicesPerLevel, model.MaxChoicesPerLevel, choicesPerLevel)
	}
	if levelCount < 1 {
		return nil, fmt.Errorf("level count must be positive, got %d", levelCount)
	}

	ladder := make([]int, levelCount)
	for i := range ladder {
		ladder[i] = p.src.IntN(choicesPerLevel)
	}
	return ladder, nil
}
