// Package entropy provides the random sources every stochastic roll in the
// simulation draws from. Engines never touch a global generator: hosts inject a
// Source so a fixed seed reproduces a run exactly.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"

	"github.com/google/uuid"
)

// Source is the random interface the engines consume.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
}

// Seeded is a deterministic Source backed by math/rand.
type Seeded struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeeded creates a deterministic source for the given seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Crypto is a non-reproducible Source backed by crypto/rand, for hosts that
// want genuinely unpredictable worlds.
type Crypto struct{}

// Float64 keeps the top 53 bits of a crypto/rand word.
func (Crypto) Float64() float64 {
	var buf [8]byte
	rand.Read(buf[:])
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

func (c Crypto) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return min(int(c.Float64()*float64(n)), n-1)
}

// Chance returns true with probability p.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Between returns an integer in [lo, hi].
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// D20 rolls a twenty-sided die.
func D20(src Source) int {
	return Between(src, 1, 20)
}

// Pick returns a uniformly chosen index into a slice of length n, or -1.
func Pick(src Source, n int) int {
	if n <= 0 {
		return -1
	}
	return src.Intn(n)
}

// NewID derives a version-4 UUID from src so identifiers replay with the seed.
func NewID(src Source) string {
	id, err := uuid.NewRandomFromReader(sourceReader{src})
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type sourceReader struct{ src Source }

func (r sourceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.Intn(256))
	}
	return len(p), nil
}
