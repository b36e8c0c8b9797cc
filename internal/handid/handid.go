// Package handid issues hand identifiers: ULIDs that sort by creation time and
// stay monotonic within a millisecond.
package handid

import (
	crand "crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/oklog/ulid/v2"
)

// Generator hands out monotonic ULIDs. It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	clock   quartz.Clock
	entropy *ulid.MonotonicEntropy
}

// NewGenerator creates a generator reading randomness from entropy and time
// from clock. A nil entropy uses crypto/rand; a nil clock uses the real clock.
func NewGenerator(entropy io.Reader, clock quartz.Clock) *Generator {
	if entropy == nil {
		entropy = crand.Reader
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{
		clock:   clock,
		entropy: ulid.Monotonic(entropy, 0),
	}
}

// Next returns a new identifier.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy).String()
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

// New returns an identifier from a process-wide generator.
func New() string {
	defaultOnce.Do(func() { defaultGen = NewGenerator(nil, nil) })
	return defaultGen.Next()
}

// Validate checks that id is a well-formed ULID.
func Validate(id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return fmt.Errorf("invalid hand id %q: %w", id, err)
	}
	return nil
}

// Time returns the creation time encoded in id.
func Time(id string) (time.Time, error) {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hand id %q: %w", id, err)
	}
	return ulid.Time(u.Time()), nil
}
