package game

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/poker"
)

// scriptedProvider plays queued actions in order, then checks or calls.
type scriptedProvider struct {
	mu       sync.Mutex
	actions  []Action
	requests []ActionRequest
}

func script(actions ...Action) *scriptedProvider {
	return &scriptedProvider{actions: actions}
}

func (s *scriptedProvider) Decide(_ context.Context, req ActionRequest) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.actions) == 0 {
		return CheckOrCallAction(), nil
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, nil
}

func (s *scriptedProvider) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// recorder collects every event the table publishes.
type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) statuses() []string {
	var out []string
	for _, e := range r.events {
		if e.Status != "" {
			out = append(out, e.Status)
		}
	}
	return out
}

func (r *recorder) ofType(typ EventType) []Event {
	var out []Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type testSeat struct {
	stack    int
	provider ActionProvider
}

// newTestTable seats P0..Pn in seats 0..n with the button placed on seat 0, so
// the first hand has the button on seat 1.
func newTestTable(t *testing.T, profile Profile, seated ...testSeat) *Table {
	t.Helper()
	ids := 0
	table, err := NewTable(profile,
		WithSeed(1),
		WithButton(0),
		WithHandIDs(func() string { ids++; return fmt.Sprintf("hand-%d", ids) }),
	)
	require.NoError(t, err)
	for i, s := range seated {
		require.NoError(t, table.Sit(context.Background(), i, NewPlayer(fmt.Sprintf("P%d", i), s.stack), s.provider))
	}
	return table
}

func stackedDeck(t *testing.T, cards string) *poker.Deck {
	t.Helper()
	d, err := poker.NewStackedDeck(poker.MustParseCards(cards))
	require.NoError(t, err)
	return d
}
