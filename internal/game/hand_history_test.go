package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) WriteHandHistory(string, string) error { return errors.New("disk full") }

func TestHandHistoryRecordsStatusLines(t *testing.T) {
	t.Parallel()

	w := &memoryHistory{}
	h := NewHandHistory(w)
	h.StartHand("abc", "Texas Hold'em 1/2 No Limit")
	ctx := context.Background()
	require.NoError(t, h.OnEvent(ctx, Event{Status: "P1 calls 2."}))
	require.NoError(t, h.OnEvent(ctx, Event{Type: EventPotChanged}))
	require.NoError(t, h.OnEvent(ctx, Event{Status: "P2 folds."}))

	assert.Equal(t, 1, h.HandNumber)
	assert.Equal(t, "Hand #1 (abc) Texas Hold'em 1/2 No Limit\nP1 calls 2.\nP2 folds.", h.String())
	require.NoError(t, h.Finish())
	assert.Equal(t, h.String()+"\n", w.hands["abc"])

	h.StartHand("def", "x")
	assert.Equal(t, 2, h.HandNumber)
	assert.Len(t, h.Lines, 1)
}

func TestHandHistoryWriterErrors(t *testing.T) {
	t.Parallel()

	h := NewHandHistory(failingWriter{})
	h.StartHand("abc", "x")
	assert.ErrorContains(t, h.Finish(), "disk full")

	h.SetWriter(NoOpHandHistoryWriter{})
	assert.NoError(t, h.Finish())

	assert.NoError(t, NewHandHistory(nil).Finish())
}

func TestHandHistoryCloneIsIndependent(t *testing.T) {
	t.Parallel()

	h := NewHandHistory(nil)
	h.StartHand("abc", "x")
	c := h.clone()
	require.NoError(t, c.OnEvent(context.Background(), Event{Status: "extra"}))
	assert.Len(t, h.Lines, 1)
	assert.Len(t, c.Lines, 2)
}
