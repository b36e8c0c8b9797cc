package game

import (
	"context"
	"fmt"
	"strings"
)

// HandHistoryWriter persists the text of a finished hand.
type HandHistoryWriter interface {
	WriteHandHistory(handID string, content string) error
}

// NoOpHandHistoryWriter is a no-op writer for tests
type NoOpHandHistoryWriter struct{}

// WriteHandHistory does nothing (for tests)
func (NoOpHandHistoryWriter) WriteHandHistory(string, string) error {
	return nil
}

// HandHistory records the status lines of the hand in progress. It is a
// Listener fed by the table before any subscribed listener.
type HandHistory struct {
	HandNumber int      `json:"hand_number"`
	HandID     string   `json:"hand_id,omitempty"`
	Lines      []string `json:"lines,omitempty"`

	writer HandHistoryWriter
}

// NewHandHistory creates a history that hands finished hands to w. w may be nil.
func NewHandHistory(w HandHistoryWriter) *HandHistory {
	return &HandHistory{writer: w}
}

// SetWriter replaces the writer, e.g. after restoring a snapshot.
func (h *HandHistory) SetWriter(w HandHistoryWriter) {
	h.writer = w
}

// StartHand begins a new hand. The first hand is number 1.
func (h *HandHistory) StartHand(handID string, header string) {
	h.HandNumber++
	h.HandID = handID
	h.Lines = h.Lines[:0]
	h.Lines = append(h.Lines, fmt.Sprintf("Hand #%d (%s) %s", h.HandNumber, handID, header))
}

func (h *HandHistory) OnEvent(_ context.Context, event Event) error {
	if event.Status != "" {
		h.Lines = append(h.Lines, event.Status)
	}
	return nil
}

// String returns the hand so far, one line per status.
func (h *HandHistory) String() string {
	return strings.Join(h.Lines, "\n")
}

// Finish writes the finished hand.
func (h *HandHistory) Finish() error {
	if h.writer == nil || len(h.Lines) == 0 {
		return nil
	}
	if err := h.writer.WriteHandHistory(h.HandID, h.String()+"\n"); err != nil {
		return fmt.Errorf("write hand history %s: %w", h.HandID, err)
	}
	return nil
}

func (h *HandHistory) clone() *HandHistory {
	c := *h
	c.Lines = append([]string(nil), h.Lines...)
	return &c
}
