package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/internal/agent"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/store"
)

func noLimitRequest() game.ActionRequest {
	return game.ActionRequest{
		Name:         "Alice",
		CurrentBet:   4,
		Owed:         2,
		Stack:        98,
		MinRaise:     8,
		MaxRaise:     100,
		DefaultRaise: 12,
		RaiseAllowed: true,
		Profile:      game.HoldemProfile(1, 2),
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	capped := noLimitRequest()
	capped.RaiseAllowed = false
	free := noLimitRequest()
	free.CurrentBet, free.Owed = 0, 0

	tests := []struct {
		name    string
		line    string
		req     game.ActionRequest
		want    game.Action
		wantErr bool
	}{
		{"empty calls", "", noLimitRequest(), game.CheckOrCallAction(), false},
		{"fold", "f", noLimitRequest(), game.FoldAction(), false},
		{"fold when checking is free", "f", free, game.Action{}, true},
		{"check word", "Check", noLimitRequest(), game.CheckOrCallAction(), false},
		{"suspend", "s", noLimitRequest(), game.SuspendAction(), false},
		{"raise default", "r", noLimitRequest(), game.RaiseToAction(12), false},
		{"raise amount", "raise 20", noLimitRequest(), game.RaiseToAction(20), false},
		{"all in", "a", noLimitRequest(), game.RaiseToAction(100), false},
		{"raise below minimum", "r 6", noLimitRequest(), game.Action{}, true},
		{"raise above maximum", "r 101", noLimitRequest(), game.Action{}, true},
		{"raise bad amount", "r lots", noLimitRequest(), game.Action{}, true},
		{"raise when capped", "r 10", capped, game.Action{}, true},
		{"all in when capped", "a", capped, game.Action{}, true},
		{"unknown", "x", noLimitRequest(), game.Action{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseAction(tt.line, tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChoices(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[f]old, [c]all 2, [r]aise 8-100 (default 12), [a]ll in, [s]uspend", choices(noLimitRequest()))

	fixed := noLimitRequest()
	fixed.CurrentBet, fixed.Owed, fixed.MinRaise, fixed.MaxRaise = 0, 0, 2, 2
	assert.Equal(t, "[c]heck, [b]et to 2, [a]ll in, [s]uspend", choices(fixed))
}

func TestEvalCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cmd     EvalCmd
		want    string
		wantErr bool
	}{
		{"five cards", EvalCmd{Cards: "AhKhQhJhTh"}, "a royal flush\n", false},
		{"seven cards", EvalCmd{Cards: "Kc Kd 5s 5h 2c 9d Jh"}, "two pair, kings and fives\n", false},
		{"hold'em hole and board", EvalCmd{Hole: "4c7c", Board: "9cTcJcKc2s"}, "a flush, king high\n", false},
		{"omaha uses two hole cards", EvalCmd{Hole: "AcKc2d3d", Board: "QcJcTc4h5s", Omaha: true}, "a royal flush\n", false},
		{"too few cards", EvalCmd{Cards: "AhKh"}, "", true},
		{"nothing given", EvalCmd{}, "", true},
		{"bad card", EvalCmd{Cards: "AhKhQhJhTx"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			err := tt.cmd.run(&out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestEquityCmd(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := EquityCmd{Hole: "2c3d", Board: "AsKsQsJsTs", Opponents: 1, Samples: 200, Seed: 1}
	require.NoError(t, cmd.run(context.Background(), &out))
	assert.Equal(t, "2c 3d vs 1 opponent(s) on As Ks Qs Js Ts: equity 50.00% (win 0.00%, tie 100.00%) over 200 samples\n", out.String())

	bad := EquityCmd{Hole: "2c", Opponents: 1}
	assert.Error(t, bad.run(context.Background(), &out))
}

func newSession(t *testing.T, input string, hands int) (*session, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()

	st, err := store.NewFileStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	table, err := game.NewTable(game.HoldemProfile(1, 2), game.WithSeed(3), game.WithHistoryWriter(st))
	require.NoError(t, err)

	var out bytes.Buffer
	term := newTerminal(strings.NewReader(input), &out)
	require.NoError(t, table.Sit(ctx, 0, game.NewPlayer("Alice", 100), term.waiter))
	require.NoError(t, table.Sit(ctx, 1, game.NewPlayer("Bob", 100), term.waiter))

	return &session{
		name:   "test",
		table:  table,
		store:  st,
		term:   term,
		hands:  hands,
		logger: zerolog.Nop(),
	}, &out
}

func TestSessionSuspendsAtEndOfInput(t *testing.T) {
	t.Parallel()

	sess, out := newSession(t, "", 0)
	require.NoError(t, sess.run(context.Background()))
	assert.Contains(t, out.String(), "Table test suspended")

	snap, err := sess.store.Load("test")
	require.NoError(t, err)
	assert.True(t, snap.HandInProgress)

	restored, err := game.Restore(snap)
	require.NoError(t, err)
	require.NoError(t, restored.Attach(0, agent.CallingStation{}))
	require.NoError(t, restored.Attach(1, agent.CallingStation{}))
	suspended, err := restored.PlayHand(context.Background())
	require.NoError(t, err)
	assert.False(t, suspended)
	assert.Equal(t, 200, restored.TotalChips())
}

func TestSessionPlaysHands(t *testing.T) {
	t.Parallel()

	sess, out := newSession(t, "f\n", 1)
	require.NoError(t, sess.run(context.Background()))
	assert.Contains(t, out.String(), "folds.")
	assert.Equal(t, 200, sess.table.TotalChips())

	snap, err := sess.store.Load("test")
	require.NoError(t, err)
	assert.False(t, snap.HandInProgress)
	assert.Equal(t, 1, snap.History.HandNumber)

	history, err := sess.store.HandHistory(snap.HandID)
	require.NoError(t, err)
	assert.Contains(t, history, "folds.")
}
