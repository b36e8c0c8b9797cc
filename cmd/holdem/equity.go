package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lox/holdem/internal/equity"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

// EquityCmd estimates how often a hand wins at showdown.
type EquityCmd struct {
	Hole      string `arg:"" help:"Hole cards, e.g. AhKh"`
	Board     string `short:"b" help:"Board cards, e.g. 2c7d9s"`
	Opponents int    `short:"o" help:"Opponents still in the hand" default:"1"`
	Samples   int    `short:"n" help:"Simulated showdowns" default:"20000"`
	Seed      int64  `help:"Simulation seed (0 = random)" default:"${seed}"`
	Omaha     bool   `help:"Use Omaha rules (exactly two hole cards)"`
}

func (cmd *EquityCmd) Run(g *Globals) error {
	logger, err := g.Logger()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(logger)
	defer cancel()
	return cmd.run(ctx, os.Stdout)
}

func (cmd *EquityCmd) run(ctx context.Context, out io.Writer) error {
	hole, err := poker.ParseCards(cmd.Hole)
	if err != nil {
		return fmt.Errorf("hole cards: %w", err)
	}
	board, err := poker.ParseCards(cmd.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	profile := game.HoldemProfile(1, 2)
	if cmd.Omaha {
		profile.Family = game.Omaha
	}
	seed := cmd.Seed
	if seed == 0 {
		seed = randutil.RandomSeed()
	}

	res, err := equity.Estimate(ctx, equity.Request{
		Hole:      hole,
		Board:     board,
		Opponents: cmd.Opponents,
		Samples:   cmd.Samples,
		Seed:      seed,
		MinHole:   profile.MinHole(),
		MaxHole:   profile.MaxHole(),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s vs %d opponent(s)", poker.FormatCards(hole), cmd.Opponents)
	if len(board) > 0 {
		fmt.Fprintf(out, " on %s", poker.FormatCards(board))
	}
	fmt.Fprintf(out, ": equity %.2f%% (win %.2f%%, tie %.2f%%) over %d samples\n",
		100*res.Equity, 100*res.Win, 100*res.Tie, res.Samples)
	return nil
}
