package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/poker"
)

// EvalCmd names the best five card hand in a set of cards.
type EvalCmd struct {
	Cards string `arg:"" optional:"" help:"Five to seven cards, e.g. AhKhQhJhTh"`
	Hole  string `help:"Hole cards, evaluated with --board"`
	Board string `help:"Board cards, evaluated with --hole"`
	Omaha bool   `help:"Use exactly two hole cards"`
}

func (cmd *EvalCmd) Run() error {
	return cmd.run(os.Stdout)
}

func (cmd *EvalCmd) run(out io.Writer) error {
	var (
		value poker.HandValue
		err   error
	)
	switch {
	case cmd.Cards != "":
		cards, perr := poker.ParseCards(cmd.Cards)
		if perr != nil {
			return perr
		}
		if len(cards) < 5 || len(cards) > 7 {
			return fmt.Errorf("need 5 to 7 cards, got %d", len(cards))
		}
		value, err = poker.EvaluateBest(nil, cards, 0, 0)
	case cmd.Hole != "":
		hole, perr := poker.ParseCards(cmd.Hole)
		if perr != nil {
			return fmt.Errorf("hole cards: %w", perr)
		}
		board, perr := poker.ParseCards(cmd.Board)
		if perr != nil {
			return fmt.Errorf("board: %w", perr)
		}
		profile := game.HoldemProfile(1, 2)
		if cmd.Omaha {
			profile.Family = game.Omaha
		}
		value, err = poker.EvaluateBest(hole, board, profile.MinHole(), profile.MaxHole())
	default:
		return errors.New("give cards or --hole and --board")
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, value)
	return nil
}
