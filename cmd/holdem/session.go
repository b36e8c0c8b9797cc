package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/store"
)

// session plays hands at a table and keeps its snapshot current.
type session struct {
	name   string
	table  *game.Table
	store  *store.FileStore
	term   *terminal
	hands  int
	logger zerolog.Logger
}

func (s *session) run(ctx context.Context) error {
	s.table.Subscribe(s.term)
	go s.term.serve(ctx)

	for played := 0; s.hands == 0 || played < s.hands; played++ {
		if !s.table.HandInProgress() && s.table.SeatedCount() < 2 {
			break
		}
		suspended, err := s.table.PlayHand(ctx)
		if err != nil {
			return fmt.Errorf("hand %s: %w", s.table.HandID(), err)
		}
		if suspended {
			if err := s.store.Save(s.name, s.table.Snapshot()); err != nil {
				return err
			}
			s.term.printf("Table %s suspended. Continue with: holdem resume %s\n", s.name, s.name)
			return nil
		}
		if err := s.store.Save(s.name, s.table.Snapshot()); err != nil {
			return err
		}
	}

	if s.table.SeatedCount() < 2 {
		for seat := range game.NumSeats {
			if p := s.table.Player(seat); p != nil {
				s.term.printf("%s wins the table with %d chips.\n", p.Name, p.Stack)
			}
		}
		s.logger.Info().Msg("Table finished")
		return s.store.Delete(s.name)
	}
	return nil
}
