package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/internal/store"
)

// PlayCmd seats a configured table and plays it.
type PlayCmd struct {
	Config  string        `short:"c" help:"HCL table file (default: heads-up against a random player)" type:"existingfile"`
	Table   string        `short:"t" help:"Table to play from the config file (default: the first)"`
	Hands   int           `short:"n" help:"Hands to play (0 = until one player is left)" default:"0"`
	Seed    int64         `help:"Shuffle seed (0 = table seed or random)" default:"${seed}"`
	Timeout time.Duration `help:"Turn timer for human seats (0 = none)" default:"${decision_timeout}"`
	Fresh   bool          `help:"Discard a saved game for this table"`
}

func (cmd *PlayCmd) Run(g *Globals) error {
	logger, err := g.Logger()
	if err != nil {
		return err
	}

	file := config.Default()
	if cmd.Config != "" {
		if file, err = config.Load(cmd.Config); err != nil {
			return err
		}
	}
	tc, err := file.Table(cmd.Table)
	if err != nil {
		return err
	}
	profile, err := tc.Profile()
	if err != nil {
		return err
	}

	st, err := store.NewFileStore(g.StateDir, logger)
	if err != nil {
		return err
	}
	if _, err := st.Load(tc.Name); err == nil && !cmd.Fresh {
		return fmt.Errorf("table %q has a saved game, use resume or --fresh", tc.Name)
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = tc.Seed
	}
	if seed == 0 {
		seed = randutil.RandomSeed()
	}
	logger = logger.With().Str("table", tc.Name).Logger()
	logger.Info().Int64("seed", seed).Str("profile", profile.String()).Msg("Starting table")

	table, err := game.NewTable(profile,
		game.WithSeed(seed),
		game.WithLogger(logger),
		game.WithHistoryWriter(st),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	term := newTerminal(os.Stdin, os.Stdout)
	providers := newProviderFactory(seed, cmd.Timeout, term, logger)
	seating := store.Seating{}
	for i, pos := range tc.Positions() {
		s := tc.Seats[i]
		provider, err := providers.build(s.Agent)
		if err != nil {
			return err
		}
		if err := table.Sit(ctx, pos, game.NewPlayer(s.Name, s.Chips), provider); err != nil {
			return fmt.Errorf("seat %s: %w", s.Name, err)
		}
		seating[s.Name] = s.Agent
	}
	if err := st.SaveSeating(tc.Name, seating); err != nil {
		return err
	}

	sess := &session{
		name:   tc.Name,
		table:  table,
		store:  st,
		term:   term,
		hands:  cmd.Hands,
		logger: logger,
	}
	return sess.run(ctx)
}

// ResumeCmd continues a saved table.
type ResumeCmd struct {
	Name    string        `arg:"" help:"Saved table name"`
	Hands   int           `short:"n" help:"Hands to play (0 = until one player is left)" default:"0"`
	Seed    int64         `help:"Shuffle seed for new hands (0 = random)" default:"${seed}"`
	Timeout time.Duration `help:"Turn timer for human seats (0 = none)" default:"${decision_timeout}"`
}

func (cmd *ResumeCmd) Run(g *Globals) error {
	logger, err := g.Logger()
	if err != nil {
		return err
	}
	logger = logger.With().Str("table", cmd.Name).Logger()

	st, err := store.NewFileStore(g.StateDir, logger)
	if err != nil {
		return err
	}
	snap, err := st.Load(cmd.Name)
	if err != nil {
		return err
	}
	seating, err := st.LoadSeating(cmd.Name)
	if err != nil {
		return err
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = randutil.RandomSeed()
	}
	table, err := game.Restore(snap,
		game.WithSeed(seed),
		game.WithLogger(logger),
		game.WithHistoryWriter(st),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	term := newTerminal(os.Stdin, os.Stdout)
	providers := newProviderFactory(seed, cmd.Timeout, term, logger)
	for seat := range game.NumSeats {
		p := table.Player(seat)
		if p == nil {
			continue
		}
		kind, ok := seating[p.Name]
		if !ok {
			return fmt.Errorf("no agent recorded for %s", p.Name)
		}
		provider, err := providers.build(kind)
		if err != nil {
			return err
		}
		if err := table.Attach(seat, provider); err != nil {
			return err
		}
	}

	logger.Info().
		Bool("hand_in_progress", table.HandInProgress()).
		Str("hand_id", table.HandID()).
		Msg("Resuming table")

	sess := &session{
		name:   cmd.Name,
		table:  table,
		store:  st,
		term:   term,
		hands:  cmd.Hands,
		logger: logger,
	}
	return sess.run(ctx)
}

// TablesCmd lists saved tables.
type TablesCmd struct{}

func (cmd *TablesCmd) Run(g *Globals) error {
	st, err := store.NewFileStore(g.StateDir, zerolog.Nop())
	if err != nil {
		return err
	}
	names, err := st.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		snap, err := st.Load(name)
		if err != nil {
			return err
		}
		state := "between hands"
		if snap.HandInProgress {
			state = fmt.Sprintf("suspended in hand %s", snap.HandID)
		}
		fmt.Printf("%s\t%s\t%s\n", name, snap.Profile, state)
	}
	return nil
}
