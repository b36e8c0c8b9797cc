package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/holdem/internal/agent"
	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
)

// providerFactory builds the provider for each agent kind. Every computer
// player gets its own rng derived from the table seed.
type providerFactory struct {
	seed    int64
	built   int64
	timeout time.Duration
	term    *terminal
	logger  zerolog.Logger
}

func newProviderFactory(seed int64, timeout time.Duration, term *terminal, logger zerolog.Logger) *providerFactory {
	return &providerFactory{seed: seed, timeout: timeout, term: term, logger: logger}
}

func (f *providerFactory) build(kind string) (game.ActionProvider, error) {
	f.built++
	rng := randutil.New(f.seed + f.built)
	switch kind {
	case config.AgentHuman:
		return agent.NewTimed(f.term.waiter, f.timeout, nil, f.logger), nil
	case config.AgentRandom:
		return agent.NewRandom(rng), nil
	case config.AgentCallingStation:
		return agent.CallingStation{}, nil
	case config.AgentEquity:
		return agent.NewEquity(rng, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown agent %q", kind)
	}
}
