// Package config loads table definitions from HCL files and process settings
// from HOLDEM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem/internal/game"
)

// Agent kinds a seat can be played by.
const (
	AgentHuman          = "human"
	AgentRandom         = "random"
	AgentCallingStation = "calling-station"
	AgentEquity         = "equity"
)

var agentKinds = map[string]bool{
	AgentHuman:          true,
	AgentRandom:         true,
	AgentCallingStation: true,
	AgentEquity:         true,
}

var ErrNoTables = errors.New("no tables defined")

// Env holds process settings. Flags override them.
type Env struct {
	LogLevel        string        `env:"HOLDEM_LOG_LEVEL" envDefault:"info"`
	LogJSON         bool          `env:"HOLDEM_LOG_JSON" envDefault:"false"`
	StateDir        string        `env:"HOLDEM_STATE_DIR" envDefault:".holdem"`
	Seed            int64         `env:"HOLDEM_SEED" envDefault:"0"`
	DecisionTimeout time.Duration `env:"HOLDEM_DECISION_TIMEOUT" envDefault:"0s"`
}

// LoadEnv reads Env from the environment.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// File is a parsed table file.
type File struct {
	Tables []TableConfig `hcl:"table,block"`
}

// TableConfig defines one table and who sits at it.
type TableConfig struct {
	Name       string       `hcl:"name,label"`
	Game       string       `hcl:"game,optional"`
	Limit      string       `hcl:"limit,optional"`
	SmallBlind int          `hcl:"small_blind"`
	BigBlind   int          `hcl:"big_blind"`
	Ante       int          `hcl:"ante,optional"`
	MaxRaises  *int         `hcl:"max_raises,optional"`
	Seed       int64        `hcl:"seed,optional"`
	Seats      []SeatConfig `hcl:"seat,block"`
}

// SeatConfig places a player. Position is zero based; seats without one fill
// the lowest free chairs in file order.
type SeatConfig struct {
	Name     string `hcl:"name,label"`
	Chips    int    `hcl:"chips"`
	Agent    string `hcl:"agent,optional"`
	Position *int   `hcl:"position,optional"`
}

// Default returns a heads-up table against a random player.
func Default() *File {
	return &File{Tables: []TableConfig{{
		Name:       "default",
		Game:       string(game.Holdem),
		Limit:      string(game.NoLimit),
		SmallBlind: 1,
		BigBlind:   2,
		Seats: []SeatConfig{
			{Name: "You", Chips: 200, Agent: AgentHuman},
			{Name: "Randy", Chips: 200, Agent: AgentRandom},
		},
	}}}
}

// Load parses and validates the table file at filename.
func Load(filename string) (*File, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse parses and validates table file source. filename is used in diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg File
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies defaults and checks every table.
func (f *File) Validate() error {
	if len(f.Tables) == 0 {
		return ErrNoTables
	}
	names := make(map[string]bool)
	for i := range f.Tables {
		t := &f.Tables[i]
		if names[t.Name] {
			return fmt.Errorf("table %q defined twice", t.Name)
		}
		names[t.Name] = true
		if err := t.Validate(); err != nil {
			return fmt.Errorf("table %q: %w", t.Name, err)
		}
	}
	return nil
}

// Table returns the named table, or the first one when name is empty.
func (f *File) Table(name string) (TableConfig, error) {
	if len(f.Tables) == 0 {
		return TableConfig{}, ErrNoTables
	}
	if name == "" {
		return f.Tables[0], nil
	}
	for _, t := range f.Tables {
		if t.Name == name {
			return t, nil
		}
	}
	return TableConfig{}, fmt.Errorf("table %q not found", name)
}

// Validate applies defaults and checks the table.
func (t *TableConfig) Validate() error {
	if t.Game == "" {
		t.Game = string(game.Holdem)
	}
	if t.Limit == "" {
		t.Limit = string(game.NoLimit)
	}
	if _, err := t.Profile(); err != nil {
		return err
	}
	if len(t.Seats) < 2 || len(t.Seats) > game.NumSeats {
		return fmt.Errorf("need 2 to %d seats, got %d", game.NumSeats, len(t.Seats))
	}

	players := make(map[string]bool)
	taken := make(map[int]bool)
	for i := range t.Seats {
		s := &t.Seats[i]
		if players[s.Name] {
			return fmt.Errorf("player %q seated twice", s.Name)
		}
		players[s.Name] = true
		if s.Chips <= 0 {
			return fmt.Errorf("player %q needs chips, got %d", s.Name, s.Chips)
		}
		if s.Agent == "" {
			s.Agent = AgentRandom
		}
		if !agentKinds[s.Agent] {
			return fmt.Errorf("player %q has unknown agent %q", s.Name, s.Agent)
		}
		if s.Position != nil {
			p := *s.Position
			if p < 0 || p >= game.NumSeats {
				return fmt.Errorf("player %q position %d out of range", s.Name, p)
			}
			if taken[p] {
				return fmt.Errorf("position %d taken twice", p)
			}
			taken[p] = true
		}
	}
	return nil
}

// Profile converts the table's game settings. A fixed-limit table without an
// explicit cap gets game.DefaultMaxRaises.
func (t TableConfig) Profile() (game.Profile, error) {
	p := game.Profile{
		Family:     game.Family(t.Game),
		Limit:      game.Limit(t.Limit),
		SmallBlind: t.SmallBlind,
		BigBlind:   t.BigBlind,
		Ante:       t.Ante,
	}
	switch {
	case t.MaxRaises != nil:
		p.MaxRaises = *t.MaxRaises
	case p.Limit == game.FixedLimit:
		p.MaxRaises = game.DefaultMaxRaises
	}
	if err := p.Validate(); err != nil {
		return game.Profile{}, err
	}
	return p, nil
}

// Positions returns the chair for each seat entry, in file order.
func (t TableConfig) Positions() []int {
	taken := make(map[int]bool)
	for _, s := range t.Seats {
		if s.Position != nil {
			taken[*s.Position] = true
		}
	}
	out := make([]int, len(t.Seats))
	next := 0
	for i, s := range t.Seats {
		if s.Position != nil {
			out[i] = *s.Position
			continue
		}
		for taken[next] {
			next++
		}
		out[i] = next
		taken[next] = true
	}
	return out
}
