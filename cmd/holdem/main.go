package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/logging"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command. Their defaults come from the
// HOLDEM_* environment.
type Globals struct {
	LogLevel string `help:"Log level (debug, info, warn, error)" default:"${log_level}"`
	LogJSON  bool   `help:"Log JSON instead of console output" default:"${log_json}"`
	StateDir string `help:"Directory for saved tables and hand histories" default:"${state_dir}" type:"path"`
}

func (g *Globals) Logger() (zerolog.Logger, error) {
	return logging.New(logging.Options{Level: g.LogLevel, JSON: g.LogJSON})
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" help:"Play hands at a configured table"`
	Resume  ResumeCmd        `cmd:"" help:"Resume a saved table"`
	Tables  TablesCmd        `cmd:"" help:"List saved tables"`
	Equity  EquityCmd        `cmd:"" help:"Estimate showdown equity by simulation"`
	Eval    EvalCmd          `cmd:"" help:"Evaluate a poker hand"`
}

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Multi-way poker tables with side pots, suspend and resume"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":          version,
			"log_level":        env.LogLevel,
			"log_json":         strconv.FormatBool(env.LogJSON),
			"state_dir":        env.StateDir,
			"seed":             strconv.FormatInt(env.Seed, 10),
			"decision_timeout": env.DecisionTimeout.String(),
		},
	)
	err = ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
