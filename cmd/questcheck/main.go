// questcheck infers parameter domains across a world's templates, quests
// and placed objects and reports every binding or reference that cannot
// be satisfied.
// Usage: questcheck <command> [flags] [world_directory]
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/questcheck/config"
	"github.com/nathoo/questcheck/engine"
	"github.com/nathoo/questcheck/engine/world"
	"github.com/nathoo/questcheck/loader"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "questcheck",
		Short:         "Parameter domain inference and reference checks for quest worlds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("questcheck %s (commit %s, built %s)\n", version, commit, date))
	root.PersistentFlags().StringVar(&configPath, "config", config.FileName, "config file")

	root.AddCommand(
		checkCmd(),
		paramsCmd(),
		kindsCmd(),
		inspectCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := root.Execute(); err != nil {
		var fe failedError
		if !errors.As(err, &fe) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// failedError makes the process exit non-zero without printing anything
// beyond what the command already wrote.
type failedError struct{ count int }

func (e failedError) Error() string { return fmt.Sprintf("%d problems found", e.count) }

// session is the state every world command starts from.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	defs   *world.Defs
	engine *engine.Engine
}

// openWorld loads the config and the world named by args (or by the config
// when args is empty) and builds an engine over it.
func openWorld(args []string) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	dir := cfg.World
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return nil, errors.New("no world directory given (pass one or set world in " + config.FileName + ")")
	}

	defs, err := loader.Load(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}
	eng := engine.New(defs, logger)
	eng.SetSuggest(cfg.Suggest)
	return &session{cfg: cfg, logger: logger, defs: defs, engine: eng}, nil
}
