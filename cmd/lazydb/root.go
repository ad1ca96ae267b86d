package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhath/lazydb/internal/app"
	"github.com/nhath/lazydb/internal/bus"
	"github.com/nhath/lazydb/internal/config"
	"github.com/nhath/lazydb/internal/dispatch"
	"github.com/nhath/lazydb/internal/event"
	"github.com/nhath/lazydb/internal/history"
	"github.com/nhath/lazydb/internal/logging"
	"github.com/nhath/lazydb/internal/tui"
	"github.com/nhath/lazydb/internal/ui/component"
	"github.com/nhath/lazydb/internal/ui/components"
)

type rootOptions struct {
	tickRate   float64
	frameRate  float64
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "lazydb",
		Short: "Browse and query SQL databases from the terminal",
		Long: `lazydb is a terminal client for PostgreSQL, MySQL and SQLite.

Pick a connection, browse schemas and tables, inspect table structure and
run queries. Connections live in the config file; see "lazydb connection".`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.SetVersionTemplate(`{{printf "lazydb version %s\n" .Version}}`)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or $XDG_CONFIG_HOME/lazydb/config.toml)")
	cmd.Flags().Float64Var(&opts.tickRate, "tick-rate", 4, "ticks per second")
	cmd.Flags().Float64Var(&opts.frameRate, "frame-rate", 60, "frames per second")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log at debug level")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConnectionCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	path, err := config.ResolvePath(opts.configPath)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func run(ctx context.Context, opts *rootOptions) error {
	if opts.tickRate <= 0 || opts.frameRate <= 0 {
		return errors.New("--tick-rate and --frame-rate must be positive")
	}

	logPath, err := logging.DefaultPath()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Open(logPath, opts.debug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	keys, err := cfg.KeyTable()
	if err != nil {
		return fmt.Errorf("keybindings: %w", err)
	}

	var recorder dispatch.Recorder
	if path, err := history.DefaultPath(); err != nil {
		logger.Warn("history disabled", "error", err)
	} else if store, err := history.NewStore(path); err != nil {
		logger.Warn("history disabled", "error", err)
	} else {
		defer store.Close()
		recorder = store
	}

	var secrets config.Secrets
	if store, err := config.NewKeyringStore(); err != nil {
		logger.Warn("keyring unavailable", "error", err)
	} else {
		secrets = store
	}

	events := bus.NewQueue[event.AppEvent]()
	defer events.Close()

	dispatcher := dispatch.New(dispatch.Options{
		Directory:    cfg,
		Secrets:      secrets,
		History:      recorder,
		Events:       events,
		Logger:       logger.With("component", "dispatch"),
		QueryTimeout: cfg.QueryTimeout.Duration,
	})

	registry := component.NewRegistry(logger)
	components.RegisterAll(registry)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	term := tui.Start(tui.Options{
		TickRate:  opts.tickRate,
		FrameRate: opts.frameRate,
		AltScreen: true,
	})

	logger.Info("starting", "version", version, "config", cfg.Path(), "connections", len(cfg.Connections))
	runErr := app.New(app.Options{
		Terminal:   term,
		Registry:   registry,
		Dispatcher: dispatcher,
		Events:     events,
		Config:     cfg,
		Keys:       keys,
		Logger:     logger,
	}).Run(ctx)

	if err := term.Stop(); err != nil {
		logger.Error("terminal", "error", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("exited with error", "error", runErr)
		return runErr
	}
	return nil
}
