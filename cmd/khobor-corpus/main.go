package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/khobor-corpus/internal/config"
	"github.com/Adda-Baaj/khobor-corpus/internal/logger"
	"github.com/Adda-Baaj/khobor-corpus/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-corpus/pkg/sites"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitSkipped = 2
)

// exitError carries a specific process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

// cli holds what every subcommand shares. client is only set by tests.
type cli struct {
	out     io.Writer
	cfgFile string
	verbose bool
	client  httpclient.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(&cli{out: os.Stdout}).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "khobor-corpus:", err)
	}
	os.Exit(exitCode(err))
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "khobor-corpus",
		Short: "Build a plain-text news corpus from configured sites",
		Long: `khobor-corpus discovers article links on news listing pages, extracts the
title, publication date and body paragraphs of each article, and writes them
to {root}/{site}/{DD-MM-YYYY}/{slug}.txt for downstream dataset tooling.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file path (default: ./khobor-corpus.yaml or ./configs/khobor-corpus.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.scrapeCmd())
	root.AddCommand(c.sitesCmd())
	root.AddCommand(c.datasetCmd())
	root.AddCommand(c.runsCmd())
	root.SetOut(c.out)
	return root
}

// loadConfig reads configuration and applies the global flags.
func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the process logger; the returned func flushes it.
func newLogger(cfg *config.Config) (logger.Logger, func(), error) {
	log, err := logger.New(cfg.LoggerOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return log, func() { _ = log.Sync() }, nil
}

// loadSites returns the configured site registry, or the built-in one.
func loadSites(cfg *config.Config) (*sites.Registry, error) {
	if cfg.Sites.File == "" {
		return sites.DefaultRegistry()
	}
	reg, err := sites.LoadRegistry(cfg.Sites.File)
	if err != nil {
		return nil, fmt.Errorf("load sites: %w", err)
	}
	return reg, nil
}
