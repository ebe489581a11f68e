// Package cli implements the ucsboard command line.
package cli

import (
	"fmt"
	"os"

	"ucsboard/internal/config"
	"ucsboard/internal/repository/sqlite"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
}

// NewRootCmd builds the ucsboard command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ucsboard",
		Short: "ucsboard: author weighted graphs and replay uniform-cost searches",
		Long: Brand.Sprint("ucsboard") + ": author weighted directed graphs, pick start and goal nodes,\n" +
			"run a uniform-cost search on an external service and replay it step by step.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("ucsboard {{ .Version }}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: search standard locations)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path for saved trees")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(opts),
		treesCmd(opts),
		replayCmd(),
	)

	return cmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		Bad.Fprintf(os.Stderr, "ucsboard: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies persistent flag overrides
func (o *rootOptions) loadConfig() (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if o.configPath != "" {
		cfg, path, err = config.LoadFromPath(o.configPath)
		if err == nil {
			cfg.ApplyEnv()
		}
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}

	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, path, nil
}

// openStore opens the saved-tree database named by the config
func (o *rootOptions) openStore() (*sqlite.Repository, error) {
	cfg, _, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	return repo, nil
}
