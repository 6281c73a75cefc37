package main

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ent0n29/memoir/internal/app"
	"github.com/ent0n29/memoir/internal/config"
)

type rootOptions struct {
	envFile  string
	logLevel string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "memoir",
		Short: "Storytelling companion that turns conversations into a life story",
		Long: `memoir interviews a person about their life, one question at a time,
and assembles the answers and written notes into a biography.

Configuration comes from the environment, optionally seeded from a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(opts.envFile)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading configuration")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override APP_LOG_LEVEL (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newChatCmd(opts),
		newBiographyCmd(opts),
		newNotesCmd(opts),
	)
	return cmd
}

// loadEnvFile applies path without overriding variables already set. A missing
// file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return pkgerrors.Wrapf(err, "load %s", path)
	}
	return nil
}

func (o *rootOptions) config() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, pkgerrors.Wrap(err, "config error")
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

// buildOneShot wires the application for a single CLI command. Metrics go to
// a private registry and logs to the command's stderr.
func (o *rootOptions) buildOneShot(cmd *cobra.Command) (*app.BuildResult, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	return app.Build(commandContext(cmd), cfg, app.Options{
		Logger:     app.NewLogger(cfg, cmd.ErrOrStderr()),
		Registerer: prometheus.NewRegistry(),
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
