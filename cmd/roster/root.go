package main

import (
	"fmt"

	"github.com/okian/cancha/internal/config"
	"github.com/okian/cancha/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

// settings is filled by the root command before any subcommand runs.
type settings struct {
	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Offline player ratings, team balancing and match evaluation",
		Long: `roster works on YAML roster files.

It computes OVR ratings, splits a squad into two balanced teams and applies
post-match growth from a performances file. Formats, tags, the default
evaluation mode and the balancing strategy come from the same configuration
as the server (--config, or CANCHA_CONFIG and CANCHA_* variables).`,
		Version:      version,
		SilenceUsage: true,
	}

	var s settings
	logLevel := cmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	configPath := cmd.PersistentFlags().String("config", "", "Config YAML file (default: $"+config.EnvFile+")")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithoutSource()); err != nil {
			return err
		}
		if err := logger.SetLevelString(*logLevel); err != nil {
			return err
		}
		var err error
		if *configPath != "" {
			s.cfg, err = config.LoadFile(cmd.Context(), *configPath)
		} else {
			s.cfg, err = config.Load(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	}

	cmd.AddCommand(newOvrCommand())
	cmd.AddCommand(newBalanceCommand(&s))
	cmd.AddCommand(newEvaluateCommand(&s))

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
