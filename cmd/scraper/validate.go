package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load, validate and print the resolved configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return &exitError{code: exitFailure, err: err}
		}
		redacted := *cfg
		if redacted.Telegram.Token != "" {
			redacted.Telegram.Token = "***"
		}
		if redacted.Database.URL != "" {
			redacted.Database.URL = "***"
		}
		if redacted.Lock.RedisURL != "" {
			redacted.Lock.RedisURL = "***"
		}
		out, err := yaml.Marshal(&redacted)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		fmt.Fprintf(cmd.ErrOrStderr(), "✅ config OK, enabled platforms: %v\n", cfg.Platforms.Enabled())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
