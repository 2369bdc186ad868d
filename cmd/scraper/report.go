package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"go-jobradar/internal/reporter"

	"github.com/spf13/cobra"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the report of the last run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return &exitError{code: exitFailure, err: err}
		}
		r, err := reporter.ReadJSON(cfg.Server.ReportPath)
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no report at %s yet", cfg.Server.ReportPath)
		}
		if err != nil {
			return err
		}
		if reportJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		return reporter.Text(cmd.OutOrStdout(), r)
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the raw JSON report")
	rootCmd.AddCommand(reportCmd)
}
