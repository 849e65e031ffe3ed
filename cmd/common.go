package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barisgit/fluxdocs/config"
	"github.com/barisgit/fluxdocs/offline"
)

const defaultConfigPath = "docs.yaml"

// handleWorkDir changes to FLUXDOCS_WORK_DIR if set
func handleWorkDir() error {
	workDir := os.Getenv("FLUXDOCS_WORK_DIR")
	if workDir != "" {
		if err := os.Chdir(workDir); err != nil {
			return fmt.Errorf("failed to change to work directory %s: %w", workDir, err)
		}
	}
	return nil
}

func getConfigPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultConfigPath
}

func newLogger(cmd *cobra.Command, quiet bool) offline.Logger {
	if quiet {
		return offline.NopLogger{}
	}
	return offline.NewConsoleLogger(cmd.OutOrStdout())
}

func loadSettings(path string, allowMissing, quiet bool) (*config.Settings, error) {
	options := config.DefaultLoadOptions()
	options.Path = path
	options.AllowMissing = allowMissing
	options.Quiet = quiet
	return config.NewConfigManager(options).LoadSettings()
}
