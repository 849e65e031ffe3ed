// Package dev lets applications embed offline docs generation in their own
// cobra CLI.
package dev

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/spf13/cobra"

	"github.com/barisgit/fluxdocs/config"
	"github.com/barisgit/fluxdocs/internal/routes"
	"github.com/barisgit/fluxdocs/offline"
)

// AddOfflineDocsCommand adds an "offline-docs" command to a cobra CLI.
// The routes are read from the live Huma API, so no OpenAPI file or running
// server is needed.
func AddOfflineDocsCommand(cli *cobra.Command, apiProvider func() huma.API) {
	offlineDocsCmd := &cobra.Command{
		Use:   "offline-docs",
		Short: "Generate offline Swagger docs",
		Long:  "Generate Swagger 1.2 docs from your Huma API and write them to the configured storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			quiet, _ := cmd.Flags().GetBool("quiet")

			options := config.DefaultLoadOptions()
			options.Path = configPath
			options.Quiet = quiet
			settings, err := config.NewConfigManager(options).LoadSettings()
			if err != nil {
				return err
			}

			api := apiProvider()
			if api == nil {
				return fmt.Errorf("failed to get API instance")
			}

			table, err := routes.FromHuma(api)
			if err != nil {
				return err
			}

			var logger offline.Logger = offline.NewConsoleLogger(cmd.OutOrStdout())
			if quiet {
				logger = offline.NopLogger{}
			}

			result, err := offline.Generate(cmd.Context(), *settings, table, offline.WithLogger(logger))
			if err != nil {
				return err
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Offline docs written (%d resources)\n", len(result.Listing.APIs))
			}
			return nil
		},
	}

	offlineDocsCmd.Flags().StringP("config", "c", "docs.yaml", "Settings file")
	offlineDocsCmd.Flags().Bool("quiet", false, "Suppress output")

	cli.AddCommand(offlineDocsCmd)
}
