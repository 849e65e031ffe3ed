package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/barisgit/fluxdocs/internal/routes"
	"github.com/barisgit/fluxdocs/internal/watch"
	"github.com/barisgit/fluxdocs/offline"
)

func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate offline Swagger docs",
		Long:  "Build the route table from an OpenAPI document and write the Swagger 1.2 docs to the configured storage",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}

	cmd.Flags().StringP("config", "c", defaultConfigPath, "Settings file")
	cmd.Flags().String("from", "openapi.json", "OpenAPI document (JSON or YAML) describing the routes")
	cmd.Flags().Bool("watch", false, "Regenerate whenever the OpenAPI document changes")
	cmd.Flags().Bool("quiet", false, "Suppress output (for use in build scripts)")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := handleWorkDir(); err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString("config")
	source, _ := cmd.Flags().GetString("from")
	watching, _ := cmd.Flags().GetBool("watch")
	quiet, _ := cmd.Flags().GetBool("quiet")

	settings, err := loadSettings(configPath, false, quiet)
	if err != nil {
		return err
	}
	if err := offline.CheckSettings(*settings); err != nil {
		return err
	}

	logger := newLogger(cmd, quiet)
	generate := func(ctx context.Context) error {
		table, err := routes.LoadSpec(source)
		if err != nil {
			return fmt.Errorf("failed to load routes from %s: %w", source, err)
		}
		_, err = offline.Generate(ctx, *settings, table, offline.WithLogger(logger))
		return err
	}

	if !watching {
		return generate(cmd.Context())
	}

	if err := generate(cmd.Context()); err != nil {
		logger.Error(err.Error())
	}

	w, err := watch.New(source, watch.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(fmt.Sprintf("Watching %s for changes...", source))
	return w.Run(ctx, generate)
}
