package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barisgit/fluxdocs/internal/docgen"
	"github.com/barisgit/fluxdocs/internal/routes"
	"github.com/barisgit/fluxdocs/internal/swagger"
	"github.com/barisgit/fluxdocs/offline"
)

func PreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [path]",
		Short: "Print the resource document of one path",
		Long:  "Generate the Swagger 1.2 document of a single resource path and print it without touching storage",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPreview,
	}

	cmd.Flags().StringP("config", "c", defaultConfigPath, "Settings file (optional)")
	cmd.Flags().String("from", "openapi.json", "OpenAPI document (JSON or YAML) describing the routes")
	cmd.Flags().Bool("listing", false, "Print the resource listing instead")

	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := handleWorkDir(); err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString("config")
	source, _ := cmd.Flags().GetString("from")
	listing, _ := cmd.Flags().GetBool("listing")

	settings, err := loadSettings(configPath, true, true)
	if err != nil {
		return err
	}

	table, err := routes.LoadSpec(source)
	if err != nil {
		return fmt.Errorf("failed to load routes from %s: %w", source, err)
	}

	builder := offline.New(*settings, table, docgen.New(), nil, offline.WithLogger(offline.NopLogger{}))

	var doc interface{}
	if listing {
		doc, err = builder.ResourceListing(cmd.Context())
	} else {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		doc, err = builder.GenerateOne(cmd.Context(), path)
	}
	if err != nil {
		return err
	}

	data, err := swagger.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode docs: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
