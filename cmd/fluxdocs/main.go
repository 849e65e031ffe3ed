package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barisgit/fluxdocs/cmd"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "fluxdocs",
		Short:   "fluxdocs - Offline Swagger docs generator",
		Long:    `fluxdocs renders the routes of a Go API as Swagger 1.2 documents and stores them for offline serving.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("📚 fluxdocs CLI v" + version)
			fmt.Println("Run 'fluxdocs --help' for available commands")
		},
	}

	rootCmd.AddCommand(cmd.GenerateCmd())
	rootCmd.AddCommand(cmd.PreviewCmd())
	rootCmd.AddCommand(cmd.ServeCmd())
	rootCmd.AddCommand(cmd.ConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
