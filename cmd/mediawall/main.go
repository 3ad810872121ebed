// Package main starts the media wall HTTP server.
package main

import (
	"fmt"
	"mediawall/internal/di"
	"mediawall/internal/structures"
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &structures.CliFlags{}

	cmd := &cobra.Command{
		Use:   "mediawall",
		Short: "Serve the looping media wall",
		Long: `mediawall streams the videos and images of a media directory to the
wall player and keeps the likes and suggestion ledgers next to it.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := di.InitApp(flags)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}

	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	cmd.Flags().BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to the console at debug level")
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
