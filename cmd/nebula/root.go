package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/charlesng35/nebula/internal/app"
)

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "nebula",
		Short:         "Nebula admin panel backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration directory or file")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newResourcesCommand(opts))
	return root
}

func (o *rootOptions) loadConfig() (*app.Config, error) {
	path := strings.TrimSpace(o.configPath)
	if path == "" {
		return app.LoadConfig()
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
	return app.LoadConfig(path)
}
