package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/charlesng35/nebula/internal/admin"
	"github.com/charlesng35/nebula/internal/app"
	"github.com/charlesng35/nebula/internal/panel"
	"github.com/charlesng35/nebula/pkg/logger"
)

func newResourcesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the registered admin resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return listResources(cmd.OutOrStdout(), cfg)
		},
	}
}

func listResources(out io.Writer, cfg *app.Config) error {
	if err := logger.Configure("error", cfg.Server.LogFormat); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	db, err := initialiseDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, logger.WithModule("database"))

	p, err := admin.NewPanel(db, cfg.Panel.Namespaces...)
	if err != nil {
		logger.WithModule("bootstrap").Error("panel build failed", zap.Error(err))
		return fmt.Errorf("build panel: %w", err)
	}
	return writeNavigation(out, p.Navigation())
}

func writeNavigation(out io.Writer, items []panel.NavigationItem) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMODEL\tSINGULAR\tPLURAL\tICON")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", item.Name, item.Model, item.Singular, item.Plural, item.Icon)
	}
	return tw.Flush()
}
