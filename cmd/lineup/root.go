package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/lineup/internal/lineup"
	"github.com/abelbrown/lineup/internal/logging"
	"github.com/abelbrown/lineup/internal/otel"
	"github.com/abelbrown/lineup/internal/ui"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var sports bool

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "lineup [source]",
		Short:         "Browse, search and pick channels from M3U playlists",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := sourceArg(cfg, args)
			if !isTerminal(cmd.OutOrStdout()) {
				return runList(cmd, ctx, source, listOptions{sports: sports})
			}
			return runTUI(cmd, ctx, source, sports || cfg.UI.SportsOnly)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().BoolVarP(&sports, "sports", "s", false, "Start with the sports filter on")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newEventsCommand())

	return rootCmd
}

func runTUI(cmd *cobra.Command, ctx *commandContext, source string, sports bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	// The TUI owns the terminal, so text logs go to a file.
	if err := logging.Init(cfg.LogDir(), cfg.Log.Level); err != nil {
		return err
	}
	defer logging.Close()

	events := ctx.openEvents(cfg)
	defer events.Close()
	recent := otel.NewRecent(otel.DefaultRecentSize)
	events.SetRecent(recent)
	events.Info(otel.KindStartup, "ui", "tui started")
	logging.Info("lineup starting", "source", source, "session", events.SessionID())

	runCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ctrl := lineup.NewController(events, "ui")
	app := ui.NewApp(ctrl, ui.NewLoader(runCtx, ctx.acquirer(cfg), events), ui.Options{
		Source:     source,
		SportsOnly: sports,
		ShowLogos:  cfg.UI.ShowLogos,
		Events:     events,
		Recent:     recent,
	})

	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(runCtx))
	_, err = program.Run()
	cancel()

	if err != nil {
		logging.Error("tui exited with error", "error", err)
		events.Error(otel.KindError, "ui", err)
	}
	events.Info(otel.KindShutdown, "ui", "tui stopped")
	return err
}
