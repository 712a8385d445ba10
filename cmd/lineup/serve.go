package main

import (
	"github.com/spf13/cobra"

	"github.com/abelbrown/lineup/internal/lineup"
	"github.com/abelbrown/lineup/internal/logging"
	"github.com/abelbrown/lineup/internal/otel"
	"github.com/abelbrown/lineup/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Expose the filter and selection state over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logging.SetOutput(cmd.ErrOrStderr(), cfg.Log.Level)
			if addr == "" {
				addr = cfg.Server.Addr
			}

			events := ctx.openEvents(cfg)
			defer events.Close()
			events.Info(otel.KindStartup, "server", "listening on "+addr)

			acq := ctx.acquirer(cfg)
			ctrl := lineup.NewController(events, "server")
			ctrl.OnCategoryToggle(cfg.UI.SportsOnly)

			// A bad startup source is not fatal; clients can POST /load.
			if source := sourceArg(cfg, args); source != "" {
				if _, err := ctrl.LoadSource(cmd.Context(), acq, source); err != nil {
					logging.Warn("initial load failed", "source", source, "error", err)
				}
			}

			err = server.New(ctrl, acq, events).ListenAndServe(cmd.Context(), addr)
			events.Info(otel.KindShutdown, "server", "stopped")
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
