package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abelbrown/lineup/internal/filter"
	"github.com/abelbrown/lineup/internal/lineup"
	"github.com/abelbrown/lineup/internal/logging"
	"github.com/abelbrown/lineup/internal/playlist"
)

type listOptions struct {
	query  string
	sports bool
	json   bool
	unique bool
	groups []string
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list [source]",
		Short: "Print the channels of a playlist",
		Long: `Load a playlist, apply the search query and sports toggle, and print
the visible channels. The first visible channel is marked as selected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runList(cmd, ctx, sourceArg(cfg, args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Case-insensitive search on name and group")
	cmd.Flags().BoolVarP(&opts.sports, "sports", "s", false, "Only football and sports channels")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.unique, "unique", false, "Drop channels whose stream URL was already listed")
	cmd.Flags().StringSliceVarP(&opts.groups, "group", "g", nil, "Only these groups (repeatable)")
	return cmd
}

// listResult is the JSON shape of "lineup list --json".
type listResult struct {
	lineup.Snapshot
	Status string `json:"status"`
}

func runList(cmd *cobra.Command, ctx *commandContext, source string, opts listOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logging.SetOutput(cmd.ErrOrStderr(), cfg.Log.Level)

	events := ctx.openEvents(cfg)
	defer events.Close()

	// Filters go in first so the load selects the first visible channel.
	ctrl := lineup.NewController(events, "cli")
	ctrl.OnCategoryToggle(opts.sports)
	ctrl.OnQueryChange(opts.query)
	snap, err := ctrl.LoadSource(cmd.Context(), ctx.acquirer(cfg), source)
	if err != nil {
		return err
	}

	// Group and URL narrowing are presentation-only and do not touch the state.
	visible := snap.Visible
	if len(opts.groups) > 0 {
		visible = filter.ByGroup(visible, opts.groups)
	}
	if opts.unique {
		visible = filter.DedupURL(visible)
	}
	snap.Visible = visible

	if opts.json {
		return writeJSON(cmd, listResult{Snapshot: snap, Status: snap.Status()})
	}

	out := cmd.OutOrStdout()
	if snap.Empty() {
		fmt.Fprintln(out, lineup.EmptyMessage)
		fmt.Fprintln(out, snap.Status())
		return nil
	}
	fmt.Fprintln(out, renderChannels(visible, snap.SelectedURL))
	fmt.Fprintln(out, snap.Status())
	return nil
}

func renderChannels(channels []playlist.Channel, selectedURL string) string {
	columns := []columnSpec{
		{Header: "#", Align: alignRight},
		{Header: "", Align: alignLeft},
		{Header: "Name", Align: alignLeft, MaxWidth: 40},
		{Header: "Group", Align: alignLeft, MaxWidth: 20},
		{Header: "Stream URL", Align: alignLeft, MaxWidth: 60},
	}
	rows := make([][]string, 0, len(channels))
	for i, c := range channels {
		marker := ""
		if selectedURL != "" && c.StreamURL == selectedURL {
			marker = "▶"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), marker, c.Name, c.Group, c.StreamURL})
	}
	return renderTable(columns, rows)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
