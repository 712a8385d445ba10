// Package metrics exposes prometheus instruments for playlist loads and
// state commands. Served by `lineup serve` at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Playlist metrics
var (
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineup_loads_total",
			Help: "Total number of playlist loads by outcome",
		},
		[]string{"status"}, // "ok", "error"
	)

	LoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lineup_load_duration_seconds",
			Help:    "Time to acquire and parse a playlist",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ChannelsParsedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lineup_channels_parsed_total",
			Help: "Total number of channels accepted by the parser",
		},
	)

	EntriesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineup_entries_skipped_total",
			Help: "EXTINF entries dropped by the parser",
		},
		[]string{"reason"}, // "missing_url", "bad_scheme"
	)
)

// State metrics
var (
	ChannelsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lineup_channels",
			Help: "Channels in the currently loaded playlist",
		},
	)

	VisibleChannels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lineup_visible_channels",
			Help: "Channels passing the current filters",
		},
	)

	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineup_commands_total",
			Help: "State commands dispatched",
		},
		[]string{"command"}, // "load", "query", "category", "select"
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineup_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)
