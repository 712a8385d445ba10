package main

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/abelbrown/lineup/internal/config"
	"github.com/abelbrown/lineup/internal/fetch"
	"github.com/abelbrown/lineup/internal/logging"
	"github.com/abelbrown/lineup/internal/otel"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := config.ConfigPath()
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.LoadFrom(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) acquirer(cfg *config.Config) *fetch.Acquirer {
	return fetch.NewAcquirer(fetch.NewFetcher(cfg.FetchTimeout(), cfg.Fetch.UserAgent), cfg.MinReload())
}

// openEvents opens the JSONL event log, or a null logger when events are
// disabled or the file cannot be opened.
func (c *commandContext) openEvents(cfg *config.Config) *otel.Logger {
	if !cfg.Log.Events {
		return otel.NewNullLogger()
	}
	events, err := otel.OpenFile(config.EventLogPath())
	if err != nil {
		logging.Warn("event log disabled", "error", err)
		return otel.NewNullLogger()
	}
	return events
}

// sourceArg picks the positional source, falling back to the configured one.
func sourceArg(cfg *config.Config, args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0])
	}
	return cfg.Source
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
