package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// newLogger builds the job logger. While the TUI owns the terminal, logs go
// only to --log-file.
func newLogger(tuiActive bool) (*slog.Logger, func() error, error) {
	level, err := parseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if path := viper.GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return slog.New(slog.NewJSONHandler(f, opts)), f.Close, nil
	}

	var w io.Writer = os.Stderr
	if tuiActive {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, opts)), func() error { return nil }, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
