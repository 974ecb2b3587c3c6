package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/textengine/internal/engine/history"
	"github.com/dshills/textengine/internal/highlight"
	"github.com/dshills/textengine/internal/logging"
)

// Config holds every textengine setting.
type Config struct {
	History   HistoryConfig   `toml:"history" yaml:"history"`
	Highlight HighlightConfig `toml:"highlight" yaml:"highlight"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
}

// HistoryConfig configures undo grouping.
type HistoryConfig struct {
	// GroupingWindow merges edits closer together than this into one undo
	// step. Zero disables grouping.
	GroupingWindow Duration `toml:"grouping_window" yaml:"grouping_window"`
	// MaxEntries bounds the undo stack. Zero means unbounded.
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`
}

// HighlightConfig configures syntax highlighting.
type HighlightConfig struct {
	// Mode is "debounced" or "incremental".
	Mode     string   `toml:"mode" yaml:"mode"`
	Debounce Duration `toml:"debounce" yaml:"debounce"`
	// Margin is how many lines past a query the incremental mode parses.
	Margin int `toml:"margin" yaml:"margin"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			GroupingWindow: Duration{history.DefaultGroupingWindow},
		},
		Highlight: HighlightConfig{
			Mode:     highlight.ModeDebounced.String(),
			Debounce: Duration{highlight.DefaultDebounce},
			Margin:   highlight.DefaultMargin,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every unusable setting. The error wraps
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	if c.History.GroupingWindow.Duration < 0 {
		errs = append(errs, fmt.Errorf("history.grouping_window must not be negative, got %s", c.History.GroupingWindow))
	}
	if c.History.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("history.max_entries must not be negative, got %d", c.History.MaxEntries))
	}
	if _, err := highlight.ParseMode(c.Highlight.Mode); err != nil {
		errs = append(errs, fmt.Errorf("highlight.mode: %w", err))
	}
	if c.Highlight.Debounce.Duration < 0 {
		errs = append(errs, fmt.Errorf("highlight.debounce must not be negative, got %s", c.Highlight.Debounce))
	}
	if c.Highlight.Margin < 0 {
		errs = append(errs, fmt.Errorf("highlight.margin must not be negative, got %d", c.Highlight.Margin))
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// HighlightMode returns the parsed highlight mode, falling back to
// debounced.
func (c *Config) HighlightMode() highlight.Mode {
	mode, err := highlight.ParseMode(c.Highlight.Mode)
	if err != nil {
		return highlight.ModeDebounced
	}
	return mode
}

// LogLevel returns the parsed logging level, falling back to info.
func (c *Config) LogLevel() logging.Level {
	level, ok := logging.ParseLevel(c.Logging.Level)
	if !ok {
		return logging.LevelInfo
	}
	return level
}

// Duration is a time.Duration written as a string such as "300ms".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}
