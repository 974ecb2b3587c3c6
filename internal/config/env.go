package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// DefaultEnvPrefix is the prefix of the environment variables EnvLoader
// reads.
const DefaultEnvPrefix = "TEXTENGINE_"

// envBinding maps one environment variable, without its prefix, onto a
// setting.
type envBinding struct {
	name string
	set  func(cfg *Config, value string) error
}

var envBindings = []envBinding{
	{"GROUPING_WINDOW", func(c *Config, v string) error { return c.History.GroupingWindow.UnmarshalText([]byte(v)) }},
	{"MAX_UNDO", func(c *Config, v string) error { return setInt(&c.History.MaxEntries, v) }},
	{"HIGHLIGHT_MODE", func(c *Config, v string) error { c.Highlight.Mode = v; return nil }},
	{"DEBOUNCE", func(c *Config, v string) error { return c.Highlight.Debounce.UnmarshalText([]byte(v)) }},
	{"MARGIN", func(c *Config, v string) error { return setInt(&c.Highlight.Margin, v) }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Logging.Level = v; return nil }},
}

func setInt(dst *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer %q", value)
	}
	*dst = n
	return nil
}

// EnvLoader overlays environment variables on a configuration.
type EnvLoader struct {
	prefix string
	lookup func(string) (string, bool)
}

// NewEnvLoader creates a loader for variables named prefix + setting,
// e.g. TEXTENGINE_HIGHLIGHT_MODE.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, lookup: os.LookupEnv}
}

// Variables returns the names of the variables the loader reads.
func (l *EnvLoader) Variables() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = l.prefix + b.name
	}
	return names
}

// Apply sets every setting whose variable is present. Empty values are
// treated as set. All malformed variables are reported together and the
// result is validated.
func (l *EnvLoader) Apply(cfg *Config) error {
	var errs []error
	for _, b := range envBindings {
		name := l.prefix + b.name
		value, ok := l.lookup(name)
		if !ok {
			continue
		}
		if err := b.set(cfg, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return cfg.Validate()
}
