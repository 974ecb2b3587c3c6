// Package config loads textengine settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A configuration file, TOML or YAML by extension (Load)
//  3. TEXTENGINE_* environment variables (EnvLoader)
//
// A file looks like:
//
//	[history]
//	grouping_window = "300ms"
//	max_entries = 0
//
//	[highlight]
//	mode = "incremental"
//	debounce = "150ms"
//	margin = 200
//
//	[logging]
//	level = "info"
//
// Durations are written as Go duration strings in both formats.
package config
