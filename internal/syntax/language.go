package syntax

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// LanguageConfig bundles everything needed to highlight one language.
// It is immutable once built and shared by every document of the language.
type LanguageConfig struct {
	Name       string
	Extensions []string
	Lexer      chroma.Lexer
	Names      CaptureNames
	Query      *Query
}

// NewLanguageConfig looks up the chroma lexer lexerName and compiles rules
// against names.
func NewLanguageConfig(name, lexerName string, extensions []string, names CaptureNames, rules []Rule) (*LanguageConfig, error) {
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, lexerName)
	}
	query, err := NewQuery(names, rules)
	if err != nil {
		return nil, fmt.Errorf("language %s: %w", name, err)
	}
	exts := make([]string, len(extensions))
	for i, ext := range extensions {
		exts[i] = normalizeExtension(ext)
	}
	return &LanguageConfig{
		Name:       name,
		Extensions: exts,
		Lexer:      markLineStarts(lexer),
		Names:      names,
		Query:      query,
	}, nil
}

// Registry indexes language configurations by name and file extension.
// It cannot be modified after NewRegistry returns.
type Registry struct {
	byName      map[string]*LanguageConfig
	byExtension map[string]*LanguageConfig
}

// NewRegistry creates a registry. Later configurations win on extension
// conflicts.
func NewRegistry(configs ...*LanguageConfig) *Registry {
	r := &Registry{
		byName:      make(map[string]*LanguageConfig, len(configs)),
		byExtension: make(map[string]*LanguageConfig),
	}
	for _, cfg := range configs {
		r.byName[cfg.Name] = cfg
		for _, ext := range cfg.Extensions {
			r.byExtension[ext] = cfg
		}
	}
	return r
}

// Lookup returns the configuration for a file extension, with or without
// the leading dot.
func (r *Registry) Lookup(ext string) (*LanguageConfig, bool) {
	if ext == "" {
		return nil, false
	}
	cfg, ok := r.byExtension[normalizeExtension(ext)]
	return cfg, ok
}

// ForPath returns the configuration for a file path's extension.
func (r *Registry) ForPath(path string) (*LanguageConfig, bool) {
	return r.Lookup(filepath.Ext(path))
}

// ByName returns the configuration for a language name.
func (r *Registry) ByName(name string) (*LanguageConfig, bool) {
	cfg, ok := r.byName[strings.ToLower(name)]
	return cfg, ok
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry of built-in languages,
// building it on first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		configs, err := builtinLanguages()
		if err != nil {
			panic(fmt.Sprintf("syntax: built-in languages: %v", err))
		}
		defaultRegistry = NewRegistry(configs...)
	})
	return defaultRegistry
}
