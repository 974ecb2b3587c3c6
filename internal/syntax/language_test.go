package syntax

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistryLookup(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		ext  string
		want string
		ok   bool
	}{
		{".rs", "rust", true},
		{"rs", "rust", true},
		{".RS", "rust", true},
		{".go", "go", true},
		{".tsx", "typescript", true},
		{".mjs", "javascript", true},
		{".py", "python", true},
		{".txt", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		cfg, ok := reg.Lookup(tt.ext)
		if ok != tt.ok || (ok && cfg.Name != tt.want) {
			t.Errorf("Lookup(%q) = %v, %v; want %q, %v", tt.ext, cfg, ok, tt.want, tt.ok)
		}
	}
}

func TestRegistryForPathAndName(t *testing.T) {
	reg := DefaultRegistry()
	if cfg, ok := reg.ForPath("/src/main.go"); !ok || cfg.Name != "go" {
		t.Errorf("ForPath(main.go) = %v, %v", cfg, ok)
	}
	if _, ok := reg.ForPath("Makefile"); ok {
		t.Error("ForPath(Makefile) should not match")
	}
	if cfg, ok := reg.ByName("Rust"); !ok || cfg.Name != "rust" {
		t.Errorf("ByName(Rust) = %v, %v", cfg, ok)
	}
	want := []string{"go", "javascript", "python", "rust", "typescript"}
	if got := reg.Languages(); !reflect.DeepEqual(got, want) {
		t.Errorf("Languages() = %v, want %v", got, want)
	}
}

func TestDefaultRegistryShared(t *testing.T) {
	a, _ := DefaultRegistry().Lookup("rs")
	b, _ := DefaultRegistry().Lookup("rs")
	if a != b {
		t.Error("language configurations should be shared by reference")
	}
}

func TestNewLanguageConfigUnknownLexer(t *testing.T) {
	_, err := NewLanguageConfig("nope", "definitely-not-a-lexer", []string{"nope"}, StandardNames, nil)
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("expected ErrUnknownLanguage, got %v", err)
	}
}
