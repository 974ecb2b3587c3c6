package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/textengine/internal/engine"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runTool(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunHighlight(t *testing.T) {
	path := writeTemp(t, "main.rs", "fn main() {\n    let x = 1;\n}\n")

	for _, mode := range []string{"debounced", "incremental"} {
		t.Run(mode, func(t *testing.T) {
			code, out, stderr := runTool(t, "-mode", mode, path)
			if code != 0 {
				t.Fatalf("exit %d: %s", code, stderr)
			}
			for _, want := range []string{"language rust, " + mode + " mode", `keyword`, `"fn"`, `"let"`, `number`} {
				if !strings.Contains(out, want) {
					t.Errorf("output lacks %q:\n%s", want, out)
				}
			}
			if strings.Contains(out, "not highlighted") {
				t.Errorf("every line should be highlighted:\n%s", out)
			}
		})
	}
}

func TestRunLanguageOverride(t *testing.T) {
	path := writeTemp(t, "script", "def f():\n    return None\n")

	code, out, _ := runTool(t, "-lang", "python", path)
	if code != 0 || !strings.Contains(out, "language python") {
		t.Errorf("exit %d, output:\n%s", code, out)
	}

	code, _, stderr := runTool(t, "-lang", "cobol", path)
	if code != 1 || !strings.Contains(stderr, "unknown language") {
		t.Errorf("exit %d, stderr: %s", code, stderr)
	}
}

func TestRunPlainText(t *testing.T) {
	path := writeTemp(t, "notes.txt", "just text")
	code, out, _ := runTool(t, path)
	if code != 0 || !strings.Contains(out, "no highlighting") {
		t.Errorf("exit %d, output:\n%s", code, out)
	}
}

func TestRunLines(t *testing.T) {
	path := writeTemp(t, "a.txt", "one\r\ntwo\r\n")
	code, out, _ := runTool(t, "-lines", path)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	for _, want := range []string{"3 lines", `\r\n line endings`, `"one"`, `"two"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "language") {
		t.Error("-lines alone should not print highlights")
	}
}

func TestRunWord(t *testing.T) {
	path := writeTemp(t, "w.txt", "hello   world")
	code, out, _ := runTool(t, "-word", "10", path)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	for _, want := range []string{`8-13 "world"`, "prev word   8", "next word   13"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRunConfig(t *testing.T) {
	src := writeTemp(t, "lib.go", "package lib\n")
	cfg := writeTemp(t, "textengine.yaml", "highlight:\n  mode: incremental\n")

	code, out, stderr := runTool(t, "-config", cfg, src)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(out, "incremental mode") {
		t.Errorf("config mode not applied:\n%s", out)
	}

	bad := writeTemp(t, "bad.toml", "[highlight\n")
	if code, _, stderr := runTool(t, "-config", bad, src); code != 1 || !strings.Contains(stderr, "parse error") {
		t.Errorf("exit %d, stderr: %s", code, stderr)
	}
}

func TestRunEnvironment(t *testing.T) {
	t.Setenv("TEXTENGINE_HIGHLIGHT_MODE", "incremental")
	src := writeTemp(t, "a.js", "const a = 1;\n")

	code, out, _ := runTool(t, src)
	if code != 0 || !strings.Contains(out, "incremental mode") {
		t.Errorf("exit %d, output:\n%s", code, out)
	}
	code, out, _ = runTool(t, "-mode", "debounced", src)
	if code != 0 || !strings.Contains(out, "debounced mode") {
		t.Errorf("flag should override the environment:\n%s", out)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no file", nil, 2},
		{"two files", []string{"a", "b"}, 2},
		{"unknown flag", []string{"-bogus", "a"}, 2},
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.rs")}, 1},
		{"bad mode", []string{"-mode", "eager", "x.rs"}, 1},
		{"bad level", []string{"-log-level", "loud", "x.rs"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runTool(t, tt.args...); code != tt.code {
				t.Errorf("exit %d, want %d", code, tt.code)
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runTool(t, "-version")
	if code != 0 || !strings.HasPrefix(out, "textengine dev") {
		t.Errorf("exit %d, output %q", code, out)
	}
}

func TestSessionReload(t *testing.T) {
	path := writeTemp(t, "r.rs", "fn a() {}\n")
	opts, err := parseFlags([]string{path}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		t.Fatal(err)
	}
	s, err := newSession(opts, cfg, []engine.Option{engine.WithPath(path)})
	if err != nil {
		t.Fatal(err)
	}
	defer s.doc.Close()

	if err := os.WriteFile(path, []byte("struct S;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.reload(); err != nil {
		t.Fatal(err)
	}
	if got := s.doc.Text(); got != "struct S;\n" {
		t.Errorf("reloaded text = %q", got)
	}
	if _, ok := s.doc.Undo(); !ok || s.doc.Text() != "fn a() {}\n" {
		t.Errorf("reload should be undoable, text %q", s.doc.Text())
	}

	var out bytes.Buffer
	s.report(&out)
	if !strings.Contains(out.String(), `"fn"`) {
		t.Errorf("report after undo:\n%s", out.String())
	}
}
