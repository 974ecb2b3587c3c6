// Package main is the textengine diagnostic tool. It loads a file into a
// Document and prints its highlight spans, line table or word boundaries.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/textengine/internal/config"
	"github.com/dshills/textengine/internal/engine"
	"github.com/dshills/textengine/internal/highlight"
	"github.com/dshills/textengine/internal/logging"
	"github.com/dshills/textengine/internal/syntax"
	"github.com/dshills/textengine/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	mode        string
	logLevel    string
	language    string
	highlight   bool
	lines       bool
	word        int
	watch       bool
	showVersion bool
	file        string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	opts := options{word: -1}
	fs := flag.NewFlagSet("textengine", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML or YAML configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.mode, "mode", "", "Highlight mode (debounced, incremental)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.language, "lang", "", "Language name, overriding the file extension")
	fs.BoolVar(&opts.highlight, "highlight", false, "Print highlight spans per line (default action)")
	fs.BoolVar(&opts.lines, "lines", false, "Print the line table")
	fs.IntVar(&opts.word, "word", -1, "Print word boundaries around a character offset")
	fs.BoolVar(&opts.watch, "watch", false, "Reprint whenever the file changes")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "textengine - text engine diagnostics\n\n")
		fmt.Fprintf(stderr, "Usage: textengine [options] FILE\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  textengine main.rs                  Print highlight spans\n")
		fmt.Fprintf(stderr, "  textengine -mode incremental lib.rs Highlight on demand\n")
		fmt.Fprintf(stderr, "  textengine -word 42 main.go         Word boundaries at offset 42\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.showVersion {
		return opts, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errors.New("expected exactly one file")
	}
	opts.file = fs.Arg(0)
	if !opts.lines && opts.word < 0 {
		opts.highlight = true
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "textengine %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel(), Output: stderr, Prefix: "textengine"})
	logging.SetDefault(logger)

	docOpts := []engine.Option{engine.WithConfig(cfg), engine.WithLogger(logger)}
	if opts.language != "" {
		lang, ok := syntax.DefaultRegistry().ByName(opts.language)
		if !ok {
			fmt.Fprintf(stderr, "Error: unknown language %q (known: %s)\n",
				opts.language, strings.Join(syntax.DefaultRegistry().Languages(), ", "))
			return 1
		}
		docOpts = append(docOpts, engine.WithLanguage(lang))
	} else {
		docOpts = append(docOpts, engine.WithPath(opts.file))
	}

	s, err := newSession(opts, cfg, docOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer s.doc.Close()

	s.report(stdout)
	if !opts.watch {
		return 0
	}
	if err := s.watch(ctx, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig layers the config file, the environment and flags.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(config.OSFS{}, opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.NewEnvLoader(config.DefaultEnvPrefix).Apply(cfg); err != nil {
		return nil, err
	}
	if opts.mode != "" {
		cfg.Highlight.Mode = opts.mode
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is a loaded document plus the scheduler driving its highlighter.
// The tool advances the scheduler itself so output never races the
// debounce timer.
type session struct {
	opts  options
	cfg   *config.Config
	sched *highlight.ManualScheduler
	doc   *engine.Document
}

func newSession(opts options, cfg *config.Config, docOpts []engine.Option) (*session, error) {
	f, err := os.Open(opts.file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sched := highlight.NewManualScheduler()
	doc, err := engine.NewFromReader(f, append(docOpts, engine.WithScheduler(sched))...)
	if err != nil {
		return nil, err
	}
	return &session{opts: opts, cfg: cfg, sched: sched, doc: doc}, nil
}

// settle runs the pending highlight job, if any.
func (s *session) settle() {
	s.sched.Advance(s.cfg.Highlight.Debounce.Duration)
}

func (s *session) report(w io.Writer) {
	if s.opts.lines {
		printLines(w, s.doc)
	}
	if s.opts.word >= 0 {
		printWord(w, s.doc, s.opts.word)
	}
	if s.opts.highlight {
		s.settle()
		printHighlights(w, s.doc)
	}
}

// reload replaces the document content as one undoable edit.
func (s *session) reload() error {
	data, err := os.ReadFile(s.opts.file)
	if err != nil {
		return err
	}
	all := engine.Range{Start: 0, End: s.doc.Len()}
	_, err = s.doc.Replace(all, string(data))
	return err
}

func (s *session) watch(ctx context.Context, w io.Writer, logger *logging.Logger) error {
	watcher, err := watch.New(watch.WithLogger(logger.WithComponent("watch")))
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(s.opts.file); err != nil {
		return err
	}
	logger.Info("watching %s", s.opts.file)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if ev.Op.Has(watch.OpRemove) {
				logger.Warn("%s was removed", ev.Path)
				continue
			}
			if err := s.reload(); err != nil {
				logger.Error("reload %s: %v", ev.Path, err)
				continue
			}
			fmt.Fprintf(w, "\n--- %s changed (%s)\n", s.opts.file, ev.Op)
			s.report(w)
		case err, ok := <-watcher.Errors():
			if ok {
				logger.Warn("watch: %v", err)
			}
		}
	}
}
