// Package highlight keeps syntax highlight spans for a live document.
//
// Two engines share one contract: edits never block on highlighting, and
// readers see a version-stamped, immutable Cache that is replaced with a
// single atomic pointer swap.
//
//   - Debounced recomputes the whole document after a quiet period and
//     replaces the cache wholesale.
//   - Incremental keeps a syntax.Tree plus a per-line cache. An edit
//     evicts every line from its start line to the end of the document;
//     queries lazily extend the tree and populate the lines they touch.
//
// Every edit advances a generation counter. Work computed for an older
// generation is discarded at apply time, so a slow job can never overwrite
// newer state.
//
// Timers come from a Scheduler. TimerScheduler wraps time.AfterFunc;
// ManualScheduler drives time by hand in tests.
package highlight
