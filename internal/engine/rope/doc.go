// Package rope provides an immutable rope for character-addressed text storage.
//
// A rope is a balanced tree whose leaves hold bounded text chunks and whose
// internal nodes cache aggregated metrics (bytes, characters, newlines) for
// their subtrees. The metrics make byte/character/line conversions O(log n)
// without scanning the whole text. This implementation uses a B+ tree variant
// for better cache locality and worst-case behaviour.
//
// Key features:
//   - O(log n) insertion, deletion and slicing
//   - Immutable operations return new ropes; originals are never modified
//   - Character and line indexing via aggregated metrics
//   - Copy-on-write semantics make snapshots free
//   - Safe for concurrent readers
//
// Offsets in this package are byte offsets unless a method name says Char.
// Lines are separated by '\n' only; a trailing '\r' belongs to its line.
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")           // "hello, world"
//	r = r.Delete(0, 7)             // "world"
//	b := r.CharToByte(2)           // 2
//	text := r.String()             // "world"
package rope
