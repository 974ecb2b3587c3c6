// Package buffer provides a thread-safe, character-addressed text buffer
// built on top of the rope data structure. It is the storage layer the
// document facade mutates and the highlighter snapshots.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Character offsets on every public operation; byte offsets are only
//     exposed where a tokenizer needs them (LineByteRange, CharToByte)
//   - Line decomposition with half-open ranges that include the terminator
//   - Read-only snapshots for concurrent access
//   - Revision tracking for change management
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")               // "Hello, Beautiful World!"
//	buf.Remove(buffer.NewRange(0, 7))         // "Beautiful World!"
//	line, ok := buf.LineContent(0)            // "Beautiful World!", true
//
// Lines:
//
// Lines are separated by '\n'. LineRange(i) is [start, end) where end
// includes the '\n' for every line but the last, so the ranges of all lines
// tile [0, Len) without gaps. LineContent strips the '\n' and a preceding
// '\r'. A buffer always has at least one line, even when empty.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. For scenarios requiring multiple reads
// without the possibility of intervening writes, use Snapshot() to obtain a
// consistent read-only view.
package buffer
