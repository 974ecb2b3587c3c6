// Package watch reports changes to individual files.
//
// A Watcher observes the directory of each watched file, so files that
// editors replace by rename are still followed. Bursts of events for one
// file are coalesced into a single Event after a quiet delay.
package watch
