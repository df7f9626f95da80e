// Package watch keeps a remote script in sync with a project directory.
//
// A Watcher turns fsnotify events into debounced batches. A Queue owns the
// pending updates: it classifies every batch and hands the whole pending set
// to the Driver whenever the Driver is ready for it. The Driver resolves the
// updates against the files on disk and sends one partial update per cycle.
// Run wires the three together for the lifetime of a context.
package watch
