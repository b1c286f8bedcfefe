// Package watcher abstracts filesystem change notification into a
// stream of file-appeared events, so the ingestion pipeline never talks
// to an OS notification API directly and can be driven by a synthetic
// source in tests.
package watcher

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Event reports a file that appeared in a watched root.
type Event struct {
	Root string // the watched folder
	Path string // absolute path of the new file
}

// Source emits file-appeared events for a set of watched roots.
type Source interface {
	// Events returns the event stream. The channel is closed when the
	// source is closed or fails.
	Events() <-chan Event
	// Close stops watching and releases resources.
	Close() error
}

// FSSource is a Source backed by OS filesystem notifications. Only
// create events in the immediate root (non-recursive) are reported.
type FSSource struct {
	fw     *fsnotify.Watcher
	events chan Event
	done   chan struct{}
}

var _ Source = (*FSSource)(nil)

// NewFSSource starts watching the given roots.
func NewFSSource(roots []string) (*FSSource, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting watcher: %w", err)
	}
	for _, root := range roots {
		if err := fw.Add(root); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", root, err)
		}
	}

	s := &FSSource{
		fw:     fw,
		events: make(chan Event),
		done:   make(chan struct{}),
	}
	go s.loop()
	return s, nil
}

func (s *FSSource) loop() {
	defer close(s.events)
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.fw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Create) {
				continue
			}
			out := Event{Root: filepath.Dir(ev.Name), Path: ev.Name}
			select {
			case s.events <- out:
			case <-s.done:
				return
			}
		case _, ok := <-s.fw.Errors:
			// Watch errors are not per-file failures; the pipeline
			// keeps running on whatever events still arrive.
			if !ok {
				return
			}
		}
	}
}

// Events implements Source.
func (s *FSSource) Events() <-chan Event { return s.events }

// Close implements Source.
func (s *FSSource) Close() error {
	close(s.done)
	return s.fw.Close()
}
