// Package orchestrator drives the ingestion pipeline: it reacts to
// file-appeared events per watched folder, normalizes each trial
// balance and consolidates it into the folder's master ledger.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/acertijo-dev/balanza/internal/ledger"
	"github.com/acertijo-dev/balanza/internal/model"
	"github.com/acertijo-dev/balanza/internal/reconcile"
	"github.com/acertijo-dev/balanza/internal/retry"
	"github.com/acertijo-dev/balanza/internal/runlog"
	"github.com/acertijo-dev/balanza/internal/trialbalance"
	"github.com/acertijo-dev/balanza/internal/watcher"
)

// ErrLockTimeout means a source file stayed unreadable after all retry
// attempts, typically because the exporting tool still holds it.
var ErrLockTimeout = errors.New("source file locked")

// Defaults for the open-retry loop and the per-folder output layout.
const (
	DefaultAttempts     = 10
	DefaultDelay        = time.Second
	DefaultOutputDir    = "salida"
	DefaultArtifactName = "procesado_final.xlsx"
)

// sourceExt is the only file extension the pipeline ingests.
const sourceExt = ".xlsx"

// Params configures an Orchestrator.
type Params struct {
	Roots     []string
	Source    watcher.Source // nil for one-shot runs
	Policy    reconcile.Policy
	Confirmer reconcile.Confirmer
	Attempts  int
	Delay     time.Duration
	OutputDir string // per-folder output subdirectory
	Artifact  string // master-ledger file name
	Logger    *log.Logger
}

// Orchestrator processes trial-balance files per watched folder. Files
// within one folder are handled strictly sequentially; folders run
// independently of each other.
type Orchestrator struct {
	roots     []string
	source    watcher.Source
	policy    reconcile.Policy
	confirmer reconcile.Confirmer
	attempts  int
	delay     time.Duration
	outDir    string
	artifact  string
	logger    *log.Logger
}

// New creates an Orchestrator, filling in defaults for zero params.
func New(p Params) *Orchestrator {
	if p.Attempts == 0 {
		p.Attempts = DefaultAttempts
	}
	if p.Delay == 0 {
		p.Delay = DefaultDelay
	}
	if p.OutputDir == "" {
		p.OutputDir = DefaultOutputDir
	}
	if p.Artifact == "" {
		p.Artifact = DefaultArtifactName
	}
	if p.Logger == nil {
		p.Logger = log.New(os.Stderr)
	}
	return &Orchestrator{
		roots:     p.Roots,
		source:    p.Source,
		policy:    p.Policy,
		confirmer: p.Confirmer,
		attempts:  p.Attempts,
		delay:     p.Delay,
		outDir:    p.OutputDir,
		artifact:  p.Artifact,
		logger:    p.Logger,
	}
}

// Roots returns the immediate subfolders of baseDir that are watch
// roots, skipping excluded names case-insensitively.
func Roots(baseDir string, excluded []string) ([]string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", baseDir, err)
	}

	var roots []string
	for _, e := range entries {
		if !e.IsDir() || isExcluded(e.Name(), excluded) {
			continue
		}
		roots = append(roots, filepath.Join(baseDir, e.Name()))
	}
	return roots, nil
}

func isExcluded(name string, excluded []string) bool {
	for _, x := range excluded {
		if strings.EqualFold(name, x) {
			return true
		}
	}
	return false
}

// Sweep processes every matching file already present in each root, in
// directory-listing order. It is also the startup pass of Run, so no
// backlog is missed due to watch-registration timing.
func (o *Orchestrator) Sweep(ctx context.Context) error {
	for _, root := range o.roots {
		if err := o.sweepRoot(ctx, root); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) sweepRoot(ctx context.Context, root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("reading %s: %w", root, err)
	}
	for _, e := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if e.IsDir() || !o.matchesSource(e.Name()) {
			continue
		}
		o.handle(ctx, root, filepath.Join(root, e.Name()))
	}
	return nil
}

// Run sweeps the backlog of every root, then consumes live events
// until ctx is canceled. In-flight files are allowed to finish before
// Run returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.source == nil {
		return errors.New("orchestrator: no event source configured")
	}

	// One worker per root keeps folders sequential internally while
	// independent of each other.
	channels := make(map[string]chan watcher.Event, len(o.roots))
	var wg sync.WaitGroup
	for _, root := range o.roots {
		ch := make(chan watcher.Event, 64)
		channels[root] = ch
		wg.Add(1)
		go func(root string, ch <-chan watcher.Event) {
			defer wg.Done()
			o.runRoot(ctx, root, ch)
		}(root, ch)
	}

	// Route events by root until cancellation or source exhaustion.
	events := o.source.Events()
dispatch:
	for {
		select {
		case <-ctx.Done():
			break dispatch
		case ev, ok := <-events:
			if !ok {
				break dispatch
			}
			ch, known := channels[ev.Root]
			if !known {
				continue
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				break dispatch
			}
		}
	}

	for _, ch := range channels {
		close(ch)
	}
	wg.Wait()
	return nil
}

func (o *Orchestrator) runRoot(ctx context.Context, root string, events <-chan watcher.Event) {
	if err := o.sweepRoot(ctx, root); err != nil && !errors.Is(err, context.Canceled) {
		o.logger.Error("backlog sweep failed", "folder", root, "err", err)
	}
	for ev := range events {
		if !o.matchesSource(filepath.Base(ev.Path)) {
			continue
		}
		o.handle(ctx, root, ev.Path)
	}
}

// matchesSource reports whether a file name is an ingestible trial
// balance: right extension, not the master ledger, not an editor or
// store temp file.
func (o *Orchestrator) matchesSource(name string) bool {
	if !strings.EqualFold(filepath.Ext(name), sourceExt) {
		return false
	}
	if strings.EqualFold(name, o.artifact) {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	return true
}

// handle runs one file through the pipeline and reports its outcome
// exactly once. Errors are per-file: they are logged and recorded, and
// the watch loop continues.
func (o *Orchestrator) handle(ctx context.Context, root, path string) {
	name := filepath.Base(path)
	outDir := filepath.Join(root, o.outDir)

	outcome, detail, err := o.process(ctx, root, path)
	if err != nil {
		o.logger.Error("file failed", "folder", filepath.Base(root), "file", name, "err", err)
		o.record(outDir, name, model.OutcomeFailed, err.Error())
		return
	}

	o.logger.Info("file processed", "folder", filepath.Base(root), "file", name, "outcome", string(outcome))
	o.record(outDir, name, outcome, detail)
}

func (o *Orchestrator) process(ctx context.Context, root, path string) (model.Outcome, string, error) {
	// The exporter may still hold the file when its create event
	// arrives; probe with the bounded retry before parsing.
	err := retry.Do(ctx, o.attempts, o.delay, func() error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		return f.Close()
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", "", err
		}
		return "", "", fmt.Errorf("%w: %s (%v)", ErrLockTimeout, filepath.Base(path), err)
	}

	sheet, err := trialbalance.ReadSheet(path)
	if err != nil {
		return "", "", err
	}

	rows, err := trialbalance.Normalize(sheet, filepath.Base(path))
	if err != nil {
		return "", "", err
	}

	store := ledger.NewStore(filepath.Join(root, o.outDir, o.artifact))
	existing, err := store.Load()
	if err != nil {
		return "", "", err
	}

	res, err := reconcile.Reconcile(existing, rows, filepath.Base(path), o.policy, o.confirmer)
	if err != nil {
		return "", "", err
	}

	switch res.Outcome {
	case model.OutcomeCreated, model.OutcomeReplaced:
		err = store.Rewrite(res.Rows)
	case model.OutcomeAppended:
		err = store.Append(rows)
	default:
		// Skips leave the artifact untouched.
	}
	if err != nil {
		return "", "", err
	}

	detail := fmt.Sprintf("%d rows", len(rows))
	if len(rows) > 0 {
		detail = fmt.Sprintf("period %s, %d rows", rows[0].Period, len(rows))
	}
	return res.Outcome, detail, nil
}

func (o *Orchestrator) record(outDir, file string, outcome model.Outcome, detail string) {
	entry := runlog.Entry{
		Timestamp: time.Now().UTC(),
		File:      file,
		Outcome:   outcome,
		Detail:    detail,
	}
	if err := runlog.Append(outDir, []runlog.Entry{entry}); err != nil {
		o.logger.Warn("run log write failed", "file", file, "err", err)
	}
}
