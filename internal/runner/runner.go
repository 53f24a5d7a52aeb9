// Package runner drives recognition from a folder that an external capture
// tool drops screenshots into.
package runner

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ironsheep/card-vision/internal/cards"
	"github.com/ironsheep/card-vision/internal/decision"
	"github.com/ironsheep/card-vision/internal/imaging"
	"github.com/ironsheep/card-vision/internal/pipeline"
)

// Recognizer reads hands from frames.
type Recognizer interface {
	Recognize(frame image.Image) pipeline.Result
	IsOurTurn(frame image.Image) (float64, bool)
}

// Decider judges a hand.
type Decider interface {
	Decide(h cards.HandState) decision.Decision
}

// Executor acts on a decision.
type Executor interface {
	Execute(ctx context.Context, d decision.Decision) error
}

// Outcome is what happened to one sampled frame.
type Outcome struct {
	Path      string
	TurnScore float64
	OurTurn   bool
	// Result and Decision are only set on our turn.
	Result   pipeline.Result
	Decision decision.Decision
	Err      error
}

// Defaults for New.
const (
	DefaultInterval = 2 * time.Second
	DefaultDebounce = 300 * time.Millisecond
)

// Runner samples the newest stable frame of a directory once per interval.
type Runner struct {
	dir        string
	interval   time.Duration
	debounce   time.Duration
	recognizer Recognizer
	decider    Decider
	executor   Executor
	logger     *zap.Logger
	onOutcome  func(Outcome)

	mu     sync.Mutex
	latest string
	// seq changes whenever a frame becomes stable, so a capture tool that
	// overwrites one file name still gets every frame sampled.
	seq uint64
}

// Option configures a Runner.
type Option func(*Runner)

// WithInterval sets the sampling period.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithDebounce sets how long a file must stay unchanged before it is sampled.
func WithDebounce(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// WithExecutor acts on each decision. Without one decisions are only logged.
func WithExecutor(e Executor) Option {
	return func(r *Runner) { r.executor = e }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithOutcomes registers a callback invoked after every processed frame.
func WithOutcomes(fn func(Outcome)) Option {
	return func(r *Runner) { r.onOutcome = fn }
}

// New returns a runner watching dir.
func New(dir string, rec Recognizer, dec Decider, opts ...Option) *Runner {
	r := &Runner{
		dir:        dir,
		interval:   DefaultInterval,
		debounce:   DefaultDebounce,
		recognizer: rec,
		decider:    dec,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run watches the directory until ctx is cancelled. The newest frame already
// present is sampled first.
func (r *Runner) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(r.dir); err != nil {
		return fmt.Errorf("watch %s: %w", r.dir, err)
	}
	r.logger.Info("watching frame directory",
		zap.String("dir", r.dir),
		zap.Duration("interval", r.interval),
		zap.Duration("debounce", r.debounce))

	if name, ok := newestFrame(r.dir); ok {
		r.setLatest(name)
	}

	go r.debounceEvents(ctx, w)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			name, seq := r.current()
			if name == "" || seq == last {
				continue
			}
			last = seq
			out := r.ProcessFile(ctx, filepath.Join(r.dir, name))
			if r.onOutcome != nil {
				r.onOutcome(out)
			}
		}
	}
}

// debounceEvents promotes a file to the latest frame once no event touched it
// for the debounce period.
func (r *Runner) debounceEvents(ctx context.Context, w *fsnotify.Watcher) {
	pending := map[string]time.Time{}
	ticker := time.NewTicker(max(r.debounce/2, time.Millisecond))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if !isFrame(name) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
				pending[name] = time.Now()
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				delete(pending, name)
				r.forget(name)
			}
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) >= r.debounce {
					r.setLatest(name)
					delete(pending, name)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			r.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (r *Runner) setLatest(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = name
	r.seq++
}

func (r *Runner) forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == name {
		r.latest = ""
	}
}

func (r *Runner) current() (string, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.seq
}

// ProcessFile samples one frame: check the turn indicator, recognize the
// hand, decide and act.
func (r *Runner) ProcessFile(ctx context.Context, path string) Outcome {
	out := Outcome{Path: path}
	log := r.logger.With(zap.String("frame", filepath.Base(path)))

	img, err := imaging.Open(path)
	if err != nil {
		out.Err = err
		log.Warn("frame unreadable", zap.Error(err))
		return out
	}

	// One grayscale view serves both the turn check and recognition.
	gray := imaging.ToGray(img)

	out.TurnScore, out.OurTurn = r.recognizer.IsOurTurn(gray)
	if !out.OurTurn {
		log.Debug("not our turn", zap.Float64("score", out.TurnScore))
		return out
	}

	out.Result = r.recognizer.Recognize(gray)
	out.Decision = r.decider.Decide(out.Result.Hand)
	log.Info("frame decided",
		zap.Strings("hole", cards.Labels(out.Result.Hand.HoleCards)),
		zap.Strings("community", cards.Labels(out.Result.Hand.Community)),
		zap.Stringer("decision", out.Decision))

	if r.executor != nil {
		if err := r.executor.Execute(ctx, out.Decision); err != nil {
			out.Err = err
			log.Error("execute decision", zap.Error(err))
		}
	}
	return out
}

func isFrame(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

// newestFrame returns the most recently modified frame in dir.
func newestFrame(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var (
		best    string
		bestMod time.Time
	)
	for _, e := range entries {
		if e.IsDir() || !isFrame(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestMod) {
			best, bestMod = e.Name(), info.ModTime()
		}
	}
	return best, best != ""
}
