// Package library keeps a live, debounced, filtered and sorted view of an
// album collection.
package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/albumdex/internal/clock"
	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/domain/search/order"
	"github.com/kailas-cloud/albumdex/internal/metrics"
)

const (
	defaultDebounce = 500 * time.Millisecond
	defaultWorkers  = 8
)

// Config tunes the recompute pipeline.
type Config struct {
	Debounce time.Duration
	Workers  int
}

// inputs is everything a pass reads. version increases on every change.
type inputs struct {
	albums            []album.Album
	query             string
	order             order.Key
	version           uint64
	collectionVersion uint64
}

type cycleState int

const (
	stateIdle cycleState = iota
	stateScheduled
	stateRunning
)

type result struct {
	cycle    uint64
	version  uint64
	matches  []album.Album
	total    int
	failures int
	elapsed  time.Duration
}

// Engine owns the collection, query and order, and recomputes the match set
// on a single event loop (Run) whenever one of them changes.
type Engine struct {
	parser   Parser
	matcher  Matcher
	registry order.Registry
	clock    clock.Clock
	logger   *zap.Logger
	debounce time.Duration
	workers  int

	mu sync.Mutex
	in inputs

	signal chan struct{}
	view    atomic.Pointer[applied]
	busy    atomic.Bool
	running atomic.Bool

	subsMu  sync.Mutex
	subs    map[uint64]func(View)
	nextSub uint64
}

// New creates an Engine. The order starts at the registry default.
func New(cfg Config, parser Parser, matcher Matcher, registry order.Registry, logger *zap.Logger) *Engine {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	e := &Engine{
		parser:   parser,
		matcher:  matcher,
		registry: registry,
		clock:    clock.System(),
		logger:   logger,
		debounce: cfg.Debounce,
		workers:  cfg.Workers,
		in:       inputs{order: registry.DefaultKey()},
		signal:   make(chan struct{}, 1),
		subs:     make(map[uint64]func(View)),
	}
	e.view.Store(&applied{})
	return e
}

// WithClock replaces the timer source.
func (e *Engine) WithClock(c clock.Clock) *Engine {
	e.clock = c
	return e
}

// SetQuery replaces the query text. Setting the current text is a no-op.
func (e *Engine) SetQuery(text string) {
	e.mu.Lock()
	if e.in.query == text {
		e.mu.Unlock()
		return
	}
	e.in.query = text
	e.in.version++
	e.mu.Unlock()
	e.notify()
}

// ClearFilter resets the query to empty.
func (e *Engine) ClearFilter() {
	e.SetQuery("")
}

// SetOrder selects a registered ordering. Unknown keys are rejected and
// leave the engine unchanged.
func (e *Engine) SetOrder(k order.Key) error {
	if _, err := e.registry.Lookup(k); err != nil {
		return fmt.Errorf("set order: %w", err)
	}

	e.mu.Lock()
	if e.in.order == k {
		e.mu.Unlock()
		return nil
	}
	e.in.order = k
	e.in.version++
	e.mu.Unlock()
	e.notify()
	return nil
}

// SetAlbums replaces the collection. The slice is copied.
func (e *Engine) SetAlbums(albums []album.Album) {
	e.mu.Lock()
	e.in.albums = slices.Clone(albums)
	e.in.version++
	e.in.collectionVersion++
	e.mu.Unlock()
	e.notify()
}

// Query returns the current query text.
func (e *Engine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.in.query
}

// Order returns the current order key.
func (e *Engine) Order() order.Key {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.in.order
}

// Albums returns a copy of the current collection.
func (e *Engine) Albums() []album.Album {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.in.albums)
}

// Matches returns a copy of the last applied match set.
func (e *Engine) Matches() []album.Album {
	return slices.Clone(e.view.Load().matches)
}

// Running reports whether the event loop is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// IsFiltering reports whether a pass is in flight.
func (e *Engine) IsFiltering() bool {
	return e.busy.Load()
}

// Registry returns the orderings the engine accepts.
func (e *Engine) Registry() order.Registry {
	return e.registry
}

// View returns a snapshot of inputs and the last applied match set.
func (e *Engine) View() View {
	a := e.view.Load()
	e.mu.Lock()
	q, k, cv := e.in.query, e.in.order, e.in.collectionVersion
	e.mu.Unlock()

	return View{
		Query:             q,
		Order:             k,
		Matches:           a.matches,
		IsFiltering:       e.busy.Load(),
		Total:             a.total,
		MatchFailures:     a.failures,
		Cycle:             a.cycle,
		CollectionVersion: cv,
	}
}

// Subscribe registers fn to receive a View after every input change and
// every applied pass. fn runs on the event loop and must not block.
func (e *Engine) Subscribe(fn func(View)) (unsubscribe func()) {
	e.subsMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subsMu.Unlock()

	return func() {
		e.subsMu.Lock()
		delete(e.subs, id)
		e.subsMu.Unlock()
	}
}

func (e *Engine) notify() {
	select {
	case e.signal <- struct{}{}:
	default:
	}
}

func (e *Engine) publish() {
	e.subsMu.Lock()
	fns := make([]func(View), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subsMu.Unlock()

	if len(fns) == 0 {
		return
	}
	v := e.View()
	for _, fn := range fns {
		fn(v)
	}
}

func (e *Engine) version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.in.version
}

// Run drives the pipeline until ctx is done. Inputs set before Run
// schedule the first pass.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return errors.New("engine is already running")
	}
	defer e.running.Store(false)

	var (
		state          = stateIdle
		timer          clock.Timer
		timerC         <-chan time.Time
		lastCycle      uint64
		latestVersion  uint64
		appliedVersion uint64
		results        = make(chan result)
	)

	schedule := func() {
		timer = e.clock.NewTimer(e.debounce)
		timerC = timer.C()
		state = stateScheduled
	}

	start := func() {
		e.mu.Lock()
		in := e.in
		e.mu.Unlock()

		lastCycle++
		latestVersion = in.version
		state = stateRunning
		e.busy.Store(true)

		cycle := lastCycle
		go func() {
			r := e.compute(ctx, cycle, in)
			select {
			case results <- r:
			case <-ctx.Done():
			}
		}()
	}

	if e.version() != appliedVersion {
		schedule()
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case <-e.signal:
			cur := e.version()
			switch state {
			case stateIdle:
				if cur != appliedVersion {
					schedule()
				}
			case stateScheduled:
				// Collapses into the pending pass.
			case stateRunning:
				if cur != latestVersion {
					e.logger.Debug("Recompute superseded by input change",
						zap.Uint64("cycle", lastCycle))
					start()
				}
			}
			e.publish()

		case <-timerC:
			timer, timerC = nil, nil
			start()
			e.publish()

		case r := <-results:
			metrics.RecomputeDuration.Observe(r.elapsed.Seconds())
			if r.cycle != lastCycle || r.version != e.version() {
				metrics.RecomputeCyclesTotal.WithLabelValues(metrics.OutcomeSuperseded).Inc()
				e.logger.Debug("Recompute superseded",
					zap.Uint64("cycle", r.cycle),
					zap.Uint64("latest_cycle", lastCycle))
				if r.cycle == lastCycle {
					start()
				}
				continue
			}

			e.view.Store(&applied{
				matches:  r.matches,
				total:    r.total,
				failures: r.failures,
				cycle:    r.cycle,
			})
			e.busy.Store(false)
			appliedVersion = r.version
			state = stateIdle

			metrics.RecomputeCyclesTotal.WithLabelValues(metrics.OutcomeApplied).Inc()
			metrics.MatchedAlbums.Set(float64(len(r.matches)))
			metrics.CollectionSize.Set(float64(r.total))
			e.logger.Debug("Recompute applied",
				zap.Uint64("cycle", r.cycle),
				zap.Int("matches", len(r.matches)),
				zap.Int("total", r.total),
				zap.Int("match_failures", r.failures),
				zap.Duration("elapsed", r.elapsed))
			e.publish()
		}
	}
}

// compute filters and sorts one snapshot of the inputs. It has no side
// effects on the engine state.
func (e *Engine) compute(ctx context.Context, cycle uint64, in inputs) result {
	started := time.Now()
	preds := e.parser.Parse(in.query)

	hits := make([]bool, len(in.albums))
	var failures atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, a := range in.albums {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			ok, err := e.matcher.Match(a, preds)
			if err != nil {
				failures.Add(1)
				metrics.MatchFailuresTotal.Inc()
				e.logger.Debug("Match failed",
					zap.Uint64("cycle", cycle),
					zap.String("album_id", a.ID()),
					zap.Error(err))
				return nil
			}
			hits[i] = ok
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	matches := make([]album.Album, 0, len(in.albums))
	for i, a := range in.albums {
		if hits[i] {
			matches = append(matches, a)
		}
	}
	if err := e.registry.Sort(matches, e.registry.Resolve(in.order)); err != nil {
		e.logger.Warn("Sort failed", zap.Uint64("cycle", cycle), zap.Error(err))
	}

	return result{
		cycle:    cycle,
		version:  in.version,
		matches:  matches,
		total:    len(in.albums),
		failures: int(failures.Load()),
		elapsed:  time.Since(started),
	}
}
