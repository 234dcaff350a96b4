// Package preference restores the user's query, order and cached collection
// on start and writes them back as they change.
package preference

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/albumdex/internal/clock"
	"github.com/kailas-cloud/albumdex/internal/domain/search/order"
	"github.com/kailas-cloud/albumdex/internal/metrics"
	"github.com/kailas-cloud/albumdex/internal/usecase/library"
)

const (
	defaultDebounce = 500 * time.Millisecond
	flushTimeout    = 2 * time.Second

	kindPreferences = "preferences"
	kindSnapshot    = "snapshot"
)

// Config tunes the syncer.
type Config struct {
	// Debounce is the write window for query and order changes.
	Debounce time.Duration
	// Section selects the collection snapshot. Empty disables snapshots.
	Section string
}

type prefs struct {
	query string
	order order.Key
}

// Syncer mirrors engine preferences into storage.
type Syncer struct {
	store    Store
	snaps    Snapshots
	engine   Engine
	clock    clock.Clock
	logger   *zap.Logger
	debounce time.Duration
	section  string

	events chan library.View

	// Baseline restored from storage; Run only writes what differs from it.
	saved      prefs
	collection uint64
}

// New creates a Syncer. snaps may be nil when no section is configured.
func New(cfg Config, store Store, snaps Snapshots, engine Engine, logger *zap.Logger) *Syncer {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	v := engine.View()
	return &Syncer{
		store:      store,
		snaps:      snaps,
		engine:     engine,
		clock:      clock.System(),
		logger:     logger,
		debounce:   cfg.Debounce,
		section:    cfg.Section,
		events:     make(chan library.View, 1),
		saved:      prefs{query: v.Query, order: v.Order},
		collection: v.CollectionVersion,
	}
}

// WithClock replaces the timer source.
func (s *Syncer) WithClock(c clock.Clock) *Syncer {
	s.clock = c
	return s
}

// Restore seeds the engine from storage. It must run before the engine's
// first pass. Each value falls back to its default independently; read
// failures are logged and never returned.
func (s *Syncer) Restore(ctx context.Context) {
	def := s.engine.Registry().DefaultKey()

	q, err := s.store.Query(ctx, "")
	if err != nil {
		s.logger.Warn("Failed to restore query, using default", zap.Error(err))
	}
	k, err := s.store.Order(ctx, def)
	if err != nil {
		s.logger.Warn("Failed to restore order, using default", zap.Error(err))
	}
	resolved := s.engine.Registry().Resolve(k)
	if resolved != k {
		s.logger.Warn("Saved order is not registered, using default",
			zap.String("order", string(k)), zap.String("default", string(resolved)))
	}

	s.engine.SetQuery(q)
	if err := s.engine.SetOrder(resolved); err != nil {
		s.logger.Warn("Failed to apply restored order", zap.Error(err))
	}

	if s.snaps != nil && s.section != "" {
		albums, err := s.snaps.Load(ctx, s.section)
		switch {
		case err != nil:
			s.logger.Warn("Failed to restore collection snapshot",
				zap.String("section", s.section), zap.Error(err))
		case albums != nil:
			s.engine.SetAlbums(albums)
			s.logger.Info("Collection snapshot restored",
				zap.String("section", s.section), zap.Int("albums", len(albums)))
		}
	}

	v := s.engine.View()
	s.saved = prefs{query: v.Query, order: v.Order}
	s.collection = v.CollectionVersion
}

// Run writes changes until ctx is done. A pending preference write is
// flushed on exit.
func (s *Syncer) Run(ctx context.Context) error {
	unsubscribe := s.engine.Subscribe(s.offer)
	defer unsubscribe()

	var (
		timer   clock.Timer
		timerC  <-chan time.Time
		pending = s.saved
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
				flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
				s.savePrefs(flushCtx, pending)
				cancel()
			}
			return nil

		case v := <-s.events:
			if v.CollectionVersion != s.collection {
				s.collection = v.CollectionVersion
				s.saveSnapshot(ctx)
			}

			next := prefs{query: v.Query, order: v.Order}
			if next == pending {
				continue
			}
			pending = next
			if timer != nil {
				timer.Stop()
			}
			timer = s.clock.NewTimer(s.debounce)
			timerC = timer.C()

		case <-timerC:
			timer, timerC = nil, nil
			s.savePrefs(ctx, pending)
		}
	}
}

// offer hands the latest view to Run without blocking the engine loop.
// Older undelivered views are replaced.
func (s *Syncer) offer(v library.View) {
	for {
		select {
		case s.events <- v:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

func (s *Syncer) savePrefs(ctx context.Context, p prefs) {
	if p == s.saved {
		return
	}
	if err := s.store.Save(ctx, p.query, p.order); err != nil {
		metrics.PreferenceWritesTotal.WithLabelValues(kindPreferences, "error").Inc()
		s.logger.Warn("Failed to save preferences", zap.Error(err))
		return
	}
	s.saved = p
	metrics.PreferenceWritesTotal.WithLabelValues(kindPreferences, "ok").Inc()
	s.logger.Debug("Preferences saved",
		zap.String("query", p.query), zap.String("order", string(p.order)))
}

func (s *Syncer) saveSnapshot(ctx context.Context) {
	if s.snaps == nil || s.section == "" {
		return
	}
	albums := s.engine.Albums()
	if err := s.snaps.Save(ctx, s.section, albums); err != nil {
		metrics.PreferenceWritesTotal.WithLabelValues(kindSnapshot, "error").Inc()
		s.logger.Warn("Failed to save collection snapshot",
			zap.String("section", s.section), zap.Error(err))
		return
	}
	metrics.PreferenceWritesTotal.WithLabelValues(kindSnapshot, "ok").Inc()
	s.logger.Debug("Collection snapshot saved",
		zap.String("section", s.section), zap.Int("albums", len(albums)))
}
