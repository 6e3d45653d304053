package visit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mx-space/guestbook/internal/models"
	"github.com/mx-space/guestbook/internal/pkg/clock"
	"go.uber.org/zap"
)

// DefaultWindow is the trailing interval within which anonymous visits from
// one identity collapse into a single row.
const DefaultWindow = 10 * time.Minute

// Engine decides, per request, whether to fold it into the identity's open
// anonymous visit or to insert a new one.
//
// Without a Locker the conditional update and the fallback insert are separate
// statements, so two concurrent first requests from one identity may both
// insert. WithLocker closes that race by serializing each identity and running
// both statements in one transaction.
type Engine struct {
	store  Store
	clock  clock.Clock
	window time.Duration
	locker Locker
	logger *zap.Logger
}

type Option func(*Engine)

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.window = d
		}
	}
}

// WithLocker enables strict writes.
func WithLocker(l Locker) Option {
	return func(e *Engine) { e.locker = l }
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		clock:  clock.Real(),
		window: DefaultWindow,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strict reports whether writes are serialized per identity.
func (e *Engine) Strict() bool { return e.locker != nil }

// RecordView refreshes the identity's open anonymous visit, or inserts one.
// It never touches an authored visit.
func (e *Engine) RecordView(ctx context.Context, identity, city, country string) error {
	return e.record(ctx, identity, func(s Store, now, since int64) error {
		found, err := s.RefreshOpen(ctx, identity, since, now)
		if err != nil {
			return fmt.Errorf("%w: refresh open visit: %w", ErrStore, err)
		}
		if found {
			e.logger.Debug("view folded into open visit", zap.String("ip", identity))
			return nil
		}
		v := &models.Visit{
			IP:                 identity,
			VisitedAt:          now,
			VisitedFromCity:    optional(city),
			VisitedFromCountry: optional(country),
		}
		if err := s.Insert(ctx, v); err != nil {
			return fmt.Errorf("%w: insert visit: %w", ErrStore, err)
		}
		e.logger.Debug("new visit", zap.String("ip", identity))
		return nil
	})
}

// RecordMessage promotes the identity's open anonymous visit to an authored
// one, keeping its original geolocation, or inserts a fully populated visit.
// Exactly one row results per call and no authored row is ever overwritten.
func (e *Engine) RecordMessage(ctx context.Context, identity, author, message, city, country string) error {
	return e.record(ctx, identity, func(s Store, now, since int64) error {
		found, err := s.PromoteOpen(ctx, identity, since, author, message, now)
		if err != nil {
			return fmt.Errorf("%w: promote open visit: %w", ErrStore, err)
		}
		if found {
			e.logger.Debug("open visit promoted", zap.String("ip", identity))
			return nil
		}
		v := &models.Visit{
			IP:                 identity,
			VisitedAt:          now,
			VisitedFromCity:    optional(city),
			VisitedFromCountry: optional(country),
			Author:             &author,
			Message:            &message,
		}
		if err := s.Insert(ctx, v); err != nil {
			return fmt.Errorf("%w: insert authored visit: %w", ErrStore, err)
		}
		e.logger.Debug("new authored visit", zap.String("ip", identity))
		return nil
	})
}

func (e *Engine) record(ctx context.Context, identity string, fn func(s Store, now, since int64) error) error {
	if e.locker == nil {
		now, since := e.bounds()
		return fn(e.store, now, since)
	}

	unlock, err := e.locker.Lock(ctx, identity)
	if err != nil {
		return fmt.Errorf("%w: lock identity: %w", ErrStore, err)
	}
	defer unlock()

	// Read the clock under the lock so serialized calls observe increasing times.
	now, since := e.bounds()
	err = e.store.Transaction(ctx, func(tx Store) error {
		return fn(tx, now, since)
	})
	if err != nil && !errors.Is(err, ErrStore) {
		return fmt.Errorf("%w: commit: %w", ErrStore, err)
	}
	return err
}

// bounds returns now and the window start, both in epoch milliseconds.
func (e *Engine) bounds() (int64, int64) {
	now := e.clock.Now()
	return now.UnixMilli(), now.Add(-e.window).UnixMilli()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
