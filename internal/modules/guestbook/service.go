// Package guestbook records visits and signed messages and serves the public
// log built from them.
package guestbook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mx-space/guestbook/internal/modules/guestbook/timeline"
	"github.com/mx-space/guestbook/internal/modules/guestbook/visit"
	"go.uber.org/zap"
)

// TimelineCacheKey holds the rendered log fragment while caching is enabled.
const TimelineCacheKey = "guestbook:timeline"

// ErrValidation marks a write rejected before any store access.
var ErrValidation = errors.New("invalid guestbook entry")

// Origin identifies the visitor behind a request.
type Origin struct {
	Identity string
	City     string
	Country  string
}

// Entry is a signed message submitted through the write form.
type Entry struct {
	Author  string `validate:"required"`
	Message string `validate:"required"`
}

// Cache stores the rendered timeline between writes.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Service struct {
	engine    *visit.Engine
	assembler *timeline.Assembler
	validate  *validator.Validate
	cache     Cache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

type ServiceOption func(*Service)

// WithCache enables timeline caching when ttl is positive.
func WithCache(cache Cache, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if cache != nil && ttl > 0 {
			s.cache = cache
			s.cacheTTL = ttl
		}
	}
}

func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(engine *visit.Engine, assembler *timeline.Assembler, opts ...ServiceOption) *Service {
	s := &Service{
		engine:    engine,
		assembler: assembler,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View records the visit and returns the rendered log as an HTML fragment.
func (s *Service) View(ctx context.Context, origin Origin) (string, error) {
	if err := s.engine.RecordView(ctx, origin.Identity, origin.City, origin.Country); err != nil {
		return "", err
	}
	if html, ok := s.cachedTimeline(ctx); ok {
		return html, nil
	}
	html, err := s.assembler.Render(ctx)
	if err != nil {
		return "", err
	}
	s.storeTimeline(ctx, html)
	return html, nil
}

// Write attaches a signed message to the visitor's open visit, or records a
// new one.
func (s *Service) Write(ctx context.Context, origin Origin, entry Entry) error {
	if err := s.validate.StructCtx(ctx, entry); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.engine.RecordMessage(ctx, origin.Identity, entry.Author, entry.Message, origin.City, origin.Country); err != nil {
		return err
	}
	s.invalidateTimeline(ctx)
	return nil
}

func (s *Service) cachedTimeline(ctx context.Context) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	html, ok, err := s.cache.Get(ctx, TimelineCacheKey)
	if err != nil {
		s.logger.Warn("timeline cache read failed", zap.Error(err))
		return "", false
	}
	return html, ok
}

func (s *Service) storeTimeline(ctx context.Context, html string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, TimelineCacheKey, html, s.cacheTTL); err != nil {
		s.logger.Warn("timeline cache write failed", zap.Error(err))
	}
}

func (s *Service) invalidateTimeline(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, TimelineCacheKey); err != nil {
		s.logger.Warn("timeline cache invalidation failed", zap.Error(err))
	}
}
