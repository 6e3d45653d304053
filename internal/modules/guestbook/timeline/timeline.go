// Package timeline assembles the public guestbook log from authored visits.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mx-space/guestbook/internal/models"
	"github.com/mx-space/guestbook/internal/modules/processing/markdown"
	"github.com/mx-space/guestbook/internal/pkg/clock"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultHorizon = 24 * time.Hour
	DefaultLimit   = 10
)

// ErrRender marks a failure converting the assembled log to HTML.
var ErrRender = errors.New("timeline render failure")

// Source supplies authored visits, newest first.
type Source interface {
	AuthoredSince(ctx context.Context, since int64) ([]models.Visit, error)
	LatestAuthored(ctx context.Context, limit int) ([]models.Visit, error)
}

// DisplayEntry is one rendered log line.
type DisplayEntry struct {
	IP        string
	Author    string
	Message   string
	VisitedAt int64
	Elapsed   string
}

type entryKey struct {
	ip        string
	visitedAt int64
	message   string
	author    string
}

func (e DisplayEntry) key() entryKey {
	return entryKey{ip: e.IP, visitedAt: e.VisitedAt, message: e.Message, author: e.Author}
}

type Assembler struct {
	source  Source
	clock   clock.Clock
	horizon time.Duration
	limit   int
	render  func(string) (string, error)
}

type Option func(*Assembler)

func WithClock(c clock.Clock) Option {
	return func(a *Assembler) { a.clock = c }
}

// WithHorizon sets how far back every authored visit is shown.
func WithHorizon(d time.Duration) Option {
	return func(a *Assembler) {
		if d > 0 {
			a.horizon = d
		}
	}
}

// WithLimit sets how many of the latest authored visits are always shown,
// regardless of age.
func WithLimit(n int) Option {
	return func(a *Assembler) {
		if n >= 0 {
			a.limit = n
		}
	}
}

func WithRenderer(fn func(string) (string, error)) Option {
	return func(a *Assembler) {
		if fn != nil {
			a.render = fn
		}
	}
}

func NewAssembler(source Source, opts ...Option) *Assembler {
	a := &Assembler{
		source:  source,
		clock:   clock.Real(),
		horizon: DefaultHorizon,
		limit:   DefaultLimit,
		render:  markdown.Render,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildTimeline returns every authored visit within the horizon together with
// the latest authored visits, deduplicated and ordered newest first.
func (a *Assembler) BuildTimeline(ctx context.Context) ([]DisplayEntry, error) {
	now := a.clock.Now()
	since := now.Add(-a.horizon).UnixMilli()

	var recent, latest []models.Visit
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recent, err = a.source.AuthoredSince(gctx, since)
		if err != nil {
			return fmt.Errorf("load recent entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		latest, err = a.source.LatestAuthored(gctx, a.limit)
		if err != nil {
			return fmt.Errorf("load latest entries: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[entryKey]struct{}, len(recent)+len(latest))
	entries := make([]DisplayEntry, 0, len(recent)+len(latest))
	for _, v := range append(recent, latest...) {
		if !v.Authored() {
			continue
		}
		e := DisplayEntry{
			IP:        v.IP,
			Author:    *v.Author,
			Message:   *v.Message,
			VisitedAt: v.VisitedAt,
		}
		k := e.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].VisitedAt > entries[j].VisitedAt
	})
	for i := range entries {
		entries[i].Elapsed = HumanizeElapsed(now.Sub(time.UnixMilli(entries[i].VisitedAt)))
	}
	return entries, nil
}

// Markdown formats entries as the guestbook log document.
func Markdown(entries []DisplayEntry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		var b strings.Builder
		fmt.Fprintf(&b, "%s wrote %s ago:", e.Author, e.Elapsed)
		message := strings.ReplaceAll(e.Message, "\r\n", "\n")
		for _, line := range strings.Split(message, "\n") {
			b.WriteString("\n>")
			if line != "" {
				b.WriteString(" " + line)
			}
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// Render builds the timeline and converts it to an HTML fragment.
func (a *Assembler) Render(ctx context.Context) (string, error) {
	entries, err := a.BuildTimeline(ctx)
	if err != nil {
		return "", err
	}
	html, err := a.render(Markdown(entries))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return html, nil
}
