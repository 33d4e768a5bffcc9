// Package search answers part queries for a vehicle: it applies the per-user
// rate limit, serves fresh results from the cache and otherwise asks the
// generative model.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/briangreenhill/partsgpt/internal/cache"
	"github.com/briangreenhill/partsgpt/internal/observability"
	"github.com/briangreenhill/partsgpt/internal/parts"
)

// Source tells where a result came from.
type Source string

const (
	SourceCache     Source = "cache"
	SourceGenerated Source = "generated"
)

// Generator is the upstream model client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Prompter renders the model prompt for a vehicle name.
type Prompter interface {
	Generate(car string) (string, error)
}

// Limiter decides whether a user may search now.
type Limiter interface {
	CheckAndRecord(userID string) bool
	Limit() int
}

// Result is a successful search.
type Result struct {
	Car    string
	Parts  []parts.Part
	Source Source
}

type Options struct {
	Generator Generator
	Prompter  Prompter
	Cache     cache.ReadWriter
	Limiter   Limiter
	Metrics   *observability.Metrics
}

// Service is safe for concurrent use.
type Service struct {
	gen     Generator
	prompt  Prompter
	cache   cache.ReadWriter
	limiter Limiter
	metrics *observability.Metrics
	sf      singleflight.Group
}

func New(opts Options) *Service {
	return &Service{
		gen:     opts.Generator,
		prompt:  opts.Prompter,
		cache:   opts.Cache,
		limiter: opts.Limiter,
		metrics: opts.Metrics,
	}
}

// NormalizeKey turns a raw query into its cache key.
func NormalizeKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Search runs a query on behalf of userID. Every failure is an *Error.
func (s *Service) Search(ctx context.Context, userID, query string) (*Result, error) {
	car := strings.TrimSpace(query)
	if car == "" {
		return nil, validationError("Nome do carro é obrigatório")
	}

	if !s.limiter.CheckAndRecord(userID) {
		s.metrics.RateLimited()
		zerolog.Ctx(ctx).Info().Str("user_id", userID).Msg("search rate limited")
		return nil, rateLimitError(s.limiter.Limit())
	}

	key := NormalizeKey(car)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.SearchServed(string(SourceCache))
		return &Result{Car: car, Parts: cached, Source: SourceCache}, nil
	}

	// Concurrent misses for the same key share one upstream call. The shared
	// call is detached from any single caller's cancellation; each caller
	// stops waiting when its own ctx is done.
	shared := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		return s.generate(shared, key, car)
	})

	select {
	case <-ctx.Done():
		return nil, upstreamError(KindUpstreamCall, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		s.metrics.SearchServed(string(SourceGenerated))
		return &Result{Car: car, Parts: parts.Clone(res.Val.([]parts.Part)), Source: SourceGenerated}, nil
	}
}

func (s *Service) generate(ctx context.Context, key, car string) ([]parts.Part, error) {
	l := zerolog.Ctx(ctx)

	prompt, err := s.prompt.Generate(car)
	if err != nil {
		return nil, upstreamError(KindUpstreamCall, err)
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, prompt)
	s.metrics.ObserveUpstream(time.Since(start))
	if err != nil {
		s.metrics.UpstreamError(string(KindUpstreamCall))
		l.Error().Err(err).Str("car", car).Msg("model call failed")
		return nil, upstreamError(KindUpstreamCall, err)
	}

	ps, err := ParseParts(text)
	if err != nil {
		s.metrics.UpstreamError(string(KindUpstreamParse))
		l.Error().Err(err).Str("car", car).Int("response_len", len(text)).Msg("model response rejected")
		return nil, upstreamError(KindUpstreamParse, err)
	}

	s.cache.Put(key, ps)
	l.Debug().Str("key", key).Int("parts", len(ps)).Dur("took", time.Since(start)).Msg("search result cached")
	return ps, nil
}
