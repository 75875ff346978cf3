// Package allocation validates allocation requests, builds the task pool
// from the generation backend or the template fallback, and slices it
// across students.
package allocation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/abhisek/labgen/internal/history"
	"github.com/abhisek/labgen/internal/labtask"
)

// Service orchestrates a single allocation request end to end.
type Service struct {
	client   *labtask.Client
	parser   *labtask.Parser
	fallback *labtask.FallbackGenerator
	sink     history.Sink
	ids      labtask.IDSource
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithIDSource sets the pool and history ID source. Default: UUIDs.
func WithIDSource(ids labtask.IDSource) Option {
	return func(s *Service) { s.ids = ids }
}

// WithHistory sets the archive that receives a record per request.
func WithHistory(sink history.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service generating through client.
func NewService(client *labtask.Client, opts ...Option) *Service {
	s := &Service{
		client: client,
		ids:    labtask.UUIDSource{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = labtask.NewParser(s.ids)
	s.fallback = labtask.NewFallbackGenerator(s.ids)
	return s
}

// ModelID reports the generation backend, or "" when running fallback-only.
func (s *Service) ModelID() string {
	return s.client.ModelID()
}

// Allocate validates req, builds a pool of PoolSize tasks and returns one
// allocation per student. It returns *ValidationError for bad input and a
// *labtask.GenerationError of KindFallbackFailure when no pool could be
// built. Backend and parse failures are absorbed by the fallback.
func (s *Service) Allocate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n, k := req.StudentCount, req.QuestionsPerStudent()
	poolSize := labtask.PoolSize(n, k)

	pool, aiGenerated, err := s.buildPool(ctx, req, poolSize)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	allocs := labtask.Allocate(pool, labtask.ResolveAssignees(n, req.Students), k, req.Difficulty, now)
	total, avg := Stats(allocs)

	resp := &Response{
		Success:     true,
		Allocations: allocs,
		Metadata: Metadata{
			GeneratedAt:         now,
			TotalStudents:       n,
			QuestionsPerStudent: k,
			TotalQuestions:      total,
			AveragePoints:       avg,
			Difficulty:          req.Difficulty,
			Subject:             req.Subject,
			Topic:               req.Topic,
			Mode:                req.Mode,
			AIGenerated:         aiGenerated,
			StudentsAssigned:    studentSummaries(req.Students),
		},
	}

	s.archive(ctx, resp.Metadata)
	return resp, nil
}

// buildPool returns at least size tasks and whether any came from the
// backend. A short backend pool is topped up from the fallback.
func (s *Service) buildPool(ctx context.Context, req Request, size int) ([]labtask.Task, bool, error) {
	fallbackIn := labtask.FallbackInput{
		Subject:    req.Subject,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Mode:       req.Mode,
		Count:      size,
	}

	prompt := labtask.BuildPrompt(labtask.PromptInput{
		Subject:    req.Subject,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Mode:       req.Mode,
		Context:    req.Context,
		Count:      size,
	})

	raw, err := s.client.Generate(ctx, prompt, size)
	if err != nil {
		slog.Warn("generation backend unavailable, using fallback", "subject", req.Subject, "error", err)
		return s.fallbackPool(fallbackIn)
	}

	res := s.parser.Parse(raw, labtask.ParseInput{Topic: req.Topic, Difficulty: req.Difficulty})
	if !res.OK() {
		slog.Warn("unusable generation response, using fallback",
			"subject", req.Subject, "kind", res.Err.Kind, "error", res.Err.Err)
		return s.fallbackPool(fallbackIn)
	}

	pool := res.Tasks
	if missing := size - len(pool); missing > 0 {
		slog.Info("generation returned a short pool, topping up from fallback",
			"requested", size, "received", len(pool))
		fallbackIn.Count = missing
		extra, err := s.fallback.Generate(fallbackIn)
		if err != nil {
			return nil, false, err
		}
		pool = append(pool, extra...)
	}
	return pool, true, nil
}

func (s *Service) fallbackPool(in labtask.FallbackInput) ([]labtask.Task, bool, error) {
	pool, err := s.fallback.Generate(in)
	if err != nil {
		return nil, false, err
	}
	return pool, false, nil
}

// archive hands a summary to the history sink. Failures are logged only.
func (s *Service) archive(ctx context.Context, md Metadata) {
	if s.sink == nil {
		return
	}
	rec := history.Record{
		ID:                  s.ids.NewID(),
		GeneratedAt:         md.GeneratedAt,
		Subject:             md.Subject,
		Topic:               md.Topic,
		Difficulty:          string(md.Difficulty),
		Mode:                string(md.Mode),
		TotalStudents:       md.TotalStudents,
		QuestionsPerStudent: md.QuestionsPerStudent,
		StudentsAssigned:    md.StudentsAssigned,
	}
	if err := s.sink.Append(context.WithoutCancel(ctx), rec); err != nil {
		slog.Error("failed to archive allocation", "record_id", rec.ID, "error", err)
	}
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
