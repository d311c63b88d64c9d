package mood

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/metrics"
)

// TrendCache stores computed trends. Implementations treat every failure
// as a miss; the service always falls back to recomputing.
type TrendCache interface {
	Get(ctx context.Context, key string) (*Trends, bool)
	Set(ctx context.Context, key string, t *Trends)
}

// Service is the mood core: record store, paged queries, trend aggregation
// and the owner summary. It never logs; callers translate its errors.
type Service struct {
	repo  Repository
	cache TrendCache
	now   func() time.Time
	loc   *time.Location
}

type Option func(*Service)

func WithTrendCache(c TrendCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone used for daily trend buckets.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  time.Now,
		loc:  time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, fields Fields) (*Record, error) {
	fields = fields.normalized()
	if err := fields.Validate(); err != nil {
		metrics.RecordWrite("create", "invalid")
		return nil, err
	}

	rec := &Record{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		OccurredAt: normalizeTime(s.now()),
	}
	fields.applyTo(rec)

	if err := s.repo.Insert(ctx, rec); err != nil {
		metrics.RecordWrite("create", "error")
		return nil, err
	}
	metrics.RecordWrite("create", "ok")
	return rec, nil
}

// Update replaces every field of the owner's record. An omitted intensity
// resets to the default; an omitted occurred_at keeps the stored value.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, fields Fields) (*Record, error) {
	fields = fields.normalized()
	if err := fields.Validate(); err != nil {
		metrics.RecordWrite("update", "invalid")
		return nil, err
	}

	rec, err := s.repo.Replace(ctx, ownerID, id, fields.applyTo)
	if err != nil {
		metrics.RecordWrite("update", outcome(err))
		return nil, err
	}
	metrics.RecordWrite("update", "ok")
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		metrics.RecordWrite("delete", outcome(err))
		return err
	}
	metrics.RecordWrite("delete", "ok")
	return nil
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Record, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter Filter, page, pageSize int) (*Page, error) {
	if page < 1 || pageSize < 1 {
		return nil, ErrInvalidWindow
	}
	if err := filter.validate(); err != nil {
		return nil, err
	}

	items, total, err := s.repo.List(ctx, ownerID, filter, pageSize, offset(page, pageSize))
	if err != nil {
		return nil, err
	}
	p := NewPage(items, total, page, pageSize)
	return &p, nil
}

// Trends aggregates the owner's records over the trailing windowDays.
func (s *Service) Trends(ctx context.Context, ownerID uuid.UUID, windowDays int) (*Trends, error) {
	w, err := NewWindow(s.now(), windowDays)
	if err != nil {
		return nil, err
	}

	var key string
	if s.cache != nil {
		rev, err := s.repo.Revision(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		key = trendKey(ownerID, rev, windowDays, s.loc)
		if t, ok := s.cache.Get(ctx, key); ok {
			metrics.RecordTrendCache("hit")
			return t, nil
		}
		metrics.RecordTrendCache("miss")
	}

	start := time.Now()
	records, err := s.repo.Window(ctx, ownerID, w.From, w.To)
	if err != nil {
		return nil, err
	}
	t := Aggregate(records, w, s.loc)
	metrics.ObserveTrend(windowDays, len(records), time.Since(start))

	if s.cache != nil {
		s.cache.Set(ctx, key, &t)
	}
	return &t, nil
}

// Summary returns the owner's persisted rollup.
func (s *Service) Summary(ctx context.Context, ownerID uuid.UUID) (*Summary, error) {
	sum, err := s.repo.Summary(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func trendKey(ownerID uuid.UUID, rev int64, windowDays int, loc *time.Location) string {
	return fmt.Sprintf("moods:trends:%s:%d:%d:%s", ownerID, rev, windowDays, loc.String())
}

func outcome(err error) string {
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}
	return "error"
}
