// Package core binds the record store and the form renderer into the
// enrollment workflow: open a blank form, save it, browse, print.
package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/artenioreis/fichadeinscricao/internal/render"
	"github.com/artenioreis/fichadeinscricao/pkg/domain"
)

// ErrRecordNotFound is returned when an operation needs a stored record that
// does not exist.
var ErrRecordNotFound = errors.New("record not found")

// Renderer produces the printable form for a record.
type Renderer interface {
	Render(ctx context.Context, rec domain.Record) (render.Artifact, error)
}

// Service exposes the enrollment operations over a record store.
type Service struct {
	store    domain.RecordStore
	renderer Renderer
	now      func() time.Time
	log      zerolog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the clock used for enrollment dates and ages.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log.With().Str("component", "service").Logger() }
}

// NewService constructs a service. renderer may be nil when printing is not
// needed.
func NewService(store domain.RecordStore, renderer Renderer, opts ...Option) *Service {
	s := &Service{store: store, renderer: renderer, now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying record store.
func (s *Service) Store() domain.RecordStore { return s.store }

// Open returns a blank record carrying the next free code and today's
// enrollment date. The code is not reserved until the record is saved.
func (s *Service) Open(ctx context.Context) (domain.Record, error) {
	code, err := s.store.NextCode(ctx)
	if err != nil {
		return domain.Record{}, fmt.Errorf("next code: %w", err)
	}
	rec := domain.NewRecord(code)
	if err := rec.SetText(domain.FieldEnrollmentDate, domain.FormatDate(s.now())); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

// Save trims rec, derives its age from the birth date and upserts it. The
// returned record is what was persisted. Rejections surface as
// *domain.ValidationError or *domain.DuplicateKeyError.
func (s *Service) Save(ctx context.Context, rec domain.Record) (domain.Record, error) {
	rec = rec.Trimmed()
	age := ""
	if years, ok := domain.ComputeAge(rec.Text(domain.FieldBirthDate), s.now()); ok {
		age = strconv.Itoa(years)
	}
	if err := rec.SetText(domain.FieldAge, age); err != nil {
		return domain.Record{}, err
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		return domain.Record{}, err
	}
	s.log.Info().Int("code", rec.Code).Msg("record saved")
	return rec, nil
}

// Fetch loads a record by code; ok is false when none exists.
func (s *Service) Fetch(ctx context.Context, code int) (domain.Record, bool, error) {
	return s.store.FetchByCode(ctx, code)
}

// Roster lists every stored record ordered by full name.
func (s *Service) Roster(ctx context.Context) ([]domain.RosterEntry, error) {
	return domain.CollectRoster(s.store.ListAll(ctx))
}

// Render prints rec as it stands; it need not be saved. A record without a
// full name is refused.
func (s *Service) Render(ctx context.Context, rec domain.Record) (render.Artifact, error) {
	if s.renderer == nil {
		return render.Artifact{}, errors.New("no renderer configured")
	}
	if strings.TrimSpace(rec.FullName()) == "" {
		return render.Artifact{}, &domain.ValidationError{Missing: []domain.FieldID{domain.FieldFullName}}
	}
	return s.renderer.Render(ctx, rec)
}

// RenderByCode prints the stored record with the given code.
func (s *Service) RenderByCode(ctx context.Context, code int) (render.Artifact, error) {
	rec, ok, err := s.store.FetchByCode(ctx, code)
	if err != nil {
		return render.Artifact{}, err
	}
	if !ok {
		return render.Artifact{}, fmt.Errorf("code %s: %w", domain.FormatCode(code), ErrRecordNotFound)
	}
	return s.Render(ctx, rec)
}
