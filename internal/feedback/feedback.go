// Package feedback stores validated customer feedback records in the
// key-value store.
package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tillstack/tillstack/internal/platform/kv"
)

// Categories a customer can tag feedback with.
var Categories = []string{"Service", "Staff", "Pricing", "Ambience", "Other"}

// Record is one submitted feedback entry.
type Record struct {
	ID          string    `json:"id"`
	Customer    string    `json:"customer" validate:"required,min=2,max=100"`
	Contact     string    `json:"contact" validate:"omitempty,max=100"`
	Rating      int       `json:"rating" validate:"required,min=1,max=5"`
	Categories  []string  `json:"categories" validate:"omitempty,dive,oneof=Service Staff Pricing Ambience Other"`
	Comment     string    `json:"comment" validate:"omitempty,max=2000"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Service validates and appends feedback records to the store.
type Service struct {
	store    kv.Store
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService wires the feedback service.
func NewService(store kv.Store, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) *Service {
	if fn != nil {
		s.now = fn
	}
	return s
}

// Submit validates rec, stamps it with an ID and timestamp, and appends it to
// the feedback collection. The stored record is returned.
func (s *Service) Submit(ctx context.Context, rec Record) (Record, error) {
	if err := s.validate.Struct(rec); err != nil {
		return Record{}, fmt.Errorf("feedback: %w", err)
	}

	rec.ID = uuid.NewString()
	rec.SubmittedAt = s.now()

	existing, err := s.List(ctx)
	if err != nil {
		return Record{}, err
	}
	existing = append(existing, rec)

	raw, err := json.Marshal(existing)
	if err != nil {
		return Record{}, fmt.Errorf("feedback: marshal: %w", err)
	}
	if err := s.store.Set(ctx, kv.KeyFeedback, string(raw)); err != nil {
		return Record{}, fmt.Errorf("feedback: store: %w", err)
	}
	return rec, nil
}

// List returns all stored feedback records. A missing or malformed
// collection yields an empty list; malformed data is logged and replaced on
// the next submit.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	raw, err := s.store.Get(ctx, kv.KeyFeedback)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("feedback: read: %w", err)
	}
	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("feedback: malformed collection, resetting", slog.Any("error", err))
		return nil, nil
	}
	return records, nil
}
