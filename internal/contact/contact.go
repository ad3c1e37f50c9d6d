// Package contact validates, records and delivers contact form submissions.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/form"
	"github.com/Zachkp/folio/internal/schedule"
	"github.com/Zachkp/folio/internal/store"
)

// Visitor-facing outcomes.
const (
	SuccessMessage = "Thank you for your message! I'll get back to you soon."
	FailureMessage = "Sorry, there was an error sending your message. Please try again later."
)

// DefaultDelay is how long a simulated submission takes.
const DefaultDelay = 2 * time.Second

// ErrRejected is the synthetic failure of a simulated submission.
var ErrRejected = errors.New("contact: submission rejected")

// Submission is a validated message ready for delivery.
type Submission struct {
	ID      string
	Name    string
	Email   string
	Subject string
	Message string
}

// Submitter delivers a submission.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// SimulatedSubmitter waits a fixed delay and then succeeds, or fails with
// ErrRejected when Fail is set. Nothing leaves the process.
type SimulatedSubmitter struct {
	Clock schedule.Clock
	Delay time.Duration
	Fail  bool
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, _ Submission) error {
	clock := s.Clock
	if clock == nil {
		clock = schedule.RealClock{}
	}
	if err := schedule.Sleep(ctx, clock, s.Delay); err != nil {
		return err
	}
	if s.Fail {
		return ErrRejected
	}
	return nil
}

// Recorder persists submissions and their delivery status.
type Recorder interface {
	SaveMessage(ctx context.Context, m store.Message) error
	SetMessageStatus(ctx context.Context, id, status string) error
}

// Receipt is returned for an accepted submission.
type Receipt struct {
	ID      string
	Message string
}

// Service runs a contact form through validation, storage and delivery.
type Service struct {
	rec   Recorder
	sub   Submitter
	clock schedule.Clock
	log   *zap.Logger
}

// NewService wires a Service. rec may be nil to skip persistence.
func NewService(rec Recorder, sub Submitter, clock schedule.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = schedule.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{rec: rec, sub: sub, clock: clock, log: logger}
}

// Submit validates f and delivers it. Invalid forms return a
// *form.ValidationError; delivery failures are recorded and returned.
func (s *Service) Submit(ctx context.Context, f form.ContactForm) (Receipt, error) {
	if errs := f.ValidateAll(); len(errs) > 0 {
		return Receipt{}, &form.ValidationError{Fields: errs}
	}

	sub := Submission{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
	}

	if s.rec != nil {
		err := s.rec.SaveMessage(ctx, store.Message{
			ID:        sub.ID,
			Name:      sub.Name,
			Email:     sub.Email,
			Subject:   sub.Subject,
			Body:      sub.Message,
			Status:    store.StatusPending,
			CreatedAt: s.clock.Now(),
		})
		if err != nil {
			return Receipt{}, fmt.Errorf("contact: record: %w", err)
		}
	}

	if err := s.sub.Submit(ctx, sub); err != nil {
		s.log.Warn("contact submission failed", zap.String("id", sub.ID), zap.Error(err))
		s.setStatus(sub.ID, store.StatusFailed)
		return Receipt{}, fmt.Errorf("contact: deliver %s: %w", sub.ID, err)
	}
	s.setStatus(sub.ID, store.StatusSent)
	s.log.Info("contact submission delivered", zap.String("id", sub.ID))
	return Receipt{ID: sub.ID, Message: SuccessMessage}, nil
}

func (s *Service) setStatus(id, status string) {
	if s.rec == nil {
		return
	}
	// the request context may already be canceled on a failed delivery
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.rec.SetMessageStatus(ctx, id, status); err != nil {
		s.log.Error("cannot update message status", zap.String("id", id), zap.Error(err))
	}
}
