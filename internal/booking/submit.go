package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlejandroPortugal/portal-agenda/internal/agenda"
	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
	"github.com/AlejandroPortugal/portal-agenda/internal/observability/metrics"
	"github.com/AlejandroPortugal/portal-agenda/pkg/logging"
)

// Submitter runs the two-step booking protocol: guard locally, attempt
// without the override flag, and on a duplicate rejection of a soft
// conflict retry exactly once with the flag set. A second rejection is
// surfaced unmodified.
type Submitter struct {
	backend Backend
	signals agenda.Store
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
	today   func() interviews.Date
}

// NewSubmitter creates a submitter. signals and m may be nil.
func NewSubmitter(backend Backend, signals agenda.Store, m *metrics.BookingMetrics, logger *logging.Logger) *Submitter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Submitter{
		backend: backend,
		signals: signals,
		metrics: m,
		logger:  logger,
		today:   interviews.Today,
	}
}

// Submit validates and submits one booking request. The request's
// Override field is managed by the protocol; caller-supplied values are
// ignored.
func (s *Submitter) Submit(ctx context.Context, req interviews.CreateRequest) (*interviews.Interview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sched, err := s.backend.WeeklySchedule(ctx, req.Owner)
	if err != nil {
		return nil, fmt.Errorf("booking: load schedule: %w", err)
	}
	if err := ValidateDate(sched, req.Date, s.today()); err != nil {
		return nil, err
	}

	existing, err := s.backend.InterviewsByGuardian(ctx, req.GuardianID)
	if err != nil {
		return nil, fmt.Errorf("booking: load guardian interviews: %w", err)
	}

	conflict := CheckConflict(existing, req.Owner, req.SubjectID, req.Date)
	if conflict != ConflictNone {
		s.metrics.ObserveConflict(conflict.String())
	}
	if conflict == ConflictHard {
		s.metrics.ObserveSubmission("hard_conflict")
		return nil, ErrHardConflict
	}

	req.Override = false
	created, err := s.backend.CreateInterview(ctx, req)
	if err != nil && conflict == ConflictSoft && errors.Is(err, interviews.ErrDuplicate) {
		s.logger.Info("booking: duplicate rejection on soft conflict, retrying with override",
			"guardian_id", req.GuardianID, "date", req.Date.String())
		s.metrics.ObserveSubmission("override_retry")
		req.Override = true
		created, err = s.backend.CreateInterview(ctx, req)
	}
	if err != nil {
		if errors.Is(err, interviews.ErrCapacityExhausted) {
			s.recordAgendaFull(ctx, req)
			s.metrics.ObserveSubmission("capacity_exhausted")
		} else {
			s.metrics.ObserveSubmission("rejected")
		}
		return nil, err
	}

	// A successful booking proves the date has room again.
	if s.signals != nil {
		if err := agenda.ClearIfDate(ctx, s.signals, req.Date); err != nil {
			s.logger.Warn("booking: clear agenda signal", "error", err)
		} else {
			s.metrics.ObserveSignal("clear")
		}
	}

	s.metrics.ObserveSubmission("created")
	s.logger.Info("booking: interview created",
		"id", created.ID, "guardian_id", created.GuardianID, "date", created.Date.String())
	return created, nil
}

// recordAgendaFull persists the shared fact so concurrently open views
// treat the date as unavailable without another round trip. Lookup
// failures degrade to placeholders.
func (s *Submitter) recordAgendaFull(ctx context.Context, req interviews.CreateRequest) {
	if s.signals == nil {
		return
	}
	info := agenda.FullInfo{Date: req.Date, Reason: "agenda llena"}
	if g, err := s.backend.Guardian(ctx, req.GuardianID); err == nil && g != nil {
		info.ContactName = g.Name
		info.ContactPhone = g.Phone
	}
	if err := s.signals.Set(ctx, info); err != nil {
		s.logger.Warn("booking: set agenda signal", "error", err)
		return
	}
	s.metrics.ObserveSignal("set")
}
