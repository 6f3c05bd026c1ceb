// Package portal implements the backend side of the booking contract on
// top of the interview store. It does plain CRUD, duplicate detection and
// end-time capacity accounting; queue and priority ordering stay with the
// upstream system.
package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AlejandroPortugal/portal-agenda/internal/agenda"
	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
	"github.com/AlejandroPortugal/portal-agenda/internal/observability/metrics"
	"github.com/AlejandroPortugal/portal-agenda/internal/schedule"
	"github.com/AlejandroPortugal/portal-agenda/pkg/logging"
)

// DefaultMeetingMinutes is the slot granularity used when a request does
// not carry explicit times.
const DefaultMeetingMinutes = 20

// Service exposes the booking contract over the store.
type Service struct {
	store   *interviews.Store
	signals agenda.Store
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
	today   func() interviews.Date
}

// NewService creates a portal service. signals may be nil; when set, a
// cancellation clears a matching agenda-full fact since the date may have
// room again. m may be nil.
func NewService(store *interviews.Store, signals agenda.Store, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, signals: signals, metrics: m, logger: logger, today: interviews.Today}
}

// WeeklySchedule returns the owner's slot, or nil when none is known.
func (s *Service) WeeklySchedule(ctx context.Context, owner interviews.OwnerRef) (*interviews.WeeklySchedule, error) {
	return s.store.WeeklySchedule(ctx, owner)
}

// InterviewsByDate lists a day's interviews, optionally for one owner.
func (s *Service) InterviewsByDate(ctx context.Context, date interviews.Date, owner *interviews.OwnerRef) ([]interviews.Interview, error) {
	return s.store.ListByDate(ctx, date, owner)
}

// InterviewsByGuardian lists a guardian's non-canceled interviews.
func (s *Service) InterviewsByGuardian(ctx context.Context, guardianID string) ([]interviews.Interview, error) {
	return s.store.ListByGuardian(ctx, guardianID)
}

// CreateInterview validates and persists a booking request.
func (s *Service) CreateInterview(ctx context.Context, req interviews.CreateRequest) (*interviews.Interview, error) {
	iv, err := s.createInterview(ctx, req)
	s.metrics.ObserveSubmission(submissionOutcome(err))
	return iv, err
}

func (s *Service) createInterview(ctx context.Context, req interviews.CreateRequest) (*interviews.Interview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sched, err := s.store.WeeklySchedule(ctx, req.Owner)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, interviews.ErrNoSchedule
	}

	today := s.today()
	if !req.Date.After(today) {
		return nil, &interviews.ValidationError{Field: "date", Reason: "must be after today"}
	}
	if req.Date.IsWeekend() {
		return nil, &interviews.ValidationError{Field: "date", Reason: "weekends are not bookable"}
	}
	if req.Date.Weekday() != sched.Weekday {
		return nil, &interviews.ValidationError{Field: "date", Reason: "does not match the weekly slot"}
	}

	existing, err := s.store.ListByGuardian(ctx, req.GuardianID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Date != req.Date || existing[i].Status == interviews.StatusCanceled {
			continue
		}
		sameSlot := existing[i].Owner == req.Owner && existing[i].SubjectID == req.SubjectID
		if sameSlot {
			// Hard duplicate: never accepted, override or not.
			return nil, interviews.ErrDuplicate
		}
		if !req.Override {
			// Soft duplicate: a second booking that day needs the
			// override flag of a deliberate retry.
			return nil, interviews.ErrDuplicate
		}
	}

	day, err := s.store.ListByDate(ctx, req.Date, &req.Owner)
	if err != nil {
		return nil, err
	}
	if schedule.Exhausted(sched, day) {
		return nil, interviews.ErrCapacityExhausted
	}

	start, end := req.StartTime, req.EndTime
	if start == "" || end == "" {
		startMin, ok := schedule.NextFreeStart(sched, day, DefaultMeetingMinutes)
		if !ok {
			return nil, interviews.ErrCapacityExhausted
		}
		start = minutesToClock(startMin)
		end = minutesToClock(startMin + DefaultMeetingMinutes)
	} else if err := s.checkWindow(sched, day, start, end); err != nil {
		return nil, err
	}

	iv := &interviews.Interview{
		ID:          uuid.New(),
		GuardianID:  req.GuardianID,
		StudentID:   req.StudentID,
		Owner:       req.Owner,
		SubjectID:   req.SubjectID,
		ReasonID:    req.ReasonID,
		Date:        req.Date,
		StartTime:   start,
		EndTime:     end,
		Virtual:     req.Virtual,
		MeetingLink: req.MeetingLink,
		Status:      interviews.StatusPending,
		Description: req.Description,
	}
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, iv); err != nil {
		return nil, err
	}

	s.logger.Info("interview created",
		"id", iv.ID,
		"guardian_id", iv.GuardianID,
		"owner_kind", string(iv.Owner.Kind),
		"owner_id", iv.Owner.ID,
		"date", iv.Date.String(),
		"override", req.Override,
	)
	return iv, nil
}

// UpdateInterviewStatus transitions a pending interview for the acting
// owner.
func (s *Service) UpdateInterviewStatus(ctx context.Context, id uuid.UUID, status interviews.Status, actor interviews.OwnerRef) error {
	err := s.updateInterviewStatus(ctx, id, status, actor)
	s.metrics.ObserveTransition(string(status), transitionResult(err))
	return err
}

func (s *Service) updateInterviewStatus(ctx context.Context, id uuid.UUID, status interviews.Status, actor interviews.OwnerRef) error {
	if !status.Terminal() {
		return interviews.ErrInvalidTransition
	}
	if err := s.store.UpdateStatus(ctx, id, status, actor); err != nil {
		return err
	}
	s.logger.Info("interview status updated", "id", id, "status", string(status))

	if status == interviews.StatusCanceled && s.signals != nil {
		if iv, err := s.store.GetByID(ctx, id); err == nil {
			if err := agenda.ClearIfDate(ctx, s.signals, iv.Date); err != nil {
				s.logger.Warn("clear agenda signal", "error", err)
			}
		}
	}
	return nil
}

// Guardian looks up one guardian.
func (s *Service) Guardian(ctx context.Context, id string) (*interviews.Guardian, error) {
	return s.store.Guardian(ctx, id)
}

// Student looks up one student.
func (s *Service) Student(ctx context.Context, id string) (*interviews.Student, error) {
	return s.store.Student(ctx, id)
}

// Subject looks up one subject.
func (s *Service) Subject(ctx context.Context, id string) (*interviews.Subject, error) {
	return s.store.Subject(ctx, id)
}

// Reason looks up one reason.
func (s *Service) Reason(ctx context.Context, id string) (*interviews.Reason, error) {
	return s.store.Reason(ctx, id)
}

func (s *Service) checkWindow(sched *interviews.WeeklySchedule, day []interviews.Interview, start, end string) error {
	startMin, err := interviews.ClockMinutes(start)
	if err != nil {
		return &interviews.ValidationError{Field: "start_time", Reason: "must be HH:MM"}
	}
	endMin, err := interviews.ClockMinutes(end)
	if err != nil {
		return &interviews.ValidationError{Field: "end_time", Reason: "must be HH:MM"}
	}
	if endMin <= startMin {
		return &interviews.ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	slotStart, _ := interviews.ClockMinutes(sched.StartTime)
	slotEnd, _ := interviews.ClockMinutes(sched.EndTime)
	if startMin < slotStart || endMin > slotEnd {
		return &interviews.ValidationError{Field: "start_time", Reason: "outside the weekly slot window"}
	}
	for i := range day {
		if day[i].Status == interviews.StatusCanceled {
			continue
		}
		bs, err1 := interviews.ClockMinutes(day[i].StartTime)
		be, err2 := interviews.ClockMinutes(day[i].EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if startMin < be && endMin > bs {
			return interviews.ErrCapacityExhausted
		}
	}
	return nil
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, interviews.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, interviews.ErrCapacityExhausted):
		return "capacity_exhausted"
	case errors.Is(err, interviews.ErrNoSchedule):
		return "no_schedule"
	case interviews.IsValidation(err):
		return "validation"
	default:
		return "error"
	}
}

func transitionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, interviews.ErrInvalidTransition):
		return "invalid"
	case errors.Is(err, interviews.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
