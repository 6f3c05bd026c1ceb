package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/AlejandroPortugal/portal-agenda/internal/agenda"
	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
	"github.com/AlejandroPortugal/portal-agenda/internal/observability/metrics"
	"github.com/AlejandroPortugal/portal-agenda/internal/schedule"
	"github.com/AlejandroPortugal/portal-agenda/pkg/logging"
)

// ErrDateExhausted marks a date the shared agenda signal reports as full.
var ErrDateExhausted = errors.New("agenda is full for that date")

// Logical query names for the sequencer.
const (
	querySchedule = "schedule"
	queryDay      = "day"
	queryGuardian = "guardian"
)

// Session owns one view's mutable state: the owner's schedule, the day
// list and the guardian list. State is never shared between sessions;
// cross-view visibility goes through the agenda signal only.
type Session struct {
	backend Backend
	signals agenda.Store
	minutes MinutesOpener
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
	seq     *Sequencer
	today   func() interviews.Date

	owner interviews.OwnerRef

	mu             sync.Mutex
	sched          *interviews.WeeklySchedule
	schedLoaded    bool
	day            interviews.Date
	dayList        []interviews.Interview
	guardianID     string
	guardianList   []interviews.Interview
	selection      *interviews.Date
	notice         string
}

// NewSession creates a view session for one owner. signals, minutes and m
// may be nil.
func NewSession(backend Backend, signals agenda.Store, minutes MinutesOpener, m *metrics.BookingMetrics, logger *logging.Logger, owner interviews.OwnerRef) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	return &Session{
		backend: backend,
		signals: signals,
		minutes: minutes,
		metrics: m,
		logger:  logger,
		seq:     NewSequencer(),
		today:   interviews.Today,
		owner:   owner,
	}
}

// LoadSchedule fetches the owner's weekly slot. A held date selection is
// re-validated once the schedule lands and cleared with a notice if it no
// longer qualifies. Stale responses are discarded silently.
func (s *Session) LoadSchedule(ctx context.Context) error {
	seq := s.seq.Begin(querySchedule)
	sched, err := s.backend.WeeklySchedule(ctx, s.owner)
	if err != nil {
		return fmt.Errorf("booking: load schedule: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seq.IsCurrent(querySchedule, seq) {
		s.metrics.ObserveStaleDropped()
		return nil
	}
	s.sched = sched
	s.schedLoaded = true

	if s.selection != nil {
		if err := ValidateDate(s.sched, *s.selection, s.today()); err != nil {
			s.logger.Info("booking: held selection no longer qualifies",
				"date", s.selection.String(), "reason", err.Error())
			s.selection = nil
			s.notice = "la fecha seleccionada ya no está disponible"
		}
	}
	return nil
}

// Schedule returns the loaded weekly slot, or nil.
func (s *Session) Schedule() *interviews.WeeklySchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	cp := *s.sched
	return &cp
}

// SelectDate holds a candidate day. When the schedule is already known
// the date is validated immediately; otherwise it is held and
// re-validated on schedule arrival. The shared agenda signal makes its
// date ineligible here as well.
func (s *Session) SelectDate(ctx context.Context, d interviews.Date) error {
	if s.signals != nil {
		info, err := s.signals.Get(ctx)
		if err != nil {
			s.logger.Warn("booking: read agenda signal", "error", err)
		} else if info != nil && info.Date == d {
			return ErrDateExhausted
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedLoaded {
		if err := ValidateDate(s.sched, d, s.today()); err != nil {
			return err
		}
	}
	s.selection = &d
	return nil
}

// Selection returns the held date, if any.
func (s *Session) Selection() (interviews.Date, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return interviews.Date{}, false
	}
	return *s.selection, true
}

// ConsumeNotice returns and clears the pending user notice.
func (s *Session) ConsumeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = ""
	return n
}

// LoadDay fetches the owner's interviews for a date and re-derives the
// capacity signal from the authoritative list: set when the window is
// exhausted, cleared when the list shows room again.
func (s *Session) LoadDay(ctx context.Context, date interviews.Date) error {
	seq := s.seq.Begin(queryDay)
	list, err := s.backend.InterviewsByDate(ctx, date, &s.owner)
	if err != nil {
		return fmt.Errorf("booking: load day: %w", err)
	}

	s.mu.Lock()
	if !s.seq.IsCurrent(queryDay, seq) {
		s.mu.Unlock()
		s.metrics.ObserveStaleDropped()
		return nil
	}
	s.day = date
	s.dayList = list
	sched := s.sched
	s.mu.Unlock()

	if s.signals == nil || sched == nil {
		return nil
	}
	if schedule.Exhausted(sched, list) {
		info := agenda.FullInfo{Date: date, Reason: "agenda llena"}
		if err := s.signals.Set(ctx, info); err != nil {
			s.logger.Warn("booking: set agenda signal", "error", err)
		} else {
			s.metrics.ObserveSignal("set")
		}
		return nil
	}
	if err := agenda.ClearIfDate(ctx, s.signals, date); err != nil {
		s.logger.Warn("booking: clear agenda signal", "error", err)
	}
	return nil
}

// DayList returns a copy of the loaded day list.
func (s *Session) DayList() []interviews.Interview {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]interviews.Interview, len(s.dayList))
	copy(out, s.dayList)
	return out
}

// LoadGuardian fetches a guardian's existing interviews for the guard.
func (s *Session) LoadGuardian(ctx context.Context, guardianID string) error {
	seq := s.seq.Begin(queryGuardian)
	list, err := s.backend.InterviewsByGuardian(ctx, guardianID)
	if err != nil {
		return fmt.Errorf("booking: load guardian interviews: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seq.IsCurrent(queryGuardian, seq) {
		s.metrics.ObserveStaleDropped()
		return nil
	}
	s.guardianID = guardianID
	s.guardianList = list
	return nil
}

// NextEligibleDate resolves the first bookable day for the loaded
// guardian, excluding their existing bookings and the shared
// agenda-full date.
func (s *Session) NextEligibleDate(ctx context.Context, horizonDays int) (interviews.Date, bool) {
	excluded := s.exclusions(ctx)

	s.mu.Lock()
	sched := s.sched
	s.mu.Unlock()
	return schedule.NextEligible(sched, s.today(), horizonDays, excluded)
}

// EligibleDates resolves every bookable day within the horizon.
func (s *Session) EligibleDates(ctx context.Context, horizonDays int) []interviews.Date {
	excluded := s.exclusions(ctx)

	s.mu.Lock()
	sched := s.sched
	s.mu.Unlock()
	return schedule.EligibleDates(sched, s.today(), horizonDays, excluded, 0)
}

// SetStatus transitions an interview from the day list. The list is
// updated optimistically, rolled back if the backend rejects the change,
// and reconciled with a full re-fetch on success. Completing an interview
// hands off to the minutes workflow.
func (s *Session) SetStatus(ctx context.Context, id uuid.UUID, target interviews.Status) error {
	s.mu.Lock()
	idx := -1
	for i := range s.dayList {
		if s.dayList[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return interviews.ErrNotFound
	}
	prev := s.dayList[idx].Status
	if !prev.CanTransitionTo(target) {
		s.mu.Unlock()
		s.metrics.ObserveTransition(string(target), "rejected")
		return interviews.ErrInvalidTransition
	}
	s.dayList[idx].Status = target
	studentID := s.dayList[idx].StudentID
	date := s.dayList[idx].Date
	s.mu.Unlock()

	if err := s.backend.UpdateInterviewStatus(ctx, id, target, s.owner); err != nil {
		// Restore the snapshot so the view never drifts from server truth.
		s.mu.Lock()
		for i := range s.dayList {
			if s.dayList[i].ID == id && s.dayList[i].Status == target {
				s.dayList[i].Status = prev
				break
			}
		}
		s.mu.Unlock()
		s.metrics.ObserveTransition(string(target), "rolled_back")
		return fmt.Errorf("booking: update status: %w", err)
	}
	s.metrics.ObserveTransition(string(target), "ok")

	if target == interviews.StatusCanceled && s.signals != nil {
		if err := agenda.ClearIfDate(ctx, s.signals, date); err != nil {
			s.logger.Warn("booking: clear agenda signal", "error", err)
		} else {
			s.metrics.ObserveSignal("clear")
		}
	}

	// Reconcile optimistic state against the authoritative list; the
	// backend may reorder the day as a side effect.
	if err := s.LoadDay(ctx, date); err != nil {
		s.logger.Warn("booking: reconcile after status change", "error", err)
	}

	if target == interviews.StatusCompleted && s.minutes != nil {
		s.minutes.OpenMinutes(ctx, id, studentID)
	}
	return nil
}

func (s *Session) exclusions(ctx context.Context) schedule.DateSet {
	s.mu.Lock()
	guardianList := make([]interviews.Interview, len(s.guardianList))
	copy(guardianList, s.guardianList)
	s.mu.Unlock()

	excluded := schedule.Exclusions(guardianList)
	if s.signals != nil {
		info, err := s.signals.Get(ctx)
		if err != nil {
			s.logger.Warn("booking: read agenda signal", "error", err)
		} else if info != nil {
			excluded.Add(info.Date)
		}
	}
	return excluded
}
