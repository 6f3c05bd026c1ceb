// Package booking is the client side of the scheduling engine: conflict
// guarding before submission, the exactly-once override retry protocol,
// stale-response sequencing and the interview status lifecycle with
// optimistic updates. It talks to any Backend implementation; conflict
// arbitration that matters is re-validated server-side, the guard here
// only saves round trips.
package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
)

// Backend is the collaborator contract the engine consumes. The
// in-process portal service and the HTTP client both satisfy it.
type Backend interface {
	// WeeklySchedule returns the owner's recurring slot, or nil when the
	// backend knows none. Unknown schedules block booking.
	WeeklySchedule(ctx context.Context, owner interviews.OwnerRef) (*interviews.WeeklySchedule, error)

	// InterviewsByDate lists a day's interviews, optionally for one owner,
	// ordered by start time.
	InterviewsByDate(ctx context.Context, date interviews.Date, owner *interviews.OwnerRef) ([]interviews.Interview, error)

	// InterviewsByGuardian lists a guardian's non-canceled interviews.
	InterviewsByGuardian(ctx context.Context, guardianID string) ([]interviews.Interview, error)

	// CreateInterview submits a booking. It fails with
	// interviews.ErrDuplicate or interviews.ErrCapacityExhausted for the
	// structured rejections the engine reacts to.
	CreateInterview(ctx context.Context, req interviews.CreateRequest) (*interviews.Interview, error)

	// UpdateInterviewStatus transitions one interview for the acting
	// owner.
	UpdateInterviewStatus(ctx context.Context, id uuid.UUID, status interviews.Status, actor interviews.OwnerRef) error

	// Lookup operations degrade to placeholders on failure; callers never
	// abort a flow over a missing display name.
	Guardian(ctx context.Context, id string) (*interviews.Guardian, error)
	Student(ctx context.Context, id string) (*interviews.Student, error)
	Subject(ctx context.Context, id string) (*interviews.Subject, error)
	Reason(ctx context.Context, id string) (*interviews.Reason, error)
}

// MinutesOpener receives the hand-off into the minutes workflow when an
// interview completes. The workflow itself lives outside this module.
type MinutesOpener interface {
	OpenMinutes(ctx context.Context, interviewID uuid.UUID, studentID string)
}
