package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
)

// fakeBackend implements Backend with overridable behavior per test.
type fakeBackend struct {
	mu sync.Mutex

	scheduleFn   func(ctx context.Context, owner interviews.OwnerRef) (*interviews.WeeklySchedule, error)
	byDateFn     func(ctx context.Context, date interviews.Date, owner *interviews.OwnerRef) ([]interviews.Interview, error)
	byGuardianFn func(ctx context.Context, guardianID string) ([]interviews.Interview, error)
	createFn     func(ctx context.Context, req interviews.CreateRequest) (*interviews.Interview, error)
	updateFn     func(ctx context.Context, id uuid.UUID, status interviews.Status, actor interviews.OwnerRef) error
	guardianFn   func(ctx context.Context, id string) (*interviews.Guardian, error)

	createCalls []interviews.CreateRequest
	updateCalls int
}

func (f *fakeBackend) WeeklySchedule(ctx context.Context, owner interviews.OwnerRef) (*interviews.WeeklySchedule, error) {
	if f.scheduleFn != nil {
		return f.scheduleFn(ctx, owner)
	}
	return nil, nil
}

func (f *fakeBackend) InterviewsByDate(ctx context.Context, date interviews.Date, owner *interviews.OwnerRef) ([]interviews.Interview, error) {
	if f.byDateFn != nil {
		return f.byDateFn(ctx, date, owner)
	}
	return nil, nil
}

func (f *fakeBackend) InterviewsByGuardian(ctx context.Context, guardianID string) ([]interviews.Interview, error) {
	if f.byGuardianFn != nil {
		return f.byGuardianFn(ctx, guardianID)
	}
	return nil, nil
}

func (f *fakeBackend) CreateInterview(ctx context.Context, req interviews.CreateRequest) (*interviews.Interview, error) {
	f.mu.Lock()
	f.createCalls = append(f.createCalls, req)
	f.mu.Unlock()
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	iv := &interviews.Interview{
		ID:         uuid.New(),
		GuardianID: req.GuardianID,
		StudentID:  req.StudentID,
		Owner:      req.Owner,
		SubjectID:  req.SubjectID,
		ReasonID:   req.ReasonID,
		Date:       req.Date,
		StartTime:  "09:00",
		EndTime:    "09:20",
		Status:     interviews.StatusPending,
	}
	return iv, nil
}

func (f *fakeBackend) UpdateInterviewStatus(ctx context.Context, id uuid.UUID, status interviews.Status, actor interviews.OwnerRef) error {
	f.mu.Lock()
	f.updateCalls++
	f.mu.Unlock()
	if f.updateFn != nil {
		return f.updateFn(ctx, id, status, actor)
	}
	return nil
}

func (f *fakeBackend) Guardian(ctx context.Context, id string) (*interviews.Guardian, error) {
	if f.guardianFn != nil {
		return f.guardianFn(ctx, id)
	}
	return &interviews.Guardian{ID: id, Name: "María Pérez", Phone: "70012345"}, nil
}

func (f *fakeBackend) Student(ctx context.Context, id string) (*interviews.Student, error) {
	return &interviews.Student{ID: id, Name: "Luis Pérez"}, nil
}

func (f *fakeBackend) Subject(ctx context.Context, id string) (*interviews.Subject, error) {
	return &interviews.Subject{ID: id, Name: "Matemáticas"}, nil
}

func (f *fakeBackend) Reason(ctx context.Context, id string) (*interviews.Reason, error) {
	return &interviews.Reason{ID: id, Name: "Notas"}, nil
}

func (f *fakeBackend) createdCalls() []interviews.CreateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]interviews.CreateRequest, len(f.createCalls))
	copy(out, f.createCalls)
	return out
}

// recordingMinutes captures the hand-off into the minutes workflow.
type recordingMinutes struct {
	mu        sync.Mutex
	interview uuid.UUID
	studentID string
	calls     int
}

func (r *recordingMinutes) OpenMinutes(ctx context.Context, interviewID uuid.UUID, studentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interview = interviewID
	r.studentID = studentID
	r.calls++
}

func ownerA() interviews.OwnerRef {
	return interviews.OwnerRef{Kind: interviews.OwnerEducator, ID: "owner-a"}
}

func ownerB() interviews.OwnerRef {
	return interviews.OwnerRef{Kind: interviews.OwnerPsychologist, ID: "owner-b"}
}

func mondaySchedule(owner interviews.OwnerRef) *interviews.WeeklySchedule {
	return &interviews.WeeklySchedule{
		Owner:     owner,
		Weekday:   time.Monday,
		StartTime: "09:00",
		EndTime:   "10:00",
		SubjectID: "math",
	}
}

// fixedToday pins "today" to Monday 2025-03-03 so 2025-03-10 is a future
// Monday.
func fixedToday() interviews.Date {
	return interviews.NewDate(2025, time.March, 3)
}

func targetMonday() interviews.Date {
	return interviews.NewDate(2025, time.March, 10)
}
