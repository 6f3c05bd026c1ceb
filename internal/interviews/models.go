// Package interviews defines the canonical booking shapes consumed by the
// scheduling engine. Heterogeneous backend payloads are mapped into these
// shapes exactly once at the API boundary (see normalize.go); downstream
// code never re-guesses field names.
package interviews

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks the lifecycle of an interview. Cancellation is a status
// transition, never a deletion.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// CanTransitionTo reports whether the target status is reachable from s.
// Pending is the only non-terminal state.
func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusPending {
		return false
	}
	return target == StatusCompleted || target == StatusCanceled
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// OwnerKind distinguishes the two staff roles that hold weekly slots.
type OwnerKind string

const (
	OwnerEducator     OwnerKind = "educator"
	OwnerPsychologist OwnerKind = "psychologist"
)

// Valid reports whether k is a known owner kind.
func (k OwnerKind) Valid() bool {
	return k == OwnerEducator || k == OwnerPsychologist
}

// OwnerRef identifies the educator or psychologist an interview or weekly
// slot belongs to. Exactly one kind is set per reference.
type OwnerRef struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

// IsZero reports whether the reference is unset.
func (o OwnerRef) IsZero() bool {
	return o.Kind == "" && o.ID == ""
}

// Interview is a scheduled meeting between a guardian and an owner about a
// student.
type Interview struct {
	ID          uuid.UUID `json:"id"`
	GuardianID  string    `json:"guardian_id"`
	StudentID   string    `json:"student_id"`
	Owner       OwnerRef  `json:"owner"`
	SubjectID   string    `json:"subject_id"`
	ReasonID    string    `json:"reason_id"`
	Date        Date      `json:"date"`
	StartTime   string    `json:"start_time"` // HH:MM
	EndTime     string    `json:"end_time"`   // HH:MM
	Virtual     bool      `json:"virtual"`
	MeetingLink string    `json:"meeting_link,omitempty"`
	Status      Status    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the structural invariants of an interview record.
func (iv *Interview) Validate() error {
	if iv.GuardianID == "" {
		return &ValidationError{Field: "guardian_id", Reason: "required"}
	}
	if iv.StudentID == "" {
		return &ValidationError{Field: "student_id", Reason: "required"}
	}
	if iv.Owner.IsZero() || !iv.Owner.Kind.Valid() || iv.Owner.ID == "" {
		return &ValidationError{Field: "owner", Reason: "exactly one educator or psychologist is required"}
	}
	if iv.SubjectID == "" {
		return &ValidationError{Field: "subject_id", Reason: "required"}
	}
	if iv.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if _, err := ClockMinutes(iv.StartTime); err != nil {
		return &ValidationError{Field: "start_time", Reason: "must be HH:MM"}
	}
	if _, err := ClockMinutes(iv.EndTime); err != nil {
		return &ValidationError{Field: "end_time", Reason: "must be HH:MM"}
	}
	if !iv.Virtual && iv.MeetingLink != "" {
		return &ValidationError{Field: "meeting_link", Reason: "only allowed for virtual meetings"}
	}
	if !iv.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status"}
	}
	return nil
}

// WeeklySchedule is one owner's recurring availability slot. The engine
// treats it as authoritative and immutable: an owner is bound to exactly
// one subject and one weekly window.
type WeeklySchedule struct {
	Owner       OwnerRef     `json:"owner"`
	Weekday     time.Weekday `json:"weekday"`
	StartTime   string       `json:"start_time"` // HH:MM
	EndTime     string       `json:"end_time"`   // HH:MM
	SubjectID   string       `json:"subject_id"`
	SubjectName string       `json:"subject_name"`
}

// Guardian is a read-only lookup record.
type Guardian struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Student is a read-only lookup record.
type Student struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subject is a read-only lookup record.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Reason is a read-only lookup record.
type Reason struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
