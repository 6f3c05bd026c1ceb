package interviews

// CreateRequest is a booking submission. Override marks a booking that
// would otherwise be refused as a soft duplicate (second attempt after a
// first rejection).
type CreateRequest struct {
	GuardianID  string   `json:"guardian_id"`
	StudentID   string   `json:"student_id"`
	Owner       OwnerRef `json:"owner"`
	SubjectID   string   `json:"subject_id"`
	ReasonID    string   `json:"reason_id"`
	Date        Date     `json:"date"`
	StartTime   string   `json:"start_time,omitempty"`
	EndTime     string   `json:"end_time,omitempty"`
	Virtual     bool     `json:"virtual"`
	MeetingLink string   `json:"meeting_link,omitempty"`
	Description string   `json:"description,omitempty"`
	Override    bool     `json:"override"`
}

// Validate checks the request fields that need no backend state.
func (r *CreateRequest) Validate() error {
	if r.GuardianID == "" {
		return &ValidationError{Field: "guardian_id", Reason: "required"}
	}
	if r.StudentID == "" {
		return &ValidationError{Field: "student_id", Reason: "required"}
	}
	if r.Owner.IsZero() || !r.Owner.Kind.Valid() || r.Owner.ID == "" {
		return &ValidationError{Field: "owner", Reason: "exactly one educator or psychologist is required"}
	}
	if r.SubjectID == "" {
		return &ValidationError{Field: "subject_id", Reason: "required"}
	}
	if r.ReasonID == "" {
		return &ValidationError{Field: "reason_id", Reason: "required"}
	}
	if r.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if !r.Virtual && r.MeetingLink != "" {
		return &ValidationError{Field: "meeting_link", Reason: "only allowed for virtual meetings"}
	}
	return nil
}
