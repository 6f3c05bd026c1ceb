package interviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides persistence for interviews, weekly schedules and the
// read-only lookup tables.
type Store struct {
	db DB
}

// NewStore creates an interview store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const interviewColumns = `id, guardian_id, student_id, owner_kind, owner_id, subject_id, reason_id,
	date, start_time, end_time, virtual, meeting_link, status, description, created_at, updated_at`

// Create inserts a new interview.
func (s *Store) Create(ctx context.Context, iv *Interview) error {
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	now := time.Now().UTC()
	iv.CreatedAt = now
	iv.UpdatedAt = now
	if iv.Status == "" {
		iv.Status = StatusPending
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO interviews (id, guardian_id, student_id, owner_kind, owner_id, subject_id, reason_id,
			date, start_time, end_time, virtual, meeting_link, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		iv.ID, iv.GuardianID, iv.StudentID, string(iv.Owner.Kind), iv.Owner.ID, iv.SubjectID, iv.ReasonID,
		iv.Date.String(), iv.StartTime, iv.EndTime, iv.Virtual, iv.MeetingLink, string(iv.Status),
		iv.Description, iv.CreatedAt, iv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("interviews: create: %w", err)
	}
	return nil
}

// GetByID returns one interview.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Interview, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+interviewColumns+`
		FROM interviews WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("interviews: get by id: %w", err)
	}
	defer rows.Close()
	list, err := scanInterviews(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}

// ListByDate returns all interviews on a date ordered by start time,
// optionally narrowed to one owner.
func (s *Store) ListByDate(ctx context.Context, date Date, owner *OwnerRef) ([]Interview, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if owner != nil {
		rows, err = s.db.Query(ctx, `
			SELECT `+interviewColumns+`
			FROM interviews
			WHERE date = $1 AND owner_kind = $2 AND owner_id = $3
			ORDER BY start_time ASC`, date.String(), string(owner.Kind), owner.ID)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT `+interviewColumns+`
			FROM interviews
			WHERE date = $1
			ORDER BY start_time ASC`, date.String())
	}
	if err != nil {
		return nil, fmt.Errorf("interviews: list by date: %w", err)
	}
	defer rows.Close()
	return scanInterviews(rows)
}

// ListByGuardian returns a guardian's non-canceled interviews ordered by
// date and start time.
func (s *Store) ListByGuardian(ctx context.Context, guardianID string) ([]Interview, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+interviewColumns+`
		FROM interviews
		WHERE guardian_id = $1 AND status <> 'canceled'
		ORDER BY date ASC, start_time ASC`, guardianID)
	if err != nil {
		return nil, fmt.Errorf("interviews: list by guardian: %w", err)
	}
	defer rows.Close()
	return scanInterviews(rows)
}

// UpdateStatus transitions a pending interview owned by actor to the
// target status. Returns ErrInvalidTransition when the interview exists
// but is no longer pending, ErrNotFound otherwise.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, actor OwnerRef) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE interviews SET status = $1, updated_at = $2
		WHERE id = $3 AND owner_kind = $4 AND owner_id = $5 AND status = 'pending'`,
		string(status), time.Now().UTC(), id, string(actor.Kind), actor.ID,
	)
	if err != nil {
		return fmt.Errorf("interviews: update status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("interviews: update status: %w", err)
	}
	if existing.Owner != actor {
		return ErrNotFound
	}
	return ErrInvalidTransition
}

// WeeklySchedule returns the owner's slot, or nil when none is configured.
func (s *Store) WeeklySchedule(ctx context.Context, owner OwnerRef) (*WeeklySchedule, error) {
	row := s.db.QueryRow(ctx, `
		SELECT weekday, start_time, end_time, subject_id, subject_name
		FROM weekly_schedules
		WHERE owner_kind = $1 AND owner_id = $2`, string(owner.Kind), owner.ID)

	var (
		weekday int
		ws      = WeeklySchedule{Owner: owner}
	)
	err := row.Scan(&weekday, &ws.StartTime, &ws.EndTime, &ws.SubjectID, &ws.SubjectName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("interviews: weekly schedule: %w", err)
	}
	ws.Weekday = time.Weekday(weekday)
	return &ws, nil
}

// Guardian looks up one guardian.
func (s *Store) Guardian(ctx context.Context, id string) (*Guardian, error) {
	g := Guardian{ID: id}
	err := s.db.QueryRow(ctx, `SELECT name, phone FROM guardians WHERE id = $1`, id).Scan(&g.Name, &g.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("interviews: guardian lookup: %w", err)
	}
	return &g, nil
}

// Student looks up one student.
func (s *Store) Student(ctx context.Context, id string) (*Student, error) {
	name, err := s.lookupName(ctx, "students", id)
	if err != nil {
		return nil, err
	}
	return &Student{ID: id, Name: name}, nil
}

// Subject looks up one subject.
func (s *Store) Subject(ctx context.Context, id string) (*Subject, error) {
	name, err := s.lookupName(ctx, "subjects", id)
	if err != nil {
		return nil, err
	}
	return &Subject{ID: id, Name: name}, nil
}

// Reason looks up one reason.
func (s *Store) Reason(ctx context.Context, id string) (*Reason, error) {
	name, err := s.lookupName(ctx, "reasons", id)
	if err != nil {
		return nil, err
	}
	return &Reason{ID: id, Name: name}, nil
}

func (s *Store) lookupName(ctx context.Context, table, id string) (string, error) {
	var name string
	err := s.db.QueryRow(ctx, `SELECT name FROM `+table+` WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("interviews: %s lookup: %w", table, err)
	}
	return name, nil
}

func scanInterviews(rows pgx.Rows) ([]Interview, error) {
	var result []Interview
	for rows.Next() {
		var (
			iv        Interview
			ownerKind string
			status    string
			rawDate   string
		)
		err := rows.Scan(
			&iv.ID, &iv.GuardianID, &iv.StudentID, &ownerKind, &iv.Owner.ID,
			&iv.SubjectID, &iv.ReasonID, &rawDate, &iv.StartTime, &iv.EndTime,
			&iv.Virtual, &iv.MeetingLink, &status, &iv.Description,
			&iv.CreatedAt, &iv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("interviews: scan: %w", err)
		}
		iv.Owner.Kind = OwnerKind(ownerKind)
		iv.Status = Status(status)
		d, err := ParseDate(rawDate)
		if err != nil {
			return nil, err
		}
		iv.Date = d
		result = append(result, iv)
	}
	return result, rows.Err()
}
