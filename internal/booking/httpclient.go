package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
	"github.com/AlejandroPortugal/portal-agenda/pkg/logging"
)

// Client implements Backend over the remote portal HTTP API. Payloads are
// normalized on ingestion; nothing past this type sees legacy field
// names.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *logging.Logger
}

// NewClient creates an HTTP backend client.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// WeeklySchedule fetches the owner's slot. A 404 means the backend knows
// no schedule yet: booking stays blocked, not defaulted.
func (c *Client) WeeklySchedule(ctx context.Context, owner interviews.OwnerRef) (*interviews.WeeklySchedule, error) {
	path := fmt.Sprintf("/api/v1/owners/%s/%s/schedule", owner.Kind, url.PathEscape(owner.ID))
	body, status, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}
	return interviews.NormalizeSchedule(body, owner)
}

// InterviewsByDate lists a day's interviews, optionally for one owner.
func (c *Client) InterviewsByDate(ctx context.Context, date interviews.Date, owner *interviews.OwnerRef) ([]interviews.Interview, error) {
	q := url.Values{"date": {date.String()}}
	if owner != nil {
		q.Set("ownerKind", string(owner.Kind))
		q.Set("ownerId", owner.ID)
	}
	return c.listInterviews(ctx, "/api/v1/interviews?"+q.Encode())
}

// InterviewsByGuardian lists a guardian's non-canceled interviews.
func (c *Client) InterviewsByGuardian(ctx context.Context, guardianID string) ([]interviews.Interview, error) {
	return c.listInterviews(ctx, "/api/v1/guardians/"+url.PathEscape(guardianID)+"/interviews")
}

// CreateInterview submits a booking, mapping structured rejections onto
// the shared error kinds.
func (c *Client) CreateInterview(ctx context.Context, req interviews.CreateRequest) (*interviews.Interview, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("booking client: marshal create: %w", err)
	}
	body, status, err := c.do(ctx, http.MethodPost, "/api/v1/interviews", payload, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, apiError(status, body)
	}
	return interviews.NormalizeInterview(body)
}

// UpdateInterviewStatus transitions one interview; the acting owner rides
// along as identity headers.
func (c *Client) UpdateInterviewStatus(ctx context.Context, id uuid.UUID, status interviews.Status, actor interviews.OwnerRef) error {
	payload, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return fmt.Errorf("booking client: marshal status: %w", err)
	}
	headers := map[string]string{
		"X-Owner-Kind": string(actor.Kind),
		"X-Owner-Id":   actor.ID,
	}
	body, code, err := c.do(ctx, http.MethodPatch, "/api/v1/interviews/"+id.String()+"/status", payload, headers)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return apiError(code, body)
	}
	return nil
}

// Guardian looks up one guardian.
func (c *Client) Guardian(ctx context.Context, id string) (*interviews.Guardian, error) {
	var g interviews.Guardian
	if err := c.lookup(ctx, "guardians", id, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Student looks up one student.
func (c *Client) Student(ctx context.Context, id string) (*interviews.Student, error) {
	var s interviews.Student
	if err := c.lookup(ctx, "students", id, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Subject looks up one subject.
func (c *Client) Subject(ctx context.Context, id string) (*interviews.Subject, error) {
	var s interviews.Subject
	if err := c.lookup(ctx, "subjects", id, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Reason looks up one reason.
func (c *Client) Reason(ctx context.Context, id string) (*interviews.Reason, error) {
	var r interviews.Reason
	if err := c.lookup(ctx, "reasons", id, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) listInterviews(ctx context.Context, path string) ([]interviews.Interview, error) {
	body, status, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}

	var envelope struct {
		Interviews []json.RawMessage `json:"interviews"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("booking client: decode list: %w", err)
	}

	out := make([]interviews.Interview, 0, len(envelope.Interviews))
	for _, raw := range envelope.Interviews {
		iv, err := interviews.NormalizeInterview(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *iv)
	}
	return out, nil
}

func (c *Client) lookup(ctx context.Context, kind, id string, out any) error {
	body, status, err := c.get(ctx, "/api/v1/lookups/"+kind+"/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError(status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("booking client: decode %s lookup: %w", kind, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, headers map[string]string) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("booking client: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("booking client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("booking client: read response: %w", err)
	}
	return data, resp.StatusCode, nil
}

// apiError maps a structured error payload onto the shared error kinds.
func apiError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	_ = json.Unmarshal(body, &payload)

	switch payload.Kind {
	case "duplicate":
		return interviews.ErrDuplicate
	case "capacity_exhausted":
		return interviews.ErrCapacityExhausted
	case "invalid_transition":
		return interviews.ErrInvalidTransition
	case "no_schedule":
		return interviews.ErrNoSchedule
	}
	if status == http.StatusNotFound {
		return interviews.ErrNotFound
	}
	if payload.Error != "" {
		return fmt.Errorf("booking client: backend rejected request (%d): %s", status, payload.Error)
	}
	return fmt.Errorf("booking client: unexpected status %d", status)
}
