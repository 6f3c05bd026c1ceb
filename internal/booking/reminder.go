package booking

import (
	"context"
	"time"

	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
	"github.com/AlejandroPortugal/portal-agenda/internal/notify"
	"github.com/AlejandroPortugal/portal-agenda/pkg/logging"
)

// Reminder resolves display names through the backend and composes the
// guardian reminder for one interview. Failed lookups degrade to
// placeholders; the message is always produced.
func Reminder(ctx context.Context, backend Backend, iv *interviews.Interview, at time.Time, messagingHost string, logger *logging.Logger) notify.Message {
	if logger == nil {
		logger = logging.Default()
	}

	var names notify.Names
	var phone string

	if g, err := backend.Guardian(ctx, iv.GuardianID); err == nil && g != nil {
		names.Guardian = g.Name
		phone = g.Phone
	} else if err != nil {
		logger.Warn("booking: guardian lookup for reminder", "error", err)
	}
	if s, err := backend.Subject(ctx, iv.SubjectID); err == nil && s != nil {
		names.Subject = s.Name
	} else if err != nil {
		logger.Warn("booking: subject lookup for reminder", "error", err)
	}
	if r, err := backend.Reason(ctx, iv.ReasonID); err == nil && r != nil {
		names.Reason = r.Name
	} else if err != nil {
		logger.Warn("booking: reason lookup for reminder", "error", err)
	}

	// Owner display names are not part of the backend contract; the slot's
	// subject name stands in on screens that show one.
	if sched, err := backend.WeeklySchedule(ctx, iv.Owner); err == nil && sched != nil {
		names.Owner = sched.SubjectName
	}

	return notify.ComposeAt(iv, names, at, phone, messagingHost)
}
