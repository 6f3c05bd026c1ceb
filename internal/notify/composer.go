// Package notify composes the guardian reminder message and its deep link
// into the external messaging channel. Everything is a pure function of
// its inputs: no network, no storage, no clock reads.
package notify

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
)

// DefaultMessagingHost is the external messaging channel host.
const DefaultMessagingHost = "wa.me"

// eveningStartHour is the single afternoon/evening boundary. Historical
// call sites disagreed between 18 and 19; every screen now composes with
// this constant.
const eveningStartHour = 19

const noonHour = 12

// Greetings by time of day, in the portal's audience language.
const (
	greetingMorning   = "Buenos días"
	greetingAfternoon = "Buenas tardes"
	greetingEvening   = "Buenas noches"
)

// placeholderName substitutes lookups that failed upstream; composition
// degrades instead of aborting.
const placeholderName = "-"

var weekdaysES = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var monthsES = [...]string{"", "enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// Names carries the resolved display names the message embeds.
type Names struct {
	Guardian string
	Owner    string
	Subject  string
	Reason   string
}

// Message is the composed reminder: the text body and, when the guardian
// phone is usable, the deep link carrying it.
type Message struct {
	Body string
	Link string
}

// Greeting selects the salutation for an hour of day (0-23).
func Greeting(hour int) string {
	switch {
	case hour < noonHour:
		return greetingMorning
	case hour < eveningStartHour:
		return greetingAfternoon
	default:
		return greetingEvening
	}
}

// LongDate formats a calendar day as weekday + day + month, localized.
func LongDate(d interviews.Date) string {
	return fmt.Sprintf("%s %d de %s", weekdaysES[d.Weekday()], d.Day, monthsES[d.Month])
}

// Compose builds the reminder for an interview. The hour selects the
// greeting; guardianPhone feeds the deep link. Identical inputs always
// yield identical output.
func Compose(iv *interviews.Interview, names Names, hour int, guardianPhone, messagingHost string) Message {
	if messagingHost == "" {
		messagingHost = DefaultMessagingHost
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s,\n", Greeting(hour), orPlaceholder(names.Guardian))
	fmt.Fprintf(&b, "le recordamos su entrevista con %s el %s de %s a %s.\n",
		orPlaceholder(names.Owner), LongDate(iv.Date), iv.StartTime, iv.EndTime)
	fmt.Fprintf(&b, "Materia: %s. Motivo: %s.", orPlaceholder(names.Subject), orPlaceholder(names.Reason))
	if iv.Virtual && iv.MeetingLink != "" {
		fmt.Fprintf(&b, "\nEnlace de la reunión: %s", iv.MeetingLink)
	}
	body := b.String()

	msg := Message{Body: body}
	if digits, ok := NormalizePhone(guardianPhone); ok {
		msg.Link = fmt.Sprintf("https://%s/%s?text=%s", messagingHost, digits, url.QueryEscape(body))
	}
	return msg
}

// ComposeAt is Compose with the greeting hour taken from a wall-clock
// instant, for call sites holding a time.Time.
func ComposeAt(iv *interviews.Interview, names Names, at time.Time, guardianPhone, messagingHost string) Message {
	return Compose(iv, names, at.Hour(), guardianPhone, messagingHost)
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholderName
	}
	return s
}
