// Package agenda shares the "agenda full" fact between independently
// mounted views. The fact is advisory: views re-derive authoritative
// capacity from the backend day list on every (re)load, and observers of
// the change notification must re-read the fact rather than assume it is
// still set.
package agenda

import (
	"context"

	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
)

// FullInfo is the persisted shared fact: the date whose slot window is
// exhausted, plus the contact context shown to the user.
type FullInfo struct {
	Date         interviews.Date `json:"date"`
	ContactName  string          `json:"contact_name"`
	ContactPhone string          `json:"contact_phone"`
	Reason       string          `json:"reason"`
}

// Store persists the shared fact under one well-known key and notifies
// observers of changes.
type Store interface {
	// Get returns the current fact, or nil when none is set.
	Get(ctx context.Context) (*FullInfo, error)

	// Set records the fact. It replaces any previous value.
	Set(ctx context.Context, info FullInfo) error

	// Clear removes the fact (successful cancellation or a new booking
	// freed the date).
	Clear(ctx context.Context) error

	// Subscribe returns a channel that receives a tick whenever the fact
	// changes. The caller must invoke the returned stop function when
	// done.
	Subscribe(ctx context.Context) (<-chan struct{}, func(), error)
}

// ClearIfDate removes the fact only when it refers to the given date.
// Used after a successful booking or cancellation touches that date.
func ClearIfDate(ctx context.Context, s Store, d interviews.Date) error {
	info, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if info == nil || info.Date != d {
		return nil
	}
	return s.Clear(ctx)
}
