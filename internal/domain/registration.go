package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for registration rule violations. All are terminal for the
// request; callers surface them verbatim and never retry.
var (
	ErrEventCanceled            = errors.New("event is canceled")
	ErrAlreadyRegistered        = errors.New("user is already registered for this event")
	ErrCapacityExceeded         = errors.New("maximum attendees reached for this event")
	ErrCancellationWindowClosed = errors.New("registration must be canceled more than 24 hours before the event")
)

// CancellationWindow is the period before an event's start during which no
// registration for it may be canceled by anyone.
const CancellationWindow = 24 * time.Hour

// Registration links an attendee to an event. ApprovalStatus is true for
// registrations to public events from the moment they are created; private
// events require the organizer to approve.
// swagger:model Registration
type Registration struct {
	ID                   string    `json:"id"`
	EventID              string    `json:"event_id"`
	AttendeeID           string    `json:"attendee_id"`
	RegistrationDatetime time.Time `json:"registration_datetime"`
	ApprovalStatus       bool      `json:"approval_status"`
	Event                *Event    `json:"event,omitempty"`
	Attendee             *User     `json:"attendee,omitempty"`
}

// NewRegistration creates a Registration. ID is set by the repository on create.
func NewRegistration(eventID, attendeeID string, approvalStatus bool, registeredAt time.Time) *Registration {
	return &Registration{
		EventID:              eventID,
		AttendeeID:           attendeeID,
		RegistrationDatetime: registeredAt,
		ApprovalStatus:       approvalStatus,
	}
}

// RegistrationRepository defines storage operations for registrations.
//
// Create must be atomic with respect to concurrent creates for the same event:
// it commits only while the event is active, the (event, attendee) pair is not
// yet registered, and the registration count is below the event's capacity.
// Violations map to ErrEventCanceled, ErrAlreadyRegistered, and
// ErrCapacityExceeded respectively.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*Registration, error)
	ListByAttendeeID(ctx context.Context, attendeeID string) ([]*Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Registration, error)
	ListAll(ctx context.Context) ([]*Registration, error)
	SetApproval(ctx context.Context, id string, approved bool) error
	Delete(ctx context.Context, id string) error
}

// RegistrationService defines the registration lifecycle:
// absent -> pending -> approved, with cancellation (deletion) reachable from
// either state. A canceled registration cannot be revived; registering again
// creates a new one.
type RegistrationService interface {
	Register(ctx context.Context, eventID, attendeeID string) (*Registration, error)
	// Approve marks the registration approved. Only the organizer of the
	// registration's event may approve; approving twice is not an error.
	Approve(ctx context.Context, registrationID, callerID string) (*Registration, error)
	// Cancel deletes the registration. Allowed for the attendee and the
	// event's organizer alike, and only while more than CancellationWindow
	// remains before the event starts.
	Cancel(ctx context.Context, registrationID, callerID string) error
	ListForUser(ctx context.Context, attendeeID string) ([]*Registration, error)
	ListForEvent(ctx context.Context, eventID, callerID string) ([]*Registration, error)
	ListAll(ctx context.Context) ([]*Registration, error)
}
