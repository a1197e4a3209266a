package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle status of an event.
type EventStatus string

const (
	EventStatusActive   EventStatus = "ACTIVE"
	EventStatusCanceled EventStatus = "CANCELED"
)

// Event represents a capacity-bounded event hosted by an organizer.
// AttendeeCount is derived from registrations and never persisted.
// swagger:model Event
type Event struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Category      string      `json:"category"`
	EventDatetime time.Time   `json:"event_datetime"`
	Public        bool        `json:"public"`
	MaxAttendees  int         `json:"max_attendees"`
	Status        EventStatus `json:"status"`
	OrganizerID   string      `json:"organizer_id"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	AttendeeCount int         `json:"attendee_count"`
	Organizer     *User       `json:"organizer,omitempty"`
}

// NewEvent returns a new active Event. ID is set by the repository on create.
func NewEvent(name, category string, eventDatetime time.Time, public bool, maxAttendees int, organizerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:          name,
		Category:      category,
		EventDatetime: eventDatetime,
		Public:        public,
		MaxAttendees:  maxAttendees,
		Status:        EventStatusActive,
		OrganizerID:   organizerID,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// EventFilter narrows event listings. Category matches case-insensitively and
// exactly; Name matches case-insensitively as a substring. Empty fields are
// ignored.
type EventFilter struct {
	Category    string
	Name        string
	OrganizerID string
}

// EventUpdate carries a partial update: nil fields keep their current value.
type EventUpdate struct {
	Name          *string
	Category      *string
	EventDatetime *time.Time
	Public        *bool
	MaxAttendees  *int
	Status        *EventStatus
}

// EventRepository defines the interface for event storage. Reads load the
// organizer and the derived attendee count in the same round trip.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
}

// EventService defines event lifecycle operations. Mutations are restricted to
// the event's organizer.
type EventService interface {
	CreateEvent(ctx context.Context, organizerID, name, category string, eventDatetime time.Time, public bool, maxAttendees int) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	// ListEvents returns one page of matching events plus the total match
	// count independent of pagination.
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListMyEvents(ctx context.Context, organizerID string, params PaginationParams) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, eventID, callerID string, upd EventUpdate) (*Event, error)
	// CancelEvent sets the status to CANCELED. Canceling an already-canceled
	// event succeeds. Existing registrations are left untouched.
	CancelEvent(ctx context.Context, eventID, callerID string) (*Event, error)
}
