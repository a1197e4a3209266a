package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventregistry/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, organizerID, name, category string, eventDatetime time.Time, public bool, maxAttendees int) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if organizerID == "" {
		return nil, fmt.Errorf("%w: event organizer is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	if eventDatetime.IsZero() {
		return nil, fmt.Errorf("%w: event_datetime is required", domain.ErrInvalidInput)
	}
	if maxAttendees < 1 {
		return nil, fmt.Errorf("%w: max_attendees must be at least 1", domain.ErrInvalidInput)
	}

	now := time.Now()
	event := domain.NewEvent(name, category, eventDatetime, public, maxAttendees, organizerID, now, now)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Listing is public; organizer scoping goes through ListMyEvents.
	filter.OrganizerID = ""
	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, organizerID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, domain.EventFilter{OrganizerID: organizerID}, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list my events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.MaxAttendees != nil && *upd.MaxAttendees < 1 {
		return nil, fmt.Errorf("%w: max_attendees must be at least 1", domain.ErrInvalidInput)
	}
	// Status changes are reserved for CancelEvent.
	upd.Status = nil

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := requireOwner(callerID, event.OrganizerID); err != nil {
		return nil, err
	}

	// Lowering max_attendees below the current attendee count is allowed; the
	// ceiling applies to new registrations only, never retroactively.
	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) CancelEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := requireOwner(callerID, event.OrganizerID); err != nil {
		return nil, err
	}

	// Unconditional set: canceling an already-canceled event succeeds.
	// Existing registrations stay; the registration engine blocks new ones.
	status := domain.EventStatusCanceled
	updated, err := s.eventRepo.Update(ctx, eventID, domain.EventUpdate{Status: &status})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("cancel event: %w", err)
	}
	return updated, nil
}
