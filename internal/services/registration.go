package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventregistry/internal/domain"
)

type registrationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	contextTimeout   time.Duration
	now              func() time.Time
}

// NewRegistrationService creates a RegistrationService with the given
// repositories.
func NewRegistrationService(eventRepo domain.EventRepository, registrationRepo domain.RegistrationRepository, timeout time.Duration) domain.RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		contextTimeout:   timeout,
		now:              time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID, attendeeID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status == domain.EventStatusCanceled {
		return nil, domain.ErrEventCanceled
	}

	// Snapshot checks give the caller a precise error before attempting the
	// insert. The repository re-validates both at commit time, so a race
	// slipping past this point still cannot duplicate or overshoot.
	if _, err := s.registrationRepo.GetByEventAndAttendee(ctx, eventID, attendeeID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if event.AttendeeCount >= event.MaxAttendees {
		return nil, domain.ErrCapacityExceeded
	}

	// Public events auto-approve; private ones wait for the organizer.
	reg := domain.NewRegistration(eventID, attendeeID, event.Public, s.now())
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered),
			errors.Is(err, domain.ErrCapacityExceeded),
			errors.Is(err, domain.ErrEventCanceled):
			return nil, err
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	created, err := s.registrationRepo.GetByID(ctx, reg.ID)
	if err != nil {
		return nil, fmt.Errorf("get created registration: %w", err)
	}
	return created, nil
}

func (s *registrationService) Approve(ctx context.Context, registrationID, callerID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	// A registration whose event vanished is reported the same way as a
	// missing registration; callers cannot tell the two apart.
	if reg.Event == nil {
		return nil, domain.ErrNotFound
	}
	if err := requireOwner(callerID, reg.Event.OrganizerID); err != nil {
		return nil, err
	}

	// Idempotent: approving an approved registration is a no-op.
	if !reg.ApprovalStatus {
		if err := s.registrationRepo.SetApproval(ctx, registrationID, true); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("approve registration: %w", err)
		}
		reg.ApprovalStatus = true
	}
	return reg, nil
}

func (s *registrationService) Cancel(ctx context.Context, registrationID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	if reg.Event == nil {
		return domain.ErrNotFound
	}
	if err := requireOwner(callerID, reg.AttendeeID, reg.Event.OrganizerID); err != nil {
		return err
	}

	// The window closes at exactly 24 hours before the event, for organizer
	// and attendee alike.
	if reg.Event.EventDatetime.Sub(s.now()) <= domain.CancellationWindow {
		return domain.ErrCancellationWindowClosed
	}

	if err := s.registrationRepo.Delete(ctx, registrationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (s *registrationService) ListForUser(ctx context.Context, attendeeID string) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByAttendeeID(ctx, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (s *registrationService) ListForEvent(ctx context.Context, eventID, callerID string) ([]*domain.Registration, error) {
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

	regs, err := s.registrationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (s *registrationService) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}
