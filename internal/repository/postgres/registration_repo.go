package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventregistry/internal/domain"
)

// registrationColumns selects a registration row with its event (organizer and
// derived attendee count included) and its attendee.
const registrationColumns = `
	r.id, r.event_id, r.attendee_id, r.registration_datetime, r.approval_status,
	e.id, e.name, e.category, e.event_datetime, e.public, e.max_attendees,
	e.status, e.organizer_id, e.created_at, e.updated_at,
	(SELECT COUNT(*) FROM registrations c WHERE c.event_id = e.id) AS attendee_count,
	o.id, o.name, o.email, o.created_at, o.updated_at,
	a.id, a.name, a.email, a.created_at, a.updated_at
`

const registrationJoins = `
	FROM registrations r
	JOIN events e ON e.id = r.event_id
	JOIN users o ON o.id = e.organizer_id
	JOIN users a ON a.id = r.attendee_id
`

func scanRegistration(s rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	ev := &domain.Event{}
	org := &domain.User{}
	att := &domain.User{}
	err := s.Scan(
		&reg.ID, &reg.EventID, &reg.AttendeeID, &reg.RegistrationDatetime, &reg.ApprovalStatus,
		&ev.ID, &ev.Name, &ev.Category, &ev.EventDatetime, &ev.Public, &ev.MaxAttendees,
		&ev.Status, &ev.OrganizerID, &ev.CreatedAt, &ev.UpdatedAt,
		&ev.AttendeeCount,
		&org.ID, &org.Name, &org.Email, &org.CreatedAt, &org.UpdatedAt,
		&att.ID, &att.Name, &att.Email, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ev.Organizer = org
	reg.Event = ev
	reg.Attendee = att
	return reg, nil
}

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Create inserts a registration while holding a row lock on its event, so
// concurrent attempts against the same event serialize. The status, duplicate,
// and capacity checks all run against the locked state; a duplicate that beat
// us to the insert surfaces through the (event_id, attendee_id) unique index.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status domain.EventStatus
	var maxAttendees int
	query := `SELECT status, max_attendees FROM events WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, reg.EventID).Scan(&status, &maxAttendees)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}
	if status == domain.EventStatusCanceled {
		return domain.ErrEventCanceled
	}

	var count int
	query = `SELECT COUNT(*) FROM registrations WHERE event_id = $1`
	if err := tx.QueryRowContext(ctx, query, reg.EventID).Scan(&count); err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if count >= maxAttendees {
		return domain.ErrCapacityExceeded
	}

	query = `
		INSERT INTO registrations (event_id, attendee_id, registration_datetime, approval_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, reg.EventID, reg.AttendeeID, reg.RegistrationDatetime, reg.ApprovalStatus).
		Scan(&reg.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE r.id = $1`, registrationColumns, registrationJoins)
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, attendee_id, registration_datetime, approval_status
		FROM registrations
		WHERE event_id = $1 AND attendee_id = $2
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, eventID, attendeeID).
		Scan(&reg.ID, &reg.EventID, &reg.AttendeeID, &reg.RegistrationDatetime, &reg.ApprovalStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) list(ctx context.Context, where string, args ...interface{}) ([]*domain.Registration, error) {
	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY r.id ASC`, registrationColumns, registrationJoins, where)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (r *registrationRepository) ListByAttendeeID(ctx context.Context, attendeeID string) ([]*domain.Registration, error) {
	return r.list(ctx, "WHERE r.attendee_id = $1", attendeeID)
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	return r.list(ctx, "WHERE r.event_id = $1", eventID)
}

func (r *registrationRepository) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	return r.list(ctx, "")
}

func (r *registrationRepository) SetApproval(ctx context.Context, id string, approved bool) error {
	query := `UPDATE registrations SET approval_status = $2 WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, approved)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM registrations WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
