package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventregistry/internal/domain"
)

// eventColumns selects an event row together with its organizer and the
// derived attendee count, all in one round trip.
const eventColumns = `
	e.id, e.name, e.category, e.event_datetime, e.public, e.max_attendees,
	e.status, e.organizer_id, e.created_at, e.updated_at,
	(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id) AS attendee_count,
	u.id, u.name, u.email, u.created_at, u.updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	org := &domain.User{}
	err := s.Scan(
		&e.ID, &e.Name, &e.Category, &e.EventDatetime, &e.Public, &e.MaxAttendees,
		&e.Status, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
		&e.AttendeeCount,
		&org.ID, &org.Name, &org.Email, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Organizer = org
	return e, nil
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, category, event_datetime, public, max_attendees, status, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Category, e.EventDatetime, e.Public, e.MaxAttendees,
		e.Status, e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		WHERE e.id = $1
	`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// List returns one page of events matching the filter, ordered by id
// ascending, plus the total match count independent of pagination.
func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	whereClauses := []string{}
	args := []interface{}{}
	n := 1
	if filter.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(e.category) = LOWER($%d)", n))
		args = append(args, filter.Category)
		n++
	}
	if filter.Name != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("e.name ILIKE '%%' || $%d || '%%'", n))
		args = append(args, filter.Name)
		n++
	}
	if filter.OrganizerID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("e.organizer_id = $%d", n))
		args = append(args, filter.OrganizerID)
		n++
	}
	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM events e %s`, where)
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		%s
		ORDER BY e.id ASC
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, n, n+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", n))
		args = append(args, *upd.Category)
		n++
	}
	if upd.EventDatetime != nil {
		setClauses = append(setClauses, fmt.Sprintf("event_datetime = $%d", n))
		args = append(args, *upd.EventDatetime)
		n++
	}
	if upd.Public != nil {
		setClauses = append(setClauses, fmt.Sprintf("public = $%d", n))
		args = append(args, *upd.Public)
		n++
	}
	if upd.MaxAttendees != nil {
		setClauses = append(setClauses, fmt.Sprintf("max_attendees = $%d", n))
		args = append(args, *upd.MaxAttendees)
		n++
	}
	if upd.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, *upd.Status)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch the current row.
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), n)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}
