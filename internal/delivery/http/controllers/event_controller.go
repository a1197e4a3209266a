package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEventRequest is the request body for POST /events.
// Public defaults to true when omitted.
type CreateEventRequest struct {
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	EventDatetime time.Time `json:"event_datetime"`
	Public        *bool     `json:"public"`
	MaxAttendees  int       `json:"max_attendees"`
}

// Validate implements helpers.Validator.
func (r *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		errs = append(errs, "category is required")
	}
	if r.EventDatetime.IsZero() {
		errs = append(errs, "event_datetime is required")
	}
	if r.MaxAttendees < 1 {
		errs = append(errs, "max_attendees must be at least 1")
	}
	return errs
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an active event owned by the authenticated user. max_attendees must be at least 1; public defaults to true.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	public := true
	if req.Public != nil {
		public = *req.Public
	}
	event, err := c.Service.CreateEvent(r.Context(), userID, req.Name, req.Category, req.EventDatetime, public, req.MaxAttendees)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its organizer and current attendee count.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// EventListData is the paginated payload for event listings. PageCount is the
// number of items in this page, not the number of pages; TotalCount counts all
// matches regardless of pagination.
type EventListData struct {
	TotalCount int             `json:"total_count"`
	PageCount  int             `json:"page_count"`
	Offset     int             `json:"offset"`
	Items      []*domain.Event `json:"items"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  EventListData     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List events
// @Description Lists events ordered by id ascending. category filters by case-insensitive exact match, name by case-insensitive substring match.
// @Tags events
// @Produce json
// @Param category query string false "Category (case-insensitive exact match)"
// @Param name query string false "Name fragment (case-insensitive substring match)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param offset query int false "Result offset (default 0)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := domain.EventFilter{
		Category: r.URL.Query().Get("category"),
		Name:     r.URL.Query().Get("name"),
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListData{
		TotalCount: total,
		PageCount:  len(events),
		Offset:     params.Offset,
		Items:      events,
	})
}

// ListMyEvents godoc
// @Summary List events organized by the authenticated user
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 10, max 100)"
// @Param offset query int false "Result offset (default 0)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /my/events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.ListMyEvents(r.Context(), userID, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListData{
		TotalCount: total,
		PageCount:  len(events),
		Offset:     params.Offset,
		Items:      events,
	})
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// Omitted fields keep their current value.
type UpdateEventRequest struct {
	Name          *string    `json:"name"`
	Category      *string    `json:"category"`
	EventDatetime *time.Time `json:"event_datetime"`
	Public        *bool      `json:"public"`
	MaxAttendees  *int       `json:"max_attendees"`
}

// Validate implements helpers.Validator.
func (r *UpdateEventRequest) Validate() []string {
	var errs []string
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		errs = append(errs, "category must not be empty")
	}
	if r.MaxAttendees != nil && *r.MaxAttendees < 1 {
		errs = append(errs, "max_attendees must be at least 1")
	}
	return errs
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partial update: only supplied fields change. Only the organizer may update. Lowering max_attendees below the current attendee count is allowed and does not evict anyone.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	upd := domain.EventUpdate{
		Name:          req.Name,
		Category:      req.Category,
		EventDatetime: req.EventDatetime,
		Public:        req.Public,
		MaxAttendees:  req.MaxAttendees,
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "you are not authorized to update this event")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CancelEvent godoc
// @Summary Cancel an event
// @Description Sets the event status to CANCELED. Only the organizer may cancel; canceling an already-canceled event succeeds. Existing registrations are kept; new ones are blocked.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the canceled event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/cancel [post]
func (c *EventController) CancelEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	event, err := c.Service.CancelEvent(r.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "you are not authorized to cancel this event")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
