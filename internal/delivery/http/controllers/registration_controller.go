package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// RegistrationSuccessResponse is the success response envelope for single-registration endpoints.
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListRegistrationsSuccessResponse is the success response envelope for registration listings.
type ListRegistrationsSuccessResponse struct {
	Data  []*domain.Registration `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// Register godoc
// @Summary Register the authenticated user for an event
// @Description Creates a registration. Public events auto-approve; private events start pending until the organizer approves. Fails when the event is canceled, the user is already registered, or capacity is reached.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.RegistrationSuccessResponse "data contains the registration with event and attendee"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict | event_canceled | capacity_exceeded"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
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

	reg, err := c.Service.Register(r.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrEventCanceled):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeEventCanceled, "registration failed: event is canceled")
		case errors.Is(err, domain.ErrAlreadyRegistered):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "registration failed: user is already registered for this event")
		case errors.Is(err, domain.ErrCapacityExceeded):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeCapacityExceeded, "registration failed: maximum attendees reached for this event")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Approve godoc
// @Summary Approve a registration
// @Description Marks the registration approved. Only the organizer of the registration's event may approve; repeat approvals succeed. A missing registration and a missing event report the same not_found.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the approved registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/approve [post]
func (c *RegistrationController) Approve(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationID")
	if !uuidRegex.MatchString(registrationID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid registrationID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := c.Service.Approve(r.Context(), registrationID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found or associated event does not exist")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "you are not authorized to approve this registration")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// CancelSuccessResponse is the success response envelope for DELETE /registrations/{registrationID} (200).
type CancelSuccessResponse struct {
	Data  bool              `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Deletes the registration. Allowed for the attendee and the event's organizer, and only while more than 24 hours remain before the event starts; the window applies to both roles alike.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.CancelSuccessResponse "data is true on success"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: cancellation_window_closed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID} [delete]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationID")
	if !uuidRegex.MatchString(registrationID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid registrationID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Cancel(r.Context(), registrationID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "you do not have permission to cancel this registration")
		case errors.Is(err, domain.ErrCancellationWindowClosed):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeWindowClosed, "registration must be canceled more than 24 hours before the event")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, true)
}

// ListMine godoc
// @Summary List the authenticated user's registrations
// @Description Returns all registrations held by the caller, each with its event (organizer and attendee count included).
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListRegistrationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /my/registrations [get]
func (c *RegistrationController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	regs, err := c.Service.ListForUser(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// ListForEvent godoc
// @Summary List registrations for an event
// @Description Returns all registrations for the event. Only the event's organizer may view them.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListRegistrationsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [get]
func (c *RegistrationController) ListForEvent(w http.ResponseWriter, r *http.Request) {
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

	regs, err := c.Service.ListForEvent(r.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "you are not authorized to view these registrations")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// ListAll godoc
// @Summary List every registration
// @Description Returns all registrations with events and attendees. No access check, matching the reference system's behavior.
// @Tags registrations
// @Produce json
// @Success 200 {object} controllers.ListRegistrationsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [get]
func (c *RegistrationController) ListAll(w http.ResponseWriter, r *http.Request) {
	regs, err := c.Service.ListAll(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}
