package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventID     = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	testOrganizerID = "2b1de6a1-55c3-4b63-9d2f-8a6f1a2b3c4d"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr          error
	createResult       *domain.Event
	lastCreatePublic   bool
	lastCreateCapacity int
	getErr             error
	getResult          *domain.Event
	listErr            error
	listResult         []*domain.Event
	listTotal          int
	lastListFilter     domain.EventFilter
	lastListParams     domain.PaginationParams
	listMyErr          error
	listMyResult       []*domain.Event
	listMyTotal        int
	updateErr          error
	updateResult       *domain.Event
	lastUpdateCallerID string
	lastUpdate         domain.EventUpdate
	cancelErr          error
	cancelResult       *domain.Event
	lastCancelEventID  string
	lastCancelCallerID string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, organizerID, name, category string, eventDatetime time.Time, public bool, maxAttendees int) (*domain.Event, error) {
	f.lastCreatePublic = public
	f.lastCreateCapacity = maxAttendees
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
}

func (f *fakeEventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastListFilter = filter
	f.lastListParams = params
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listResult, f.listTotal, nil
}

func (f *fakeEventService) ListMyEvents(ctx context.Context, organizerID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastListParams = params
	if f.listMyErr != nil {
		return nil, 0, f.listMyErr
	}
	return f.listMyResult, f.listMyTotal, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, error) {
	f.lastUpdateCallerID = callerID
	f.lastUpdate = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateResult, nil
}

func (f *fakeEventService) CancelEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	f.lastCancelEventID = eventID
	f.lastCancelCallerID = callerID
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return f.cancelResult, nil
}

func controllerEvent() *domain.Event {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Event{
		ID:            testEventID,
		Name:          "Go Conference",
		Category:      "tech",
		EventDatetime: time.Date(2026, 9, 15, 18, 0, 0, 0, time.UTC),
		Public:        true,
		MaxAttendees:  100,
		Status:        domain.EventStatusActive,
		OrganizerID:   testOrganizerID,
		CreatedAt:     now,
		UpdatedAt:     now,
		AttendeeCount: 3,
	}
}

func authed(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.SetUserID(req.Context(), userID))
}

func TestEventController_CreateEvent(t *testing.T) {
	when := time.Date(2026, 9, 15, 18, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		svc := &fakeEventService{createResult: controllerEvent()}
		ctrl := NewEventController(testLogger, svc)

		req := authed(httptest.NewRequest(http.MethodPost, "/events",
			jsonBody(t, CreateEventRequest{Name: "Go Conference", Category: "tech", EventDatetime: when, MaxAttendees: 100})),
			testOrganizerID)
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec)
		require.Nil(t, resp.Error)
		var got domain.Event
		require.NoError(t, json.Unmarshal(resp.Data, &got))
		assert.Equal(t, testEventID, got.ID)
		assert.True(t, svc.lastCreatePublic, "public should default to true when omitted")
	})

	t.Run("explicit private", func(t *testing.T) {
		svc := &fakeEventService{createResult: controllerEvent()}
		ctrl := NewEventController(testLogger, svc)

		private := false
		req := authed(httptest.NewRequest(http.MethodPost, "/events",
			jsonBody(t, CreateEventRequest{Name: "Invite Only", Category: "tech", EventDatetime: when, Public: &private, MaxAttendees: 10})),
			testOrganizerID)
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.False(t, svc.lastCreatePublic)
	})

	t.Run("invalid capacity", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})

		req := authed(httptest.NewRequest(http.MethodPost, "/events",
			jsonBody(t, CreateEventRequest{Name: "Go Conference", Category: "tech", EventDatetime: when, MaxAttendees: 0})),
			testOrganizerID)
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no auth context", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})

		req := httptest.NewRequest(http.MethodPost, "/events",
			jsonBody(t, CreateEventRequest{Name: "Go Conference", Category: "tech", EventDatetime: when, MaxAttendees: 100}))
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestEventController_GetEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{getResult: controllerEvent()})

		req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID, nil)
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		ctrl.GetEvent(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		var got domain.Event
		require.NoError(t, json.Unmarshal(resp.Data, &got))
		assert.Equal(t, 3, got.AttendeeCount)
	})

	t.Run("invalid id", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})

		req := httptest.NewRequest(http.MethodGet, "/events/nope", nil)
		req.SetPathValue("eventID", "nope")
		rec := httptest.NewRecorder()
		ctrl.GetEvent(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{getErr: domain.ErrNotFound})

		req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID, nil)
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		ctrl.GetEvent(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventController_ListEvents(t *testing.T) {
	svc := &fakeEventService{
		listResult: []*domain.Event{controllerEvent()},
		listTotal:  42,
	}
	ctrl := NewEventController(testLogger, svc)

	req := httptest.NewRequest(http.MethodGet, "/events?category=tech&name=conf&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()
	ctrl.ListEvents(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	var data EventListData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 42, data.TotalCount)
	assert.Equal(t, 1, data.PageCount)
	assert.Equal(t, 10, data.Offset)
	require.Len(t, data.Items, 1)

	assert.Equal(t, "tech", svc.lastListFilter.Category)
	assert.Equal(t, "conf", svc.lastListFilter.Name)
	assert.Equal(t, 5, svc.lastListParams.Limit)
	assert.Equal(t, 10, svc.lastListParams.Offset)
}

func TestEventController_ListMyEvents(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEventService{listMyResult: []*domain.Event{controllerEvent()}, listMyTotal: 1}
		ctrl := NewEventController(testLogger, svc)

		req := authed(httptest.NewRequest(http.MethodGet, "/my/events", nil), testOrganizerID)
		rec := httptest.NewRecorder()
		ctrl.ListMyEvents(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		var data EventListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 1, data.TotalCount)
	})

	t.Run("no auth context", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})

		req := httptest.NewRequest(http.MethodGet, "/my/events", nil)
		rec := httptest.NewRecorder()
		ctrl.ListMyEvents(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestEventController_UpdateEvent(t *testing.T) {
	t.Run("success passes only supplied fields", func(t *testing.T) {
		svc := &fakeEventService{updateResult: controllerEvent()}
		ctrl := NewEventController(testLogger, svc)

		name := "Renamed"
		req := authed(httptest.NewRequest(http.MethodPatch, "/events/"+testEventID,
			jsonBody(t, UpdateEventRequest{Name: &name})), testOrganizerID)
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		ctrl.UpdateEvent(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.lastUpdate.Name)
		assert.Equal(t, "Renamed", *svc.lastUpdate.Name)
		assert.Nil(t, svc.lastUpdate.Category)
		assert.Nil(t, svc.lastUpdate.MaxAttendees)
		assert.Equal(t, testOrganizerID, svc.lastUpdateCallerID)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})

		name := "  "
		req := authed(httptest.NewRequest(http.MethodPatch, "/events/"+testEventID,
			jsonBody(t, UpdateEventRequest{Name: &name})), testOrganizerID)
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		ctrl.UpdateEvent(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{updateErr: domain.ErrForbidden})

		name := "Renamed"
		req := authed(httptest.NewRequest(http.MethodPatch, "/events/"+testEventID,
			jsonBody(t, UpdateEventRequest{Name: &name})), "someone-else")
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		ctrl.UpdateEvent(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, helpers.ErrCodeForbidden, resp.Error.Code)
	})
}

func TestEventController_CancelEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		canceled := controllerEvent()
		canceled.Status = domain.EventStatusCanceled
		svc := &fakeEventService{cancelResult: canceled}
		ctrl := NewEventController(testLogger, svc)

		req := authed(httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/cancel", nil), testOrganizerID)
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		ctrl.CancelEvent(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		var got domain.Event
		require.NoError(t, json.Unmarshal(resp.Data, &got))
		assert.Equal(t, domain.EventStatusCanceled, got.Status)
		assert.Equal(t, testEventID, svc.lastCancelEventID)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{cancelErr: domain.ErrNotFound})

		req := authed(httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/cancel", nil), testOrganizerID)
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		ctrl.CancelEvent(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{cancelErr: domain.ErrForbidden})

		req := authed(httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/cancel", nil), "someone-else")
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		ctrl.CancelEvent(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
