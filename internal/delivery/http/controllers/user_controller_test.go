package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserController_GetUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		user := sampleUser()
		ctrl := NewUserController(testLogger, &fakeUserService{getByIDResult: user})

		req := httptest.NewRequest(http.MethodGet, "/users/"+user.ID, nil)
		req.SetPathValue("userID", user.ID)
		rec := httptest.NewRecorder()
		ctrl.GetUser(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Nil(t, resp.Error)
		var got domain.User
		require.NoError(t, json.Unmarshal(resp.Data, &got))
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("invalid id", func(t *testing.T) {
		ctrl := NewUserController(testLogger, &fakeUserService{})

		req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
		req.SetPathValue("userID", "abc")
		rec := httptest.NewRecorder()
		ctrl.GetUser(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := NewUserController(testLogger, &fakeUserService{getByIDErr: domain.ErrUserNotFound})

		id := "2b1de6a1-55c3-4b63-9d2f-8a6f1a2b3c4d"
		req := httptest.NewRequest(http.MethodGet, "/users/"+id, nil)
		req.SetPathValue("userID", id)
		rec := httptest.NewRecorder()
		ctrl.GetUser(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeNotFound, resp.Error.Code)
	})
}

func TestUserController_ListUsers(t *testing.T) {
	ctrl := NewUserController(testLogger, &fakeUserService{listResult: []*domain.User{sampleUser()}})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	ctrl.ListUsers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	var got []*domain.User
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	require.Len(t, got, 1)
}

func TestUserController_UpdateProfile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		user := sampleUser()
		svc := &fakeUserService{updateResult: user}
		ctrl := NewUserController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPatch, "/users/me",
			jsonBody(t, UpdateProfileRequest{Name: "Ada Lovelace", Email: "ada@example.com"}))
		req = req.WithContext(middleware.SetUserID(req.Context(), user.ID))
		rec := httptest.NewRecorder()
		ctrl.UpdateProfile(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, svc.lastUpdateUserID)
	})

	t.Run("no auth context", func(t *testing.T) {
		ctrl := NewUserController(testLogger, &fakeUserService{})

		req := httptest.NewRequest(http.MethodPatch, "/users/me",
			jsonBody(t, UpdateProfileRequest{Name: "Ada", Email: "ada@example.com"}))
		rec := httptest.NewRecorder()
		ctrl.UpdateProfile(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		ctrl := NewUserController(testLogger, &fakeUserService{updateErr: domain.ErrDuplicateEmail})

		req := httptest.NewRequest(http.MethodPatch, "/users/me",
			jsonBody(t, UpdateProfileRequest{Name: "Ada", Email: "taken@example.com"}))
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rec := httptest.NewRecorder()
		ctrl.UpdateProfile(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestUserController_DeleteAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeUserService{}
		ctrl := NewUserController(testLogger, svc)

		req := httptest.NewRequest(http.MethodDelete, "/users/me", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
		rec := httptest.NewRecorder()
		ctrl.DeleteAccount(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Nil(t, resp.Error)
		var ok bool
		require.NoError(t, json.Unmarshal(resp.Data, &ok))
		assert.True(t, ok)
		assert.Equal(t, "user-1", svc.lastDeleteUserID)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := NewUserController(testLogger, &fakeUserService{deleteErr: domain.ErrUserNotFound})

		req := httptest.NewRequest(http.MethodDelete, "/users/me", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-missing"))
		rec := httptest.NewRecorder()
		ctrl.DeleteAccount(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
