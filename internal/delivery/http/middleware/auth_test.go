package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeVerifier accepts exactly one token and returns a fixed user ID.
type fakeVerifier struct {
	token  string
	userID string
}

func (f fakeVerifier) Verify(token string) (string, error) {
	if token != f.token {
		return "", fmt.Errorf("bad token")
	}
	return f.userID, nil
}

func TestRequireAuth(t *testing.T) {
	verifier := fakeVerifier{token: "good-token", userID: "user-1"}
	auth := RequireAuth(verifier, testLogger)

	var gotUserID string
	var called bool
	handler := auth(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{"valid token", "Bearer good-token", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized, "invalid authorization format"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "missing token"},
		{"bad token", "Bearer forged", http.StatusUnauthorized, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			gotUserID = ""

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, called)
				assert.Equal(t, "user-1", gotUserID)
				return
			}
			assert.False(t, called, "handler must not run on auth failure")
			var resp struct {
				Error *struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
		})
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFromContext(req.Context())
	require.False(t, ok)
}
