package api

import (
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tutorhive/tutorhive/internal/model"
	"github.com/tutorhive/tutorhive/internal/service"
)

func TestGetProfileEndpoint(t *testing.T) {
	s := newTestServer()
	userID := uuid.New()
	s.users.user = &model.User{
		ID:           userID,
		Email:        "ada@example.com",
		FullName:     "Ada Lovelace",
		PasswordHash: "should-never-leak",
	}

	resp := s.request(t, http.MethodGet, "/users/"+userID.String(), nil, &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), "Ada Lovelace")
	require.NotContains(t, string(raw), "should-never-leak")
}

func TestGetProfileNotFound(t *testing.T) {
	s := newTestServer()
	requesterID := uuid.New()
	s.users.err = service.ErrProfileNotFound

	// Looking up a nonexistent user is 404, not an auth failure
	resp := s.request(t, http.MethodGet, "/users/"+uuid.NewString(), nil, &requesterID)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetProfileRequiresAuth(t *testing.T) {
	s := newTestServer()

	resp := s.request(t, http.MethodGet, "/users/"+uuid.NewString(), nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	s := newTestServer()
	userID := uuid.New()
	s.users.user = &model.User{ID: userID, FullName: "Ada Byron"}

	resp := s.request(t, http.MethodPut, "/users/"+userID.String(), map[string]any{
		"surname": "Byron",
	}, &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateProfileForbidden(t *testing.T) {
	s := newTestServer()
	requesterID := uuid.New()
	s.users.err = service.ErrNotProfileOwner

	resp := s.request(t, http.MethodPut, "/users/"+uuid.NewString(), map[string]any{
		"bio": "x",
	}, &requesterID)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListNotificationsEndpoint(t *testing.T) {
	s := newTestServer()
	userID := uuid.New()

	// Empty inbox serializes as []
	resp := s.request(t, http.MethodGet, "/notifications/", nil, &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(raw))
}

func TestMarkNotificationReadEndpoint(t *testing.T) {
	s := newTestServer()
	userID := uuid.New()

	resp := s.request(t, http.MethodPost, "/notifications/"+uuid.NewString()+"/read", nil, &userID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, decodeBody(t, resp)["ok"])

	s.notifications.err = service.ErrNotificationNotFound
	resp = s.request(t, http.MethodPost, "/notifications/"+uuid.NewString()+"/read", nil, &userID)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
