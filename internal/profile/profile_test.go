package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Gaspipe/internal/auth"
	"Gaspipe/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*ProfileHandler, int) {
	t.Helper()
	db, err := repo.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := repo.NewUserStore("sqlite", db)
	require.NoError(t, users.Migrate(context.Background()))
	id, err := users.CreateUser(context.Background(), "engineer", "eng@example.com", "hash")
	require.NoError(t, err)
	return &ProfileHandler{Repo: users}, id
}

func asUser(r *http.Request, id int) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), id))
}

func TestGetProfile(t *testing.T) {
	h, id := newHandler(t)

	rec := httptest.NewRecorder()
	h.GetProfile(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/profile", nil), id))
	require.Equal(t, http.StatusOK, rec.Code)
	var prof repo.Profile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&prof))
	assert.Equal(t, "engineer", prof.Login)

	rec = httptest.NewRecorder()
	h.GetProfile(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.GetProfile(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/profile", nil), id+10))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	h, id := newHandler(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"valid", `{"email":"lead@example.com","company":"Acme Mechanical"}`, http.StatusNoContent},
		{"bad email", `{"email":"not-an-address"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(tt.body))
			h.UpdateProfile(rec, asUser(req, id))
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	prof, err := h.Repo.GetProfileByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme Mechanical", prof.Company)
}
