package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Gaspipe/internal/repo"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	byLogin map[string]string
}

func (m *memUsers) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	if _, ok := m.byLogin[login]; ok {
		return 0, assert.AnError
	}
	m.byLogin[login] = password
	return len(m.byLogin), nil
}

func (m *memUsers) GetBylogin(ctx context.Context, login string) (int, string, error) {
	hash, ok := m.byLogin[login]
	if !ok {
		return 0, "", repo.ErrUserNotFound.Here()
	}
	return 1, hash, nil
}

func newEnv() *Authenv {
	return &Authenv{JWTkey: []byte("test-key"), Repo: &memUsers{byLogin: map[string]string{}}}
}

func protected(env *Authenv) http.Handler {
	return env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("X-User", string(rune('0'+id)))
	}))
}

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv()

	rec := httptest.NewRecorder()
	env.RegisterHandler(rec, httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"login":"eng","email":"eng@example.com","password":"secret1"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	env.AuthHandler(rec, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"login":"eng","password":"secret1"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)
	require.NotEmpty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	env.AuthHandler(rec, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"login":"eng","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	env.AuthHandler(rec, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"login":"ghost","password":"secret1"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	env.RegisterHandler(rec, httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"login":"eng","email":"x@example.com","password":"secret1"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	env.RegisterHandler(rec, httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"login":"b","email":"b@example.com","password":"123"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	env := newEnv()
	token, err := env.IssueToken(7, "eng")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/tools/gas/calc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(env).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Header().Get("X-User"))

	req = httptest.NewRequest(http.MethodPost, "/api/tools/gas/calc", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	rec = httptest.NewRecorder()
	protected(env).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	protected(env).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := &Authenv{JWTkey: []byte("other-key")}
	forged, err := other.IssueToken(7, "eng")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec = httptest.NewRecorder()
	protected(env).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}).SignedString(env.JWTkey)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec = httptest.NewRecorder()
	protected(env).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	h := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:" + string(rune('1'+i)) + "000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
