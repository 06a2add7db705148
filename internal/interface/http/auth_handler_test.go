package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsdigital/agency-api/internal/application"
	"github.com/nsdigital/agency-api/internal/domain/entity"
	handlers "github.com/nsdigital/agency-api/internal/interface/http"
	"github.com/nsdigital/agency-api/internal/router/modules"
	"github.com/nsdigital/agency-api/internal/testutil"
	"github.com/nsdigital/agency-api/pkg/helpers"
	"github.com/nsdigital/agency-api/pkg/validation"
)

const sessionTTL = 7 * 24 * time.Hour

func newAPI(t *testing.T) (*gin.Engine, *testutil.MemoryUserRepo, *helpers.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	repo := testutil.NewMemoryUserRepo()
	jwt := helpers.NewJWTManager("test-secret", sessionTTL)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := application.NewService(repo, jwt, nil, "", logger)

	r := gin.New()
	api := r.Group("/api")
	modules.NewAuthModule(handlers.NewAuthHandler(svc, logger, "localhost", false), jwt).Register(api)
	modules.NewAdminModule(handlers.NewAdminHandler(svc, logger), jwt).Register(api)
	return r, repo, jwt
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookie {
			return ck
		}
	}
	t.Fatalf("no %q cookie in response", helpers.SessionCookie)
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegister_SetsSessionCookie(t *testing.T) {
	r, _, jwt := newAPI(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "a@x.com",
		"password": "secret1",
		"name":     "Ann",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "Ann", user["name"])
	assert.Equal(t, "USER", user["role"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.InDelta(t, int(sessionTTL.Seconds()), ck.MaxAge, 5)

	claims, err := jwt.Parse(ck.Value)
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.UserID)
	assert.Equal(t, entity.RoleUser, claims.Role)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestRegister_Validation(t *testing.T) {
	r, _, _ := newAPI(t)

	tests := []struct {
		name    string
		payload gin.H
		wantMsg string
	}{
		{
			name:    "short password",
			payload: gin.H{"email": "a@x.com", "password": "short", "name": "Ann"},
			wantMsg: "password must be at least 6 characters long",
		},
		{
			name:    "short name",
			payload: gin.H{"email": "a@x.com", "password": "secret1", "name": "A"},
			wantMsg: "name must be at least 2 characters long",
		},
		{
			name:    "bad email",
			payload: gin.H{"email": "not-an-email", "password": "secret1", "name": "Ann"},
			wantMsg: "email must be a valid email",
		},
		{
			name:    "missing email",
			payload: gin.H{"password": "secret1", "name": "Ann"},
			wantMsg: "email is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/auth/register", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, w)["error"])
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r, _, _ := newAPI(t)

	payload := gin.H{"email": "a@x.com", "password": "secret1", "name": "Ann"}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "an account with this email already exists", decodeBody(t, w)["error"])
}

func TestLogin_DistinctErrors(t *testing.T) {
	r, repo, _ := newAPI(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "password": "secret1", "name": "Ann",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Unknown account and wrong password produce distinct messages.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "nobody@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "this account does not exist", decodeBody(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "incorrect password", decodeBody(t, w)["error"])

	// Blocked accounts fail before the password is even checked, and no
	// cookie is set.
	users, err := repo.List(t.Context())
	require.NoError(t, err)
	_, err = repo.SetBlocked(t.Context(), users[0].ID, true)
	require.NoError(t, err)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "your account has been blocked", decodeBody(t, w)["error"])
	assert.Empty(t, w.Result().Cookies())
}

func TestLogin_Success(t *testing.T) {
	r, _, jwt := newAPI(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "password": "secret1", "name": "Ann",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	ck := sessionCookie(t, w)
	claims, err := jwt.Parse(ck.Value)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestMe(t *testing.T) {
	r, repo, _ := newAPI(t)

	// No cookie at all.
	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "not authenticated", decodeBody(t, w)["error"])

	// Garbage token.
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, &http.Cookie{Name: helpers.SessionCookie, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid or expired session", decodeBody(t, w)["error"])

	// Valid session returns the flat projection.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "a@x.com", "password": "secret1", "name": "Ann",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	ck := sessionCookie(t, w)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, ck)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "Ann", body["name"])
	assert.Equal(t, "USER", body["role"])

	// Token valid but the account was deleted afterwards.
	repo.Remove(body["id"].(string))
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, ck)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMe_ExpiredToken(t *testing.T) {
	r, _, _ := newAPI(t)

	expired := helpers.NewJWTManager("test-secret", -time.Minute)
	tok, _, err := expired.Generate("some-id", entity.RoleUser, "a@x.com")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, &http.Cookie{Name: helpers.SessionCookie, Value: tok})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignOut_Idempotent(t *testing.T) {
	r, _, _ := newAPI(t)

	// Twice in a row with no session: both succeed.
	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/auth/signout", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["success"])
		ck := sessionCookie(t, w)
		assert.Empty(t, ck.Value)
		assert.Less(t, ck.MaxAge, 0)
	}
}
