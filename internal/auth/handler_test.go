package auth_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"student-manager/internal/auth"
	"student-manager/internal/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing")

	database := testutil.NewDB(t, (*auth.User)(nil))
	service := auth.NewService(auth.NewRepository(database))
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	router := chi.NewRouter()
	auth.NewHandler(service, logger).RegisterRoutes(router)

	post := func(target string, payload interface{}) *httptest.ResponseRecorder {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	sessionCookie := func(w *httptest.ResponseRecorder) *http.Cookie {
		for _, cookie := range w.Result().Cookies() {
			if cookie.Name == "token" {
				return cookie
			}
		}
		return nil
	}

	t.Run("Register_Success", func(t *testing.T) {
		testutil.CleanupTables(t, database, "users")

		w := post("/auth/register", map[string]string{
			"username":        "alice",
			"password":        "secret",
			"confirmPassword": "secret",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "alice", response["username"])

		// Registration does not open a session; the account logs in
		// explicitly afterwards.
		assert.Nil(t, sessionCookie(w), "no token cookie on registration")

		w = post("/auth/login", map[string]string{"username": "alice", "password": "secret"})
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, sessionCookie(w))
	})

	t.Run("Register_PasswordMismatch", func(t *testing.T) {
		testutil.CleanupTables(t, database, "users")

		w := post("/auth/register", map[string]string{
			"username":        "alice",
			"password":        "secret",
			"confirmPassword": "other",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "passwords do not match")
	})

	t.Run("Register_MissingFields", func(t *testing.T) {
		w := post("/auth/register", map[string]string{"username": "alice"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Login_Success", func(t *testing.T) {
		testutil.CleanupTables(t, database, "users")
		require.Equal(t, http.StatusCreated, post("/auth/register", map[string]string{
			"username": "alice", "password": "secret", "confirmPassword": "secret",
		}).Code)

		w := post("/auth/login", map[string]string{"username": "alice", "password": "secret"})
		assert.Equal(t, http.StatusOK, w.Code)

		cookie := sessionCookie(w)
		require.NotNil(t, cookie)

		claims, err := auth.ValidateAccessToken(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("Login_WrongPassword", func(t *testing.T) {
		testutil.CleanupTables(t, database, "users")
		require.Equal(t, http.StatusCreated, post("/auth/register", map[string]string{
			"username": "alice", "password": "secret", "confirmPassword": "secret",
		}).Code)

		w := post("/auth/login", map[string]string{"username": "alice", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "wrong password")
	})

	t.Run("Login_UnknownUser", func(t *testing.T) {
		testutil.CleanupTables(t, database, "users")

		w := post("/auth/login", map[string]string{"username": "nobody", "password": "secret"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "user not found")
	})

	t.Run("Logout_ClearsCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing")

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(logger))
		r.Get("/guarded", func(w http.ResponseWriter, r *http.Request) {
			username, ok := auth.Username(r.Context())
			require.True(t, ok)
			w.Write([]byte(username))
		})
	})

	t.Run("NoCookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := auth.GenerateAccessToken("alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})
}
