package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"proxima/backend/projects-service/models"
	"proxima/backend/projects-service/services"
	"proxima/backend/projects-service/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubUserService struct {
	user  *models.User
	token string
	err   error

	passwordErr error
}

func (s *stubUserService) ValidatePassword(password string) error {
	return s.passwordErr
}

func (s *stubUserService) RegisterUser(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.user, s.err
}

func (s *stubUserService) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	return s.token, s.user, s.err
}

func newUserRouter(service UserService, blacklist *services.TokenBlacklist) *mux.Router {
	h := NewUserHandler(service, blacklist)
	r := mux.NewRouter()
	r.HandleFunc("/api/user/signup", h.Signup).Methods("POST")
	r.HandleFunc("/api/user/login", h.Login).Methods("POST")
	r.HandleFunc("/api/user/logout", h.Logout).Methods("POST")
	return r
}

func TestSignup(t *testing.T) {
	t.Run("missing credentials are a 400", func(t *testing.T) {
		router := newUserRouter(&stubUserService{}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/signup", bytes.NewReader([]byte(`{"email":"u@example.com"}`))))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email and password are required")
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		service := &stubUserService{passwordErr: assert.AnError}
		router := newUserRouter(service, nil)

		body := []byte(`{"name":"U","email":"u@example.com","password":"weak"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/signup", bytes.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email is a 400", func(t *testing.T) {
		service := &stubUserService{err: services.ErrUserAlreadyExists}
		router := newUserRouter(service, nil)

		body := []byte(`{"name":"U","email":"u@example.com","password":"Str0ngPass"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/signup", bytes.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email already in use")
	})

	t.Run("created user is returned as id, email and name only", func(t *testing.T) {
		created := &models.User{
			ID:       primitive.NewObjectID(),
			Name:     "U",
			Email:    "u@example.com",
			Password: "$2a$10$secret-hash",
		}
		service := &stubUserService{user: created}
		router := newUserRouter(service, nil)

		body := []byte(`{"name":"U","email":"u@example.com","password":"Str0ngPass"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/signup", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, created.ID.Hex(), resp["id"])
		assert.Equal(t, "u@example.com", resp["email"])
		assert.Equal(t, "U", resp["name"])
		assert.NotContains(t, resp, "password")
		assert.NotContains(t, resp, "created_at")
	})
}

func TestLogin(t *testing.T) {
	t.Run("bad credentials are a 401", func(t *testing.T) {
		service := &stubUserService{err: services.ErrInvalidCredentials}
		router := newUserRouter(service, nil)

		body := []byte(`{"email":"u@example.com","password":"WrongPass1"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/login", bytes.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("successful login returns email and token", func(t *testing.T) {
		service := &stubUserService{
			user:  &models.User{ID: primitive.NewObjectID(), Email: "u@example.com"},
			token: "signed.jwt.token",
		}
		router := newUserRouter(service, nil)

		body := []byte(`{"email":"u@example.com","password":"Str0ngPass"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/login", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "signed.jwt.token")
		assert.Contains(t, rec.Body.String(), "u@example.com")
	})
}

func TestLogout(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	blacklist := services.NewTokenBlacklist(client)

	router := newUserRouter(&stubUserService{}, blacklist)

	t.Run("logout revokes the presented token", func(t *testing.T) {
		token, err := utils.GenerateToken("670f1c4b9f1c4b0001a2b3c4", "u@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/user/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		revoked, err := blacklist.Contains(context.Background(), token)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("logout without a token is a 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/logout", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
