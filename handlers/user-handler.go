package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"proxima/backend/projects-service/logging"
	"proxima/backend/projects-service/models"
	"proxima/backend/projects-service/services"
	"proxima/backend/projects-service/utils"
)

// UserService is the slice of the service layer the user handler needs.
type UserService interface {
	ValidatePassword(password string) error
	RegisterUser(ctx context.Context, name, email, password string) (*models.User, error)
	LoginUser(ctx context.Context, email, password string) (string, *models.User, error)
}

type UserHandler struct {
	service   UserService
	blacklist *services.TokenBlacklist
}

func NewUserHandler(service UserService, blacklist *services.TokenBlacklist) *UserHandler {
	return &UserHandler{service: service, blacklist: blacklist}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
		return
	}

	if err := h.service.ValidatePassword(req.Password); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email already in use"})
			return
		}
		logging.Logger.Errorf("Event ID: USER_SIGNUP_FAILED, Description: Error registering user %s: %v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error creating user"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
		return
	}

	token, user, err := h.service.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		logging.Logger.Errorf("Event ID: USER_LOGIN_FAILED, Description: Error logging in user %s: %v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error logging in"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": user.Email, "token": token})
}

// Logout revokes the presented token for the remainder of its lifetime.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == "" {
		http.Error(w, "Authorization header missing", http.StatusUnauthorized)
		return
	}

	claims, err := utils.ValidateToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	ttl := 24 * time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := h.blacklist.Add(r.Context(), tokenStr, ttl); err != nil {
		logging.Logger.Errorf("Event ID: USER_LOGOUT_FAILED, Description: Error revoking token for user %s: %v", claims.Email, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error logging out"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
