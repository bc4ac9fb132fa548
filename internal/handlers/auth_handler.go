package handlers

import (
	"net/http"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/models"
	"github.com/Dias221467/Language_Exchange/internal/services"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
	"github.com/Dias221467/Language_Exchange/pkg/middleware"
)

// AuthHandler serves signup, login, logout, onboarding and the current user.
type AuthHandler struct {
	Auth         *services.AuthService
	Users        *services.UserService
	SecureCookie bool
}

// NewAuthHandler creates a new instance of AuthHandler. secureCookie should
// be true in production.
func NewAuthHandler(auth *services.AuthService, users *services.UserService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		Auth:         auth,
		Users:        users,
		SecureCookie: secureCookie,
	}
}

type userResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

// SignupHandler creates an account and starts a session.
func (h *AuthHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := h.Auth.Signup(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, userResponse{Success: true, User: user})
}

// LoginHandler checks credentials and starts a session.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &credentials); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := h.Auth.Login(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

// LogoutHandler clears the session cookie. It always succeeds.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("", -1))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logout successful",
	})
}

// MeHandler returns the authenticated user.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

// OnboardingHandler completes the caller's profile.
func (h *AuthHandler) OnboardingHandler(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var in services.OnboardingInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.Users.Onboard(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Log.WithField("userID", user.ID.Hex()).Info("Onboarding completed")
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, h.cookie(token, int(h.Auth.TokenExpiry()/time.Second)))
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.SecureCookie,
	}
}
