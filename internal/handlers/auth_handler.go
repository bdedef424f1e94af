package handlers

import (
	"net/http"

	"github.com/campuslink/campuslink/internal/config"
	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/services"
	jwtutil "github.com/campuslink/campuslink/pkg/jwt"
	"github.com/campuslink/campuslink/pkg/middleware"
	log "github.com/sirupsen/logrus"
)

// AuthHandler handles registration, login and the current-user endpoint.
type AuthHandler struct {
	Service *services.UserService
	Config  *config.Config
}

func NewAuthHandler(service *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		Service: service,
		Config:  cfg,
	}
}

// RegisterHandler handles POST /auth/register.
func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.Service.RegisterUser(r.Context(), &req)
	if err != nil {
		log.WithError(err).Warn("Registration failed")
		respondError(w, err)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User registered")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Registration successful. Your account is pending verification.",
		"user":    user,
	})
}

// LoginHandler handles POST /auth/login and issues a 7-day token.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, false)
}

// AdminLoginHandler handles POST /auth/admin/login and issues a 24-hour
// token to admin accounts only.
func (h *AuthHandler) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, true)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, adminOnly bool) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		log.WithField("email", req.Email).Warn("Authentication failed")
		respondError(w, err)
		return
	}

	expiry := h.Config.TokenExpiry
	if adminOnly {
		if user.Role != models.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Admin access only")
			return
		}
		expiry = h.Config.AdminExpiry
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Role, user.VerificationStatus, h.Config.JWTSecret, expiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate token")
		writeMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// MeHandler handles GET /auth/me.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
