// internal/app/features/auth/handler.go
package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/teamnotes/internal/app/store/users"
	systemauth "github.com/dalemusser/teamnotes/internal/app/system/auth"
	"github.com/dalemusser/teamnotes/internal/app/system/authz"
	"github.com/dalemusser/teamnotes/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamnotes/internal/app/system/limits"
	"github.com/dalemusser/teamnotes/internal/app/system/ratelimit"
	"github.com/dalemusser/teamnotes/internal/app/system/respond"
	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler provides registration, login, and the current-user endpoint.
// Identity stops here: everything past this feature works with a resolved
// user id, never a credential.
type Handler struct {
	Users  *userstore.Store
	Tokens *systemauth.TokenManager
	Limits *ratelimit.CredentialLimiter
	Log    *zap.Logger
}

// NewHandler creates a new auth Handler.
func NewHandler(users *userstore.Store, tokens *systemauth.TokenManager, limiter *ratelimit.CredentialLimiter, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, Limits: limiter, Log: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// HandleRegister handles POST /api/auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if allowed, reason := h.Limits.Check(r, req.Email); !allowed {
		respond.Message(w, http.StatusTooManyRequests, reason)
		return
	}

	name := htmlsanitize.Strict(req.Name)
	email := strings.TrimSpace(req.Email)
	switch {
	case name == "":
		respond.Error(w, h.Log, faults.Validation("name is required"))
		return
	case email == "" || !strings.Contains(email, "@"):
		respond.Error(w, h.Log, faults.Validation("a valid email is required"))
		return
	case len(req.Password) < 6:
		respond.Error(w, h.Log, faults.Validation("password must be at least 6 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	user, err := h.Users.Insert(r.Context(), models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	token, err := h.Tokens.IssueToken(user)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	respond.JSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if allowed, reason := h.Limits.Check(r, req.Email); !allowed {
		respond.Message(w, http.StatusTooManyRequests, reason)
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if faults.Is(err, faults.KindNotFound) {
			// Same response for unknown email and wrong password.
			respond.Message(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respond.Error(w, h.Log, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respond.Message(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.Limits.ResetEmail(req.Email)

	if err := h.Users.TouchLastActive(r.Context(), user.ID); err != nil {
		h.Log.Warn("failed to refresh last-active timestamp",
			zap.Error(err), zap.String("user_id", user.ID.Hex()))
	}

	token, err := h.Tokens.IssueToken(user)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	respond.JSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

// HandleMe handles GET /api/auth/me.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]models.User{"user": user})
}
