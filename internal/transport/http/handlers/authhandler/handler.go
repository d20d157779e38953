package authhandler

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/domain/audit"
	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/notifications"
	"peopledesk/internal/transport/http/api"
	"peopledesk/internal/transport/http/middleware"
	"peopledesk/internal/transport/http/shared"
)

const (
	tokenTTL      = 24 * time.Hour
	resetTokenTTL = time.Hour
)

type Handler struct {
	Store     *auth.Store
	Audit     *audit.Service
	Mailer    notifications.Mailer
	JWTSecret string
	EmailFrom string
}

// PublicRoutes are reachable without a token.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.login)
	r.Post("/password-reset/request", h.requestPasswordReset)
	r.Post("/password-reset/confirm", h.confirmPasswordReset)
	return r
}

// Routes require authentication.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.me)
	return r
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if body.Email == "" || body.Password == "" {
		api.Fail(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.Store.FindActiveUserByEmail(r.Context(), body.Email)
	if err != nil {
		api.Fail(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := auth.CheckPassword(user.Password, body.Password); err != nil {
		h.Audit.Record(r.Context(), user.ID, "login_failed", "user", user.ID, nil)
		api.Fail(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{
		UserID:   user.ID,
		RoleID:   user.RoleID,
		RoleName: user.RoleName,
	}, tokenTTL)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to issue token")
		return
	}

	if err := h.Store.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("failed to update last login", slog.Any("error", err))
	}
	h.Audit.Record(r.Context(), user.ID, "login", "user", user.ID, nil)

	api.Success(w, r, map[string]any{
		"token":     token,
		"role":      user.RoleName,
		"userId":    user.ID,
		"expiresIn": int(tokenTTL.Seconds()),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	api.Success(w, r, map[string]string{
		"userId": user.UserID,
		"roleId": user.RoleID,
		"role":   user.RoleName,
	})
}

// requestPasswordReset always answers 200 so account existence is not
// leaked.
func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := h.Store.UserIDByEmail(r.Context(), body.Email)
	if err == nil {
		token, genErr := randomToken()
		if genErr == nil {
			if err := h.Store.CreatePasswordReset(r.Context(), userID, hashToken(token),
				time.Now().Add(resetTokenTTL)); err == nil {
				h.sendResetEmail(r, body.Email, token)
			}
		}
	}
	api.Success(w, r, map[string]string{"status": "if the account exists, an email was sent"})
}

func (h *Handler) confirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.Fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(body.Password) < 8 {
		api.Fail(w, r, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	tokenHash := hashToken(body.Token)
	userID, err := h.Store.PasswordResetUserID(r.Context(), tokenHash)
	if err != nil {
		api.Fail(w, r, http.StatusBadRequest, "invalid or expired reset token")
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to set password")
		return
	}
	if err := h.Store.UpdateUserPassword(r.Context(), userID, hash); err != nil {
		api.Fail(w, r, http.StatusInternalServerError, "failed to set password")
		return
	}
	if err := h.Store.MarkPasswordResetUsed(r.Context(), tokenHash); err != nil {
		slog.Warn("failed to mark reset token used", slog.Any("error", err))
	}
	h.Audit.Record(r.Context(), userID, "password_reset", "user", userID, nil)
	api.Success(w, r, map[string]string{"status": "password updated"})
}

func (h *Handler) sendResetEmail(r *http.Request, email, token string) {
	if h.Mailer == nil {
		return
	}
	body := fmt.Sprintf("Use this token to reset your password within one hour:\n\n%s", token)
	if err := h.Mailer.Send(r.Context(), h.EmailFrom, email, "Password reset", body); err != nil {
		slog.Warn("failed to send password reset email", slog.Any("error", err))
	}
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
