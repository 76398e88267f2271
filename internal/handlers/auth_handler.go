package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"accountd/internal/config"
	"accountd/internal/models"
	"accountd/internal/repository"
	"accountd/internal/services"
)

type AuthHandler struct {
	users  repository.UserRepository
	resets repository.PasswordResetRepository
	mailer services.EmailSender
	cfg    *config.Config
	v      *validator.Validate
}

func NewAuthHandler(db *sql.DB, cfg *config.Config, mailer services.EmailSender) *AuthHandler {
	return &AuthHandler{
		users:  repository.NewUserRepository(db),
		resets: repository.NewPasswordResetRepository(db),
		mailer: mailer,
		cfg:    cfg,
		v:      validator.New(),
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	// Username collision wins over email collision when both exist.
	if _, err := h.users.GetByUsername(r.Context(), req.Username); err == nil {
		writeJSONError(w, http.StatusBadRequest, "username_exists", "Username already exists")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		writeJSONError(w, http.StatusInternalServerError, "signup_failed", "Failed to create user")
		return
	}
	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		writeJSONError(w, http.StatusBadRequest, "email_exists", "Email already exists")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		writeJSONError(w, http.StatusInternalServerError, "signup_failed", "Failed to create user")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "signup_failed", "Password not hashed correctly")
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "signup_failed", "Failed to create user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%s created", u.Username),
		"user":    u,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	u, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeJSONError(w, http.StatusBadRequest, "user_not_found", "User not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "login_failed", "Failed to login")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Password does not match")
		return
	}

	expiresIn := h.cfg.JWTExpiresInSeconds
	if expiresIn <= 0 {
		expiresIn = 86400
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(time.Duration(expiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "login_failed", "Failed to login")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Message: "Login successful",
		Token:   signed,
		User:    u.Username,
		UserID:  u.ID,
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeJSONError(w, http.StatusBadRequest, "user_not_found", "User with this email does not exist")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "forgot_password_failed", "Failed to process request")
		return
	}

	// A fresh request always supersedes any outstanding token.
	if err := h.resets.DeleteByUserID(r.Context(), u.ID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "forgot_password_failed", "Failed to process request")
		return
	}

	secret, tokenHash, err := generateResetSecret()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "forgot_password_failed", "Failed to process request")
		return
	}

	prt := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		TokenHash: tokenHash,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.resets.Create(r.Context(), prt); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "forgot_password_failed", "Failed to process request")
		return
	}

	link := fmt.Sprintf("%s/resetpassword?token=%s&id=%s", strings.TrimRight(h.cfg.ClientBaseURL, "/"), secret, u.ID)
	body, err := services.RenderResetRequestEmail(services.ResetRequestEmail{Name: u.Username, Link: link})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "forgot_password_failed", "Failed to process request")
		return
	}

	if err := h.mailer.Send(r.Context(), u.Email, services.SubjectPasswordResetRequest, body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "mailer_error", "Error sending mail")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Recovery email sent successfully",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	prt, err := h.resets.GetByUserID(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			writeJSONError(w, http.StatusBadRequest, "invalid_token", "Invalid or expired password reset token")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Failed to reset password")
		return
	}

	if h.cfg.ResetTokenTTL > 0 && time.Since(prt.CreatedAt) > h.cfg.ResetTokenTTL {
		_ = h.resets.DeleteByUserID(r.Context(), req.UserID)
		writeJSONError(w, http.StatusBadRequest, "invalid_token", "Invalid or expired password reset token")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(prt.TokenHash), []byte(req.Token)); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_token", "Invalid or expired password reset token")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Failed to reset password")
		return
	}

	if err := h.users.UpdatePasswordHash(r.Context(), prt.UserID, string(hash)); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Failed to reset password")
		return
	}

	u, err := h.users.GetByID(r.Context(), prt.UserID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Failed to reset password")
		return
	}

	// Single use: the token is gone whether or not the notification lands.
	if err := h.resets.DeleteByUserID(r.Context(), prt.UserID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Failed to reset password")
		return
	}

	body, err := services.RenderResetSuccessEmail(services.ResetSuccessEmail{Name: u.Username})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Failed to reset password")
		return
	}
	if err := h.mailer.Send(r.Context(), u.Email, services.SubjectPasswordResetSuccess, body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "mailer_error", "Error sending mail")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password reset successful",
	})
}

func generateResetSecret() (secret string, tokenHash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	secret = hex.EncodeToString(b)

	// Same slow hash as passwords; lookup is by user id, not by hash.
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return secret, string(h), nil
}
