// Package handler exposes the email verification endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rezo/internal/registrant/schema"
	"rezo/internal/transport/respond"
	"rezo/internal/verification/service"
	dErrors "rezo/pkg/domain-errors"
)

// Wire error codes for failed confirmations. The form decides between
// "retype your code" and "request a new one" based on these.
const (
	wireCodeInvalid = "CODE_INVALID"
	wireCodeExpired = "CODE_EXPIRED"
)

// VerificationService is the slice of the verification service the handler needs.
type VerificationService interface {
	Issue(ctx context.Context, email string) (time.Duration, error)
	Confirm(ctx context.Context, email, code string) (string, error)
}

// Handler is the thin HTTP layer over the verification service.
type Handler struct {
	service VerificationService
}

// New constructs the verification handler.
func New(service VerificationService) *Handler {
	return &Handler{service: service}
}

// Register mounts the verification routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify/request", h.handleRequest)
	r.Post("/verify/confirm", h.handleConfirm)
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "corps de requête invalide"))
		return
	}
	if !schema.ValidEmail(req.Email) {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "Format d'email invalide"))
		return
	}

	ttl, err := h.service.Issue(r.Context(), req.Email)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"expiresIn": int(ttl.Seconds()),
	})
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "corps de requête invalide"))
		return
	}
	if !schema.ValidEmail(req.Email) {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "Format d'email invalide"))
		return
	}
	if req.Code == "" {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "code est requis"))
		return
	}

	signed, err := h.service.Confirm(r.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeInvalid):
			respond.JSON(w, http.StatusBadRequest, map[string]string{"error": wireCodeInvalid})
		case errors.Is(err, service.ErrCodeExpired):
			respond.JSON(w, http.StatusBadRequest, map[string]string{"error": wireCodeExpired})
		default:
			respond.Error(w, err)
		}
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"verificationToken": signed,
	})
}
