// Package handler exposes the signup endpoints. Registration submits arrive
// form-encoded from the wizard; the API endpoints speak JSON.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rezo/internal/registrant/models"
	"rezo/internal/registrant/schema"
	"rezo/internal/registrant/service"
	"rezo/internal/transport/respond"
	dErrors "rezo/pkg/domain-errors"
)

// RegistrationService is the slice of the registrant service the handler needs.
type RegistrationService interface {
	RegisterProfessional(ctx context.Context, payload *schema.ProfessionalPayload) (*models.Registrant, error)
	RegisterBusiness(ctx context.Context, payload *schema.BusinessPayload) (*models.Registrant, error)
	CheckUnique(ctx context.Context, field, value string) (bool, error)
	Subscribe(ctx context.Context, email string) error
}

// Handler is the thin HTTP layer over the registration service.
type Handler struct {
	service RegistrationService
}

// New constructs the registrant handler.
func New(service RegistrationService) *Handler {
	return &Handler{service: service}
}

// Register mounts the signup routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/register/professional", h.handleRegisterProfessional)
	r.Post("/register/business", h.handleRegisterBusiness)
	r.Post("/newsletter/subscribe", h.handleSubscribe)
	r.Post("/api/check-unique", h.handleCheckUnique)
}

func (h *Handler) handleRegisterProfessional(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "formulaire illisible"))
		return
	}
	payload, violations := schema.ParseProfessional(r.PostForm)
	if violations != nil {
		writeViolations(w, violations)
		return
	}

	registrant, err := h.service.RegisterProfessional(r.Context(), payload)
	if err != nil {
		writeRegisterError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    registrant,
	})
}

func (h *Handler) handleRegisterBusiness(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "formulaire illisible"))
		return
	}
	payload, violations := schema.ParseBusiness(r.PostForm)
	if violations != nil {
		writeViolations(w, violations)
		return
	}

	registrant, err := h.service.RegisterBusiness(r.Context(), payload)
	if err != nil {
		writeRegisterError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    registrant,
	})
}

func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Subscribe(r.Context(), req.Email); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Inscription à la newsletter confirmée",
	})
}

func (h *Handler) handleCheckUnique(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "corps de requête invalide"))
		return
	}
	if req.Value == "" {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "value est requis"))
		return
	}

	unique, err := h.service.CheckUnique(r.Context(), req.Field, req.Value)
	if err != nil {
		respond.Error(w, err)
		return
	}

	message := "Disponible"
	if !unique {
		message = "Cet email est déjà utilisé"
		if req.Field == "phone" {
			message = "Ce numéro de téléphone est déjà utilisé"
		}
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"isUnique": unique,
		"message":  message,
	})
}

func writeViolations(w http.ResponseWriter, violations schema.Violations) {
	respond.JSON(w, http.StatusBadRequest, map[string]any{
		"error":   "Données invalides",
		"details": violations,
	})
}

// writeRegisterError adds the field name to uniqueness conflicts so the wizard
// can highlight the offending input.
func writeRegisterError(w http.ResponseWriter, err error) {
	var conflict *service.FieldConflictError
	if errors.As(err, &conflict) {
		respond.JSON(w, http.StatusConflict, map[string]any{
			"error": dErrors.MessageOf(err),
			"field": conflict.Field,
		})
		return
	}
	respond.Error(w, err)
}
