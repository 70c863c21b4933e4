// Package handler exposes the raw transactional email endpoint used by the
// frontend for one-off sends (contact confirmations, campaign previews).
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rezo/internal/mailer"
	"rezo/internal/registrant/schema"
	"rezo/internal/transport/respond"
	dErrors "rezo/pkg/domain-errors"
)

// Handler is the thin HTTP layer over the mail sender.
type Handler struct {
	sender mailer.Sender
}

// New constructs the mail handler.
func New(sender mailer.Sender) *Handler {
	return &Handler{sender: sender}
}

// Register mounts the mail route.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/send-email", h.handleSend)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		HTML    string `json:"html"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "corps de requête invalide"))
		return
	}
	if !schema.ValidEmail(req.To) {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "destinataire invalide"))
		return
	}
	if req.Subject == "" {
		respond.Error(w, dErrors.New(dErrors.CodeBadRequest, "sujet requis"))
		return
	}

	err := h.sender.Send(r.Context(), mailer.Message{
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
	})
	if err != nil {
		respond.Error(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "envoi de l'email impossible"))
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}
