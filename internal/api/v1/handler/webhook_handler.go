package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"wordflow/internal/service"

	"github.com/rs/zerolog"
)

const maxWebhookBodyBytes = 65536

// StripeEventHandler is satisfied by *service.StripeService.
type StripeEventHandler interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

// WebhookHandler receives Stripe events.
type WebhookHandler struct {
	stripe StripeEventHandler
	logger zerolog.Logger
}

func NewWebhookHandler(stripe StripeEventHandler, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{stripe: stripe, logger: logger}
}

func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhooks/stripe", h.Stripe)
}

// Stripe godoc
// @Summary Stripe webhook
// @Description Verifies the Stripe signature and syncs entitlements. Non-2xx responses make Stripe redeliver.
// @Tags webhooks
// @Accept json
// @Produce plain
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {string} string "ok"
// @Failure 400 {string} string "invalid webhook"
// @Failure 500 {string} string "failed to process event"
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to read webhook body")
		http.Error(w, "invalid webhook", http.StatusBadRequest)
		return
	}
	err = h.stripe.HandleEvent(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	case errors.Is(err, service.ErrInvalidSignature), errors.Is(err, service.ErrInvalidPayload):
		http.Error(w, "invalid webhook", http.StatusBadRequest)
	default:
		h.logger.Error().Err(err).Msg("failed to process stripe event")
		http.Error(w, "failed to process event", http.StatusInternalServerError)
	}
}
