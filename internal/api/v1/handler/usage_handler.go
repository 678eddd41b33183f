package handler

import (
	"net/http"
	"strconv"

	"wordflow/internal/api/v1/dto"
	"wordflow/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UsageHandler exposes the usage ledger to the signed-in user.
type UsageHandler struct {
	usageService service.UsageService
	validate     *validator.Validate
	logger       zerolog.Logger
}

func NewUsageHandler(usageService service.UsageService, validate *validator.Validate, logger zerolog.Logger) *UsageHandler {
	return &UsageHandler{usageService: usageService, validate: validate, logger: logger}
}

// RegisterRoutes registers the usage endpoints. limit wraps the authenticated routes.
func (h *UsageHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware, limit func(http.Handler) http.Handler) {
	mux.Handle("GET /tools/usage/monthly", authMiddleware(limit(http.HandlerFunc(h.Monthly))))
	mux.Handle("GET /tools/usage/history", authMiddleware(limit(http.HandlerFunc(h.History))))
	mux.Handle("POST /tools/usage/check", authMiddleware(limit(http.HandlerFunc(h.Check))))
}

// Monthly godoc
// @Summary Current month usage
// @Tags usage
// @Produce json
// @Success 200 {object} service.MonthlyStats
// @Failure 401 {string} string "unauthorized"
// @Failure 429 {string} string "too many requests"
// @Failure 500 {string} string "failed to load usage"
// @Router /tools/usage/monthly [get]
func (h *UsageHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	stats, err := h.usageService.GetMonthlyStats(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load monthly usage")
		http.Error(w, "failed to load usage", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats, h.logger)
}

// History godoc
// @Summary Usage of recent months
// @Tags usage
// @Produce json
// @Param months query int false "Number of months (default 6, max 24)"
// @Success 200 {object} dto.UsageHistoryResponseDTO
// @Failure 400 {string} string "invalid months"
// @Failure 401 {string} string "unauthorized"
// @Router /tools/usage/history [get]
func (h *UsageHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid months", http.StatusBadRequest)
			return
		}
		months = n
	}
	entries, err := h.usageService.GetUsageHistory(r.Context(), userID, months)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load usage history")
		http.Error(w, "failed to load usage history", http.StatusInternalServerError)
		return
	}
	resp := dto.UsageHistoryResponseDTO{Entries: make([]dto.UsageHistoryEntryDTO, 0, len(entries))}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.NewUsageHistoryEntry(&entries[i]))
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

// Check godoc
// @Summary Check whether a request fits the monthly quota
// @Description Read only. A denial is a 200 with allowed=false.
// @Tags usage
// @Accept json
// @Produce json
// @Param request body dto.QuotaCheckRequest true "Words to check"
// @Success 200 {object} service.QuotaCheck
// @Failure 400 {string} string "invalid request payload"
// @Failure 401 {string} string "unauthorized"
// @Router /tools/usage/check [post]
func (h *UsageHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dto.QuotaCheckRequest
	if err := decodeOptional(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	check, err := h.usageService.CheckQuota(r.Context(), userID, req.WordCount)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to check quota")
		http.Error(w, "failed to check quota", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, check, h.logger)
}
