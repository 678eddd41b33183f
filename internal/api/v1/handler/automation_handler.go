package handler

import (
	"errors"
	"net/http"
	"time"

	"wordflow/internal/api/v1/dto"
	"wordflow/internal/middleware"
	"wordflow/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AutomationHandler serves the scheduled post processor.
type AutomationHandler struct {
	automationService service.AutomationService
	validate          *validator.Validate
	apiKey            string
	maxRetries        int
	now               func() time.Time
	logger            zerolog.Logger
}

func NewAutomationHandler(automationService service.AutomationService, validate *validator.Validate, apiKey string, maxRetries int, logger zerolog.Logger) *AutomationHandler {
	return &AutomationHandler{
		automationService: automationService,
		validate:          validate,
		apiKey:            apiKey,
		maxRetries:        maxRetries,
		now:               time.Now,
		logger:            logger,
	}
}

// RegisterRoutes registers the automation endpoints.
func (h *AutomationHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware, schedulerMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /automation/process-scheduled", schedulerMiddleware(http.HandlerFunc(h.ProcessScheduled)))
	mux.Handle("POST /automation/enable/{postId}", authMiddleware(http.HandlerFunc(h.Enable)))
	mux.Handle("POST /automation/disable/{postId}", authMiddleware(http.HandlerFunc(h.Disable)))
	mux.Handle("GET /automation/status/{organizationId}", authMiddleware(http.HandlerFunc(h.Status)))
}

// ProcessScheduled godoc
// @Summary Process due scheduled posts
// @Description Runs one batch tick over posts whose automation is due. Called by Cloud Scheduler.
// @Tags automation
// @Accept json
// @Produce json
// @Param request body dto.ProcessScheduledRequest false "Batch options"
// @Success 200 {object} service.BatchResult
// @Failure 400 {string} string "invalid request payload"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "failed to process scheduled posts"
// @Router /automation/process-scheduled [post]
func (h *AutomationHandler) ProcessScheduled(w http.ResponseWriter, r *http.Request) {
	var req dto.ProcessScheduledRequest
	if err := decodeOptional(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	if !middleware.SchedulerAuthorized(r.Context()) && !middleware.KeyMatches(req.APIKey, h.apiKey) {
		h.logger.Warn().Msg("Unauthorized process-scheduled call")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.automationService.ProcessScheduled(r.Context(), req.MaxPosts)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMaxPosts) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Msg("failed to process scheduled posts")
		http.Error(w, "failed to process scheduled posts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result, h.logger)
}

// Enable godoc
// @Summary Enable automation for a post
// @Tags automation
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param request body dto.EnableAutomationRequest false "Check interval"
// @Success 200 {object} dto.PostResponseDTO
// @Failure 400 {string} string "invalid request payload"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "post not found"
// @Router /automation/enable/{postId} [post]
func (h *AutomationHandler) Enable(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dto.EnableAutomationRequest
	if err := decodeOptional(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	postID, ok := postIDParam(w, r)
	if !ok {
		return
	}
	post, err := h.automationService.Enable(r.Context(), userID, postID, req.CheckIntervalHours)
	if err != nil {
		h.writeServiceError(w, err, "failed to enable automation")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPostResponse(post, h.now(), h.maxRetries), h.logger)
}

// Disable godoc
// @Summary Disable automation for a post
// @Tags automation
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} dto.PostResponseDTO
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "post not found"
// @Router /automation/disable/{postId} [post]
func (h *AutomationHandler) Disable(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	postID, ok := postIDParam(w, r)
	if !ok {
		return
	}
	post, err := h.automationService.Disable(r.Context(), userID, postID)
	if err != nil {
		h.writeServiceError(w, err, "failed to disable automation")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPostResponse(post, h.now(), h.maxRetries), h.logger)
}

// Status godoc
// @Summary Automation overview for an organization
// @Tags automation
// @Produce json
// @Param organizationId path string true "Organization ID"
// @Success 200 {object} dto.AutomationStatusResponseDTO
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /automation/status/{organizationId} [get]
func (h *AutomationHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	status, err := h.automationService.Status(r.Context(), userID, r.PathValue("organizationId"))
	if err != nil {
		h.writeServiceError(w, err, "failed to load automation status")
		return
	}
	now := h.now()
	resp := dto.AutomationStatusResponseDTO{
		Stats: dto.AutomationStatsDTO(status.Stats),
		Posts: make([]dto.PostResponseDTO, 0, len(status.Posts)),
	}
	for i := range status.Posts {
		resp.Posts = append(resp.Posts, dto.NewPostResponse(&status.Posts[i], now, h.maxRetries))
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

// postIDParam answers 404 for path values that cannot name a post.
func postIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("postId"))
	if err != nil {
		http.Error(w, "post not found", http.StatusNotFound)
		return "", false
	}
	return id.String(), true
}

func (h *AutomationHandler) writeServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		http.Error(w, "post not found", http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidInterval):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error().Err(err).Msg(msg)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

