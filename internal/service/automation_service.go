package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wordflow/internal/lock"
	"wordflow/internal/metrics"
	"wordflow/internal/model"
	"wordflow/internal/pubsub"
	"wordflow/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrForbidden       = errors.New("not a member of this organization")
	ErrInvalidInterval = errors.New("check interval must be between 1 and 168 hours")
	ErrInvalidMaxPosts = errors.New("maxPosts must be between 1 and 50")
)

const (
	DefaultMaxPosts = 10
	MaxPostsLimit   = 50

	tickLockKey = "wordflow:automation:tick"
)

const (
	PostResultSuccess     = "success"
	PostResultError       = "error"
	// PostResultInterrupted marks a post whose run was cut short by the caller.
	// Its automation state is left untouched and it becomes due when the claim lease expires.
	PostResultInterrupted = "interrupted"
)

// AutomationConfig tunes the batch processor. Zero limits fall back to
// defaults; zero delays disable the pause. ClaimLease and TickLockTTL are
// minimums: both grow to cover a worst-case tick of the requested size.
type AutomationConfig struct {
	MaxPosts        int
	Policy          model.RetryPolicy
	PostDelay       time.Duration
	StepDelay       time.Duration
	PipelineTimeout time.Duration
	ClaimLease      time.Duration
	TickLockTTL     time.Duration
	EventsTopic     string
}

// tickBudget is the longest a tick over maxPosts posts can run: every post
// waits out both delays and both pipeline calls hit their timeout.
func (c AutomationConfig) tickBudget(maxPosts int) time.Duration {
	return time.Duration(maxPosts) * (c.PostDelay + c.StepDelay + 2*c.PipelineTimeout)
}

func (c AutomationConfig) claimLease(maxPosts int) time.Duration {
	return max(c.ClaimLease, c.tickBudget(maxPosts))
}

func (c AutomationConfig) tickLockTTL(maxPosts int) time.Duration {
	return max(c.TickLockTTL, c.tickBudget(maxPosts))
}

// DefaultAutomationConfig waits 2s between posts and 1s between fetch and analyze.
func DefaultAutomationConfig() AutomationConfig {
	return AutomationConfig{
		MaxPosts:    DefaultMaxPosts,
		Policy:      model.DefaultRetryPolicy(),
		PostDelay:   2 * time.Second,
		StepDelay:   time.Second,
		ClaimLease:  15 * time.Minute,
		TickLockTTL: 10 * time.Minute,
	}
}

type PostResult struct {
	PostID string `json:"postId"`
	Status string `json:"status"`
	URL    string `json:"url"`
	Error  string `json:"error,omitempty"`
}

type BatchResult struct {
	Success      bool         `json:"success"`
	Processed    int          `json:"processed"`
	SuccessCount int          `json:"successCount"`
	ErrorCount   int          `json:"errorCount"`
	Results      []PostResult `json:"results"`
	// Skipped is set when another tick held the lock.
	Skipped bool `json:"skipped,omitempty"`
	// Interrupted is set when the context ended before every claimed post ran.
	Interrupted bool `json:"interrupted,omitempty"`
}

type AutomationStats struct {
	TotalPosts     int `json:"totalPosts"`
	AutomatedPosts int `json:"automatedPosts"`
	PendingPosts   int `json:"pendingPosts"`
	FailedPosts    int `json:"failedPosts"`
}

type AutomationStatus struct {
	Stats AutomationStats       `json:"stats"`
	Posts []model.ScheduledPost `json:"posts"`
}

// AutomationService drives the scheduled post state machine.
type AutomationService interface {
	// ProcessScheduled runs one batch tick over at most maxPosts due posts.
	ProcessScheduled(ctx context.Context, maxPosts int) (*BatchResult, error)
	Enable(ctx context.Context, userID, postID string, checkIntervalHours int) (*model.ScheduledPost, error)
	Disable(ctx context.Context, userID, postID string) (*model.ScheduledPost, error)
	Status(ctx context.Context, userID, organizationID string) (*AutomationStatus, error)
}

type AutomationOption func(*automationService)

// WithSleep replaces the context-aware sleep used between pipeline calls.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) AutomationOption {
	return func(s *automationService) {
		s.sleep = sleep
	}
}

func WithAutomationClock(now func() time.Time) AutomationOption {
	return func(s *automationService) {
		s.now = now
	}
}

func WithLocker(l lock.Locker) AutomationOption {
	return func(s *automationService) {
		s.locker = l
	}
}

func WithPublisher(p pubsub.Publisher) AutomationOption {
	return func(s *automationService) {
		s.publisher = p
	}
}

func WithAutomationMetrics(m *metrics.Metrics) AutomationOption {
	return func(s *automationService) {
		s.metrics = m
	}
}

type automationService struct {
	posts     repository.PostRepository
	orgs      repository.OrganizationRepository
	pipeline  PipelineClient
	cfg       AutomationConfig
	locker    lock.Locker
	publisher pubsub.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
	logger    zerolog.Logger
}

func NewAutomationService(
	posts repository.PostRepository,
	orgs repository.OrganizationRepository,
	pipeline PipelineClient,
	cfg AutomationConfig,
	logger zerolog.Logger,
	opts ...AutomationOption,
) AutomationService {
	def := DefaultAutomationConfig()
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = def.MaxPosts
	}
	if cfg.Policy.MaxRetries <= 0 || len(cfg.Policy.Backoff) == 0 {
		cfg.Policy = def.Policy
	}
	if cfg.ClaimLease <= 0 {
		cfg.ClaimLease = def.ClaimLease
	}
	if cfg.TickLockTTL <= 0 {
		cfg.TickLockTTL = def.TickLockTTL
	}
	s := &automationService{
		posts:     posts,
		orgs:      orgs,
		pipeline:  pipeline,
		cfg:       cfg,
		locker:    lock.NoopLocker{},
		publisher: pubsub.NoopPublisher{},
		now:       time.Now,
		sleep:     sleepContext,
		logger:    logger.With().Str("service", "AutomationService").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *automationService) ProcessScheduled(ctx context.Context, maxPosts int) (*BatchResult, error) {
	if maxPosts == 0 {
		maxPosts = s.cfg.MaxPosts
	}
	if maxPosts < 1 || maxPosts > MaxPostsLimit {
		return nil, ErrInvalidMaxPosts
	}

	release, ok, err := s.locker.TryLock(ctx, tickLockKey, s.cfg.tickLockTTL(maxPosts))
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("Tick lock unavailable, processing without it")
	case !ok:
		s.logger.Info().Msg("Another tick is running, skipping")
		s.metrics.TickCompleted("skipped")
		return &BatchResult{Success: true, Skipped: true, Results: []PostResult{}}, nil
	default:
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to release tick lock")
			}
		}()
	}

	now := s.now()
	claimed, err := s.posts.ClaimDuePosts(ctx, now, maxPosts, s.cfg.Policy.MaxRetries, now.Add(s.cfg.claimLease(maxPosts)))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to claim due posts")
		s.metrics.TickCompleted("failed")
		return nil, fmt.Errorf("claim due posts: %w", err)
	}

	result := &BatchResult{Success: true, Results: make([]PostResult, 0, len(claimed))}
	for i := range claimed {
		post := &claimed[i]
		if i > 0 {
			if err := s.sleep(ctx, s.cfg.PostDelay); err != nil {
				s.logger.Warn().Err(err).Int("remaining", len(claimed)-i).Msg("Tick interrupted, remaining posts retry after the claim lease")
				result.Interrupted = true
				break
			}
		}
		pr := s.processOne(ctx, post)
		result.Results = append(result.Results, pr)
		if pr.Status == PostResultInterrupted {
			s.logger.Warn().Int("remaining", len(claimed)-i-1).Msg("Tick interrupted, remaining posts retry after the claim lease")
			result.Interrupted = true
			break
		}
		result.Processed++
		if pr.Status == PostResultSuccess {
			result.SuccessCount++
		} else {
			result.ErrorCount++
		}
	}

	s.logger.Info().
		Int("processed", result.Processed).
		Int("success_count", result.SuccessCount).
		Int("error_count", result.ErrorCount).
		Msg("Automation tick finished")
	if result.Interrupted {
		s.metrics.TickCompleted("interrupted")
	} else {
		s.metrics.TickCompleted("processed")
	}
	s.publish(context.WithoutCancel(ctx), pubsub.EventTickFinished, map[string]int{
		"processed":    result.Processed,
		"successCount": result.SuccessCount,
		"errorCount":   result.ErrorCount,
	})
	return result, nil
}

// processOne runs the pipeline for a claimed post and persists the resulting transition.
func (s *automationService) processOne(ctx context.Context, post *model.ScheduledPost) PostResult {
	pr := PostResult{PostID: post.ID, URL: post.URL, Status: PostResultSuccess}
	log := s.logger.With().Str("post_id", post.ID).Logger()

	runErr := s.runPipeline(ctx, post)
	// Cancellation is not a pipeline failure and must not consume a retry.
	if runErr != nil && ctx.Err() != nil {
		log.Warn().Err(runErr).Msg("Post processing interrupted, automation state left as claimed")
		pr.Status = PostResultInterrupted
		pr.Error = runErr.Error()
		return pr
	}
	var next model.Automation
	if runErr == nil {
		next = post.Automation.Succeed(s.now())
	} else {
		next = post.Automation.Fail(s.now(), runErr.Error(), s.cfg.Policy)
		pr.Status = PostResultError
		pr.Error = runErr.Error()
		log.Warn().Err(runErr).Int("retry_count", next.RetryCount).Msg("Post processing failed")
	}

	if err := s.posts.SaveAutomation(context.WithoutCancel(ctx), post.ID, next); err != nil {
		log.Error().Err(err).Msg("Failed to persist automation state")
		pr.Status = PostResultError
		if pr.Error == "" {
			pr.Error = err.Error()
		} else {
			pr.Error = pr.Error + "; " + err.Error()
		}
		s.metrics.PostProcessed(false)
		return pr
	}
	post.Automation = next
	s.metrics.PostProcessed(runErr == nil)

	if next.State(s.now(), s.cfg.Policy.MaxRetries) == model.StateExhausted {
		log.Error().Str("last_error", pr.Error).Msg("Post exhausted its retries, automation paused")
		s.metrics.PostExhausted()
		s.publish(ctx, pubsub.EventPostExhausted, map[string]any{
			"postId":         post.ID,
			"organizationId": post.OrganizationID,
			"url":            post.URL,
			"retryCount":     next.RetryCount,
			"lastError":      pr.Error,
		})
	}
	return pr
}

func (s *automationService) runPipeline(ctx context.Context, post *model.ScheduledPost) error {
	count := post.CommentCount
	if post.NeedsFetch() {
		n, err := s.pipeline.FetchComments(ctx, post.ID)
		if err != nil {
			return err
		}
		count = n
		post.CommentCount = n
	}
	// A post without comments has nothing to analyze and counts as a successful check.
	if count <= 0 {
		return nil
	}
	if err := s.sleep(ctx, s.cfg.StepDelay); err != nil {
		return err
	}
	return s.pipeline.AnalyzeComments(ctx, post.ID)
}

func (s *automationService) publish(ctx context.Context, eventType string, data any) {
	if s.cfg.EventsTopic == "" {
		return
	}
	if _, err := pubsub.PublishEvent(ctx, s.publisher, s.cfg.EventsTopic, eventType, data); err != nil {
		s.logger.Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish event")
	}
}

// authorizedPost loads the post and checks that the user belongs to its organization.
func (s *automationService) authorizedPost(ctx context.Context, userID, postID string) (*model.ScheduledPost, error) {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		s.logger.Error().Err(err).Str("post_id", postID).Msg("Failed to fetch post")
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if err := s.authorizeMember(ctx, userID, post.OrganizationID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *automationService) authorizeMember(ctx context.Context, userID, organizationID string) error {
	ok, err := s.orgs.IsMember(ctx, organizationID, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("organization_id", organizationID).Msg("Failed to check organization membership")
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *automationService) Enable(ctx context.Context, userID, postID string, checkIntervalHours int) (*model.ScheduledPost, error) {
	if checkIntervalHours == 0 {
		checkIntervalHours = model.DefaultCheckIntervalHours
	}
	if checkIntervalHours < model.MinCheckIntervalHours || checkIntervalHours > model.MaxCheckIntervalHours {
		return nil, ErrInvalidInterval
	}
	post, err := s.authorizedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	next := post.Automation.Enable(s.now(), checkIntervalHours)
	if err := s.posts.SaveAutomation(ctx, post.ID, next); err != nil {
		s.logger.Error().Err(err).Str("post_id", postID).Msg("Failed to enable automation")
		return nil, err
	}
	post.Automation = next
	s.logger.Info().Str("post_id", postID).Str("user_id", userID).Int("check_interval_hours", checkIntervalHours).Msg("Automation enabled")
	return post, nil
}

func (s *automationService) Disable(ctx context.Context, userID, postID string) (*model.ScheduledPost, error) {
	post, err := s.authorizedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	next := post.Automation.Disable()
	if err := s.posts.SaveAutomation(ctx, post.ID, next); err != nil {
		s.logger.Error().Err(err).Str("post_id", postID).Msg("Failed to disable automation")
		return nil, err
	}
	post.Automation = next
	s.logger.Info().Str("post_id", postID).Str("user_id", userID).Msg("Automation disabled")
	return post, nil
}

func (s *automationService) Status(ctx context.Context, userID, organizationID string) (*AutomationStatus, error) {
	if err := s.authorizeMember(ctx, userID, organizationID); err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByOrganization(ctx, organizationID)
	if err != nil {
		s.logger.Error().Err(err).Str("organization_id", organizationID).Msg("Failed to list posts")
		return nil, err
	}
	status := &AutomationStatus{Posts: posts}
	if status.Posts == nil {
		status.Posts = []model.ScheduledPost{}
	}
	for _, p := range posts {
		status.Stats.TotalPosts++
		if p.Automation.Enabled {
			status.Stats.AutomatedPosts++
		}
		if p.Status == model.PostStatusPending {
			status.Stats.PendingPosts++
		}
		if p.Automation.RetryCount >= s.cfg.Policy.MaxRetries {
			status.Stats.FailedPosts++
		}
	}
	return status, nil
}
