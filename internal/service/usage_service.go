package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wordflow/internal/metrics"
	"wordflow/internal/model"
	"wordflow/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidWordCount = errors.New("word count must be positive")
)

const (
	DefaultHistoryMonths = 6
	MaxHistoryMonths     = 24
)

// QuotaCheck is the read-only answer to "may this user spend n more words".
type QuotaCheck struct {
	Allowed        bool   `json:"allowed"`
	CurrentUsage   int    `json:"currentUsage"`
	WordLimit      int    `json:"wordLimit"`
	RemainingWords int    `json:"remainingWords"`
	Message        string `json:"message,omitempty"`
}

// QuotaExceededError is returned by Guard when the check denies the request.
type QuotaExceededError struct {
	Check QuotaCheck
}

func (e *QuotaExceededError) Error() string {
	return e.Check.Message
}

type UsageBreakdown struct {
	Humanizer   int `json:"humanizer"`
	Detector    int `json:"detector"`
	Summariser  int `json:"summariser"`
	Paraphraser int `json:"paraphraser"`
}

type MonthlyStats struct {
	CurrentUsage    int            `json:"currentUsage"`
	WordLimit       int            `json:"wordLimit"`
	RemainingWords  int            `json:"remainingWords"`
	UsagePercentage int            `json:"usagePercentage"`
	Breakdown       UsageBreakdown `json:"breakdown"`
	Month           int            `json:"month"`
	Year            int            `json:"year"`
}

// UsageService tracks monthly word consumption against each user's quota.
type UsageService interface {
	CheckQuota(ctx context.Context, userID string, requestedWords int) (*QuotaCheck, error)
	RecordUsage(ctx context.Context, userID string, tool model.ToolType, words int) error
	GetMonthlyStats(ctx context.Context, userID string) (*MonthlyStats, error)
	GetUsageHistory(ctx context.Context, userID string, months int) ([]model.UsageLedgerEntry, error)
	// Guard checks the quota, runs fn, and records usage only when fn succeeded.
	Guard(ctx context.Context, userID string, tool model.ToolType, words int, fn func(ctx context.Context) error) error
}

type UsageOption func(*usageService)

// WithClock overrides the clock used to pick the current month.
func WithClock(now func() time.Time) UsageOption {
	return func(s *usageService) {
		s.now = now
	}
}

// WithUsageMetrics attaches Prometheus counters.
func WithUsageMetrics(m *metrics.Metrics) UsageOption {
	return func(s *usageService) {
		s.metrics = m
	}
}

type usageService struct {
	usageRepo repository.UsageRepository
	userRepo  repository.UserRepository
	metrics   *metrics.Metrics
	now       func() time.Time
	logger    zerolog.Logger
}

// NewUsageService creates a new UsageService with a scoped logger.
func NewUsageService(usageRepo repository.UsageRepository, userRepo repository.UserRepository, logger zerolog.Logger, opts ...UsageOption) UsageService {
	s := &usageService{
		usageRepo: usageRepo,
		userRepo:  userRepo,
		now:       time.Now,
		logger:    logger.With().Str("service", "UsageService").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *usageService) currentPeriod() model.Period {
	return model.PeriodOf(s.now())
}

// currentUsage returns the user's total for the current period, 0 when no row exists yet.
func (s *usageService) currentUsage(ctx context.Context, userID string, period model.Period) (*model.UsageLedgerEntry, error) {
	entry, err := s.usageRepo.GetEntry(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry = &model.UsageLedgerEntry{UserID: userID, Month: period.Month, Year: period.Year}
	}
	return entry, nil
}

func (s *usageService) CheckQuota(ctx context.Context, userID string, requestedWords int) (*QuotaCheck, error) {
	if requestedWords <= 0 {
		return nil, ErrInvalidWordCount
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch user for quota check")
		return nil, err
	}
	if user == nil {
		s.metrics.QuotaChecked(false)
		return &QuotaCheck{
			Allowed: false,
			Message: "User profile not found. Please sign in again or contact support.",
		}, nil
	}

	entry, err := s.currentUsage(ctx, userID, s.currentPeriod())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch current usage for quota check")
		return nil, err
	}

	limit := user.MonthlyWordLimit
	used := entry.TotalWords
	check := &QuotaCheck{
		Allowed:        used+requestedWords <= limit,
		CurrentUsage:   used,
		WordLimit:      limit,
		RemainingWords: max(limit-used, 0),
	}
	if !check.Allowed {
		check.Message = fmt.Sprintf(
			"This request needs %d words and would exceed your monthly limit of %d. You have %d words remaining this month. Upgrade your plan for more words.",
			requestedWords, limit, check.RemainingWords,
		)
	}
	s.metrics.QuotaChecked(check.Allowed)
	return check, nil
}

func (s *usageService) RecordUsage(ctx context.Context, userID string, tool model.ToolType, words int) error {
	if !tool.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownTool, tool)
	}
	if words <= 0 {
		return ErrInvalidWordCount
	}
	period := s.currentPeriod()
	if err := s.usageRepo.RecordUsage(ctx, userID, period, tool, words); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("tool", string(tool)).
			Int("words", words).
			Msg("Failed to record usage")
		return fmt.Errorf("record usage: %w", err)
	}
	s.metrics.WordsRecorded(string(tool), words)
	return nil
}

func (s *usageService) GetMonthlyStats(ctx context.Context, userID string) (*MonthlyStats, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch user for monthly stats")
		return nil, err
	}
	limit := 0
	if user != nil {
		limit = user.MonthlyWordLimit
	}

	period := s.currentPeriod()
	entry, err := s.currentUsage(ctx, userID, period)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch monthly usage")
		return nil, err
	}

	return &MonthlyStats{
		CurrentUsage:    entry.TotalWords,
		WordLimit:       limit,
		RemainingWords:  max(limit-entry.TotalWords, 0),
		UsagePercentage: usagePercentage(entry.TotalWords, limit),
		Breakdown: UsageBreakdown{
			Humanizer:   entry.HumanizerWords,
			Detector:    entry.DetectorWords,
			Summariser:  entry.SummariserWords,
			Paraphraser: entry.ParaphraserWords,
		},
		Month: period.Month,
		Year:  period.Year,
	}, nil
}

// usagePercentage rounds down, so 100 only shows once the quota is used up, and caps at 100. A zero limit
// reads as fully used once anything was consumed.
func usagePercentage(used, limit int) int {
	if limit <= 0 {
		if used > 0 {
			return 100
		}
		return 0
	}
	pct := used * 100 / limit
	return min(pct, 100)
}

func (s *usageService) GetUsageHistory(ctx context.Context, userID string, months int) ([]model.UsageLedgerEntry, error) {
	if months <= 0 {
		months = DefaultHistoryMonths
	}
	months = min(months, MaxHistoryMonths)
	entries, err := s.usageRepo.ListEntries(ctx, userID, months)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list usage history")
		return nil, err
	}
	return entries, nil
}

func (s *usageService) Guard(ctx context.Context, userID string, tool model.ToolType, words int, fn func(ctx context.Context) error) error {
	if !tool.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownTool, tool)
	}
	check, err := s.CheckQuota(ctx, userID, words)
	if err != nil {
		return err
	}
	if !check.Allowed {
		return &QuotaExceededError{Check: *check}
	}
	if err := fn(ctx); err != nil {
		return err
	}
	return s.RecordUsage(ctx, userID, tool, words)
}
