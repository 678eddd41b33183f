package model

import "time"

// PostStatus is the ingestion status owned by the post pipeline.
type PostStatus string

const (
	PostStatusPending  PostStatus = "PENDING"
	PostStatusFetched  PostStatus = "FETCHED"
	PostStatusAnalyzed PostStatus = "ANALYZED"
)

const (
	DefaultCheckIntervalHours = 24
	MinCheckIntervalHours     = 1
	MaxCheckIntervalHours     = 168
)

// AutomationState is derived from an Automation value at a point in time.
type AutomationState string

const (
	StateIdle      AutomationState = "idle"
	StateDue       AutomationState = "due"
	StateScheduled AutomationState = "scheduled"
	StateExhausted AutomationState = "exhausted"
)

// RetryPolicy bounds automatic retries of a failing post.
type RetryPolicy struct {
	MaxRetries int
	// Backoff is indexed by retryCount-1 and clamped to its last entry.
	Backoff []time.Duration
}

// DefaultRetryPolicy retries three times after 10 minutes, 30 minutes and 2 hours.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		Backoff:    []time.Duration{10 * time.Minute, 30 * time.Minute, 2 * time.Hour},
	}
}

// Delay returns the wait before the next attempt after retryCount failures.
func (p RetryPolicy) Delay(retryCount int) time.Duration {
	if len(p.Backoff) == 0 {
		return 0
	}
	i := retryCount - 1
	if i < 0 {
		i = 0
	}
	if i >= len(p.Backoff) {
		i = len(p.Backoff) - 1
	}
	return p.Backoff[i]
}

// Automation holds the scheduling fields of a post. Values are only produced
// by the transition methods below, which keep NextCheckAt nil once retries
// are exhausted and reset RetryCount on success or (re)enable.
type Automation struct {
	Enabled            bool       `json:"auto_process"`
	CheckIntervalHours int        `json:"check_interval_hours"`
	NextCheckAt        *time.Time `json:"next_check_at,omitempty"`
	RetryCount         int        `json:"retry_count"`
	LastError          *string    `json:"last_error,omitempty"`
}

// State classifies the automation at now.
func (a Automation) State(now time.Time, maxRetries int) AutomationState {
	switch {
	case !a.Enabled:
		return StateIdle
	case a.RetryCount >= maxRetries:
		return StateExhausted
	case a.NextCheckAt == nil || !a.NextCheckAt.After(now):
		return StateDue
	default:
		return StateScheduled
	}
}

// Enable turns automation on and makes the post due immediately.
func (a Automation) Enable(now time.Time, checkIntervalHours int) Automation {
	if checkIntervalHours <= 0 {
		checkIntervalHours = DefaultCheckIntervalHours
	}
	next := now
	return Automation{
		Enabled:            true,
		CheckIntervalHours: checkIntervalHours,
		NextCheckAt:        &next,
	}
}

// Disable turns automation off and clears retry state.
func (a Automation) Disable() Automation {
	return Automation{
		Enabled:            false,
		CheckIntervalHours: a.interval(),
	}
}

// Succeed schedules the next periodic check.
func (a Automation) Succeed(now time.Time) Automation {
	next := now.Add(time.Duration(a.interval()) * time.Hour)
	return Automation{
		Enabled:            a.Enabled,
		CheckIntervalHours: a.interval(),
		NextCheckAt:        &next,
	}
}

// Fail records a failed attempt and either backs off or fences the post.
func (a Automation) Fail(now time.Time, msg string, policy RetryPolicy) Automation {
	retries := a.RetryCount + 1
	errMsg := msg
	out := Automation{
		Enabled:            a.Enabled,
		CheckIntervalHours: a.interval(),
		RetryCount:         retries,
		LastError:          &errMsg,
	}
	if retries < policy.MaxRetries {
		next := now.Add(policy.Delay(retries))
		out.NextCheckAt = &next
	}
	return out
}

func (a Automation) interval() int {
	if a.CheckIntervalHours <= 0 {
		return DefaultCheckIntervalHours
	}
	return a.CheckIntervalHours
}

// ScheduledPost is a post registered for comment monitoring.
type ScheduledPost struct {
	ID             string     `db:"id" json:"id"`
	OrganizationID string     `db:"organization_id" json:"organization_id"`
	URL            string     `db:"url" json:"url"`
	Status         PostStatus `db:"status" json:"status"`
	CommentCount   int        `db:"comment_count" json:"comment_count"`
	Automation     Automation `json:"automation"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// NeedsFetch reports whether comments must be fetched before analysis.
func (p *ScheduledPost) NeedsFetch() bool {
	return p.Status == PostStatusPending || p.CommentCount <= 0
}
