package dto

import (
	"time"

	"wordflow/internal/model"
)

// ProcessScheduledRequest is the optional body of a scheduler tick.
type ProcessScheduledRequest struct {
	MaxPosts int    `json:"maxPosts,omitempty" validate:"omitempty,min=1,max=50"`
	APIKey   string `json:"apiKey,omitempty"`
}

// EnableAutomationRequest configures the check interval; zero means 24 hours.
type EnableAutomationRequest struct {
	CheckIntervalHours int `json:"checkIntervalHours,omitempty" validate:"omitempty,min=1,max=168"`
}

// PostResponseDTO is a post with its automation fields.
type PostResponseDTO struct {
	ID                 string     `json:"id"`
	OrganizationID     string     `json:"organizationId"`
	URL                string     `json:"url"`
	Status             string     `json:"status"`
	CommentCount       int        `json:"commentCount"`
	AutoProcess        bool       `json:"autoProcess"`
	CheckIntervalHours int        `json:"checkIntervalHours"`
	NextCheckAt        *time.Time `json:"nextCheckAt,omitempty"`
	RetryCount         int        `json:"retryCount"`
	LastError          *string    `json:"lastError,omitempty"`
	AutomationState    string     `json:"automationState"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// NewPostResponse maps a post, classifying its automation at now.
func NewPostResponse(p *model.ScheduledPost, now time.Time, maxRetries int) PostResponseDTO {
	return PostResponseDTO{
		ID:                 p.ID,
		OrganizationID:     p.OrganizationID,
		URL:                p.URL,
		Status:             string(p.Status),
		CommentCount:       p.CommentCount,
		AutoProcess:        p.Automation.Enabled,
		CheckIntervalHours: p.Automation.CheckIntervalHours,
		NextCheckAt:        p.Automation.NextCheckAt,
		RetryCount:         p.Automation.RetryCount,
		LastError:          p.Automation.LastError,
		AutomationState:    string(p.Automation.State(now, maxRetries)),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

type AutomationStatsDTO struct {
	TotalPosts     int `json:"totalPosts"`
	AutomatedPosts int `json:"automatedPosts"`
	PendingPosts   int `json:"pendingPosts"`
	FailedPosts    int `json:"failedPosts"`
}

type AutomationStatusResponseDTO struct {
	Stats AutomationStatsDTO `json:"stats"`
	Posts []PostResponseDTO  `json:"posts"`
}
