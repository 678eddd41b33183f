package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func TestAutomationEnableMakesPostDue(t *testing.T) {
	errMsg := "boom"
	a := Automation{Enabled: false, RetryCount: 3, LastError: &errMsg}

	a = a.Enable(t0, 0)

	assert.True(t, a.Enabled)
	assert.Equal(t, DefaultCheckIntervalHours, a.CheckIntervalHours)
	require.NotNil(t, a.NextCheckAt)
	assert.Equal(t, t0, *a.NextCheckAt)
	assert.Zero(t, a.RetryCount)
	assert.Nil(t, a.LastError)
	assert.Equal(t, StateDue, a.State(t0, 3))
}

func TestAutomationDisable(t *testing.T) {
	a := Automation{}.Enable(t0, 6).Fail(t0, "x", DefaultRetryPolicy())

	a = a.Disable()

	assert.False(t, a.Enabled)
	assert.Nil(t, a.NextCheckAt)
	assert.Zero(t, a.RetryCount)
	assert.Nil(t, a.LastError)
	assert.Equal(t, 6, a.CheckIntervalHours)
	assert.Equal(t, StateIdle, a.State(t0, 3))
}

func TestAutomationBackoffThenExhausted(t *testing.T) {
	policy := DefaultRetryPolicy()
	a := Automation{}.Enable(t0, 24)

	want := []time.Duration{10 * time.Minute, 30 * time.Minute}
	now := t0
	for i, d := range want {
		a = a.Fail(now, "fetch failed", policy)
		assert.Equal(t, i+1, a.RetryCount)
		require.NotNil(t, a.NextCheckAt)
		assert.Equal(t, now.Add(d), *a.NextCheckAt)
		assert.Equal(t, StateScheduled, a.State(now, policy.MaxRetries))
		now = *a.NextCheckAt
		assert.Equal(t, StateDue, a.State(now, policy.MaxRetries))
	}

	a = a.Fail(now, "analyze failed", policy)
	assert.Equal(t, 3, a.RetryCount)
	assert.True(t, a.Enabled)
	assert.Nil(t, a.NextCheckAt)
	require.NotNil(t, a.LastError)
	assert.Equal(t, "analyze failed", *a.LastError)
	assert.Equal(t, StateExhausted, a.State(now.Add(time.Hour), policy.MaxRetries))
}

func TestAutomationSucceedResets(t *testing.T) {
	policy := DefaultRetryPolicy()
	a := Automation{}.Enable(t0, 12).Fail(t0, "a", policy).Fail(t0, "b", policy)
	require.Equal(t, 2, a.RetryCount)

	a = a.Succeed(t0)

	assert.Zero(t, a.RetryCount)
	assert.Nil(t, a.LastError)
	require.NotNil(t, a.NextCheckAt)
	assert.Equal(t, t0.Add(12*time.Hour), *a.NextCheckAt)
	assert.Equal(t, StateScheduled, a.State(t0, policy.MaxRetries))
}

func TestRetryPolicyDelayClamps(t *testing.T) {
	p := RetryPolicy{MaxRetries: 10, Backoff: []time.Duration{time.Minute, 2 * time.Minute}}

	assert.Equal(t, time.Minute, p.Delay(0))
	assert.Equal(t, time.Minute, p.Delay(1))
	assert.Equal(t, 2*time.Minute, p.Delay(2))
	assert.Equal(t, 2*time.Minute, p.Delay(7))
	assert.Zero(t, RetryPolicy{}.Delay(1))
}

func TestNeedsFetch(t *testing.T) {
	tests := []struct {
		name string
		post ScheduledPost
		want bool
	}{
		{"pending", ScheduledPost{Status: PostStatusPending, CommentCount: 4}, true},
		{"no comments", ScheduledPost{Status: PostStatusAnalyzed}, true},
		{"fetched with comments", ScheduledPost{Status: PostStatusFetched, CommentCount: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.post.NeedsFetch())
		})
	}
}
