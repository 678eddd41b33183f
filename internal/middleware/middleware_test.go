package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())
		_, _ = w.Write([]byte(userID))
	})
}

func TestAuthMiddleware(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	h := AuthMiddleware("secret", zerolog.Nop())(echoUser())

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + token, http.StatusOK, "user-1"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, ""},
		{"bad token", "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/tools/usage/monthly", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func schedulerProbe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SchedulerAuthorized(r.Context()) {
			_, _ = w.Write([]byte("yes"))
			return
		}
		_, _ = w.Write([]byte("no"))
	})
}

func TestSchedulerAuthMiddleware(t *testing.T) {
	validator := func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		if audience != "https://api.example.com" {
			return nil, errors.New("bad audience")
		}
		switch token {
		case "good":
			return &idtoken.Payload{Claims: map[string]interface{}{"email": "scheduler@p.iam.gserviceaccount.com"}}, nil
		case "other-sa":
			return &idtoken.Payload{Claims: map[string]interface{}{"email": "someone@p.iam.gserviceaccount.com"}}, nil
		}
		return nil, errors.New("invalid")
	}
	h := SchedulerAuthMiddleware(SchedulerAuthOptions{
		APIKey:        "k1",
		Audience:      "https://api.example.com",
		ExpectedEmail: "scheduler@p.iam.gserviceaccount.com",
		Validator:     validator,
	}, zerolog.Nop())(schedulerProbe())

	tests := []struct {
		name    string
		headers map[string]string
		status  int
		body    string
	}{
		{"automation key", map[string]string{AutomationKeyHeader: "k1"}, http.StatusOK, "yes"},
		{"wrong key passes through", map[string]string{AutomationKeyHeader: "k2"}, http.StatusOK, "no"},
		{"no credentials", nil, http.StatusOK, "no"},
		{"oidc token", map[string]string{"Authorization": "Bearer good"}, http.StatusOK, "yes"},
		{"wrong service account", map[string]string{"Authorization": "Bearer other-sa"}, http.StatusUnauthorized, ""},
		{"invalid token", map[string]string{"Authorization": "Bearer bad"}, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/automation/process-scheduled", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestKeyMatches(t *testing.T) {
	assert.True(t, KeyMatches("abc", "abc"))
	assert.False(t, KeyMatches("abc", "abd"))
	assert.False(t, KeyMatches("", ""))
}

func TestRateLimiterPerUser(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("u1"))
	assert.True(t, l.Allow("u1"))
	assert.False(t, l.Allow("u1"))
	assert.True(t, l.Allow("u2"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("u1"))
}

func TestRateLimiterPrunesIdleVisitors(t *testing.T) {
	l := NewRateLimiter(1, 1)
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("u1")
	now = now.Add(limiterIdleTTL + time.Second)
	l.Allow("u2")

	assert.Len(t, l.visitors, 1)
}

func TestRateLimiterMiddlewareReturns429(t *testing.T) {
	l := NewRateLimiter(0.001, 1)
	h := l.Middleware(echoUser())
	ctx := context.WithValue(context.Background(), UserContextKey, "u1")

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestLoggerMiddlewareSetsRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := LoggerMiddleware(zerolog.New(&buf), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	requestID := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, requestID)
	assert.Contains(t, buf.String(), `"request_id":"`+requestID+`"`)
	assert.Contains(t, buf.String(), `"status":418`)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}
