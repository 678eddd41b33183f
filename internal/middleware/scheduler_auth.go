package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"
)

// AutomationKeyHeader carries the shared automation key.
const AutomationKeyHeader = "X-Automation-Key"

// TokenValidator verifies a Google-signed OIDC token.
type TokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type SchedulerAuthOptions struct {
	APIKey        string
	Audience      string
	ExpectedEmail string
	// Validator defaults to idtoken.Validate.
	Validator TokenValidator
}

// SchedulerAuthorized reports whether SchedulerAuthMiddleware accepted the caller.
func SchedulerAuthorized(ctx context.Context) bool {
	ok, _ := ctx.Value(schedulerContextKey).(bool)
	return ok
}

// KeyMatches compares a presented automation key in constant time.
func KeyMatches(presented, expected string) bool {
	if presented == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}

// SchedulerAuthMiddleware accepts either the automation key header or a Cloud
// Scheduler OIDC token for the configured audience and service account. A
// request with neither passes through unauthorized so the handler can still
// check a key sent in the body; a bad bearer token is rejected outright.
func SchedulerAuthMiddleware(opts SchedulerAuthOptions, logger zerolog.Logger) func(http.Handler) http.Handler {
	validate := opts.Validator
	if validate == nil {
		validate = idtoken.Validate
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorized := false
			if KeyMatches(r.Header.Get(AutomationKeyHeader), opts.APIKey) {
				authorized = true
			} else if tokenString, ok := bearerToken(r); ok {
				if opts.Audience == "" || opts.ExpectedEmail == "" {
					logger.Error().Msg("Scheduler auth configured without an audience or expected email")
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				payload, err := validate(r.Context(), tokenString, opts.Audience)
				if err != nil {
					logger.Warn().Err(err).Msg("Failed to validate scheduler token")
					http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
					return
				}
				email, _ := payload.Claims["email"].(string)
				if email != opts.ExpectedEmail {
					logger.Warn().
						Str("token_email", email).
						Str("expected_email", opts.ExpectedEmail).
						Msg("Scheduler token email does not match expected service account")
					http.Error(w, "Unauthorized: unexpected service account", http.StatusUnauthorized)
					return
				}
				authorized = true
			}
			ctx := context.WithValue(r.Context(), schedulerContextKey, authorized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
