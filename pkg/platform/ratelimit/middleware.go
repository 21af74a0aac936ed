package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"kyccore/pkg/platform/httputil"
	"kyccore/pkg/requestcontext"
)

// ExceededResponse is the body written when a caller is over its limit.
type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// Limiter applies one limit to the requests it wraps.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	logger *slog.Logger
}

// New builds a Limiter admitting limit requests per window. A non-positive
// limit disables it.
func New(store Store, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{store: store, limit: limit, window: window, logger: logger}
}

// PerUser limits each authenticated user under name. Unauthenticated
// requests are keyed by client IP. Store failures let the request through.
func (l *Limiter) PerUser(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			key := name + ":ip:" + requestcontext.ClientIP(ctx)
			if userID := requestcontext.UserID(ctx); !userID.IsNil() {
				key = name + ":user:" + userID.String()
			}

			result, err := l.store.Allow(ctx, key, l.limit, l.window)
			if err != nil {
				l.logger.ErrorContext(ctx, "failed to check rate limit",
					"request_id", requestcontext.RequestID(ctx),
					"limit", name,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			addHeaders(w, result)
			if !result.Allowed {
				l.logger.WarnContext(ctx, "rate limit exceeded",
					"request_id", requestcontext.RequestID(ctx),
					"limit", name,
				)
				writeExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func addHeaders(w http.ResponseWriter, result *Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeExceeded(w http.ResponseWriter, result *Result) {
	retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &ExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many verification attempts. Please try again later.",
		RetryAfter: retryAfter,
	})
}
