package testutil

import (
	"context"
	"net/http"
	"time"

	id "kyccore/pkg/domain"
	"kyccore/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context, as the auth middleware
// would for an authenticated request. Invalid IDs are silently ignored.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsed, err := id.ParseUserID(userID); err == nil {
		return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
	}
	return req
}

// FixedClock returns a context whose request time is now, plus a request ID,
// for service tests that bypass the HTTP middleware chain.
func FixedClock(now time.Time) context.Context {
	ctx := requestcontext.WithTime(context.Background(), now)
	return requestcontext.WithRequestID(ctx, "test-request")
}
