// Package admin guards compliance-review routes with a shared review token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "kyccore/pkg/domain-errors"
	"kyccore/pkg/platform/httputil"
	"kyccore/pkg/requestcontext"
)

// HeaderReviewToken carries the compliance review token.
const HeaderReviewToken = "X-Review-Token"

// RequireReviewToken rejects requests whose review token does not match.
// An empty expected token disables the routes entirely.
func RequireReviewToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderReviewToken)
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "review token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", requestcontext.ClientIP(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "review token required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
