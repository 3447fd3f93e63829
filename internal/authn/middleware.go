package authn

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"campusnest/internal/observability/metrics"
	obsmw "campusnest/internal/observability/middleware"

	"github.com/google/uuid"
)

type userIDKey struct{}

func ContextWithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return v, ok
}

// Middleware rejects requests without a valid bearer token. unauthorized
// writes the rejection so the caller controls the response body.
func (t *Tokens) Middleware(unauthorized http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := obsmw.RequestIDFromContext(r.Context())
			traceID := obsmw.TraceIDFromContext(r.Context())

			raw := r.Header.Get("Authorization")
			if len(raw) < len("Bearer ") || !strings.EqualFold(raw[:len("Bearer ")], "bearer ") {
				metrics.AuthenticationAttemptsTotal.WithLabelValues("missing").Inc()
				slog.Debug("auth missing bearer", "request_id", reqID, "trace_id", traceID)
				unauthorized(w, r)
				return
			}
			userID, err := t.Parse(strings.TrimSpace(raw[len("Bearer "):]))
			if err != nil {
				metrics.AuthenticationAttemptsTotal.WithLabelValues("invalid").Inc()
				slog.Warn("auth invalid token", "error", err, "request_id", reqID, "trace_id", traceID)
				unauthorized(w, r)
				return
			}

			metrics.AuthenticationAttemptsTotal.WithLabelValues("success").Inc()
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}
