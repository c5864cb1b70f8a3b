package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"circuitdesk/internal/circuit"
)

// SessionCookie is the cookie that carries the session token for browser
// clients. API clients may send the token in the X-Session-Token header
// instead; the header wins when both are present.
const SessionCookie = "circuitdesk_session"

type contextKey string

const sessionKey contextKey = "session"

// SessionAuth returns middleware that resolves the session token against
// the gate and stores the session in the request context. Requests
// without a valid session are rejected with 401.
func SessionAuth(gate *circuit.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				slog.Warn("auth: missing session token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"missing session token","code":"AUTH_MISSING_TOKEN"}`, http.StatusUnauthorized)
				return
			}

			sess, err := gate.Verify(token)
			if err != nil {
				slog.Warn("auth: rejected session token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"invalid or expired session","code":"AUTH_INVALID_TOKEN"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by SessionAuth.
func SessionFromContext(ctx context.Context) (circuit.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(circuit.Session)
	return sess, ok
}

// tokenFromRequest extracts the session token from the header or cookie.
func tokenFromRequest(r *http.Request) string {
	if token := r.Header.Get("X-Session-Token"); token != "" {
		return token
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
