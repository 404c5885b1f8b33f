package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"aidbridge/internal"
	"aidbridge/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeySession contextKey = "session"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// sessionFromRequest resolves the caller's identity from the bearer
// token or, failing that, the encrypted session cookie.
func (s *Service) sessionFromRequest(r *http.Request) (*session, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return nil, errMalformedAuthHeader
		}
		return s.parseToken(raw)
	}

	cookie, err := r.Cookie(internal.COOKIE_SESSION_NAME)
	if err != nil {
		return nil, err
	}

	var raw string
	if err := s.cookie.Decode(internal.COOKIE_SESSION_NAME, cookie.Value, &raw); err != nil {
		return nil, err
	}

	return s.parseToken(raw)
}

// RequireAuth middleware checks for a valid session token and adds the
// session to the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessionFromRequest(r)
		if err != nil {
			s.logger.WithError(err).Debug("request is not authenticated")
			s.respondError(w, http.StatusUnauthorized, "authentication required", err)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole fails with forbidden unless the session role matches
// exactly. Admins do not pass donor or receiver gates.
func (s *Service) RequireRole(role types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := s.sessionFromContext(r.Context())
			if err != nil {
				s.respondError(w, http.StatusUnauthorized, "authentication required", err)
				return
			}

			if sess.Role != role {
				s.respondError(w, http.StatusForbidden, "insufficient role", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			// Preserve query string
			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
