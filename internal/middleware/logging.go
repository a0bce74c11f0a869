package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Paths to skip logging (probes, etc.)
var skipLoggingPaths = []string{
	"/health",
	"/favicon.ico",
}

// RequestLogging logs HTTP requests with method, path, status, and
// duration. Gallery routes carry the opaque access token in the path;
// the logged path is the matched route pattern (or a masked path when
// no pattern matched) so the plaintext credential never reaches logs.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip logging for configured paths
		for _, prefix := range skipLoggingPaths {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			written:        false,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		slog.Info("http request",
			"method", r.Method,
			"path", loggablePath(r),
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}

const galleryPathPrefix = "/api/gallery/"

// loggablePath returns a path safe to log. The mux pattern already has
// the token replaced by its placeholder; unmatched requests under the
// gallery prefix get the credential segment masked instead.
func loggablePath(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}

	path := r.URL.Path
	if !strings.HasPrefix(path, galleryPathPrefix) {
		return path
	}

	rest := strings.SplitN(strings.TrimPrefix(path, galleryPathPrefix), "/", 2)
	masked := maskCredential(rest[0])
	if len(rest) == 2 {
		return galleryPathPrefix + masked + "/" + rest[1]
	}
	return galleryPathPrefix + masked
}

func maskCredential(segment string) string {
	if len(segment) <= 4 {
		return "****"
	}
	return segment[:4] + "****"
}
