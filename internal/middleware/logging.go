package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type loggingWriter struct {
	http.ResponseWriter
	statusCode int
	hijacked   bool
}

func (w *loggingWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *loggingWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	w.hijacked = true
	return h.Hijack()
}

func Logging(log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &loggingWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			fields := logrus.Fields{
				"status":      wrapped.statusCode,
				"hijacked":    wrapped.hijacked,
				"remote_addr": r.RemoteAddr,
				"xff":         r.Header.Get("X-Forwarded-For"),
				"method":      r.Method,
				"uri":         r.URL.RequestURI(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if claims, ok := PlayerClaims(r.Context()); ok {
				fields["player_id"] = claims.PlayerId
			}
			entry := log.WithFields(fields)
			if wrapped.statusCode >= http.StatusInternalServerError {
				entry.Warn("handled request")
			} else {
				entry.Info("handled request")
			}
		})
	}
}
