package middleware

import (
	"net/http"
	"time"

	appctx "airplane-watch/sleepwatch/internal/context"
	"airplane-watch/sleepwatch/internal/logging"
)

type respLogger struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	n, err := l.ResponseWriter.Write(b)
	l.bytes += n
	return n, err
}

func (l *respLogger) Unwrap() http.ResponseWriter {
	return l.ResponseWriter
}

// Logging writes a debug line per request with headers and response size.
// Only mounted outside production.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.WithRequest(appctx.GetRequestID(r.Context()), r.URL.Path)
		log.Debugw("request started",
			"method", r.Method,
			"query", r.URL.RawQuery,
			"user_agent", r.UserAgent(),
			"remote_addr", r.RemoteAddr,
		)

		lw := &respLogger{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(lw, r)

		log.Debugw("request finished",
			"status", lw.status,
			"bytes", lw.bytes,
			"duration", time.Since(start).String(),
		)
	})
}
