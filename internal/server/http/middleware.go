package internalhttp

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		ip, err := getIP(r)
		if err != nil {
			log.Errorf("failed to get client IP: %v", err)
		}
		entry := log.WithField("ip", ip).WithField("method", r.Method).WithField("path", r.URL).
			WithField("status", rw.status).WithField("HTTP version", r.Proto).
			WithField("user-agent", r.Header.Get("user-agent")).
			WithField("latency", time.Since(start))
		if rw.status >= http.StatusInternalServerError {
			entry.Warn("http request failed")
			return
		}
		entry.Info("http request processed")
	})
}
