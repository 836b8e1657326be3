package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Middleware records request count and duration for every request and
// tracks open SSE connections.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
			StreamingConnections.Inc()
			defer StreamingConnections.Dec()
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		method := methodLabel(r.Method)
		RequestsTotal.WithLabelValues(method, strconv.Itoa(status/100)+"xx").Inc()
		RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	})
}

// methodLabel maps any method outside the standard set to "other".
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodHead, http.MethodOptions:
		return method
	}
	return "other"
}
