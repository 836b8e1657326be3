package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/msomdec/engineers/internal/logging"
	"github.com/msomdec/engineers/internal/pipeline"
	"github.com/msomdec/engineers/internal/service"
)

// Authenticate is the gate stage for protected routes. It reads the token
// from the token query parameter or a Bearer Authorization header and
// loads its user. Any failure stops the pipeline with ErrUnauthorized.
func Authenticate(auth *service.AuthService) pipeline.Stage {
	return func(w http.ResponseWriter, r *http.Request, st *pipeline.State) error {
		token := tokenFromRequest(r)
		user, err := auth.Authenticate(r.Context(), token)
		if err != nil {
			return err
		}
		st.User = user
		st.Token = token
		return nil
	}
}

func tokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// MethodOverride dispatches a POST carrying _method=PUT, PATCH or DELETE in
// its query string or urlencoded body as that method. HTML forms can only
// submit GET and POST.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.URL.Query().Get("_method")
			if override == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
				if err := r.ParseForm(); err == nil {
					override = r.PostForm.Get("_method")
				}
			}
			switch m := strings.ToUpper(override); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets conservative browser security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request. The query string is left out
// because it carries the caller's token.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logging.FromContext(r.Context()).Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// Chain wraps h so that the first middleware listed runs first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
