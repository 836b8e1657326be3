package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/engineers/internal/handler"
	"github.com/msomdec/engineers/internal/repository/sqlite"
	"github.com/msomdec/engineers/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testApp struct {
	srv    *httptest.Server
	db     *sqlite.DB
	tokens *service.TokenService
	client *http.Client
}

func newTestApp(t *testing.T, enforceOwnership bool) *testApp {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := service.NewTokenService(testJWTSecret, 0)
	auth := service.NewAuthService(db.Users(), tokens, 4)
	engineers := service.NewEngineerService(db.Engineers(), db.Users(), enforceOwnership)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, engineers, db)

	srv := httptest.NewServer(handler.Chain(mux, handler.SecurityHeaders, handler.MethodOverride))
	t.Cleanup(srv.Close)

	return &testApp{
		srv:    srv,
		db:     db,
		tokens: tokens,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse // don't follow redirects automatically
			},
		},
	}
}

// do sends a request with body encoded as a form for url.Values and as
// JSON otherwise. A non-empty token goes in the Authorization header.
func (a *testApp) do(t *testing.T, method, path, token string, body any) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	case string:
		reader = strings.NewReader(b)
		contentType = "application/json"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(data)
}

func (a *testApp) register(t *testing.T, name, email string) handler.AuthResponse {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var out handler.AuthResponse
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return out
}

func assertNotAuthorized(t *testing.T, resp *http.Response, body string) {
	t.Helper()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, body)
	}
	if body != "Not authorized" {
		t.Fatalf("expected body %q, got %q", "Not authorized", body)
	}
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	app := newTestApp(t, false)
	reg := app.register(t, "Valid User", "valid@example.com")

	resp, body := app.do(t, http.MethodGet, "/api/users/profile", reg.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var out struct {
		User handler.UserDTO `json:"user"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.User.Name != "Valid User" {
		t.Fatalf("expected user 'Valid User', got %q", out.User.Name)
	}
}

func TestAuthenticate_QueryToken(t *testing.T) {
	app := newTestApp(t, false)
	reg := app.register(t, "Query User", "query@example.com")

	resp, body := app.do(t, http.MethodGet, "/api/users/profile?token="+url.QueryEscape(reg.Token), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	app := newTestApp(t, false)
	reg := app.register(t, "Someone", "someone@example.com")

	forged := service.NewTokenService("a-different-secret-that-is-long-enough", 0)
	forgedToken, err := forged.Issue(reg.User.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	ghostToken, err := app.tokens.Issue("no-such-user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Token " + reg.Token},
		{"empty bearer", "Bearer "},
		{"garbage", "Bearer not-a-jwt"},
		{"wrong signature", "Bearer " + forgedToken},
		{"unknown user", "Bearer " + ghostToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, app.srv.URL+"/api/engineers", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.client.Do(req)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			assertNotAuthorized(t, resp, string(body))
		})
	}
}

func TestAuthenticate_PageRouteWithoutToken(t *testing.T) {
	app := newTestApp(t, false)

	resp, body := app.do(t, http.MethodGet, "/engineers", "", nil)
	assertNotAuthorized(t, resp, body)
}

func TestAuthenticate_EveryGatedRouteWithoutToken(t *testing.T) {
	app := newTestApp(t, false)
	const id = "some-engineer-id"

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/users/profile", nil},
		{http.MethodPut, "/api/users/" + id, map[string]string{"name": "x"}},
		{http.MethodDelete, "/api/users/" + id, nil},
		{http.MethodGet, "/api/engineers", nil},
		{http.MethodPost, "/api/engineers", map[string]string{"name": "x"}},
		{http.MethodGet, "/api/engineers/" + id, nil},
		{http.MethodPut, "/api/engineers/" + id, map[string]string{"name": "x"}},
		{http.MethodDelete, "/api/engineers/" + id, nil},
		{http.MethodGet, "/engineers", nil},
		{http.MethodGet, "/engineers/new", nil},
		{http.MethodPost, "/engineers", url.Values{"name": {"x"}}},
		{http.MethodGet, "/engineers/" + id, nil},
		{http.MethodGet, "/engineers/" + id + "/edit", nil},
		{http.MethodPut, "/engineers/" + id, url.Values{"name": {"x"}}},
		{http.MethodPatch, "/engineers/" + id, url.Values{"name": {"x"}}},
		{http.MethodDelete, "/engineers/" + id, nil},
		{http.MethodPost, "/engineers/" + id + "?_method=PUT", url.Values{"name": {"x"}}},
		{http.MethodPost, "/engineers/" + id + "?_method=DELETE", nil},
		{http.MethodPost, "/engineers/" + id, url.Values{"_method": {"DELETE"}}},
		{http.MethodPost, "/engineers/" + id, url.Values{"_method": {"PATCH"}, "name": {"x"}}},
		{http.MethodGet, "/engineers/grid", nil},
		{http.MethodDelete, "/engineers/" + id + "/card", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, body := app.do(t, tt.method, tt.path, "", tt.body)
			assertNotAuthorized(t, resp, body)
		})
	}
}

func TestMethodOverride(t *testing.T) {
	var got string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Method
	})
	h := handler.MethodOverride(inner)

	tests := []struct {
		name   string
		method string
		target string
		form   string
		want   string
	}{
		{"query put", http.MethodPost, "/x?_method=PUT", "", http.MethodPut},
		{"query lowercase delete", http.MethodPost, "/x?_method=delete", "", http.MethodDelete},
		{"form patch", http.MethodPost, "/x", "_method=PATCH&name=a", http.MethodPatch},
		{"unsupported", http.MethodPost, "/x?_method=TRACE", "", http.MethodPost},
		{"get ignored", http.MethodGet, "/x?_method=DELETE", "", http.MethodGet},
		{"plain post", http.MethodPost, "/x", "name=a", http.MethodPost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = ""
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.form))
			if tt.form != "" {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMethodOverride_FormStillReadable(t *testing.T) {
	var name string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name = r.PostFormValue("name")
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("_method=PUT&name=Ada"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.MethodOverride(inner).ServeHTTP(httptest.NewRecorder(), req)

	if name != "Ada" {
		t.Fatalf("expected form value Ada after override, got %q", name)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	handler.Chain(inner, mw("first"), mw("second")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler.SecurityHeaders(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY, got %q", got)
	}
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler.RequestLogger(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?token=secret", nil))

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", w.Code)
	}
}

