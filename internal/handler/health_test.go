package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestHandleHealthz(t *testing.T) {
	app := newTestApp(t, false)

	resp, body := app.do(t, http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %s", contentType)
	}

	var out map[string]string
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out["status"] != "ok" {
		t.Fatalf("expected status=ok, got %s", out["status"])
	}
}

func TestHandleHealthz_StoreDown(t *testing.T) {
	app := newTestApp(t, false)
	app.db.Close()

	resp, _ := app.do(t, http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}
