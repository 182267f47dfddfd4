package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofrs/uuid"
)

func Test_requestIDMiddlewareHeaderExists(t *testing.T) {
	api := &API{}
	wantID := "test-req-id-123"
	handler := api.requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ := r.Context().Value(RequestIDKey).(string)
		if gotID != wantID {
			t.Errorf("want request id in context %q, got %q", wantID, gotID)
		}
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", wantID)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("want status code %v, got %v", http.StatusOK, rr.Code)
	}
	got := rr.Header().Get("X-Request-Id")
	if got != wantID {
		t.Errorf("want X-Request-Id header %q, got %q", wantID, got)
	}
}

func Test_requestIDMiddlewareHeaderNotExists(t *testing.T) {
	api := &API{}
	handler := api.requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ := r.Context().Value(RequestIDKey).(string)
		if gotID == "" {
			t.Error("want non-empty request id in context when header is missing")
		}
		respID := w.Header().Get("X-Request-Id")
		if respID == "" {
			t.Error("want non-empty X-Request-Id header when header is missing")
		}
		// Generated IDs must be valid UUIDs.
		_, err := uuid.FromString(respID)
		if err != nil {
			t.Errorf("want valid UUID for generated request id, got %q", respID)
		}
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("want status code %v, got %v", http.StatusOK, rr.Code)
	}
}

func Test_getClientIP(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		remote    string
		want      string
	}{
		{name: "Forwarded header set", forwarded: "203.0.113.7", remote: "10.0.0.1:1234", want: "203.0.113.7"},
		{name: "Fallback to remote addr", forwarded: "", remote: "10.0.0.1:1234", want: "10.0.0.1:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("want client ip %q, got %q", tt.want, got)
			}
		})
	}
}

func Test_shorten(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "abc", want: "abc"},
		{in: "abcdef", want: "abcdef"},
		{in: "abcdefgh", want: "abcdef..."},
	}

	for _, tt := range tests {
		if got := shorten(tt.in); got != tt.want {
			t.Errorf("shorten(%q): want %q, got %q", tt.in, tt.want, got)
		}
	}
}
