package webtransport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDo_ReturnsStatusHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("expected auth header to reach the server, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("X-Request-Id", "req-1")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := &http.Client{}
	resp, err := Do(context.Background(), client, RequestData{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Headers: map[string]string{"Authorization": "Bearer secret"},
		Body:    []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	if resp.Headers.Get("X-Request-Id") != "req-1" {
		t.Fatalf("expected response header to be preserved, got %q", resp.Headers.Get("X-Request-Id"))
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Fatalf("unexpected body: %q", resp.Body)
	}
}

func TestDo_PreservesNonSuccessStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	client := &http.Client{}
	resp, err := Do(context.Background(), client, RequestData{Method: http.MethodPost, URL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Status)
	}
	if string(resp.Body) != `{"error":"bad key"}` {
		t.Fatalf("unexpected body: %q", resp.Body)
	}
}

func TestDoStream_ReturnsLiveBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: hello\n\n"))
	}))
	defer srv.Close()

	client := &http.Client{}
	resp, err := DoStream(context.Background(), client, RequestData{Method: http.MethodGet, URL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if string(body) != "data: hello\n\n" {
		t.Fatalf("unexpected body: %q", body)
	}
}
