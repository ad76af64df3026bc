package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadAndRemove(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.EscapedPath())
		if r.Header.Get("apikey") != "k" {
			t.Errorf("missing apikey header")
		}
		if r.Method == http.MethodDelete {
			b, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(b), `"u1/a b.png"`) {
				t.Errorf("remove body=%s", b)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, APIKey: "k", Bucket: "screenshots"}
	if err := c.Upload(context.Background(), "u1/a b.png", "image/png", []byte("png")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := c.Remove(context.Background(), []string{"u1/a b.png"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []string{
		"POST /storage/v1/object/screenshots/u1/a%20b.png",
		"DELETE /storage/v1/object/screenshots",
	}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("calls=%v want %v", calls, want)
	}
}

func TestUpload_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too large", http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()
	c := &Client{BaseURL: srv.URL, APIKey: "k", Bucket: "b"}
	if err := c.Upload(context.Background(), "x.png", "", []byte("x")); err == nil {
		t.Fatalf("expected error")
	}
}
