package email

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend_PostsAttachmentAsBase64(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("auth header=%q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL + "/", APIKey: "k", From: "Journal <r@example.com>"}
	id, err := c.Send(context.Background(), Message{
		To:          []string{"a@example.com", " "},
		Subject:     "Weekly report",
		HTML:        "<p>hi</p>",
		Attachments: []Attachment{{Filename: "r.xlsx", Content: []byte("xlsx")}},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != "msg_1" {
		t.Fatalf("id=%q", id)
	}
	if len(got.To) != 1 || got.From != "Journal <r@example.com>" {
		t.Fatalf("request=%+v", got)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Content != base64.StdEncoding.EncodeToString([]byte("xlsx")) {
		t.Fatalf("attachments=%+v", got.Attachments)
	}
}

func TestSend_SurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"bad from"}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, APIKey: "k"}
	_, err := c.Send(context.Background(), Message{To: []string{"a@example.com"}})
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("err=%v want HTTPError 422", err)
	}
}

func TestSend_Unconfigured(t *testing.T) {
	if _, err := (&Client{}).Send(context.Background(), Message{To: []string{"a@example.com"}}); err == nil {
		t.Fatalf("expected error without api key")
	}
}
