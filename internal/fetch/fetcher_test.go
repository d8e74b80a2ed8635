package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPage_SendsBrowserIdentity(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	f := New("Mozilla/5.0 test-agent", time.Second)
	html, err := f.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if html != "<html></html>" {
		t.Errorf("body = %q", html)
	}
	if gotUA != "Mozilla/5.0 test-agent" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotAccept != "text/html,application/xhtml+xml" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestPage_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := New("test-agent", time.Second)
	_, err := f.Page(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %v is not a fetch error", err)
	}
	if fetchErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", fetchErr.StatusCode)
	}
	if fetchErr.URL != srv.URL {
		t.Errorf("url = %q, want %q", fetchErr.URL, srv.URL)
	}
}

func TestPage_TransportFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := New("test-agent", time.Second)
	_, err := f.Page(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for refused connection")
	}
	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %v is not a fetch error", err)
	}
	if fetchErr.StatusCode != 0 {
		t.Errorf("status = %d, want 0 for transport failure", fetchErr.StatusCode)
	}
}

func TestPage_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	f := New("test-agent", 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Page(ctx, srv.URL)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
