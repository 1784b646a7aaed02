package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cyber-phys/hyperplex/pkg/job"
)

func newTestServer(t *testing.T, statuses []string, output any) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("POST /predictions", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req predictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Version != "v1" || req.Input[DefaultInputKey] != "https://docs.example/a.pdf" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "abc",
			"status": "starting",
			"urls":   map[string]string{"get": srv.URL + "/predictions/abc"},
		})
	})
	mux.HandleFunc("GET /predictions/abc", func(w http.ResponseWriter, r *http.Request) {
		n := int(polls.Add(1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		body := map[string]any{"id": "abc", "status": statuses[n]}
		if statuses[n] == "succeeded" {
			body["output"] = output
		}
		if statuses[n] == "failed" {
			body["error"] = "unsupported file"
		}
		json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("GET /output.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("```md\nRecovered text\n```"))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &polls
}

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func TestClientWithPoller(t *testing.T) {
	srv, polls := newTestServer(t, []string{"starting", "processing", "succeeded"}, "```markdown\nHello\n```")
	client := NewClient(NewClientParams{BaseURL: srv.URL, Token: "secret", Version: "v1"})
	poller := job.NewPoller(client, job.Options{Sleep: noSleep})

	out, err := poller.Run(context.Background(), "https://docs.example/a.pdf")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "```markdown\nHello\n```" {
		t.Fatalf("output = %q", out)
	}
	if got := polls.Load(); got != 3 {
		t.Fatalf("expected 3 polls, got %d", got)
	}
}

func TestClientListOutputIsJoined(t *testing.T) {
	srv, _ := newTestServer(t, []string{"succeeded"}, []string{"Hel", "lo"})
	client := NewClient(NewClientParams{BaseURL: srv.URL, Token: "secret", Version: "v1"})

	handle, err := client.Submit(context.Background(), "https://docs.example/a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	res, err := client.Fetch(context.Background(), handle)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != job.StatusSucceeded || res.Output != "Hello" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestClientFailedJob(t *testing.T) {
	srv, _ := newTestServer(t, []string{"processing", "failed"}, nil)
	client := NewClient(NewClientParams{BaseURL: srv.URL, Token: "secret", Version: "v1"})
	poller := job.NewPoller(client, job.Options{Sleep: noSleep})

	_, err := poller.Run(context.Background(), "https://docs.example/a.pdf")
	var jobErr *job.JobError
	if !errors.As(err, &jobErr) {
		t.Fatalf("expected JobError, got %v", err)
	}
	if jobErr.Reason != "unsupported file" {
		t.Fatalf("reason = %q", jobErr.Reason)
	}
}

func TestClientSubmitTransportError(t *testing.T) {
	srv, _ := newTestServer(t, []string{"succeeded"}, "x")
	client := NewClient(NewClientParams{BaseURL: srv.URL, Token: "wrong", Version: "v1"})

	_, err := client.Submit(context.Background(), "https://docs.example/a.pdf")
	if !errors.Is(err, job.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}

	poller := job.NewPoller(client, job.Options{Sleep: noSleep})
	_, err = poller.Run(context.Background(), "https://docs.example/a.pdf")
	if !errors.Is(err, job.ErrSubmission) || !errors.Is(err, job.ErrTransport) {
		t.Fatalf("expected ErrSubmission wrapping ErrTransport, got %v", err)
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(NewClientParams{BaseURL: url, Token: "secret"})
	if _, err := client.Submit(context.Background(), "https://docs.example/a.pdf"); !errors.Is(err, job.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestFetchText(t *testing.T) {
	srv, _ := newTestServer(t, []string{"succeeded"}, nil)
	client := NewClient(NewClientParams{BaseURL: srv.URL, Token: "secret"})

	text, err := client.FetchText(context.Background(), srv.URL+"/output.txt")
	if err != nil {
		t.Fatal(err)
	}
	unwrapped, err := Unwrap(text)
	if err != nil {
		t.Fatal(err)
	}
	if unwrapped != "Recovered text" {
		t.Fatalf("unwrapped = %q", unwrapped)
	}

	if _, err := client.FetchText(context.Background(), srv.URL+"/missing"); !errors.Is(err, job.ErrTransport) {
		t.Fatalf("expected ErrTransport for 404, got %v", err)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/out.txt", true},
		{"http://example.com", true},
		{"  https://example.com/x  ", true},
		{"ftp://example.com/x", false},
		{"# Heading\nhttps://example.com", false},
		{"plain text", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Fatalf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
