package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"iontrap-job-client/internal/domain"
	"iontrap-job-client/internal/domain/model"
)

func bellCircuit() *model.StaticCircuit {
	return &model.StaticCircuit{
		NumQubits: 2,
		Gates: []model.Operation{
			{Gate: "Hadamard", Wires: []int{0}},
			{Gate: "CNOT", Wires: []int{0, 1}},
		},
	}
}

func TestNewClient(t *testing.T) {
	t.Run("rejects empty api key before any network call", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}))
		defer srv.Close()

		c, err := NewClient("", srv.URL)
		if err == nil {
			t.Fatal("expected an error for empty api key, but got nil")
		}
		if c != nil {
			t.Error("expected client to be nil on error")
		}
		if !errors.Is(err, domain.ErrAuthentication) {
			t.Errorf("expected error to be ErrAuthentication, but got %v", err)
		}
		if atomic.LoadInt32(&hits) != 0 {
			t.Errorf("expected no network calls, server saw %d", hits)
		}
	})

	t.Run("defaults base URL when empty", func(t *testing.T) {
		c, err := NewClient("SOME_API_KEY", "")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if c.base != defaultBaseURL {
			t.Errorf("expected base %s, got %s", defaultBaseURL, c.base)
		}
	})
}

func TestSubmitJob(t *testing.T) {
	ctx := context.Background()

	t.Run("posts program and returns handle", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/job" {
				t.Errorf("expected path /job, got %s", r.URL.Path)
			}
			if got := r.Header.Get("x-api-key"); got != "SOME_API_KEY" {
				t.Errorf("expected x-api-key header, got %q", got)
			}

			var body submitRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decoding request body: %v", err)
			}
			if body.Machine != "HQS-LT-1.0" || body.Count != 100 {
				t.Errorf("unexpected submission fields: %+v", body)
			}
			if body.Language != "OPENQASM 2.0" {
				t.Errorf("expected language OPENQASM 2.0, got %q", body.Language)
			}
			if !strings.HasPrefix(body.Program, "OPENQASM 2.0;") {
				t.Errorf("expected an OpenQASM program, got %q", body.Program)
			}

			_ = json.NewEncoder(w).Encode(map[string]string{
				"job":    "bf668869b6b74909a7e1fad2d7a0f932",
				"status": "queued",
			})
		}))
		defer srv.Close()

		c, _ := NewClient("SOME_API_KEY", srv.URL)
		handle, err := c.SubmitJob(ctx, bellCircuit(), 100, "HQS-LT-1.0")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if handle != "bf668869b6b74909a7e1fad2d7a0f932" {
			t.Errorf("unexpected handle %q", handle)
		}
	})

	t.Run("maps HTTP status codes to the error taxonomy", func(t *testing.T) {
		testCases := []struct {
			name string
			code int
			want error
		}{
			{"unauthorized", http.StatusUnauthorized, domain.ErrAuthentication},
			{"forbidden", http.StatusForbidden, domain.ErrAuthentication},
			{"bad request", http.StatusBadRequest, domain.ErrValidation},
			{"unprocessable", http.StatusUnprocessableEntity, domain.ErrValidation},
			{"server error", http.StatusInternalServerError, domain.ErrTransport},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, tc.name, tc.code)
				}))
				defer srv.Close()

				c, _ := NewClient("SOME_API_KEY", srv.URL)
				_, err := c.SubmitJob(ctx, bellCircuit(), 100, "HQS-LT-1.0")
				if !errors.Is(err, tc.want) {
					t.Errorf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})

	t.Run("rejects malformed submissions before any network call", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}))
		defer srv.Close()
		c, _ := NewClient("SOME_API_KEY", srv.URL)

		if _, err := c.SubmitJob(ctx, bellCircuit(), 0, "HQS-LT-1.0"); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("zero shots: expected ErrValidation, got %v", err)
		}
		if _, err := c.SubmitJob(ctx, bellCircuit(), 100, ""); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("empty machine: expected ErrValidation, got %v", err)
		}
		bad := &model.StaticCircuit{NumQubits: 1, Gates: []model.Operation{{Gate: "Nope", Wires: []int{0}}}}
		if _, err := c.SubmitJob(ctx, bad, 100, "HQS-LT-1.0"); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("unsupported gate: expected ErrValidation, got %v", err)
		}
		if atomic.LoadInt32(&hits) != 0 {
			t.Errorf("expected no network calls, server saw %d", hits)
		}
	})

	t.Run("network failure maps to ErrTransport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse connections

		c, _ := NewClient("SOME_API_KEY", srv.URL)
		_, err := c.SubmitJob(ctx, bellCircuit(), 100, "HQS-LT-1.0")
		if !errors.Is(err, domain.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("response without handle maps to ErrTransport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
		}))
		defer srv.Close()

		c, _ := NewClient("SOME_API_KEY", srv.URL)
		_, err := c.SubmitJob(ctx, bellCircuit(), 100, "HQS-LT-1.0")
		if !errors.Is(err, domain.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}

func TestJobStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("returns snapshot with results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			if r.URL.Path != "/job/abc123" {
				t.Errorf("expected path /job/abc123, got %s", r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"job":    "abc123",
				"status": "completed",
				"results": map[string]any{
					"c": []string{"00", "11", "00"},
				},
			})
		}))
		defer srv.Close()

		c, _ := NewClient("SOME_API_KEY", srv.URL)
		snap, err := c.JobStatus(ctx, "abc123")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if snap.Status != model.JobStatusCompleted {
			t.Errorf("expected status completed, got %s", snap.Status)
		}
		if snap.Result == nil || snap.Result.Len() != 3 {
			t.Fatalf("expected 3 bitstrings, got %+v", snap.Result)
		}
	})

	t.Run("passes through unrecognized status strings", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"job": "abc123", "status": "unknown_state"})
		}))
		defer srv.Close()

		c, _ := NewClient("SOME_API_KEY", srv.URL)
		snap, err := c.JobStatus(ctx, "abc123")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if snap.Status.Terminal() {
			t.Error("unrecognized status must not be terminal")
		}
	})

	t.Run("unknown handle maps to ErrNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		c, _ := NewClient("SOME_API_KEY", srv.URL)
		_, err := c.JobStatus(ctx, "nope")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("carries the vendor failure reason", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{
				"job":           "abc123",
				"status":        "failed",
				"error-message": "machine offline",
			})
		}))
		defer srv.Close()

		c, _ := NewClient("SOME_API_KEY", srv.URL)
		snap, err := c.JobStatus(ctx, "abc123")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if snap.Reason != "machine offline" {
			t.Errorf("expected vendor reason, got %q", snap.Reason)
		}
	})
}
