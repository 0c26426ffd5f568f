package opsapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
)

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := NewHTTPClient(server.URL, logger)
	if err != nil {
		t.Fatalf("client construction failed: %v", err)
	}
	return client
}

func TestNewHTTPClientRejectsRelativeURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewHTTPClient("not-a-url", logger); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestClientRules(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/rules" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":3,"customer_id":9,"type":"weekly","days":[1,3],"time":"09:00","cans":2,"priority":"normal","next_run":"2024-05-20T04:00:00Z"}]`))
	}))

	rules, err := client.Rules(context.Background())
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(rules))
	}
	rule := rules[0]
	if rule.ID != 3 || rule.Type != model.RuleWeekly || len(rule.Days) != 2 {
		t.Fatalf("rule decoded wrong: %+v", rule)
	}
	if rule.NextRun == nil || !rule.NextRun.Equal(time.Date(2024, 5, 20, 4, 0, 0, 0, time.UTC)) {
		t.Fatalf("next run decoded wrong: %v", rule.NextRun)
	}
}

func TestClientCreateRequest(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/requests" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":11,"customer_id":9,"cans":2,"priority":"normal","status":"pending"}`))
	}))

	created, err := client.CreateRequest(context.Background(), 9, 2, model.PriorityNormal)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 11 || created.Status != model.StatusPending {
		t.Fatalf("request decoded wrong: %+v", created)
	}
}

func TestClientCreateRequestConflict(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"customer already has an active request","existing_id":41,"existing_status":"processing"}`))
	}))

	_, err := client.CreateRequest(context.Background(), 9, 2, model.PriorityNormal)
	var dup *domainErrors.DuplicateActiveRequestError
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if dup.ExistingID != 41 || dup.ExistingStatus != "processing" {
		t.Fatalf("conflict details wrong: %+v", dup)
	}
}

func TestClientCreateRequestRateLimited(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.CreateRequest(context.Background(), 9, 2, model.PriorityNormal)
	if !errors.Is(err, domainErrors.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	var tooMany TooManyRequestsError
	if !errors.As(err, &tooMany) {
		t.Fatalf("expected typed rate limit error, got %v", err)
	}
	if tooMany.RetryAfter != 7*time.Second {
		t.Fatalf("retry after = %v, want 7s", tooMany.RetryAfter)
	}
}

func TestClientAdvanceRule(t *testing.T) {
	t.Run("recurring", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/rules/5/advance" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{"id":5}`))
		}))
		if err := client.AdvanceRule(context.Background(), 5); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	})

	t.Run("one_time deleted", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		if err := client.AdvanceRule(context.Background(), 5); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	})

	t.Run("missing rule", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		if err := client.AdvanceRule(context.Background(), 5); !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
