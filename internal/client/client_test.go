package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"subtrack/internal/models"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestListBareArray(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]models.SubscriptionView{
			{ID: 1, Name: "Video", Cost: 10, BillingCycle: "monthly"},
		})
	})

	subs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subs) != 1 || subs[0].Name != "Video" {
		t.Fatalf("unexpected result: %+v", subs)
	}
}

func TestListResultsWrapped(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []models.SubscriptionView{
				{ID: 1, Name: "Video"},
				{ID: 2, Name: "Music"},
			},
		})
	})

	subs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(subs))
	}
}

func TestListDataShapeError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"items": []int{1, 2}})
	})

	_, err := c.List(context.Background())
	var shapeErr *DataShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected DataShapeError, got %v", err)
	}
}

func TestValidationErrorDecoding(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "validation failed",
			"errors": map[string][]string{
				"cost": {"cost must be positive"},
			},
		})
	})

	_, err := c.Create(context.Background(), CreateRequest{Name: "Video", Cost: -1})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if msgs := valErr.Fields["cost"]; len(msgs) != 1 || msgs[0] != "cost must be positive" {
		t.Fatalf("unexpected field errors: %v", valErr.Fields)
	}
}

func TestNotFoundError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Subscription not found",
		})
	})

	err := c.Delete(context.Background(), 42)
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := New(srv.URL)
	srv.Close() // connection refused from here on

	_, err := c.List(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestCreateSendsPayloadAndAPIKey(t *testing.T) {
	var gotKey string
	var gotBody CreateRequest
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.SubscriptionView{ID: 1, Name: gotBody.Name})
	}).WithAPIKey("secret")

	view, err := c.Create(context.Background(), CreateRequest{
		Name:         "Video",
		Cost:         10,
		BillingCycle: "monthly",
		StartDate:    "2025-01-15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "secret" {
		t.Fatalf("API key not sent, got %q", gotKey)
	}
	if gotBody.Cost != 10 || gotBody.StartDate != "2025-01-15" {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
	if view.ID != 1 {
		t.Fatalf("unexpected response view: %+v", view)
	}
}

func TestHistoryAndSummary(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/subscriptions/3/history/":
			json.NewEncoder(w).Encode([]models.PriceHistoryView{
				{ID: 1, EffectiveDate: "2025-01-15", Cost: 8},
				{ID: 2, EffectiveDate: "2025-06-15", Cost: 10},
			})
		case "/dashboard-summary/":
			json.NewEncoder(w).Encode(Summary{TotalMonthlySpend: 25.5})
		default:
			http.NotFound(w, r)
		}
	})

	history, err := c.History(context.Background(), 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Cost != 8 {
		t.Fatalf("unexpected history: %+v", history)
	}

	summary, err := c.DashboardSummary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalMonthlySpend != 25.5 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
