package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"subtrack/internal/client"
	"subtrack/internal/models"
)

func newAPI(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return client.New(srv.URL)
}

func TestLoadDashboardDegradesOnBadShape(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/subscriptions/":
			json.NewEncoder(w).Encode(map[string]interface{}{"items": []int{1, 2}})
		case "/dashboard-summary/":
			json.NewEncoder(w).Encode(client.Summary{TotalMonthlySpend: 0})
		default:
			http.NotFound(w, r)
		}
	})

	var warn bytes.Buffer
	board, err := LoadDashboard(context.Background(), api, &warn, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Subscriptions) != 0 {
		t.Fatalf("expected empty dashboard, got %+v", board.Subscriptions)
	}
	if !strings.Contains(warn.String(), "Warning: unexpected data shape") {
		t.Fatalf("expected visible shape warning, got %q", warn.String())
	}
}

func TestLoadDashboardOtherErrorsAbort(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "boom",
		})
	})

	var warn bytes.Buffer
	if _, err := LoadDashboard(context.Background(), api, &warn, 0, 0); err == nil {
		t.Fatal("expected error for server failure")
	}
}

func TestAddSubscriptionRoundTrip(t *testing.T) {
	var subs []models.SubscriptionView
	var listsAfterCreate int
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/subscriptions/":
			var req client.CreateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode create payload: %v", err)
			}
			monthly := req.Cost
			view := models.SubscriptionView{
				ID:           uint(len(subs) + 1),
				Name:         req.Name,
				Cost:         req.Cost,
				BillingCycle: req.BillingCycle,
				StartDate:    req.StartDate,
				RenewalDate:  "2026-09-15",
				MonthlyCost:  &monthly,
			}
			subs = append(subs, view)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(view)
		case r.Method == http.MethodGet && r.URL.Path == "/subscriptions/":
			if len(subs) > 0 {
				listsAfterCreate++
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"results": subs})
		case r.URL.Path == "/dashboard-summary/":
			json.NewEncoder(w).Encode(client.Summary{TotalMonthlySpend: 10})
		default:
			http.NotFound(w, r)
		}
	})

	var out, warn bytes.Buffer
	err := AddSubscription(context.Background(), api, &out, &warn, client.CreateRequest{
		Name:         "Video",
		Cost:         10,
		BillingCycle: "monthly",
		StartDate:    "2025-08-15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listsAfterCreate == 0 {
		t.Fatal("expected a list re-fetch after the create")
	}
	if !strings.Contains(out.String(), `Created "Video" (id 1)`) {
		t.Fatalf("missing creation confirmation in output: %q", out.String())
	}
	if !strings.Contains(out.String(), "Video") || !strings.Contains(out.String(), "Total monthly spend: 10.00") {
		t.Fatalf("expected re-rendered dashboard with the new subscription: %q", out.String())
	}
}

func TestAddSubscriptionValidatesLocally(t *testing.T) {
	var requests int
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.NotFound(w, r)
	})

	var out, warn bytes.Buffer
	err := AddSubscription(context.Background(), api, &out, &warn, client.CreateRequest{
		Name:         "X",
		Cost:         -1,
		BillingCycle: "weekly",
	})

	var fieldErrs models.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected field errors, got %v", err)
	}
	for _, field := range []string{"name", "cost", "billing_cycle", "start_date"} {
		if len(fieldErrs[field]) == 0 {
			t.Errorf("expected a complaint about %s, got %v", field, fieldErrs)
		}
	}
	if requests != 0 {
		t.Fatalf("invalid form must not reach the server, saw %d requests", requests)
	}
}

func TestChangePriceRoundTrip(t *testing.T) {
	view := models.SubscriptionView{ID: 2, Name: "Music", Cost: 12, BillingCycle: "monthly"}
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/subscriptions/2/update-price/":
			json.NewEncoder(w).Encode(view)
		case "/subscriptions/":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"results": []models.SubscriptionView{view},
			})
		case "/dashboard-summary/":
			json.NewEncoder(w).Encode(client.Summary{TotalMonthlySpend: 12})
		default:
			http.NotFound(w, r)
		}
	})

	var out, warn bytes.Buffer
	if err := ChangePrice(context.Background(), api, &out, &warn, 2, 12, "monthly"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `Updated "Music" to 12.00 (monthly)`) {
		t.Fatalf("missing update confirmation in output: %q", out.String())
	}
	if !strings.Contains(out.String(), "Music") {
		t.Fatalf("expected re-rendered dashboard: %q", out.String())
	}
}

func TestChangePriceValidatesLocally(t *testing.T) {
	var requests int
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.NotFound(w, r)
	})

	var out, warn bytes.Buffer
	err := ChangePrice(context.Background(), api, &out, &warn, 2, 0, "weekly")

	var fieldErrs models.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if len(fieldErrs["cost"]) == 0 || len(fieldErrs["billing_cycle"]) == 0 {
		t.Fatalf("unexpected field errors: %v", fieldErrs)
	}
	if requests != 0 {
		t.Fatalf("invalid form must not reach the server, saw %d requests", requests)
	}
}

func TestRemoveSubscriptionAbortsWithoutConfirmation(t *testing.T) {
	var deletes int
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes++
		}
		http.NotFound(w, r)
	})

	var out, warn bytes.Buffer
	err := RemoveSubscription(context.Background(), api, strings.NewReader("n\n"), &out, &warn, 7, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletes != 0 {
		t.Fatal("declined confirmation must not delete")
	}
	if !strings.Contains(out.String(), "[y/N]") || !strings.Contains(out.String(), "Aborted.") {
		t.Fatalf("expected prompt and abort message: %q", out.String())
	}
}

func TestRemoveSubscriptionConfirmed(t *testing.T) {
	var deletes int
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/subscriptions/7/":
			deletes++
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
		case r.URL.Path == "/subscriptions/":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"results": []models.SubscriptionView{},
			})
		case r.URL.Path == "/dashboard-summary/":
			json.NewEncoder(w).Encode(client.Summary{TotalMonthlySpend: 0})
		default:
			http.NotFound(w, r)
		}
	})

	var out, warn bytes.Buffer
	err := RemoveSubscription(context.Background(), api, strings.NewReader("y\n"), &out, &warn, 7, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletes != 1 {
		t.Fatalf("expected exactly one delete, got %d", deletes)
	}
	if !strings.Contains(out.String(), "Deleted subscription 7") {
		t.Fatalf("missing delete confirmation: %q", out.String())
	}
	if !strings.Contains(out.String(), "No upcoming renewals.") {
		t.Fatalf("expected re-rendered empty dashboard: %q", out.String())
	}
}

func TestRemoveSubscriptionForceSkipsPrompt(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
		case r.URL.Path == "/subscriptions/":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"results": []models.SubscriptionView{},
			})
		case r.URL.Path == "/dashboard-summary/":
			json.NewEncoder(w).Encode(client.Summary{TotalMonthlySpend: 0})
		default:
			http.NotFound(w, r)
		}
	})

	var out, warn bytes.Buffer
	err := RemoveSubscription(context.Background(), api, strings.NewReader(""), &out, &warn, 7, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.String(), "[y/N]") {
		t.Fatalf("force must skip the prompt: %q", out.String())
	}
}

func TestPrintHistoryTable(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions/3/history/" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]models.PriceHistoryView{
			{ID: 1, EffectiveDate: "2025-01-15", Cost: 8},
			{ID: 2, EffectiveDate: "2025-06-15", Cost: 10},
		})
	})

	var out bytes.Buffer
	if err := PrintHistory(context.Background(), api, &out, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Effective", "2025-01-15", "8.00", "2025-06-15", "10.00"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in history output: %q", want, out.String())
		}
	}
}

func TestPrintHistoryEmpty(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.PriceHistoryView{})
	})

	var out bytes.Buffer
	if err := PrintHistory(context.Background(), api, &out, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "No price changes recorded.") {
		t.Fatalf("expected empty-history message: %q", out.String())
	}
}
