package pawapay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/domain/callback"

	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(srv.URL+"/", "tok-123", "ZMB", 2*time.Second)
	c.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return c
}

func TestInitiateDeposit_SendsPawaPayBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/deposits" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			t.Errorf("missing bearer token: %q", r.Header.Get("Authorization"))
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		_, _ = w.Write([]byte(`{"depositId":"d-1","status":"ACCEPTED","created":"2025-03-01T10:00:01Z"}`))
	})

	res, err := c.InitiateDeposit(context.Background(), aggregator.DepositRequest{
		DepositID:   "d-1",
		Amount:      decimal.RequireFromString("15.50"),
		Currency:    "ZMW",
		Provider:    "MTN_MOMO_ZMB",
		PhoneNumber: "260763456789",
		Description: "Investment #42!",
	})
	if err != nil {
		t.Fatalf("InitiateDeposit: %v", err)
	}
	if res.Status != aggregator.Accepted || res.Rejected() {
		t.Fatalf("unexpected result: %+v", res)
	}

	if got["depositId"] != "d-1" || got["amount"] != "15.5" || got["correspondent"] != "MTN_MOMO_ZMB" {
		t.Fatalf("unexpected body: %v", got)
	}
	payer, _ := got["payer"].(map[string]any)
	addr, _ := payer["address"].(map[string]any)
	if payer["type"] != "MSISDN" || addr["value"] != "260763456789" {
		t.Fatalf("unexpected payer: %v", got["payer"])
	}
	if got["customerTimestamp"] != "2025-03-01T10:00:00Z" {
		t.Fatalf("customerTimestamp = %v", got["customerTimestamp"])
	}
	if got["statementDescription"] != "Investment 42" {
		t.Fatalf("statementDescription = %v", got["statementDescription"])
	}
}

func TestInitiatePayout_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payouts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["payoutId"] != "p-1" || body["recipient"] == nil {
			t.Errorf("unexpected body: %v", body)
		}
		_, _ = w.Write([]byte(`{"payoutId":"p-1","status":"REJECTED","rejectionReason":{"rejectionCode":"INVALID_RECIPIENT","rejectionMessage":"bad msisdn"}}`))
	})

	res, err := c.InitiatePayout(context.Background(), aggregator.PayoutRequest{
		PayoutID: "p-1", Amount: decimal.NewFromInt(1000), Currency: "ZMW", Provider: "MTN_MOMO_ZMB", PhoneNumber: "260763456789",
	})
	if err != nil {
		t.Fatalf("InitiatePayout: %v", err)
	}
	if !res.Rejected() || res.RejectionCode != "INVALID_RECIPIENT" || res.RejectionMessage != "bad msisdn" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDo_Non2xxIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessage":"boom"}`, http.StatusInternalServerError)
	})
	_, err := c.InitiateDeposit(context.Background(), aggregator.DepositRequest{DepositID: "d", Amount: decimal.NewFromInt(1)})
	if !errors.Is(err, aggregator.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestDo_TransportErrorIsUnavailable(t *testing.T) {
	c := New("http://127.0.0.1:1", "t", "", 500*time.Millisecond)
	_, err := c.InitiatePayout(context.Background(), aggregator.PayoutRequest{PayoutID: "p", Amount: decimal.NewFromInt(1)})
	if !errors.Is(err, aggregator.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestDepositStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/deposits/known":
			_, _ = w.Write([]byte(`[{"depositId":"known","status":"COMPLETED","requestedAmount":"20","depositedAmount":"19.50","currency":"ZMW","correspondent":"AIRTEL_OAPI_ZMB","payer":{"type":"MSISDN","address":{"value":"260973456789"}},"correspondentIds":{"AIRTEL_INIT":"a1","AIRTEL_FINAL":"a2"}}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	})

	u, err := c.DepositStatus(context.Background(), "known")
	if err != nil {
		t.Fatalf("DepositStatus: %v", err)
	}
	if u.Kind != callback.KindDeposit || u.ID != "known" || u.Status != "COMPLETED" {
		t.Fatalf("unexpected update: %+v", u)
	}
	if !u.Amount.Equal(decimal.RequireFromString("19.50")) {
		t.Fatalf("deposited amount should win, got %s", u.Amount)
	}
	if u.ProviderTransactionID != "a2" || u.PhoneNumber != "260973456789" || len(u.Raw) != 0 {
		t.Fatalf("unexpected update: %+v", u)
	}

	u, err = c.DepositStatus(context.Background(), "unknown")
	if err != nil || u != nil {
		t.Fatalf("unknown id => nil, nil; got %+v, %v", u, err)
	}
}

func TestPayoutStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payouts/p-9" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"payoutId":"p-9","status":"FAILED","amount":"1000","currency":"ZMW","recipient":{"type":"MSISDN","address":{"value":"260763456789"}},"failureReason":{"failureCode":"RECIPIENT_NOT_FOUND","failureMessage":"no wallet"}}]`))
	})
	u, err := c.PayoutStatus(context.Background(), "p-9")
	if err != nil {
		t.Fatalf("PayoutStatus: %v", err)
	}
	if u.Kind != callback.KindPayout || u.ID != "p-9" || u.FailureCode != "RECIPIENT_NOT_FOUND" || u.FailureMessage != "no wallet" {
		t.Fatalf("unexpected update: %+v", u)
	}
}

func TestStatement(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "Estack deposit"},
		{"ab", "Estack deposit"},
		{"Loan for school fees 2025", "Loan for school fees 2"},
		{"Pay*ment", "Payment"},
	}
	for _, tt := range tests {
		if got := statement(tt.in, "Estack deposit"); got != tt.want {
			t.Errorf("statement(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
