package http

import (
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"testing"

	"estack-backend/internal/domain/callback"
	"estack-backend/internal/domain/transaction"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func postCallback(t *testing.T, app *testApp, handler echo.HandlerFunc, body string) (int, callbackResp) {
	t.Helper()
	c, rec := newContext(app.e, stdhttp.MethodPost, "/callback", strings.NewReader(body))
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp callbackResp
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status == "" {
		var er ErrorResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &er)
		resp.Message = er.Error
	}
	return rec.Code, resp
}

func TestCallback_MissingFields(t *testing.T) {
	app := newTestApp(t)
	code, resp := postCallback(t, app, app.h.Callbacks.Receive, `{"amount":"100"}`)
	if code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if resp.Message != "Missing fields: depositId, status" {
		t.Fatalf("message = %q", resp.Message)
	}

	code, resp = postCallback(t, app, app.h.Callbacks.ReceivePayout, `{"status":"COMPLETED"}`)
	if code != stdhttp.StatusBadRequest || resp.Message != "Missing fields: payoutId" {
		t.Fatalf("got %d %q", code, resp.Message)
	}

	code, resp = postCallback(t, app, app.h.Callbacks.Receive, `{"transaction_id":"t-9","status":"SUCCESSFUL"}`)
	if code != stdhttp.StatusBadRequest || resp.Message != "Missing fields: amount, currency" {
		t.Fatalf("legacy shape: got %d %q", code, resp.Message)
	}
}

func TestCallback_InvalidJSON(t *testing.T) {
	app := newTestApp(t)
	for _, body := range []string{`not json`, `[1,2]`, `{"depositId":`} {
		code, resp := postCallback(t, app, app.h.Callbacks.Receive, body)
		if code != stdhttp.StatusBadRequest {
			t.Fatalf("%q: status = %d, want 400", body, code)
		}
		if resp.Message != "invalid JSON payload" {
			t.Fatalf("%q: message = %q", body, resp.Message)
		}
	}
}

func TestCallback_CompletesPendingDeposit(t *testing.T) {
	app := newTestApp(t)
	app.initiate(t, depositBody())

	body := `{"depositId":"` + depositID + `","status":"COMPLETED","depositedAmount":"1500","currency":"ZMW",
		"correspondent":"MTN_MOMO_ZMB","correspondentIds":{"MTN_FINAL":"MP-77"}}`
	code, resp := postCallback(t, app, app.h.Callbacks.ReceiveDeposit, body)
	if code != stdhttp.StatusOK || resp != received {
		t.Fatalf("got %d %+v", code, resp)
	}

	var stored transaction.Transaction
	app.db.Where("deposit_id = ?", depositID).First(&stored)
	if stored.Status != transaction.StatusCompleted || stored.ProviderTransactionID != "MP-77" {
		t.Fatalf("unexpected record: %+v", stored)
	}

	// a late FAILED callback leaves the record alone
	late := `{"depositId":"` + depositID + `","status":"FAILED","failureReason":{"failureCode":"X","failureMessage":"late"}}`
	if code, _ := postCallback(t, app, app.h.Callbacks.Receive, late); code != stdhttp.StatusOK {
		t.Fatalf("late callback status = %d", code)
	}
	app.db.Where("deposit_id = ?", depositID).First(&stored)
	if stored.Status != transaction.StatusCompleted || stored.FailureCode != "" {
		t.Fatalf("terminal record overwritten: %+v", stored)
	}

	var events []callback.Event
	app.db.Where("external_id = ?", depositID).Find(&events)
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
}

func TestCallback_UnknownDepositIsCreated(t *testing.T) {
	app := newTestApp(t)
	const legacyID = "3d2c1b0a-9f8e-4d7c-8b6a-5f4e3d2c1b0a"
	body := `{"transaction_id":"` + legacyID + `","status":"SUCCESSFUL","amount":"250.50","currency":"GHS"}`
	code, resp := postCallback(t, app, app.h.Callbacks.Receive, body)
	if code != stdhttp.StatusOK || resp != received {
		t.Fatalf("got %d %+v", code, resp)
	}

	var stored transaction.Transaction
	if err := app.db.Where("deposit_id = ?", legacyID).First(&stored).Error; err != nil {
		t.Fatalf("not created: %v", err)
	}
	if stored.Status != transaction.StatusCompleted || !stored.Amount.Equal(decimal.RequireFromString("250.50")) {
		t.Fatalf("unexpected record: %+v", stored)
	}
}

func TestCallback_Ignored(t *testing.T) {
	app := newTestApp(t)

	// unknown deposit without an amount cannot be created
	code, resp := postCallback(t, app, app.h.Callbacks.ReceiveDeposit, `{"depositId":"`+depositID+`","status":"COMPLETED"}`)
	if code != stdhttp.StatusOK || resp.Status != "ignored" {
		t.Fatalf("deposit: got %d %+v", code, resp)
	}

	code, resp = postCallback(t, app, app.h.Callbacks.Receive, `{"payoutId":"5b0b2f5e-9d7c-4d4a-9a43-3f1c1d2e8a10","status":"COMPLETED"}`)
	if code != stdhttp.StatusOK || resp.Status != "ignored" {
		t.Fatalf("payout: got %d %+v", code, resp)
	}

	// both payloads are still on record
	var n int64
	app.db.Model(&callback.Event{}).Count(&n)
	if n != 2 {
		t.Fatalf("events = %d, want 2", n)
	}
}

func TestCallbackEvents(t *testing.T) {
	app := newTestApp(t)
	postCallback(t, app, app.h.Callbacks.Receive, `{"depositId":"`+depositID+`","status":"COMPLETED","amount":"10"}`)

	c, rec := newContext(app.e, stdhttp.MethodGet, "/admin/callbacks/"+depositID, nil, "external_id", depositID)
	if err := app.h.Callbacks.Events(c); err != nil {
		t.Fatalf("Events error: %v", err)
	}
	var list []callback.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(list) != 1 || list[0].Kind != callback.KindDeposit || !strings.Contains(list[0].Payload, `"COMPLETED"`) {
		t.Fatalf("unexpected events: %+v", list)
	}

	c, rec = newContext(app.e, stdhttp.MethodGet, "/admin/callbacks/none", nil, "external_id", "none")
	_ = app.h.Callbacks.Events(c)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("want empty array, got %s", rec.Body.String())
	}
}
