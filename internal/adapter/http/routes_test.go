package http

import (
	"context"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"estack-backend/internal/adapter/middleware"
	"estack-backend/internal/domain/aggregator"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var routeSecret = []byte("route-secret")

func newRoutedApp(t *testing.T) (*testApp, *miniredis.Miniredis) {
	t.Helper()
	app := newTestApp(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	Register(app.e, app.h,
		middleware.IdempotencyMiddleware(rdb, time.Minute),
		middleware.AdminJWT(routeSecret))
	return app, mr
}

func serve(app *testApp, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Public(t *testing.T) {
	app, _ := newRoutedApp(t)

	if rec := serve(app, stdhttp.MethodGet, "/", "", nil); rec.Code != stdhttp.StatusOK || rec.Body.String() != "Callback server is running" {
		t.Fatalf("GET /: %d %q", rec.Code, rec.Body.String())
	}
	if rec := serve(app, stdhttp.MethodGet, "/health", "", nil); rec.Code != stdhttp.StatusOK {
		t.Fatalf("GET /health: %d", rec.Code)
	}
	if rec := serve(app, stdhttp.MethodGet, "/deposits/"+depositID, "", nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("GET /deposits/:id: %d", rec.Code)
	}
	if rec := serve(app, stdhttp.MethodGet, "/users/u/notifications", "", nil); rec.Code != stdhttp.StatusOK {
		t.Fatalf("GET notifications: %d", rec.Code)
	}
	if rec := serve(app, stdhttp.MethodPost, "/callback", `{"status":"COMPLETED"}`, nil); rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("POST /callback: %d", rec.Code)
	}
}

func TestRoutes_AdminRequiresToken(t *testing.T) {
	app, _ := newRoutedApp(t)
	app.fundedInvestment(t)
	l, _ := app.requestLoan(t, loanBody())
	target := "/admin/loans/" + l.LoanID + "/approve"

	if rec := serve(app, stdhttp.MethodPost, target, `{}`, nil); rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("no token: %d", rec.Code)
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops-1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(routeSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	rec := serve(app, stdhttp.MethodPost, target, `{}`, map[string]string{"Authorization": "Bearer " + tok})
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"approver_id":"ops-1"`) {
		t.Fatalf("with token: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRoutes_DepositReplay(t *testing.T) {
	app, _ := newRoutedApp(t)
	calls := 0
	app.gw.InitiateDepositFn = func(context.Context, aggregator.DepositRequest) (*aggregator.InitiationResult, error) {
		calls++
		return &aggregator.InitiationResult{Status: aggregator.Accepted}, nil
	}

	body := `{"deposit_id":"` + depositID + `","amount":"50","currency":"ZMW","phone_number":"260763456789","provider":"MTN_MOMO_ZMB"}`
	hdr := map[string]string{middleware.HeaderIdempotencyKey: "0f8fad5b-d9cb-469f-a165-70867728950e"}

	first := serve(app, stdhttp.MethodPost, "/deposits", body, hdr)
	if first.Code != stdhttp.StatusAccepted {
		t.Fatalf("first: %d %s", first.Code, first.Body.String())
	}
	second := serve(app, stdhttp.MethodPost, "/deposits", body, hdr)
	if second.Code != stdhttp.StatusAccepted || second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("replay: %d headers=%v", second.Code, second.Header())
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body differs")
	}
	if calls != 1 {
		t.Fatalf("aggregator called %d times, want 1", calls)
	}

	// without the header the duplicate id is a conflict
	if rec := serve(app, stdhttp.MethodPost, "/deposits", body, nil); rec.Code != stdhttp.StatusConflict {
		t.Fatalf("no key: %d", rec.Code)
	}
}
