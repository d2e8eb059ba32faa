package gatewaymock

import (
	"context"
	"errors"
	"testing"

	"estack-backend/internal/domain/aggregator"
)

func TestGateway_Defaults(t *testing.T) {
	g := &Gateway{}
	ctx := context.Background()
	if _, err := g.InitiateDeposit(ctx, aggregator.DepositRequest{}); !errors.Is(err, errUnimplemented) {
		t.Fatalf("InitiateDeposit default: %v", err)
	}
	if _, err := g.PayoutStatus(ctx, "p"); !errors.Is(err, errUnimplemented) {
		t.Fatalf("PayoutStatus default: %v", err)
	}
}

func TestAccepting(t *testing.T) {
	g := Accepting()
	res, err := g.InitiatePayout(context.Background(), aggregator.PayoutRequest{PayoutID: "p"})
	if err != nil || res.Status != aggregator.Accepted {
		t.Fatalf("InitiatePayout = %+v, %v", res, err)
	}
}
