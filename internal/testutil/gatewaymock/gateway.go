package gatewaymock

import (
	"context"
	"errors"

	"estack-backend/internal/domain/aggregator"
)

var _ aggregator.Gateway = (*Gateway)(nil)

var errUnimplemented = errors.New("gatewaymock: method not implemented")

// Gateway is a function-backed aggregator.Gateway.
type Gateway struct {
	InitiateDepositFn func(ctx context.Context, req aggregator.DepositRequest) (*aggregator.InitiationResult, error)
	InitiatePayoutFn  func(ctx context.Context, req aggregator.PayoutRequest) (*aggregator.InitiationResult, error)
	DepositStatusFn   func(ctx context.Context, depositID string) (*aggregator.Update, error)
	PayoutStatusFn    func(ctx context.Context, payoutID string) (*aggregator.Update, error)
}

func (g *Gateway) InitiateDeposit(ctx context.Context, req aggregator.DepositRequest) (*aggregator.InitiationResult, error) {
	if g.InitiateDepositFn != nil {
		return g.InitiateDepositFn(ctx, req)
	}
	return nil, errUnimplemented
}
func (g *Gateway) InitiatePayout(ctx context.Context, req aggregator.PayoutRequest) (*aggregator.InitiationResult, error) {
	if g.InitiatePayoutFn != nil {
		return g.InitiatePayoutFn(ctx, req)
	}
	return nil, errUnimplemented
}
func (g *Gateway) DepositStatus(ctx context.Context, depositID string) (*aggregator.Update, error) {
	if g.DepositStatusFn != nil {
		return g.DepositStatusFn(ctx, depositID)
	}
	return nil, errUnimplemented
}
func (g *Gateway) PayoutStatus(ctx context.Context, payoutID string) (*aggregator.Update, error) {
	if g.PayoutStatusFn != nil {
		return g.PayoutStatusFn(ctx, payoutID)
	}
	return nil, errUnimplemented
}

// Accepting answers every initiation with ACCEPTED.
func Accepting() *Gateway {
	ok := func() (*aggregator.InitiationResult, error) {
		return &aggregator.InitiationResult{Status: aggregator.Accepted}, nil
	}
	return &Gateway{
		InitiateDepositFn: func(context.Context, aggregator.DepositRequest) (*aggregator.InitiationResult, error) { return ok() },
		InitiatePayoutFn:  func(context.Context, aggregator.PayoutRequest) (*aggregator.InitiationResult, error) { return ok() },
	}
}
