// Package payments abstracts the payment processor behind a gateway
// interface. Only the mock processor is implemented; real providers
// (bancontact, ideal, card) plug in behind the same interface.
package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ChargeRequest describes a single payment attempt.
type ChargeRequest struct {
	OrderID     string
	OrderNumber string
	Amount      float64
	Method      string
	// SimulateFailure forces the mock processor to decline.
	SimulateFailure bool
}

// Result is the processor's verdict on a charge.
type Result struct {
	Success       bool
	Message       string
	TransactionID string
}

// Gateway charges an order through a payment processor.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (Result, error)
}

// MockGateway approves every charge unless asked to decline. Transaction
// ids carry a MOCK- prefix so they can never be mistaken for real ones.
type MockGateway struct {
	txnIDGen func() string
}

// NewMockGateway constructs the mock processor.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		txnIDGen: func() string { return fmt.Sprintf("MOCK-%s", uuid.NewString()) },
	}
}

// Charge implements Gateway.
func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (Result, error) {
	if g == nil {
		return Result{}, errors.New("payments: mock gateway not initialised")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.OrderID == "" {
		return Result{}, errors.New("payments: order id is required")
	}
	if req.SimulateFailure {
		return Result{Success: false, Message: "Payment failed"}, nil
	}
	return Result{
		Success:       true,
		Message:       "Payment successful",
		TransactionID: g.txnIDGen(),
	}, nil
}
