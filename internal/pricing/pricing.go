// Package pricing computes the amount owed for a seasonal registration and
// the payment progress derived from it. The whole package is a pure
// read-time projection: it never mutates stored state, and every call
// re-derives its figures from the record values it is given.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/mbertho/judoclub/internal/model"
)

var (
	// ErrMissingCategory is returned when a registration has no resolved
	// category. A price of zero must never be silently assumed: that would
	// mask a misconfiguration as a free registration.
	ErrMissingCategory = errors.New("registration has no category")
	// ErrInvalidBasePrice is returned when the category base price is
	// negative.
	ErrInvalidBasePrice = errors.New("category base price is invalid")
)

// SiblingSource counts the validated registrations that share a guardian
// and a season. The repository implements it with a read-only query.
type SiblingSource interface {
	CountValidatedSiblings(ctx context.Context, guardianID, seasonID, excludeRegistrationID int64) (int, error)
}

// Engine resolves family ranks and computes price breakdowns and payment
// progress for registrations. It is stateless and safe for concurrent use.
type Engine struct {
	siblings SiblingSource
}

// NewEngine creates a pricing engine backed by the given sibling source.
func NewEngine(siblings SiblingSource) *Engine {
	return &Engine{siblings: siblings}
}

// ResolveRank returns the 1-based family rank of the registration among the
// validated registrations of the same guardian in the same season, ordered
// by creation time.
//
// The registration's own status is ignored: a PENDING registration is
// ranked as if it were being validated, so guardians see the discounted
// price before staff validate. Members without a guardian always rank
// first.
func (e *Engine) ResolveRank(ctx context.Context, reg *model.Registration) (int, error) {
	if reg.GuardianID == nil {
		return 1, nil
	}

	count, err := e.siblings.CountValidatedSiblings(ctx, *reg.GuardianID, reg.SeasonID, reg.ID)
	if err != nil {
		return 0, fmt.Errorf("count validated siblings: %w", err)
	}

	return count + 1, nil
}

// ComputeBreakdown resolves the registration's family rank and composes its
// price breakdown.
func (e *Engine) ComputeBreakdown(ctx context.Context, reg *model.Registration) (*Breakdown, error) {
	rank, err := e.ResolveRank(ctx, reg)
	if err != nil {
		return nil, err
	}

	return ComposePrice(reg, rank)
}

// ComputePaymentProgress computes the registration's price breakdown and
// derives how much of it has been paid.
func (e *Engine) ComputePaymentProgress(ctx context.Context, reg *model.Registration) (*Progress, error) {
	b, err := e.ComputeBreakdown(ctx, reg)
	if err != nil {
		return nil, err
	}

	installments, err := NewInstallmentCount(reg.InstallmentsPaid)
	if err != nil {
		return nil, fmt.Errorf("registration %d: %w", reg.ID, err)
	}

	p := PaymentProgress(b.FinalPrice, reg.Paid, installments)
	return &p, nil
}
