package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxInstallments is the number of equal slices in the installment payment
// plan.
const MaxInstallments = 3

var installmentDivisor = decimal.NewFromInt(MaxInstallments)

// InstallmentCount is the number of installment slices already paid.
// Values outside [0, MaxInstallments] are rejected at construction so the
// progress arithmetic never sees them.
type InstallmentCount int

// NewInstallmentCount validates n and converts it to an InstallmentCount.
func NewInstallmentCount(n int) (InstallmentCount, error) {
	if n < 0 || n > MaxInstallments {
		return 0, fmt.Errorf("installment count %d outside [0,%d]", n, MaxInstallments)
	}
	return InstallmentCount(n), nil
}

// Int returns the count as a plain int.
func (c InstallmentCount) Int() int { return int(c) }

// Percentage is a manual discount percentage in [0,100]. It exists so
// out-of-range values are rejected at the request boundary instead of
// flowing into the pricing arithmetic.
type Percentage struct {
	value decimal.Decimal
}

// NewPercentage validates v and wraps it as a Percentage.
func NewPercentage(v decimal.Decimal) (Percentage, error) {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return Percentage{}, fmt.Errorf("percentage %s outside [0,100]", v)
	}
	return Percentage{value: v}, nil
}

// Decimal returns the underlying decimal value.
func (p Percentage) Decimal() decimal.Decimal { return p.value }

// Progress is the ephemeral payment state of a registration, derived from
// its composed final price and its payment fields.
type Progress struct {
	TotalToPay     decimal.Decimal `json:"total_to_pay"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	RemainingToPay decimal.Decimal `json:"remaining_to_pay"`
}

// PaymentProgress derives the amount paid and remaining from the composed
// total.
//
// The paid flag wins over the installment counter: a registration manually
// marked as paid is fully settled even if its installment bookkeeping
// lags behind. Otherwise each paid installment settles a third of the
// total.
func PaymentProgress(total decimal.Decimal, paid bool, installments InstallmentCount) Progress {
	p := Progress{TotalToPay: total}

	switch {
	case paid:
		p.AmountPaid = total
	case installments > 0:
		p.AmountPaid = total.Div(installmentDivisor).Mul(decimal.NewFromInt(int64(installments)))
	default:
		p.AmountPaid = decimal.Zero
	}

	p.RemainingToPay = total.Sub(p.AmountPaid)
	if p.RemainingToPay.IsNegative() {
		p.RemainingToPay = decimal.Zero
	}

	return p
}
