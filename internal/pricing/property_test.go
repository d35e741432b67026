package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/mbertho/judoclub/internal/model"
)

func centsBetween(t *rapid.T, label string, min, max int64) decimal.Decimal {
	return decimal.New(rapid.Int64Range(min, max).Draw(t, label), -2)
}

func drawRegistration(t *rapid.T) *model.Registration {
	return &model.Registration{
		ID: 1,
		Category: &model.Category{
			ID:        1,
			BasePrice: centsBetween(t, "base_cents", 0, 100_000),
		},
		DiscountPercentage:         decimal.New(rapid.Int64Range(0, 10_000).Draw(t, "pct_hundredths"), -2),
		DiscountAmount:             centsBetween(t, "discount_cents", 0, 100_000),
		CityHallAid:                rapid.Bool().Draw(t, "aid"),
		CityHallAidAmount:          centsBetween(t, "aid_cents", 0, 100_000),
		HasSupplementaryDiscipline: rapid.Bool().Draw(t, "supplement"),
	}
}

func TestComposePrice_FinalPriceNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := drawRegistration(t)
		rank := rapid.IntRange(1, 6).Draw(t, "rank")

		b, err := ComposePrice(r, rank)
		if err != nil {
			t.Fatalf("ComposePrice error: %v", err)
		}

		if b.FinalPrice.IsNegative() {
			t.Fatalf("negative final price %s for %+v rank %d", b.FinalPrice, r, rank)
		}
	})
}

func TestPaymentProgress_PaidAlwaysSettles(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := drawRegistration(t)
		r.Paid = true
		r.InstallmentsPaid = rapid.IntRange(0, MaxInstallments).Draw(t, "installments")
		rank := rapid.IntRange(1, 6).Draw(t, "rank")

		b, err := ComposePrice(r, rank)
		if err != nil {
			t.Fatalf("ComposePrice error: %v", err)
		}

		installments, err := NewInstallmentCount(r.InstallmentsPaid)
		if err != nil {
			t.Fatalf("NewInstallmentCount error: %v", err)
		}

		p := PaymentProgress(b.FinalPrice, r.Paid, installments)
		if !p.RemainingToPay.IsZero() {
			t.Fatalf("paid registration has remaining %s", p.RemainingToPay)
		}
		if !p.AmountPaid.Equal(p.TotalToPay) {
			t.Fatalf("paid registration has amount paid %s, total %s", p.AmountPaid, p.TotalToPay)
		}
	})
}

func TestPaymentProgress_RemainingNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := centsBetween(t, "total_cents", 0, 100_000)
		paid := rapid.Bool().Draw(t, "paid")
		installments := InstallmentCount(rapid.IntRange(0, MaxInstallments).Draw(t, "installments"))

		p := PaymentProgress(total, paid, installments)
		if p.RemainingToPay.IsNegative() {
			t.Fatalf("negative remaining %s", p.RemainingToPay)
		}
	})
}
