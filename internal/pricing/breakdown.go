package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mbertho/judoclub/internal/model"
)

var (
	hundred = decimal.NewFromInt(100)

	// supplementAmount is the flat surcharge for a supplementary
	// discipline.
	supplementAmount = decimal.NewFromInt(40)
)

// familyTier maps a minimum family rank to a discount percentage. The
// slice is ordered from highest rank down and the first matching tier
// wins, so the tiering policy can change without touching control flow.
type familyTier struct {
	minRank    int
	percentage decimal.Decimal
}

var familyTiers = []familyTier{
	{minRank: 3, percentage: decimal.NewFromInt(20)},
	{minRank: 2, percentage: decimal.NewFromInt(10)},
	{minRank: 1, percentage: decimal.Zero},
}

func familyDiscountPercentage(rank int) decimal.Decimal {
	for _, t := range familyTiers {
		if rank >= t.minRank {
			return t.percentage
		}
	}
	return decimal.Zero
}

// Breakdown is the ephemeral result of composing the pricing rules for one
// registration. It is recomputed on every read and never persisted.
type Breakdown struct {
	BasePrice                decimal.Decimal `json:"base_price"`
	FamilyDiscountPercentage decimal.Decimal `json:"family_discount_percentage"`
	FamilyDiscountAmount     decimal.Decimal `json:"family_discount_amount"`
	ManualDiscountPercentage decimal.Decimal `json:"manual_discount_percentage"`
	ManualDiscountAmount     decimal.Decimal `json:"manual_discount_amount"`
	SupplementAmount         decimal.Decimal `json:"supplement_amount"`
	CityHallAidAmount        decimal.Decimal `json:"city_hall_aid_amount"`
	FinalPrice               decimal.Decimal `json:"final_price"`
	Rank                     int             `json:"rank"`
}

// priceStep is one transformation of the running amount. Each step records
// the figures it contributes on the breakdown and returns the new running
// amount.
type priceStep struct {
	name  string
	apply func(amount decimal.Decimal, reg *model.Registration, b *Breakdown) decimal.Decimal
}

// priceSteps is the pricing pipeline. The order is financially significant
// and must not change: the family discount applies to the base price, the
// manual percentage applies to the price after the family discount, and
// the supplement is added before the municipal aid is subtracted.
var priceSteps = []priceStep{
	{name: "family discount", apply: applyFamilyDiscount},
	{name: "manual percentage discount", apply: applyManualPercentage},
	{name: "manual fixed discount", apply: applyManualAmount},
	{name: "supplementary discipline surcharge", apply: applySupplement},
	{name: "municipal aid deduction", apply: applyCityHallAid},
}

func applyFamilyDiscount(amount decimal.Decimal, _ *model.Registration, b *Breakdown) decimal.Decimal {
	b.FamilyDiscountPercentage = familyDiscountPercentage(b.Rank)
	b.FamilyDiscountAmount = b.BasePrice.Mul(b.FamilyDiscountPercentage).Div(hundred)
	return amount.Sub(b.FamilyDiscountAmount)
}

func applyManualPercentage(amount decimal.Decimal, reg *model.Registration, b *Breakdown) decimal.Decimal {
	b.ManualDiscountPercentage = reg.DiscountPercentage
	return amount.Sub(amount.Mul(reg.DiscountPercentage).Div(hundred))
}

func applyManualAmount(amount decimal.Decimal, reg *model.Registration, b *Breakdown) decimal.Decimal {
	b.ManualDiscountAmount = reg.DiscountAmount
	return amount.Sub(reg.DiscountAmount)
}

func applySupplement(amount decimal.Decimal, reg *model.Registration, b *Breakdown) decimal.Decimal {
	if !reg.HasSupplementaryDiscipline {
		return amount
	}
	b.SupplementAmount = supplementAmount
	return amount.Add(supplementAmount)
}

func applyCityHallAid(amount decimal.Decimal, reg *model.Registration, b *Breakdown) decimal.Decimal {
	if !reg.CityHallAid || !reg.CityHallAidAmount.IsPositive() {
		return amount
	}
	b.CityHallAidAmount = reg.CityHallAidAmount
	return amount.Sub(reg.CityHallAidAmount)
}

// ComposePrice applies the pricing pipeline to the registration at the
// given family rank. It is a pure function of its inputs.
//
// Intermediate amounts may go negative; only the final price is clamped at
// zero.
func ComposePrice(reg *model.Registration, rank int) (*Breakdown, error) {
	if reg.Category == nil {
		return nil, ErrMissingCategory
	}
	if reg.Category.BasePrice.IsNegative() {
		return nil, ErrInvalidBasePrice
	}

	b := &Breakdown{
		BasePrice: reg.Category.BasePrice,
		Rank:      rank,
	}

	amount := b.BasePrice
	for _, step := range priceSteps {
		amount = step.apply(amount, reg, b)
	}

	if amount.IsNegative() {
		amount = decimal.Zero
	}
	b.FinalPrice = amount

	return b, nil
}
