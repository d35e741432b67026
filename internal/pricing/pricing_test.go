package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mbertho/judoclub/internal/model"
)

type stubSiblings struct {
	count int
	err   error

	gotGuardianID int64
	gotSeasonID   int64
	gotExcludeID  int64
}

func (s *stubSiblings) CountValidatedSiblings(ctx context.Context, guardianID, seasonID, excludeRegistrationID int64) (int, error) {
	s.gotGuardianID = guardianID
	s.gotSeasonID = seasonID
	s.gotExcludeID = excludeRegistrationID
	return s.count, s.err
}

func TestResolveRank(t *testing.T) {
	guardianID := int64(7)

	tests := []struct {
		name     string
		guardian *int64
		count    int
		status   model.RegistrationStatus
		want     int
	}{
		{name: "no guardian ranks first", guardian: nil, want: 1},
		{name: "no validated siblings", guardian: &guardianID, count: 0, want: 1},
		{name: "one validated sibling", guardian: &guardianID, count: 1, want: 2},
		{name: "two validated siblings", guardian: &guardianID, count: 2, want: 3},
		{
			// Rank is a pricing input, not a gate: a PENDING registration
			// is ranked as if it were being validated.
			name:     "pending registration still ranked",
			guardian: &guardianID,
			count:    1,
			status:   model.RegistrationStatusPending,
			want:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			siblings := &stubSiblings{count: tt.count}
			e := NewEngine(siblings)

			r := &model.Registration{ID: 42, SeasonID: 3, GuardianID: tt.guardian, Status: tt.status}

			rank, err := e.ResolveRank(context.Background(), r)
			if err != nil {
				t.Fatalf("ResolveRank error: %v", err)
			}
			if rank != tt.want {
				t.Fatalf("rank = %d, want %d", rank, tt.want)
			}

			if tt.guardian != nil {
				if siblings.gotGuardianID != *tt.guardian || siblings.gotSeasonID != 3 || siblings.gotExcludeID != 42 {
					t.Fatalf("sibling query got (%d, %d, %d), want (%d, 3, 42)",
						siblings.gotGuardianID, siblings.gotSeasonID, siblings.gotExcludeID, *tt.guardian)
				}
			}
		})
	}
}

func TestResolveRank_PropagatesError(t *testing.T) {
	guardianID := int64(7)
	wantErr := errors.New("connection lost")
	e := NewEngine(&stubSiblings{err: wantErr})

	_, err := e.ResolveRank(context.Background(), &model.Registration{ID: 1, GuardianID: &guardianID})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped sibling error, got %v", err)
	}
}

func TestComputeBreakdown_UsesResolvedRank(t *testing.T) {
	guardianID := int64(7)
	e := NewEngine(&stubSiblings{count: 1})

	r := reg("200.00", func(r *model.Registration) {
		r.GuardianID = &guardianID
	})

	b, err := e.ComputeBreakdown(context.Background(), r)
	if err != nil {
		t.Fatalf("ComputeBreakdown error: %v", err)
	}

	if b.Rank != 2 {
		t.Fatalf("Rank = %d, want 2", b.Rank)
	}
	if !b.FinalPrice.Equal(decimal.RequireFromString("180")) {
		t.Fatalf("FinalPrice = %s, want 180", b.FinalPrice)
	}
}

func TestComputePaymentProgress(t *testing.T) {
	e := NewEngine(&stubSiblings{})

	r := reg("200.00", func(r *model.Registration) {
		r.HasSupplementaryDiscipline = true
		r.InstallmentsPaid = 1
	})

	p, err := e.ComputePaymentProgress(context.Background(), r)
	if err != nil {
		t.Fatalf("ComputePaymentProgress error: %v", err)
	}

	if !p.TotalToPay.Equal(decimal.RequireFromString("240")) {
		t.Fatalf("TotalToPay = %s, want 240", p.TotalToPay)
	}
	if !p.AmountPaid.Equal(decimal.RequireFromString("80")) {
		t.Fatalf("AmountPaid = %s, want 80", p.AmountPaid)
	}
	if !p.RemainingToPay.Equal(decimal.RequireFromString("160")) {
		t.Fatalf("RemainingToPay = %s, want 160", p.RemainingToPay)
	}
}

func TestComputePaymentProgress_RejectsMalformedCounter(t *testing.T) {
	e := NewEngine(&stubSiblings{})

	r := reg("200.00", func(r *model.Registration) {
		r.InstallmentsPaid = 5
	})

	if _, err := e.ComputePaymentProgress(context.Background(), r); err == nil {
		t.Fatalf("expected error for installment counter outside range")
	}
}
