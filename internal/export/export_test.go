package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mbertho/judoclub/internal/model"
	"github.com/mbertho/judoclub/internal/pricing"
)

func TestRegistrationsWorkbook(t *testing.T) {
	rows := []RegistrationRow{
		{
			Registration: &model.Registration{
				Status:           model.RegistrationStatusValidated,
				Paid:             false,
				InstallmentsPaid: 1,
				Member:           &model.Member{FirstName: "Léa", LastName: "Martin"},
				Category:         &model.Category{Name: "U10"},
				Season:           &model.Season{Name: "2024-2025"},
			},
			Breakdown: &pricing.Breakdown{
				BasePrice:            decimal.NewFromInt(200),
				FamilyDiscountAmount: decimal.NewFromInt(20),
				FinalPrice:           decimal.NewFromInt(180),
				Rank:                 2,
			},
			Progress: &pricing.Progress{
				TotalToPay:     decimal.NewFromInt(180),
				AmountPaid:     decimal.NewFromInt(60),
				RemainingToPay: decimal.NewFromInt(120),
			},
		},
	}

	data, err := RegistrationsWorkbook(rows)
	if err != nil {
		t.Fatalf("RegistrationsWorkbook error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	cells, err := f.GetRows("Registrations")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(cells) != 2 {
		t.Fatalf("rows = %d, want 2", len(cells))
	}

	header := cells[0]
	if header[0] != "Last name" || header[len(registrationHeaders)-1] != "Remaining" {
		t.Fatalf("unexpected header row: %v", header)
	}

	row := cells[1]
	checks := map[int]string{
		0:  "Martin",
		1:  "Léa",
		2:  "U10",
		3:  "2024-2025",
		4:  "VALIDATED",
		6:  "200.00",
		7:  "20.00",
		12: "180.00",
		13: "no",
		15: "60.00",
		16: "120.00",
	}
	for col, want := range checks {
		if row[col] != want {
			t.Fatalf("column %d = %q, want %q", col, row[col], want)
		}
	}
}

func TestRegistrationsWorkbook_Empty(t *testing.T) {
	data, err := RegistrationsWorkbook(nil)
	if err != nil {
		t.Fatalf("RegistrationsWorkbook error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	cells, err := f.GetRows("Registrations")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(cells) != 1 {
		t.Fatalf("rows = %d, want header only", len(cells))
	}
}

func TestInvoicePDF(t *testing.T) {
	invoice := &model.Invoice{
		Reference:  "INV-2024-0042",
		Amount:     decimal.NewFromInt(180),
		DateIssued: time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:     model.InvoiceStatusPending,
	}
	member := &model.Member{FirstName: "Léa", LastName: "Martin"}
	season := &model.Season{Name: "2024-2025"}

	data, err := InvoicePDF(invoice, member, season)
	if err != nil {
		t.Fatalf("InvoicePDF error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF document")
	}
}
