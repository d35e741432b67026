// Package export renders registrations and invoices into downloadable
// documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/mbertho/judoclub/internal/model"
	"github.com/mbertho/judoclub/internal/pricing"
)

// RegistrationRow is one line of the registrations workbook: the
// registration snapshot together with its computed price and payment
// progress.
type RegistrationRow struct {
	Registration *model.Registration
	Breakdown    *pricing.Breakdown
	Progress     *pricing.Progress
}

var registrationHeaders = []string{
	"Last name",
	"First name",
	"Category",
	"Season",
	"Status",
	"Rank",
	"Base price",
	"Family discount",
	"Manual discount %",
	"Manual discount",
	"Supplement",
	"City hall aid",
	"Final price",
	"Paid",
	"Installments",
	"Amount paid",
	"Remaining",
}

// RegistrationsWorkbook renders the rows into an xlsx workbook with one
// registration per line and the full price breakdown in columns.
func RegistrationsWorkbook(rows []RegistrationRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Registrations"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range registrationHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set header: %w", err)
		}
	}

	for i, row := range rows {
		values := registrationValues(row)
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("set cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func registrationValues(row RegistrationRow) []interface{} {
	reg, b, p := row.Registration, row.Breakdown, row.Progress

	lastName, firstName := "", ""
	if reg.Member != nil {
		lastName, firstName = reg.Member.LastName, reg.Member.FirstName
	}
	category := ""
	if reg.Category != nil {
		category = reg.Category.Name
	}
	season := ""
	if reg.Season != nil {
		season = reg.Season.Name
	}

	paid := "no"
	if reg.Paid {
		paid = "yes"
	}

	return []interface{}{
		lastName,
		firstName,
		category,
		season,
		string(reg.Status),
		b.Rank,
		b.BasePrice.StringFixed(2),
		b.FamilyDiscountAmount.StringFixed(2),
		b.ManualDiscountPercentage.StringFixed(2),
		b.ManualDiscountAmount.StringFixed(2),
		b.SupplementAmount.StringFixed(2),
		b.CityHallAidAmount.StringFixed(2),
		b.FinalPrice.StringFixed(2),
		paid,
		reg.InstallmentsPaid,
		p.AmountPaid.StringFixed(2),
		p.RemainingToPay.StringFixed(2),
	}
}

// InvoicePDF renders a single invoice as a PDF document.
func InvoicePDF(invoice *model.Invoice, member *model.Member, season *model.Season) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Invoice "+invoice.Reference)
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Issued: "+invoice.DateIssued.Format("2006-01-02"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Status: "+string(invoice.Status))
	pdf.Ln(12)

	if member != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Member")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 7, member.FirstName+" "+member.LastName)
		pdf.Ln(12)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 9, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 9, "Amount", "1", 1, "R", false, 0, "")

	description := invoice.Description
	if description == "" {
		description = "Club membership"
		if season != nil {
			description += " - " + season.Name
		}
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(140, 9, description, "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 9, invoice.Amount.StringFixed(2)+" EUR", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 9, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 9, invoice.Amount.StringFixed(2)+" EUR", "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return buf.Bytes(), nil
}
