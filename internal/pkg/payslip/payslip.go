// Package payslip renders single-period salary statements as PDF.
package payslip

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type Data struct {
	CompanyName   string
	EmployeeName  string
	EmployeeCode  string
	Email         string
	JobTitle      string
	Department    string
	Month         int
	Year          int
	BaseSalary    decimal.Decimal
	Allowances    decimal.Decimal
	Deductions    decimal.Decimal
	GrossSalary   decimal.Decimal
	NetSalary     decimal.Decimal
	PaymentStatus string
	PaymentDate   *time.Time
	Remarks       string
	GeneratedAt   time.Time
}

// Filename is the suggested download name, e.g. payslip-EMP-2026-0002-2026-03.pdf.
func Filename(code string, month, year int) string {
	return fmt.Sprintf("payslip-%s-%04d-%02d.pdf", code, year, month)
}

func Render(d Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %04d-%02d", d.EmployeeCode, d.Year, d.Month), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, d.CompanyName+" Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", time.Month(d.Month).String(), d.Year))
	pdf.Ln(10)

	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	line("Employee", d.EmployeeName)
	line("Employee code", d.EmployeeCode)
	line("Email", d.Email)
	if d.JobTitle != "" {
		line("Job title", d.JobTitle)
	}
	if d.Department != "" {
		line("Department", d.Department)
	}
	pdf.Ln(6)

	amount := func(label string, v decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(120, 8, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, v.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	amount("Base salary", d.BaseSalary, false)
	amount("Allowances", d.Allowances, false)
	amount("Gross salary", d.GrossSalary, true)
	amount("Deductions", d.Deductions, false)
	amount("Net salary", d.NetSalary, true)
	pdf.Ln(6)

	status := d.PaymentStatus
	if d.PaymentDate != nil {
		status += " on " + d.PaymentDate.Format("2006-01-02")
	}
	line("Payment status", status)
	if d.Remarks != "" {
		line("Remarks", d.Remarks)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Generated "+d.GeneratedAt.Format(time.RFC3339))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip: %w", err)
	}
	return buf.Bytes(), nil
}
