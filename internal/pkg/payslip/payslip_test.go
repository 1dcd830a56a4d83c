package payslip

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	paid := time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC)
	out, err := Render(Data{
		CompanyName:   "Dayflow",
		EmployeeName:  "Alice Johnson",
		EmployeeCode:  "EMP-2026-0002",
		Email:         "alice@dayflow.com",
		JobTitle:      "Software Engineer",
		Month:         3,
		Year:          2026,
		BaseSalary:    decimal.RequireFromString("5000"),
		Allowances:    decimal.RequireFromString("500"),
		Deductions:    decimal.RequireFromString("250.50"),
		GrossSalary:   decimal.RequireFromString("5500"),
		NetSalary:     decimal.RequireFromString("5249.50"),
		PaymentStatus: "PAID",
		PaymentDate:   &paid,
		GeneratedAt:   time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "payslip-EMP-2026-0002-2026-03.pdf", Filename("EMP-2026-0002", 3, 2026))
}
