package handlers

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"shopdesk/internal/common"
	"shopdesk/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// renderOrderSlip lays out an A4 order slip: header, customer block, line table and total.
func renderOrderSlip(order *models.Order, customer *models.Customer, loc *time.Location) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "ORDER SLIP")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order: %s", order.Code))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", order.CreatedAt.In(loc).Format("02-Jan-2006 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "CUSTOMER:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(customer.Name))
	pdf.Ln(6)
	if addr := common.SafeString(customer.Address); addr != "" {
		pdf.MultiCell(0, 6, tr(addr), "", "L", false)
	}
	if phone := common.SafeString(customer.Phone); phone != "" {
		pdf.Cell(0, 6, "Phone: "+phone)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	headers := []string{"SKU", "Product", "Qty", "Unit price", "Amount"}
	colWidths := []float64{30, 60, 20, 30, 30}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(colWidths[0], 8, tr(item.SKU), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, tr(truncate(item.ProductName, 32)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, formatAmount(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, formatAmount(item.LineTotal()), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, formatAmount(order.Total), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	if note := common.SafeString(order.Note); note != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, tr("Note: "+note), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// formatAmount groups thousands: 1234567 -> "1,234,567".
func formatAmount(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := false
	if v < 0 {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
