package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nutratech/prf-api/internal/models"
)

// PDFExporter renders purchase request forms into a printable document.
type PDFExporter struct {
	company string
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(company string) *PDFExporter {
	return &PDFExporter{company: company}
}

// ExportPRF renders one form: header block, items table and signature row.
func (e *PDFExporter) ExportPRF(prf *models.PurchaseRequestForm, items []models.PrfLineItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, strings.ToUpper(e.company), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "PURCHASE REQUEST FORM", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	header := [][2]string{
		{"PRF No", prf.PrfNo},
		{"Date", prf.PrfDate.Format("January 2, 2006")},
		{"Prepared By", prf.PreparedBy},
		{"Department Charge To", deref(prf.DepartmentCharge)},
		{"Status", string(models.DeriveStatus(prf))},
	}
	for _, pair := range header {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 7, pair[0], "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, pair[1], "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	headers := []string{"Stock Code", "Item", "Qty", "Unit", "Date Needed", "Delivered"}
	widths := []float64{30, 70, 20, 20, 30, 20}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, item := range items {
		dateNeeded := ""
		if item.DateNeeded != nil {
			dateNeeded = item.DateNeeded.Format("2006-01-02")
		}
		delivered := "No"
		if item.IsDelivered {
			delivered = "Yes"
		}
		cells := []string{
			item.StockCode,
			item.StockName,
			fmt.Sprintf("%g", item.Quantity),
			item.Unit,
			dateNeeded,
			delivered,
		}
		for i, value := range cells {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(8)

	signatures := [][2]string{
		{"Checked By", deref(prf.CheckedBy)},
		{"Approved By", deref(prf.ApprovedBy)},
		{"Received By", deref(prf.ReceivedBy)},
	}
	pdf.SetFont("Arial", "", 9)
	for _, pair := range signatures {
		pdf.CellFormat(63, 7, pair[1], "", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "B", 9)
	for _, pair := range signatures {
		pdf.CellFormat(63, 7, pair[0], "T", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
