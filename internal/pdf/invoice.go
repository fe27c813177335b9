package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"shopcore/internal/models"
)

// Renderer turns a document into bytes; handy to mock in tests.
type Renderer interface {
	RenderInvoice(inv *models.Invoice) ([]byte, error)
}

type InvoiceRenderer struct {
	CompanyName string
	font        string
}

func NewInvoiceRenderer(companyName string) *InvoiceRenderer {
	return &InvoiceRenderer{CompanyName: companyName, font: "Helvetica"}
}

// RenderInvoice renders entirely in memory; the result is meant to travel
// as an email attachment, not to be written to disk.
func (g *InvoiceRenderer) RenderInvoice(inv *models.Invoice) ([]byte, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle(fmt.Sprintf("Invoice %s", inv.Number), false)
	p.SetAuthor(g.CompanyName, false)
	p.SetMargins(20, 20, 20)
	p.SetAutoPageBreak(true, 20)
	p.AddPage()

	p.SetFont(g.font, "B", 18)
	p.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")

	p.SetFont(g.font, "", 12)
	p.CellFormat(0, 7, fmt.Sprintf("No. %s  -  %s", inv.Number, inv.IssuedAt.Format("02.01.2006")), "", 1, "C", false, 0, "")
	g.hr(p)
	p.Ln(3)

	g.kvLine(p, "Supplier", g.CompanyName)
	g.kvLine(p, "Customer", inv.CustomerName)
	p.Ln(2)
	g.hr(p)

	// line items table
	p.SetFont(g.font, "B", 11)
	p.CellFormat(90, 7, "Product", "B", 0, "L", false, 0, "")
	p.CellFormat(25, 7, "Qty", "B", 0, "R", false, 0, "")
	p.CellFormat(55, 7, "Unit price", "B", 1, "R", false, 0, "")
	p.SetFont(g.font, "", 11)
	for _, l := range inv.Lines {
		p.CellFormat(90, 7, l.Product, "", 0, "L", false, 0, "")
		p.CellFormat(25, 7, fmt.Sprintf("%d", l.Quantity), "", 0, "R", false, 0, "")
		p.CellFormat(55, 7, fmt.Sprintf("%.2f %s", l.UnitPrice, inv.Currency), "", 1, "R", false, 0, "")
	}
	p.Ln(2)
	g.hr(p)

	p.SetFont(g.font, "B", 12)
	p.CellFormat(0, 8, fmt.Sprintf("Total: %.2f %s", inv.Total, inv.Currency), "", 1, "R", false, 0, "")

	p.AliasNbPages("")
	p.SetFooterFunc(func() {
		p.SetY(-15)
		p.SetFont(g.font, "", 10)
		p.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", p.PageNo()), "", 0, "C", false, 0, "")
	})

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return buf.Bytes(), nil
}

func (g *InvoiceRenderer) kvLine(p *gofpdf.Fpdf, key, val string) {
	p.SetFont(g.font, "B", 11)
	p.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	p.SetFont(g.font, "", 11)
	p.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *InvoiceRenderer) hr(p *gofpdf.Fpdf) {
	y := p.GetY() + 1.5
	p.SetLineWidth(0.2)
	p.Line(20, y, 190, y)
	p.SetY(y + 2)
}
