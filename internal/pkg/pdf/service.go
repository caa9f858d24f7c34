// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-bff/internal/config"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/domain/order"
)

// Service handles receipt PDF generation
type Service struct {
	store    StoreInfo
	currency string
	tmpl     *template.Template
}

// StoreInfo is printed in the receipt header
type StoreInfo struct {
	Name  string
	Phone string
}

// NewService creates a new PDF service
func NewService(cfg config.ReceiptConfig) *Service {
	return &Service{
		store:    StoreInfo{Name: cfg.StoreName, Phone: cfg.StorePhone},
		currency: cfg.Currency,
		tmpl: template.Must(template.New("receipt").Funcs(template.FuncMap{
			"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		}).Parse(receiptTemplate)),
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	Store    StoreInfo
	Currency string
	PlacedAt string
	Reward   bool
	Receipt  *order.Receipt
}

// GenerateReceipt renders a receipt to PDF
func (s *Service) GenerateReceipt(receipt *order.Receipt) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	// Receipt-sized page
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA6)
	pdfg.Grayscale.Set(true)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterCenter.Set("[page]/[topage]")
	page.FooterFontSize.Set(7)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the receipt template
func (s *Service) RenderHTML(receipt *order.Receipt) ([]byte, error) {
	if receipt == nil {
		return nil, fmt.Errorf("receipt is required")
	}

	data := ReceiptData{
		Store:    s.store,
		Currency: s.currency,
		PlacedAt: receipt.PlacedAt.Format("January 2, 2006 15:04"),
		Reward:   receipt.Kind == ledger.KindReward,
		Receipt:  receipt,
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Receipt.OrderID}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 12px; font-size: 11px; color: #222; }
        h1 { font-size: 15px; margin: 0 0 2px 0; }
        .muted { color: #666; }
        .section { margin-top: 10px; }
        table { width: 100%; border-collapse: collapse; margin-top: 8px; }
        th, td { padding: 4px 2px; border-bottom: 1px solid #ddd; text-align: left; }
        td.num, th.num { text-align: right; }
        .total { font-weight: bold; font-size: 13px; }
    </style>
</head>
<body>
    <h1>{{.Store.Name}}</h1>
    {{if .Store.Phone}}<div class="muted">{{.Store.Phone}}</div>{{end}}

    <div class="section">
        <div>Order <strong>#{{.Receipt.OrderID}}</strong></div>
        <div class="muted">{{.PlacedAt}}</div>
        {{if .Receipt.PlacedBy}}<div>Placed by {{.Receipt.PlacedBy}}</div>{{end}}
    </div>

    {{with .Receipt.Customer}}
    <div class="section">
        <div>Customer: {{.Name}}</div>
        <div>Phone: {{.Phone}}</div>
        {{if .Email}}<div>Email: {{.Email}}</div>{{end}}
    </div>
    {{end}}

    <div class="section">
        <div>Deliver to: {{.Receipt.ShipTo.Label}}</div>
        {{if .Receipt.ShipTo.Details}}<div class="muted">{{.Receipt.ShipTo.Details}}</div>{{end}}
        {{if .Receipt.Phone}}<div>Contact: {{.Receipt.Phone}}</div>{{end}}
    </div>

    <table>
        <thead>
            <tr>
                <th>Item</th>
                <th class="num">Qty</th>
                {{if .Reward}}<th class="num">Points</th>{{else}}<th class="num">Price</th><th class="num">Total</th>{{end}}
            </tr>
        </thead>
        <tbody>
            {{range .Receipt.Lines}}
            <tr>
                <td>{{.Name}}</td>
                <td class="num">{{.Quantity}}</td>
                {{if $.Reward}}<td class="num">{{.Points}}</td>{{else}}<td class="num">{{money .UnitPrice}}</td><td class="num">{{money .LineTotal}}</td>{{end}}
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="section total">
        {{if .Reward}}
        Total points: {{.Receipt.TotalPoints}}
        {{else}}
        Total ({{.Receipt.TotalQuantity}} items): {{.Currency}} {{money .Receipt.Total}}
        {{end}}
    </div>
    {{if .Receipt.PaymentMethod}}<div>Payment: {{.Receipt.PaymentMethod}}</div>{{end}}
</body>
</html>
`
