// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/boutique-backend/internal/config"
	"github.com/your-org/boutique-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateOrderSlip generates a printable delivery slip for an order. Bulk
// orders print "To be confirmed" in place of totals.
func (s *Service) GenerateOrderSlip(o *order.Order) (*bytes.Buffer, error) {
	data := slipData{
		SlipNumber:   fmt.Sprintf("ORD-%06d", o.ID),
		SlipDate:     time.Now().Format("January 2, 2006"),
		Order:        o,
		Status:       strings.ToUpper(string(o.Status)),
		DeliveryType: deliveryTypeLabel(o.DeliveryType),
		Delivery:     formatPrice(o.DeliveryPrice),
		Subtotal:     formatOptionalPrice(o.Subtotal),
		Total:        formatOptionalPrice(o.TotalPrice),
		Items:        make([]slipItem, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, slipItem{
			Name:     item.Name,
			Variant:  fmt.Sprintf("%s / %s", item.Color, item.Size),
			Quantity: item.Quantity,
			Price:    formatPrice(item.Price),
			Total:    formatPrice(item.Price * int64(item.Quantity)),
		})
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data slipData) (string, error) {
	tmpl := template.Must(template.New("slip").Parse(slipTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func formatPrice(price int64) string {
	return fmt.Sprintf("%d DA", price)
}

// formatOptionalPrice renders nil totals, which mark bulk orders, as a
// placeholder the back office fills in by phone.
func formatOptionalPrice(price *int64) string {
	if price == nil {
		return "To be confirmed"
	}
	return formatPrice(*price)
}

func deliveryTypeLabel(t order.DeliveryType) string {
	if t == order.DeliveryDesk {
		return "Desk pickup"
	}
	return "Home delivery"
}

// slipData represents the data passed to the slip template
type slipData struct {
	SlipNumber   string
	SlipDate     string
	Order        *order.Order
	Status       string
	DeliveryType string
	Delivery     string
	Subtotal     string
	Total        string
	Items        []slipItem
}

type slipItem struct {
	Name     string
	Variant  string
	Quantity int
	Price    string
	Total    string
}

// Order slip HTML template
const slipTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Order Slip {{.SlipNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .slip-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .customer-info {
            margin-bottom: 30px;
        }
        .customer-info td {
            padding: 5px 0;
            vertical-align: top;
        }
        .customer-info .label {
            font-weight: bold;
            width: 150px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 100px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 140px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .status-badge {
            display: inline-block;
            padding: 4px 8px;
            border-radius: 4px;
            font-size: 12px;
            font-weight: bold;
            background-color: #fef3c7;
            color: #92400e;
        }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.Order.Store}}</h1>
            <span class="status-badge">{{.Status}}</span>
        </div>
        <div style="text-align: right;">
            <div class="slip-title">ORDER SLIP</div>
            <p><strong>Order #:</strong> {{.SlipNumber}}</p>
            <p><strong>Date:</strong> {{.SlipDate}}</p>
        </div>
    </div>

    <div class="customer-info">
        <table>
            <tr><td class="label">Customer:</td><td>{{.Order.CustomerName}}</td></tr>
            <tr><td class="label">Phone:</td><td>{{.Order.Phone}}</td></tr>
            <tr><td class="label">Wilaya:</td><td>{{.Order.Wilaya}}</td></tr>
            {{if .Order.Address}}<tr><td class="label">Address:</td><td>{{.Order.Address}}</td></tr>{{end}}
            <tr><td class="label">Delivery:</td><td>{{.DeliveryType}}</td></tr>
        </table>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Product</th>
                <th>Variant</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td>{{.Name}}</td>
                <td>{{.Variant}}</td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{.Price}}</td>
                <td class="total-col">{{.Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">{{.Subtotal}}</td>
            </tr>
            <tr>
                <td class="label">Delivery:</td>
                <td class="amount">{{.Delivery}}</td>
            </tr>
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{.Total}}</td>
            </tr>
        </table>
    </div>
</body>
</html>
`
