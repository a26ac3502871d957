package httpserver

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"canteen-backend/internal/qr"
	"github.com/gin-gonic/gin"
)

var billTemplate = template.Must(template.New("bill").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Bill {{.BillNumber}}</title>
  <style>
    body { font-family: sans-serif; max-width: 420px; margin: 2rem auto; padding: 0 1rem; }
    table { width: 100%; border-collapse: collapse; }
    td, th { padding: 0.3rem 0; text-align: left; }
    td:last-child, th:last-child { text-align: right; }
    .total { border-top: 1px solid #333; font-weight: bold; }
    .qr { text-align: center; margin-top: 1.5rem; }
    .pending { color: #777; text-align: center; margin-top: 1.5rem; }
  </style>
</head>
<body>
  <h2>Canteen Bill</h2>
  <p>Bill No: {{.BillNumber}}<br>Status: {{.OrderStatus}}<br>Payment: {{.PaymentStatus}}</p>
  <table>
    <tr><th>Item</th><th>Qty</th><th>Amount</th></tr>
    {{range .Items}}
    <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Amount}}</td></tr>
    {{end}}
    <tr class="total"><td>Total</td><td></td><td>{{.TotalAmount}}</td></tr>
  </table>
  {{if .QRVisible}}
  <div class="qr"><img src="{{.QRDataURI}}" alt="pickup QR"></div>
  {{else}}
  <p class="pending">Your pickup QR will appear closer to collection time.</p>
  {{end}}
</body>
</html>`))

type billItemView struct {
	Name     string
	Quantity int
	Amount   int64
}

type billView struct {
	BillNumber    string
	OrderStatus   string
	PaymentStatus string
	Items         []billItemView
	TotalAmount   int64
	QRVisible     bool
	QRDataURI     template.URL
}

func billHandler(orders OrderService, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.OrderByLookupToken(c.Request.Context(), c.Param("lookupToken"))
		if err != nil {
			writeError(c, err)
			return
		}

		view := billView{
			BillNumber:    o.BillNumber,
			OrderStatus:   o.OrderStatus.String(),
			PaymentStatus: string(o.PaymentStatus),
			TotalAmount:   o.TotalAmount,
		}
		for _, it := range o.Items {
			view.Items = append(view.Items, billItemView{
				Name:     it.Name,
				Quantity: it.Quantity,
				Amount:   int64(it.Quantity) * it.UnitPrice,
			})
		}

		if !time.Now().Before(o.QRVisibleAt) {
			billURL := fmt.Sprintf("%s/api/orders/bill/%s", baseURL, o.LookupToken)
			uri, err := qr.DataURI(billURL, 256)
			if err == nil {
				view.QRVisible = true
				view.QRDataURI = template.URL(uri)
			}
		}

		c.HTML(http.StatusOK, "bill", view)
	}
}
