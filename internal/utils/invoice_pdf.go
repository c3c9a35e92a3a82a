package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"gopg_back_end/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// PickupQRCode encodes an order number as a PNG QR code. The pickup desk
// scans it to pull up the confirmed order.
func PickupQRCode(orderNumber string, size int) ([]byte, error) {
	return qrcode.Encode(orderNumber, qrcode.Medium, size)
}

// RenderInvoicePDF prints the order invoice to PDF with a headless Chrome.
func RenderInvoicePDF(order models.Order, userEmail string) ([]byte, error) {
	html := invoiceHTML(order, userEmail)
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

func invoiceHTML(order models.Order, userEmail string) string {
	rows := ""
	for _, item := range order.Items {
		rows += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%s</td>
				<td>%d</td>
				<td>$%.2f</td>
				<td>$%.2f</td>
			</tr>`, item.Name, item.SKU, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	discountRow := ""
	if order.Coupon.Discount > 0 {
		discountRow = fmt.Sprintf(`<tr><td colspan="4" class="label">Discount (%s)</td><td>-$%.2f</td></tr>`,
			order.Coupon.Code, order.Coupon.Discount)
	}

	fulfillment := "Pickup in store"
	if order.Method == models.MethodDelivery {
		fulfillment = "Delivery to " + order.Address
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Invoice %s</title>
	<style>
		body { font-family: Arial, sans-serif; color: #222; padding: 40px; }
		h1 { color: #2563eb; }
		table { width: 100%%; border-collapse: collapse; margin-top: 24px; }
		th, td { padding: 8px 12px; border: 1px solid #ddd; text-align: left; }
		th { background: #f0f0f0; }
		.label { text-align: right; font-weight: bold; }
	</style>
</head>
<body>
	<h1>GOD OWN PHONE GADGET</h1>
	<p><strong>Invoice %s</strong><br>
	Date: %s<br>
	Customer: %s<br>
	Fulfillment: %s</p>
	<table>
		<thead>
			<tr><th>Product</th><th>SKU</th><th>Qty</th><th>Unit price</th><th>Total</th></tr>
		</thead>
		<tbody>%s</tbody>
		<tfoot>
			<tr><td colspan="4" class="label">Subtotal</td><td>$%.2f</td></tr>
			%s
			<tr><td colspan="4" class="label">Tax</td><td>$%.2f</td></tr>
			<tr><td colspan="4" class="label">Shipping</td><td>$%.2f</td></tr>
			<tr><td colspan="4" class="label">Total</td><td><strong>$%.2f</strong></td></tr>
		</tfoot>
	</table>
</body>
</html>`,
		order.OrderNumber, order.OrderNumber, order.CreatedAt.Format("2006-01-02"),
		userEmail, fulfillment, rows,
		order.ItemsPrice, discountRow, order.TaxPrice, order.ShippingPrice, order.TotalPrice)
}
