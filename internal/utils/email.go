package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"gopg_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

func sendMail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@godownphonegadget.com"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("invoice_gopg.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Sending e-mail to", to)
	return client.DialAndSend(msg)
}

// statusGetsInvoice reports whether the notification for a status carries the
// invoice PDF. Only confirmation e-mails do; later moves reference an invoice
// the customer already has.
func statusGetsInvoice(status string) bool {
	return status == models.OrderStatusConfirmed
}

// SendOrderStatusEmail notifies the owner that an admin moved their order.
// Fired asynchronously by the serving layer; the lifecycle core itself never
// notifies.
func SendOrderStatusEmail(order models.Order, userEmail, status string) error {
	var attachment []byte
	if statusGetsInvoice(status) {
		pdf, err := RenderInvoicePDF(order, userEmail)
		if err != nil {
			log.Println("⚠️ Could not render invoice for", order.OrderNumber, ":", err)
		} else {
			attachment = pdf
		}
	}

	subject := fmt.Sprintf("Your order %s is now %s", order.OrderNumber, status)
	return sendMail(userEmail, subject, orderStatusHTML(order, status), attachment)
}

func orderStatusHTML(order models.Order, status string) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>$%.2f</td>
				<td>$%.2f</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	adminNote := ""
	if order.AdminMessage != "" {
		adminNote = fmt.Sprintf(`<p style="color: #2563eb;"><strong>Message from our team:</strong> %s</p>`, order.AdminMessage)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Order update</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Order %s — %s</h2>
		<p>Hello,</p>
		<p>The status of your order has changed to <strong>%s</strong>.</p>
		%s
		<h3>Order details</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Product</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Qty</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Unit price</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">$%.2f</td>
				</tr>
			</tfoot>
		</table>
		<p style="margin-top: 30px; color: #555;">
			Thank you for shopping with us,<br>
			<strong>GOD OWN PHONE GADGET</strong>
		</p>
	</div>
</body>
</html>`, order.OrderNumber, status, status, adminNote, itemsHTML, order.TotalPrice)
}
