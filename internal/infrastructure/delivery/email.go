package delivery

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	texttemplate "text/template"

	"github.com/neximp/backend/internal/domain/receipt"
	"github.com/neximp/backend/internal/domain/shared"
)

var emailHTMLTemplate = template.Must(template.New("receipt_html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>CUSTOMS FILING RECEIPT</h2>
  <p>
    Filing Date: {{.FilingDateFormatted}}<br>
    Shipment ID: {{.ShipmentID}}<br>
    Invoice No: {{.InvoiceNo}}<br>
    Port: {{.Port}}<br>
    Status: {{.Status}}
  </p>
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr>
      <th align="left">Description</th>
      <th align="right">Quantity</th>
      <th align="right">Price</th>
      <th align="right">Subtotal</th>
    </tr>
    {{range .Lines}}
    <tr>
      <td>{{.Description}}</td>
      <td align="right">{{.Quantity}}</td>
      <td align="right">{{.UnitPriceFormatted}}</td>
      <td align="right">{{.SubtotalFormatted}}</td>
    </tr>
    {{end}}
    <tr>
      <td colspan="3" align="right"><strong>Total</strong></td>
      <td align="right"><strong>{{.TotalFormatted}}</strong></td>
    </tr>
  </table>
  <p>Total Filing Value: {{.DeclaredFormatted}} {{.Currency}}</p>
  {{if .PaymentURI}}<p><a href="{{.PaymentURI}}">Pay {{.TotalFormatted}} {{.Currency}} via UPI</a></p>{{end}}
</body>
</html>
`))

var emailTextTemplate = texttemplate.Must(texttemplate.New("receipt_text").Parse(`CUSTOMS FILING RECEIPT

Filing Date: {{.FilingDateFormatted}}
Shipment ID: {{.ShipmentID}}
Invoice No: {{.InvoiceNo}}
Port: {{.Port}}
Status: {{.Status}}

Items:
{{range .Lines}}  {{.Description}} x{{.Quantity}} @ {{.UnitPriceFormatted}} = {{.SubtotalFormatted}}
{{end}}
Total: {{.TotalFormatted}} {{.Currency}}
Total Filing Value: {{.DeclaredFormatted}} {{.Currency}}
{{if .PaymentURI}}Pay via UPI: {{.PaymentURI}}{{end}}
`))

// EmailDispatcher delivers receipts as HTML + plaintext email through
// a MailTransport
type EmailDispatcher struct {
	transport receipt.MailTransport
}

// NewEmailDispatcher creates a new email dispatcher
func NewEmailDispatcher(transport receipt.MailTransport) *EmailDispatcher {
	return &EmailDispatcher{transport: transport}
}

// Channel returns the channel this dispatcher serves
func (d *EmailDispatcher) Channel() receipt.Channel {
	return receipt.ChannelEmail
}

// Deliver renders both email bodies from the receipt model and hands
// them to the transport
func (d *EmailDispatcher) Deliver(ctx context.Context, model *receipt.ReceiptModel, destination string) (*receipt.DeliveryResult, error) {
	if destination == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Email destination cannot be empty")
	}

	var htmlBody bytes.Buffer
	if err := emailHTMLTemplate.Execute(&htmlBody, model); err != nil {
		return nil, shared.WrapDomainError(shared.CodeDeliveryFailed, "Failed to render email receipt", err)
	}
	var textBody bytes.Buffer
	if err := emailTextTemplate.Execute(&textBody, model); err != nil {
		return nil, shared.WrapDomainError(shared.CodeDeliveryFailed, "Failed to render email receipt", err)
	}

	subject := fmt.Sprintf("Customs Filing Receipt %s", model.InvoiceNo)
	if err := d.transport.Send(ctx, destination, subject, htmlBody.String(), textBody.String()); err != nil {
		return nil, shared.WrapDomainError(shared.CodeDeliveryFailed,
			fmt.Sprintf("Receipt delivery over %s failed", receipt.ChannelEmail), err)
	}

	return &receipt.DeliveryResult{
		Channel:     receipt.ChannelEmail,
		Destination: destination,
		DeliveredAt: time.Now(),
		Detail:      subject,
	}, nil
}

var _ receipt.Dispatcher = (*EmailDispatcher)(nil)
