package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neximp/backend/internal/domain/receipt"
	"github.com/neximp/backend/internal/domain/shared"
)

// SMSDispatcher delivers a compact plaintext receipt through an
// SMSGateway
type SMSDispatcher struct {
	gateway receipt.SMSGateway
}

// NewSMSDispatcher creates a new SMS dispatcher
func NewSMSDispatcher(gateway receipt.SMSGateway) *SMSDispatcher {
	return &SMSDispatcher{gateway: gateway}
}

// Channel returns the channel this dispatcher serves
func (d *SMSDispatcher) Channel() receipt.Channel {
	return receipt.ChannelSMS
}

// Deliver formats the compact receipt text and posts it to the gateway
func (d *SMSDispatcher) Deliver(ctx context.Context, model *receipt.ReceiptModel, destination string) (*receipt.DeliveryResult, error) {
	if destination == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "SMS destination cannot be empty")
	}

	text := FormatSMSText(model)
	if err := d.gateway.Send(ctx, destination, text); err != nil {
		return nil, shared.WrapDomainError(shared.CodeDeliveryFailed,
			fmt.Sprintf("Receipt delivery over %s failed", receipt.ChannelSMS), err)
	}

	return &receipt.DeliveryResult{
		Channel:     receipt.ChannelSMS,
		Destination: destination,
		DeliveredAt: time.Now(),
		Detail:      text,
	}, nil
}

// FormatSMSText builds the compact plaintext rendering of a receipt.
// Figures come from the model's pre-formatted strings.
func FormatSMSText(model *receipt.ReceiptModel) string {
	var b strings.Builder
	b.WriteString("CUSTOMS FILING RECEIPT\n")
	b.WriteString("Shipment: " + model.ShipmentID + "\n")
	b.WriteString("Invoice: " + model.InvoiceNo + "\n")
	b.WriteString("Port: " + model.Port + "\n")
	b.WriteString("Status: " + model.Status + "\n")
	b.WriteString("Total: " + model.TotalFormatted + " " + model.Currency)
	if model.PaymentURI != "" {
		b.WriteString("\nPay: " + model.PaymentURI)
	}
	return b.String()
}

var _ receipt.Dispatcher = (*SMSDispatcher)(nil)
