package receipt

import (
	"context"
	"time"
)

// Channel identifies a receipt delivery channel
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelDocument Channel = "document"
)

// IsValid checks if the channel is a known delivery channel
func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelDocument:
		return true
	}
	return false
}

// String returns the string representation of the channel
func (c Channel) String() string {
	return string(c)
}

// DeliveryResult describes a completed delivery
type DeliveryResult struct {
	Channel     Channel   `json:"channel"`
	Destination string    `json:"destination"`
	DeliveredAt time.Time `json:"delivered_at"`
	Detail      string    `json:"detail,omitempty"`
	Payload     []byte    `json:"-"`
}

// Dispatcher delivers a rendered receipt over a single channel
type Dispatcher interface {
	Channel() Channel
	Deliver(ctx context.Context, model *ReceiptModel, destination string) (*DeliveryResult, error)
}

// Registry resolves the dispatcher for a channel. Implementations
// return an UNSUPPORTED_CHANNEL error for unknown channels.
type Registry interface {
	Get(channel Channel) (Dispatcher, error)
}

// MailTransport is the outbound port for email delivery
type MailTransport interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SMSGateway is the outbound port for SMS delivery
type SMSGateway interface {
	Send(ctx context.Context, to, text string) error
}

// QREncoder encodes a payload into a PNG QR image
type QREncoder interface {
	Encode(payload string, size int) ([]byte, error)
}
