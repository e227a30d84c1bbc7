package delivery

import (
	qrcode "github.com/skip2/go-qrcode"

	"github.com/neximp/backend/internal/domain/receipt"
)

// QRCodeEncoder implements the QREncoder port with skip2/go-qrcode
type QRCodeEncoder struct{}

// NewQRCodeEncoder creates a new QR code encoder
func NewQRCodeEncoder() *QRCodeEncoder {
	return &QRCodeEncoder{}
}

// Encode encodes the payload into a PNG image of size x size pixels
func (e *QRCodeEncoder) Encode(payload string, size int) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, size)
}

var _ receipt.QREncoder = (*QRCodeEncoder)(nil)
