package delivery

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/neximp/backend/internal/domain/receipt"
	"github.com/neximp/backend/internal/domain/shared"
)

const (
	pdfLeftMargin   = 14.0
	pdfLineHeight   = 8.0
	pdfBottomCursor = 270.0 // start a new page past this y position
	pdfQRSize       = 30.0  // mm
	pdfQRPixels     = 256
)

// column widths for the items table, in mm
var pdfColWidths = [4]float64{92, 22, 32, 32}

// DocumentDispatcher renders receipts as PDF documents. It is
// synchronous and side-effect free; the destination is ignored and the
// document bytes are returned in the result payload.
type DocumentDispatcher struct {
	encoder receipt.QREncoder
}

// NewDocumentDispatcher creates a new PDF document dispatcher
func NewDocumentDispatcher(encoder receipt.QREncoder) *DocumentDispatcher {
	return &DocumentDispatcher{encoder: encoder}
}

// Channel returns the channel this dispatcher serves
func (d *DocumentDispatcher) Channel() receipt.Channel {
	return receipt.ChannelDocument
}

// Deliver builds the PDF receipt. Every item row is emitted; the table
// paginates when the cursor passes the bottom margin.
func (d *DocumentDispatcher) Deliver(ctx context.Context, model *receipt.ReceiptModel, destination string) (*receipt.DeliveryResult, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, "CUSTOMS FILING RECEIPT", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Details block
	pdf.SetFont("Arial", "", 11)
	details := []string{
		"Filing Date: " + model.FilingDateFormatted,
		"Shipment ID: " + model.ShipmentID,
		"Invoice No: " + model.InvoiceNo,
		"Port: " + model.Port,
		"Status: " + model.Status,
	}
	for _, line := range details {
		pdf.SetX(pdfLeftMargin)
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	drawHeader := func() {
		pdf.SetX(pdfLeftMargin)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(pdfColWidths[0], pdfLineHeight, "Description", "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColWidths[1], pdfLineHeight, "Qty", "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColWidths[2], pdfLineHeight, "Unit Price", "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColWidths[3], pdfLineHeight, "Subtotal", "1", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "", 11)
	}
	drawHeader()

	for _, line := range model.Lines {
		if pdf.GetY() > pdfBottomCursor {
			pdf.AddPage()
			drawHeader()
		}
		pdf.SetX(pdfLeftMargin)
		pdf.CellFormat(pdfColWidths[0], pdfLineHeight, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColWidths[1], pdfLineHeight, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColWidths[2], pdfLineHeight, line.UnitPriceFormatted, "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColWidths[3], pdfLineHeight, line.SubtotalFormatted, "1", 1, "R", false, 0, "")
	}

	if pdf.GetY() > pdfBottomCursor {
		pdf.AddPage()
	}
	pdf.SetX(pdfLeftMargin)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(pdfColWidths[0]+pdfColWidths[1]+pdfColWidths[2], pdfLineHeight, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColWidths[3], pdfLineHeight, model.TotalFormatted, "1", 1, "R", false, 0, "")

	pdf.Ln(4)
	if pdf.GetY() > pdfBottomCursor {
		pdf.AddPage()
	}
	pdf.SetX(pdfLeftMargin)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Filing Value: %s %s", model.DeclaredFormatted, model.Currency), "", 1, "L", false, 0, "")

	if model.PaymentURI != "" && d.encoder != nil {
		if err := d.drawPaymentQR(pdf, model); err != nil {
			return nil, err
		}
	}

	if pdf.Err() {
		return nil, shared.WrapDomainError(shared.CodeDeliveryFailed, "Failed to render PDF receipt", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, shared.WrapDomainError(shared.CodeDeliveryFailed, "Failed to render PDF receipt", err)
	}

	return &receipt.DeliveryResult{
		Channel:     receipt.ChannelDocument,
		Destination: destination,
		DeliveredAt: time.Now(),
		Detail:      fmt.Sprintf("receipt-%s.pdf", model.InvoiceNo),
		Payload:     buf.Bytes(),
	}, nil
}

func (d *DocumentDispatcher) drawPaymentQR(pdf *gofpdf.Fpdf, model *receipt.ReceiptModel) error {
	png, err := d.encoder.Encode(model.PaymentURI, pdfQRPixels)
	if err != nil {
		return shared.WrapDomainError(shared.CodeDeliveryFailed, "Failed to encode payment QR", err)
	}

	if pdf.GetY()+pdfQRSize+10 > pdfBottomCursor {
		pdf.AddPage()
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("payment-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("payment-qr", pdfLeftMargin, pdf.GetY()+2, pdfQRSize, pdfQRSize, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + pdfQRSize + 4)
	pdf.SetX(pdfLeftMargin)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Scan to pay %s %s via UPI", model.TotalFormatted, model.Currency), "", 1, "L", false, 0, "")
	return nil
}

var _ receipt.Dispatcher = (*DocumentDispatcher)(nil)
