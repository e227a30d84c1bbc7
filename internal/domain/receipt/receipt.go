package receipt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/neximp/backend/internal/domain/filing"
	"github.com/neximp/backend/internal/domain/shared"
)

// DateLayout is the display format for the filing date on receipts
const DateLayout = "02 Jan 2006"

// Line is a single rendered item row. Each amount is carried both as
// the exact decimal and as the fixed two-decimal string so that every
// delivery channel prints identical figures.
type Line struct {
	Description        string
	Quantity           int64
	UnitPrice          decimal.Decimal
	Subtotal           decimal.Decimal
	UnitPriceFormatted string
	SubtotalFormatted  string
}

// ReceiptModel is the channel-independent rendering of a filing.
// Dispatchers format its pre-computed strings; none recomputes amounts.
type ReceiptModel struct {
	FilingID            uuid.UUID
	FilingDate          time.Time
	FilingDateFormatted string
	ShipmentID          string
	InvoiceNo           string
	Port                string
	Status              string
	Lines               []Line
	Total               decimal.Decimal
	TotalFormatted      string
	DeclaredValue       decimal.Decimal
	DeclaredFormatted   string
	Currency            string
	PaymentURI          string
}

// Renderer builds receipt models from filings
type Renderer struct {
	Payment PaymentLink
}

// NewRenderer creates a renderer that decorates receipts with the
// given payment link settings
func NewRenderer(payment PaymentLink) *Renderer {
	return &Renderer{Payment: payment}
}

// Render produces the receipt model for a filing. It fails with an
// EMPTY_ITEMS error when the filing has no items, independently of the
// store-level invariant.
func (r *Renderer) Render(f *filing.Filing) (*ReceiptModel, error) {
	if f == nil || len(f.Items) == 0 {
		return nil, shared.ErrEmptyItems
	}

	total, err := filing.ComputeTotal(f)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(f.Items))
	for idx := range f.Items {
		item := &f.Items[idx]
		sub := item.Subtotal()
		lines = append(lines, Line{
			Description:        item.Description,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			Subtotal:           sub,
			UnitPriceFormatted: item.UnitPrice.StringFixed(2),
			SubtotalFormatted:  sub.StringFixed(2),
		})
	}

	return &ReceiptModel{
		FilingID:            f.ID,
		FilingDate:          f.SubmissionDate,
		FilingDateFormatted: f.SubmissionDate.Format(DateLayout),
		ShipmentID:          f.ShipmentID,
		InvoiceNo:           f.InvoiceNo,
		Port:                f.Port,
		Status:              f.Status,
		Lines:               lines,
		Total:               total.Amount(),
		TotalFormatted:      total.StringFixed(2),
		DeclaredValue:       f.DeclaredValue,
		DeclaredFormatted:   f.DeclaredValue.StringFixed(2),
		Currency:            string(total.Currency()),
		PaymentURI:          r.Payment.URI(total.Amount()),
	}, nil
}
