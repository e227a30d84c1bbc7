package filing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/neximp/backend/internal/domain/shared"
	"github.com/neximp/backend/internal/domain/shared/valueobject"
)

// StatusSubmitted is the status assigned to every newly created filing.
// The status field itself is free text; no transition rules are enforced.
const StatusSubmitted = "Submitted"

// Item represents a declared line item within a customs filing
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	FilingID    uuid.UUID       `gorm:"type:uuid;index" json:"filing_id"`
	Description string          `gorm:"size:500" json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,8)" json:"unit_price"`
	Position    int             `json:"position"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName returns the database table name
func (Item) TableName() string {
	return "filing_items"
}

// NewItem creates a validated line item for the given filing
func NewItem(filingID uuid.UUID, description string, quantity int64, unitPrice decimal.Decimal, position int) (*Item, error) {
	if description == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidItem, "Item description cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError(shared.CodeInvalidItem, fmt.Sprintf("Item quantity must be at least 1, got %d", quantity))
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidItem, "Item price cannot be negative")
	}

	now := time.Now()
	return &Item{
		ID:          uuid.New(),
		FilingID:    filingID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Subtotal returns quantity * unit price without rounding
func (i *Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// SubtotalMoney returns the line subtotal as a Money value object
func (i *Item) SubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyINR(i.Subtotal())
}

// Filing is the aggregate root for a customs filing record.
// DeclaredValue is the value stated by the filer and is never derived
// from the line items; the computed total lives only on receipts.
type Filing struct {
	shared.BaseEntity
	ShipmentID     string          `gorm:"size:100;index" json:"shipment_id"`
	InvoiceNo      string          `gorm:"size:100" json:"invoice_no"`
	Port           string          `gorm:"size:200" json:"port"`
	DeclaredValue  decimal.Decimal `gorm:"type:decimal(20,8)" json:"declared_value"`
	Status         string          `gorm:"size:50" json:"status"`
	SubmissionDate time.Time       `json:"submission_date"`
	Items          []Item          `gorm:"foreignKey:FilingID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName returns the database table name
func (Filing) TableName() string {
	return "filings"
}

// ItemInput carries raw line item data into the aggregate constructors
type ItemInput struct {
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// NewFiling creates a filing with status Submitted and the submission
// date fixed to now. The status parameter, when non-empty, overrides
// the default.
func NewFiling(shipmentID, invoiceNo, port string, declaredValue decimal.Decimal, status string, items []ItemInput) (*Filing, error) {
	if err := validateHeader(shipmentID, invoiceNo, port, declaredValue); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Filing must contain at least one item")
	}

	if status == "" {
		status = StatusSubmitted
	}

	f := &Filing{
		BaseEntity:     shared.NewBaseEntity(),
		ShipmentID:     shipmentID,
		InvoiceNo:      invoiceNo,
		Port:           port,
		DeclaredValue:  declaredValue,
		Status:         status,
		SubmissionDate: time.Now(),
	}

	built, err := buildItems(f.ID, items)
	if err != nil {
		return nil, err
	}
	f.Items = built

	return f, nil
}

// Update replaces every mutable field of the filing. The submission
// date is preserved regardless of what the caller supplies.
func (f *Filing) Update(shipmentID, invoiceNo, port string, declaredValue decimal.Decimal, status string, items []ItemInput) error {
	if err := validateHeader(shipmentID, invoiceNo, port, declaredValue); err != nil {
		return err
	}
	if len(items) == 0 {
		return shared.NewDomainError(shared.CodeValidation, "Filing must contain at least one item")
	}

	built, err := buildItems(f.ID, items)
	if err != nil {
		return err
	}

	f.ShipmentID = shipmentID
	f.InvoiceNo = invoiceNo
	f.Port = port
	f.DeclaredValue = declaredValue
	if status != "" {
		f.Status = status
	}
	f.Items = built
	f.UpdatedAt = time.Now()

	return nil
}

// DeclaredValueMoney returns the declared value as a Money value object
func (f *Filing) DeclaredValueMoney() valueobject.Money {
	return valueobject.NewMoneyINR(f.DeclaredValue)
}

func validateHeader(shipmentID, invoiceNo, port string, declaredValue decimal.Decimal) error {
	if shipmentID == "" {
		return shared.NewDomainError(shared.CodeValidation, "Shipment ID cannot be empty")
	}
	if invoiceNo == "" {
		return shared.NewDomainError(shared.CodeValidation, "Invoice number cannot be empty")
	}
	if port == "" {
		return shared.NewDomainError(shared.CodeValidation, "Port cannot be empty")
	}
	if declaredValue.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Declared value cannot be negative")
	}
	return nil
}

// buildItems constructs the item list for the aggregate. Item
// violations surface as VALIDATION_ERROR here; INVALID_ITEM is
// reserved for the totals calculator's own guard on stored data.
func buildItems(filingID uuid.UUID, inputs []ItemInput) ([]Item, error) {
	items := make([]Item, 0, len(inputs))
	for i, in := range inputs {
		item, err := NewItem(filingID, in.Description, in.Quantity, in.UnitPrice, i)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				return nil, shared.NewDomainError(shared.CodeValidation, domainErr.Message)
			}
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}
