package filing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/neximp/backend/internal/domain/filing"
)

// ItemInput represents a line item in a create or update request
type ItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
}

// CreateFilingRequest represents a request to record a customs filing
type CreateFilingRequest struct {
	ShipmentID string          `json:"shipment_id" binding:"required,min=1,max=100"`
	InvoiceNo  string          `json:"invoice_no" binding:"required,min=1,max=100"`
	Port       string          `json:"port" binding:"required,min=1,max=200"`
	Value      decimal.Decimal `json:"value"`
	Status     string          `json:"status" binding:"max=50"`
	Items      []ItemInput     `json:"items" binding:"required,min=1,dive"`
}

// UpdateFilingRequest represents a merge-patch update. Absent fields
// keep their stored values; the submission date can never change.
type UpdateFilingRequest struct {
	ShipmentID *string          `json:"shipment_id" binding:"omitempty,min=1,max=100"`
	InvoiceNo  *string          `json:"invoice_no" binding:"omitempty,min=1,max=100"`
	Port       *string          `json:"port" binding:"omitempty,min=1,max=200"`
	Value      *decimal.Decimal `json:"value"`
	Status     *string          `json:"status" binding:"omitempty,max=50"`
	Items      []ItemInput      `json:"items" binding:"omitempty,min=1,dive"`
}

// SendReceiptRequest represents a request to deliver a filing receipt.
// The channel is not constrained at the binding layer; unknown values
// surface as UNSUPPORTED_CHANNEL from the dispatcher registry.
type SendReceiptRequest struct {
	Channel     string `json:"channel" binding:"required"`
	Destination string `json:"destination" binding:"required,min=1,max=320"`
}

// ItemResponse represents a line item in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// FilingResponse represents a customs filing in API responses
type FilingResponse struct {
	ID             uuid.UUID       `json:"id"`
	ShipmentID     string          `json:"shipment_id"`
	InvoiceNo      string          `json:"invoice_no"`
	Port           string          `json:"port"`
	Value          decimal.Decimal `json:"value"`
	Status         string          `json:"status"`
	SubmissionDate time.Time       `json:"submission_date"`
	Items          []ItemResponse  `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToFilingResponse converts a filing aggregate to its response DTO
func ToFilingResponse(f *filing.Filing) FilingResponse {
	items := make([]ItemResponse, 0, len(f.Items))
	for idx := range f.Items {
		item := &f.Items[idx]
		items = append(items, ItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}

	return FilingResponse{
		ID:             f.ID,
		ShipmentID:     f.ShipmentID,
		InvoiceNo:      f.InvoiceNo,
		Port:           f.Port,
		Value:          f.DeclaredValue,
		Status:         f.Status,
		SubmissionDate: f.SubmissionDate,
		Items:          items,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}
