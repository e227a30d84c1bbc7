package filing

import (
	"context"

	"github.com/google/uuid"

	"github.com/neximp/backend/internal/domain/filing"
	"github.com/neximp/backend/internal/domain/receipt"
	"github.com/neximp/backend/internal/domain/shared"
)

// ReceiptNotifier enqueues a deferred receipt notification for a newly
// recorded filing. Implementations must not block; the outcome of the
// notification is never surfaced to the caller.
type ReceiptNotifier interface {
	FilingCreated(filingID uuid.UUID)
}

// Service handles customs filing business operations
type Service struct {
	repo     filing.Repository
	renderer *receipt.Renderer
	registry receipt.Registry
	notifier ReceiptNotifier
}

// NewService creates a new filing service
func NewService(repo filing.Repository, renderer *receipt.Renderer, registry receipt.Registry) *Service {
	return &Service{
		repo:     repo,
		renderer: renderer,
		registry: registry,
	}
}

// SetNotifier sets the background notifier for post-create receipts
func (s *Service) SetNotifier(notifier ReceiptNotifier) {
	s.notifier = notifier
}

// Create records a new filing. The submission date is always set to
// now and the status defaults to Submitted. A receipt notification is
// enqueued after a successful persist; its outcome never affects the
// response.
func (s *Service) Create(ctx context.Context, req CreateFilingRequest) (*FilingResponse, error) {
	f, err := filing.NewFiling(req.ShipmentID, req.InvoiceNo, req.Port, req.Value, req.Status, toDomainItems(req.Items))
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, f); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.FilingCreated(f.ID)
	}

	response := ToFilingResponse(f)
	return &response, nil
}

// List returns all filings, newest submission first
func (s *Service) List(ctx context.Context) ([]FilingResponse, error) {
	filings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]FilingResponse, 0, len(filings))
	for _, f := range filings {
		responses = append(responses, ToFilingResponse(f))
	}
	return responses, nil
}

// Get retrieves a single filing by its identifier
func (s *Service) Get(ctx context.Context, id string) (*FilingResponse, error) {
	filingID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	f, err := s.repo.FindByID(ctx, filingID)
	if err != nil {
		return nil, err
	}

	response := ToFilingResponse(f)
	return &response, nil
}

// Update applies a merge patch to the stored filing and replaces the
// whole document. The stored submission date always survives.
func (s *Service) Update(ctx context.Context, id string, req UpdateFilingRequest) (*FilingResponse, error) {
	filingID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	f, err := s.repo.FindByID(ctx, filingID)
	if err != nil {
		return nil, err
	}

	shipmentID := f.ShipmentID
	if req.ShipmentID != nil {
		shipmentID = *req.ShipmentID
	}
	invoiceNo := f.InvoiceNo
	if req.InvoiceNo != nil {
		invoiceNo = *req.InvoiceNo
	}
	port := f.Port
	if req.Port != nil {
		port = *req.Port
	}
	value := f.DeclaredValue
	if req.Value != nil {
		value = *req.Value
	}
	status := f.Status
	if req.Status != nil {
		status = *req.Status
	}
	items := toDomainItemsFromStored(f.Items)
	if req.Items != nil {
		items = toDomainItems(req.Items)
	}

	if err := f.Update(shipmentID, invoiceNo, port, value, status, items); err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, f); err != nil {
		return nil, err
	}

	response := ToFilingResponse(f)
	return &response, nil
}

// Delete removes a filing and its items
func (s *Service) Delete(ctx context.Context, id string) error {
	filingID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Remove(ctx, filingID)
}

// SendReceipt renders the filing receipt and delivers it over the
// requested channel
func (s *Service) SendReceipt(ctx context.Context, id, channel, destination string) (*receipt.DeliveryResult, error) {
	filingID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	f, err := s.repo.FindByID(ctx, filingID)
	if err != nil {
		return nil, err
	}

	model, err := s.renderer.Render(f)
	if err != nil {
		return nil, err
	}

	dispatcher, err := s.registry.Get(receipt.Channel(channel))
	if err != nil {
		return nil, err
	}

	return dispatcher.Deliver(ctx, model, destination)
}

// ExportReceipt renders the filing receipt as a PDF document. The
// result carries the document bytes and the suggested filename.
func (s *Service) ExportReceipt(ctx context.Context, id string) (*receipt.DeliveryResult, error) {
	return s.SendReceipt(ctx, id, receipt.ChannelDocument.String(), "")
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, shared.WrapDomainError(shared.CodeInvalidIdentifier, "Invalid filing ID format", err)
	}
	return parsed, nil
}

func toDomainItems(inputs []ItemInput) []filing.ItemInput {
	items := make([]filing.ItemInput, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, filing.ItemInput{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.Price,
		})
	}
	return items
}

func toDomainItemsFromStored(stored []filing.Item) []filing.ItemInput {
	items := make([]filing.ItemInput, 0, len(stored))
	for _, item := range stored {
		items = append(items, filing.ItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return items
}
