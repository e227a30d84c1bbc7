package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appfiling "github.com/neximp/backend/internal/application/filing"
	"github.com/neximp/backend/internal/domain/filing"
	"github.com/neximp/backend/internal/domain/receipt"
	"github.com/neximp/backend/internal/domain/shared"
	"github.com/neximp/backend/internal/infrastructure/delivery"
	"github.com/neximp/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryRepository is an in-memory filing.Repository for handler tests
type memoryRepository struct {
	mu      sync.Mutex
	filings map[uuid.UUID]*filing.Filing
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{filings: make(map[uuid.UUID]*filing.Filing)}
}

func (r *memoryRepository) Insert(ctx context.Context, f *filing.Filing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filings[f.ID] = f
	return nil
}

func (r *memoryRepository) FindAll(ctx context.Context) ([]*filing.Filing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*filing.Filing, 0, len(r.filings))
	for _, f := range r.filings {
		all = append(all, f)
	}
	return all, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*filing.Filing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.filings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return f, nil
}

func (r *memoryRepository) Replace(ctx context.Context, f *filing.Filing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.filings[f.ID]; !ok {
		return shared.ErrNotFound
	}
	r.filings[f.ID] = f
	return nil
}

func (r *memoryRepository) Remove(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.filings[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.filings, id)
	return nil
}

// scriptedDispatcher serves a channel and optionally fails every delivery
type scriptedDispatcher struct {
	channel receipt.Channel
	err     error
	sent    []string
}

func (d *scriptedDispatcher) Channel() receipt.Channel { return d.channel }

func (d *scriptedDispatcher) Deliver(ctx context.Context, model *receipt.ReceiptModel, destination string) (*receipt.DeliveryResult, error) {
	if d.err != nil {
		return nil, shared.WrapDomainError(shared.CodeDeliveryFailed, "Receipt delivery over email failed", d.err)
	}
	d.sent = append(d.sent, destination)
	return &receipt.DeliveryResult{Channel: d.channel, Destination: destination, Detail: "sent"}, nil
}

type handlerFixture struct {
	engine *gin.Engine
	repo   *memoryRepository
	email  *scriptedDispatcher
}

func newHandlerFixture(t *testing.T, emailErr error) *handlerFixture {
	t.Helper()

	repo := newMemoryRepository()
	renderer := receipt.NewRenderer(receipt.PaymentLink{PayeeAddress: "neximp@upi", PayeeName: "Neximp"})
	email := &scriptedDispatcher{channel: receipt.ChannelEmail, err: emailErr}
	registry := delivery.NewDispatcherRegistry(
		email,
		delivery.NewDocumentDispatcher(delivery.NewQRCodeEncoder()),
	)
	service := appfiling.NewService(repo, renderer, registry)

	engine := gin.New()
	r := router.NewRouter(engine)
	r.Register(NewFilingHandler(service))
	r.Setup()

	return &handlerFixture{engine: engine, repo: repo, email: email}
}

func (fx *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	fx.engine.ServeHTTP(w, req)
	return w
}

func createPayload() map[string]any {
	return map[string]any{
		"shipment_id": "SHP-42",
		"invoice_no":  "INV-2026-007",
		"port":        "Nhava Sheva",
		"value":       "500",
		"items": []map[string]any{
			{"description": "Steel bolts", "quantity": 10, "price": "2.50"},
			{"description": "Copper wire", "quantity": 3, "price": "120"},
		},
	}
}

func (fx *handlerFixture) createFiling(t *testing.T) string {
	t.Helper()

	w := fx.do(t, http.MethodPost, "/api/v1/filings", createPayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestFilingHandler_Create(t *testing.T) {
	t.Run("records a filing", func(t *testing.T) {
		fx := newHandlerFixture(t, nil)

		w := fx.do(t, http.MethodPost, "/api/v1/filings", createPayload())
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				ID             string `json:"id"`
				Status         string `json:"status"`
				SubmissionDate string `json:"submission_date"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data.ID)
		assert.Equal(t, "Submitted", resp.Data.Status)
		assert.NotEmpty(t, resp.Data.SubmissionDate)
	})

	t.Run("missing items is a validation error", func(t *testing.T) {
		fx := newHandlerFixture(t, nil)

		payload := createPayload()
		delete(payload, "items")

		w := fx.do(t, http.MethodPost, "/api/v1/filings", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		fx := newHandlerFixture(t, nil)

		payload := createPayload()
		payload["items"] = []map[string]any{
			{"description": "Steel bolts", "quantity": 0, "price": "2.50"},
		}

		w := fx.do(t, http.MethodPost, "/api/v1/filings", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		fx := newHandlerFixture(t, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/filings", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		fx.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFilingHandler_GetAndList(t *testing.T) {
	fx := newHandlerFixture(t, nil)
	id := fx.createFiling(t)

	t.Run("get by id", func(t *testing.T) {
		w := fx.do(t, http.MethodGet, "/api/v1/filings/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "INV-2026-007")
	})

	t.Run("list includes the filing", func(t *testing.T) {
		w := fx.do(t, http.MethodGet, "/api/v1/filings", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []json.RawMessage `json:"data"`
			Meta struct {
				Total int64 `json:"total"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("malformed id maps to 400", func(t *testing.T) {
		w := fx.do(t, http.MethodGet, "/api/v1/filings/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, shared.CodeInvalidIdentifier, errorCode(t, w))
	})

	t.Run("unknown id maps to 404", func(t *testing.T) {
		w := fx.do(t, http.MethodGet, "/api/v1/filings/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, shared.CodeNotFound, errorCode(t, w))
	})
}

func TestFilingHandler_Update(t *testing.T) {
	fx := newHandlerFixture(t, nil)
	id := fx.createFiling(t)

	t.Run("partial update keeps unspecified fields", func(t *testing.T) {
		w := fx.do(t, http.MethodPut, "/api/v1/filings/"+id, map[string]any{"port": "Mundra"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Data struct {
				Port      string `json:"port"`
				InvoiceNo string `json:"invoice_no"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Mundra", resp.Data.Port)
		assert.Equal(t, "INV-2026-007", resp.Data.InvoiceNo)
	})

	t.Run("emptying the item list is rejected", func(t *testing.T) {
		w := fx.do(t, http.MethodPut, "/api/v1/filings/"+id, map[string]any{"items": []map[string]any{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id maps to 404", func(t *testing.T) {
		w := fx.do(t, http.MethodPut, "/api/v1/filings/"+uuid.NewString(), map[string]any{"port": "Mundra"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFilingHandler_Delete(t *testing.T) {
	fx := newHandlerFixture(t, nil)
	id := fx.createFiling(t)

	w := fx.do(t, http.MethodDelete, "/api/v1/filings/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = fx.do(t, http.MethodGet, "/api/v1/filings/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFilingHandler_SendReceipt(t *testing.T) {
	t.Run("delivers over email", func(t *testing.T) {
		fx := newHandlerFixture(t, nil)
		id := fx.createFiling(t)

		w := fx.do(t, http.MethodPost, "/api/v1/filings/"+id+"/receipt",
			map[string]any{"channel": "email", "destination": "importer@example.com"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, []string{"importer@example.com"}, fx.email.sent)
	})

	t.Run("unknown channel maps to unsupported channel", func(t *testing.T) {
		fx := newHandlerFixture(t, nil)
		id := fx.createFiling(t)

		w := fx.do(t, http.MethodPost, "/api/v1/filings/"+id+"/receipt",
			map[string]any{"channel": "carrier-pigeon", "destination": "somewhere"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, shared.CodeUnsupportedChannel, errorCode(t, w))
	})

	t.Run("missing channel fails validation", func(t *testing.T) {
		fx := newHandlerFixture(t, nil)
		id := fx.createFiling(t)

		w := fx.do(t, http.MethodPost, "/api/v1/filings/"+id+"/receipt",
			map[string]any{"destination": "somewhere"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	})

	t.Run("transport failure maps to 502", func(t *testing.T) {
		fx := newHandlerFixture(t, errors.New("smtp relay refused"))
		id := fx.createFiling(t)

		w := fx.do(t, http.MethodPost, "/api/v1/filings/"+id+"/receipt",
			map[string]any{"channel": "email", "destination": "importer@example.com"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, shared.CodeDeliveryFailed, errorCode(t, w))
	})
}

func TestFilingHandler_ExportReceipt(t *testing.T) {
	fx := newHandlerFixture(t, nil)
	id := fx.createFiling(t)

	w := fx.do(t, http.MethodGet, "/api/v1/filings/"+id+"/receipt/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt-INV-2026-007.pdf")
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestFilingHandler_ExportReceiptUnknownFiling(t *testing.T) {
	fx := newHandlerFixture(t, nil)

	w := fx.do(t, http.MethodGet, "/api/v1/filings/"+uuid.NewString()+"/receipt/pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
