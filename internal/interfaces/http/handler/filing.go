package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appfiling "github.com/neximp/backend/internal/application/filing"
)

// FilingHandler handles customs filing HTTP requests
type FilingHandler struct {
	BaseHandler
	service *appfiling.Service
}

// NewFilingHandler creates a new filing handler
func NewFilingHandler(service *appfiling.Service) *FilingHandler {
	return &FilingHandler{service: service}
}

// RegisterRoutes registers filing routes on the API group
func (h *FilingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	filings := rg.Group("/filings")
	{
		filings.POST("", h.Create)
		filings.GET("", h.List)
		filings.GET("/:id", h.Get)
		filings.PUT("/:id", h.Update)
		filings.DELETE("/:id", h.Delete)
		filings.POST("/:id/receipt", h.SendReceipt)
		filings.GET("/:id/receipt/pdf", h.ExportReceipt)
	}
}

// Create records a new customs filing
// POST /api/v1/filings
func (h *FilingHandler) Create(c *gin.Context) {
	var req appfiling.CreateFilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	response, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, response)
}

// List returns all filings, newest submission first
// GET /api/v1/filings
func (h *FilingHandler) List(c *gin.Context) {
	responses, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, responses, int64(len(responses)))
}

// Get retrieves a single filing
// GET /api/v1/filings/:id
func (h *FilingHandler) Get(c *gin.Context) {
	response, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Update applies a merge patch to a filing
// PUT /api/v1/filings/:id
func (h *FilingHandler) Update(c *gin.Context) {
	var req appfiling.UpdateFilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	response, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Delete removes a filing and its items
// DELETE /api/v1/filings/:id
func (h *FilingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SendReceipt delivers the filing receipt over the requested channel
// POST /api/v1/filings/:id/receipt
func (h *FilingHandler) SendReceipt(c *gin.Context) {
	var req appfiling.SendReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	result, err := h.service.SendReceipt(c.Request.Context(), c.Param("id"), req.Channel, req.Destination)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ExportReceipt streams the filing receipt as a PDF document
// GET /api/v1/filings/:id/receipt/pdf
func (h *FilingHandler) ExportReceipt(c *gin.Context) {
	result, err := h.service.ExportReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Detail))
	c.Data(http.StatusOK, "application/pdf", result.Payload)
}
