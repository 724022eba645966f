package handler

import (
	"context"

	consignmentapp "github.com/consignly/backend/internal/application/consignment"
	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsignorHandler handles consignor management endpoints
type ConsignorHandler struct {
	BaseHandler
	service *consignmentapp.ConsignorService
}

// NewConsignorHandler creates a new ConsignorHandler
func NewConsignorHandler(service *consignmentapp.ConsignorService) *ConsignorHandler {
	return &ConsignorHandler{service: service}
}

// ConsignorRequest is the body of create and update. On create a missing
// commissionRate falls back to the store default.
type ConsignorRequest struct {
	Name             string                   `json:"name" binding:"required,min=1,max=200"`
	Email            string                   `json:"email" binding:"omitempty,email,max=200"`
	Phone            string                   `json:"phone" binding:"max=50"`
	Notes            string                   `json:"notes" binding:"max=2000"`
	CommissionRate   *decimal.Decimal         `json:"commissionRate"`
	PayoutMethod     consignment.PayoutMethod `json:"payoutMethod" binding:"omitempty,payout_method"`
	FixedMarkup      decimal.Decimal          `json:"fixedMarkup"`
	MarkupPercentage decimal.Decimal          `json:"markupPercentage"`
}

// PortalPasswordRequest sets or, when empty, revokes portal access
type PortalPasswordRequest struct {
	Password string `json:"password" binding:"max=72"`
}

// Create registers a consignor
//
//	POST /consignment/consignors
func (h *ConsignorHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req ConsignorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), tenantID, userID, consignmentapp.CreateConsignorInput{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Notes:            req.Notes,
		CommissionRate:   req.CommissionRate,
		PayoutMethod:     req.PayoutMethod,
		FixedMarkup:      req.FixedMarkup,
		MarkupPercentage: req.MarkupPercentage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List pages through consignors. archived=only lists archived ones,
// archived=include lists both.
//
//	GET /consignment/consignors
func (h *ConsignorHandler) List(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	base, ok := h.bindList(c)
	if !ok {
		return
	}
	filter := consignment.ConsignorFilter{Filter: base}
	switch c.Query("archived") {
	case "only":
		filter.OnlyArchived = true
	case "include":
		filter.IncludeArchived = true
	}

	items, total, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, base.Page, base.PageSize)
}

// Get returns one consignor with pending and paid totals
//
//	GET /consignment/consignors/:id
func (h *ConsignorHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update replaces contact details and payout terms
//
//	PUT /consignment/consignors/:id
func (h *ConsignorHandler) Update(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req ConsignorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	in := consignmentapp.UpdateConsignorInput{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Notes:            req.Notes,
		PayoutMethod:     req.PayoutMethod,
		FixedMarkup:      req.FixedMarkup,
		MarkupPercentage: req.MarkupPercentage,
	}
	if req.CommissionRate != nil {
		in.CommissionRate = *req.CommissionRate
	}

	resp, err := h.service.Update(c.Request.Context(), tenantID, id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Archive hides a consignor from pickers; pending sales stay payable
//
//	POST /consignment/consignors/:id/archive
func (h *ConsignorHandler) Archive(c *gin.Context) {
	h.toggleArchive(c, h.service.Archive)
}

// Unarchive restores an archived consignor
//
//	POST /consignment/consignors/:id/unarchive
func (h *ConsignorHandler) Unarchive(c *gin.Context) {
	h.toggleArchive(c, h.service.Unarchive)
}

func (h *ConsignorHandler) toggleArchive(c *gin.Context, op func(ctx context.Context, tenantID, id uuid.UUID) (*consignmentapp.ConsignorResponse, error)) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := op(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a consignor that has no unpaid sales
//
//	DELETE /consignment/consignors/:id
func (h *ConsignorHandler) Delete(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetPortalPassword sets or revokes the consignor's portal password
//
//	PUT /consignment/consignors/:id/portal-password
func (h *ConsignorHandler) SetPortalPassword(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req PortalPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.service.SetPortalPassword(c.Request.Context(), tenantID, id, req.Password); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
