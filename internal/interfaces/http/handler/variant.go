package handler

import (
	consignmentapp "github.com/consignly/backend/internal/application/consignment"
	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantHandler handles stock unit endpoints
type VariantHandler struct {
	BaseHandler
	service *consignmentapp.VariantService
}

// NewVariantHandler creates a new VariantHandler
func NewVariantHandler(service *consignmentapp.VariantService) *VariantHandler {
	return &VariantHandler{service: service}
}

// CreateVariantRequest adds one unit of stock
type CreateVariantRequest struct {
	SKU         string          `json:"sku" binding:"required,min=1,max=100"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Size        string          `json:"size" binding:"max=50"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	ListPrice   decimal.Decimal `json:"listPrice"`
	ConsignorID *uuid.UUID      `json:"consignorId"`
}

// ReassignVariantRequest moves a unit; a null consignorId returns it to the store
type ReassignVariantRequest struct {
	ConsignorID *uuid.UUID `json:"consignorId"`
}

// Create adds a stock unit
//
//	POST /consignment/variants
func (h *VariantHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.Create(c.Request.Context(), tenantID, userID, consignmentapp.CreateVariantInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Size:        req.Size,
		CostPrice:   req.CostPrice,
		ListPrice:   req.ListPrice,
		ConsignorID: req.ConsignorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Reassign changes the owner of an unsold unit
//
//	PUT /consignment/variants/:id/owner
func (h *VariantHandler) Reassign(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req ReassignVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.Reassign(c.Request.Context(), tenantID, id, req.ConsignorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List pages through variants, filtered by consignorId, ownerType and sold
//
//	GET /consignment/variants
func (h *VariantHandler) List(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	base, ok := h.bindList(c)
	if !ok {
		return
	}
	consignorID, ok := h.queryUUID(c, "consignorId")
	if !ok {
		return
	}
	filter := consignment.VariantFilter{Filter: base, ConsignorID: consignorID}

	if raw := c.Query("ownerType"); raw != "" {
		owner := consignment.OwnerType(raw)
		if owner != consignment.OwnerTypeStore && owner != consignment.OwnerTypeConsignor {
			h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "ownerType must be store or consignor")
			return
		}
		filter.OwnerType = &owner
	}
	switch c.Query("sold") {
	case "true":
		sold := true
		filter.IsSold = &sold
	case "false":
		sold := false
		filter.IsSold = &sold
	}

	items, total, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, base.Page, base.PageSize)
}
