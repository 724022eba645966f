package handler

import (
	distributionapp "github.com/consignly/backend/internal/application/distribution"
	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DistributionHandler manages avatars, templates and per-sale profit splits
type DistributionHandler struct {
	BaseHandler
	avatars     *distributionapp.AvatarService
	templates   *distributionapp.TemplateService
	distributor *distributionapp.DistributionService
}

// NewDistributionHandler creates a new DistributionHandler
func NewDistributionHandler(avatars *distributionapp.AvatarService, templates *distributionapp.TemplateService, distributor *distributionapp.DistributionService) *DistributionHandler {
	return &DistributionHandler{avatars: avatars, templates: templates, distributor: distributor}
}

// RecordDistributionRequest splits a sale's net profit
type RecordDistributionRequest struct {
	NetProfit decimal.Decimal `json:"netProfit"`
	distributionapp.Request
}

// ==================== Avatars ====================

// ListAvatars returns every avatar, main first
//
//	GET /distribution/avatars
func (h *DistributionHandler) ListAvatars(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	items, err := h.avatars.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// CreateAvatar adds a profit recipient
//
//	POST /distribution/avatars
func (h *DistributionHandler) CreateAvatar(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req distributionapp.AvatarInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.avatars.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateAvatar renames or recolors an avatar
//
//	PUT /distribution/avatars/:id
func (h *DistributionHandler) UpdateAvatar(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req distributionapp.AvatarInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.avatars.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteAvatar removes a non-main avatar
//
//	DELETE /distribution/avatars/:id
func (h *DistributionHandler) DeleteAvatar(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.avatars.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ==================== Templates ====================

// ListTemplates pages through templates
//
//	GET /distribution/templates
func (h *DistributionHandler) ListTemplates(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	base, ok := h.bindList(c)
	if !ok {
		return
	}
	items, total, err := h.templates.List(c.Request.Context(), tenantID, distribution.TemplateFilter{Filter: base})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, base.Page, base.PageSize)
}

// GetTemplate returns one template with its lines
//
//	GET /distribution/templates/:id
func (h *DistributionHandler) GetTemplate(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.templates.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateTemplate saves a named split whose percentages total 100
//
//	POST /distribution/templates
func (h *DistributionHandler) CreateTemplate(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req distributionapp.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.templates.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateTemplate replaces a template's name and lines
//
//	PUT /distribution/templates/:id
func (h *DistributionHandler) UpdateTemplate(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req distributionapp.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.templates.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteTemplate removes a template; recorded snapshots keep its name
//
//	DELETE /distribution/templates/:id
func (h *DistributionHandler) DeleteTemplate(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.templates.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ==================== Sale distributions ====================

// RecordForSale splits a sale's net profit, replacing any earlier split
//
//	POST /distribution/sales/:saleId
func (h *DistributionHandler) RecordForSale(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	saleID, ok := h.pathUUID(c, "saleId")
	if !ok {
		return
	}
	var req RecordDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.distributor.RecordForSale(c.Request.Context(), tenantID, distributionapp.RecordInput{
		SaleID:    saleID,
		NetProfit: req.NetProfit,
		Request:   req.Request,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetForSale returns the recorded split of a sale; empty when none was recorded
//
//	GET /distribution/sales/:saleId
func (h *DistributionHandler) GetForSale(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	saleID, ok := h.pathUUID(c, "saleId")
	if !ok {
		return
	}
	resp, err := h.distributor.GetForSale(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
