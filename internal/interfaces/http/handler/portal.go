package handler

import (
	consignmentapp "github.com/consignly/backend/internal/application/consignment"
	"github.com/gin-gonic/gin"
)

// PortalHandler serves the consignor's self-service view. It sits outside
// JWT; the consignor's portal password is the only credential.
type PortalHandler struct {
	BaseHandler
	consignors *consignmentapp.ConsignorService
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(consignors *consignmentapp.ConsignorService) *PortalHandler {
	return &PortalHandler{consignors: consignors}
}

// PortalLoginRequest carries the portal password in the body, never the URL
type PortalLoginRequest struct {
	Password string `json:"password" binding:"required,max=72"`
}

// View returns stats, sales and in-stock items for one consignor
//
//	POST /portal/consignors/:id
func (h *PortalHandler) View(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req PortalLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	view, err := h.consignors.PortalView(c.Request.Context(), id, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}
