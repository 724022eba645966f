package handler

import (
	"github.com/consignly/backend/internal/application/settlement"
	"github.com/gin-gonic/gin"
)

// SettlementHandler settles completed checkouts
type SettlementHandler struct {
	BaseHandler
	service *settlement.Service
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(service *settlement.Service) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// Settle records a checkout's consignment rows and its profit split in one
// transaction
//
//	POST /checkout/settlements
func (h *SettlementHandler) Settle(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req settlement.SettleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.SettleCheckout(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
