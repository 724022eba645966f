package handler

import (
	consignmentapp "github.com/consignly/backend/internal/application/consignment"
	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleHandler records consignment sales and reads the ledger
type SaleHandler struct {
	BaseHandler
	recorder *consignmentapp.SaleRecorder
	ledger   *consignmentapp.LedgerService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(recorder *consignmentapp.SaleRecorder, ledger *consignmentapp.LedgerService) *SaleHandler {
	return &SaleHandler{recorder: recorder, ledger: ledger}
}

// SaleItemRequest is one sold unit. consignorId defaults to the variant's owner.
type SaleItemRequest struct {
	VariantID       uuid.UUID                   `json:"variantId" binding:"required"`
	ConsignorID     uuid.UUID                   `json:"consignorId"`
	SalePrice       decimal.Decimal             `json:"salePrice"`
	CommissionRate  *decimal.Decimal            `json:"commissionRate"`
	CommissionBasis consignment.CommissionBasis `json:"commissionBasis" binding:"omitempty,commission_basis"`
}

// RecordSaleRequest records one unit of a completed sale
type RecordSaleRequest struct {
	SaleID uuid.UUID `json:"saleId" binding:"required"`
	SaleItemRequest
}

// RecordBulkRequest records every unit of one completed sale
type RecordBulkRequest struct {
	SaleID uuid.UUID         `json:"saleId" binding:"required"`
	Items  []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r SaleItemRequest) toInput(saleID uuid.UUID) consignmentapp.RecordSaleInput {
	return consignmentapp.RecordSaleInput{
		SaleID:          saleID,
		ConsignorID:     r.ConsignorID,
		VariantID:       r.VariantID,
		SalePrice:       r.SalePrice,
		CommissionRate:  r.CommissionRate,
		CommissionBasis: r.CommissionBasis,
	}
}

// Record writes the ledger row of one consignor-owned unit
//
//	POST /consignment/sales
func (h *SaleHandler) Record(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.recorder.RecordSale(c.Request.Context(), tenantID, userID, req.toInput(req.SaleID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RecordBulk writes ledger rows for every consignor-owned unit of a sale and
// reports store-owned units as skipped
//
//	POST /consignment/sales/bulk
func (h *SaleHandler) RecordBulk(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req RecordBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	inputs := make([]consignmentapp.RecordSaleInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, item.toInput(req.SaleID))
	}
	resp, err := h.recorder.RecordSales(c.Request.Context(), tenantID, userID, inputs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List pages through the ledger with totals over the whole filtered set.
// Filters: consignorId, saleId, status, from, to.
//
//	GET /consignment/sales
func (h *SaleHandler) List(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	base, ok := h.bindList(c)
	if !ok {
		return
	}
	filter := consignment.ConsignmentSaleFilter{Filter: base}
	if filter.ConsignorID, ok = h.queryUUID(c, "consignorId"); !ok {
		return
	}
	if filter.SaleID, ok = h.queryUUID(c, "saleId"); !ok {
		return
	}
	if filter.From, ok = h.queryDate(c, "from", false); !ok {
		return
	}
	if filter.To, ok = h.queryDate(c, "to", true); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := consignment.PayoutStatus(raw)
		if status != consignment.PayoutStatusPending && status != consignment.PayoutStatusPaid {
			h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "status must be pending or paid")
			return
		}
		filter.Status = &status
	}

	result, err := h.ledger.ListSales(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result, result.Total, base.Page, base.PageSize)
}
