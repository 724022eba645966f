package handler

import (
	"fmt"
	"net/http"
	"time"

	consignmentapp "github.com/consignly/backend/internal/application/consignment"
	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutHandler processes payouts and reads payout history
type PayoutHandler struct {
	BaseHandler
	payouts  *consignmentapp.PayoutService
	ledger   *consignmentapp.LedgerService
	registry *consignmentapp.PaymentMethodRegistry
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payouts *consignmentapp.PayoutService, ledger *consignmentapp.LedgerService, registry *consignmentapp.PaymentMethodRegistry) *PayoutHandler {
	return &PayoutHandler{payouts: payouts, ledger: ledger, registry: registry}
}

// ProcessPayoutRequest asks to pay a consignor up to amount. payoutDate is
// YYYY-MM-DD and defaults to today.
type ProcessPayoutRequest struct {
	ConsignorID   uuid.UUID       `json:"consignorId" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,max=100"`
	PayoutDate    string          `json:"payoutDate" binding:"omitempty,datetime=2006-01-02"`
	Notes         string          `json:"notes" binding:"max=2000"`
}

// Process pays the consignor's oldest pending sales in full
//
//	POST /consignment/payouts
func (h *PayoutHandler) Process(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req ProcessPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	payoutDate, err := parseDate(req.PayoutDate)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "payoutDate must be YYYY-MM-DD")
		return
	}

	result, err := h.payouts.ProcessPayout(c.Request.Context(), tenantID, userID, consignmentapp.ProcessPayoutInput{
		ConsignorID:   req.ConsignorID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PayoutDate:    payoutDate,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// payoutFilter reads consignorId, paymentMethod, from and to
func (h *PayoutHandler) payoutFilter(c *gin.Context) (consignment.PayoutTransactionFilter, bool) {
	base, ok := h.bindList(c)
	if !ok {
		return consignment.PayoutTransactionFilter{}, false
	}
	filter := consignment.PayoutTransactionFilter{Filter: base, PaymentMethod: c.Query("paymentMethod")}
	if filter.ConsignorID, ok = h.queryUUID(c, "consignorId"); !ok {
		return filter, false
	}
	if filter.From, ok = h.queryDate(c, "from", false); !ok {
		return filter, false
	}
	if filter.To, ok = h.queryDate(c, "to", true); !ok {
		return filter, false
	}
	return filter, true
}

// List pages through payouts with totals over the filtered set
//
//	GET /consignment/payouts
func (h *PayoutHandler) List(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	filter, ok := h.payoutFilter(c)
	if !ok {
		return
	}
	result, err := h.ledger.ListPayouts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result, result.Total, filter.Page, filter.PageSize)
}

// Export downloads the filtered payouts as a spreadsheet
//
//	GET /consignment/payouts/export
func (h *PayoutHandler) Export(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	filter, ok := h.payoutFilter(c)
	if !ok {
		return
	}
	data, err := h.ledger.ExportPayouts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	exporter := h.ledger.Exporter()
	filename := fmt.Sprintf("payouts-%s.%s", time.Now().Format("20060102"), exporter.FileExtension())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, exporter.ContentType(), data)
}

// Get returns one payout with its items
//
//	GET /consignment/payouts/:id
func (h *PayoutHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.ledger.GetPayout(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PaymentMethods lists the built-in methods and the user's remembered ones
//
//	GET /consignment/payment-methods
func (h *PayoutHandler) PaymentMethods(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	options, err := h.registry.List(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, options)
}
