package consignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/consignly/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayoutService settles a consignor's pending ledger rows against a payout amount
type PayoutService struct {
	repos     Repositories
	txScope   TransactionScope
	locker    PayoutLocker
	registry  *PaymentMethodRegistry
	publisher shared.EventPublisher
	metrics   PayoutMetrics
	mode      AllocationMode
	logger    *zap.Logger
}

// PayoutServiceOption configures a PayoutService
type PayoutServiceOption func(*PayoutService)

// WithPayoutLocker enables per-consignor mutual exclusion
func WithPayoutLocker(l PayoutLocker) PayoutServiceOption {
	return func(s *PayoutService) { s.locker = l }
}

// WithPaymentMethodRegistry remembers non-standard payment methods after each payout
func WithPaymentMethodRegistry(r *PaymentMethodRegistry) PayoutServiceOption {
	return func(s *PayoutService) { s.registry = r }
}

// WithPayoutPublisher sets the publisher for PayoutProcessed events
func WithPayoutPublisher(p shared.EventPublisher) PayoutServiceOption {
	return func(s *PayoutService) { s.publisher = p }
}

// WithPayoutMetrics sets the metrics sink
func WithPayoutMetrics(m PayoutMetrics) PayoutServiceOption {
	return func(s *PayoutService) { s.metrics = m }
}

// WithAllocationMode selects atomic or best_effort application
func WithAllocationMode(m AllocationMode) PayoutServiceOption {
	return func(s *PayoutService) {
		if m.IsValid() {
			s.mode = m
		}
	}
}

// NewPayoutService creates a new PayoutService. repos is used outside
// transactions (reads and best_effort writes); txScope for atomic payouts.
func NewPayoutService(repos Repositories, txScope TransactionScope, logger *zap.Logger, opts ...PayoutServiceOption) *PayoutService {
	s := &PayoutService{
		repos:   repos,
		txScope: txScope,
		metrics: nopMetrics{},
		mode:    AllocationModeAtomic,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the configured allocation mode
func (s *PayoutService) Mode() AllocationMode {
	return s.mode
}

// PayoutLockKey is the lease key guarding one consignor's payouts
func PayoutLockKey(tenantID, consignorID uuid.UUID) string {
	return fmt.Sprintf("payout:%s:%s", tenantID, consignorID)
}

// ProcessPayout pays the consignor's oldest pending sales in full until the
// requested amount can no longer cover the next one.
func (s *PayoutService) ProcessPayout(ctx context.Context, tenantID, userID uuid.UUID, in ProcessPayoutInput) (*PayoutResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payout", "process")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrConsignorID, in.ConsignorID.String(),
		telemetry.SpanAttrAmount, in.Amount.String(),
		telemetry.SpanAttrPaymentMethod, in.PaymentMethod,
		"allocation_mode", string(s.mode),
	)

	result, err := s.processPayout(ctx, tenantID, userID, in)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordPayoutFailure(ctx, tenantID.String(), errorCode(err))
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPayoutNumber, result.PayoutNumber,
		"updated_sale_count", result.UpdatedSaleCount,
		"processed_amount", result.ProcessedAmount.String(),
	)
	s.metrics.RecordPayout(ctx, tenantID.String(), in.PaymentMethod, result.ProcessedAmount, result.UpdatedSaleCount)
	if s.registry != nil {
		s.registry.Remember(ctx, tenantID, userID, in.PaymentMethod)
	}
	return result, nil
}

func (s *PayoutService) processPayout(ctx context.Context, tenantID, userID uuid.UUID, in ProcessPayoutInput) (*PayoutResult, error) {
	if err := consignment.ValidatePayoutAmount(in.Amount); err != nil {
		return nil, err
	}

	consignor, err := s.repos.Consignors().FindByIDForTenant(ctx, tenantID, in.ConsignorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, consignment.ErrConsignorNotFound
		}
		return nil, fmt.Errorf("failed to load consignor: %w", err)
	}

	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	if in.PaymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is required")
	}
	if in.PayoutDate.IsZero() {
		in.PayoutDate = time.Now()
	}

	if s.locker != nil {
		unlock, ok, err := s.locker.TryLock(ctx, PayoutLockKey(tenantID, consignor.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to acquire payout lock: %w", err)
		}
		if !ok {
			return nil, consignment.ErrPayoutInProgress
		}
		defer unlock()
	}

	if s.mode == AllocationModeBestEffort {
		return s.applyBestEffort(ctx, tenantID, userID, in)
	}
	return s.applyAtomic(ctx, tenantID, userID, in)
}

// plan loads the pending backlog and checks the request against it
func plan(ctx context.Context, repos Repositories, tenantID uuid.UUID, in ProcessPayoutInput) ([]*consignment.ConsignmentSale, consignment.AllocationPlan, error) {
	pending, err := repos.Sales().FindPendingByConsignor(ctx, tenantID, in.ConsignorID)
	if err != nil {
		return nil, consignment.AllocationPlan{}, fmt.Errorf("failed to load pending sales: %w", err)
	}
	if err := consignment.CheckPendingBalance(in.Amount, pending); err != nil {
		return nil, consignment.AllocationPlan{}, err
	}
	p := consignment.PlanAllocation(in.Amount, pending)
	if len(p.Items) == 0 {
		return nil, p, consignment.ErrNoSalesUpdated
	}
	return pending, p, nil
}

func newPayoutHeader(ctx context.Context, repos Repositories, tenantID, userID uuid.UUID, in ProcessPayoutInput) (*consignment.PayoutTransaction, error) {
	number, err := repos.PayoutNumbers().Next(ctx, tenantID, in.PayoutDate)
	if err != nil {
		return nil, fmt.Errorf("failed to generate payout number: %w", err)
	}
	payout, err := consignment.NewPayoutTransaction(tenantID, number, in.ConsignorID, in.Amount, in.PaymentMethod, in.PayoutDate, in.Notes)
	if err != nil {
		return nil, err
	}
	payout.SetCreatedBy(userID)
	if err := repos.Payouts().CreateHeader(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to create payout transaction: %w", err)
	}
	return payout, nil
}

// applyAtomic writes header, sale flips and items in one transaction. A sale
// that is no longer pending when flipped aborts the whole payout.
func (s *PayoutService) applyAtomic(ctx context.Context, tenantID, userID uuid.UUID, in ProcessPayoutInput) (*PayoutResult, error) {
	var (
		payout    *consignment.PayoutTransaction
		remaining = decimal.Zero
	)
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		pending, p, err := plan(ctx, repos, tenantID, in)
		if err != nil {
			return err
		}
		pendingTotal := consignment.PendingTotal(pending)

		payout, err = newPayoutHeader(ctx, repos, tenantID, userID, in)
		if err != nil {
			return err
		}

		for _, item := range p.Items {
			if err := item.Sale.MarkPaid(payout.ID, in.PayoutDate, in.PaymentMethod, in.Notes); err != nil {
				return err
			}
			updated, err := repos.Sales().MarkPaidIfPending(ctx, item.Sale)
			if err != nil {
				return fmt.Errorf("failed to mark sale %s paid: %w", item.Sale.ID, err)
			}
			if !updated {
				return shared.NewDomainError(shared.ErrConcurrencyConflict.Code,
					fmt.Sprintf("Consignment sale %s was settled by another payout", item.Sale.ID))
			}
			payout.AddItem(item.Sale.ID, item.Amount)
		}

		if err := repos.Payouts().CreateItems(ctx, payout.Items); err != nil {
			return fmt.Errorf("failed to create payout items: %w", err)
		}
		if err := repos.Payouts().UpdateProcessedAmount(ctx, payout); err != nil {
			return fmt.Errorf("failed to update payout transaction: %w", err)
		}
		remaining = pendingTotal.Sub(payout.ProcessedAmount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.complete(ctx, payout, remaining, 0), nil
}

// applyBestEffort creates the header first and keeps going past per-sale
// failures. When nothing was updated the header is deleted again.
func (s *PayoutService) applyBestEffort(ctx context.Context, tenantID, userID uuid.UUID, in ProcessPayoutInput) (*PayoutResult, error) {
	pending, p, err := plan(ctx, s.repos, tenantID, in)
	if err != nil {
		return nil, err
	}
	pendingTotal := consignment.PendingTotal(pending)

	payout, err := newPayoutHeader(ctx, s.repos, tenantID, userID, in)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, item := range p.Items {
		if err := item.Sale.MarkPaid(payout.ID, in.PayoutDate, in.PaymentMethod, in.Notes); err != nil {
			failed++
			s.logger.Warn("Skipping sale that cannot be paid", zap.String("sale_id", item.Sale.ID.String()), zap.Error(err))
			continue
		}
		updated, err := s.repos.Sales().MarkPaidIfPending(ctx, item.Sale)
		if err != nil || !updated {
			failed++
			s.logger.Warn("Failed to mark consignment sale paid",
				zap.String("payout_number", payout.PayoutNumber),
				zap.String("sale_id", item.Sale.ID.String()),
				zap.Bool("already_settled", err == nil),
				zap.Error(err),
			)
			continue
		}
		payout.AddItem(item.Sale.ID, item.Amount)
	}

	if payout.ItemCount() == 0 {
		if err := s.repos.Payouts().Delete(ctx, tenantID, payout.ID); err != nil {
			s.logger.Error("Failed to delete orphaned payout transaction",
				zap.String("payout_id", payout.ID.String()),
				zap.String("payout_number", payout.PayoutNumber),
				zap.Error(err),
			)
		}
		return nil, consignment.ErrNoSalesUpdated
	}

	var ledgerErr error
	if err := s.repos.Payouts().CreateItems(ctx, payout.Items); err != nil {
		s.logger.Error("Failed to create payout items", zap.String("payout_number", payout.PayoutNumber), zap.Error(err))
		ledgerErr = errors.Join(ledgerErr, fmt.Errorf("failed to create payout items: %w", err))
	}
	if err := s.repos.Payouts().UpdateProcessedAmount(ctx, payout); err != nil {
		s.logger.Error("Failed to update payout processed amount", zap.String("payout_number", payout.PayoutNumber), zap.Error(err))
		ledgerErr = errors.Join(ledgerErr, fmt.Errorf("failed to update payout transaction: %w", err))
	}
	if ledgerErr != nil {
		// Flipped sales stay paid; the error tells the caller to reconcile.
		return nil, consignment.NewPayoutLedgerIncompleteError(payout.PayoutNumber, payout.ItemCount(), ledgerErr)
	}
	if failed > 0 {
		s.logger.Warn("Payout partially applied",
			zap.String("payout_number", payout.PayoutNumber),
			zap.Int("planned", len(p.Items)),
			zap.Int("updated", payout.ItemCount()),
			zap.Int("failed", failed),
		)
	}

	return s.complete(ctx, payout, pendingTotal.Sub(payout.ProcessedAmount), failed), nil
}

func (s *PayoutService) complete(ctx context.Context, payout *consignment.PayoutTransaction, remaining decimal.Decimal, failed int) *PayoutResult {
	payout.Complete(remaining)
	publishEvents(ctx, s.publisher, s.logger, payout)

	s.logger.Info("Payout processed",
		zap.String("payout_number", payout.PayoutNumber),
		zap.String("consignor_id", payout.ConsignorID.String()),
		zap.String("requested", payout.TotalAmount.StringFixed(2)),
		zap.String("processed", payout.ProcessedAmount.StringFixed(2)),
		zap.Int("sales", payout.ItemCount()),
	)

	return &PayoutResult{
		PayoutTransactionID: payout.ID,
		PayoutNumber:        payout.PayoutNumber,
		RequestedAmount:     payout.TotalAmount,
		ProcessedAmount:     payout.ProcessedAmount,
		UpdatedSaleCount:    payout.ItemCount(),
		FailedSaleCount:     failed,
		RemainingPending:    remaining,
		PayoutDate:          payout.PayoutDate,
	}
}

func errorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL_ERROR"
}
