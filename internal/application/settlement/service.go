// Package settlement records a whole checkout: the consignment ledger rows of
// its consignor-owned items and the split of its net profit, in one transaction.
package settlement

import (
	"context"
	"fmt"

	consignmentapp "github.com/consignly/backend/internal/application/consignment"
	distributionapp "github.com/consignly/backend/internal/application/distribution"
	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Repositories is the union of the consignment and distribution repositories
type Repositories interface {
	consignmentapp.Repositories
	distributionapp.Repositories
}

// TransactionScope runs fn with every repository bound to one transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// ItemInput is one sold line of a checkout
type ItemInput struct {
	VariantID       uuid.UUID                   `json:"variantId" binding:"required"`
	ConsignorID     uuid.UUID                   `json:"consignorId"`
	SalePrice       decimal.Decimal             `json:"salePrice"`
	CommissionRate  *decimal.Decimal            `json:"commissionRate"`
	CommissionBasis consignment.CommissionBasis `json:"commissionBasis" binding:"omitempty,oneof=total profit"`
}

// SettleInput describes a completed checkout
type SettleInput struct {
	SaleID       uuid.UUID               `json:"saleId" binding:"required"`
	NetProfit    decimal.Decimal         `json:"netProfit"`
	Items        []ItemInput             `json:"items" binding:"dive"`
	Distribution distributionapp.Request `json:"distribution"`
}

// SettleResult is what a settlement wrote
type SettleResult struct {
	SaleID       uuid.UUID                               `json:"saleId"`
	Consignment  *consignmentapp.BulkRecordResult        `json:"consignment"`
	Distribution *distributionapp.SaleDistributionResult `json:"distribution"`
}

// Service settles checkouts
type Service struct {
	txScope     TransactionScope
	recorder    *consignmentapp.SaleRecorder
	distributor *distributionapp.DistributionService
	logger      *zap.Logger
}

// NewService creates a new settlement Service
func NewService(txScope TransactionScope, recorder *consignmentapp.SaleRecorder, distributor *distributionapp.DistributionService, logger *zap.Logger) *Service {
	return &Service{
		txScope:     txScope,
		recorder:    recorder,
		distributor: distributor,
		logger:      logger,
	}
}

// SettleCheckout records every consignor-owned item and the profit split.
// Nothing is written when any part fails, and an invalid share list is
// rejected before the transaction starts.
func (s *Service) SettleCheckout(ctx context.Context, tenantID, userID uuid.UUID, in SettleInput) (*SettleResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "settle_checkout")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSaleID, in.SaleID.String(),
		"items_count", len(in.Items),
		"distribution_mode", string(in.Distribution.Mode.OrDefault()),
	)

	if err := s.distributor.Precheck(in.Distribution); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	inputs := make([]consignmentapp.RecordSaleInput, 0, len(in.Items))
	for _, item := range in.Items {
		inputs = append(inputs, consignmentapp.RecordSaleInput{
			SaleID:          in.SaleID,
			ConsignorID:     item.ConsignorID,
			VariantID:       item.VariantID,
			SalePrice:       item.SalePrice,
			CommissionRate:  item.CommissionRate,
			CommissionBasis: item.CommissionBasis,
		})
	}

	result := &SettleResult{SaleID: in.SaleID}
	var sales []*consignment.ConsignmentSale
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		recorded, recordedSales, err := s.recorder.RecordSalesIn(ctx, repos, tenantID, userID, inputs)
		if err != nil {
			return err
		}
		rows, err := s.distributor.RecordIn(ctx, repos, tenantID, in.SaleID, in.NetProfit, in.Distribution)
		if err != nil {
			return fmt.Errorf("failed to distribute profit: %w", err)
		}
		result.Consignment = recorded
		result.Distribution = distributionapp.ToSaleDistributionResult(in.SaleID, rows)
		sales = recordedSales
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Checkout settlement rolled back",
			zap.String("sale_id", in.SaleID.String()),
			zap.Error(err))
		return nil, err
	}

	s.recorder.PublishRecorded(ctx, tenantID, sales)
	s.logger.Info("Checkout settled",
		zap.String("sale_id", in.SaleID.String()),
		zap.Int("consignment_rows", len(result.Consignment.Recorded)),
		zap.Int("distribution_rows", len(result.Distribution.Shares)),
	)
	return result, nil
}
