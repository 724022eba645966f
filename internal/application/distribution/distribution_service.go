package distribution

import (
	"context"
	"fmt"

	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/consignly/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DistributionService splits a sale's net profit across avatars and stores the snapshot
type DistributionService struct {
	txScope TransactionScope
	logger  *zap.Logger
}

// NewDistributionService creates a new DistributionService
func NewDistributionService(txScope TransactionScope, logger *zap.Logger) *DistributionService {
	return &DistributionService{txScope: txScope, logger: logger}
}

// Precheck validates what can be checked without loading anything: the mode,
// a template id for template mode, and the manual share list.
func (s *DistributionService) Precheck(req Request) error {
	switch req.Mode.OrDefault() {
	case distribution.ModeDefault:
		return nil
	case distribution.ModeTemplate:
		if req.TemplateID == nil || *req.TemplateID == uuid.Nil {
			return shared.NewDomainError("INVALID_INPUT", "templateId is required for template mode")
		}
		return nil
	case distribution.ModeManual:
		return distribution.ValidateShares(manualShares(req.Shares))
	default:
		return shared.NewDomainError("INVALID_INPUT", "Unknown distribution mode: "+string(req.Mode))
	}
}

// RecordForSale distributes netProfit for one sale, replacing any earlier snapshot
func (s *DistributionService) RecordForSale(ctx context.Context, tenantID uuid.UUID, in RecordInput) (*SaleDistributionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "distribution", "record")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSaleID, in.SaleID.String(),
		"mode", string(in.Mode.OrDefault()),
	)

	if err := s.Precheck(in.Request); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var rows []distribution.SaleDistribution
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		rows, err = s.RecordIn(ctx, repos, tenantID, in.SaleID, in.NetProfit, in.Request)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return ToSaleDistributionResult(in.SaleID, rows), nil
}

// RecordIn is RecordForSale against repositories of a caller-owned transaction
func (s *DistributionService) RecordIn(ctx context.Context, repos Repositories, tenantID, saleID uuid.UUID, netProfit decimal.Decimal, req Request) ([]distribution.SaleDistribution, error) {
	if err := distribution.ValidateNetProfit(netProfit); err != nil {
		return nil, err
	}
	mode := req.Mode.OrDefault()
	shares, template, err := s.resolve(ctx, repos, tenantID, mode, req)
	if err != nil {
		return nil, err
	}
	if err := distribution.ValidateShares(shares); err != nil {
		return nil, err
	}

	rows := distribution.Snapshot(tenantID, saleID, netProfit, mode, template, distribution.Distribute(netProfit, shares))
	if err := repos.SaleDistributions().ReplaceForSale(ctx, tenantID, saleID, rows); err != nil {
		return nil, fmt.Errorf("failed to save sale distribution: %w", err)
	}

	s.logger.Debug("Sale profit distributed",
		zap.String("sale_id", saleID.String()),
		zap.String("mode", string(mode)),
		zap.String("net_profit", netProfit.String()),
		zap.Int("shares", len(rows)),
	)
	return rows, nil
}

// GetForSale returns the recorded snapshot for a sale
func (s *DistributionService) GetForSale(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleDistributionResult, error) {
	var rows []distribution.SaleDistribution
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		rows, err = repos.SaleDistributions().FindBySale(ctx, tenantID, saleID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load sale distribution: %w", err)
	}
	return ToSaleDistributionResult(saleID, rows), nil
}

func (s *DistributionService) resolve(ctx context.Context, repos Repositories, tenantID uuid.UUID, mode distribution.Mode, req Request) ([]distribution.Share, *distribution.ProfitDistributionTemplate, error) {
	switch mode {
	case distribution.ModeTemplate:
		t, err := LoadTemplate(ctx, repos, tenantID, *req.TemplateID)
		if err != nil {
			return nil, nil, err
		}
		names, err := AvatarNames(ctx, repos, tenantID, t.AvatarIDs())
		if err != nil {
			return nil, nil, err
		}
		return t.Shares(names), t, nil

	case distribution.ModeManual:
		shares := manualShares(req.Shares)
		if err := distribution.ValidateShares(shares); err != nil {
			return nil, nil, err
		}
		ids := make([]uuid.UUID, 0, len(shares))
		for _, sh := range shares {
			ids = append(ids, sh.ParticipantID)
		}
		names, err := AvatarNames(ctx, repos, tenantID, ids)
		if err != nil {
			return nil, nil, err
		}
		for i := range shares {
			shares[i].Name = names[shares[i].ParticipantID]
		}
		return shares, nil, nil

	default:
		main, err := EnsureMainAvatar(ctx, repos, tenantID, s.logger)
		if err != nil {
			return nil, nil, err
		}
		return []distribution.Share{main.FullShare()}, nil, nil
	}
}

func manualShares(in []ShareInput) []distribution.Share {
	out := make([]distribution.Share, 0, len(in))
	for _, sh := range in {
		out = append(out, distribution.Share{ParticipantID: sh.AvatarID, Percentage: sh.Percentage})
	}
	return out
}
