package consignment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/consignly/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const portalHistoryLimit = 100

// ConsignorService manages consignors and their portal access
type ConsignorService struct {
	repos       Repositories
	txScope     TransactionScope
	hasher      PasswordHasher
	publisher   shared.EventPublisher
	defaultRate decimal.Decimal
	logger      *zap.Logger
}

// NewConsignorService creates a new ConsignorService. defaultRate applies to
// new consignors created without a commission rate. txScope guards deletion.
func NewConsignorService(repos Repositories, txScope TransactionScope, hasher PasswordHasher, publisher shared.EventPublisher, defaultRate decimal.Decimal, logger *zap.Logger) *ConsignorService {
	if defaultRate.IsZero() {
		defaultRate = consignment.DefaultCommissionRate
	}
	return &ConsignorService{
		repos:       repos,
		txScope:     txScope,
		hasher:      hasher,
		publisher:   publisher,
		defaultRate: defaultRate,
		logger:      logger,
	}
}

// Create registers a consignor
func (s *ConsignorService) Create(ctx context.Context, tenantID, userID uuid.UUID, in CreateConsignorInput) (*ConsignorResponse, error) {
	rate := s.defaultRate
	if in.CommissionRate != nil {
		rate = *in.CommissionRate
	}
	c, err := consignment.NewConsignor(tenantID, in.Name, consignment.PayoutTerms{
		Method:           in.PayoutMethod,
		CommissionRate:   rate,
		FixedMarkup:      in.FixedMarkup,
		MarkupPercentage: in.MarkupPercentage,
	})
	if err != nil {
		return nil, err
	}
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Notes = in.Notes
	c.SetCreatedBy(userID)

	if err := s.repos.Consignors().Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save consignor: %w", err)
	}
	publishEvents(ctx, s.publisher, s.logger, c)

	resp := ToConsignorResponse(c)
	return &resp, nil
}

// Get returns a consignor with its pending and paid totals
func (s *ConsignorService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ConsignorResponse, error) {
	c, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	pending, err := s.payoutTotal(ctx, tenantID, id, consignment.PayoutStatusPending)
	if err != nil {
		return nil, err
	}
	paid, err := s.payoutTotal(ctx, tenantID, id, consignment.PayoutStatusPaid)
	if err != nil {
		return nil, err
	}

	resp := ToConsignorResponse(c)
	resp.PendingTotal = &pending
	resp.PaidTotal = &paid
	return &resp, nil
}

// List returns a page of consignors
func (s *ConsignorService) List(ctx context.Context, tenantID uuid.UUID, filter consignment.ConsignorFilter) ([]ConsignorResponse, int64, error) {
	filter.Filter = filter.Filter.Normalize()
	consignors, total, err := s.repos.Consignors().FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list consignors: %w", err)
	}
	out := make([]ConsignorResponse, 0, len(consignors))
	for i := range consignors {
		out = append(out, ToConsignorResponse(&consignors[i]))
	}
	return out, total, nil
}

// Update replaces contact details and payout terms
func (s *ConsignorService) Update(ctx context.Context, tenantID, id uuid.UUID, in UpdateConsignorInput) (*ConsignorResponse, error) {
	c, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateContact(in.Name, in.Email, in.Phone, in.Notes); err != nil {
		return nil, err
	}
	if err := c.UpdateTerms(consignment.PayoutTerms{
		Method:           in.PayoutMethod,
		CommissionRate:   in.CommissionRate,
		FixedMarkup:      in.FixedMarkup,
		MarkupPercentage: in.MarkupPercentage,
	}); err != nil {
		return nil, err
	}
	if err := s.repos.Consignors().SaveWithLock(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update consignor: %w", err)
	}
	resp := ToConsignorResponse(c)
	return &resp, nil
}

// Archive soft-deletes a consignor. Pending sales stay payable.
func (s *ConsignorService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*ConsignorResponse, error) {
	c, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Archive(); err != nil {
		return nil, err
	}
	if err := s.repos.Consignors().SaveWithLock(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to archive consignor: %w", err)
	}
	publishEvents(ctx, s.publisher, s.logger, c)
	resp := ToConsignorResponse(c)
	return &resp, nil
}

// Unarchive restores an archived consignor
func (s *ConsignorService) Unarchive(ctx context.Context, tenantID, id uuid.UUID) (*ConsignorResponse, error) {
	c, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Unarchive(); err != nil {
		return nil, err
	}
	if err := s.repos.Consignors().SaveWithLock(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to unarchive consignor: %w", err)
	}
	resp := ToConsignorResponse(c)
	return &resp, nil
}

// Delete hard-deletes a consignor whose sales are all paid. The consignor row
// stays locked from the unpaid check until the delete, so a sale recorded
// concurrently either lands first and blocks the delete or finds no consignor.
func (s *ConsignorService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "consignor", "delete")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrConsignorID, id.String())

	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		c, err := repos.Consignors().FindByIDForTenantForUpdate(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return consignment.ErrConsignorNotFound
			}
			return fmt.Errorf("failed to lock consignor: %w", err)
		}
		unpaid, err := repos.Sales().CountUnpaidByConsignor(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("failed to count unpaid sales: %w", err)
		}
		if err := c.EnsureDeletable(unpaid); err != nil {
			return err
		}
		if err := repos.Consignors().Delete(ctx, tenantID, id); err != nil {
			return fmt.Errorf("failed to delete consignor: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.logger.Info("Consignor deleted", zap.String("consignor_id", id.String()))
	return nil
}

// SetPortalPassword stores a bcrypt hash of password. An empty password
// revokes portal access.
func (s *ConsignorService) SetPortalPassword(ctx context.Context, tenantID, id uuid.UUID, password string) error {
	c, err := s.load(ctx, tenantID, id)
	if err != nil {
		return err
	}
	hash := ""
	if password != "" {
		if len(password) < 6 {
			return shared.NewDomainError("INVALID_PASSWORD", "Portal password must be at least 6 characters")
		}
		hash, err = s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash portal password: %w", err)
		}
	}
	c.SetPortalPasswordHash(hash)
	if err := s.repos.Consignors().SaveWithLock(ctx, c); err != nil {
		return fmt.Errorf("failed to save portal password: %w", err)
	}
	return nil
}

// PortalView is the public, password-protected read of one consignor's account.
// Unknown consignors, missing passwords and wrong passwords are all reported
// as the same access error.
func (s *ConsignorService) PortalView(ctx context.Context, id uuid.UUID, password string) (*PortalView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "consignor", "portal_view")
	defer span.End()

	c, err := s.repos.Consignors().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, consignment.ErrPortalAccessDenied
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load consignor: %w", err)
	}
	if !c.HasPortalAccess() || password == "" || !s.hasher.Compare(c.PortalPasswordHash, password) {
		telemetry.AddEvent(span, "portal_access_denied", telemetry.SpanAttrConsignorID, id.String())
		return nil, consignment.ErrPortalAccessDenied
	}

	view := &PortalView{ConsignorID: c.ID, Name: c.Name}
	tenantID := c.TenantID

	all, err := s.repos.Sales().Totals(ctx, tenantID, consignment.ConsignmentSaleFilter{ConsignorID: &c.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load sale totals: %w", err)
	}
	view.Stats.TotalSales = all.Count
	view.Stats.TotalSold = all.TotalAmount
	if view.Stats.TotalPaid, err = s.payoutTotal(ctx, tenantID, c.ID, consignment.PayoutStatusPaid); err != nil {
		return nil, err
	}
	if view.Stats.TotalPending, err = s.payoutTotal(ctx, tenantID, c.ID, consignment.PayoutStatusPending); err != nil {
		return nil, err
	}

	history, err := s.repos.Sales().FindAllForTenant(ctx, tenantID, consignment.ConsignmentSaleFilter{
		Filter:      shared.Filter{Page: 1, PageSize: portalHistoryLimit, OrderBy: "created_at", OrderDir: "desc"},
		ConsignorID: &c.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load sale history: %w", err)
	}
	view.Sales = make([]PortalSale, 0, len(history))
	for _, sale := range history {
		view.Sales = append(view.Sales, PortalSale{
			ID:              sale.ID,
			SalePrice:       sale.SalePrice,
			ConsignorPayout: sale.ConsignorPayout,
			PayoutStatus:    sale.PayoutStatus,
			PaidAt:          sale.PaidAt,
			SoldAt:          sale.CreatedAt,
		})
	}

	unsold := false
	stock, total, err := s.repos.Variants().FindAllForTenant(ctx, tenantID, consignment.VariantFilter{
		Filter:      shared.Filter{Page: 1, PageSize: portalHistoryLimit, OrderBy: "created_at", OrderDir: "desc"},
		ConsignorID: &c.ID,
		IsSold:      &unsold,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	view.Stats.ItemsInStock = total
	view.Inventory = make([]VariantResponse, 0, len(stock))
	for i := range stock {
		view.Inventory = append(view.Inventory, ToVariantResponse(&stock[i]))
	}
	return view, nil
}

func (s *ConsignorService) load(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Consignor, error) {
	c, err := s.repos.Consignors().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, consignment.ErrConsignorNotFound
		}
		return nil, fmt.Errorf("failed to load consignor: %w", err)
	}
	return c, nil
}

func (s *ConsignorService) payoutTotal(ctx context.Context, tenantID, consignorID uuid.UUID, status consignment.PayoutStatus) (decimal.Decimal, error) {
	totals, err := s.repos.Sales().Totals(ctx, tenantID, consignment.ConsignmentSaleFilter{
		ConsignorID: &consignorID,
		Status:      &status,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load %s totals: %w", status, err)
	}
	return totals.TotalPayout, nil
}
