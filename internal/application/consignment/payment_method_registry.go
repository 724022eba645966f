package consignment

import (
	"context"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentMethodRegistry remembers payment method names operators type that
// are not built in, so they can be offered again
type PaymentMethodRegistry struct {
	repo   consignment.CustomPaymentMethodRepository
	logger *zap.Logger
}

// NewPaymentMethodRegistry creates a new PaymentMethodRegistry
func NewPaymentMethodRegistry(repo consignment.CustomPaymentMethodRepository, logger *zap.Logger) *PaymentMethodRegistry {
	return &PaymentMethodRegistry{repo: repo, logger: logger}
}

// Remember stores method for the user unless it is built in or already known.
// It never fails the caller; lookup and insert errors are only logged.
func (r *PaymentMethodRegistry) Remember(ctx context.Context, tenantID, userID uuid.UUID, method string) {
	name := consignment.NormalizePaymentMethodName(method)
	if name == "" || userID == uuid.Nil || consignment.IsStandardPaymentMethod(name) {
		return
	}

	exists, err := r.repo.ExistsByName(ctx, tenantID, userID, name)
	if err != nil {
		r.logger.Warn("Failed to look up custom payment method", zap.String("method", name), zap.Error(err))
		return
	}
	if exists {
		return
	}

	pm, err := consignment.NewCustomPaymentMethod(tenantID, userID, name)
	if err != nil {
		r.logger.Warn("Rejected custom payment method", zap.String("method", name), zap.Error(err))
		return
	}
	if err := r.repo.Create(ctx, pm); err != nil {
		r.logger.Warn("Failed to remember custom payment method", zap.String("method", name), zap.Error(err))
		return
	}
	r.logger.Debug("Remembered custom payment method", zap.String("method", name), zap.String("user_id", userID.String()))
}

// List returns the built-in methods followed by the user's remembered ones
func (r *PaymentMethodRegistry) List(ctx context.Context, tenantID, userID uuid.UUID) ([]PaymentMethodOption, error) {
	options := make([]PaymentMethodOption, 0, len(consignment.StandardPaymentMethods))
	for _, m := range consignment.StandardPaymentMethods {
		options = append(options, PaymentMethodOption{Name: m.String()})
	}
	if userID == uuid.Nil {
		return options, nil
	}

	custom, err := r.repo.FindByUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	for _, m := range custom {
		options = append(options, PaymentMethodOption{Name: m.Name, IsCustom: true})
	}
	return options, nil
}
