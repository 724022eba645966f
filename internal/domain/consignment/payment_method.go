package consignment

import (
	"strings"
	"time"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentMethod identifies a built-in way of paying a consignor
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodPayPal       PaymentMethod = "PAYPAL"
	PaymentMethodVenmo        PaymentMethod = "VENMO"
	PaymentMethodZelle        PaymentMethod = "ZELLE"
	PaymentMethodCashApp      PaymentMethod = "CASH_APP"
	PaymentMethodStoreCredit  PaymentMethod = "STORE_CREDIT"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// StandardPaymentMethods lists the built-in methods in display order
var StandardPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCheck,
	PaymentMethodBankTransfer,
	PaymentMethodPayPal,
	PaymentMethodVenmo,
	PaymentMethodZelle,
	PaymentMethodCashApp,
	PaymentMethodStoreCredit,
	PaymentMethodOther,
}

// IsValid checks if the payment method is one of the built-ins
func (m PaymentMethod) IsValid() bool {
	for _, std := range StandardPaymentMethods {
		if m == std {
			return true
		}
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// NormalizePaymentMethodName trims and collapses inner whitespace
func NormalizePaymentMethodName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// IsStandardPaymentMethod reports whether name is a built-in method, accepting
// "cash app", "Cash-App" and "CASH_APP" alike
func IsStandardPaymentMethod(name string) bool {
	key := strings.ToUpper(NormalizePaymentMethodName(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	return PaymentMethod(key).IsValid()
}

// CustomPaymentMethod is a method name an operator typed that is not built in,
// remembered per user for reuse
type CustomPaymentMethod struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_custom_payment_method,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_custom_payment_method,priority:2"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_custom_payment_method,priority:3"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomPaymentMethod) TableName() string {
	return "custom_payment_methods"
}

// NewCustomPaymentMethod creates a remembered payment method
func NewCustomPaymentMethod(tenantID, userID uuid.UUID, name string) (*CustomPaymentMethod, error) {
	name = NormalizePaymentMethodName(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method name cannot exceed 100 characters")
	}
	if IsStandardPaymentMethod(name) {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Built-in payment methods are not stored")
	}
	return &CustomPaymentMethod{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}
