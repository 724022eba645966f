package distribution

import (
	"time"

	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AvatarInput creates or updates an avatar
type AvatarInput struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Color string `json:"color" binding:"omitempty,max=20"`
}

// AvatarResponse represents an avatar in API responses
type AvatarResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	IsMain    bool      `json:"isMain"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToAvatarResponse converts a domain avatar to its response
func ToAvatarResponse(a *distribution.Avatar) AvatarResponse {
	return AvatarResponse{
		ID:        a.ID,
		Name:      a.Name,
		Color:     a.Color,
		IsMain:    a.IsMain,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ShareInput is one avatar's percentage, in a template or a manual split
type ShareInput struct {
	AvatarID   uuid.UUID       `json:"avatarId" binding:"required"`
	Percentage decimal.Decimal `json:"percentage"`
}

// TemplateInput creates or updates a distribution template
type TemplateInput struct {
	Name        string       `json:"name" binding:"required,min=1,max=100"`
	Description string       `json:"description"`
	Items       []ShareInput `json:"items" binding:"required,min=1,dive"`
}

func (in TemplateInput) shares() []distribution.TemplateShare {
	out := make([]distribution.TemplateShare, 0, len(in.Items))
	for _, item := range in.Items {
		out = append(out, distribution.TemplateShare{AvatarID: item.AvatarID, Percentage: item.Percentage})
	}
	return out
}

// TemplateItemResponse is one line of a template
type TemplateItemResponse struct {
	AvatarID   uuid.UUID       `json:"avatarId"`
	AvatarName string          `json:"avatarName"`
	Percentage decimal.Decimal `json:"percentage"`
	SortOrder  int             `json:"sortOrder"`
}

// TemplateResponse represents a template in API responses
type TemplateResponse struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Items       []TemplateItemResponse `json:"items"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// ToTemplateResponse converts a template, naming avatars from names when the
// items were not loaded with their avatar
func ToTemplateResponse(t *distribution.ProfitDistributionTemplate, names map[uuid.UUID]string) TemplateResponse {
	items := make([]TemplateItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		name := names[item.AvatarID]
		if item.Avatar != nil {
			name = item.Avatar.Name
		}
		items = append(items, TemplateItemResponse{
			AvatarID:   item.AvatarID,
			AvatarName: name,
			Percentage: item.Percentage,
			SortOrder:  item.SortOrder,
		})
	}
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Items:       items,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Request selects how a sale's profit is split
type Request struct {
	Mode       distribution.Mode `json:"mode" binding:"omitempty,oneof=default template manual"`
	TemplateID *uuid.UUID        `json:"templateId"`
	Shares     []ShareInput      `json:"shares" binding:"omitempty,dive"`
}

// RecordInput records the distribution of one sale's net profit
type RecordInput struct {
	SaleID    uuid.UUID       `json:"saleId" binding:"required"`
	NetProfit decimal.Decimal `json:"netProfit"`
	Request
}

// SaleDistributionResponse is one recorded share
type SaleDistributionResponse struct {
	AvatarID     uuid.UUID         `json:"avatarId"`
	AvatarName   string            `json:"avatarName"`
	Percentage   decimal.Decimal   `json:"percentage"`
	Amount       decimal.Decimal   `json:"amount"`
	Mode         distribution.Mode `json:"mode"`
	TemplateID   *uuid.UUID        `json:"templateId,omitempty"`
	TemplateName string            `json:"templateName,omitempty"`
}

// SaleDistributionResult is the full snapshot for one sale
type SaleDistributionResult struct {
	SaleID    uuid.UUID                  `json:"saleId"`
	NetProfit decimal.Decimal            `json:"netProfit"`
	Shares    []SaleDistributionResponse `json:"shares"`
}

// ToSaleDistributionResult converts snapshot rows of one sale
func ToSaleDistributionResult(saleID uuid.UUID, rows []distribution.SaleDistribution) *SaleDistributionResult {
	out := &SaleDistributionResult{
		SaleID:    saleID,
		NetProfit: decimal.Zero,
		Shares:    make([]SaleDistributionResponse, 0, len(rows)),
	}
	for _, r := range rows {
		out.NetProfit = r.NetProfit
		out.Shares = append(out.Shares, SaleDistributionResponse{
			AvatarID:     r.AvatarID,
			AvatarName:   r.AvatarName,
			Percentage:   r.Percentage,
			Amount:       r.Amount,
			Mode:         r.Mode,
			TemplateID:   r.TemplateID,
			TemplateName: r.TemplateName,
		})
	}
	return out
}
