package router

import (
	"github.com/consignly/backend/internal/interfaces/http/handler"
)

// Handlers bundles every HTTP handler the API mounts
type Handlers struct {
	Consignor    *handler.ConsignorHandler
	Variant      *handler.VariantHandler
	Sale         *handler.SaleHandler
	Payout       *handler.PayoutHandler
	Distribution *handler.DistributionHandler
	Settlement   *handler.SettlementHandler
	Portal       *handler.PortalHandler
	Health       *handler.HealthHandler
}

// ConsignmentRoutes covers consignors, variants, sales and payouts
func ConsignmentRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("consignment", "/consignment")

	consignors := g.Group("consignors", "/consignors")
	consignors.POST("", h.Consignor.Create).
		GET("", h.Consignor.List).
		GET("/:id", h.Consignor.Get).
		PUT("/:id", h.Consignor.Update).
		DELETE("/:id", h.Consignor.Delete).
		POST("/:id/archive", h.Consignor.Archive).
		POST("/:id/unarchive", h.Consignor.Unarchive).
		PUT("/:id/portal-password", h.Consignor.SetPortalPassword)

	variants := g.Group("variants", "/variants")
	variants.POST("", h.Variant.Create).
		GET("", h.Variant.List).
		PUT("/:id/owner", h.Variant.Reassign)

	sales := g.Group("sales", "/sales")
	sales.POST("", h.Sale.Record).
		POST("/bulk", h.Sale.RecordBulk).
		GET("", h.Sale.List)

	payouts := g.Group("payouts", "/payouts")
	payouts.POST("", h.Payout.Process).
		GET("", h.Payout.List).
		GET("/export", h.Payout.Export).
		GET("/:id", h.Payout.Get)

	g.GET("/payment-methods", h.Payout.PaymentMethods)
	return g
}

// DistributionRoutes covers avatars, templates and per-sale splits
func DistributionRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("distribution", "/distribution")

	g.Group("avatars", "/avatars").
		GET("", h.Distribution.ListAvatars).
		POST("", h.Distribution.CreateAvatar).
		PUT("/:id", h.Distribution.UpdateAvatar).
		DELETE("/:id", h.Distribution.DeleteAvatar)

	g.Group("templates", "/templates").
		GET("", h.Distribution.ListTemplates).
		POST("", h.Distribution.CreateTemplate).
		GET("/:id", h.Distribution.GetTemplate).
		PUT("/:id", h.Distribution.UpdateTemplate).
		DELETE("/:id", h.Distribution.DeleteTemplate)

	g.Group("sales", "/sales").
		POST("/:saleId", h.Distribution.RecordForSale).
		GET("/:saleId", h.Distribution.GetForSale)
	return g
}

// CheckoutRoutes covers settlement of completed checkouts
func CheckoutRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("checkout", "/checkout").
		POST("/settlements", h.Settlement.Settle)
}

// PortalRoutes is the consignor self-service surface; the JWT middleware
// skips its prefix
func PortalRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("portal", "/portal").
		POST("/consignors/:id", h.Portal.View)
}

// HealthRoutes serves /health inside the API prefix
func HealthRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("health", "").
		GET("/health", h.Health.Check)
}

// RegisterAPI mounts every domain group on r
func RegisterAPI(r *Router, h Handlers) *Router {
	return r.Register(HealthRoutes(h)).
		Register(ConsignmentRoutes(h)).
		Register(DistributionRoutes(h)).
		Register(CheckoutRoutes(h)).
		Register(PortalRoutes(h))
}
