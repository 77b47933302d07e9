package v1

import (
	"net/http"

	"glowify-backend/internal/delivery/http/middleware"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Catalog      *CatalogHandler
	AdminCatalog *AdminCatalogHandler
	Coupon       *CouponHandler
	AdminCoupon  *AdminCouponHandler
	Order        *OrderHandler
	AdminOrder   *AdminOrderHandler
	Cart         *CartHandler
	CustomOrder  *CustomOrderHandler
	Upload       *UploadHandler
	Config       *ConfigHandler
	Sitemap      *SitemapHandler
	AdminStats   *AdminStatsHandler
	Profile      *ProfileHandler
}

func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	auth := func(f http.HandlerFunc) http.Handler { return middleware.AuthMiddleware(f) }
	optional := func(f http.HandlerFunc) http.Handler { return middleware.OptionalAuth(f) }
	admin := middleware.Admin

	// Config (Public)
	mux.HandleFunc("GET /api/v1/config/enums", h.Config.GetEnums)

	// Catalog (Public)
	mux.Handle("GET /sitemap.xml", h.Sitemap)
	mux.HandleFunc("GET /api/v1/products", h.Catalog.ListProducts)
	mux.HandleFunc("GET /api/v1/products/top-selling", h.Catalog.TopSelling)
	mux.HandleFunc("GET /api/v1/products/{id}", h.Catalog.GetProduct)
	mux.HandleFunc("GET /api/v1/anime", h.Catalog.AnimeNames)
	mux.HandleFunc("GET /api/v1/products/{id}/reviews", h.Catalog.GetReviews)
	mux.Handle("POST /api/v1/products/{id}/reviews", auth(h.Catalog.AddReview))

	// Coupons (Public)
	mux.HandleFunc("POST /api/v1/coupons/validate", h.Coupon.ValidateCoupon)

	// Orders
	mux.Handle("POST /api/v1/orders", optional(h.Order.PlaceOrder))
	mux.Handle("GET /api/v1/orders", auth(h.Order.GetMyOrders))
	mux.Handle("GET /api/v1/orders/{id}/handoff", auth(h.Order.GetHandoff))

	// Account (Protected)
	mux.Handle("GET /api/v1/me", auth(h.Profile.GetMe))
	mux.Handle("DELETE /api/v1/me", auth(h.Profile.DeleteAccount))
	mux.Handle("GET /api/v1/me/admin", auth(h.Profile.IsAdmin))
	mux.Handle("GET /api/v1/me/profile", auth(h.Profile.GetProfile))
	mux.Handle("PUT /api/v1/me/profile", auth(h.Profile.UpdateProfile))
	mux.Handle("PUT /api/v1/me/address", auth(h.Profile.UpdateDefaultAddress))
	mux.Handle("GET /api/v1/me/orders", auth(h.Profile.GetMyOrders))
	mux.Handle("GET /api/v1/me/can-delete", auth(h.Profile.CanDeleteAccount))

	// Cart (Protected)
	mux.Handle("GET /api/v1/cart", auth(h.Cart.GetCart))
	mux.Handle("POST /api/v1/cart", auth(h.Cart.AddToCart))
	mux.Handle("PUT /api/v1/cart", auth(h.Cart.UpdateCart))
	mux.Handle("DELETE /api/v1/cart", auth(h.Cart.ClearCart))
	mux.Handle("DELETE /api/v1/cart/{productId}", auth(h.Cart.RemoveFromCart))

	// Custom frame orders
	mux.Handle("POST /api/v1/custom-orders/images", optional(h.Upload.UploadFrameImages))
	mux.Handle("POST /api/v1/custom-orders", optional(h.CustomOrder.CreateCustomOrder))
	mux.Handle("GET /api/v1/custom-orders", auth(h.CustomOrder.GetMyCustomOrders))

	// Admin Product Management
	mux.Handle("GET /api/v1/admin/products", admin(h.AdminCatalog.ListProducts))
	mux.Handle("GET /api/v1/admin/products/{id}", admin(h.AdminCatalog.GetProduct))
	mux.Handle("POST /api/v1/admin/products", admin(h.AdminCatalog.CreateProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}", admin(h.AdminCatalog.UpdateProduct))
	mux.Handle("PATCH /api/v1/admin/products/{id}/toggle", admin(h.AdminCatalog.ToggleProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", admin(h.AdminCatalog.DeleteProduct))
	mux.Handle("POST /api/v1/admin/upload", admin(h.Upload.UploadFile))

	// Admin Coupons
	mux.Handle("GET /api/v1/admin/coupons", admin(h.AdminCoupon.ListCoupons))
	mux.Handle("POST /api/v1/admin/coupons", admin(h.AdminCoupon.CreateCoupon))
	mux.Handle("GET /api/v1/admin/coupons/{id}", admin(h.AdminCoupon.GetCoupon))
	mux.Handle("PATCH /api/v1/admin/coupons/{id}/toggle", admin(h.AdminCoupon.ToggleCoupon))

	// Admin Orders
	mux.Handle("GET /api/v1/admin/orders", admin(h.AdminOrder.ListOrders))
	mux.Handle("GET /api/v1/admin/orders/{id}", admin(h.AdminOrder.GetOrder))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", admin(h.AdminOrder.UpdateStatus))
	mux.Handle("GET /api/v1/admin/custom-orders", admin(h.AdminOrder.ListCustomOrders))
	mux.Handle("PATCH /api/v1/admin/custom-orders/{id}/status", admin(h.AdminOrder.UpdateCustomOrderStatus))

	// Admin Stats (Analytics)
	mux.Handle("GET /api/v1/admin/stats/kpis", admin(h.AdminStats.GetRevenueKPIs))
	mux.Handle("GET /api/v1/admin/stats/revenue", admin(h.AdminStats.GetDailySales))
	mux.Handle("GET /api/v1/admin/stats/inventory/low-stock", admin(h.AdminStats.GetLowStockProducts))
}
