package domain

// Order Statuses
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
)

// Order Methods (handoff channel, no payment gateway)
const (
	OrderMethodWhatsApp OrderMethod = "whatsapp"
	OrderMethodEmail    OrderMethod = "email"
)

// Roles
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Product sort keys
const (
	SortNewest     = "newest"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortPopularity = "popularity"
	SortRating     = "rating"
)

// List Exports for API
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusCompleted,
}

var OrderMethods = []OrderMethod{
	OrderMethodWhatsApp,
	OrderMethodEmail,
}

var FrameSizes = []string{
	"8x10",
	"11x14",
	"16x20",
	"20x24",
	"24x36",
}

var ProductSorts = []string{
	SortNewest,
	SortPriceAsc,
	SortPriceDesc,
	SortPopularity,
	SortRating,
}
