package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/cache"
	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/metrics"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	couponRepo  domain.CouponRepository
	txManager   domain.TransactionManager
	cache       cache.CacheService
	handoff     HandoffConfig
	maxQuantity int
	now         func() time.Time
}

func NewOrderUsecase(repo domain.OrderRepository, pRepo domain.ProductRepository, cRepo domain.CouponRepository, txManager domain.TransactionManager, cache cache.CacheService, handoff HandoffConfig, maxQuantity int) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:   repo,
		productRepo: pRepo,
		couponRepo:  cRepo,
		txManager:   txManager,
		cache:       cache,
		handoff:     handoff,
		maxQuantity: maxQuantity,
		now:         time.Now,
	}
}

type PlaceOrderRequest struct {
	Customer    domain.Customer    `json:"customer"`
	ProductID   string             `json:"productId"`
	Quantity    int                `json:"quantity"`
	CouponCode  string             `json:"couponCode,omitempty"`
	OrderMethod domain.OrderMethod `json:"orderMethod"`
}

func (r PlaceOrderRequest) validate(maxQuantity int) error {
	if err := r.Customer.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.ProductID) == "" {
		return domain.InvalidInput("productId is required")
	}
	if r.Quantity <= 0 {
		return domain.InvalidInput("quantity must be greater than 0")
	}
	if maxQuantity > 0 && r.Quantity > maxQuantity {
		return domain.InvalidInput("quantity cannot exceed %d", maxQuantity)
	}
	if !r.OrderMethod.Valid() {
		return domain.InvalidInput("orderMethod must be 'whatsapp' or 'email'")
	}
	return nil
}

type PlaceOrderResult struct {
	Order   *domain.Order `json:"order"`
	Handoff Handoff       `json:"handoff"`
}

// PlaceOrder prices and records one order line. The product and coupon rows
// are locked for the whole transaction, so the stock check, coupon check and
// both increments see the same state. On any error nothing is persisted.
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID *string, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if err := req.validate(u.maxQuantity); err != nil {
		return nil, err
	}
	code := domain.NormalizeCouponCode(req.CouponCode)

	var order *domain.Order
	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Product
		product, err := u.productRepo.GetByIDForUpdate(txCtx, req.ProductID)
		if err != nil {
			return err
		}

		// 2. Stock
		if product.Stock < req.Quantity {
			return fmt.Errorf("%w: %d requested, %d available", domain.ErrInsufficientStock, req.Quantity, product.Stock)
		}

		// 3. Original amount
		price := domain.CalculatePrice(product.Price, req.Quantity, decimal.Zero)

		// 4. Coupon, validated against the amount computed above
		var couponID string
		if code != "" {
			res, err := evaluateCode(txCtx, u.couponRepo.GetByCodeForUpdate, code, price.OriginalAmount, u.now())
			if err != nil {
				return err
			}
			recordCouponCheck(txCtx, code, res)
			if !res.Valid {
				return &domain.InvalidCouponError{Code: code, Reason: res.Reason}
			}
			price = domain.CalculatePrice(product.Price, req.Quantity, res.DiscountAmount)
			couponID = res.CouponID
		}

		// 5. Order record
		order = &domain.Order{
			UserID:         userID,
			Customer:       trimCustomer(req.Customer),
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       req.Quantity,
			UnitPrice:      product.Price,
			OriginalAmount: price.OriginalAmount,
			DiscountAmount: price.DiscountAmount,
			TotalAmount:    price.TotalAmount,
			Status:         domain.OrderStatusPending,
			OrderMethod:    req.OrderMethod,
		}
		if couponID != "" {
			order.CouponCode = &code
		}
		if err := u.orderRepo.Create(txCtx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// 6. Stock and sales
		if err := u.productRepo.UpdateStockAndSales(txCtx, product.ID, -req.Quantity, req.Quantity); err != nil {
			return err
		}

		// 7. Coupon usage
		if couponID != "" {
			if err := u.couponRepo.IncrementUsage(txCtx, couponID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.RecordOrderFailure(failureReason(err))
		logger.OrderRejected(ctx, req.ProductID, req.Quantity, err)
		return nil, err
	}

	u.invalidateProduct(order.ProductID)
	metrics.RecordOrderPlaced(string(order.OrderMethod), order.TotalAmount.InexactFloat64())
	logger.OrderPlaced(ctx, order.ID, order.ProductID, order.Quantity, order.TotalAmount.StringFixed(domain.MoneyPlaces), code)

	return &PlaceOrderResult{Order: order, Handoff: u.handoff.ForOrder(order)}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidCoupon):
		return "invalid_coupon"
	}
	return "error"
}

func trimCustomer(c domain.Customer) domain.Customer {
	return domain.Customer{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

func (u *OrderUsecase) invalidateProduct(id string) {
	if u.cache == nil {
		return
	}
	u.cache.Delete(cache.PrefixProduct + id)
	u.cache.Delete(cache.KeyTopSelling)
	u.cache.DeletePrefix(cache.PrefixStats)
}

func (u *OrderUsecase) GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return u.orderRepo.GetByUserID(ctx, userID)
}

// MyOrders splits a customer's orders for the account page.
type MyOrders struct {
	Live      []domain.Order `json:"liveOrders"`
	Completed []domain.Order `json:"completedOrders"`
	All       []domain.Order `json:"allOrders"`
}

func (u *OrderUsecase) GetMyOrderSummary(ctx context.Context, userID string) (*MyOrders, error) {
	all, err := u.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &MyOrders{Live: []domain.Order{}, Completed: []domain.Order{}, All: all}
	for _, o := range all {
		switch {
		case o.Status.Live():
			out.Live = append(out.Live, o)
		case o.Status == domain.OrderStatusCompleted:
			out.Completed = append(out.Completed, o)
		}
	}
	return out, nil
}

// Handoff rebuilds the handoff links for an existing order owned by user.
func (u *OrderUsecase) Handoff(ctx context.Context, user *domain.User, orderID string) (*Handoff, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && (order.UserID == nil || user == nil || *order.UserID != user.ID) {
		return nil, domain.ErrNotFound
	}
	h := u.handoff.ForOrder(order)
	return &h, nil
}

// --- Admin Usecase ---

func (u *OrderUsecase) GetAllOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.InvalidInput("unknown status %q", filter.Status)
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return u.orderRepo.GetAll(ctx, filter)
}

func (u *OrderUsecase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return u.orderRepo.GetByID(ctx, id)
}

// UpdateOrderStatus moves an order forward (pending -> confirmed -> completed).
// Re-sending the current status with notes only updates the notes.
func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus, notes *string) (*domain.Order, error) {
	if !newStatus.Valid() {
		return nil, domain.InvalidInput("unknown status %q", newStatus)
	}

	var updated *domain.Order
	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		order, err := u.orderRepo.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := checkTransition(order.Status, newStatus, notes); err != nil {
			return err
		}
		if err := u.orderRepo.UpdateStatus(txCtx, orderID, newStatus, notes); err != nil {
			return err
		}
		updated, err = u.orderRepo.GetByID(txCtx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info().
		Str("order_id", orderID).
		Str("status", string(newStatus)).
		Msg("Order status updated")
	return updated, nil
}

func checkTransition(cur, next domain.OrderStatus, notes *string) error {
	if cur == next && notes != nil {
		return nil
	}
	if !cur.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, cur, next)
	}
	return nil
}
