package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/internal/repository/memory"
)

func placeReq(productID string, qty int, code string) PlaceOrderRequest {
	return PlaceOrderRequest{
		Customer:    testCustomer,
		ProductID:   productID,
		Quantity:    qty,
		CouponCode:  code,
		OrderMethod: domain.OrderMethodWhatsApp,
	}
}

func TestPlaceOrderWithoutCoupon(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	p := seedProduct(t, store, "500", 10)

	res, err := uc.PlaceOrder(context.Background(), nil, placeReq(p.ID, 2, ""))
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	o := res.Order
	if !o.OriginalAmount.Equal(dec("1000")) || !o.DiscountAmount.IsZero() || !o.TotalAmount.Equal(dec("1000")) {
		t.Fatalf("unexpected amounts: %s/%s/%s", o.OriginalAmount, o.DiscountAmount, o.TotalAmount)
	}
	if o.Status != domain.OrderStatusPending || o.CouponCode != nil || o.UserID != nil {
		t.Fatalf("unexpected order: %+v", o)
	}

	got := mustProduct(t, store, p.ID)
	if got.Stock != 8 || got.TotalSales != 2 {
		t.Fatalf("expected stock 8 and sales 2, got %d and %d", got.Stock, got.TotalSales)
	}

	if !strings.HasPrefix(res.Handoff.URL(), "https://wa.me/919876543210?text=") {
		t.Fatalf("unexpected handoff url: %s", res.Handoff.URL())
	}
}

func TestPlaceOrderWithPercentageCoupon(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	p := seedProduct(t, store, "500", 10)
	c := seedCoupon(t, store, domain.Coupon{
		Code:          "SAVE20",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: dec("20"),
		IsActive:      true,
		UsageLimit:    intPtr(5),
	})

	userID := "user-1"
	res, err := uc.PlaceOrder(context.Background(), &userID, placeReq(p.ID, 2, " save20 "))
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	o := res.Order
	if !o.DiscountAmount.Equal(dec("200")) || !o.TotalAmount.Equal(dec("800")) {
		t.Fatalf("expected 200 off and 800 total, got %s and %s", o.DiscountAmount, o.TotalAmount)
	}
	if o.CouponCode == nil || *o.CouponCode != "SAVE20" {
		t.Fatalf("coupon code not recorded: %v", o.CouponCode)
	}

	got, _ := store.Coupons().GetByID(context.Background(), c.ID)
	if got.UsedCount != 1 {
		t.Fatalf("expected usedCount 1, got %d", got.UsedCount)
	}

	mine, err := uc.GetMyOrders(context.Background(), userID)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected one order for user, got %d (%v)", len(mine), err)
	}
}

func TestPlaceOrderFixedCouponFloorsAtZero(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	p := seedProduct(t, store, "50", 3)
	seedCoupon(t, store, domain.Coupon{
		Code:          "FLAT100",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: dec("100"),
		IsActive:      true,
	})

	res, err := uc.PlaceOrder(context.Background(), nil, placeReq(p.ID, 1, "FLAT100"))
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if !res.Order.DiscountAmount.Equal(dec("50")) || !res.Order.TotalAmount.IsZero() {
		t.Fatalf("expected 50 off and 0 total, got %s and %s", res.Order.DiscountAmount, res.Order.TotalAmount)
	}
}

func TestPlaceOrderExpiredCouponChangesNothing(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	cu := NewCouponUsecase(store.Coupons())
	p := seedProduct(t, store, "500", 10)
	seedCoupon(t, store, domain.Coupon{
		Code:          "OLD10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: dec("10"),
		IsActive:      true,
		ValidFrom:     time.Now().Add(-48 * time.Hour),
		ValidUntil:    time.Now().Add(-24 * time.Hour),
	})

	v, err := cu.ValidateCoupon(context.Background(), "OLD10", dec("1000"))
	if err != nil {
		t.Fatalf("ValidateCoupon failed: %v", err)
	}
	if v.Valid || v.Reason != domain.CouponReasonExpired {
		t.Fatalf("expected expired, got %+v", v)
	}

	_, err = uc.PlaceOrder(context.Background(), nil, placeReq(p.ID, 2, "OLD10"))
	var invalid *domain.InvalidCouponError
	if !errors.As(err, &invalid) || invalid.Reason != domain.CouponReasonExpired {
		t.Fatalf("expected InvalidCouponError(expired), got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidCoupon) {
		t.Fatal("InvalidCouponError should match ErrInvalidCoupon")
	}

	if got := mustProduct(t, store, p.ID); got.Stock != 10 || got.TotalSales != 0 {
		t.Fatalf("product mutated: stock=%d sales=%d", got.Stock, got.TotalSales)
	}
	if n := orderCount(t, store); n != 0 {
		t.Fatalf("expected no orders, got %d", n)
	}
}

func TestPlaceOrderUnknownCoupon(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	p := seedProduct(t, store, "500", 10)

	_, err := uc.PlaceOrder(context.Background(), nil, placeReq(p.ID, 1, "NOPE"))
	var invalid *domain.InvalidCouponError
	if !errors.As(err, &invalid) || invalid.Reason != domain.CouponReasonInvalidCode {
		t.Fatalf("expected invalid code, got %v", err)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	p := seedProduct(t, store, "500", 3)

	_, err := uc.PlaceOrder(context.Background(), nil, placeReq(p.ID, 4, ""))
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := mustProduct(t, store, p.ID); got.Stock != 3 || got.TotalSales != 0 {
		t.Fatalf("product mutated: stock=%d sales=%d", got.Stock, got.TotalSales)
	}
	if n := orderCount(t, store); n != 0 {
		t.Fatalf("expected no orders, got %d", n)
	}
}

func TestPlaceOrderRejectsBadInput(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	p := seedProduct(t, store, "500", 3)

	cases := map[string]PlaceOrderRequest{
		"zero quantity": placeReq(p.ID, 0, ""),
		"too many":      placeReq(p.ID, 101, ""),
		"no product":    placeReq("", 1, ""),
		"bad method": func() PlaceOrderRequest {
			r := placeReq(p.ID, 1, "")
			r.OrderMethod = "fax"
			return r
		}(),
		"no customer": func() PlaceOrderRequest {
			r := placeReq(p.ID, 1, "")
			r.Customer = domain.Customer{}
			return r
		}(),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := uc.PlaceOrder(context.Background(), nil, req); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if _, err := uc.PlaceOrder(context.Background(), nil, placeReq("missing", 1, "")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlaceOrderConcurrentStock(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	p := seedProduct(t, store, "100", 5)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.PlaceOrder(context.Background(), nil, placeReq(p.ID, 1, ""))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				fail++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 5 || fail != 15 {
		t.Fatalf("expected 5 successes and 15 failures, got %d and %d", ok, fail)
	}
	if got := mustProduct(t, store, p.ID); got.Stock != 0 || got.TotalSales != 5 {
		t.Fatalf("expected stock 0 and sales 5, got %d and %d", got.Stock, got.TotalSales)
	}
}

func TestPlaceOrderConcurrentCouponLimit(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	p := seedProduct(t, store, "100", 100)
	c := seedCoupon(t, store, domain.Coupon{
		Code:          "FIRST3",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: dec("10"),
		IsActive:      true,
		UsageLimit:    intPtr(3),
	})

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.PlaceOrder(context.Background(), nil, placeReq(p.ID, 1, "FIRST3"))
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
				return
			}
			var invalid *domain.InvalidCouponError
			if !errors.As(err, &invalid) || invalid.Reason != domain.CouponReasonUsageReached {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 3 {
		t.Fatalf("expected 3 redemptions, got %d", ok)
	}
	got, _ := store.Coupons().GetByID(context.Background(), c.ID)
	if got.UsedCount != 3 {
		t.Fatalf("expected usedCount 3, got %d", got.UsedCount)
	}
	if n := orderCount(t, store); n != 3 {
		t.Fatalf("expected 3 orders, got %d", n)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	p := seedProduct(t, store, "500", 10)
	res, err := uc.PlaceOrder(context.Background(), nil, placeReq(p.ID, 1, ""))
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	id := res.Order.ID

	o, err := uc.UpdateOrderStatus(context.Background(), id, domain.OrderStatusConfirmed, strPtr("called customer"))
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if o.Status != domain.OrderStatusConfirmed || o.AdminNotes != "called customer" {
		t.Fatalf("unexpected order: %+v", o)
	}

	if _, err := uc.UpdateOrderStatus(context.Background(), id, domain.OrderStatusPending, nil); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := uc.UpdateOrderStatus(context.Background(), id, domain.OrderStatusConfirmed, nil); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("same status without notes should fail, got %v", err)
	}

	o, err = uc.UpdateOrderStatus(context.Background(), id, domain.OrderStatusConfirmed, strPtr("shipping monday"))
	if err != nil || o.AdminNotes != "shipping monday" {
		t.Fatalf("notes update failed: %v", err)
	}
	if _, err := uc.UpdateOrderStatus(context.Background(), id, "shipped", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestOrderHandoffOwnership(t *testing.T) {
	store := memory.NewStore()
	uc := newOrderUsecase(store)
	p := seedProduct(t, store, "500", 10)
	owner := "user-1"
	res, err := uc.PlaceOrder(context.Background(), &owner, placeReq(p.ID, 1, ""))
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if _, err := uc.Handoff(context.Background(), &domain.User{ID: owner}, res.Order.ID); err != nil {
		t.Fatalf("owner should see handoff: %v", err)
	}
	if _, err := uc.Handoff(context.Background(), &domain.User{ID: "admin", Role: domain.RoleAdmin}, res.Order.ID); err != nil {
		t.Fatalf("admin should see handoff: %v", err)
	}
	if _, err := uc.Handoff(context.Background(), &domain.User{ID: "other"}, res.Order.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}
