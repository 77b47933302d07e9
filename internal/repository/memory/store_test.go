package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"glowify-backend/internal/domain"

	"github.com/shopspring/decimal"
)

func seedProduct(t *testing.T, s *Store, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: "Poster", Price: decimal.NewFromInt(500), Stock: stock, IsActive: true}
	if err := s.Products().Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func TestDoRollsBackOnError(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, 5)
	boom := errors.New("boom")

	err := s.Do(context.Background(), func(ctx context.Context) error {
		if err := s.Products().UpdateStockAndSales(ctx, p.ID, -2, 2); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := s.Products().GetByID(context.Background(), p.ID)
	if got.Stock != 5 || got.TotalSales != 0 {
		t.Fatalf("rollback failed: stock=%d sales=%d", got.Stock, got.TotalSales)
	}
}

func TestDoRollsBackOnPanic(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, 5)

	func() {
		defer func() { _ = recover() }()
		_ = s.Do(context.Background(), func(ctx context.Context) error {
			_ = s.Products().UpdateStockAndSales(ctx, p.ID, -5, 5)
			panic("boom")
		})
	}()

	got, _ := s.Products().GetByID(context.Background(), p.ID)
	if got.Stock != 5 {
		t.Fatalf("rollback after panic failed: stock=%d", got.Stock)
	}
	// The store must still be usable.
	if err := s.Do(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("store unusable after panic: %v", err)
	}
}

func TestNestedDoJoinsOuterTransaction(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, 5)

	err := s.Do(context.Background(), func(ctx context.Context) error {
		if err := s.Do(ctx, func(ctx context.Context) error {
			return s.Products().UpdateStockAndSales(ctx, p.ID, -1, 1)
		}); err != nil {
			return err
		}
		return errors.New("outer fails")
	})
	if err == nil {
		t.Fatal("expected outer error")
	}
	got, _ := s.Products().GetByID(context.Background(), p.ID)
	if got.Stock != 5 {
		t.Fatalf("inner write should roll back with the outer transaction, stock=%d", got.Stock)
	}
}

func TestStockNeverNegativeUnderConcurrency(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Do(context.Background(), func(ctx context.Context) error {
				return s.Products().UpdateStockAndSales(ctx, p.ID, -1, 1)
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.Products().GetByID(context.Background(), p.ID)
	if succeeded != 10 || got.Stock != 0 || got.TotalSales != 10 {
		t.Fatalf("succeeded=%d stock=%d sales=%d", succeeded, got.Stock, got.TotalSales)
	}
}

func TestCouponUsageLimit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	limit := 1
	c := &domain.Coupon{Code: "ONCE", DiscountType: domain.DiscountFixed, DiscountValue: decimal.NewFromInt(10), IsActive: true, UsageLimit: &limit}
	if err := s.Coupons().Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Coupons().Create(ctx, &domain.Coupon{Code: "ONCE"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate code should conflict, got %v", err)
	}

	if err := s.Coupons().IncrementUsage(ctx, c.ID); err != nil {
		t.Fatalf("first increment: %v", err)
	}
	err := s.Coupons().IncrementUsage(ctx, c.ID)
	var invalid *domain.InvalidCouponError
	if !errors.As(err, &invalid) || invalid.Reason != domain.CouponReasonUsageReached {
		t.Fatalf("expected usage limit error, got %v", err)
	}
}

func TestCartMergesQuantities(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p := seedProduct(t, s, 10)

	_ = s.Cart().AddItem(ctx, "u1", p.ID, 2)
	_ = s.Cart().AddItem(ctx, "u1", p.ID, 3)

	items, _ := s.Cart().GetItems(ctx, "u1")
	if len(items) != 1 || items[0].Quantity != 5 || items[0].Product.Name != "Poster" {
		t.Fatalf("unexpected cart: %+v", items)
	}
}
