package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/internal/infrastructure/cache"
	"glowify-backend/internal/repository/memory"
)

type profileFixture struct {
	store   *memory.Store
	profile *ProfileUsecase
	orders  *OrderUsecase
	catalog *CatalogUsecase
	cart    *CartUsecase
}

func newProfileFixture() *profileFixture {
	store := memory.NewStore()
	memCache := cache.NewMemoryCache(time.Minute, time.Minute)
	catalog := NewCatalogUsecase(store.Products(), store.Reviews(), store, memCache, testConfig())
	return &profileFixture{
		store:   store,
		profile: NewProfileUsecase(store.Profiles(), store.Orders(), store.Cart(), catalog, store),
		orders:  NewOrderUsecase(store.Orders(), store.Products(), store.Coupons(), store, memCache, testHandoff, 100),
		catalog: catalog,
		cart:    NewCartUsecase(store.Cart(), store.Products(), 100),
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	user := &domain.User{ID: "u1", Email: "asuna@example.com"}

	me, err := f.profile.GetMe(ctx, user)
	if err != nil {
		t.Fatalf("GetMe failed: %v", err)
	}
	if me.Profile != nil || me.DisplayName != "asuna@example.com" || me.IsAdmin {
		t.Fatalf("unexpected me before profile: %+v", me)
	}

	p, err := f.profile.UpdateProfile(ctx, user.ID, UpdateProfileRequest{Name: strPtr("  Asuna   Yuuki "), Birthdate: strPtr("2007-09-30")})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if p.Name != "Asuna Yuuki" || p.Birthdate != "2007-09-30" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	// Omitted fields stay as they were.
	if _, err := f.profile.UpdateDefaultAddress(ctx, user.ID, domain.DefaultAddress{Type: domain.AddressHome, Address: " 12 Aincrad Road, Pune "}); err != nil {
		t.Fatalf("UpdateDefaultAddress failed: %v", err)
	}
	p, err = f.profile.UpdateProfile(ctx, user.ID, UpdateProfileRequest{Birthdate: strPtr("")})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if p.Name != "Asuna Yuuki" || p.Birthdate != "" || p.DefaultAddress == nil || p.DefaultAddress.Address != "12 Aincrad Road, Pune" {
		t.Fatalf("unexpected profile after partial update: %+v", p)
	}

	me, err = f.profile.GetMe(ctx, user)
	if err != nil || me.DisplayName != "Asuna Yuuki" || me.Profile == nil {
		t.Fatalf("unexpected me: %+v (%v)", me, err)
	}

	admin, _ := f.profile.GetMe(ctx, &domain.User{ID: "a1", Role: domain.RoleAdmin})
	if !admin.IsAdmin {
		t.Fatal("admin role should report isAdmin")
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()

	cases := map[string]func() error{
		"bad birthdate": func() error {
			_, err := f.profile.UpdateProfile(ctx, "u1", UpdateProfileRequest{Birthdate: strPtr("30/09/2007")})
			return err
		},
		"future birthdate": func() error {
			_, err := f.profile.UpdateProfile(ctx, "u1", UpdateProfileRequest{Birthdate: strPtr(time.Now().AddDate(1, 0, 0).Format(time.DateOnly))})
			return err
		},
		"bad address type": func() error {
			_, err := f.profile.UpdateDefaultAddress(ctx, "u1", domain.DefaultAddress{Type: "Castle", Address: "Aincrad"})
			return err
		},
		"empty address": func() error {
			_, err := f.profile.UpdateDefaultAddress(ctx, "u1", domain.DefaultAddress{Type: domain.AddressOffice, Address: "  "})
			return err
		},
	}
	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if p, _ := f.profile.GetProfile(ctx, "u1"); p != nil {
		t.Fatalf("rejected updates must not create a profile, got %+v", p)
	}
}

func TestMyOrderSummary(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	p := seedProduct(t, f.store, "500", 10)
	user := "u1"

	var ids []string
	for range 3 {
		res, err := f.orders.PlaceOrder(ctx, &user, placeReq(p.ID, 1, ""))
		if err != nil {
			t.Fatalf("PlaceOrder failed: %v", err)
		}
		ids = append(ids, res.Order.ID)
	}
	if _, err := f.orders.UpdateOrderStatus(ctx, ids[0], domain.OrderStatusCompleted, nil); err != nil {
		t.Fatalf("complete order: %v", err)
	}
	if _, err := f.orders.UpdateOrderStatus(ctx, ids[1], domain.OrderStatusConfirmed, nil); err != nil {
		t.Fatalf("confirm order: %v", err)
	}

	sum, err := f.orders.GetMyOrderSummary(ctx, user)
	if err != nil {
		t.Fatalf("GetMyOrderSummary failed: %v", err)
	}
	if len(sum.All) != 3 || len(sum.Live) != 2 || len(sum.Completed) != 1 || sum.Completed[0].ID != ids[0] {
		t.Fatalf("unexpected split: all=%d live=%d completed=%d", len(sum.All), len(sum.Live), len(sum.Completed))
	}
}

func TestDeleteAccount(t *testing.T) {
	f := newProfileFixture()
	ctx := context.Background()
	p := seedProduct(t, f.store, "500", 10)
	user := &domain.User{ID: "u1", Name: "Asuna"}
	other := &domain.User{ID: "u2", Name: "Kirito"}

	if _, err := f.profile.UpdateProfile(ctx, user.ID, UpdateProfileRequest{Name: strPtr("Asuna")}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if _, err := f.cart.AddToCart(ctx, user.ID, p.ID, 2); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	if _, err := f.catalog.AddReview(ctx, user, p.ID, ReviewRequest{Rating: 1}); err != nil {
		t.Fatalf("AddReview failed: %v", err)
	}
	if _, err := f.catalog.AddReview(ctx, other, p.ID, ReviewRequest{Rating: 5}); err != nil {
		t.Fatalf("AddReview failed: %v", err)
	}
	res, err := f.orders.PlaceOrder(ctx, &user.ID, placeReq(p.ID, 1, ""))
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	can, err := f.profile.CanDeleteAccount(ctx, user.ID)
	if err != nil || can {
		t.Fatalf("pending order should block deletion, got %v (%v)", can, err)
	}
	if err := f.profile.DeleteAccount(ctx, user.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if prof, _ := f.profile.GetProfile(ctx, user.ID); prof == nil {
		t.Fatal("refused deletion must keep the profile")
	}

	if _, err := f.orders.UpdateOrderStatus(ctx, res.Order.ID, domain.OrderStatusCompleted, nil); err != nil {
		t.Fatalf("complete order: %v", err)
	}
	if can, _ := f.profile.CanDeleteAccount(ctx, user.ID); !can {
		t.Fatal("completed orders should not block deletion")
	}
	if err := f.profile.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if prof, _ := f.profile.GetProfile(ctx, user.ID); prof != nil {
		t.Fatalf("profile should be gone, got %+v", prof)
	}
	if cart, _ := f.cart.GetMyCart(ctx, user.ID); cart.Count != 0 {
		t.Fatalf("cart should be empty, got %d items", cart.Count)
	}
	reviews, _ := f.catalog.GetProductReviews(ctx, p.ID)
	if len(reviews) != 1 || reviews[0].UserID != other.ID {
		t.Fatalf("only the other user's review should remain, got %+v", reviews)
	}
	got, err := f.catalog.GetProduct(ctx, p.ID, false)
	if err != nil || got.AverageRating != 5 || got.ReviewCount != 1 {
		t.Fatalf("rating not refreshed: %+v (%v)", got, err)
	}
	if mine, _ := f.orders.GetMyOrders(ctx, user.ID); len(mine) != 0 {
		t.Fatalf("orders should be unlinked, got %d", len(mine))
	}
	if n := orderCount(t, f.store); n != 1 {
		t.Fatalf("orders stay for sales history, got %d", n)
	}
}
