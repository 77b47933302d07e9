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

func newCatalogUsecase(store *memory.Store) *CatalogUsecase {
	return NewCatalogUsecase(store.Products(), store.Reviews(), store, cache.NewMemoryCache(time.Minute, time.Minute), testConfig())
}

func posterRequest(name, anime, price string, stock int) ProductRequest {
	return ProductRequest{Name: name, AnimeName: anime, Price: dec(price), Stock: stock}
}

func TestCatalogCreateAndGet(t *testing.T) {
	store := memory.NewStore()
	uc := newCatalogUsecase(store)

	p, err := uc.CreateProduct(context.Background(), posterRequest(" Luffy Gear 5 ", "One Piece", "499.999", 4))
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if p.Name != "Luffy Gear 5" || !p.Price.Equal(dec("500")) || !p.IsActive {
		t.Fatalf("unexpected product: %+v", p)
	}

	got, err := uc.GetProduct(context.Background(), p.ID, false)
	if err != nil || got.ID != p.ID {
		t.Fatalf("GetProduct failed: %v", err)
	}

	// the toggle must evict the cached copy
	if _, err := uc.ToggleProductActive(context.Background(), p.ID); err != nil {
		t.Fatalf("ToggleProductActive failed: %v", err)
	}
	if _, err := uc.GetProduct(context.Background(), p.ID, false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("inactive product should be hidden, got %v", err)
	}
	if _, err := uc.GetProduct(context.Background(), p.ID, true); err != nil {
		t.Fatalf("admin should see inactive product: %v", err)
	}

	if _, err := uc.CreateProduct(context.Background(), posterRequest("", "x", "1", 1)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.CreateProduct(context.Background(), posterRequest("x", "x", "-1", 1)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative price, got %v", err)
	}
}

func TestCatalogListingAndAnimeNames(t *testing.T) {
	store := memory.NewStore()
	uc := newCatalogUsecase(store)
	ctx := context.Background()

	for _, req := range []ProductRequest{
		posterRequest("Naruto Sage Mode", "Naruto", "300", 5),
		posterRequest("Zoro Three Swords", "One Piece", "450", 5),
		posterRequest("Nami Weather", "One Piece", "250", 5),
	} {
		if _, err := uc.CreateProduct(ctx, req); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
	}

	names, err := uc.AnimeNames(ctx)
	if err != nil || len(names) != 2 || names[0] != "Naruto" || names[1] != "One Piece" {
		t.Fatalf("unexpected anime names: %v (%v)", names, err)
	}

	list, err := uc.ListProducts(ctx, domain.ProductFilter{AnimeName: "One Piece", Sort: domain.SortPriceAsc})
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Nami Weather" {
		t.Fatalf("unexpected listing: %+v", list)
	}

	if _, err := uc.ListProducts(ctx, domain.ProductFilter{Sort: "random"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown sort, got %v", err)
	}
}

func TestTopSellingReflectsOrders(t *testing.T) {
	store := memory.NewStore()
	catalog := newCatalogUsecase(store)
	orders := NewOrderUsecase(store.Orders(), store.Products(), store.Coupons(), store, catalog.cache, testHandoff, 100)
	ctx := context.Background()

	a, _ := catalog.CreateProduct(ctx, posterRequest("A", "X", "100", 10))
	b, _ := catalog.CreateProduct(ctx, posterRequest("B", "X", "100", 10))

	if top, err := catalog.TopSelling(ctx); err != nil || len(top) != 2 {
		t.Fatalf("unexpected top selling: %v (%v)", top, err)
	}

	if _, err := orders.PlaceOrder(ctx, nil, placeReq(a.ID, 1, "")); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if _, err := orders.PlaceOrder(ctx, nil, placeReq(b.ID, 3, "")); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	top, err := catalog.TopSelling(ctx)
	if err != nil {
		t.Fatalf("TopSelling failed: %v", err)
	}
	if top[0].ID != b.ID || top[0].TotalSales != 3 {
		t.Fatalf("expected B first with 3 sales, got %+v", top[0])
	}

	if err := catalog.DeleteProduct(ctx, a.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("product with orders must not be deleted, got %v", err)
	}
}

func TestAddReviewUpdatesRating(t *testing.T) {
	store := memory.NewStore()
	uc := newCatalogUsecase(store)
	ctx := context.Background()
	p, _ := uc.CreateProduct(ctx, posterRequest("Eren", "Attack on Titan", "350", 2))

	alice := &domain.User{ID: "u1", Name: "Alice"}
	bob := &domain.User{ID: "u2", Email: "bob@example.com"}

	if _, err := uc.AddReview(ctx, alice, p.ID, ReviewRequest{Rating: 5, Comment: " great "}); err != nil {
		t.Fatalf("AddReview failed: %v", err)
	}
	rv, err := uc.AddReview(ctx, bob, p.ID, ReviewRequest{Rating: 4})
	if err != nil {
		t.Fatalf("AddReview failed: %v", err)
	}
	if rv.UserName != "bob@example.com" {
		t.Fatalf("unexpected review name: %q", rv.UserName)
	}

	got, err := uc.GetProduct(ctx, p.ID, false)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got.AverageRating != 4.5 || got.ReviewCount != 2 {
		t.Fatalf("expected 4.5 over 2 reviews, got %v over %d", got.AverageRating, got.ReviewCount)
	}

	if _, err := uc.AddReview(ctx, alice, p.ID, ReviewRequest{Rating: 1}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for second review, got %v", err)
	}
	if _, err := uc.AddReview(ctx, alice, p.ID, ReviewRequest{Rating: 6}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.AddReview(ctx, alice, "missing", ReviewRequest{Rating: 3}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	reviews, err := uc.GetProductReviews(ctx, p.ID)
	if err != nil || len(reviews) != 2 {
		t.Fatalf("expected two reviews, got %d (%v)", len(reviews), err)
	}
}
