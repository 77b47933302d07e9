package usecase

import (
	"context"
	"errors"
	"testing"

	"glowify-backend/internal/domain"
	"glowify-backend/internal/repository/memory"
)

func TestCartLifecycle(t *testing.T) {
	store := memory.NewStore()
	uc := NewCartUsecase(store.Cart(), store.Products(), 100)
	ctx := context.Background()
	a := seedProduct(t, store, "199.50", 5)
	b := seedProduct(t, store, "100", 1)

	if _, err := uc.AddToCart(ctx, "u1", a.ID, 2); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	cart, err := uc.AddToCart(ctx, "u1", a.ID, 1)
	if err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Count != 3 || !cart.Subtotal.Equal(dec("598.50")) {
		t.Fatalf("unexpected cart: count=%d subtotal=%s", cart.Count, cart.Subtotal)
	}

	if _, err := uc.AddToCart(ctx, "u1", a.ID, 3); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("merged quantity above stock should fail, got %v", err)
	}
	if _, err := uc.AddToCart(ctx, "u1", b.ID, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if _, err := uc.AddToCart(ctx, "u1", b.ID, 1); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	cart, err = uc.UpdateQuantity(ctx, "u1", a.ID, 0)
	if err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != b.ID {
		t.Fatalf("zero quantity should remove the line, got %+v", cart.Items)
	}

	other, _ := uc.GetMyCart(ctx, "u2")
	if len(other.Items) != 0 {
		t.Fatal("carts must be per user")
	}

	if err := uc.ClearCart(ctx, "u1"); err != nil {
		t.Fatalf("ClearCart failed: %v", err)
	}
	cart, _ = uc.GetMyCart(ctx, "u1")
	if cart.Count != 0 || !cart.Subtotal.IsZero() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestCartRejectsInactiveProduct(t *testing.T) {
	store := memory.NewStore()
	uc := NewCartUsecase(store.Cart(), store.Products(), 100)
	p := seedProduct(t, store, "100", 5)
	if _, err := store.Products().ToggleActive(context.Background(), p.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if _, err := uc.AddToCart(context.Background(), "u1", p.ID, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
