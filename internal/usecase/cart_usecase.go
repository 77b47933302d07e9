package usecase

import (
	"context"
	"fmt"

	"glowify-backend/internal/domain"
)

type CartUsecase struct {
	repo        domain.CartRepository
	productRepo domain.ProductRepository
	maxQuantity int
}

func NewCartUsecase(repo domain.CartRepository, productRepo domain.ProductRepository, maxQuantity int) *CartUsecase {
	return &CartUsecase{
		repo:        repo,
		productRepo: productRepo,
		maxQuantity: maxQuantity,
	}
}

func (u *CartUsecase) GetMyCart(ctx context.Context, userID string) (*domain.Cart, error) {
	items, err := u.repo.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.NewCart(items), nil
}

// AddToCart adds quantity of a product, merging with an existing line.
func (u *CartUsecase) AddToCart(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, domain.InvalidInput("quantity must be greater than 0")
	}

	// 1. Current line, if any
	items, err := u.repo.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := quantity
	for _, item := range items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}

	// 2. Product must be buyable in the merged quantity
	if err := u.checkAvailable(ctx, productID, total); err != nil {
		return nil, err
	}

	// 3. Merge
	if err := u.repo.AddItem(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return u.GetMyCart(ctx, userID)
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return u.RemoveFromCart(ctx, userID, productID)
	}
	if err := u.checkAvailable(ctx, productID, quantity); err != nil {
		return nil, err
	}
	if err := u.repo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return u.GetMyCart(ctx, userID)
}

func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if err := u.repo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return u.GetMyCart(ctx, userID)
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID string) error {
	return u.repo.Clear(ctx, userID)
}

func (u *CartUsecase) checkAvailable(ctx context.Context, productID string, quantity int) error {
	if u.maxQuantity > 0 && quantity > u.maxQuantity {
		return domain.InvalidInput("quantity cannot exceed %d", u.maxQuantity)
	}
	product, err := u.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return domain.ErrNotFound
	}
	if product.Stock < quantity {
		return fmt.Errorf("%w: %d requested, %d available", domain.ErrInsufficientStock, quantity, product.Stock)
	}
	return nil
}
