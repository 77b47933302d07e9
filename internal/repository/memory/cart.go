package memory

import (
	"context"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
)

type cartRepo struct{ s *Store }

func (r *cartRepo) GetItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	defer r.s.acquire(ctx)()
	items := []domain.CartItem{}
	for _, e := range newestFirst(r.s.st.cart, func(i domain.CartItem) bool { return i.UserID == userID }) {
		if p, ok := r.s.st.products[e.ProductID]; ok {
			e.Product = cloneProduct(p.val)
			items = append(items, e)
		}
	}
	return items, nil
}

func (r *cartRepo) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.products[productID]; !ok {
		return domain.ErrNotFound
	}
	key := cartKey{userID, productID}
	if e, ok := r.s.st.cart[key]; ok {
		e.val.Quantity += quantity
		r.s.st.cart[key] = e
		return nil
	}
	r.s.st.cart[key] = entry[domain.CartItem]{seq: r.s.st.next(), val: domain.CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   r.s.now(),
	}}
	return nil
}

func (r *cartRepo) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	defer r.s.acquire(ctx)()
	key := cartKey{userID, productID}
	e, ok := r.s.st.cart[key]
	if !ok {
		return domain.ErrNotFound
	}
	e.val.Quantity = quantity
	r.s.st.cart[key] = e
	return nil
}

func (r *cartRepo) RemoveItem(ctx context.Context, userID, productID string) error {
	defer r.s.acquire(ctx)()
	delete(r.s.st.cart, cartKey{userID, productID})
	return nil
}

func (r *cartRepo) Clear(ctx context.Context, userID string) error {
	defer r.s.acquire(ctx)()
	for k := range r.s.st.cart {
		if k.userID == userID {
			delete(r.s.st.cart, k)
		}
	}
	return nil
}
