package memory

import (
	"context"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
)

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(ctx context.Context, o *domain.Order) error {
	defer r.s.acquire(ctx)()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if _, ok := r.s.st.products[o.ProductID]; !ok {
		return domain.ErrNotFound
	}
	now := r.s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	r.s.st.orders[o.ID] = entry[domain.Order]{seq: r.s.st.next(), val: *o}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o := e.val
	return &o, nil
}

func (r *orderRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	defer r.s.acquire(ctx)()
	return newestFirst(r.s.st.orders, func(o domain.Order) bool {
		return o.UserID != nil && *o.UserID == userID
	}), nil
}

func (r *orderRepo) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	defer r.s.acquire(ctx)()
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	orders := newestFirst(r.s.st.orders, func(o domain.Order) bool {
		return filter.Status == "" || o.Status == filter.Status
	})
	return page(orders, limit, filter.Offset), int64(len(orders)), nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, notes *string) error {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.val.Status = status
	if notes != nil {
		e.val.AdminNotes = *notes
	}
	e.val.UpdatedAt = r.s.now()
	r.s.st.orders[id] = e
	return nil
}

func (r *orderRepo) CountLiveByUser(ctx context.Context, userID string) (int64, error) {
	defer r.s.acquire(ctx)()
	var n int64
	for _, e := range r.s.st.orders {
		if e.val.UserID != nil && *e.val.UserID == userID && e.val.Status.Live() {
			n++
		}
	}
	return n, nil
}

func (r *orderRepo) DetachUser(ctx context.Context, userID string) error {
	defer r.s.acquire(ctx)()
	for id, e := range r.s.st.orders {
		if e.val.UserID != nil && *e.val.UserID == userID {
			e.val.UserID = nil
			e.val.UpdatedAt = r.s.now()
			r.s.st.orders[id] = e
		}
	}
	return nil
}
