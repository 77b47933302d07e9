package memory

import (
	"context"
	"slices"
	"time"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
)

type customOrderRepo struct{ s *Store }

func cloneCustomOrder(o domain.CustomOrder) domain.CustomOrder {
	o.ImageURLs = slices.Clone(o.ImageURLs)
	if o.ImageURLs == nil {
		o.ImageURLs = []string{}
	}
	return o
}

func (r *customOrderRepo) Create(ctx context.Context, o *domain.CustomOrder) error {
	defer r.s.acquire(ctx)()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := r.s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	r.s.st.customOrders[o.ID] = entry[domain.CustomOrder]{seq: r.s.st.next(), val: cloneCustomOrder(*o)}
	return nil
}

func (r *customOrderRepo) GetByID(ctx context.Context, id string) (*domain.CustomOrder, error) {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.customOrders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o := cloneCustomOrder(e.val)
	return &o, nil
}

func (r *customOrderRepo) GetByUserID(ctx context.Context, userID string) ([]domain.CustomOrder, error) {
	defer r.s.acquire(ctx)()
	orders := newestFirst(r.s.st.customOrders, func(o domain.CustomOrder) bool {
		return o.UserID != nil && *o.UserID == userID
	})
	for i := range orders {
		orders[i] = cloneCustomOrder(orders[i])
	}
	return orders, nil
}

func (r *customOrderRepo) GetAll(ctx context.Context) ([]domain.CustomOrder, error) {
	defer r.s.acquire(ctx)()
	orders := newestFirst(r.s.st.customOrders, nil)
	for i := range orders {
		orders[i] = cloneCustomOrder(orders[i])
	}
	return orders, nil
}

func (r *customOrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, notes *string) error {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.customOrders[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.val.Status = status
	if notes != nil {
		e.val.AdminNotes = *notes
	}
	e.val.UpdatedAt = r.s.now()
	r.s.st.customOrders[id] = e
	return nil
}

func (r *customOrderRepo) ScheduleImageDeletion(ctx context.Context, urls []string, at time.Time) error {
	defer r.s.acquire(ctx)()
	for _, u := range urls {
		r.s.st.imageDeletions[u] = at
	}
	return nil
}

func (r *customOrderRepo) PendingImages(ctx context.Context, urls []string, now time.Time) ([]string, error) {
	defer r.s.acquire(ctx)()
	pending := []string{}
	for _, u := range urls {
		if at, ok := r.s.st.imageDeletions[u]; ok && at.After(now) {
			pending = append(pending, u)
		}
	}
	return pending, nil
}

func (r *customOrderRepo) DueImageDeletions(ctx context.Context, now time.Time, limit int) ([]string, error) {
	defer r.s.acquire(ctx)()
	due := []string{}
	for u, at := range r.s.st.imageDeletions {
		if !at.After(now) {
			due = append(due, u)
		}
	}
	slices.SortFunc(due, func(a, b string) int {
		return r.s.st.imageDeletions[a].Compare(r.s.st.imageDeletions[b])
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *customOrderRepo) RemoveImageDeletions(ctx context.Context, urls []string) error {
	defer r.s.acquire(ctx)()
	for _, u := range urls {
		delete(r.s.st.imageDeletions, u)
	}
	return nil
}
