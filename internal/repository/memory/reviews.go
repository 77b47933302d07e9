package memory

import (
	"context"
	"slices"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
)

type reviewRepo struct{ s *Store }

func (r *reviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.products[rv.ProductID]; !ok {
		return domain.ErrNotFound
	}
	for _, e := range r.s.st.reviews {
		if e.val.ProductID == rv.ProductID && e.val.UserID == rv.UserID {
			return domain.ErrConflict
		}
	}
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	rv.CreatedAt = r.s.now()
	r.s.st.reviews[rv.ID] = entry[domain.Review]{seq: r.s.st.next(), val: *rv}
	return nil
}

func (r *reviewRepo) GetByProductID(ctx context.Context, productID string) ([]domain.Review, error) {
	defer r.s.acquire(ctx)()
	return newestFirst(r.s.st.reviews, func(rv domain.Review) bool { return rv.ProductID == productID }), nil
}

func (r *reviewRepo) Summary(ctx context.Context, productID string) (domain.RatingSummary, error) {
	defer r.s.acquire(ctx)()
	var sum, count int
	for _, e := range r.s.st.reviews {
		if e.val.ProductID == productID {
			sum += e.val.Rating
			count++
		}
	}
	if count == 0 {
		return domain.RatingSummary{}, nil
	}
	return domain.RatingSummary{Average: float64(sum) / float64(count), Count: count}, nil
}

func (r *reviewRepo) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	defer r.s.acquire(ctx)()
	products := []string{}
	for id, e := range r.s.st.reviews {
		if e.val.UserID == userID {
			products = append(products, e.val.ProductID)
			delete(r.s.st.reviews, id)
		}
	}
	slices.Sort(products)
	return slices.Compact(products), nil
}
