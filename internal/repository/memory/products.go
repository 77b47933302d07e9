package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"glowify-backend/internal/domain"

	"github.com/google/uuid"
)

type productRepo struct{ s *Store }

func cloneProduct(p domain.Product) domain.Product {
	p.ImageURLs = slices.Clone(p.ImageURLs)
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	return p
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	defer r.s.acquire(ctx)()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, ok := r.s.st.products[p.ID]; ok {
		return domain.ErrConflict
	}
	now := r.s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.st.products[p.ID] = entry[domain.Product]{seq: r.s.st.next(), val: cloneProduct(*p)}
	return nil
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur := e.val
	cur.Name, cur.Description, cur.AnimeName = p.Name, p.Description, p.AnimeName
	cur.Price, cur.Stock, cur.IsActive = p.Price, p.Stock, p.IsActive
	cur.ImageURLs = p.ImageURLs
	cur.UpdatedAt = r.s.now()
	e.val = cloneProduct(cur)
	r.s.st.products[p.ID] = e
	p.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	defer r.s.acquire(ctx)()
	if _, ok := r.s.st.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, o := range r.s.st.orders {
		if o.val.ProductID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.st.products, id)
	for k := range r.s.st.cart {
		if k.productID == id {
			delete(r.s.st.cart, k)
		}
	}
	for k, rv := range r.s.st.reviews {
		if rv.val.ProductID == id {
			delete(r.s.st.reviews, k)
		}
	}
	return nil
}

func (r *productRepo) get(id string) (*domain.Product, error) {
	e, ok := r.s.st.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := cloneProduct(e.val)
	return &p, nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	defer r.s.acquire(ctx)()
	return r.get(id)
}

// GetByIDForUpdate needs no extra locking: the transaction is already exclusive.
func (r *productRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	return r.GetByID(ctx, id)
}

func productLess(sort string) func(a, b domain.Product) int {
	newest := func(a, b domain.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	switch sort {
	case domain.SortPriceAsc:
		return func(a, b domain.Product) int { return cmp.Or(a.Price.Cmp(b.Price), newest(a, b)) }
	case domain.SortPriceDesc:
		return func(a, b domain.Product) int { return cmp.Or(b.Price.Cmp(a.Price), newest(a, b)) }
	case domain.SortPopularity:
		return func(a, b domain.Product) int { return cmp.Or(cmp.Compare(b.TotalSales, a.TotalSales), newest(a, b)) }
	case domain.SortRating:
		return func(a, b domain.Product) int {
			return cmp.Or(cmp.Compare(b.AverageRating, a.AverageRating), cmp.Compare(b.ReviewCount, a.ReviewCount))
		}
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	defer r.s.acquire(ctx)()
	search := strings.ToLower(filter.Search)
	products := newestFirst(r.s.st.products, func(p domain.Product) bool {
		if !filter.IncludeInactive && !p.IsActive {
			return false
		}
		if filter.AnimeName != "" && p.AnimeName != filter.AnimeName {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.AnimeName), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			return false
		}
		return true
	})
	if less := productLess(filter.Sort); less != nil {
		slices.SortStableFunc(products, less)
	}
	out := page(products, filter.Limit, filter.Offset)
	for i := range out {
		out[i] = cloneProduct(out[i])
	}
	return out, nil
}

func (r *productRepo) TopSelling(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.List(ctx, domain.ProductFilter{Sort: domain.SortPopularity, Limit: limit})
}

func (r *productRepo) AnimeNames(ctx context.Context) ([]string, error) {
	defer r.s.acquire(ctx)()
	seen := map[string]bool{}
	names := []string{}
	for _, e := range r.s.st.products {
		if name := e.val.AnimeName; e.val.IsActive && name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (r *productRepo) ToggleActive(ctx context.Context, id string) (*domain.Product, error) {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.val.IsActive = !e.val.IsActive
	e.val.UpdatedAt = r.s.now()
	r.s.st.products[id] = e
	p := cloneProduct(e.val)
	return &p, nil
}

func (r *productRepo) UpdateStockAndSales(ctx context.Context, id string, stockDelta, salesDelta int) error {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if e.val.Stock+stockDelta < 0 {
		return domain.ErrInsufficientStock
	}
	e.val.Stock += stockDelta
	e.val.TotalSales += salesDelta
	e.val.UpdatedAt = r.s.now()
	r.s.st.products[id] = e
	return nil
}

func (r *productRepo) UpdateRating(ctx context.Context, id string, average float64, count int) error {
	defer r.s.acquire(ctx)()
	e, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.val.AverageRating, e.val.ReviewCount = average, count
	r.s.st.products[id] = e
	return nil
}
