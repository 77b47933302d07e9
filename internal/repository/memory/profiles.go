package memory

import (
	"context"

	"glowify-backend/internal/domain"
)

type profileRepo struct{ s *Store }

func cloneProfile(p domain.Profile) domain.Profile {
	if p.DefaultAddress != nil {
		addr := *p.DefaultAddress
		p.DefaultAddress = &addr
	}
	return p
}

func (r *profileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	defer r.s.acquire(ctx)()
	p, ok := r.s.st.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = cloneProfile(p)
	return &p, nil
}

func (r *profileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	defer r.s.acquire(ctx)()
	p.UpdatedAt = r.s.now()
	r.s.st.profiles[p.UserID] = cloneProfile(*p)
	return nil
}

func (r *profileRepo) Delete(ctx context.Context, userID string) error {
	defer r.s.acquire(ctx)()
	delete(r.s.st.profiles, userID)
	return nil
}
