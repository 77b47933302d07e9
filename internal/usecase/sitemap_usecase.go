package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/cache"
)

// sitemapProductLimit bounds one sitemap file.
const sitemapProductLimit = 5000

type SitemapItem struct {
	Loc        string
	LastMod    string
	ChangeFreq string
	Priority   float32
}

type SitemapUsecase struct {
	productRepo domain.ProductRepository
	baseURL     string
	cache       cache.CacheService
	ttl         time.Duration
}

func NewSitemapUsecase(repo domain.ProductRepository, baseURL string, cache cache.CacheService, ttl time.Duration) *SitemapUsecase {
	return &SitemapUsecase{
		productRepo: repo,
		baseURL:     baseURL,
		cache:       cache,
		ttl:         ttl,
	}
}

func (u *SitemapUsecase) GenerateSitemap(ctx context.Context) ([]SitemapItem, error) {
	return cache.Remember(u.cache, cache.KeySitemap, u.ttl, func() ([]SitemapItem, error) {
		return u.build(ctx)
	})
}

func (u *SitemapUsecase) build(ctx context.Context) ([]SitemapItem, error) {
	now := time.Now().Format("2006-01-02")

	// 1. Static Pages
	var items []SitemapItem
	for _, s := range []string{"", "/shop", "/custom-frames", "/about", "/contact"} {
		items = append(items, SitemapItem{
			Loc:        u.baseURL + s,
			LastMod:    now,
			ChangeFreq: "daily",
			Priority:   0.8,
		})
	}
	items[0].Priority = 1.0

	// 2. Products (Active only)
	products, err := u.productRepo.List(ctx, domain.ProductFilter{Limit: sitemapProductLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	for _, p := range products {
		items = append(items, SitemapItem{
			Loc:        fmt.Sprintf("%s/products/%s", u.baseURL, url.PathEscape(p.ID)),
			LastMod:    p.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   0.9,
		})
	}

	// 3. Anime listings
	names, err := u.productRepo.AnimeNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch anime names: %w", err)
	}
	for _, name := range names {
		items = append(items, SitemapItem{
			Loc:        u.baseURL + "/shop?anime=" + url.QueryEscape(name),
			LastMod:    now,
			ChangeFreq: "daily",
			Priority:   0.7,
		})
	}

	return items, nil
}
