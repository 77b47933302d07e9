package usecase

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"glowify-backend/config"
	"glowify-backend/internal/domain"
	"glowify-backend/pkg/cache"
	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// TopSellingLimit is the size of the home page best sellers strip.
const TopSellingLimit = 8

type CatalogUsecase struct {
	repo       domain.ProductRepository
	reviewRepo domain.ReviewRepository
	txManager  domain.TransactionManager
	cache      cache.CacheService
	cfg        *config.Config
}

func NewCatalogUsecase(repo domain.ProductRepository, reviewRepo domain.ReviewRepository, txManager domain.TransactionManager, cache cache.CacheService, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		repo:       repo,
		reviewRepo: reviewRepo,
		txManager:  txManager,
		cache:      cache,
		cfg:        cfg,
	}
}

// ProductRequest is the admin create/update payload.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	AnimeName   string          `json:"animeName"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURLs   []string        `json:"imageUrls"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

func (r ProductRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.InvalidInput("product name is required")
	}
	if r.Price.IsNegative() {
		return domain.InvalidInput("price must not be negative")
	}
	if r.Stock < 0 {
		return domain.InvalidInput("stock must not be negative")
	}
	return nil
}

func (r ProductRequest) apply(p *domain.Product) {
	p.Name = utils.NormalizeSpace(r.Name)
	p.Description = strings.TrimSpace(r.Description)
	p.AnimeName = utils.NormalizeSpace(r.AnimeName)
	p.Price = domain.RoundMoney(r.Price)
	p.Stock = r.Stock
	p.ImageURLs = slices.DeleteFunc(slices.Clone(r.ImageURLs), func(u string) bool { return strings.TrimSpace(u) == "" })
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}

func (uc *CatalogUsecase) CreateProduct(ctx context.Context, req ProductRequest) (*domain.Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	product := &domain.Product{IsActive: true}
	req.apply(product)

	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	uc.invalidateListings()
	logger.WithContext(ctx).Info().Str("product_id", product.ID).Msg("Product created")
	return product, nil
}

func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*domain.Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(product)

	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidateProduct(id)
	return product, nil
}

func (uc *CatalogUsecase) ToggleProductActive(ctx context.Context, id string) (*domain.Product, error) {
	product, err := uc.repo.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.invalidateProduct(id)
	return product, nil
}

func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidateProduct(id)
	return nil
}

// ListProducts hides inactive products unless filter.IncludeInactive is set
// (admin listing).
func (uc *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.Sort != "" && !slices.Contains(domain.ProductSorts, filter.Sort) {
		return nil, domain.InvalidInput("unknown sort %q", filter.Sort)
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return uc.repo.List(ctx, filter)
}

// GetProduct returns a product by id. Inactive products are only visible to admins.
func (uc *CatalogUsecase) GetProduct(ctx context.Context, id string, includeInactive bool) (*domain.Product, error) {
	product, err := cache.Remember(uc.cache, cache.PrefixProduct+id, uc.ttl(uc.cfg.CacheProductTTL), func() (*domain.Product, error) {
		return uc.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if !product.IsActive && !includeInactive {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (uc *CatalogUsecase) TopSelling(ctx context.Context) ([]domain.Product, error) {
	return cache.Remember(uc.cache, cache.KeyTopSelling, uc.ttl(uc.cfg.CacheTopSellingTTL), func() ([]domain.Product, error) {
		return uc.repo.TopSelling(ctx, TopSellingLimit)
	})
}

func (uc *CatalogUsecase) AnimeNames(ctx context.Context) ([]string, error) {
	return cache.Remember(uc.cache, cache.KeyAnimeNames, uc.ttl(uc.cfg.CacheProductTTL), func() ([]string, error) {
		return uc.repo.AnimeNames(ctx)
	})
}

// --- Reviews ---

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview stores the user's review and refreshes the product's rating
// aggregate in the same transaction.
func (uc *CatalogUsecase) AddReview(ctx context.Context, user *domain.User, productID string, req ReviewRequest) (*domain.Review, error) {
	if user == nil {
		return nil, domain.ErrForbidden
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.InvalidInput("rating must be between 1 and 5")
	}

	review := &domain.Review{
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.DisplayName(),
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := uc.repo.GetByIDForUpdate(txCtx, productID); err != nil {
			return err
		}
		if err := uc.reviewRepo.Create(txCtx, review); err != nil {
			return err
		}
		summary, err := uc.reviewRepo.Summary(txCtx, productID)
		if err != nil {
			return err
		}
		return uc.repo.UpdateRating(txCtx, productID, roundRating(summary.Average), summary.Count)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateProduct(productID)
	return review, nil
}

// RemoveUserReviews deletes every review by userID and refreshes the rating of
// each affected product. It joins the caller's transaction; the caller
// invalidates the returned products once it commits.
func (uc *CatalogUsecase) RemoveUserReviews(ctx context.Context, userID string) ([]string, error) {
	var productIDs []string
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		productIDs, err = uc.reviewRepo.DeleteByUser(txCtx, userID)
		if err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		for _, id := range productIDs {
			if _, err := uc.repo.GetByIDForUpdate(txCtx, id); err != nil {
				return err
			}
			summary, err := uc.reviewRepo.Summary(txCtx, id)
			if err != nil {
				return err
			}
			if err := uc.repo.UpdateRating(txCtx, id, roundRating(summary.Average), summary.Count); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return productIDs, nil
}

// InvalidateProducts drops the cached copies of the given products.
func (uc *CatalogUsecase) InvalidateProducts(ids ...string) {
	for _, id := range ids {
		uc.invalidateProduct(id)
	}
}

func (uc *CatalogUsecase) GetProductReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	return uc.reviewRepo.GetByProductID(ctx, productID)
}

func roundRating(avg float64) float64 {
	return math.Round(avg*100) / 100
}

func (uc *CatalogUsecase) ttl(d time.Duration) time.Duration {
	if d <= 0 {
		return 5 * time.Minute
	}
	return d
}

func (uc *CatalogUsecase) invalidateProduct(id string) {
	if uc.cache == nil {
		return
	}
	uc.cache.Delete(cache.PrefixProduct + id)
	uc.invalidateListings()
}

func (uc *CatalogUsecase) invalidateListings() {
	if uc.cache == nil {
		return
	}
	uc.cache.Delete(cache.KeyTopSelling)
	uc.cache.Delete(cache.KeyAnimeNames)
	uc.cache.Delete(cache.KeySitemap)
}
