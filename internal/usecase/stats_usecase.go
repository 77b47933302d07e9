package usecase

import (
	"context"
	"fmt"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/cache"

	"github.com/shopspring/decimal"
)

const (
	maxStatsRange = 366 * 24 * time.Hour
	statsCacheTTL = 5 * time.Minute
)

// StatsUsecase serves the admin dashboard. Callers pick the date range.
type StatsUsecase struct {
	repo  domain.StatsRepository
	cache cache.CacheService
}

func NewStatsUsecase(repo domain.StatsRepository, cache cache.CacheService) *StatsUsecase {
	return &StatsUsecase{repo: repo, cache: cache}
}

func checkRange(start, end time.Time) error {
	if !end.After(start) {
		return domain.InvalidInput("end date must be after start date")
	}
	if end.Sub(start) > maxStatsRange {
		return domain.InvalidInput("date range cannot exceed 1 year")
	}
	return nil
}

// GetRevenueKPIs summarizes orders created in [start, end).
func (uc *StatsUsecase) GetRevenueKPIs(ctx context.Context, start, end time.Time) (*domain.SalesSummary, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%skpis:%d:%d", cache.PrefixStats, start.Unix(), end.Unix())
	return cache.Remember(uc.cache, key, statsCacheTTL, func() (*domain.SalesSummary, error) {
		s, err := uc.repo.SalesSummary(ctx, start, end)
		if err != nil {
			return nil, err
		}
		s.Revenue = domain.RoundMoney(s.Revenue)
		s.Discounts = domain.RoundMoney(s.Discounts)
		s.AverageOrderValue = decimal.Zero
		if s.Orders > 0 {
			s.AverageOrderValue = domain.RoundMoney(s.Revenue.Div(decimal.NewFromInt(s.Orders)))
		}
		return s, nil
	})
}

func (uc *StatsUsecase) GetDailySales(ctx context.Context, start, end time.Time) ([]domain.DailySales, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%sdaily_sales:%d:%d", cache.PrefixStats, start.Unix(), end.Unix())
	return cache.Remember(uc.cache, key, statsCacheTTL, func() ([]domain.DailySales, error) {
		return uc.repo.DailySales(ctx, start, end)
	})
}

// GetLowStockProducts lists active products with stock <= threshold. Not cached.
func (uc *StatsUsecase) GetLowStockProducts(ctx context.Context, threshold, limit int) ([]domain.Product, error) {
	if threshold < 0 {
		return nil, domain.InvalidInput("threshold must be non-negative")
	}
	if limit < 1 || limit > 500 {
		return nil, domain.InvalidInput("limit must be 1-500")
	}
	return uc.repo.LowStock(ctx, threshold, limit)
}
