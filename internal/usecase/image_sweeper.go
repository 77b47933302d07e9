package usecase

import (
	"context"
	"sync"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/metrics"
)

const sweepBatchSize = 100

// ImageSweeper deletes custom-order images whose retention has expired.
type ImageSweeper struct {
	repo     domain.CustomOrderRepository
	images   domain.ImageStore
	interval time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewImageSweeper(repo domain.CustomOrderRepository, images domain.ImageStore, interval time.Duration) *ImageSweeper {
	return &ImageSweeper{
		repo:     repo,
		images:   images,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the sweep loop until ctx is cancelled or Shutdown is called.
func (s *ImageSweeper) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop()
}

func (s *ImageSweeper) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.SweepOnce(s.ctx, s.now()); err != nil && s.ctx.Err() == nil {
				logger.Error().Err(err).Msg("Image sweep failed")
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// SweepOnce deletes images due at now and returns how many were removed.
// Images that fail to delete stay scheduled and are retried next sweep.
func (s *ImageSweeper) SweepOnce(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	for {
		due, err := s.repo.DueImageDeletions(ctx, now, sweepBatchSize)
		if err != nil {
			return removed, err
		}
		if len(due) == 0 {
			break
		}

		deleted := make([]string, 0, len(due))
		for _, url := range due {
			if err := s.images.DeleteFile(ctx, url); err != nil {
				logger.Warn().Err(err).Str("url", url).Msg("Failed to delete expired image")
				continue
			}
			deleted = append(deleted, url)
		}
		if len(deleted) > 0 {
			if err := s.repo.RemoveImageDeletions(ctx, deleted); err != nil {
				return removed, err
			}
		}
		removed += len(deleted)

		// a batch with failures would be returned again
		if len(deleted) < len(due) || len(due) < sweepBatchSize {
			break
		}
	}

	if removed > 0 {
		metrics.RecordImagesSwept(removed)
		logger.Info().Int("count", removed).Msg("Expired images deleted")
	}
	return removed, nil
}

// Shutdown stops the loop and waits for an in-flight sweep.
func (s *ImageSweeper) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
