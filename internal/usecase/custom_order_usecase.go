package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// uploadConcurrency bounds parallel image processing per request.
const uploadConcurrency = 4

type CustomOrderConfig struct {
	MaxImages   int
	MaxQuantity int
	ImageTTL    time.Duration
}

type CustomOrderUsecase struct {
	repo      domain.CustomOrderRepository
	images    domain.ImageStore
	process   utils.ImageProcessor
	txManager domain.TransactionManager
	handoff   HandoffConfig
	cfg       CustomOrderConfig
	now       func() time.Time
}

func NewCustomOrderUsecase(repo domain.CustomOrderRepository, images domain.ImageStore, process utils.ImageProcessor, txManager domain.TransactionManager, handoff HandoffConfig, cfg CustomOrderConfig) *CustomOrderUsecase {
	if process == nil {
		process = utils.ProcessImage
	}
	return &CustomOrderUsecase{
		repo:      repo,
		images:    images,
		process:   process,
		txManager: txManager,
		handoff:   handoff,
		cfg:       cfg,
		now:       time.Now,
	}
}

// UploadImages processes and stores every upload. Either all images are
// stored or none are: on failure the ones already stored are removed.
// Stored images are scheduled for deletion after the configured TTL.
func (u *CustomOrderUsecase) UploadImages(ctx context.Context, uploads []domain.ImageUpload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, domain.InvalidInput("at least one image is required")
	}
	if u.cfg.MaxImages > 0 && len(uploads) > u.cfg.MaxImages {
		return nil, domain.InvalidInput("at most %d images are allowed", u.cfg.MaxImages)
	}

	urls := make([]string, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, up := range uploads {
		g.Go(func() error {
			data, contentType, err := u.process(up.Body, up.Filename)
			if err != nil {
				return fmt.Errorf("%w: %s is not a supported image", domain.ErrInvalidInput, up.Filename)
			}
			url, err := u.images.UploadBuffer(gctx, data, contentType)
			if err != nil {
				return fmt.Errorf("upload %s: %w", up.Filename, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.discard(context.WithoutCancel(ctx), urls)
		return nil, err
	}

	if err := u.repo.ScheduleImageDeletion(ctx, urls, u.now().Add(u.cfg.ImageTTL)); err != nil {
		u.discard(context.WithoutCancel(ctx), urls)
		return nil, err
	}

	logger.WithContext(ctx).Info().Int("count", len(urls)).Msg("Frame images uploaded")
	return urls, nil
}

func (u *CustomOrderUsecase) discard(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := u.images.DeleteFile(ctx, url); err != nil {
			logger.WithContext(ctx).Warn().Err(err).Str("url", url).Msg("Failed to remove uploaded image")
		}
	}
}

type CreateCustomOrderRequest struct {
	Customer     domain.Customer    `json:"customer"`
	FrameSize    string             `json:"frameSize"`
	FrameType    string             `json:"frameType"`
	Quantity     int                `json:"quantity"`
	Instructions string             `json:"customInstructions"`
	ImageURLs    []string           `json:"imageUrls"`
	OrderMethod  domain.OrderMethod `json:"orderMethod"`
}

func (r CreateCustomOrderRequest) validate(cfg CustomOrderConfig) error {
	if err := r.Customer.Validate(); err != nil {
		return err
	}
	if !domain.ValidFrameSize(r.FrameSize) {
		return domain.InvalidInput("frameSize must be one of %s", strings.Join(domain.FrameSizes, ", "))
	}
	if r.Quantity <= 0 {
		return domain.InvalidInput("quantity must be greater than 0")
	}
	if cfg.MaxQuantity > 0 && r.Quantity > cfg.MaxQuantity {
		return domain.InvalidInput("quantity cannot exceed %d", cfg.MaxQuantity)
	}
	if len(r.ImageURLs) == 0 {
		return domain.InvalidInput("at least one image is required")
	}
	if cfg.MaxImages > 0 && len(r.ImageURLs) > cfg.MaxImages {
		return domain.InvalidInput("at most %d images are allowed", cfg.MaxImages)
	}
	if !r.OrderMethod.Valid() {
		return domain.InvalidInput("orderMethod must be 'whatsapp' or 'email'")
	}
	return nil
}

type CustomOrderResult struct {
	Order   *domain.CustomOrder `json:"order"`
	Handoff Handoff             `json:"handoff"`
}

// CreateCustomOrder records a frame order. The images stay on the retention
// schedule, counted from the order's creation.
func (u *CustomOrderUsecase) CreateCustomOrder(ctx context.Context, userID *string, req CreateCustomOrderRequest) (*CustomOrderResult, error) {
	if err := req.validate(u.cfg); err != nil {
		return nil, err
	}

	order := &domain.CustomOrder{
		UserID:       userID,
		Customer:     trimCustomer(req.Customer),
		FrameSize:    req.FrameSize,
		FrameType:    strings.TrimSpace(req.FrameType),
		Quantity:     req.Quantity,
		Instructions: strings.TrimSpace(req.Instructions),
		ImageURLs:    req.ImageURLs,
		Status:       domain.OrderStatusPending,
		OrderMethod:  req.OrderMethod,
	}

	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		urls, err := u.checkUploaded(txCtx, order.ImageURLs)
		if err != nil {
			return err
		}
		if err := u.repo.Create(txCtx, order); err != nil {
			return fmt.Errorf("create custom order: %w", err)
		}
		return u.repo.ScheduleImageDeletion(txCtx, urls, order.CreatedAt.Add(u.cfg.ImageTTL))
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info().
		Str("custom_order_id", order.ID).
		Str("frame_size", order.FrameSize).
		Int("images", len(order.ImageURLs)).
		Msg("Custom Order Placed")

	return &CustomOrderResult{Order: order, Handoff: u.handoff.ForCustomOrder(order)}, nil
}

// checkUploaded accepts only images stored by UploadImages that the sweeper
// has not reached yet. It returns the distinct urls.
func (u *CustomOrderUsecase) checkUploaded(ctx context.Context, urls []string) ([]string, error) {
	wanted := slices.Compact(slices.Sorted(slices.Values(urls)))
	pending, err := u.repo.PendingImages(ctx, wanted, u.now())
	if err != nil {
		return nil, fmt.Errorf("check images: %w", err)
	}
	if len(pending) != len(wanted) {
		return nil, domain.InvalidInput("imageUrls must come from the custom order image upload")
	}
	return wanted, nil
}

func (u *CustomOrderUsecase) GetMyCustomOrders(ctx context.Context, userID string) ([]domain.CustomOrder, error) {
	return u.repo.GetByUserID(ctx, userID)
}

// --- Admin Usecase ---

func (u *CustomOrderUsecase) GetAllCustomOrders(ctx context.Context) ([]domain.CustomOrder, error) {
	return u.repo.GetAll(ctx)
}

func (u *CustomOrderUsecase) UpdateStatus(ctx context.Context, id string, newStatus domain.OrderStatus, notes *string) (*domain.CustomOrder, error) {
	if !newStatus.Valid() {
		return nil, domain.InvalidInput("unknown status %q", newStatus)
	}

	var updated *domain.CustomOrder
	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		order, err := u.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := checkTransition(order.Status, newStatus, notes); err != nil {
			return err
		}
		if err := u.repo.UpdateStatus(txCtx, id, newStatus, notes); err != nil {
			return err
		}
		updated, err = u.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
