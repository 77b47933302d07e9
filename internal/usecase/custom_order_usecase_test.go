package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/internal/repository/memory"
	"glowify-backend/pkg/storage"
)

// fakeProcessor accepts any body except "corrupt".
func fakeProcessor(r io.Reader, filename string) ([]byte, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if string(data) == "corrupt" {
		return nil, "", errors.New("image: unknown format")
	}
	return data, "image/webp", nil
}

func uploads(bodies ...string) []domain.ImageUpload {
	out := make([]domain.ImageUpload, len(bodies))
	for i, b := range bodies {
		out[i] = domain.ImageUpload{Filename: "img.png", Body: strings.NewReader(b)}
	}
	return out
}

func newCustomOrderUsecase(store *memory.Store, images *storage.MemoryStorage) *CustomOrderUsecase {
	return NewCustomOrderUsecase(store.CustomOrders(), images, fakeProcessor, store, testHandoff, CustomOrderConfig{
		MaxImages:   3,
		MaxQuantity: 10,
		ImageTTL:    24 * time.Hour,
	})
}

func frameRequest(urls []string) CreateCustomOrderRequest {
	return CreateCustomOrderRequest{
		Customer:    testCustomer,
		FrameSize:   "11x14",
		FrameType:   "black wood",
		Quantity:    2,
		ImageURLs:   urls,
		OrderMethod: domain.OrderMethodEmail,
	}
}

func TestUploadImages(t *testing.T) {
	store := memory.NewStore()
	images := storage.NewMemoryStorage("https://cdn.glowify.in", "frames")
	uc := newCustomOrderUsecase(store, images)
	ctx := context.Background()

	urls, err := uc.UploadImages(ctx, uploads("a", "b", "c"))
	if err != nil {
		t.Fatalf("UploadImages failed: %v", err)
	}
	if len(urls) != 3 || images.Len() != 3 {
		t.Fatalf("expected 3 stored images, got %d urls and %d objects", len(urls), images.Len())
	}
	for _, u := range urls {
		if !strings.HasPrefix(u, "https://cdn.glowify.in/frames/") {
			t.Fatalf("unexpected url: %s", u)
		}
	}

	if _, err := uc.UploadImages(ctx, uploads("a", "b", "c", "d")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for too many images, got %v", err)
	}
	if _, err := uc.UploadImages(ctx, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for no images, got %v", err)
	}
}

func TestUploadImagesIsAllOrNothing(t *testing.T) {
	store := memory.NewStore()
	images := storage.NewMemoryStorage("https://cdn.glowify.in", "frames")
	uc := newCustomOrderUsecase(store, images)

	_, err := uc.UploadImages(context.Background(), uploads("a", "corrupt", "c"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if images.Len() != 0 {
		t.Fatalf("failed upload should leave no objects, got %d", images.Len())
	}
}

func TestCreateCustomOrder(t *testing.T) {
	store := memory.NewStore()
	images := storage.NewMemoryStorage("https://cdn.glowify.in", "frames")
	uc := newCustomOrderUsecase(store, images)
	ctx := context.Background()

	urls, err := uc.UploadImages(ctx, uploads("a", "b"))
	if err != nil {
		t.Fatalf("UploadImages failed: %v", err)
	}

	user := "u1"
	res, err := uc.CreateCustomOrder(ctx, &user, frameRequest(urls))
	if err != nil {
		t.Fatalf("CreateCustomOrder failed: %v", err)
	}
	if res.Order.Status != domain.OrderStatusPending || len(res.Order.ImageURLs) != 2 {
		t.Fatalf("unexpected order: %+v", res.Order)
	}
	if !strings.HasPrefix(res.Handoff.URL(), "mailto:orders@glowify.in?subject=New%20Custom%20Frame%20Request%20-%2011x14") {
		t.Fatalf("unexpected handoff url: %s", res.Handoff.URL())
	}
	if !strings.Contains(res.Handoff.Message, urls[0]) {
		t.Fatal("handoff message should list the image urls")
	}

	mine, err := uc.GetMyCustomOrders(ctx, user)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected one custom order, got %d (%v)", len(mine), err)
	}

	updated, err := uc.UpdateStatus(ctx, res.Order.ID, domain.OrderStatusConfirmed, nil)
	if err != nil || updated.Status != domain.OrderStatusConfirmed {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if _, err := uc.UpdateStatus(ctx, res.Order.ID, domain.OrderStatusPending, nil); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCreateCustomOrderValidation(t *testing.T) {
	store := memory.NewStore()
	uc := newCustomOrderUsecase(store, storage.NewMemoryStorage("https://cdn.glowify.in", "frames"))

	cases := map[string]func(r *CreateCustomOrderRequest){
		"bad size":   func(r *CreateCustomOrderRequest) { r.FrameSize = "1x1" },
		"no images":  func(r *CreateCustomOrderRequest) { r.ImageURLs = nil },
		"too many":   func(r *CreateCustomOrderRequest) { r.Quantity = 11 },
		"bad method": func(r *CreateCustomOrderRequest) { r.OrderMethod = "" },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			req := frameRequest([]string{"https://cdn.glowify.in/frames/x.webp"})
			fn(&req)
			if _, err := uc.CreateCustomOrder(context.Background(), nil, req); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestImageSweeperDeletesExpiredImages(t *testing.T) {
	store := memory.NewStore()
	images := storage.NewMemoryStorage("https://cdn.glowify.in", "frames")
	uc := newCustomOrderUsecase(store, images)
	ctx := context.Background()

	if _, err := uc.UploadImages(ctx, uploads("a", "b")); err != nil {
		t.Fatalf("UploadImages failed: %v", err)
	}

	sweeper := NewImageSweeper(store.CustomOrders(), images, time.Hour)

	n, err := sweeper.SweepOnce(ctx, time.Now())
	if err != nil || n != 0 {
		t.Fatalf("nothing should be due yet, swept %d (%v)", n, err)
	}
	if images.Len() != 2 {
		t.Fatalf("images deleted too early: %d left", images.Len())
	}

	n, err = sweeper.SweepOnce(ctx, time.Now().Add(25*time.Hour))
	if err != nil || n != 2 {
		t.Fatalf("expected 2 images swept, got %d (%v)", n, err)
	}
	if images.Len() != 0 {
		t.Fatalf("expected no images left, got %d", images.Len())
	}

	due, _ := store.CustomOrders().DueImageDeletions(ctx, time.Now().Add(48*time.Hour), 0)
	if len(due) != 0 {
		t.Fatalf("schedule should be empty, got %v", due)
	}
}

func TestImageSweeperStartShutdown(t *testing.T) {
	store := memory.NewStore()
	sweeper := NewImageSweeper(store.CustomOrders(), storage.NewMemoryStorage("https://cdn.glowify.in", ""), time.Millisecond)
	sweeper.Start(context.Background())
	time.Sleep(5 * time.Millisecond)
	sweeper.Shutdown()
}

func TestCreateCustomOrderRejectsForeignImages(t *testing.T) {
	store := memory.NewStore()
	products := storage.NewMemoryStorage("https://cdn.glowify.in", "uploads")
	frames := storage.NewMemoryStorage("https://cdn.glowify.in", "frames")
	uc := newCustomOrderUsecase(store, frames)
	ctx := context.Background()

	posterURL, err := products.UploadBuffer(ctx, []byte("poster"), "image/webp")
	if err != nil {
		t.Fatalf("upload poster: %v", err)
	}
	urls, err := uc.UploadImages(ctx, uploads("a"))
	if err != nil {
		t.Fatalf("UploadImages failed: %v", err)
	}

	cases := map[string][]string{
		"product image":     {posterURL},
		"mixed with upload": {urls[0], posterURL},
		"never uploaded":    {"https://cdn.glowify.in/frames/unknown.webp"},
		"different host":    {"https://evil.example.com/frames/x.webp"},
	}
	for name, imageURLs := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := uc.CreateCustomOrder(ctx, nil, frameRequest(imageURLs)); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if all, _ := uc.GetAllCustomOrders(ctx); len(all) != 0 {
		t.Fatalf("rejected requests must not create orders, got %d", len(all))
	}

	// Repeating an uploaded url is fine.
	if _, err := uc.CreateCustomOrder(ctx, nil, frameRequest([]string{urls[0], urls[0]})); err != nil {
		t.Fatalf("CreateCustomOrder failed: %v", err)
	}

	sweeper := NewImageSweeper(store.CustomOrders(), frames, time.Hour)
	n, err := sweeper.SweepOnce(ctx, time.Now().Add(25*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("expected only the frame image swept, got %d (%v)", n, err)
	}
	if products.Len() != 1 {
		t.Fatalf("product image must survive the sweep, %d objects left", products.Len())
	}
	if frames.Len() != 0 {
		t.Fatalf("frame image should be gone, %d objects left", frames.Len())
	}
}

func TestCreateCustomOrderRejectsExpiredImages(t *testing.T) {
	store := memory.NewStore()
	frames := storage.NewMemoryStorage("https://cdn.glowify.in", "frames")
	uc := newCustomOrderUsecase(store, frames)
	ctx := context.Background()

	urls, err := uc.UploadImages(ctx, uploads("a"))
	if err != nil {
		t.Fatalf("UploadImages failed: %v", err)
	}
	uc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	if _, err := uc.CreateCustomOrder(ctx, nil, frameRequest(urls)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an expired upload, got %v", err)
	}
}
