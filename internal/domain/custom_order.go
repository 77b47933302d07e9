package domain

import (
	"context"
	"io"
	"slices"
	"time"
)

func ValidFrameSize(size string) bool {
	return slices.Contains(FrameSizes, size)
}

// CustomOrder is a photo-frame order built from customer-uploaded images.
type CustomOrder struct {
	ID           string      `json:"id"`
	UserID       *string     `json:"userId,omitempty"`
	Customer     Customer    `json:"customer"`
	FrameSize    string      `json:"frameSize"`
	FrameType    string      `json:"frameType"`
	Quantity     int         `json:"quantity"`
	Instructions string      `json:"customInstructions"`
	ImageURLs    []string    `json:"imageUrls"`
	Status       OrderStatus `json:"status"`
	OrderMethod  OrderMethod `json:"orderMethod"`
	AdminNotes   string      `json:"adminNotes,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type CustomOrderRepository interface {
	Create(ctx context.Context, order *CustomOrder) error
	GetByID(ctx context.Context, id string) (*CustomOrder, error)
	GetByUserID(ctx context.Context, userID string) ([]CustomOrder, error)
	GetAll(ctx context.Context) ([]CustomOrder, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus, notes *string) error

	// Image retention
	ScheduleImageDeletion(ctx context.Context, urls []string, at time.Time) error
	// PendingImages returns the urls that are scheduled for deletion after now,
	// locking their rows for the rest of the transaction.
	PendingImages(ctx context.Context, urls []string, now time.Time) ([]string, error)
	DueImageDeletions(ctx context.Context, now time.Time, limit int) ([]string, error)
	RemoveImageDeletions(ctx context.Context, urls []string) error
}

// ImageUpload is a raw image received from a client.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// ImageStore persists processed images and returns their public URL.
type ImageStore interface {
	UploadBuffer(ctx context.Context, data []byte, contentType string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}
