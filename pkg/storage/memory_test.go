package storage

import (
	"context"
	"strings"
	"testing"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	s := NewMemoryStorage("https://cdn.example.com/", "frames")

	url, err := s.UploadBuffer(context.Background(), []byte("img"), "image/webp")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/frames/") || !strings.HasSuffix(url, ".webp") {
		t.Fatalf("unexpected url %q", url)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", s.Len())
	}

	if err := s.DeleteFile(context.Background(), url); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no objects, got %d", s.Len())
	}
}

func TestDeleteRejectsForeignURL(t *testing.T) {
	s := NewMemoryStorage("https://cdn.example.com", "")
	if err := s.DeleteFile(context.Background(), "https://evil.example.com/x.webp"); err == nil {
		t.Fatal("expected domain mismatch error")
	}
}

func TestDeleteRejectsOtherFolder(t *testing.T) {
	products := NewMemoryStorage("https://cdn.example.com", "uploads")
	frames := NewMemoryStorage("https://cdn.example.com", "frames")

	url, err := products.UploadBuffer(context.Background(), []byte("poster"), "image/webp")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if err := frames.DeleteFile(context.Background(), url); err == nil {
		t.Fatal("frame store should refuse a product image url")
	}
	if err := frames.DeleteFile(context.Background(), "https://cdn.example.com/frames/../uploads/x.webp"); err == nil {
		t.Fatal("frame store should refuse a key that escapes its folder")
	}
	if products.Len() != 1 {
		t.Fatalf("product image should survive, got %d objects", products.Len())
	}
}
