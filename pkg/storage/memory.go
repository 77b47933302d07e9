package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStorage keeps uploads in process. Used when R2 is not configured
// and in tests.
type MemoryStorage struct {
	mu        sync.Mutex
	publicURL string
	folder    string
	objects   map[string][]byte
}

func NewMemoryStorage(publicURL, folder string) *MemoryStorage {
	return &MemoryStorage{
		publicURL: strings.TrimSuffix(publicURL, "/"),
		folder:    strings.Trim(folder, "/"),
		objects:   make(map[string][]byte),
	}
}

func (s *MemoryStorage) UploadBuffer(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := objectKey(s.folder, contentType)

	s.mu.Lock()
	s.objects[key] = append([]byte(nil), data...)
	s.mu.Unlock()

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}

func (s *MemoryStorage) DeleteFile(ctx context.Context, fileURL string) error {
	key, err := keyFromURL(s.publicURL, s.folder, fileURL)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Len is the number of stored objects.
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
