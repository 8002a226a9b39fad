// Package storage provides object storage for sales-location QR code images.
package storage

import (
	"context"
	"errors"
	"sync"

	businessapp "github.com/pos/backend/internal/application/business"
)

// StubQRCodeStorage is an in-memory QRCodeStorage for development and tests.
// It keeps uploaded bodies so tests can assert on them.
type StubQRCodeStorage struct {
	// BaseURL is the base URL used for returned object URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

// NewStubQRCodeStorage creates a new StubQRCodeStorage
func NewStubQRCodeStorage() *StubQRCodeStorage {
	return &StubQRCodeStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure StubQRCodeStorage implements QRCodeStorage
var _ businessapp.QRCodeStorage = (*StubQRCodeStorage)(nil)

// Upload stores the body in memory and returns a deterministic URL
func (s *StubQRCodeStorage) Upload(_ context.Context, key string, body []byte, _ string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(body))
	copy(stored, body)
	s.objects[key] = stored

	return s.BaseURL + "/" + key, nil
}

// Delete removes a stored object
func (s *StubQRCodeStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Object returns a stored body and whether it exists
func (s *StubQRCodeStorage) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[key]
	return body, ok
}
