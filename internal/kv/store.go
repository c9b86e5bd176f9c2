package kv

import (
	"context"
	"errors"
	"sync"
)

// Key prefixes. A user's data lives under prefix + user id.
const (
	collectionPrefix = "collection_"
	cartPrefix       = "cart_"
)

// MarketplaceKey holds the shared marketplace listings.
const MarketplaceKey = "marketplace_listings"

// ErrUnavailable is returned by every call on an Unavailable store.
var ErrUnavailable = errors.New("kv: storage unavailable")

// Store is the persistence port. Get reports ok=false for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// CollectionKey returns the key holding a user's collection blob.
func CollectionKey(userID string) string {
	return collectionPrefix + userID
}

// CartKey returns the key holding a user's cart blob.
func CartKey(userID string) string {
	return cartPrefix + userID
}

// Memory is an in-process Store. Safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Unavailable is a Store whose storage is disabled.
type Unavailable struct{}

// Get always fails with ErrUnavailable.
func (Unavailable) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, ErrUnavailable
}

// Set always fails with ErrUnavailable.
func (Unavailable) Set(context.Context, string, []byte) error {
	return ErrUnavailable
}
