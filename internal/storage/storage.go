// Package storage defines the durable key-value contract the Bloom stores
// persist through, plus the interchangeable backends. Values are JSON
// documents keyed by the app's storage keys; a missing key is the expected
// initial state on a fresh device, never an error.
package storage

import "context"

// Storage keys. One key per persisted collection.
const (
	KeyDailyEntries = "bloom_daily_entries"
	KeyUserStats    = "bloom_user_stats"
	KeyUserName     = "bloom_user_name"
	KeyBloomPosts   = "bloom_blooming_posts"
	KeyPrunePosts   = "bloom_pruning_posts"
	KeyUserProfile  = "bloom_user_profile"
)

// Storage is an async string key-value store with no transactions.
type Storage interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Close releases any resources held by the backend.
	Close(ctx context.Context) error
}
