package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/pathways/internal/contract"
)

// currentCacheVersion defines the version of the memo schema.
// Bump it whenever a cached result type changes shape.
const currentCacheVersion = 2

// maxCacheAge bounds how long a memo entry is trusted.
const maxCacheAge = 7 * 24 * time.Hour

// memoStore returns the memo store of mgr, or nil when memoization is off.
func memoStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetMemoStore()
}

// memoize returns the cached result for key, or computes and stores it.
func memoize[T any](store contract.CacheStore, key string, compute func() (T, error)) (T, error) {
	if store == nil {
		// Fallback to direct computation
		return compute()
	}

	if result, ok := checkCacheHit[T](store, key); ok {
		contract.Log().Debug().Str("key", key).Msg("memo hit")
		return result, nil
	}

	// Cache miss: compute and store
	return computeAndStore(store, key, compute)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit[T any](store contract.CacheStore, key string) (T, bool) {
	var result T
	data, version, ts, err := store.Get(key)
	if err != nil {
		return result, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > maxCacheAge {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

// computeAndStore computes the result and stores it in the memo
func computeAndStore[T any](store contract.CacheStore, key string, compute func() (T, error)) (T, error) {
	result, err := compute()
	if err != nil {
		return result, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		contract.LogWarn("Result is not cacheable", err)
		return result, nil
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to store memo entry", err)
	}
	return result, nil
}

// generateCacheKey creates a unique key from the command, the dataset digest
// and every parameter that affects the result.
func generateCacheKey(command, digest string, params any) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		encoded = fmt.Appendf(nil, "%+v", params)
	}
	key := fmt.Sprintf("%s:%s:%s", command, digest, encoded)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
