// Package iocache persists memoized results and the ledger of past runs.
package iocache

import (
	"sync"

	"github.com/huangsam/pathways/internal/contract"
)

// CacheStoreManager holds the memo store and the run store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	memo         contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetMemoStore returns the memo CacheStore.
func (mgr *CacheStoreManager) GetMemoStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.memo
}

// GetRunStore returns the RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
