// Package iostore persists run history, archives and the optional run tracking database.
package iostore

import (
	"sync"

	"github.com/huangsam/testpulse/internal/contract"
)

// TrackingStoreManager holds the process-wide TrackingStore.
type TrackingStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	tracking     contract.TrackingStore
}

var _ contract.TrackingManager = &TrackingStoreManager{} // Compile-time check

// GetTrackingStore returns the tracking store, or nil when tracking is disabled.
func (mgr *TrackingStoreManager) GetTrackingStore() contract.TrackingStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.tracking
}
