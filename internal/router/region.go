package router

import (
	"sync"

	"github.com/Makepad-fr/trail/internal/loader"
)

// Region is the single visible content region. Mounting a view replaces
// whatever was there.
type Region struct {
	mu     sync.RWMutex
	view   loader.View
	mounts uint64
}

func NewRegion() *Region { return &Region{} }

// Mount makes v the visible view and returns the one it replaced.
func (r *Region) Mount(v loader.View) loader.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.view
	r.view = v
	r.mounts++
	return prev
}

// Current returns the mounted view, nil before the first mount.
func (r *Region) Current() loader.View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

// Mounts counts how many views have been mounted so far.
func (r *Region) Mounts() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mounts
}
