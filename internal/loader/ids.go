package loader

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/trail/internal/model"
)

// IDSource hands out identifiers for locally created records.
type IDSource interface {
	// UserID must be numeric so the user stays routable, and must not
	// collide with the small integers the API uses.
	UserID() model.ID
	TodoID(original model.ID) model.ID
}

// ClockIDs derives user ids from the wall clock in milliseconds and todo ids
// from random UUIDs.
type ClockIDs struct {
	Now func() time.Time

	mu   sync.Mutex
	last int64
}

func (c *ClockIDs) UserID() model.ID {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ms := now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return model.NumID(uint64(ms))
}

func (c *ClockIDs) TodoID(original model.ID) model.ID {
	if original != "" {
		return model.ID("custom_" + original.String() + "_" + uuid.NewString())
	}
	return model.ID("custom_" + uuid.NewString())
}
