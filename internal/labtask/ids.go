package labtask

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource assigns pool task IDs.
type IDSource interface {
	NewID() string
}

// UUIDSource issues random version 4 UUIDs.
type UUIDSource struct{}

func (UUIDSource) NewID() string {
	return uuid.NewString()
}

// CounterSource issues "<prefix><n>" with n counting up from 1.
// Safe for concurrent use.
type CounterSource struct {
	prefix string
	n      atomic.Uint64
}

// NewCounterSource returns a CounterSource with the given prefix.
func NewCounterSource(prefix string) *CounterSource {
	return &CounterSource{prefix: prefix}
}

func (c *CounterSource) NewID() string {
	return fmt.Sprintf("%s%d", c.prefix, c.n.Add(1))
}
