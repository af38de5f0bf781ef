package testenv

import (
	"sync"

	"github.com/yflink/linkswap/internal/core/tx"
)

// ManualClock provides a controllable environment source for testing
// time and block dependent behavior.
type ManualClock struct {
	mu        sync.RWMutex
	timestamp uint64
	height    uint64
}

// NewManualClock creates a clock at a fixed post-epoch starting point.
func NewManualClock() *ManualClock {
	// 2020-01-01T00:00:00Z
	return &ManualClock{timestamp: 1577836800, height: 1}
}

// Env returns the current transaction environment.
func (c *ManualClock) Env() tx.Env {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return tx.Env{Timestamp: c.timestamp, Height: c.height}
}

// Advance moves the clock forward by the given number of seconds.
func (c *ManualClock) Advance(seconds uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timestamp += seconds
}

// AdvanceBlocks moves the block height forward by n.
func (c *ManualClock) AdvanceBlocks(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += n
}

// Set pins the clock to an absolute timestamp and height.
func (c *ManualClock) Set(timestamp, height uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timestamp = timestamp
	c.height = height
}
