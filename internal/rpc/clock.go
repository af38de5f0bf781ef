package rpc

import (
	"time"

	"github.com/yflink/linkswap/internal/core/tx"
)

// DefaultBlockInterval is how often the wall clock advances the block
// height used by the slippage circuit breaker.
const DefaultBlockInterval = 15 * time.Second

// WallClock derives the transaction environment from the system clock.
// Height grows monotonically at a fixed interval from the clock's
// creation.
type WallClock struct {
	start    time.Time
	interval time.Duration
}

// NewWallClock creates a wall clock with the default block interval.
func NewWallClock() *WallClock {
	return NewWallClockWithInterval(DefaultBlockInterval)
}

// NewWallClockWithInterval creates a wall clock advancing height every
// interval.
func NewWallClockWithInterval(interval time.Duration) *WallClock {
	if interval <= 0 {
		interval = DefaultBlockInterval
	}
	return &WallClock{start: time.Now(), interval: interval}
}

// Env returns the environment for a transaction submitted now.
func (c *WallClock) Env() tx.Env {
	now := time.Now()
	return tx.Env{
		Timestamp: uint64(now.Unix()),
		Height:    uint64(now.Sub(c.start)/c.interval) + 1,
	}
}
