package tx

import "github.com/yflink/linkswap/internal/core/types"

// Env carries the ambient chain context a transaction applies under.
// Block height drives the slippage breaker window; the timestamp
// drives the cumulative price clocks and lockup expiries.
type Env struct {
	// Timestamp is the current block time, unix seconds
	Timestamp uint64

	// Height is the current block number
	Height uint64
}

// BlockTimestamp returns the timestamp truncated to 32 bits, the
// precision the cumulative price clocks operate at.
func (e Env) BlockTimestamp() uint32 {
	return uint32(e.Timestamp)
}

// ApplyContext provides all the state and helpers needed to apply a
// transaction. It is passed to Appliable.Apply() instead of individual
// parameters.
type ApplyContext struct {
	// View provides read/write access to ledger state (the ApplyStateTable)
	View LedgerView

	// Caller is the account the transaction acts on behalf of
	Caller types.Address

	// Env is the ambient chain context
	Env Env

	// Engine provides access to shared services (swap callbacks,
	// reentrancy tracking)
	Engine *Engine
}
