package tx

import (
	"math/big"
	"sync"

	"go.uber.org/zap"

	"github.com/yflink/linkswap/internal/core/types"
)

// SwapCallback is invoked during a swap when the transaction carries
// callback data. The recipient sees the optimistic output already
// credited and must leave the pair whole before the invariant check
// runs. Returning an error aborts the swap.
type SwapCallback interface {
	OnSwap(ctx *ApplyContext, sender types.Address, amount0Out, amount1Out *big.Int, data []byte) error
}

// Engine processes transactions against a ledger
type Engine struct {
	mu sync.Mutex

	// view provides access to committed ledger state
	view LedgerView

	// callbacks maps recipient addresses to registered swap callbacks
	callbacks map[types.Address]SwapCallback

	// busy tracks pairs currently inside a swap callback; any pair
	// operation reaching a busy pair fails with tefREENTRANCY
	busy map[types.Address]bool

	metrics *Metrics
	log     *zap.Logger
}

// NewEngine creates an engine over the given ledger view.
func NewEngine(view LedgerView, opts ...Option) *Engine {
	e := &Engine{
		view:      view,
		callbacks: make(map[types.Address]SwapCallback),
		busy:      make(map[types.Address]bool),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics attaches prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// ApplyResult contains the result of applying a transaction
type ApplyResult struct {
	// Result is the transaction result code
	Result Result

	// Applied indicates if the transaction changed the ledger
	Applied bool

	// Message is a human-readable result message
	Message string
}

// RegisterSwapCallback registers a swap callback for a recipient
// address. Swaps carrying data that pay out to this address will
// invoke it.
func (e *Engine) RegisterSwapCallback(addr types.Address, cb SwapCallback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks[addr] = cb
}

// SwapCallbackFor returns the registered callback for an address, nil
// when none is registered.
func (e *Engine) SwapCallbackFor(addr types.Address) SwapCallback {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.callbacks[addr]
}

// LockPair marks a pair busy for the duration of a swap callback.
// Returns false if the pair is already busy.
func (e *Engine) LockPair(addr types.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy[addr] {
		return false
	}
	e.busy[addr] = true
	return true
}

// UnlockPair clears a pair's busy flag.
func (e *Engine) UnlockPair(addr types.Address) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.busy, addr)
}

// PairBusy reports whether a pair is currently inside a swap callback.
func (e *Engine) PairBusy(addr types.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy[addr]
}

// View returns the engine's committed ledger view.
func (e *Engine) View() LedgerView {
	return e.view
}

// Apply runs a transaction against a sandboxed view of the ledger and
// commits the changes only on tesSUCCESS. Any other result leaves the
// ledger exactly as it was.
func (e *Engine) Apply(t Transaction, env Env) ApplyResult {
	txType := t.TxType().String()

	if err := t.Validate(); err != nil {
		res := ResultFromValidationError(err)
		e.log.Debug("transaction rejected",
			zap.String("type", txType),
			zap.String("result", res.String()),
			zap.Error(err))
		e.observe(txType, res)
		return ApplyResult{Result: res, Message: res.Message()}
	}

	appliable, ok := t.(Appliable)
	if !ok {
		e.observe(txType, TefINTERNAL)
		return ApplyResult{Result: TefINTERNAL, Message: TefINTERNAL.Message()}
	}

	table := NewApplyStateTable(e.view)
	ctx := &ApplyContext{
		View:   table,
		Caller: t.GetCommon().Account,
		Env:    env,
		Engine: e,
	}

	res := appliable.Apply(ctx)
	if res.IsApplied() {
		if err := table.Apply(); err != nil {
			e.log.Error("failed to commit transaction",
				zap.String("type", txType),
				zap.Error(err))
			e.observe(txType, TecINTERNAL)
			return ApplyResult{Result: TecINTERNAL, Message: TecINTERNAL.Message()}
		}
	}

	e.log.Debug("transaction applied",
		zap.String("type", txType),
		zap.String("result", res.String()),
		zap.Bool("applied", res.IsApplied()))
	e.observe(txType, res)

	return ApplyResult{
		Result:  res,
		Applied: res.IsApplied(),
		Message: res.Message(),
	}
}

func (e *Engine) observe(txType string, res Result) {
	if e.metrics != nil {
		e.metrics.Observe(txType, res)
	}
}
