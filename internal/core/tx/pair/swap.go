package pair

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// Swap trades against the pair. Outputs are paid optimistically; the
// input is whatever the caller (or the swap callback) has transferred
// to the pair by the time the invariant is checked. The trading fee is
// charged on the input side, and the post-fee balances must keep
// reserve0 * reserve1 from shrinking.
type Swap struct {
	tx.BaseTx
	Pair       types.Address `json:"pair"`
	Amount0Out *big.Int      `json:"amount0_out"`
	Amount1Out *big.Int      `json:"amount1_out"`
	To         types.Address `json:"to"`

	// Data, when non-empty, is handed to the swap callback registered
	// for To while the optimistic output is already credited.
	Data []byte `json:"data,omitempty"`
}

// NewSwap builds a swap transaction.
func NewSwap(account, pair types.Address, amount0Out, amount1Out *big.Int, to types.Address, data []byte) *Swap {
	return &Swap{
		BaseTx:     *tx.NewBaseTx(tx.TypePairSwap, account),
		Pair:       pair,
		Amount0Out: mathutil.Clone(amount0Out),
		Amount1Out: mathutil.Clone(amount1Out),
		To:         to,
		Data:       data,
	}
}

// Validate checks the transaction is well formed.
func (t *Swap) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Pair.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "pair is required")
	}
	if t.To.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "to is required")
	}
	if t.Amount0Out == nil || t.Amount1Out == nil ||
		t.Amount0Out.Sign() < 0 || t.Amount1Out.Sign() < 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "output amounts must be non-negative")
	}
	if t.Amount0Out.Sign() == 0 && t.Amount1Out.Sign() == 0 {
		return tx.ValidationError(tx.TemINSUFFICIENT_OUTPUT_AMOUNT, "at least one output required")
	}
	return nil
}

// Apply executes the swap.
func (t *Swap) Apply(ctx *tx.ApplyContext) tx.Result {
	p, res := loadPair(ctx, t.Pair)
	if res != tx.TesSUCCESS {
		return res
	}

	if t.Amount0Out.Cmp(p.Reserve0) >= 0 || t.Amount1Out.Cmp(p.Reserve1) >= 0 {
		return tx.TecINSUFFICIENT_LIQUIDITY
	}
	if t.To == p.Token0 || t.To == p.Token1 {
		return tx.TecINVALID_TO
	}

	// Reference price before the trade, for a fresh breaker window
	preTradePrice, res := pairPrice(p.Reserve0, p.Reserve1)
	if res != tx.TesSUCCESS {
		return res
	}

	// Optimistic transfers out
	if t.Amount0Out.Sign() > 0 {
		if res := tx.TransferTokens(ctx.View, p.Token0, p.Address, t.To, t.Amount0Out); res != tx.TesSUCCESS {
			return res
		}
	}
	if t.Amount1Out.Sign() > 0 {
		if res := tx.TransferTokens(ctx.View, p.Token1, p.Address, t.To, t.Amount1Out); res != tx.TesSUCCESS {
			return res
		}
	}

	if len(t.Data) > 0 {
		cb := ctx.Engine.SwapCallbackFor(t.To)
		if cb == nil {
			return tx.TefEXCEPTION
		}
		if !ctx.Engine.LockPair(p.Address) {
			return tx.TefREENTRANCY
		}
		err := cb.OnSwap(ctx, t.Account, t.Amount0Out, t.Amount1Out, t.Data)
		ctx.Engine.UnlockPair(p.Address)
		if err != nil {
			return tx.TefEXCEPTION
		}
	}

	balance0, balance1, res := pairBalances(ctx, p)
	if res != tx.TesSUCCESS {
		return res
	}

	amount0In := amountIn(balance0, p.Reserve0, t.Amount0Out)
	amount1In := amountIn(balance1, p.Reserve1, t.Amount1Out)
	if amount0In.Sign() == 0 && amount1In.Sign() == 0 {
		return tx.TecINSUFFICIENT_INPUT_AMOUNT
	}

	// balanceAdjusted = balance * 1e6 - amountIn * tradingFeePercent
	fee := new(big.Int).SetUint64(p.TradingFeePercent)
	balance0Adjusted := new(big.Int).Mul(balance0, feeScale)
	balance0Adjusted.Sub(balance0Adjusted, new(big.Int).Mul(amount0In, fee))
	balance1Adjusted := new(big.Int).Mul(balance1, feeScale)
	balance1Adjusted.Sub(balance1Adjusted, new(big.Int).Mul(amount1In, fee))

	kAdjusted := new(big.Int).Mul(balance0Adjusted, balance1Adjusted)
	kRequired := new(big.Int).Mul(p.Reserve0, p.Reserve1)
	kRequired.Mul(kRequired, feeScaleSq)
	if kAdjusted.Cmp(kRequired) < 0 {
		return tx.TecK
	}

	newPrice, res := pairPrice(balance0, balance1)
	if res != tx.TesSUCCESS {
		return res
	}
	if res := t.checkSlippage(ctx, p, preTradePrice, newPrice); res != tx.TesSUCCESS {
		return res
	}
	p.LastSwapPrice = newPrice

	if res := updateReserves(p, balance0, balance1, ctx.Env); res != tx.TesSUCCESS {
		return res
	}
	if err := tx.WritePair(ctx.View, p); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// checkSlippage enforces the per-window price movement bound. The first
// swap of a window measures against the last swap price (or the
// pre-trade spot price when the pair has never traded) and checkpoints
// the post-trade price; later swaps in the same window measure against
// the checkpoint.
func (t *Swap) checkSlippage(ctx *tx.ApplyContext, p *state.PairEntry, preTradePrice, newPrice *big.Int) tx.Result {
	f, err := tx.ReadFactory(ctx.View)
	if err != nil || f == nil {
		return tx.TefINTERNAL
	}
	if f.MaxSlippagePercent == 0 {
		return tx.TesSUCCESS
	}

	height := ctx.Env.Height
	windowElapsed := p.LastSlippageBlocks == 0 ||
		height-p.LastSlippageBlocks >= f.MaxSlippageBlocks

	var refPrice *big.Int
	if windowElapsed {
		refPrice = p.LastSwapPrice
		if refPrice.Sign() == 0 {
			refPrice = preTradePrice
		}
	} else {
		refPrice = p.PriceAtLastSlippageBlocks
	}

	if !withinSlippage(newPrice, refPrice, f.MaxSlippagePercent) {
		return tx.TecSLIPLOCK
	}

	if windowElapsed {
		p.PriceAtLastSlippageBlocks = newPrice
		p.LastSlippageBlocks = height
	}
	return tx.TesSUCCESS
}

// amountIn recovers the input amount from the post-trade balance:
// anything above (reserve - amountOut) must have come in.
func amountIn(balance, reserve, amountOut *big.Int) *big.Int {
	floor := new(big.Int).Sub(reserve, amountOut)
	if balance.Cmp(floor) > 0 {
		return new(big.Int).Sub(balance, floor)
	}
	return new(big.Int)
}
