package pair

import (
	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
)

// SetTradingFee changes a pair's trading fee. Governance only; the fee
// is capped at 1% of the input amount.
type SetTradingFee struct {
	tx.BaseTx
	Pair types.Address `json:"pair"`
	Fee  uint64        `json:"fee"` // ppm of the input amount
}

// NewSetTradingFee builds a trading fee change transaction.
func NewSetTradingFee(account, pair types.Address, fee uint64) *SetTradingFee {
	return &SetTradingFee{
		BaseTx: *tx.NewBaseTx(tx.TypePairSetTradingFee, account),
		Pair:   pair,
		Fee:    fee,
	}
}

// Validate checks the transaction is well formed.
func (t *SetTradingFee) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Pair.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "pair is required")
	}
	if t.Fee > state.MaxTradingFeePercent {
		return tx.ValidationError(tx.TemINVALID_TRADING_FEE_PERCENT, "fee exceeds maximum")
	}
	return nil
}

// Apply updates the fee.
func (t *SetTradingFee) Apply(ctx *tx.ApplyContext) tx.Result {
	f, err := tx.ReadFactory(ctx.View)
	if err != nil || f == nil {
		return tx.TefINTERNAL
	}
	if t.Account != f.Governance {
		return tx.TecFORBIDDEN
	}

	p, res := loadPair(ctx, t.Pair)
	if res != tx.TesSUCCESS {
		return res
	}
	p.TradingFeePercent = t.Fee

	if err := tx.WritePair(ctx.View, p); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
