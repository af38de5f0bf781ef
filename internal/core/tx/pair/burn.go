package pair

import (
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// Burn redeems liquidity previously transferred to the pair for a
// proportional share of both token balances. Liquidity held in lockup
// custody is excluded: only freely transferred liquidity burns.
type Burn struct {
	tx.BaseTx
	Pair types.Address `json:"pair"`
	To   types.Address `json:"to"`
}

// NewBurn builds a burn transaction paying the redeemed tokens to To.
func NewBurn(account, pair, to types.Address) *Burn {
	return &Burn{
		BaseTx: *tx.NewBaseTx(tx.TypePairBurn, account),
		Pair:   pair,
		To:     to,
	}
}

// Validate checks the transaction is well formed.
func (t *Burn) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Pair.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "pair is required")
	}
	if t.To.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "to is required")
	}
	return nil
}

// Apply burns liquidity.
func (t *Burn) Apply(ctx *tx.ApplyContext) tx.Result {
	p, res := loadPair(ctx, t.Pair)
	if res != tx.TesSUCCESS {
		return res
	}

	f, err := tx.ReadFactory(ctx.View)
	if err != nil || f == nil {
		return tx.TefINTERNAL
	}

	balance0, balance1, res := pairBalances(ctx, p)
	if res != tx.TesSUCCESS {
		return res
	}

	// The pair's own liquidity balance, net of lockup custody
	liquidity, err := mathutil.Sub(p.BalanceOf(p.Address), p.TotalLocked)
	if err != nil {
		return tx.TefARITHMETIC
	}

	feeOn, res := mintProtocolFee(p, f)
	if res != tx.TesSUCCESS {
		return res
	}

	amount0, err := mathutil.Mul(liquidity, balance0)
	if err != nil {
		return tx.TefARITHMETIC
	}
	amount0, err = mathutil.Div(amount0, p.TotalSupply)
	if err != nil {
		return tx.TefARITHMETIC
	}
	amount1, err := mathutil.Mul(liquidity, balance1)
	if err != nil {
		return tx.TefARITHMETIC
	}
	amount1, err = mathutil.Div(amount1, p.TotalSupply)
	if err != nil {
		return tx.TefARITHMETIC
	}
	if amount0.Sign() == 0 || amount1.Sign() == 0 {
		return tx.TecINSUFFICIENT_LIQUIDITY_BURNED
	}

	if res := burnLiquidity(p, p.Address, liquidity); res != tx.TesSUCCESS {
		return res
	}
	if res := tx.TransferTokens(ctx.View, p.Token0, p.Address, t.To, amount0); res != tx.TesSUCCESS {
		return res
	}
	if res := tx.TransferTokens(ctx.View, p.Token1, p.Address, t.To, amount1); res != tx.TesSUCCESS {
		return res
	}

	balance0, balance1, res = pairBalances(ctx, p)
	if res != tx.TesSUCCESS {
		return res
	}
	if res := updateReserves(p, balance0, balance1, ctx.Env); res != tx.TesSUCCESS {
		return res
	}
	if feeOn {
		kLast, err := mathutil.Mul(p.Reserve0, p.Reserve1)
		if err != nil {
			return tx.TefARITHMETIC
		}
		p.KLast = kLast
	}

	if err := tx.WritePair(ctx.View, p); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
