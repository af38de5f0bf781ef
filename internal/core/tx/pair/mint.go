package pair

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// Mint credits liquidity for tokens already transferred to the pair.
// The caller first transfers both tokens to the pair address, then
// submits a Mint; the minted liquidity reflects the balance growth over
// the tracked reserves.
type Mint struct {
	tx.BaseTx
	Pair types.Address `json:"pair"`
	To   types.Address `json:"to"`
}

// NewMint builds a mint transaction crediting liquidity to To.
func NewMint(account, pair, to types.Address) *Mint {
	return &Mint{
		BaseTx: *tx.NewBaseTx(tx.TypePairMint, account),
		Pair:   pair,
		To:     to,
	}
}

// Validate checks the transaction is well formed.
func (t *Mint) Validate() error {
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

// Apply mints liquidity.
func (t *Mint) Apply(ctx *tx.ApplyContext) tx.Result {
	_, res := ApplyMint(ctx, t.Pair, t.To)
	return res
}

// ApplyMint mints liquidity against the pair's balance growth and
// returns the amount minted. Shared with the factory, which provides
// initial liquidity for new listings.
func ApplyMint(ctx *tx.ApplyContext, pairAddr, to types.Address) (*big.Int, tx.Result) {
	p, res := loadPair(ctx, pairAddr)
	if res != tx.TesSUCCESS {
		return nil, res
	}

	f, err := tx.ReadFactory(ctx.View)
	if err != nil || f == nil {
		return nil, tx.TefINTERNAL
	}

	balance0, balance1, res := pairBalances(ctx, p)
	if res != tx.TesSUCCESS {
		return nil, res
	}

	amount0, err := mathutil.Sub(balance0, p.Reserve0)
	if err != nil {
		return nil, tx.TefARITHMETIC
	}
	amount1, err := mathutil.Sub(balance1, p.Reserve1)
	if err != nil {
		return nil, tx.TefARITHMETIC
	}

	feeOn, res := mintProtocolFee(p, f)
	if res != tx.TesSUCCESS {
		return nil, res
	}

	var liquidity *big.Int
	if p.TotalSupply.Sign() == 0 {
		// First mint: the geometric mean of the deposit, minus the
		// minimum liquidity permanently locked at the zero address.
		product, err := mathutil.Mul(amount0, amount1)
		if err != nil {
			return nil, tx.TefARITHMETIC
		}
		liquidity, err = mathutil.Sub(mathutil.Sqrt(product), minimumLiq)
		if err != nil {
			return nil, tx.TecINSUFFICIENT_LIQUIDITY_MINTED
		}
		if res := mintLiquidity(p, types.ZeroAddress, minimumLiq); res != tx.TesSUCCESS {
			return nil, res
		}
	} else {
		share0, err := mathutil.Mul(amount0, p.TotalSupply)
		if err != nil {
			return nil, tx.TefARITHMETIC
		}
		share0, err = mathutil.Div(share0, p.Reserve0)
		if err != nil {
			return nil, tx.TefARITHMETIC
		}
		share1, err := mathutil.Mul(amount1, p.TotalSupply)
		if err != nil {
			return nil, tx.TefARITHMETIC
		}
		share1, err = mathutil.Div(share1, p.Reserve1)
		if err != nil {
			return nil, tx.TefARITHMETIC
		}
		liquidity = mathutil.Min(share0, share1)
	}

	if liquidity.Sign() <= 0 {
		return nil, tx.TecINSUFFICIENT_LIQUIDITY_MINTED
	}
	if res := mintLiquidity(p, to, liquidity); res != tx.TesSUCCESS {
		return nil, res
	}

	if res := updateReserves(p, balance0, balance1, ctx.Env); res != tx.TesSUCCESS {
		return nil, res
	}
	if feeOn {
		kLast, err := mathutil.Mul(p.Reserve0, p.Reserve1)
		if err != nil {
			return nil, tx.TefARITHMETIC
		}
		p.KLast = kLast
	}

	if err := tx.WritePair(ctx.View, p); err != nil {
		return nil, tx.TefINTERNAL
	}
	return liquidity, tx.TesSUCCESS
}
