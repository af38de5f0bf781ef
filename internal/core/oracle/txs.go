package oracle

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// UpdateTx takes a fresh oracle observation. Anyone may submit it.
type UpdateTx struct {
	tx.BaseTx
}

// NewUpdate builds an oracle update transaction.
func NewUpdate(account types.Address) *UpdateTx {
	return &UpdateTx{BaseTx: *tx.NewBaseTx(tx.TypeOracleUpdate, account)}
}

// Apply samples the reference pair.
func (t *UpdateTx) Apply(ctx *tx.ApplyContext) tx.Result {
	return Update(ctx.View, ctx.Env)
}

// SetFeedsTx stores fresh USD feed answers for LINK and WETH.
// Governance only.
type SetFeedsTx struct {
	tx.BaseTx
	LinkUSD *big.Int `json:"link_usd"` // 8 decimals
	WethUSD *big.Int `json:"weth_usd"` // 8 decimals
}

// NewSetFeeds builds a feed update transaction.
func NewSetFeeds(account types.Address, linkUSD, wethUSD *big.Int) *SetFeedsTx {
	return &SetFeedsTx{
		BaseTx:  *tx.NewBaseTx(tx.TypeOracleSetFeeds, account),
		LinkUSD: mathutil.Clone(linkUSD),
		WethUSD: mathutil.Clone(wethUSD),
	}
}

// Validate checks the transaction is well formed.
func (t *SetFeedsTx) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.LinkUSD == nil || t.WethUSD == nil ||
		t.LinkUSD.Sign() < 0 || t.WethUSD.Sign() < 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "feed answers must be non-negative")
	}
	return nil
}

// Apply stores the feed answers.
func (t *SetFeedsTx) Apply(ctx *tx.ApplyContext) tx.Result {
	f, err := tx.ReadFactory(ctx.View)
	if err != nil || f == nil {
		return tx.TefINTERNAL
	}
	if t.Account != f.Governance {
		return tx.TecFORBIDDEN
	}

	o, err := tx.ReadOracle(ctx.View)
	if err != nil || o == nil {
		return tx.TefINTERNAL
	}
	o.LinkUSD = mathutil.Clone(t.LinkUSD)
	o.WethUSD = mathutil.Clone(t.WethUSD)

	if err := tx.WriteOracle(ctx.View, o); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
