// Package factory implements the factory transactions: pair listing
// with oracle-priced listing fees and lockup discounts, governance
// approvals and policy management.
package factory

import (
	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
)

// Init creates the factory and oracle singletons. The submitting
// account becomes governance. The oracle observes the WETH/YFL pair,
// whose address is fixed by the token addresses whether or not the
// pair exists yet.
type Init struct {
	tx.BaseTx
	Treasury  types.Address `json:"treasury"`
	LinkToken types.Address `json:"link_token"`
	WETHToken types.Address `json:"weth_token"`
	YFLToken  types.Address `json:"yfl_token"`
}

// NewInit builds a factory initialization transaction.
func NewInit(account, treasury, link, weth, yfl types.Address) *Init {
	return &Init{
		BaseTx:    *tx.NewBaseTx(tx.TypeFactoryInit, account),
		Treasury:  treasury,
		LinkToken: link,
		WETHToken: weth,
		YFLToken:  yfl,
	}
}

// Validate checks the transaction is well formed.
func (t *Init) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Treasury.IsZero() || t.LinkToken.IsZero() || t.WETHToken.IsZero() || t.YFLToken.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "treasury and well-known tokens are required")
	}
	return nil
}

// Apply creates the singletons.
func (t *Init) Apply(ctx *tx.ApplyContext) tx.Result {
	exists, err := ctx.View.Exists(state.Factory())
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TecFORBIDDEN
	}

	f := state.NewFactoryEntry(t.Account, t.Treasury, t.LinkToken, t.WETHToken, t.YFLToken)
	if err := tx.InsertFactory(ctx.View, f); err != nil {
		return tx.TefINTERNAL
	}

	o := state.NewOracleEntry(state.PairAddress(t.WETHToken, t.YFLToken))
	if err := tx.InsertOracle(ctx.View, o); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
