package pair

import (
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
)

// Sync forces the tracked reserves to match the pair's actual token
// balances, advancing the cumulative price clocks for the elapsed time.
type Sync struct {
	tx.BaseTx
	Pair types.Address `json:"pair"`
}

// NewSync builds a sync transaction.
func NewSync(account, pair types.Address) *Sync {
	return &Sync{
		BaseTx: *tx.NewBaseTx(tx.TypePairSync, account),
		Pair:   pair,
	}
}

// Validate checks the transaction is well formed.
func (t *Sync) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Pair.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "pair is required")
	}
	return nil
}

// Apply refreshes the reserves.
func (t *Sync) Apply(ctx *tx.ApplyContext) tx.Result {
	p, res := loadPair(ctx, t.Pair)
	if res != tx.TesSUCCESS {
		return res
	}

	balance0, balance1, res := pairBalances(ctx, p)
	if res != tx.TesSUCCESS {
		return res
	}
	if res := updateReserves(p, balance0, balance1, ctx.Env); res != tx.TesSUCCESS {
		return res
	}
	if err := tx.WritePair(ctx.View, p); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
