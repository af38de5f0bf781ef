package factory

import (
	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
)

// ApprovePair marks a token pair as eligible for permissionless
// creation without a listing fee. Governance only.
type ApprovePair struct {
	tx.BaseTx
	TokenA types.Address `json:"token_a"`
	TokenB types.Address `json:"token_b"`
}

// NewApprovePair builds a pair approval transaction.
func NewApprovePair(account, tokenA, tokenB types.Address) *ApprovePair {
	return &ApprovePair{
		BaseTx: *tx.NewBaseTx(tx.TypeFactoryApprovePair, account),
		TokenA: tokenA,
		TokenB: tokenB,
	}
}

// Validate checks the transaction is well formed.
func (t *ApprovePair) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.TokenA == t.TokenB {
		return tx.ValidationError(tx.TemIDENTICAL_ADDRESSES, "tokens must differ")
	}
	if t.TokenA.IsZero() || t.TokenB.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "tokens are required")
	}
	return nil
}

// Apply records the approval.
func (t *ApprovePair) Apply(ctx *tx.ApplyContext) tx.Result {
	f, err := tx.ReadFactory(ctx.View)
	if err != nil || f == nil {
		return tx.TefINTERNAL
	}
	if ctx.Caller != f.Governance {
		return tx.TecFORBIDDEN
	}
	if _, ok := f.PairFor(t.TokenA, t.TokenB); ok {
		return tx.TecPAIR_EXISTS
	}
	if f.ApprovedPairs == nil {
		f.ApprovedPairs = make(map[string]bool)
	}
	f.ApprovedPairs[state.PairKey(t.TokenA, t.TokenB)] = true
	if err := tx.WriteFactory(ctx.View, f); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
