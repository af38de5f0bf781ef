package factory

import (
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
)

// SetGovernance hands control of the factory to a new governance
// address. The change is immediate and irrevocable for the caller.
type SetGovernance struct {
	tx.BaseTx
	Governance types.Address `json:"governance"`
}

// NewSetGovernance builds a governance handover transaction.
func NewSetGovernance(account, governance types.Address) *SetGovernance {
	return &SetGovernance{
		BaseTx:     *tx.NewBaseTx(tx.TypeFactorySetGovernance, account),
		Governance: governance,
	}
}

// Validate checks the transaction is well formed.
func (t *SetGovernance) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Governance.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "governance is required")
	}
	return nil
}

// Apply records the new governance address.
func (t *SetGovernance) Apply(ctx *tx.ApplyContext) tx.Result {
	f, err := tx.ReadFactory(ctx.View)
	if err != nil || f == nil {
		return tx.TefINTERNAL
	}
	if ctx.Caller != f.Governance {
		return tx.TecFORBIDDEN
	}
	f.Governance = t.Governance
	if err := tx.WriteFactory(ctx.View, f); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
