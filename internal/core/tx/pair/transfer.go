package pair

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// TransferLiquidity moves liquidity tokens between holders. Transfers
// to the pair's own address stage liquidity for a Burn.
type TransferLiquidity struct {
	tx.BaseTx
	Pair   types.Address `json:"pair"`
	To     types.Address `json:"to"`
	Amount *big.Int      `json:"amount"`
}

// NewTransferLiquidity builds a liquidity transfer transaction.
func NewTransferLiquidity(account, pair, to types.Address, amount *big.Int) *TransferLiquidity {
	return &TransferLiquidity{
		BaseTx: *tx.NewBaseTx(tx.TypePairTransferLiquidity, account),
		Pair:   pair,
		To:     to,
		Amount: mathutil.Clone(amount),
	}
}

// Validate checks the transaction is well formed.
func (t *TransferLiquidity) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Pair.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "pair is required")
	}
	if t.To.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "to is required")
	}
	if t.Amount == nil || t.Amount.Sign() <= 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "amount must be positive")
	}
	return nil
}

// Apply moves the liquidity.
func (t *TransferLiquidity) Apply(ctx *tx.ApplyContext) tx.Result {
	p, res := loadPair(ctx, t.Pair)
	if res != tx.TesSUCCESS {
		return res
	}

	fromBal, err := mathutil.Sub(p.BalanceOf(t.Account), t.Amount)
	if err != nil {
		return tx.TecINSUFFICIENT_FUNDS
	}
	toBal, err := mathutil.Add(p.BalanceOf(t.To), t.Amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	p.SetBalance(t.Account, fromBal)
	p.SetBalance(t.To, toBal)

	if err := tx.WritePair(ctx.View, p); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
