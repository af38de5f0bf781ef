// Package token implements the fungible token transactions: creation,
// transfers, approvals and delegated transfers.
package token

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// Create deploys a new token. The token address is derived from the
// creator and symbol, and the initial supply is credited to the creator.
type Create struct {
	tx.BaseTx
	Name          string   `json:"name"`
	Symbol        string   `json:"symbol"`
	Decimals      uint8    `json:"decimals"`
	InitialSupply *big.Int `json:"initial_supply"`
}

// NewCreate builds a token creation transaction.
func NewCreate(account types.Address, name, symbol string, decimals uint8, initialSupply *big.Int) *Create {
	return &Create{
		BaseTx:        *tx.NewBaseTx(tx.TypeTokenCreate, account),
		Name:          name,
		Symbol:        symbol,
		Decimals:      decimals,
		InitialSupply: mathutil.Clone(initialSupply),
	}
}

// Validate checks the transaction is well formed.
func (t *Create) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Symbol == "" {
		return tx.ValidationError(tx.TemMALFORMED, "symbol is required")
	}
	if t.InitialSupply == nil || t.InitialSupply.Sign() < 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "initial supply must be non-negative")
	}
	if t.InitialSupply.Cmp(mathutil.MaxUint256) > 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "initial supply exceeds 256 bits")
	}
	return nil
}

// Apply creates the token entry.
func (t *Create) Apply(ctx *tx.ApplyContext) tx.Result {
	addr := state.TokenAddress(t.Account, t.Symbol)

	exists, err := ctx.View.Exists(state.Token(addr))
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TecTOKEN_EXISTS
	}

	entry := state.NewTokenEntry(addr, t.Name, t.Symbol, t.Decimals)
	if t.InitialSupply.Sign() > 0 {
		entry.TotalSupply = mathutil.Clone(t.InitialSupply)
		entry.SetBalance(t.Account, mathutil.Clone(t.InitialSupply))
	}

	if err := tx.InsertToken(ctx.View, entry); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// Transfer moves tokens from the caller to another holder.
type Transfer struct {
	tx.BaseTx
	Token  types.Address `json:"token"`
	To     types.Address `json:"to"`
	Amount *big.Int      `json:"amount"`
}

// NewTransfer builds a token transfer transaction.
func NewTransfer(account, token, to types.Address, amount *big.Int) *Transfer {
	return &Transfer{
		BaseTx: *tx.NewBaseTx(tx.TypeTokenTransfer, account),
		Token:  token,
		To:     to,
		Amount: mathutil.Clone(amount),
	}
}

// Validate checks the transaction is well formed.
func (t *Transfer) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Token.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "token is required")
	}
	if t.Amount == nil || t.Amount.Sign() <= 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "amount must be positive")
	}
	return nil
}

// Apply moves the tokens.
func (t *Transfer) Apply(ctx *tx.ApplyContext) tx.Result {
	return tx.TransferTokens(ctx.View, t.Token, t.Account, t.To, t.Amount)
}

// Approve grants a spender the right to move the caller's tokens via
// TransferFrom. A fresh approval replaces any previous one.
type Approve struct {
	tx.BaseTx
	Token   types.Address `json:"token"`
	Spender types.Address `json:"spender"`
	Amount  *big.Int      `json:"amount"`
}

// NewApprove builds an approval transaction.
func NewApprove(account, token, spender types.Address, amount *big.Int) *Approve {
	return &Approve{
		BaseTx:  *tx.NewBaseTx(tx.TypeTokenApprove, account),
		Token:   token,
		Spender: spender,
		Amount:  mathutil.Clone(amount),
	}
}

// Validate checks the transaction is well formed.
func (t *Approve) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Token.IsZero() || t.Spender.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "token and spender are required")
	}
	if t.Amount == nil || t.Amount.Sign() < 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "amount must be non-negative")
	}
	return nil
}

// Apply stores the allowance.
func (t *Approve) Apply(ctx *tx.ApplyContext) tx.Result {
	entry, err := tx.ReadToken(ctx.View, t.Token)
	if err != nil {
		return tx.TefINTERNAL
	}
	if entry == nil {
		return tx.TecTOKEN_NOT_FOUND
	}
	entry.SetAllowance(t.Account, t.Spender, mathutil.Clone(t.Amount))
	if err := tx.WriteToken(ctx.View, entry); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TransferFrom moves tokens between two holders on the strength of a
// prior approval from the source to the caller.
type TransferFrom struct {
	tx.BaseTx
	Token  types.Address `json:"token"`
	From   types.Address `json:"from"`
	To     types.Address `json:"to"`
	Amount *big.Int      `json:"amount"`
}

// NewTransferFrom builds a delegated transfer transaction.
func NewTransferFrom(account, token, from, to types.Address, amount *big.Int) *TransferFrom {
	return &TransferFrom{
		BaseTx: *tx.NewBaseTx(tx.TypeTokenTransferFrom, account),
		Token:  token,
		From:   from,
		To:     to,
		Amount: mathutil.Clone(amount),
	}
}

// Validate checks the transaction is well formed.
func (t *TransferFrom) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Token.IsZero() || t.From.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "token and from are required")
	}
	if t.Amount == nil || t.Amount.Sign() <= 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "amount must be positive")
	}
	return nil
}

// Apply consumes allowance and moves the tokens.
func (t *TransferFrom) Apply(ctx *tx.ApplyContext) tx.Result {
	entry, err := tx.ReadToken(ctx.View, t.Token)
	if err != nil {
		return tx.TefINTERNAL
	}
	if entry == nil {
		return tx.TecTOKEN_NOT_FOUND
	}

	allowance := entry.Allowance(t.From, t.Account)
	remaining, err := mathutil.Sub(allowance, t.Amount)
	if err != nil {
		return tx.TecTRANSFER_FROM_FAILED
	}

	if res := tx.MoveTokens(entry, t.From, t.To, t.Amount); res != tx.TesSUCCESS {
		return res
	}
	entry.SetAllowance(t.From, t.Account, remaining)

	if err := tx.WriteToken(ctx.View, entry); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
