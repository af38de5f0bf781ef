package tx

import (
	"errors"
	"math/big"

	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// ResultFromMathError maps checked-arithmetic failures to a result code.
func ResultFromMathError(err error) Result {
	if err == nil {
		return TesSUCCESS
	}
	if errors.Is(err, mathutil.ErrOverflow) ||
		errors.Is(err, mathutil.ErrUnderflow) ||
		errors.Is(err, mathutil.ErrDivisionByZero) {
		return TefARITHMETIC
	}
	return TefINTERNAL
}

// MoveTokens moves amount of token from one holder to another,
// adjusting the token entry in place. The entry is not written back;
// callers batch their writes.
func MoveTokens(entry *state.TokenEntry, from, to types.Address, amount *big.Int) Result {
	if amount.Sign() == 0 {
		return TesSUCCESS
	}
	fromBal, err := mathutil.Sub(entry.BalanceOf(from), amount)
	if err != nil {
		return TecINSUFFICIENT_FUNDS
	}
	toBal, err := mathutil.Add(entry.BalanceOf(to), amount)
	if err != nil {
		return TefARITHMETIC
	}
	entry.SetBalance(from, fromBal)
	entry.SetBalance(to, toBal)
	return TesSUCCESS
}

// TransferTokens reads a token entry, moves amount between holders and
// writes the entry back.
func TransferTokens(view LedgerView, token types.Address, from, to types.Address, amount *big.Int) Result {
	entry, err := ReadToken(view, token)
	if err != nil {
		return TefINTERNAL
	}
	if entry == nil {
		return TecTOKEN_NOT_FOUND
	}
	if res := MoveTokens(entry, from, to, amount); res != TesSUCCESS {
		return res
	}
	if err := WriteToken(view, entry); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}

// TokenBalance reads a holder's balance of a token.
func TokenBalance(view LedgerView, token, holder types.Address) (*big.Int, Result) {
	entry, err := ReadToken(view, token)
	if err != nil {
		return nil, TefINTERNAL
	}
	if entry == nil {
		return nil, TecTOKEN_NOT_FOUND
	}
	return entry.BalanceOf(holder), TesSUCCESS
}
