package token_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/tx/token"
	"github.com/yflink/linkswap/internal/testenv"
)

func TestCreate(t *testing.T) {
	env := testenv.New(t)
	alice := testenv.Addr(1)

	addr := env.NewToken(alice, "ChainLink Token", "LINK", testenv.E18(1000))

	entry, err := tx.ReadToken(env.Engine.View(), addr)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, "LINK", entry.Symbol)
	require.Equal(t, uint8(18), entry.Decimals)
	require.Zero(t, entry.TotalSupply.Cmp(testenv.E18(1000)))
	require.Zero(t, entry.BalanceOf(alice).Cmp(testenv.E18(1000)))
}

func TestCreateDuplicate(t *testing.T) {
	env := testenv.New(t)
	alice := testenv.Addr(1)

	env.NewToken(alice, "ChainLink Token", "LINK", testenv.E18(1000))
	env.Expect(token.NewCreate(alice, "ChainLink Token", "LINK", 18, testenv.E18(1)), tx.TecTOKEN_EXISTS)

	// A different creator derives a different address.
	env.NewToken(testenv.Addr(2), "ChainLink Token", "LINK", testenv.E18(1))
}

func TestCreateValidation(t *testing.T) {
	alice := testenv.Addr(1)

	cases := []struct {
		name string
		txn  *token.Create
		want tx.Result
	}{
		{"empty symbol", token.NewCreate(alice, "Token", "", 18, big.NewInt(1)), tx.TemMALFORMED},
		{"nil supply", token.NewCreate(alice, "Token", "TKN", 18, nil), tx.TemBAD_AMOUNT},
		{"negative supply", token.NewCreate(alice, "Token", "TKN", 18, big.NewInt(-1)), tx.TemBAD_AMOUNT},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := testenv.New(t)
			env.Expect(tc.txn, tc.want)
		})
	}
}

func TestTransfer(t *testing.T) {
	env := testenv.New(t)
	alice, bob := testenv.Addr(1), testenv.Addr(2)

	addr := env.NewToken(alice, "Token", "TKN", testenv.E18(100))
	env.Expect(token.NewTransfer(alice, addr, bob, testenv.E18(40)), tx.TesSUCCESS)

	require.Zero(t, env.Balance(addr, alice).Cmp(testenv.E18(60)))
	require.Zero(t, env.Balance(addr, bob).Cmp(testenv.E18(40)))
}

func TestTransferInsufficientFunds(t *testing.T) {
	env := testenv.New(t)
	alice, bob := testenv.Addr(1), testenv.Addr(2)

	addr := env.NewToken(alice, "Token", "TKN", testenv.E18(100))
	env.Expect(token.NewTransfer(bob, addr, alice, big.NewInt(1)), tx.TecINSUFFICIENT_FUNDS)
	env.Expect(token.NewTransfer(alice, addr, bob, testenv.E18(101)), tx.TecINSUFFICIENT_FUNDS)

	// Failed transfers leave balances untouched.
	require.Zero(t, env.Balance(addr, alice).Cmp(testenv.E18(100)))
	require.Zero(t, env.Balance(addr, bob).Sign())
}

func TestTransferUnknownToken(t *testing.T) {
	env := testenv.New(t)
	env.Expect(token.NewTransfer(testenv.Addr(1), testenv.Addr(9), testenv.Addr(2), big.NewInt(1)), tx.TecTOKEN_NOT_FOUND)
}

func TestTransferValidation(t *testing.T) {
	env := testenv.New(t)
	alice := testenv.Addr(1)
	addr := env.NewToken(alice, "Token", "TKN", testenv.E18(100))

	var zero = big.NewInt(0)
	env.Expect(token.NewTransfer(alice, addr, testenv.Addr(2), zero), tx.TemBAD_AMOUNT)
	env.Expect(token.NewTransfer(alice, addr, testenv.Addr(2), big.NewInt(-5)), tx.TemBAD_AMOUNT)
}

func TestApproveAndTransferFrom(t *testing.T) {
	env := testenv.New(t)
	alice, bob, carol := testenv.Addr(1), testenv.Addr(2), testenv.Addr(3)

	addr := env.NewToken(alice, "Token", "TKN", testenv.E18(100))
	env.Expect(token.NewApprove(alice, addr, bob, testenv.E18(30)), tx.TesSUCCESS)

	env.Expect(token.NewTransferFrom(bob, addr, alice, carol, testenv.E18(20)), tx.TesSUCCESS)

	require.Zero(t, env.Balance(addr, alice).Cmp(testenv.E18(80)))
	require.Zero(t, env.Balance(addr, carol).Cmp(testenv.E18(20)))

	entry, err := tx.ReadToken(env.Engine.View(), addr)
	require.NoError(t, err)
	require.Zero(t, entry.Allowance(alice, bob).Cmp(testenv.E18(10)))
}

func TestTransferFromExceedsAllowance(t *testing.T) {
	env := testenv.New(t)
	alice, bob := testenv.Addr(1), testenv.Addr(2)

	addr := env.NewToken(alice, "Token", "TKN", testenv.E18(100))
	env.Expect(token.NewApprove(alice, addr, bob, testenv.E18(10)), tx.TesSUCCESS)

	env.Expect(token.NewTransferFrom(bob, addr, alice, bob, testenv.E18(11)), tx.TecTRANSFER_FROM_FAILED)

	// No allowance at all behaves the same way.
	env.Expect(token.NewTransferFrom(testenv.Addr(3), addr, alice, bob, big.NewInt(1)), tx.TecTRANSFER_FROM_FAILED)
}

func TestTransferFromInsufficientBalance(t *testing.T) {
	env := testenv.New(t)
	alice, bob := testenv.Addr(1), testenv.Addr(2)

	addr := env.NewToken(alice, "Token", "TKN", testenv.E18(10))
	env.Expect(token.NewApprove(alice, addr, bob, testenv.E18(100)), tx.TesSUCCESS)

	// Allowance covers it but the balance does not.
	env.Expect(token.NewTransferFrom(bob, addr, alice, bob, testenv.E18(11)), tx.TecINSUFFICIENT_FUNDS)
}

func TestApproveReplacesAllowance(t *testing.T) {
	env := testenv.New(t)
	alice, bob := testenv.Addr(1), testenv.Addr(2)

	addr := env.NewToken(alice, "Token", "TKN", testenv.E18(100))
	env.Expect(token.NewApprove(alice, addr, bob, testenv.E18(30)), tx.TesSUCCESS)
	env.Expect(token.NewApprove(alice, addr, bob, testenv.E18(5)), tx.TesSUCCESS)

	entry, err := tx.ReadToken(env.Engine.View(), addr)
	require.NoError(t, err)
	require.Zero(t, entry.Allowance(alice, bob).Cmp(testenv.E18(5)))

	// Approving zero clears the allowance entry.
	env.Expect(token.NewApprove(alice, addr, bob, big.NewInt(0)), tx.TesSUCCESS)
	entry, err = tx.ReadToken(env.Engine.View(), addr)
	require.NoError(t, err)
	require.Zero(t, entry.Allowance(alice, bob).Sign())
}

func TestTokenAddressDerivation(t *testing.T) {
	env := testenv.New(t)
	alice := testenv.Addr(1)

	addr := env.NewToken(alice, "Token", "TKN", testenv.E18(1))
	require.Equal(t, state.TokenAddress(alice, "TKN"), addr)
}
