package pair_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/tx/pair"
	"github.com/yflink/linkswap/internal/testenv"
)

func setupLock(t *testing.T) *fixture {
	fx := newFixture(t)
	fx.env.AddLiquidity(fx.wallet, fx.pairAddr, testenv.E18(10), testenv.E18(10))
	return fx
}

func TestLock(t *testing.T) {
	fx := setupLock(t)
	env := fx.env
	now := env.Clock.Env().Timestamp

	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, testenv.E18(4), 3600), tx.TesSUCCESS)

	p := env.Pair(fx.pairAddr)
	wantBal := new(big.Int).Sub(testenv.E18(6), big.NewInt(1000))
	require.Zero(t, p.BalanceOf(fx.wallet).Cmp(wantBal))
	require.Zero(t, p.BalanceOf(fx.pairAddr).Cmp(testenv.E18(4)))
	require.Zero(t, p.TotalLocked.Cmp(testenv.E18(4)))

	lk := p.LockupOf(fx.wallet)
	require.NotNil(t, lk)
	require.Zero(t, lk.Amount.Cmp(testenv.E18(4)))
	require.Equal(t, now+3600, lk.Expiry)
}

func TestLockNothingIsNoop(t *testing.T) {
	fx := setupLock(t)
	env := fx.env

	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, nil, 0), tx.TesSUCCESS)
	require.Nil(t, env.Pair(fx.pairAddr).LockupOf(fx.wallet))
}

func TestLockMissingLeg(t *testing.T) {
	fx := setupLock(t)
	env := fx.env

	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, testenv.E18(1), 0), tx.TecZERO_LOCKUP_PERIOD)
	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, nil, 3600), tx.TecZERO_LOCKUP_AMOUNT)
}

func TestLockExceedsBalance(t *testing.T) {
	fx := setupLock(t)
	fx.env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, testenv.E18(11), 3600), tx.TefARITHMETIC)
}

func TestLockExtendsActiveLock(t *testing.T) {
	fx := setupLock(t)
	env := fx.env
	now := env.Clock.Env().Timestamp

	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, testenv.E18(4), 3600), tx.TesSUCCESS)

	// The new period stacks on the current expiry, even after time passes
	env.Clock.Advance(100)
	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, nil, 1800), tx.TesSUCCESS)

	lk := env.Pair(fx.pairAddr).LockupOf(fx.wallet)
	require.Equal(t, now+3600+1800, lk.Expiry)
	require.Zero(t, lk.Amount.Cmp(testenv.E18(4)))
}

func TestLockTopUp(t *testing.T) {
	fx := setupLock(t)
	env := fx.env
	now := env.Clock.Env().Timestamp

	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, testenv.E18(4), 3600), tx.TesSUCCESS)
	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, testenv.E18(1), 0), tx.TesSUCCESS)

	p := env.Pair(fx.pairAddr)
	lk := p.LockupOf(fx.wallet)
	require.Zero(t, lk.Amount.Cmp(testenv.E18(5)))
	require.Equal(t, now+3600, lk.Expiry)
	require.Zero(t, p.TotalLocked.Cmp(testenv.E18(5)))
}

func TestLockRebasesExpiredLock(t *testing.T) {
	fx := setupLock(t)
	env := fx.env

	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, testenv.E18(4), 3600), tx.TesSUCCESS)

	// Expired but never unlocked: a new period counts from now
	env.Clock.Advance(10_000)
	relockAt := env.Clock.Env().Timestamp
	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, nil, 500), tx.TesSUCCESS)

	lk := env.Pair(fx.pairAddr).LockupOf(fx.wallet)
	require.Equal(t, relockAt+500, lk.Expiry)
}

func TestUnlock(t *testing.T) {
	fx := setupLock(t)
	env := fx.env

	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, testenv.E18(4), 3600), tx.TesSUCCESS)

	env.Expect(pair.NewUnlock(fx.wallet, fx.pairAddr, fx.wallet), tx.TecBEFORE_EXPIRY)
	env.Clock.Advance(3599)
	env.Expect(pair.NewUnlock(fx.wallet, fx.pairAddr, fx.wallet), tx.TecBEFORE_EXPIRY)

	// Anyone may release an expired lock; the liquidity goes to the holder
	env.Clock.Advance(1)
	env.Expect(pair.NewUnlock(testenv.Addr(7), fx.pairAddr, fx.wallet), tx.TesSUCCESS)

	p := env.Pair(fx.pairAddr)
	wantBal := new(big.Int).Sub(testenv.E18(10), big.NewInt(1000))
	require.Zero(t, p.BalanceOf(fx.wallet).Cmp(wantBal))
	require.Zero(t, p.BalanceOf(fx.pairAddr).Sign())
	require.Zero(t, p.TotalLocked.Sign())
	require.Nil(t, p.LockupOf(fx.wallet))
}

func TestUnlockWithoutLock(t *testing.T) {
	fx := setupLock(t)
	fx.env.Expect(pair.NewUnlock(fx.wallet, fx.pairAddr, fx.wallet), tx.TesSUCCESS)
}

func TestBurnExcludesLockedLiquidity(t *testing.T) {
	fx := setupLock(t)
	env := fx.env

	env.Expect(pair.NewLock(fx.wallet, fx.pairAddr, testenv.E18(4), 3600), tx.TesSUCCESS)
	env.Expect(pair.NewTransferLiquidity(fx.wallet, fx.pairAddr, fx.pairAddr, testenv.E18(2)), tx.TesSUCCESS)
	env.Expect(pair.NewBurn(fx.wallet, fx.pairAddr, fx.wallet), tx.TesSUCCESS)

	// Only the freely transferred liquidity burned; custody is intact
	p := env.Pair(fx.pairAddr)
	require.Zero(t, p.TotalSupply.Cmp(testenv.E18(8)))
	require.Zero(t, p.BalanceOf(fx.pairAddr).Cmp(testenv.E18(4)))
	require.Zero(t, p.TotalLocked.Cmp(testenv.E18(4)))
	require.Zero(t, p.Reserve0.Cmp(testenv.E18(8)))
	require.Zero(t, p.Reserve1.Cmp(testenv.E18(8)))
}
