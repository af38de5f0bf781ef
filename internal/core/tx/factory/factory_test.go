package factory_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yflink/linkswap/internal/core/oracle"
	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/tx/factory"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/testenv"
)

// usd returns a USD amount at the feeds' 8 decimals.
func usd(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(100_000_000))
}

type listingFixture struct {
	env    *testenv.Env
	sys    testenv.System
	wallet types.Address
	tokenX types.Address
}

// newListingFixture prices LINK at $25 and WETH at $400 and gives the
// wallet a plain token to list.
func newListingFixture(t *testing.T) *listingFixture {
	env := testenv.New(t)
	governance, treasury, wallet := testenv.Addr(1), testenv.Addr(2), testenv.Addr(10)
	sys := env.SetupFactory(governance, treasury, wallet, testenv.E18(1_000_000))

	env.Expect(oracle.NewSetFeeds(governance, usd(25), usd(400)), tx.TesSUCCESS)
	tokenX := env.NewToken(wallet, "Token X", "TKX", testenv.E18(1_000_000))
	return &listingFixture{env: env, sys: sys, wallet: wallet, tokenX: tokenX}
}

func TestInitDefaults(t *testing.T) {
	fx := newListingFixture(t)
	f := fx.env.Factory()

	require.Equal(t, fx.sys.Governance, f.Governance)
	require.Equal(t, fx.sys.Treasury, f.Treasury)
	require.Equal(t, uint64(state.DefaultLinkTradingFeePercent), f.DefaultLinkTradingFeePercent)
	require.Equal(t, uint64(state.DefaultNonLinkTradingFeePercent), f.DefaultNonLinkTradingFeePercent)
	require.Equal(t, uint64(100_000), f.TreasuryListingFeeShare)
	require.Equal(t, uint64(100_000), f.LockupAmountListingFeeDiscountShare)
	require.Equal(t, uint64(1_000_000), f.TreasuryProtocolFeeShare)
	require.Zero(t, f.ProtocolFeeFractionInverse)
	require.Zero(t, f.MaxSlippagePercent)
	require.Empty(t, f.AllPairs)
	require.Empty(t, f.ListingFees)

	o := fx.env.Oracle()
	require.Equal(t, state.PairAddress(fx.sys.Weth, fx.sys.Yfl), o.ReferencePair)
}

func TestInitTwice(t *testing.T) {
	fx := newListingFixture(t)
	sys := fx.sys
	fx.env.Expect(factory.NewInit(sys.Governance, sys.Treasury, sys.Link, sys.Weth, sys.Yfl), tx.TecFORBIDDEN)
}

func TestCreatePairValidation(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys
	var zero types.Address

	env.Expect(factory.NewCreatePair(fx.wallet, sys.Link, sys.Link, nil, nil, 0, sys.Link), tx.TemIDENTICAL_ADDRESSES)
	env.Expect(factory.NewCreatePair(fx.wallet, zero, sys.Link, nil, nil, 0, sys.Link), tx.TemZERO_ADDRESS)
	env.Expect(factory.NewCreatePair(fx.wallet, sys.Link, fx.tokenX, big.NewInt(-1), nil, 0, sys.Link), tx.TemBAD_AMOUNT)
}

func TestCreatePairRegistry(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys

	pairAddr := env.CreatePair(fx.wallet, fx.tokenX, sys.Weth)

	f := env.Factory()
	require.Equal(t, []types.Address{pairAddr}, f.AllPairs)
	got, ok := f.PairFor(sys.Weth, fx.tokenX)
	require.True(t, ok)
	require.Equal(t, pairAddr, got)

	// Recreating it, in either token order, is rejected
	env.Expect(factory.NewCreatePair(fx.wallet, fx.tokenX, sys.Weth, nil, nil, 0, sys.Weth), tx.TecPAIR_EXISTS)
	env.Expect(factory.NewCreatePair(fx.wallet, sys.Weth, fx.tokenX, nil, nil, 0, sys.Weth), tx.TecPAIR_EXISTS)
}

func TestCreatePairTradingFee(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys

	linkPair := env.CreatePair(fx.wallet, fx.tokenX, sys.Link)
	require.Equal(t, uint64(state.DefaultLinkTradingFeePercent), env.Pair(linkPair).TradingFeePercent)

	wethPair := env.CreatePair(fx.wallet, fx.tokenX, sys.Weth)
	require.Equal(t, uint64(state.DefaultNonLinkTradingFeePercent), env.Pair(wethPair).TradingFeePercent)
}

func TestSetPolicyDefaultTradingFees(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys
	governance := sys.Governance

	env.Expect(factory.NewSetPolicy(governance, factory.ParamDefaultLinkTradingFeePercent).WithValue(1000), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamDefaultNonLinkTradingFeePercent).WithValue(5000), tx.TesSUCCESS)

	f := env.Factory()
	require.Equal(t, uint64(1000), f.DefaultLinkTradingFeePercent)
	require.Equal(t, uint64(5000), f.DefaultNonLinkTradingFeePercent)

	// Pairs created after the change pick up the new defaults.
	linkPair := env.CreatePair(fx.wallet, fx.tokenX, sys.Link)
	require.Equal(t, uint64(1000), env.Pair(linkPair).TradingFeePercent)

	wethPair := env.CreatePair(fx.wallet, fx.tokenX, sys.Weth)
	require.Equal(t, uint64(5000), env.Pair(wethPair).TradingFeePercent)
}

func TestCreatePairForbidden(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys

	// Governance lists through approvals, not the fee-paying path
	env.Expect(factory.NewCreatePair(sys.Governance, fx.tokenX, sys.Weth, nil, nil, 0, sys.Weth), tx.TecFORBIDDEN)

	// A pair without the base-liquidity or wrapped native token
	tokenY := env.NewToken(fx.wallet, "Token Y", "TKY", testenv.E18(1000))
	env.Expect(factory.NewCreatePair(fx.wallet, fx.tokenX, tokenY, nil, nil, 0, sys.Link), tx.TecFORBIDDEN)
}

func TestCreatePairUnknownToken(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys
	env.Expect(factory.NewCreatePair(fx.wallet, testenv.Addr(99), sys.Weth, nil, nil, 0, sys.Weth), tx.TecTOKEN_NOT_FOUND)
}

func TestCreatePairApprovedSkipsFee(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys

	// A configured fee would otherwise apply
	env.Expect(factory.NewSetPolicy(sys.Governance, factory.ParamListingFee).WithToken(sys.Link).WithAmount(usd(2500)), tx.TesSUCCESS)

	tokenY := env.NewToken(fx.wallet, "Token Y", "TKY", testenv.E18(1000))
	env.Expect(factory.NewApprovePair(sys.Governance, fx.tokenX, tokenY), tx.TesSUCCESS)

	before := env.Balance(sys.Link, fx.wallet)
	env.Expect(factory.NewCreatePair(fx.wallet, fx.tokenX, tokenY, nil, nil, 0, sys.Link), tx.TesSUCCESS)
	require.Zero(t, env.Balance(sys.Link, fx.wallet).Cmp(before))
}

func TestApprovePair(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys

	env.Expect(factory.NewApprovePair(fx.wallet, fx.tokenX, sys.Weth), tx.TecFORBIDDEN)
	env.Expect(factory.NewApprovePair(sys.Governance, fx.tokenX, sys.Weth), tx.TesSUCCESS)
	require.True(t, env.Factory().IsApproved(sys.Weth, fx.tokenX))

	// Approving an already created pair is pointless
	env.CreatePair(fx.wallet, fx.tokenX, sys.Link)
	env.Expect(factory.NewApprovePair(sys.Governance, fx.tokenX, sys.Link), tx.TecPAIR_EXISTS)
}

func TestListingFeeChargedAndSplit(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys
	governance, treasury := sys.Governance, sys.Treasury

	// $2500 fee paid in LINK at $25: 100 LINK, split 12.3456% / rest
	env.Expect(factory.NewSetPolicy(governance, factory.ParamListingFee).WithToken(sys.Link).WithAmount(usd(2500)), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamTreasuryListingFeeShare).WithValue(123_456), tx.TesSUCCESS)

	before := env.Balance(sys.Link, fx.wallet)
	env.Expect(factory.NewCreatePair(fx.wallet, fx.tokenX, sys.Weth, nil, nil, 0, sys.Link), tx.TesSUCCESS)

	fee := testenv.E18(100)
	require.Zero(t, env.Balance(sys.Link, fx.wallet).Cmp(new(big.Int).Sub(before, fee)))
	require.Zero(t, env.Balance(sys.Link, treasury).Cmp(testenv.Big("12345600000000000000")))
	require.Zero(t, env.Balance(sys.Link, governance).Cmp(testenv.Big("87654400000000000000")))
}

func TestListingFeeInvalidFeeToken(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys
	env.Expect(factory.NewCreatePair(fx.wallet, fx.tokenX, sys.Weth, nil, nil, 0, fx.tokenX), tx.TecINVALID_LISTING_FEE_TOKEN)
}

func TestListingFeeInsufficientFunds(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys
	governance := sys.Governance

	env.Expect(factory.NewSetPolicy(governance, factory.ParamListingFee).WithToken(sys.Link).WithAmount(usd(2500)), tx.TesSUCCESS)

	// A lister holding almost no LINK cannot pay the 100 LINK fee
	lister := testenv.Addr(30)
	env.Fund(sys.Link, fx.wallet, lister, testenv.E18(1))
	env.Fund(fx.tokenX, fx.wallet, lister, testenv.E18(1))
	env.Expect(factory.NewCreatePair(lister, fx.tokenX, sys.Weth, nil, nil, 0, sys.Link), tx.TecTRANSFER_FROM_FAILED)
}

// setLockupPolicy configures the $1000/$2000 amount window, the 1s/5s
// period window and a 60% weight on the amount ratio.
func setLockupPolicy(fx *listingFixture) {
	env, governance := fx.env, fx.sys.Governance
	env.Expect(factory.NewSetPolicy(governance, factory.ParamTargetListingLockupAmount).WithAmount(usd(2000)), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamMinListingLockupAmount).WithAmount(usd(1000)), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamTargetListingLockupPeriod).WithValue(5), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamMinListingLockupPeriod).WithValue(1), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamLockupAmountListingFeeDiscountShare).WithValue(600_000), tx.TesSUCCESS)
}

func TestListingFeeLockupDiscount(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys
	governance, treasury := sys.Governance, sys.Treasury

	env.Expect(factory.NewSetPolicy(governance, factory.ParamListingFee).WithToken(sys.Link).WithAmount(usd(2500)), tx.TesSUCCESS)
	setLockupPolicy(fx)

	// Locking $1250 of WETH (3.125 at $400) for 4s discounts the fee by
	// 60% * 25% + 40% * 75% = 45%: 55 LINK instead of 100
	amountA := testenv.E18(2)
	amountB := testenv.Big("3125000000000000000")
	before := env.Balance(sys.Link, fx.wallet)
	env.Expect(factory.NewCreatePair(fx.wallet, fx.tokenX, sys.Weth, amountA, amountB, 4, sys.Link), tx.TesSUCCESS)

	fee := testenv.E18(55)
	require.Zero(t, env.Balance(sys.Link, fx.wallet).Cmp(new(big.Int).Sub(before, fee)))
	treasuryCut := new(big.Int).Div(new(big.Int).Mul(fee, big.NewInt(100_000)), big.NewInt(state.FeeScale))
	require.Zero(t, env.Balance(sys.Link, treasury).Cmp(treasuryCut))
	require.Zero(t, env.Balance(sys.Link, governance).Cmp(new(big.Int).Sub(fee, treasuryCut)))

	// The deposit minted liquidity straight into lockup custody
	pairAddr := state.PairAddress(fx.tokenX, sys.Weth)
	p := env.Pair(pairAddr)
	liquidity := new(big.Int).Sub(testenv.Big("2500000000000000000"), big.NewInt(state.MinimumLiquidity))
	require.Zero(t, p.BalanceOf(fx.wallet).Sign())
	require.Zero(t, p.BalanceOf(pairAddr).Cmp(liquidity))
	require.Zero(t, p.TotalLocked.Cmp(liquidity))

	lk := p.LockupOf(fx.wallet)
	require.NotNil(t, lk)
	require.Equal(t, env.Clock.Env().Timestamp+4, lk.Expiry)
}

func TestListingFeeFullDiscountAtTarget(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys
	governance := sys.Governance

	env.Expect(factory.NewSetPolicy(governance, factory.ParamListingFee).WithToken(sys.Link).WithAmount(usd(2500)), tx.TesSUCCESS)
	setLockupPolicy(fx)

	// $2000 of WETH for the full target period: the fee is waived
	amountB := testenv.E18(5) // 5 WETH at $400
	before := env.Balance(sys.Link, fx.wallet)
	env.Expect(factory.NewCreatePair(fx.wallet, fx.tokenX, sys.Weth, testenv.E18(2), amountB, 5, sys.Link), tx.TesSUCCESS)
	require.Zero(t, env.Balance(sys.Link, fx.wallet).Cmp(before))
}

func TestListingLockupThresholds(t *testing.T) {
	fx := newListingFixture(t)
	env, sys := fx.env, fx.sys
	setLockupPolicy(fx)

	// No lockup at all while a minimum is configured
	env.Expect(factory.NewCreatePair(fx.wallet, fx.tokenX, sys.Weth, nil, nil, 0, sys.Link), tx.TecLISTING_LOCKUP_TOO_LOW)

	// $800 of WETH is under the $1000 minimum
	env.Expect(factory.NewCreatePair(fx.wallet, fx.tokenX, sys.Weth, testenv.E18(1), testenv.E18(2), 4, sys.Link), tx.TecLISTING_LOCKUP_TOO_LOW)

	// Enough value, but no period
	env.Expect(factory.NewCreatePair(fx.wallet, fx.tokenX, sys.Weth, testenv.E18(1), testenv.E18(3), 0, sys.Link), tx.TecLISTING_PERIOD_TOO_SHORT)
}

func TestSetPolicyAuthorization(t *testing.T) {
	fx := newListingFixture(t)
	fx.env.Expect(factory.NewSetPolicy(fx.wallet, factory.ParamMaxSlippagePercent).WithValue(10), tx.TecFORBIDDEN)
}

func TestSetPolicyValidation(t *testing.T) {
	fx := newListingFixture(t)
	env, governance := fx.env, fx.sys.Governance

	env.Expect(factory.NewSetPolicy(governance, factory.ParamDefaultLinkTradingFeePercent).WithValue(state.MaxTradingFeePercent+1), tx.TemINVALID_TRADING_FEE_PERCENT)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamDefaultNonLinkTradingFeePercent).WithValue(state.MaxTradingFeePercent+1), tx.TemINVALID_TRADING_FEE_PERCENT)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamDefaultNonLinkTradingFeePercent).WithValue(state.MaxTradingFeePercent), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamTreasuryListingFeeShare).WithValue(state.FeeScale+1), tx.TemINVALID_FEE_SHARE)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamProtocolFeeFractionInverse).WithValue(1999), tx.TemINVALID_PROTOCOL_FEE_FRACTION)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamProtocolFeeFractionInverse).WithValue(2000), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamProtocolFeeFractionInverse).WithValue(0), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamMaxSlippagePercent).WithValue(101), tx.TemINVALID_SLIPPAGE_PERCENT)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamMaxSlippageBlocks).WithValue(0), tx.TemINVALID_SLIPPAGE_BLOCKS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamMaxSlippageBlocks).WithValue(state.MaxMaxSlippageBlocks+1), tx.TemINVALID_SLIPPAGE_BLOCKS)
	env.Expect(factory.NewSetPolicy(governance, "noSuchParameter").WithValue(1), tx.TemMALFORMED)
}

func TestSetPolicyLockupBounds(t *testing.T) {
	fx := newListingFixture(t)
	env, governance := fx.env, fx.sys.Governance

	env.Expect(factory.NewSetPolicy(governance, factory.ParamTargetListingLockupAmount).WithAmount(usd(2000)), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamMinListingLockupAmount).WithAmount(usd(3000)), tx.TecINVALID_LOCKUP_BOUNDS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamMinListingLockupAmount).WithAmount(usd(1000)), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamTargetListingLockupAmount).WithAmount(usd(500)), tx.TecINVALID_LOCKUP_BOUNDS)

	env.Expect(factory.NewSetPolicy(governance, factory.ParamTargetListingLockupPeriod).WithValue(5), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamMinListingLockupPeriod).WithValue(6), tx.TecINVALID_LOCKUP_BOUNDS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamMinListingLockupPeriod).WithValue(2), tx.TesSUCCESS)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamTargetListingLockupPeriod).WithValue(1), tx.TecINVALID_LOCKUP_BOUNDS)
}

func TestSetPolicyListingFeeToken(t *testing.T) {
	fx := newListingFixture(t)
	env, governance := fx.env, fx.sys.Governance

	env.Expect(factory.NewSetPolicy(governance, factory.ParamListingFee).WithToken(fx.tokenX).WithAmount(usd(1)), tx.TecINVALID_LISTING_FEE_TOKEN)
	env.Expect(factory.NewSetPolicy(governance, factory.ParamListingFee).WithToken(fx.sys.Yfl).WithAmount(usd(1)), tx.TesSUCCESS)
	require.Zero(t, env.Factory().ListingFeeFor(fx.sys.Yfl).Cmp(usd(1)))
}

func TestSetTreasury(t *testing.T) {
	fx := newListingFixture(t)
	env, governance := fx.env, fx.sys.Governance
	next := testenv.Addr(40)

	env.Expect(factory.NewSetPolicy(governance, factory.ParamTreasury).WithToken(next), tx.TesSUCCESS)
	require.Equal(t, next, env.Factory().Treasury)
}

func TestSetGovernance(t *testing.T) {
	fx := newListingFixture(t)
	env, governance := fx.env, fx.sys.Governance
	next := testenv.Addr(40)

	env.Expect(factory.NewSetGovernance(fx.wallet, next), tx.TecFORBIDDEN)
	env.Expect(factory.NewSetGovernance(governance, next), tx.TesSUCCESS)
	require.Equal(t, next, env.Factory().Governance)

	// The old governance has no power left
	env.Expect(factory.NewSetGovernance(governance, governance), tx.TecFORBIDDEN)
	env.Expect(factory.NewSetGovernance(next, governance), tx.TesSUCCESS)
}
