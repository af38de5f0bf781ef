package factory

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/oracle"
	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/tx/pair"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// CreatePair registers a new trading pair. Unless the pair was approved
// by governance beforehand, the second token must be the base-liquidity
// token or the wrapped native token, a listing fee (valued in USD via
// the price oracle, discounted by the offered lockup) is charged to the
// caller, and the initial deposit is minted and locked on the caller's
// behalf.
type CreatePair struct {
	tx.BaseTx
	TokenA          types.Address `json:"token_a"`
	AmountA         *big.Int      `json:"amount_a"`
	TokenB          types.Address `json:"token_b"`
	AmountB         *big.Int      `json:"amount_b"`
	LockupPeriod    uint64        `json:"lockup_period"`
	ListingFeeToken types.Address `json:"listing_fee_token"`
}

// NewCreatePair builds a pair creation transaction.
func NewCreatePair(account, tokenA, tokenB types.Address, amountA, amountB *big.Int, lockupPeriod uint64, listingFeeToken types.Address) *CreatePair {
	return &CreatePair{
		BaseTx:          *tx.NewBaseTx(tx.TypeFactoryCreatePair, account),
		TokenA:          tokenA,
		AmountA:         mathutil.Clone(amountA),
		TokenB:          tokenB,
		AmountB:         mathutil.Clone(amountB),
		LockupPeriod:    lockupPeriod,
		ListingFeeToken: listingFeeToken,
	}
}

// Validate checks the transaction is well formed.
func (t *CreatePair) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.TokenA == t.TokenB {
		return tx.ValidationError(tx.TemIDENTICAL_ADDRESSES, "tokens must differ")
	}
	if t.TokenA.IsZero() || t.TokenB.IsZero() {
		return tx.ValidationError(tx.TemZERO_ADDRESS, "tokens are required")
	}
	if t.AmountA != nil && t.AmountA.Sign() < 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "amount_a must not be negative")
	}
	if t.AmountB != nil && t.AmountB.Sign() < 0 {
		return tx.ValidationError(tx.TemBAD_AMOUNT, "amount_b must not be negative")
	}
	return nil
}

// Apply creates and registers the pair.
func (t *CreatePair) Apply(ctx *tx.ApplyContext) tx.Result {
	f, err := tx.ReadFactory(ctx.View)
	if err != nil || f == nil {
		return tx.TefINTERNAL
	}

	for _, token := range []types.Address{t.TokenA, t.TokenB} {
		entry, err := tx.ReadToken(ctx.View, token)
		if err != nil {
			return tx.TefINTERNAL
		}
		if entry == nil {
			return tx.TecTOKEN_NOT_FOUND
		}
	}

	if _, ok := f.PairFor(t.TokenA, t.TokenB); ok {
		return tx.TecPAIR_EXISTS
	}
	pairAddr := state.PairAddress(t.TokenA, t.TokenB)
	if exists, err := ctx.View.Exists(state.Pair(pairAddr)); err != nil {
		return tx.TefINTERNAL
	} else if exists {
		return tx.TecPAIR_EXISTS
	}

	amountA := mathutil.Clone(t.AmountA)
	amountB := mathutil.Clone(t.AmountB)

	if !f.IsApproved(t.TokenA, t.TokenB) {
		// Governance lists pairs through approval, not through the
		// fee-paying path.
		if ctx.Caller == f.Governance {
			return tx.TecFORBIDDEN
		}
		if t.TokenA != f.LinkToken && t.TokenA != f.WETHToken &&
			t.TokenB != f.LinkToken && t.TokenB != f.WETHToken {
			return tx.TecFORBIDDEN
		}
		if res := t.chargeListingFee(ctx, f, amountB); res != tx.TesSUCCESS {
			return res
		}
	}

	tradingFee := f.DefaultNonLinkTradingFeePercent
	if t.TokenA == f.LinkToken || t.TokenB == f.LinkToken {
		tradingFee = f.DefaultLinkTradingFeePercent
	}
	token0, token1 := types.SortTokens(t.TokenA, t.TokenB)
	p := state.NewPairEntry(pairAddr, token0, token1, tradingFee)
	if err := tx.InsertPair(ctx.View, p); err != nil {
		return tx.TefINTERNAL
	}

	f.AllPairs = append(f.AllPairs, pairAddr)
	f.PairIndex[state.PairKey(t.TokenA, t.TokenB)] = pairAddr
	if err := tx.WriteFactory(ctx.View, f); err != nil {
		return tx.TefINTERNAL
	}

	if amountA.Sign() > 0 && amountB.Sign() > 0 && t.LockupPeriod > 0 {
		if res := tx.TransferTokens(ctx.View, t.TokenA, ctx.Caller, pairAddr, amountA); res != tx.TesSUCCESS {
			return res
		}
		if res := tx.TransferTokens(ctx.View, t.TokenB, ctx.Caller, pairAddr, amountB); res != tx.TesSUCCESS {
			return res
		}
		liquidity, res := pair.ApplyMint(ctx, pairAddr, ctx.Caller)
		if res != tx.TesSUCCESS {
			return res
		}
		minted, err := tx.ReadPair(ctx.View, pairAddr)
		if err != nil || minted == nil {
			return tx.TefINTERNAL
		}
		if res := pair.ApplyLock(minted, ctx.Caller, liquidity, t.LockupPeriod, ctx.Env.Timestamp); res != tx.TesSUCCESS {
			return res
		}
		if err := tx.WritePair(ctx.View, minted); err != nil {
			return tx.TefINTERNAL
		}
	}
	return tx.TesSUCCESS
}

// chargeListingFee enforces the lockup thresholds, computes the
// discounted listing fee and transfers it from the caller, split
// between treasury and governance.
func (t *CreatePair) chargeListingFee(ctx *tx.ApplyContext, f *state.FactoryEntry, lockupAmount *big.Int) tx.Result {
	if t.ListingFeeToken != f.LinkToken && t.ListingFeeToken != f.WETHToken && t.ListingFeeToken != f.YFLToken {
		return tx.TecINVALID_LISTING_FEE_TOKEN
	}

	var lockupUsd *big.Int
	if lockupAmount.Sign() > 0 {
		usd, res := oracle.CalculateUsdAmountFromTokenAmount(ctx.View, f, t.TokenB, lockupAmount)
		if res != tx.TesSUCCESS {
			return res
		}
		lockupUsd = usd
	} else {
		lockupUsd = mathutil.Zero()
	}

	if f.MinListingLockupAmount != nil && f.MinListingLockupAmount.Sign() > 0 &&
		lockupUsd.Cmp(f.MinListingLockupAmount) < 0 {
		return tx.TecLISTING_LOCKUP_TOO_LOW
	}
	if f.MinListingLockupPeriod > 0 && t.LockupPeriod < f.MinListingLockupPeriod {
		return tx.TecLISTING_PERIOD_TOO_SHORT
	}

	feeUsd := f.ListingFeeFor(t.ListingFeeToken)
	if feeUsd.Sign() == 0 {
		return tx.TesSUCCESS
	}
	feeAmount, res := oracle.CalculateTokenAmountFromUsdAmount(ctx.View, f, t.ListingFeeToken, feeUsd)
	if res != tx.TesSUCCESS {
		return res
	}

	discount := t.listingFeeDiscount(f, lockupUsd)
	if discount > 0 {
		remainder := new(big.Int).SetUint64(state.FeeScale - discount)
		feeAmount = new(big.Int).Mul(feeAmount, remainder)
		feeAmount.Div(feeAmount, big.NewInt(state.FeeScale))
	}
	if feeAmount.Sign() == 0 {
		return tx.TesSUCCESS
	}

	toTreasury := new(big.Int).SetUint64(f.TreasuryListingFeeShare)
	toTreasury.Mul(toTreasury, feeAmount)
	toTreasury.Div(toTreasury, big.NewInt(state.FeeScale))
	toGovernance := new(big.Int).Sub(feeAmount, toTreasury)

	if toTreasury.Sign() > 0 {
		if res := tx.TransferTokens(ctx.View, t.ListingFeeToken, ctx.Caller, f.Treasury, toTreasury); res != tx.TesSUCCESS {
			if res == tx.TecINSUFFICIENT_FUNDS {
				return tx.TecTRANSFER_FROM_FAILED
			}
			return res
		}
	}
	if toGovernance.Sign() > 0 {
		if res := tx.TransferTokens(ctx.View, t.ListingFeeToken, ctx.Caller, f.Governance, toGovernance); res != tx.TesSUCCESS {
			if res == tx.TecINSUFFICIENT_FUNDS {
				return tx.TecTRANSFER_FROM_FAILED
			}
			return res
		}
	}
	return tx.TesSUCCESS
}

// listingFeeDiscount blends the amount and period ratios into a
// parts-per-million discount on the listing fee.
func (t *CreatePair) listingFeeDiscount(f *state.FactoryEntry, lockupUsd *big.Int) uint64 {
	amountRatio := amountLockupRatio(lockupUsd, f.MinListingLockupAmount, f.TargetListingLockupAmount)
	periodRatio := periodLockupRatio(t.LockupPeriod, f.MinListingLockupPeriod, f.TargetListingLockupPeriod)
	share := f.LockupAmountListingFeeDiscountShare
	return (share*amountRatio + (state.FeeScale-share)*periodRatio) / state.FeeScale
}

// amountLockupRatio maps a USD lockup value into [0, FeeScale] against
// the configured min/target thresholds. A value at or above the target
// earns the full ratio.
func amountLockupRatio(value, min, target *big.Int) uint64 {
	if target == nil || target.Sign() == 0 {
		return 0
	}
	if value.Cmp(target) >= 0 {
		return state.FeeScale
	}
	if min == nil {
		min = mathutil.Zero()
	}
	if value.Cmp(min) <= 0 || target.Cmp(min) <= 0 {
		return 0
	}
	num := new(big.Int).Sub(value, min)
	num.Mul(num, big.NewInt(state.FeeScale))
	num.Div(num, new(big.Int).Sub(target, min))
	return num.Uint64()
}

func periodLockupRatio(value, min, target uint64) uint64 {
	if target == 0 {
		return 0
	}
	if value >= target {
		return state.FeeScale
	}
	if value <= min || target <= min {
		return 0
	}
	return (value - min) * state.FeeScale / (target - min)
}
