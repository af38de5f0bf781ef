package factory

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// Policy parameter names accepted by SetPolicy.
const (
	ParamTreasury                            = "treasury"
	ParamDefaultLinkTradingFeePercent        = "defaultLinkTradingFeePercent"
	ParamDefaultNonLinkTradingFeePercent     = "defaultNonLinkTradingFeePercent"
	ParamTreasuryListingFeeShare             = "treasuryListingFeeShare"
	ParamListingFee                          = "listingFee"
	ParamMinListingLockupAmount              = "minListingLockupAmount"
	ParamTargetListingLockupAmount           = "targetListingLockupAmount"
	ParamMinListingLockupPeriod              = "minListingLockupPeriod"
	ParamTargetListingLockupPeriod           = "targetListingLockupPeriod"
	ParamLockupAmountListingFeeDiscountShare = "lockupAmountListingFeeDiscountShare"
	ParamProtocolFeeFractionInverse          = "protocolFeeFractionInverse"
	ParamTreasuryProtocolFeeShare            = "treasuryProtocolFeeShare"
	ParamMaxSlippagePercent                  = "maxSlippagePercent"
	ParamMaxSlippageBlocks                   = "maxSlippageBlocks"
)

// SetPolicy mutates a single global factory parameter. Governance only.
// Param selects the field; Value carries scalar parameters, Amount
// carries USD amounts and Token the listing fee token being priced.
type SetPolicy struct {
	tx.BaseTx
	Param  string        `json:"param"`
	Value  uint64        `json:"value,omitempty"`
	Amount *big.Int      `json:"amount,omitempty"`
	Token  types.Address `json:"token,omitempty"`
}

// NewSetPolicy builds a policy mutation transaction.
func NewSetPolicy(account types.Address, param string) *SetPolicy {
	return &SetPolicy{
		BaseTx: *tx.NewBaseTx(tx.TypeFactorySetPolicy, account),
		Param:  param,
	}
}

// WithValue sets the scalar value.
func (t *SetPolicy) WithValue(v uint64) *SetPolicy {
	t.Value = v
	return t
}

// WithAmount sets the USD amount.
func (t *SetPolicy) WithAmount(a *big.Int) *SetPolicy {
	t.Amount = mathutil.Clone(a)
	return t
}

// WithToken sets the token the parameter applies to.
func (t *SetPolicy) WithToken(token types.Address) *SetPolicy {
	t.Token = token
	return t
}

// Validate checks the parameter name and its static bounds.
func (t *SetPolicy) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	switch t.Param {
	case ParamTreasury:
		if t.Token.IsZero() {
			return tx.ValidationError(tx.TemZERO_ADDRESS, "treasury is required")
		}
	case ParamDefaultLinkTradingFeePercent, ParamDefaultNonLinkTradingFeePercent:
		if t.Value > state.MaxTradingFeePercent {
			return tx.ValidationError(tx.TemINVALID_TRADING_FEE_PERCENT, "trading fee must not exceed 1%")
		}
	case ParamTreasuryListingFeeShare, ParamLockupAmountListingFeeDiscountShare, ParamTreasuryProtocolFeeShare:
		if t.Value > state.FeeScale {
			return tx.ValidationError(tx.TemINVALID_FEE_SHARE, "share must not exceed 100%")
		}
	case ParamListingFee:
		if t.Token.IsZero() {
			return tx.ValidationError(tx.TemZERO_ADDRESS, "listing fee token is required")
		}
		if t.Amount == nil || t.Amount.Sign() < 0 {
			return tx.ValidationError(tx.TemBAD_AMOUNT, "listing fee must not be negative")
		}
	case ParamMinListingLockupAmount, ParamTargetListingLockupAmount:
		if t.Amount == nil || t.Amount.Sign() < 0 {
			return tx.ValidationError(tx.TemBAD_AMOUNT, "lockup amount must not be negative")
		}
	case ParamMinListingLockupPeriod, ParamTargetListingLockupPeriod:
	case ParamProtocolFeeFractionInverse:
		if t.Value != 0 && t.Value < state.MinProtocolFeeFractionInverse {
			return tx.ValidationError(tx.TemINVALID_PROTOCOL_FEE_FRACTION, "protocol fee fraction inverse below minimum")
		}
	case ParamMaxSlippagePercent:
		if t.Value > 100 {
			return tx.ValidationError(tx.TemINVALID_SLIPPAGE_PERCENT, "slippage percent must not exceed 100")
		}
	case ParamMaxSlippageBlocks:
		if t.Value < state.MinMaxSlippageBlocks || t.Value > state.MaxMaxSlippageBlocks {
			return tx.ValidationError(tx.TemINVALID_SLIPPAGE_BLOCKS, "slippage window out of bounds")
		}
	default:
		return tx.ValidationError(tx.TemMALFORMED, "unknown policy parameter")
	}
	return nil
}

// Apply mutates the factory entry.
func (t *SetPolicy) Apply(ctx *tx.ApplyContext) tx.Result {
	f, err := tx.ReadFactory(ctx.View)
	if err != nil || f == nil {
		return tx.TefINTERNAL
	}
	if ctx.Caller != f.Governance {
		return tx.TecFORBIDDEN
	}

	switch t.Param {
	case ParamTreasury:
		f.Treasury = t.Token
	case ParamDefaultLinkTradingFeePercent:
		f.DefaultLinkTradingFeePercent = t.Value
	case ParamDefaultNonLinkTradingFeePercent:
		f.DefaultNonLinkTradingFeePercent = t.Value
	case ParamTreasuryListingFeeShare:
		f.TreasuryListingFeeShare = t.Value
	case ParamListingFee:
		if t.Token != f.LinkToken && t.Token != f.WETHToken && t.Token != f.YFLToken {
			return tx.TecINVALID_LISTING_FEE_TOKEN
		}
		if f.ListingFees == nil {
			f.ListingFees = make(map[types.Address]*big.Int)
		}
		f.ListingFees[t.Token] = mathutil.Clone(t.Amount)
	case ParamMinListingLockupAmount:
		if f.TargetListingLockupAmount != nil && t.Amount.Cmp(f.TargetListingLockupAmount) > 0 {
			return tx.TecINVALID_LOCKUP_BOUNDS
		}
		f.MinListingLockupAmount = mathutil.Clone(t.Amount)
	case ParamTargetListingLockupAmount:
		if f.MinListingLockupAmount != nil && t.Amount.Cmp(f.MinListingLockupAmount) < 0 {
			return tx.TecINVALID_LOCKUP_BOUNDS
		}
		f.TargetListingLockupAmount = mathutil.Clone(t.Amount)
	case ParamMinListingLockupPeriod:
		if t.Value > f.TargetListingLockupPeriod {
			return tx.TecINVALID_LOCKUP_BOUNDS
		}
		f.MinListingLockupPeriod = t.Value
	case ParamTargetListingLockupPeriod:
		if t.Value < f.MinListingLockupPeriod {
			return tx.TecINVALID_LOCKUP_BOUNDS
		}
		f.TargetListingLockupPeriod = t.Value
	case ParamLockupAmountListingFeeDiscountShare:
		f.LockupAmountListingFeeDiscountShare = t.Value
	case ParamProtocolFeeFractionInverse:
		f.ProtocolFeeFractionInverse = t.Value
	case ParamTreasuryProtocolFeeShare:
		f.TreasuryProtocolFeeShare = t.Value
	case ParamMaxSlippagePercent:
		f.MaxSlippagePercent = t.Value
	case ParamMaxSlippageBlocks:
		f.MaxSlippageBlocks = t.Value
	default:
		return tx.TemMALFORMED
	}

	if err := tx.WriteFactory(ctx.View, f); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
