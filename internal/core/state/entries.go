package state

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/types"
)

// Fee and share scales. Percent-like policy fields are expressed in
// parts per million unless noted otherwise.
const (
	// FeeScale is the ppm scale used by trading fees and shares.
	FeeScale = 1_000_000

	// MinimumLiquidity is permanently locked at the zero address when a
	// pair mints its first liquidity.
	MinimumLiquidity = 1000

	// DefaultLinkTradingFeePercent seeds the factory's trading fee for
	// pairs containing LINK; governance can change it afterward.
	DefaultLinkTradingFeePercent = 2500

	// DefaultNonLinkTradingFeePercent seeds the factory's trading fee
	// for all other pairs.
	DefaultNonLinkTradingFeePercent = 3000

	// MaxTradingFeePercent caps a pair's trading fee at 1%.
	MaxTradingFeePercent = 10000

	// MinProtocolFeeFractionInverse is the smallest enabled protocol fee
	// fraction (thousandths). Zero disables protocol fees entirely.
	MinProtocolFeeFractionInverse = 2000

	// MaxSlippageBlocksBounds for the circuit breaker window.
	MinMaxSlippageBlocks = 1
	MaxMaxSlippageBlocks = 40320
)

// TokenEntry is the ledger entry for a fungible token: metadata, the
// full balance table and the allowance table.
type TokenEntry struct {
	Address     types.Address
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int
	Balances    map[types.Address]*big.Int
	Allowances  map[types.Address]map[types.Address]*big.Int
}

// NewTokenEntry creates an empty token entry.
func NewTokenEntry(addr types.Address, name, symbol string, decimals uint8) *TokenEntry {
	return &TokenEntry{
		Address:     addr,
		Name:        name,
		Symbol:      symbol,
		Decimals:    decimals,
		TotalSupply: new(big.Int),
		Balances:    make(map[types.Address]*big.Int),
		Allowances:  make(map[types.Address]map[types.Address]*big.Int),
	}
}

// BalanceOf returns the holder's balance, zero if absent.
func (t *TokenEntry) BalanceOf(holder types.Address) *big.Int {
	if b, ok := t.Balances[holder]; ok && b != nil {
		return b
	}
	return new(big.Int)
}

// SetBalance stores the holder's balance, dropping zero entries.
func (t *TokenEntry) SetBalance(holder types.Address, amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		delete(t.Balances, holder)
		return
	}
	if t.Balances == nil {
		t.Balances = make(map[types.Address]*big.Int)
	}
	t.Balances[holder] = amount
}

// Allowance returns the spender's remaining allowance from owner.
func (t *TokenEntry) Allowance(owner, spender types.Address) *big.Int {
	if m, ok := t.Allowances[owner]; ok {
		if a, ok := m[spender]; ok && a != nil {
			return a
		}
	}
	return new(big.Int)
}

// SetAllowance stores an allowance, dropping zero entries.
func (t *TokenEntry) SetAllowance(owner, spender types.Address, amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		if m, ok := t.Allowances[owner]; ok {
			delete(m, spender)
			if len(m) == 0 {
				delete(t.Allowances, owner)
			}
		}
		return
	}
	if t.Allowances == nil {
		t.Allowances = make(map[types.Address]map[types.Address]*big.Int)
	}
	m, ok := t.Allowances[owner]
	if !ok {
		m = make(map[types.Address]*big.Int)
		t.Allowances[owner] = m
	}
	m[spender] = amount
}

// Lockup records liquidity taken into pair custody for one holder.
type Lockup struct {
	Amount *big.Int
	Expiry uint64 // unix seconds; lock is spendable again at or after this time
}

// PairEntry is the ledger entry for one trading pair: the liquidity
// token ledger, the tracked reserves, the cumulative price clocks, the
// lockup custody table and the slippage breaker checkpoint.
type PairEntry struct {
	Address types.Address
	Token0  types.Address
	Token1  types.Address

	// Liquidity token ledger
	TotalSupply *big.Int
	Balances    map[types.Address]*big.Int

	// Tracked reserves, bounded to 112 bits
	Reserve0 *big.Int
	Reserve1 *big.Int

	// Cumulative price clocks (UQ112x112 * seconds, mod 2^256)
	Price0CumulativeLast *big.Int
	Price1CumulativeLast *big.Int
	BlockTimestampLast   uint32

	// K as of the last liquidity event, for protocol fee accrual
	KLast *big.Int

	// Trading fee in ppm of the input amount
	TradingFeePercent uint64

	// Lockup custody
	Lockups     map[types.Address]*Lockup
	TotalLocked *big.Int

	// Slippage breaker state
	LastSwapPrice             *big.Int
	PriceAtLastSlippageBlocks *big.Int
	LastSlippageBlocks        uint64
}

// NewPairEntry creates an empty pair entry for sorted tokens.
func NewPairEntry(addr, token0, token1 types.Address, tradingFeePercent uint64) *PairEntry {
	return &PairEntry{
		Address:                   addr,
		Token0:                    token0,
		Token1:                    token1,
		TotalSupply:               new(big.Int),
		Balances:                  make(map[types.Address]*big.Int),
		Reserve0:                  new(big.Int),
		Reserve1:                  new(big.Int),
		Price0CumulativeLast:      new(big.Int),
		Price1CumulativeLast:      new(big.Int),
		KLast:                     new(big.Int),
		TradingFeePercent:         tradingFeePercent,
		Lockups:                   make(map[types.Address]*Lockup),
		TotalLocked:               new(big.Int),
		LastSwapPrice:             new(big.Int),
		PriceAtLastSlippageBlocks: new(big.Int),
	}
}

// BalanceOf returns the holder's liquidity balance, zero if absent.
func (p *PairEntry) BalanceOf(holder types.Address) *big.Int {
	if b, ok := p.Balances[holder]; ok && b != nil {
		return b
	}
	return new(big.Int)
}

// SetBalance stores the holder's liquidity balance, dropping zero
// entries. The zero address is kept so the permanently locked minimum
// liquidity stays visible.
func (p *PairEntry) SetBalance(holder types.Address, amount *big.Int) {
	if (amount == nil || amount.Sign() == 0) && !holder.IsZero() {
		delete(p.Balances, holder)
		return
	}
	if p.Balances == nil {
		p.Balances = make(map[types.Address]*big.Int)
	}
	if amount == nil {
		amount = new(big.Int)
	}
	p.Balances[holder] = amount
}

// LockupOf returns the holder's lockup record, nil when none exists.
func (p *PairEntry) LockupOf(holder types.Address) *Lockup {
	return p.Lockups[holder]
}

// FactoryEntry is the singleton factory entry: governance and policy
// parameters plus the pair registry.
type FactoryEntry struct {
	Governance types.Address
	Treasury   types.Address

	// Well-known tokens
	LinkToken types.Address
	WETHToken types.Address
	YFLToken  types.Address

	// Pair registry
	AllPairs      []types.Address
	PairIndex     map[string]types.Address // PairKey(token0, token1) -> pair address
	ApprovedPairs map[string]bool          // pairs whitelisted by governance

	// Trading fee policy for newly created pairs, ppm
	DefaultLinkTradingFeePercent    uint64
	DefaultNonLinkTradingFeePercent uint64

	// Listing policy
	ListingFees                         map[types.Address]*big.Int // fee token -> fee amount
	TreasuryListingFeeShare             uint64                     // ppm of the listing fee sent to the treasury
	MinListingLockupAmount              *big.Int                   // USD, feed decimals
	TargetListingLockupAmount           *big.Int
	MinListingLockupPeriod              uint64 // seconds
	TargetListingLockupPeriod           uint64
	LockupAmountListingFeeDiscountShare uint64 // ppm weight of the amount ratio in the discount

	// Protocol fee policy
	ProtocolFeeFractionInverse uint64 // thousandths; 0 disables
	TreasuryProtocolFeeShare   uint64 // ppm of the protocol fee minted to the treasury

	// Slippage breaker policy
	MaxSlippagePercent uint64 // whole percent; 0 disables
	MaxSlippageBlocks  uint64
}

// NewFactoryEntry creates a factory entry with default policy.
func NewFactoryEntry(governance, treasury, link, weth, yfl types.Address) *FactoryEntry {
	return &FactoryEntry{
		Governance:                          governance,
		Treasury:                            treasury,
		LinkToken:                           link,
		WETHToken:                           weth,
		YFLToken:                            yfl,
		PairIndex:                           make(map[string]types.Address),
		ApprovedPairs:                       make(map[string]bool),
		DefaultLinkTradingFeePercent:        DefaultLinkTradingFeePercent,
		DefaultNonLinkTradingFeePercent:     DefaultNonLinkTradingFeePercent,
		ListingFees:                         make(map[types.Address]*big.Int),
		TreasuryListingFeeShare:             100_000,
		MinListingLockupAmount:              new(big.Int),
		TargetListingLockupAmount:           new(big.Int),
		LockupAmountListingFeeDiscountShare: 100_000,
		TreasuryProtocolFeeShare:            1_000_000,
		MaxSlippageBlocks:                   1,
	}
}

// PairKey builds the registry key for a token pair, order independent.
func PairKey(tokenA, tokenB types.Address) string {
	token0, token1 := types.SortTokens(tokenA, tokenB)
	key := make([]byte, 0, 40)
	key = append(key, token0[:]...)
	key = append(key, token1[:]...)
	return string(key)
}

// PairFor looks up the registered pair address for two tokens.
func (f *FactoryEntry) PairFor(tokenA, tokenB types.Address) (types.Address, bool) {
	addr, ok := f.PairIndex[PairKey(tokenA, tokenB)]
	return addr, ok
}

// IsApproved reports whether governance pre-approved the token pair.
func (f *FactoryEntry) IsApproved(tokenA, tokenB types.Address) bool {
	return f.ApprovedPairs[PairKey(tokenA, tokenB)]
}

// ListingFeeFor returns the configured listing fee for a fee token.
func (f *FactoryEntry) ListingFeeFor(token types.Address) *big.Int {
	if fee, ok := f.ListingFees[token]; ok && fee != nil {
		return fee
	}
	return new(big.Int)
}

// OracleEntry is the singleton price oracle entry. It carries the USD
// feed answers for LINK and WETH and the rolling observation of the
// WETH/YFL reference pair used to price YFL.
type OracleEntry struct {
	ReferencePair types.Address // WETH/YFL pair sampled for the YFL price

	// Latest USD feed answers, 8 decimals
	LinkUSD *big.Int
	WethUSD *big.Int

	// Rolling observation window
	Price0CumulativeLast *big.Int
	Price1CumulativeLast *big.Int
	BlockTimestampLast   uint32
	Price0Average        *big.Int // UQ112x112
	Price1Average        *big.Int // UQ112x112
	SampleCount          uint64
}

// NewOracleEntry creates an oracle entry tracking the reference pair.
func NewOracleEntry(referencePair types.Address) *OracleEntry {
	return &OracleEntry{
		ReferencePair:        referencePair,
		LinkUSD:              new(big.Int),
		WethUSD:              new(big.Int),
		Price0CumulativeLast: new(big.Int),
		Price1CumulativeLast: new(big.Int),
		Price0Average:        new(big.Int),
		Price1Average:        new(big.Int),
	}
}
