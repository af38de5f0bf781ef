// Package pair implements the trading pair transactions: liquidity
// provision and removal, swaps with the constant product invariant and
// the slippage circuit breaker, reserve synchronization, liquidity
// lockups and liquidity token transfers.
package pair

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

var (
	// priceScale fixes the slippage price precision at 18 decimals.
	priceScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	feeScale   = big.NewInt(state.FeeScale)
	feeScaleSq = new(big.Int).Mul(big.NewInt(state.FeeScale), big.NewInt(state.FeeScale))
	thousand   = big.NewInt(1000)
	hundred    = big.NewInt(100)
	minimumLiq = big.NewInt(state.MinimumLiquidity)
)

// loadPair reads a pair entry and rejects the operation when the pair
// is currently inside a swap callback.
func loadPair(ctx *tx.ApplyContext, addr types.Address) (*state.PairEntry, tx.Result) {
	if ctx.Engine != nil && ctx.Engine.PairBusy(addr) {
		return nil, tx.TefREENTRANCY
	}
	p, err := tx.ReadPair(ctx.View, addr)
	if err != nil {
		return nil, tx.TefINTERNAL
	}
	if p == nil {
		return nil, tx.TecPAIR_NOT_FOUND
	}
	return p, tx.TesSUCCESS
}

// pairBalances reads the pair's holdings of both of its tokens.
func pairBalances(ctx *tx.ApplyContext, p *state.PairEntry) (*big.Int, *big.Int, tx.Result) {
	balance0, res := tx.TokenBalance(ctx.View, p.Token0, p.Address)
	if res != tx.TesSUCCESS {
		return nil, nil, res
	}
	balance1, res := tx.TokenBalance(ctx.View, p.Token1, p.Address)
	if res != tx.TesSUCCESS {
		return nil, nil, res
	}
	return balance0, balance1, tx.TesSUCCESS
}

// updateReserves advances the cumulative price clocks for the time the
// old reserves were in force, then adopts the given balances as the new
// reserves. Reserves are bounded to 112 bits.
func updateReserves(p *state.PairEntry, balance0, balance1 *big.Int, env tx.Env) tx.Result {
	if balance0.Cmp(mathutil.MaxUint112) > 0 || balance1.Cmp(mathutil.MaxUint112) > 0 {
		return tx.TecRESERVE_OVERFLOW
	}

	blockTimestamp := env.BlockTimestamp()
	elapsed := blockTimestamp - p.BlockTimestampLast // deliberate uint32 wrap

	if elapsed > 0 && p.Reserve0.Sign() > 0 && p.Reserve1.Sign() > 0 {
		elapsedBig := new(big.Int).SetUint64(uint64(elapsed))

		price0, err := mathutil.FractionUQ112(p.Reserve1, p.Reserve0)
		if err != nil {
			return tx.TefARITHMETIC
		}
		price1, err := mathutil.FractionUQ112(p.Reserve0, p.Reserve1)
		if err != nil {
			return tx.TefARITHMETIC
		}

		// The accumulators roll over by design
		p.Price0CumulativeLast = mathutil.AddWrap(
			p.Price0CumulativeLast, new(big.Int).Mul(price0, elapsedBig))
		p.Price1CumulativeLast = mathutil.AddWrap(
			p.Price1CumulativeLast, new(big.Int).Mul(price1, elapsedBig))
	}

	p.Reserve0 = mathutil.Clone(balance0)
	p.Reserve1 = mathutil.Clone(balance1)
	p.BlockTimestampLast = blockTimestamp
	return tx.TesSUCCESS
}

// mintProtocolFee accrues the protocol's share of pool growth since the
// last liquidity event. When enabled, liquidity equivalent to
// 1/protocolFeeFractionInverse (in thousandths) of the growth in
// sqrt(k) is minted and split between the treasury and governance.
// Returns whether the protocol fee is switched on.
func mintProtocolFee(p *state.PairEntry, f *state.FactoryEntry) (bool, tx.Result) {
	feeOn := f.ProtocolFeeFractionInverse != 0
	if !feeOn {
		if p.KLast.Sign() != 0 {
			p.KLast = new(big.Int)
		}
		return false, tx.TesSUCCESS
	}

	if p.KLast.Sign() == 0 {
		return true, tx.TesSUCCESS
	}

	k, err := mathutil.Mul(p.Reserve0, p.Reserve1)
	if err != nil {
		return true, tx.TefARITHMETIC
	}
	rootK := mathutil.Sqrt(k)
	rootKLast := mathutil.Sqrt(p.KLast)
	if rootK.Cmp(rootKLast) <= 0 {
		return true, tx.TesSUCCESS
	}

	// liquidity = S * (sqrt(k) - sqrt(kLast)) * 1000
	//           / (sqrt(k) * (pffi - 1000) + sqrt(kLast) * 1000)
	pffi := new(big.Int).SetUint64(f.ProtocolFeeFractionInverse)
	growth := new(big.Int).Sub(rootK, rootKLast)
	numerator := new(big.Int).Mul(p.TotalSupply, growth)
	numerator.Mul(numerator, thousand)
	denominator := new(big.Int).Mul(rootK, new(big.Int).Sub(pffi, thousand))
	denominator.Add(denominator, new(big.Int).Mul(rootKLast, thousand))

	liquidity, err := mathutil.Div(numerator, denominator)
	if err != nil {
		return true, tx.TefARITHMETIC
	}
	if liquidity.Sign() == 0 {
		return true, tx.TesSUCCESS
	}

	treasuryShare := new(big.Int).SetUint64(f.TreasuryProtocolFeeShare)
	treasuryAmount := new(big.Int).Mul(liquidity, treasuryShare)
	treasuryAmount.Quo(treasuryAmount, feeScale)
	governanceAmount := new(big.Int).Sub(liquidity, treasuryAmount)

	if treasuryAmount.Sign() > 0 {
		if res := mintLiquidity(p, f.Treasury, treasuryAmount); res != tx.TesSUCCESS {
			return true, res
		}
	}
	if governanceAmount.Sign() > 0 {
		if res := mintLiquidity(p, f.Governance, governanceAmount); res != tx.TesSUCCESS {
			return true, res
		}
	}
	return true, tx.TesSUCCESS
}

// mintLiquidity credits liquidity tokens and grows the total supply.
func mintLiquidity(p *state.PairEntry, to types.Address, amount *big.Int) tx.Result {
	supply, err := mathutil.Add(p.TotalSupply, amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	balance, err := mathutil.Add(p.BalanceOf(to), amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	p.TotalSupply = supply
	p.SetBalance(to, balance)
	return tx.TesSUCCESS
}

// burnLiquidity debits liquidity tokens and shrinks the total supply.
func burnLiquidity(p *state.PairEntry, from types.Address, amount *big.Int) tx.Result {
	balance, err := mathutil.Sub(p.BalanceOf(from), amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	supply, err := mathutil.Sub(p.TotalSupply, amount)
	if err != nil {
		return tx.TefARITHMETIC
	}
	p.SetBalance(from, balance)
	p.TotalSupply = supply
	return tx.TesSUCCESS
}

// pairPrice quotes token1 in units of token0 at 18 decimals:
// balance0 * 1e18 / balance1.
func pairPrice(balance0, balance1 *big.Int) (*big.Int, tx.Result) {
	if balance1.Sign() == 0 {
		return nil, tx.TefARITHMETIC
	}
	price := new(big.Int).Mul(balance0, priceScale)
	price.Quo(price, balance1)
	return price, tx.TesSUCCESS
}

// withinSlippage checks |newPrice - refPrice| * 100 <= percent * refPrice.
func withinSlippage(newPrice, refPrice *big.Int, percent uint64) bool {
	diff := new(big.Int).Sub(newPrice, refPrice)
	diff.Abs(diff)
	diff.Mul(diff, hundred)
	limit := new(big.Int).Mul(refPrice, new(big.Int).SetUint64(percent))
	return diff.Cmp(limit) <= 0
}
