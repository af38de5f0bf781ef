// Package oracle implements USD pricing for listing fees and lockups.
//
// LINK and WETH are priced directly from their USD feed answers. YFL
// has no feed; it is priced by first converting USD to WETH, then
// converting WETH to YFL over a time-weighted average observed on the
// WETH/YFL reference pair. USD amounts use the feeds' 8 decimals.
package oracle

import (
	"math/big"

	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/types"
	"github.com/yflink/linkswap/internal/mathutil"
)

// tokenScale is the fixed-point scale of token amounts (18 decimals).
var tokenScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// currentCumulativePrices extends the reference pair's cumulative price
// clocks to the present moment without mutating the pair.
func currentCumulativePrices(p *state.PairEntry, env tx.Env) (*big.Int, *big.Int, uint32, tx.Result) {
	price0 := mathutil.Clone(p.Price0CumulativeLast)
	price1 := mathutil.Clone(p.Price1CumulativeLast)
	now := env.BlockTimestamp()

	elapsed := now - p.BlockTimestampLast // deliberate uint32 wrap
	if elapsed > 0 && p.Reserve0.Sign() > 0 && p.Reserve1.Sign() > 0 {
		elapsedBig := new(big.Int).SetUint64(uint64(elapsed))

		spot0, err := mathutil.FractionUQ112(p.Reserve1, p.Reserve0)
		if err != nil {
			return nil, nil, 0, tx.TefARITHMETIC
		}
		spot1, err := mathutil.FractionUQ112(p.Reserve0, p.Reserve1)
		if err != nil {
			return nil, nil, 0, tx.TefARITHMETIC
		}
		price0 = mathutil.AddWrap(price0, new(big.Int).Mul(spot0, elapsedBig))
		price1 = mathutil.AddWrap(price1, new(big.Int).Mul(spot1, elapsedBig))
	}
	return price0, price1, now, tx.TesSUCCESS
}

// Update takes a fresh observation of the reference pair. The first
// observation only anchors the window; averages become available from
// the second observation on. Two observations at the same timestamp
// are a fault: the window period would be zero.
func Update(view tx.LedgerView, env tx.Env) tx.Result {
	o, err := tx.ReadOracle(view)
	if err != nil || o == nil {
		return tx.TefINTERNAL
	}
	p, err := tx.ReadPair(view, o.ReferencePair)
	if err != nil {
		return tx.TefINTERNAL
	}
	if p == nil {
		return tx.TecPAIR_NOT_FOUND
	}

	price0Cum, price1Cum, now, res := currentCumulativePrices(p, env)
	if res != tx.TesSUCCESS {
		return res
	}

	if o.SampleCount > 0 {
		elapsed := now - o.BlockTimestampLast // deliberate uint32 wrap
		if elapsed == 0 {
			return tx.TefARITHMETIC
		}
		elapsedBig := new(big.Int).SetUint64(uint64(elapsed))

		// Cumulative differences wrap with the accumulators
		delta0 := mathutil.AddWrap(price0Cum, new(big.Int).Neg(o.Price0CumulativeLast))
		delta1 := mathutil.AddWrap(price1Cum, new(big.Int).Neg(o.Price1CumulativeLast))
		o.Price0Average = new(big.Int).Quo(delta0, elapsedBig)
		o.Price1Average = new(big.Int).Quo(delta1, elapsedBig)
	}

	o.Price0CumulativeLast = price0Cum
	o.Price1CumulativeLast = price1Cum
	o.BlockTimestampLast = now
	o.SampleCount++

	if err := tx.WriteOracle(view, o); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// Consult converts an amount of one reference pair token into the
// other using the current window average.
func Consult(o *state.OracleEntry, p *state.PairEntry, token types.Address, amountIn *big.Int) (*big.Int, tx.Result) {
	if o.SampleCount == 0 {
		return nil, tx.TefARITHMETIC
	}
	if o.SampleCount == 1 {
		return nil, tx.TecMISSING_HISTORICAL_OBSERVATION
	}

	var avg *big.Int
	switch token {
	case p.Token0:
		avg = o.Price0Average
	case p.Token1:
		avg = o.Price1Average
	default:
		return nil, tx.TecUNEXPECTED_TOKEN
	}

	out, err := mathutil.MulDecodeUQ112(avg, amountIn)
	if err != nil {
		return nil, tx.TefARITHMETIC
	}
	return out, tx.TesSUCCESS
}

// CalculateTokenAmountFromUsdAmount converts a USD amount (feed
// decimals) into an amount of the given token.
func CalculateTokenAmountFromUsdAmount(view tx.LedgerView, f *state.FactoryEntry, token types.Address, usdAmount *big.Int) (*big.Int, tx.Result) {
	o, err := tx.ReadOracle(view)
	if err != nil || o == nil {
		return nil, tx.TefINTERNAL
	}

	switch token {
	case f.LinkToken:
		return usdToToken(usdAmount, o.LinkUSD)
	case f.WETHToken:
		return usdToToken(usdAmount, o.WethUSD)
	case f.YFLToken:
		wethAmount, res := usdToToken(usdAmount, o.WethUSD)
		if res != tx.TesSUCCESS {
			return nil, res
		}
		p, err := tx.ReadPair(view, o.ReferencePair)
		if err != nil {
			return nil, tx.TefINTERNAL
		}
		if p == nil {
			return nil, tx.TecPAIR_NOT_FOUND
		}
		weth := f.WETHToken
		if weth != p.Token0 && weth != p.Token1 {
			return nil, tx.TecUNEXPECTED_TOKEN
		}
		return Consult(o, p, weth, wethAmount)
	default:
		return nil, tx.TecUNEXPECTED_TOKEN
	}
}

// CalculateUsdAmountFromTokenAmount converts a token amount into USD at
// feed decimals. Only feed-priced tokens are supported.
func CalculateUsdAmountFromTokenAmount(view tx.LedgerView, f *state.FactoryEntry, token types.Address, tokenAmount *big.Int) (*big.Int, tx.Result) {
	o, err := tx.ReadOracle(view)
	if err != nil || o == nil {
		return nil, tx.TefINTERNAL
	}

	var feed *big.Int
	switch token {
	case f.LinkToken:
		feed = o.LinkUSD
	case f.WETHToken:
		feed = o.WethUSD
	default:
		return nil, tx.TecUNEXPECTED_TOKEN
	}

	usd, err := mathutil.Mul(tokenAmount, feed)
	if err != nil {
		return nil, tx.TefARITHMETIC
	}
	usd.Quo(usd, tokenScale)
	return usd, tx.TesSUCCESS
}

// usdToToken converts USD (feed decimals) to a token amount using the
// token's own USD feed answer: amount = usd * 1e18 / feed.
func usdToToken(usdAmount, feed *big.Int) (*big.Int, tx.Result) {
	scaled, err := mathutil.Mul(usdAmount, tokenScale)
	if err != nil {
		return nil, tx.TefARITHMETIC
	}
	out, err := mathutil.Div(scaled, feed)
	if err != nil {
		return nil, tx.TefARITHMETIC
	}
	return out, tx.TesSUCCESS
}
