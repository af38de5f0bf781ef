package rpc

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/yflink/linkswap/internal/core/oracle"
	"github.com/yflink/linkswap/internal/core/tx"
	"github.com/yflink/linkswap/internal/core/tx/factory"
	"github.com/yflink/linkswap/internal/core/tx/pair"
	"github.com/yflink/linkswap/internal/core/tx/token"
	"github.com/yflink/linkswap/internal/core/types"
)

// submitParams is the union of the fields accepted by every
// transaction type. Amounts are decimal strings.
type submitParams struct {
	Type    string        `json:"type"`
	Account types.Address `json:"account"`

	// Token ledger
	Name          string        `json:"name,omitempty"`
	Symbol        string        `json:"symbol,omitempty"`
	Decimals      uint8         `json:"decimals,omitempty"`
	InitialSupply string        `json:"initial_supply,omitempty"`
	Token         types.Address `json:"token,omitempty"`
	To            types.Address `json:"to,omitempty"`
	From          types.Address `json:"from,omitempty"`
	Spender       types.Address `json:"spender,omitempty"`
	Amount        string        `json:"amount,omitempty"`

	// Pair operations
	Pair       types.Address `json:"pair,omitempty"`
	Amount0Out string        `json:"amount0_out,omitempty"`
	Amount1Out string        `json:"amount1_out,omitempty"`
	Data       []byte        `json:"data,omitempty"`
	Period     uint64        `json:"period,omitempty"`
	Holder     types.Address `json:"holder,omitempty"`
	Fee        uint64        `json:"fee,omitempty"`

	// Factory operations
	TokenA          types.Address `json:"token_a,omitempty"`
	AmountA         string        `json:"amount_a,omitempty"`
	TokenB          types.Address `json:"token_b,omitempty"`
	AmountB         string        `json:"amount_b,omitempty"`
	LockupPeriod    uint64        `json:"lockup_period,omitempty"`
	ListingFeeToken types.Address `json:"listing_fee_token,omitempty"`
	Treasury        types.Address `json:"treasury,omitempty"`
	LinkToken       types.Address `json:"link_token,omitempty"`
	WethToken       types.Address `json:"weth_token,omitempty"`
	YflToken        types.Address `json:"yfl_token,omitempty"`
	Governance      types.Address `json:"governance,omitempty"`
	Param           string        `json:"param,omitempty"`
	Value           uint64        `json:"value,omitempty"`

	// Oracle operations
	LinkUsd string `json:"link_usd,omitempty"`
	WethUsd string `json:"weth_usd,omitempty"`
}

func parseAmount(s string) (*big.Int, *Error) {
	if s == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, rpcError("invalidParams", "invalid amount: "+s)
	}
	return v, nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func (s *Server) handleSubmit(_ context.Context, params json.RawMessage) (interface{}, *Error) {
	var p submitParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpcError("invalidParams", "invalid submit params: "+err.Error())
	}

	t, rpcErr := buildTransaction(&p)
	if rpcErr != nil {
		return nil, rpcErr
	}

	res := s.engine.Apply(t, s.envs.Env())
	return map[string]interface{}{
		"status":                "success",
		"engine_result":         res.Result.String(),
		"engine_result_code":    int(res.Result),
		"engine_result_message": res.Message,
		"applied":               res.Applied,
	}, nil
}

func buildTransaction(p *submitParams) (tx.Transaction, *Error) {
	txType, err := tx.TypeFromString(p.Type)
	if err != nil {
		return nil, rpcError("invalidParams", "unknown transaction type: "+p.Type)
	}

	amount, rpcErr := parseAmount(p.Amount)
	if rpcErr != nil {
		return nil, rpcErr
	}

	switch txType {
	case tx.TypeTokenCreate:
		supply, rpcErr := parseAmount(p.InitialSupply)
		if rpcErr != nil {
			return nil, rpcErr
		}
		return token.NewCreate(p.Account, p.Name, p.Symbol, p.Decimals, supply), nil
	case tx.TypeTokenTransfer:
		return token.NewTransfer(p.Account, p.Token, p.To, amount), nil
	case tx.TypeTokenTransferFrom:
		return token.NewTransferFrom(p.Account, p.Token, p.From, p.To, amount), nil
	case tx.TypeTokenApprove:
		return token.NewApprove(p.Account, p.Token, p.Spender, amount), nil
	case tx.TypePairMint:
		return pair.NewMint(p.Account, p.Pair, p.To), nil
	case tx.TypePairBurn:
		return pair.NewBurn(p.Account, p.Pair, p.To), nil
	case tx.TypePairSwap:
		amount0Out, rpcErr := parseAmount(p.Amount0Out)
		if rpcErr != nil {
			return nil, rpcErr
		}
		amount1Out, rpcErr := parseAmount(p.Amount1Out)
		if rpcErr != nil {
			return nil, rpcErr
		}
		return pair.NewSwap(p.Account, p.Pair, amount0Out, amount1Out, p.To, p.Data), nil
	case tx.TypePairSync:
		return pair.NewSync(p.Account, p.Pair), nil
	case tx.TypePairLock:
		return pair.NewLock(p.Account, p.Pair, amount, p.Period), nil
	case tx.TypePairUnlock:
		return pair.NewUnlock(p.Account, p.Pair, p.Holder), nil
	case tx.TypePairTransferLiquidity:
		return pair.NewTransferLiquidity(p.Account, p.Pair, p.To, amount), nil
	case tx.TypePairSetTradingFee:
		return pair.NewSetTradingFee(p.Account, p.Pair, p.Fee), nil
	case tx.TypeFactoryInit:
		return factory.NewInit(p.Account, p.Treasury, p.LinkToken, p.WethToken, p.YflToken), nil
	case tx.TypeFactoryCreatePair:
		amountA, rpcErr := parseAmount(p.AmountA)
		if rpcErr != nil {
			return nil, rpcErr
		}
		amountB, rpcErr := parseAmount(p.AmountB)
		if rpcErr != nil {
			return nil, rpcErr
		}
		return factory.NewCreatePair(p.Account, p.TokenA, p.TokenB, amountA, amountB, p.LockupPeriod, p.ListingFeeToken), nil
	case tx.TypeFactoryApprovePair:
		return factory.NewApprovePair(p.Account, p.TokenA, p.TokenB), nil
	case tx.TypeFactorySetPolicy:
		return factory.NewSetPolicy(p.Account, p.Param).
			WithValue(p.Value).
			WithAmount(amount).
			WithToken(p.Token), nil
	case tx.TypeFactorySetGovernance:
		return factory.NewSetGovernance(p.Account, p.Governance), nil
	case tx.TypeOracleUpdate:
		return oracle.NewUpdate(p.Account), nil
	case tx.TypeOracleSetFeeds:
		linkUsd, rpcErr := parseAmount(p.LinkUsd)
		if rpcErr != nil {
			return nil, rpcErr
		}
		wethUsd, rpcErr := parseAmount(p.WethUsd)
		if rpcErr != nil {
			return nil, rpcErr
		}
		return oracle.NewSetFeeds(p.Account, linkUsd, wethUsd), nil
	default:
		return nil, rpcError("invalidParams", "unsupported transaction type: "+p.Type)
	}
}

type tokenInfoParams struct {
	Token  types.Address `json:"token"`
	Holder types.Address `json:"holder,omitempty"`
}

func (s *Server) handleTokenInfo(_ context.Context, params json.RawMessage) (interface{}, *Error) {
	var p tokenInfoParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpcError("invalidParams", "invalid token_info params: "+err.Error())
	}

	entry, err := tx.ReadToken(s.engine.View(), p.Token)
	if err != nil {
		return nil, rpcError("internal", err.Error())
	}
	if entry == nil {
		return nil, rpcError("entryNotFound", "token not found")
	}

	result := map[string]interface{}{
		"status":       "success",
		"token":        entry.Address.String(),
		"name":         entry.Name,
		"symbol":       entry.Symbol,
		"decimals":     entry.Decimals,
		"total_supply": bigString(entry.TotalSupply),
		"holders":      len(entry.Balances),
	}
	if !p.Holder.IsZero() {
		result["balance"] = bigString(entry.BalanceOf(p.Holder))
	}
	return result, nil
}

type pairInfoParams struct {
	Pair   types.Address `json:"pair"`
	Holder types.Address `json:"holder,omitempty"`
}

func (s *Server) handlePairInfo(_ context.Context, params json.RawMessage) (interface{}, *Error) {
	var p pairInfoParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, rpcError("invalidParams", "invalid pair_info params: "+err.Error())
	}

	entry, err := tx.ReadPair(s.engine.View(), p.Pair)
	if err != nil {
		return nil, rpcError("internal", err.Error())
	}
	if entry == nil {
		return nil, rpcError("entryNotFound", "pair not found")
	}

	result := map[string]interface{}{
		"status":                 "success",
		"pair":                   entry.Address.String(),
		"token0":                 entry.Token0.String(),
		"token1":                 entry.Token1.String(),
		"reserve0":               bigString(entry.Reserve0),
		"reserve1":               bigString(entry.Reserve1),
		"total_supply":           bigString(entry.TotalSupply),
		"total_locked":           bigString(entry.TotalLocked),
		"trading_fee_percent":    entry.TradingFeePercent,
		"k_last":                 bigString(entry.KLast),
		"price0_cumulative_last": bigString(entry.Price0CumulativeLast),
		"price1_cumulative_last": bigString(entry.Price1CumulativeLast),
		"block_timestamp_last":   entry.BlockTimestampLast,
		"last_swap_price":        bigString(entry.LastSwapPrice),
	}
	if !p.Holder.IsZero() {
		result["balance"] = bigString(entry.BalanceOf(p.Holder))
		if lockup := entry.LockupOf(p.Holder); lockup != nil {
			result["lockup_amount"] = bigString(lockup.Amount)
			result["lockup_expiry"] = lockup.Expiry
		}
	}
	return result, nil
}

func (s *Server) handleFactoryInfo(_ context.Context, _ json.RawMessage) (interface{}, *Error) {
	f, err := tx.ReadFactory(s.engine.View())
	if err != nil {
		return nil, rpcError("internal", err.Error())
	}
	if f == nil {
		return nil, rpcError("entryNotFound", "factory not initialized")
	}

	listingFees := make(map[string]string, len(f.ListingFees))
	for token, fee := range f.ListingFees {
		listingFees[token.String()] = bigString(fee)
	}

	return map[string]interface{}{
		"status":                                  "success",
		"governance":                              f.Governance.String(),
		"treasury":                                f.Treasury.String(),
		"link_token":                              f.LinkToken.String(),
		"weth_token":                              f.WETHToken.String(),
		"yfl_token":                               f.YFLToken.String(),
		"pair_count":                              len(f.AllPairs),
		"listing_fees_usd":                        listingFees,
		"treasury_listing_fee_share":              f.TreasuryListingFeeShare,
		"min_listing_lockup_amount_usd":           bigString(f.MinListingLockupAmount),
		"target_listing_lockup_amount_usd":        bigString(f.TargetListingLockupAmount),
		"min_listing_lockup_period":               f.MinListingLockupPeriod,
		"target_listing_lockup_period":            f.TargetListingLockupPeriod,
		"lockup_amount_listing_fee_discount_share": f.LockupAmountListingFeeDiscountShare,
		"protocol_fee_fraction_inverse":            f.ProtocolFeeFractionInverse,
		"treasury_protocol_fee_share":              f.TreasuryProtocolFeeShare,
		"max_slippage_percent":                     f.MaxSlippagePercent,
		"max_slippage_blocks":                      f.MaxSlippageBlocks,
	}, nil
}

func (s *Server) handleOracleInfo(_ context.Context, _ json.RawMessage) (interface{}, *Error) {
	o, err := tx.ReadOracle(s.engine.View())
	if err != nil {
		return nil, rpcError("internal", err.Error())
	}
	if o == nil {
		return nil, rpcError("entryNotFound", "oracle not initialized")
	}

	return map[string]interface{}{
		"status":                 "success",
		"reference_pair":         o.ReferencePair.String(),
		"link_usd":               bigString(o.LinkUSD),
		"weth_usd":               bigString(o.WethUSD),
		"price0_cumulative_last": bigString(o.Price0CumulativeLast),
		"price1_cumulative_last": bigString(o.Price1CumulativeLast),
		"price0_average":         bigString(o.Price0Average),
		"price1_average":         bigString(o.Price1Average),
		"block_timestamp_last":   o.BlockTimestampLast,
		"sample_count":           o.SampleCount,
	}, nil
}

func (s *Server) handleAllPairs(_ context.Context, _ json.RawMessage) (interface{}, *Error) {
	f, err := tx.ReadFactory(s.engine.View())
	if err != nil {
		return nil, rpcError("internal", err.Error())
	}
	if f == nil {
		return nil, rpcError("entryNotFound", "factory not initialized")
	}

	pairs := make([]string, len(f.AllPairs))
	for i, addr := range f.AllPairs {
		pairs[i] = addr.String()
	}
	return map[string]interface{}{
		"status": "success",
		"pairs":  pairs,
	}, nil
}
