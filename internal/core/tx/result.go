package tx

import "fmt"

// Result represents a transaction result code
type Result int

// Transaction result codes, organized by category:
// tes (success), tec (state failure), tef (fault), tem (malformed).
const (
	// tesSUCCESS (0-99)
	TesSUCCESS Result = 0

	// tec codes (100-199)
	// The transaction was well formed but failed against current state.
	// No state changes are kept.
	TecFORBIDDEN                      Result = 100
	TecPAIR_EXISTS                    Result = 101
	TecPAIR_NOT_FOUND                 Result = 102
	TecTOKEN_NOT_FOUND                Result = 103
	TecTOKEN_EXISTS                   Result = 104
	TecINSUFFICIENT_LIQUIDITY         Result = 105
	TecINSUFFICIENT_LIQUIDITY_MINTED  Result = 106
	TecINSUFFICIENT_LIQUIDITY_BURNED  Result = 107
	TecINSUFFICIENT_INPUT_AMOUNT      Result = 108
	TecINSUFFICIENT_FUNDS             Result = 109
	TecTRANSFER_FROM_FAILED           Result = 110
	TecINVALID_TO                     Result = 111
	TecK                              Result = 112
	TecSLIPLOCK                       Result = 113
	TecBEFORE_EXPIRY                  Result = 114
	TecZERO_LOCKUP_PERIOD             Result = 115
	TecZERO_LOCKUP_AMOUNT             Result = 116
	TecRESERVE_OVERFLOW               Result = 117
	TecUNEXPECTED_TOKEN               Result = 118
	TecMISSING_HISTORICAL_OBSERVATION Result = 119
	TecINVALID_LISTING_FEE_TOKEN      Result = 120
	TecLISTING_LOCKUP_TOO_LOW         Result = 121
	TecLISTING_PERIOD_TOO_SHORT       Result = 122
	TecINVALID_LOCKUP_BOUNDS          Result = 123
	TecINTERNAL                       Result = 144

	// tef codes (-199 to -100)
	// The transaction hit a fault while applying. No state changes are
	// kept and the condition is not expected to clear on retry.
	TefFAILURE    Result = -199
	TefARITHMETIC Result = -198
	TefREENTRANCY Result = -197
	TefEXCEPTION  Result = -193
	TefINTERNAL   Result = -192

	// tem codes (-299 to -200)
	// Malformed transaction, rejected before touching state.
	TemMALFORMED                     Result = -299
	TemIDENTICAL_ADDRESSES           Result = -298
	TemZERO_ADDRESS                  Result = -297
	TemBAD_AMOUNT                    Result = -296
	TemINSUFFICIENT_OUTPUT_AMOUNT    Result = -295
	TemINVALID_TRADING_FEE_PERCENT   Result = -294
	TemINVALID_PROTOCOL_FEE_FRACTION Result = -293
	TemINVALID_FEE_SHARE             Result = -292
	TemINVALID_SLIPPAGE_PERCENT      Result = -291
	TemINVALID_SLIPPAGE_BLOCKS       Result = -290
	TemINVALID                       Result = -277
)

// String returns the string representation of the result code
func (r Result) String() string {
	switch r {
	case TesSUCCESS:
		return "tesSUCCESS"
	case TecFORBIDDEN:
		return "tecFORBIDDEN"
	case TecPAIR_EXISTS:
		return "tecPAIR_EXISTS"
	case TecPAIR_NOT_FOUND:
		return "tecPAIR_NOT_FOUND"
	case TecTOKEN_NOT_FOUND:
		return "tecTOKEN_NOT_FOUND"
	case TecTOKEN_EXISTS:
		return "tecTOKEN_EXISTS"
	case TecINSUFFICIENT_LIQUIDITY:
		return "tecINSUFFICIENT_LIQUIDITY"
	case TecINSUFFICIENT_LIQUIDITY_MINTED:
		return "tecINSUFFICIENT_LIQUIDITY_MINTED"
	case TecINSUFFICIENT_LIQUIDITY_BURNED:
		return "tecINSUFFICIENT_LIQUIDITY_BURNED"
	case TecINSUFFICIENT_INPUT_AMOUNT:
		return "tecINSUFFICIENT_INPUT_AMOUNT"
	case TecINSUFFICIENT_FUNDS:
		return "tecINSUFFICIENT_FUNDS"
	case TecTRANSFER_FROM_FAILED:
		return "tecTRANSFER_FROM_FAILED"
	case TecINVALID_TO:
		return "tecINVALID_TO"
	case TecK:
		return "tecK"
	case TecSLIPLOCK:
		return "tecSLIPLOCK"
	case TecBEFORE_EXPIRY:
		return "tecBEFORE_EXPIRY"
	case TecZERO_LOCKUP_PERIOD:
		return "tecZERO_LOCKUP_PERIOD"
	case TecZERO_LOCKUP_AMOUNT:
		return "tecZERO_LOCKUP_AMOUNT"
	case TecRESERVE_OVERFLOW:
		return "tecRESERVE_OVERFLOW"
	case TecUNEXPECTED_TOKEN:
		return "tecUNEXPECTED_TOKEN"
	case TecMISSING_HISTORICAL_OBSERVATION:
		return "tecMISSING_HISTORICAL_OBSERVATION"
	case TecINVALID_LISTING_FEE_TOKEN:
		return "tecINVALID_LISTING_FEE_TOKEN"
	case TecLISTING_LOCKUP_TOO_LOW:
		return "tecLISTING_LOCKUP_TOO_LOW"
	case TecLISTING_PERIOD_TOO_SHORT:
		return "tecLISTING_PERIOD_TOO_SHORT"
	case TecINVALID_LOCKUP_BOUNDS:
		return "tecINVALID_LOCKUP_BOUNDS"
	case TecINTERNAL:
		return "tecINTERNAL"
	case TefFAILURE:
		return "tefFAILURE"
	case TefARITHMETIC:
		return "tefARITHMETIC"
	case TefREENTRANCY:
		return "tefREENTRANCY"
	case TefEXCEPTION:
		return "tefEXCEPTION"
	case TefINTERNAL:
		return "tefINTERNAL"
	case TemMALFORMED:
		return "temMALFORMED"
	case TemIDENTICAL_ADDRESSES:
		return "temIDENTICAL_ADDRESSES"
	case TemZERO_ADDRESS:
		return "temZERO_ADDRESS"
	case TemBAD_AMOUNT:
		return "temBAD_AMOUNT"
	case TemINSUFFICIENT_OUTPUT_AMOUNT:
		return "temINSUFFICIENT_OUTPUT_AMOUNT"
	case TemINVALID_TRADING_FEE_PERCENT:
		return "temINVALID_TRADING_FEE_PERCENT"
	case TemINVALID_PROTOCOL_FEE_FRACTION:
		return "temINVALID_PROTOCOL_FEE_FRACTION"
	case TemINVALID_FEE_SHARE:
		return "temINVALID_FEE_SHARE"
	case TemINVALID_SLIPPAGE_PERCENT:
		return "temINVALID_SLIPPAGE_PERCENT"
	case TemINVALID_SLIPPAGE_BLOCKS:
		return "temINVALID_SLIPPAGE_BLOCKS"
	case TemINVALID:
		return "temINVALID"
	default:
		return fmt.Sprintf("Unknown(%d)", r)
	}
}

// IsSuccess returns true if the result indicates success
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec (state failure) code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (fault) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsApplied returns true if the transaction changed the ledger.
// Only tesSUCCESS keeps its state changes; everything else is rolled
// back in full.
func (r Result) IsApplied() bool {
	return r.IsSuccess()
}

// Message returns a human-readable message for the result. State
// failures carry the revert tag of the component that raised them.
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The transaction was applied."
	case TecFORBIDDEN:
		return "Linkswap: FORBIDDEN"
	case TecPAIR_EXISTS:
		return "Linkswap: PAIR_EXISTS"
	case TecPAIR_NOT_FOUND:
		return "Linkswap: PAIR_NOT_FOUND"
	case TecTOKEN_NOT_FOUND:
		return "Linkswap: TOKEN_NOT_FOUND"
	case TecTOKEN_EXISTS:
		return "Linkswap: TOKEN_EXISTS"
	case TecINSUFFICIENT_LIQUIDITY:
		return "Pair: INSUFFICIENT_LIQUIDITY"
	case TecINSUFFICIENT_LIQUIDITY_MINTED:
		return "Pair: INSUFFICIENT_LIQUIDITY_MINTED"
	case TecINSUFFICIENT_LIQUIDITY_BURNED:
		return "Pair: INSUFFICIENT_LIQUIDITY_BURNED"
	case TecINSUFFICIENT_INPUT_AMOUNT:
		return "Pair: INSUFFICIENT_INPUT_AMOUNT"
	case TecINSUFFICIENT_FUNDS:
		return "Token: INSUFFICIENT_FUNDS"
	case TecTRANSFER_FROM_FAILED:
		return "Linkswap: TRANSFER_FROM_FAILED"
	case TecINVALID_TO:
		return "Pair: INVALID_TO"
	case TecK:
		return "Pair: K"
	case TecSLIPLOCK:
		return "Pair: SlipLock"
	case TecBEFORE_EXPIRY:
		return "Pair: BEFORE_EXPIRY"
	case TecZERO_LOCKUP_PERIOD:
		return "Pair: ZERO_LOCKUP_PERIOD"
	case TecZERO_LOCKUP_AMOUNT:
		return "Pair: ZERO_LOCKUP_AMOUNT"
	case TecRESERVE_OVERFLOW:
		return "Pair: OVERFLOW"
	case TecUNEXPECTED_TOKEN:
		return "LinkswapPriceOracle: UNEXPECTED_TOKEN"
	case TecMISSING_HISTORICAL_OBSERVATION:
		return "LinkswapPriceOracle: MISSING_HISTORICAL_OBSERVATION"
	case TecINVALID_LISTING_FEE_TOKEN:
		return "Linkswap: INVALID_LISTING_FEE_TOKEN"
	case TecLISTING_LOCKUP_TOO_LOW:
		return "Linkswap: LISTING_LOCKUP_TOO_LOW"
	case TecLISTING_PERIOD_TOO_SHORT:
		return "Linkswap: LISTING_PERIOD_TOO_SHORT"
	case TecINVALID_LOCKUP_BOUNDS:
		return "Linkswap: INVALID_LOCKUP_BOUNDS"
	case TecINTERNAL:
		return "An internal error occurred while applying the transaction."
	case TefARITHMETIC:
		return "Checked arithmetic failed while applying the transaction."
	case TefREENTRANCY:
		return "Pair: LOCKED"
	case TefEXCEPTION:
		return "A swap callback returned an error."
	case TemIDENTICAL_ADDRESSES:
		return "Linkswap: IDENTICAL_ADDRESSES"
	case TemZERO_ADDRESS:
		return "Linkswap: ZERO_ADDRESS"
	case TemBAD_AMOUNT:
		return "Amounts must be positive."
	case TemINSUFFICIENT_OUTPUT_AMOUNT:
		return "Pair: INSUFFICIENT_OUTPUT_AMOUNT"
	case TemINVALID_TRADING_FEE_PERCENT:
		return "Pair: INVALID_TRADING_FEE_PERCENT"
	case TemINVALID_PROTOCOL_FEE_FRACTION:
		return "Linkswap: INVALID_PROTOCOL_FEE_FRACTION"
	case TemINVALID_FEE_SHARE:
		return "Linkswap: INVALID_FEE_SHARE"
	case TemINVALID_SLIPPAGE_PERCENT:
		return "Linkswap: INVALID_SLIPPAGE_PERCENT"
	case TemINVALID_SLIPPAGE_BLOCKS:
		return "Linkswap: INVALID_SLIPPAGE_BLOCKS"
	case TemINVALID:
		return "The transaction is ill-formed."
	default:
		return r.String()
	}
}
