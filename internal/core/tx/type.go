package tx

import "fmt"

// Type identifies a transaction type
type Type int

const (
	TypeUnknown Type = iota

	// Token ledger
	TypeTokenCreate
	TypeTokenTransfer
	TypeTokenTransferFrom
	TypeTokenApprove

	// Pair operations
	TypePairMint
	TypePairBurn
	TypePairSwap
	TypePairSync
	TypePairLock
	TypePairUnlock
	TypePairTransferLiquidity
	TypePairSetTradingFee

	// Factory operations
	TypeFactoryInit
	TypeFactoryCreatePair
	TypeFactoryApprovePair
	TypeFactorySetPolicy
	TypeFactorySetGovernance

	// Oracle operations
	TypeOracleUpdate
	TypeOracleSetFeeds
)

// String returns the canonical name of the transaction type
func (t Type) String() string {
	switch t {
	case TypeTokenCreate:
		return "TokenCreate"
	case TypeTokenTransfer:
		return "TokenTransfer"
	case TypeTokenTransferFrom:
		return "TokenTransferFrom"
	case TypeTokenApprove:
		return "TokenApprove"
	case TypePairMint:
		return "PairMint"
	case TypePairBurn:
		return "PairBurn"
	case TypePairSwap:
		return "PairSwap"
	case TypePairSync:
		return "PairSync"
	case TypePairLock:
		return "PairLock"
	case TypePairUnlock:
		return "PairUnlock"
	case TypePairTransferLiquidity:
		return "PairTransferLiquidity"
	case TypePairSetTradingFee:
		return "PairSetTradingFee"
	case TypeFactoryInit:
		return "FactoryInit"
	case TypeFactoryCreatePair:
		return "FactoryCreatePair"
	case TypeFactoryApprovePair:
		return "FactoryApprovePair"
	case TypeFactorySetPolicy:
		return "FactorySetPolicy"
	case TypeFactorySetGovernance:
		return "FactorySetGovernance"
	case TypeOracleUpdate:
		return "OracleUpdate"
	case TypeOracleSetFeeds:
		return "OracleSetFeeds"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// TypeFromString parses a canonical transaction type name
func TypeFromString(s string) (Type, error) {
	for t := TypeTokenCreate; t <= TypeOracleSetFeeds; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
}
