package tx

import (
	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/core/types"
)

// LedgerView provides read/write access to ledger state
type LedgerView interface {
	// Read reads a ledger entry, returning nil when it does not exist
	Read(k state.Keylet) ([]byte, error)

	// Exists checks if an entry exists
	Exists(k state.Keylet) (bool, error)

	// Insert adds a new entry
	Insert(k state.Keylet, data []byte) error

	// Update modifies an existing entry
	Update(k state.Keylet, data []byte) error

	// Erase removes an entry
	Erase(k state.Keylet) error

	// ForEach iterates over all state entries
	// If fn returns false, iteration stops early
	ForEach(fn func(key [32]byte, data []byte) bool) error
}

// ReadToken reads and decodes a token entry. Returns nil when the
// token does not exist.
func ReadToken(view LedgerView, addr types.Address) (*state.TokenEntry, error) {
	data, err := view.Read(state.Token(addr))
	if err != nil || data == nil {
		return nil, err
	}
	return state.DecodeToken(data)
}

// WriteToken encodes and updates a token entry.
func WriteToken(view LedgerView, entry *state.TokenEntry) error {
	data, err := state.Encode(entry)
	if err != nil {
		return err
	}
	return view.Update(state.Token(entry.Address), data)
}

// InsertToken encodes and inserts a new token entry.
func InsertToken(view LedgerView, entry *state.TokenEntry) error {
	data, err := state.Encode(entry)
	if err != nil {
		return err
	}
	return view.Insert(state.Token(entry.Address), data)
}

// ReadPair reads and decodes a pair entry. Returns nil when the pair
// does not exist.
func ReadPair(view LedgerView, addr types.Address) (*state.PairEntry, error) {
	data, err := view.Read(state.Pair(addr))
	if err != nil || data == nil {
		return nil, err
	}
	return state.DecodePair(data)
}

// WritePair encodes and updates a pair entry.
func WritePair(view LedgerView, entry *state.PairEntry) error {
	data, err := state.Encode(entry)
	if err != nil {
		return err
	}
	return view.Update(state.Pair(entry.Address), data)
}

// InsertPair encodes and inserts a new pair entry.
func InsertPair(view LedgerView, entry *state.PairEntry) error {
	data, err := state.Encode(entry)
	if err != nil {
		return err
	}
	return view.Insert(state.Pair(entry.Address), data)
}

// ReadFactory reads and decodes the factory singleton. Returns nil when
// the factory has not been initialized.
func ReadFactory(view LedgerView) (*state.FactoryEntry, error) {
	data, err := view.Read(state.Factory())
	if err != nil || data == nil {
		return nil, err
	}
	return state.DecodeFactory(data)
}

// WriteFactory encodes and updates the factory singleton.
func WriteFactory(view LedgerView, entry *state.FactoryEntry) error {
	data, err := state.Encode(entry)
	if err != nil {
		return err
	}
	return view.Update(state.Factory(), data)
}

// InsertFactory encodes and inserts the factory singleton.
func InsertFactory(view LedgerView, entry *state.FactoryEntry) error {
	data, err := state.Encode(entry)
	if err != nil {
		return err
	}
	return view.Insert(state.Factory(), data)
}

// ReadOracle reads and decodes the oracle singleton. Returns nil when
// the oracle has not been initialized.
func ReadOracle(view LedgerView) (*state.OracleEntry, error) {
	data, err := view.Read(state.Oracle())
	if err != nil || data == nil {
		return nil, err
	}
	return state.DecodeOracle(data)
}

// WriteOracle encodes and updates the oracle singleton.
func WriteOracle(view LedgerView, entry *state.OracleEntry) error {
	data, err := state.Encode(entry)
	if err != nil {
		return err
	}
	return view.Update(state.Oracle(), data)
}

// InsertOracle encodes and inserts the oracle singleton.
func InsertOracle(view LedgerView, entry *state.OracleEntry) error {
	data, err := state.Encode(entry)
	if err != nil {
		return err
	}
	return view.Insert(state.Oracle(), data)
}
