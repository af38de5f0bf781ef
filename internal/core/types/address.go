package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// Address identifies an account, token or pair in the ledger.
// It is a 20-byte identifier, rendered as 0x-prefixed hex.
type Address [20]byte

// ZeroAddress is the all-zero address. Liquidity permanently locked at
// pair creation is credited to it.
var ZeroAddress Address

// AddressFromHex parses an address from its hex form, with or without
// the 0x prefix.
func AddressFromHex(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(raw) != 20 {
		return a, fmt.Errorf("invalid address length %d, want 20", len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// MustAddressFromHex is AddressFromHex that panics on malformed input.
// Intended for tests and hard-coded well-known addresses.
func MustAddressFromHex(s string) Address {
	a, err := AddressFromHex(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromBytes copies the first 20 bytes of raw into an address.
func AddressFromBytes(raw []byte) (Address, error) {
	var a Address
	if len(raw) != 20 {
		return a, fmt.Errorf("invalid address length %d, want 20", len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// String returns the 0x-prefixed lowercase hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Less defines the canonical token ordering used to sort a pair's tokens
// into (token0, token1).
func (a Address) Less(b Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// MarshalText implements encoding.TextMarshaler so addresses round-trip
// through JSON as hex strings.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := AddressFromHex(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// SortTokens returns the two tokens in canonical order.
func SortTokens(a, b Address) (Address, Address) {
	if b.Less(a) {
		return b, a
	}
	return a, b
}
