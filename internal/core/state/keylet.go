// Package state defines the ledger entry types and their addressing.
//
// Every entry lives at a Keylet: a 32-byte key derived by hashing a
// space identifier together with the entry's identifying data. Pair
// addresses are derived from the sorted token pair, so a pair's address
// is known before it exists.
package state

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/decred/dcrd/crypto/ripemd160"

	"github.com/yflink/linkswap/internal/core/types"
)

// Space identifiers for keylet generation.
const (
	spaceToken   uint16 = 't' // Token ledger entry
	spacePair    uint16 = 'p' // Pair ledger entry
	spaceFactory uint16 = 'f' // Factory singleton
	spaceOracle  uint16 = 'o' // Price oracle singleton
)

// EntryType identifies what kind of entry is stored at a keylet.
type EntryType uint8

const (
	TypeToken EntryType = iota + 1
	TypePair
	TypeFactory
	TypeOracle
)

func (t EntryType) String() string {
	switch t {
	case TypeToken:
		return "Token"
	case TypePair:
		return "Pair"
	case TypeFactory:
		return "Factory"
	case TypeOracle:
		return "Oracle"
	default:
		return "Unknown"
	}
}

// Keylet is an addressable location in the ledger state.
type Keylet struct {
	Type EntryType
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	h := sha256.New()
	var spaceBytes [2]byte
	binary.BigEndian.PutUint16(spaceBytes[:], space)
	h.Write(spaceBytes[:])
	for _, d := range data {
		h.Write(d)
	}
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// Token returns the keylet for a token entry.
func Token(addr types.Address) Keylet {
	return Keylet{
		Type: TypeToken,
		Key:  indexHash(spaceToken, addr[:]),
	}
}

// Pair returns the keylet for a pair entry.
func Pair(addr types.Address) Keylet {
	return Keylet{
		Type: TypePair,
		Key:  indexHash(spacePair, addr[:]),
	}
}

// Factory returns the keylet for the singleton factory entry.
func Factory() Keylet {
	return Keylet{
		Type: TypeFactory,
		Key:  indexHash(spaceFactory),
	}
}

// Oracle returns the keylet for the singleton price oracle entry.
func Oracle() Keylet {
	return Keylet{
		Type: TypeOracle,
		Key:  indexHash(spaceOracle),
	}
}

// PairAddress derives the deterministic address of the pair for two
// tokens. The tokens are sorted first, so argument order does not
// matter. The address is RIPEMD160(SHA256(space || token0 || token1)),
// truncating the 256-bit digest down to the 20-byte address space.
func PairAddress(tokenA, tokenB types.Address) types.Address {
	token0, token1 := types.SortTokens(tokenA, tokenB)

	inner := sha256.New()
	var spaceBytes [2]byte
	binary.BigEndian.PutUint16(spaceBytes[:], spacePair)
	inner.Write(spaceBytes[:])
	inner.Write(token0[:])
	inner.Write(token1[:])

	outer := ripemd160.New()
	outer.Write(inner.Sum(nil))

	var addr types.Address
	copy(addr[:], outer.Sum(nil))
	return addr
}

// TokenAddress derives the deterministic address of a token created by
// the given account under the given symbol.
func TokenAddress(creator types.Address, symbol string) types.Address {
	inner := sha256.New()
	var spaceBytes [2]byte
	binary.BigEndian.PutUint16(spaceBytes[:], spaceToken)
	inner.Write(spaceBytes[:])
	inner.Write(creator[:])
	inner.Write([]byte(symbol))

	outer := ripemd160.New()
	outer.Write(inner.Sum(nil))

	var addr types.Address
	copy(addr[:], outer.Sum(nil))
	return addr
}
