package state

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ugorji/go/codec"
)

// Ledger entries are serialized with canonical CBOR so the stored bytes
// are deterministic for a given entry. big.Int values are registered as
// a tagged extension carrying their magnitude bytes; all ledger amounts
// are non-negative.

const bigIntCBORTag = 78

type bigIntExt struct{}

func (bigIntExt) ConvertExt(v interface{}) interface{} {
	switch i := v.(type) {
	case *big.Int:
		if i == nil {
			return []byte{}
		}
		return i.Bytes()
	case big.Int:
		return i.Bytes()
	default:
		panic(fmt.Sprintf("unsupported big.Int ext value %T", v))
	}
}

func (bigIntExt) UpdateExt(dst interface{}, src interface{}) {
	d := dst.(*big.Int)
	d.SetBytes(src.([]byte))
}

var cborHandle *codec.CborHandle

func init() {
	h := new(codec.CborHandle)
	h.Canonical = true
	if err := h.SetInterfaceExt(reflect.TypeOf(big.Int{}), bigIntCBORTag, bigIntExt{}); err != nil {
		panic(err)
	}
	cborHandle = h
}

// Encode serializes a ledger entry.
func Encode(v interface{}) ([]byte, error) {
	var out []byte
	enc := codec.NewEncoderBytes(&out, cborHandle)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return out, nil
}

// Decode deserializes a ledger entry into v.
func Decode(data []byte, v interface{}) error {
	dec := codec.NewDecoderBytes(data, cborHandle)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

// DecodeToken decodes a token entry.
func DecodeToken(data []byte) (*TokenEntry, error) {
	e := new(TokenEntry)
	if err := Decode(data, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodePair decodes a pair entry.
func DecodePair(data []byte) (*PairEntry, error) {
	e := new(PairEntry)
	if err := Decode(data, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeFactory decodes the factory entry.
func DecodeFactory(data []byte) (*FactoryEntry, error) {
	e := new(FactoryEntry)
	if err := Decode(data, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeOracle decodes the oracle entry.
func DecodeOracle(data []byte) (*OracleEntry, error) {
	e := new(OracleEntry)
	if err := Decode(data, e); err != nil {
		return nil, err
	}
	return e, nil
}
