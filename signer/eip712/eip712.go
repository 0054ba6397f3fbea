// Copyright 2025 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package eip712 implements hashing of typed structured data as defined by
// EIP-712. Struct types are described with abi.Type values created through
// abi.NewStructType or parsed from a JSON ABI.
package eip712

import (
	"fmt"
	"math/big"

	"github.com/Kr1ptal/ethers-go/accounts/abi"
	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/common/hexutil"
	"github.com/Kr1ptal/ethers-go/crypto"
)

// Domain is the EIP712Domain of typed data. Only set fields take part in the
// domain type and separator: strings when non-empty, pointers when non-nil.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract *common.Address
	Salt              *common.Hash
}

var (
	stringT  = abi.MustNewType("string")
	uint256T = abi.MustNewType("uint256")
	addressT = abi.MustNewType("address")
	bytes32T = abi.MustNewType("bytes32")
)

// Type returns the EIP712Domain struct type made of the set fields, along with
// the matching field values.
func (d *Domain) Type() (abi.Type, []any, error) {
	var (
		fields abi.Arguments
		values []any
	)
	if d.Name != "" {
		fields = append(fields, abi.Argument{Name: "name", Type: stringT})
		values = append(values, d.Name)
	}
	if d.Version != "" {
		fields = append(fields, abi.Argument{Name: "version", Type: stringT})
		values = append(values, d.Version)
	}
	if d.ChainID != nil {
		fields = append(fields, abi.Argument{Name: "chainId", Type: uint256T})
		values = append(values, d.ChainID)
	}
	if d.VerifyingContract != nil {
		fields = append(fields, abi.Argument{Name: "verifyingContract", Type: addressT})
		values = append(values, *d.VerifyingContract)
	}
	if d.Salt != nil {
		fields = append(fields, abi.Argument{Name: "salt", Type: bytes32T})
		values = append(values, *d.Salt)
	}
	typ, err := abi.NewStructType("EIP712Domain", fields, nil)
	return typ, values, err
}

// Separator returns the domain separator, hashStruct(EIP712Domain).
func (d *Domain) Separator() (common.Hash, error) {
	typ, values, err := d.Type()
	if err != nil {
		return common.Hash{}, err
	}
	return HashStruct(typ, values)
}

// TypedData is a message of struct type Type, bound to Domain.
type TypedData struct {
	Domain  Domain
	Type    abi.Type
	Message any
}

// Encode returns the signing payload 0x19 0x01 || domainSeparator || hashStruct(message).
func (td *TypedData) Encode() ([]byte, error) {
	sep, err := td.Domain.Separator()
	if err != nil {
		return nil, fmt.Errorf("domain: %w", err)
	}
	msg, err := HashStruct(td.Type, td.Message)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", td.Type.TupleRawName, err)
	}
	raw := make([]byte, 2+2*common.HashLength)
	raw[0], raw[1] = 0x19, 0x01
	copy(raw[2:], sep[:])
	copy(raw[2+common.HashLength:], msg[:])
	return raw, nil
}

// Hash returns the hash that is signed for the typed data.
func (td *TypedData) Hash() (common.Hash, error) {
	raw, err := td.Encode()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(raw), nil
}

// HashStruct returns keccak256(EncodeData(t, value)).
func HashStruct(t abi.Type, value any) (common.Hash, error) {
	enc, err := EncodeData(t, value)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(enc), nil
}

// EncodeData returns typeHash || enc(field1) || ... || enc(fieldN) for a
// struct value. value is a []any in field order or an abi.Tuple.
func EncodeData(t abi.Type, value any) ([]byte, error) {
	typeHash, err := t.EIP712TypeHash()
	if err != nil {
		return nil, err
	}
	fields, err := abi.Components(t, value)
	if err != nil {
		return nil, err
	}
	out := make([]byte, common.HashLength*(1+len(fields)))
	copy(out, typeHash[:])
	for i, elem := range t.TupleElems {
		word, err := encodeValue(*elem, fields[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", t.TupleRawNames[i], err)
		}
		copy(out[common.HashLength*(i+1):], word[:])
	}
	return out, nil
}

// encodeValue returns the 32 byte member encoding of v: dynamic values and
// arrays are hashed, structs are replaced by their struct hash.
func encodeValue(t abi.Type, v any) (common.Hash, error) {
	switch t.T {
	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return common.Hash{}, fmt.Errorf("%w: cannot use %T as %s", abi.ErrInvalidArgument, v, t)
		}
		return crypto.Keccak256Hash([]byte(s)), nil
	case abi.BytesTy:
		switch b := v.(type) {
		case []byte:
			return crypto.Keccak256Hash(b), nil
		case hexutil.Bytes:
			return crypto.Keccak256Hash(b), nil
		}
		return common.Hash{}, fmt.Errorf("%w: cannot use %T as %s", abi.ErrInvalidArgument, v, t)
	case abi.TupleTy:
		return HashStruct(t, v)
	case abi.SliceTy, abi.ArrayTy:
		elems, err := abi.Components(t, v)
		if err != nil {
			return common.Hash{}, err
		}
		buf := make([]byte, common.HashLength*len(elems))
		for i, elem := range elems {
			word, err := encodeValue(*t.Elem, elem)
			if err != nil {
				return common.Hash{}, fmt.Errorf("element %d: %w", i, err)
			}
			copy(buf[common.HashLength*i:], word[:])
		}
		return crypto.Keccak256Hash(buf), nil
	}
	return abi.PackWord(t, v)
}
