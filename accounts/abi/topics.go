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

package abi

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/common/math"
	"github.com/Kr1ptal/ethers-go/crypto"
)

// MakeTopic encodes v as an indexed event topic of type t. Value types are
// stored as their 32 byte word, string and bytes as their keccak256 hash.
func MakeTopic(t Type, v any) (common.Hash, error) {
	var topic common.Hash
	switch t.T {
	case StringTy:
		s, ok := v.(string)
		if !ok {
			return topic, typeErr(t, v)
		}
		return crypto.Keccak256Hash([]byte(s)), nil
	case BytesTy:
		b, ok := asBytes(v)
		if !ok {
			return topic, typeErr(t, v)
		}
		return crypto.Keccak256Hash(b), nil
	case SliceTy, ArrayTy, TupleTy:
		// TODO: hash the in-place encoding of composite indexed values.
		return topic, fmt.Errorf("%w: unsupported indexed type %s", ErrInvalidArgument, t)
	}
	err := packElementary(topic[:], t, v)
	return topic, err
}

// MakeTopics converts a filter query argument list into a filter topic set.
// The topic type is inferred from the Go type of each rule.
func MakeTopics(query ...[]any) ([][]common.Hash, error) {
	topics := make([][]common.Hash, len(query))
	for i, filter := range query {
		for _, rule := range filter {
			var topic common.Hash

			// Try to generate the topic based on simple types
			switch rule := rule.(type) {
			case common.Hash:
				copy(topic[:], rule[:])
			case common.Address:
				copy(topic[common.HashLength-common.AddressLength:], rule[:])
			case *big.Int:
				copy(topic[:], math.U256Bytes(new(big.Int).Set(rule)))
			case bool:
				if rule {
					topic[common.HashLength-1] = 1
				}
			case int8:
				copy(topic[:], genIntType(int64(rule), 1))
			case int16:
				copy(topic[:], genIntType(int64(rule), 2))
			case int32:
				copy(topic[:], genIntType(int64(rule), 4))
			case int64:
				copy(topic[:], genIntType(rule, 8))
			case uint8:
				topic[common.HashLength-1] = rule
			case uint16:
				topic = common.BigToHash(new(big.Int).SetUint64(uint64(rule)))
			case uint32:
				topic = common.BigToHash(new(big.Int).SetUint64(uint64(rule)))
			case uint64:
				topic = common.BigToHash(new(big.Int).SetUint64(rule))
			case string:
				topic = crypto.Keccak256Hash([]byte(rule))
			case []byte:
				topic = crypto.Keccak256Hash(rule)
			case [32]byte:
				topic = rule
			default:
				return nil, fmt.Errorf("unsupported indexed type: %T", rule)
			}
			topics[i] = append(topics[i], topic)
		}
	}
	return topics, nil
}

// genIntType generates the canonical representation of an integer type with the given size.
func genIntType(rule int64, size uint) []byte {
	var topic [common.HashLength]byte
	if rule < 0 {
		// if a rule is negative, we need to put it into two's complement.
		// extended to common.HashLength bytes.
		for i := range topic {
			topic[i] = 0xff
		}
	}
	for i := uint(0); i < size; i++ {
		topic[common.HashLength-i-1] = byte(rule >> (i * 8))
	}
	return topic[:]
}

// ParseTopicsIntoMap converts the indexed topic field-value pairs into map key-value pairs.
func ParseTopicsIntoMap(out map[string]any, fields Arguments, topics []common.Hash) error {
	if len(fields) != len(topics) {
		return errors.New("topic/field count mismatch")
	}
	for i, arg := range fields {
		if !arg.Indexed {
			return errors.New("non-indexed field in topic reconstruction")
		}
		v, err := parseTopic(arg.Type, topics[i])
		if err != nil {
			return err
		}
		out[arg.Name] = v
	}
	return nil
}

// parseTopic reconstructs an indexed value. Dynamic and composite types only
// survive as their keccak256 hash, which is returned as is.
func parseTopic(t Type, topic common.Hash) (any, error) {
	switch t.T {
	case StringTy, BytesTy, SliceTy, ArrayTy, TupleTy:
		return topic, nil
	}
	return decodeWord(topic[:], t)
}
