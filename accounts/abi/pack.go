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
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/common/hexutil"
	"github.com/Kr1ptal/ethers-go/common/math"
	"github.com/holiman/uint256"
)

// Packing runs in two passes over the same value tree: encodedSize measures
// and validates, encodeTo writes into a buffer of exactly that size.

// encodedSize returns the number of bytes v occupies when encoded as t on its
// own, i.e. the tail size for dynamic types and the head size for static ones.
func encodedSize(t Type, v any) (int, error) {
	switch t.T {
	case StringTy:
		s, ok := v.(string)
		if !ok {
			return 0, typeErr(t, v)
		}
		return 32 + paddedLen(len(s)), nil
	case BytesTy:
		b, ok := asBytes(v)
		if !ok {
			return 0, typeErr(t, v)
		}
		return 32 + paddedLen(len(b)), nil
	case SliceTy:
		elems, err := toSlice(t, v)
		if err != nil {
			return 0, err
		}
		n, err := elemsSize(repeatType(t.Elem, len(elems)), elems)
		return 32 + n, err
	case ArrayTy:
		elems, err := toSlice(t, v)
		if err != nil {
			return 0, err
		}
		if !isDynamicType(t) {
			return getTypeSize(t), nil
		}
		return elemsSize(repeatType(t.Elem, len(elems)), elems)
	case TupleTy:
		fields, err := tupleValues(t, v)
		if err != nil {
			return 0, err
		}
		if !isDynamicType(t) {
			return getTypeSize(t), nil
		}
		return elemsSize(t.TupleElems, fields)
	default:
		return 32, nil
	}
}

// elemsSize is the size of a head/tail block holding vals.
func elemsSize(types []*Type, vals []any) (int, error) {
	total := 0
	for i, typ := range types {
		if !isDynamicType(*typ) {
			total += getTypeSize(*typ)
			continue
		}
		n, err := encodedSize(*typ, vals[i])
		if err != nil {
			return 0, err
		}
		total += 32 + n
	}
	return total, nil
}

// encodeTo writes the encoding of v into buf, which must be large enough, and
// returns the number of bytes written.
func encodeTo(buf []byte, t Type, v any) (int, error) {
	switch t.T {
	case StringTy:
		s, ok := v.(string)
		if !ok {
			return 0, typeErr(t, v)
		}
		putLength(buf, len(s))
		copy(buf[32:], s)
		return 32 + paddedLen(len(s)), nil
	case BytesTy:
		b, ok := asBytes(v)
		if !ok {
			return 0, typeErr(t, v)
		}
		putLength(buf, len(b))
		copy(buf[32:], b)
		return 32 + paddedLen(len(b)), nil
	case SliceTy:
		elems, err := toSlice(t, v)
		if err != nil {
			return 0, err
		}
		putLength(buf, len(elems))
		n, err := encodeElems(buf[32:], repeatType(t.Elem, len(elems)), elems)
		return 32 + n, err
	case ArrayTy:
		elems, err := toSlice(t, v)
		if err != nil {
			return 0, err
		}
		return encodeElems(buf, repeatType(t.Elem, len(elems)), elems)
	case TupleTy:
		fields, err := tupleValues(t, v)
		if err != nil {
			return 0, err
		}
		return encodeElems(buf, t.TupleElems, fields)
	default:
		return 32, packElementary(buf[:32], t, v)
	}
}

// encodeElems writes the heads of vals followed by the tails of the dynamic
// ones. Offsets are relative to the start of buf.
func encodeElems(buf []byte, types []*Type, vals []any) (int, error) {
	head := 0
	for _, typ := range types {
		if isDynamicType(*typ) {
			head += 32
		} else {
			head += getTypeSize(*typ)
		}
	}
	pos, tail := 0, head
	for i, typ := range types {
		if !isDynamicType(*typ) {
			n, err := encodeTo(buf[pos:], *typ, vals[i])
			if err != nil {
				return 0, err
			}
			pos += n
			continue
		}
		putLength(buf[pos:], tail)
		n, err := encodeTo(buf[tail:], *typ, vals[i])
		if err != nil {
			return 0, err
		}
		pos += 32
		tail += n
	}
	return tail, nil
}

// packElementary writes a single 32 byte word.
func packElementary(word []byte, t Type, v any) error {
	switch t.T {
	case UintTy, IntTy:
		return packInteger(word, t, v)
	case BoolTy:
		b, ok := v.(bool)
		if !ok {
			return typeErr(t, v)
		}
		if b {
			word[31] = 1
		}
		return nil
	case AddressTy:
		switch a := v.(type) {
		case common.Address:
			copy(word[12:], a[:])
		case *common.Address:
			if a == nil {
				return typeErr(t, v)
			}
			copy(word[12:], a[:])
		case [20]byte:
			copy(word[12:], a[:])
		default:
			return typeErr(t, v)
		}
		return nil
	case FixedBytesTy, FunctionTy:
		var b []byte
		switch x := v.(type) {
		case []byte:
			b = x
		case hexutil.Bytes:
			b = x
		case common.Hash:
			b = x[:]
		case [32]byte:
			b = x[:]
		case [24]byte:
			b = x[:]
		case [4]byte:
			b = x[:]
		default:
			return typeErr(t, v)
		}
		if len(b) != t.Size {
			return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrInvalidArgument, t, t.Size, len(b))
		}
		copy(word, b)
		return nil
	}
	return fmt.Errorf("%w: cannot pack type %s", ErrInvalidArgument, t)
}

func packInteger(word []byte, t Type, v any) error {
	var (
		u   uint64
		i   int64
		bv  *big.Int
		neg bool
	)
	switch x := v.(type) {
	case uint8:
		u = uint64(x)
	case uint16:
		u = uint64(x)
	case uint32:
		u = uint64(x)
	case uint64:
		u = x
	case uint:
		u = uint64(x)
	case int8:
		i, neg = int64(x), x < 0
	case int16:
		i, neg = int64(x), x < 0
	case int32:
		i, neg = int64(x), x < 0
	case int64:
		i, neg = x, x < 0
	case int:
		i, neg = int64(x), x < 0
	case *big.Int:
		if x == nil {
			return typeErr(t, v)
		}
		bv = x
	case big.Int:
		bv = &x
	case *uint256.Int:
		if x == nil {
			return typeErr(t, v)
		}
		bv = x.ToBig()
	case uint256.Int:
		bv = x.ToBig()
	default:
		return typeErr(t, v)
	}
	switch v.(type) {
	case int8, int16, int32, int64, int:
		if !neg {
			u = uint64(i)
		}
	}
	if bv == nil && !neg {
		if t.Size < 64 && u>>(t.Size-boolToInt(t.T == IntTy)) != 0 {
			return fmt.Errorf("%w: %d overflows %s", ErrInvalidArgument, u, t)
		}
		if t.Size == 64 && t.T == IntTy && u>>63 != 0 {
			return fmt.Errorf("%w: %d overflows %s", ErrInvalidArgument, u, t)
		}
		binary.BigEndian.PutUint64(word[24:], u)
		return nil
	}
	if bv == nil {
		bv = big.NewInt(i)
	}
	if err := checkIntRange(t, bv); err != nil {
		return err
	}
	if bv.Sign() >= 0 {
		bv.FillBytes(word)
		return nil
	}
	copy(word, math.U256Bytes(new(big.Int).Set(bv)))
	return nil
}

func checkIntRange(t Type, v *big.Int) error {
	if t.T == UintTy {
		if v.Sign() < 0 {
			return fmt.Errorf("%w: negative value %v for %s", ErrInvalidArgument, v, t)
		}
		if v.BitLen() > t.Size {
			return fmt.Errorf("%w: %v overflows %s", ErrInvalidArgument, v, t)
		}
		return nil
	}
	// Signed range is [-2^(n-1), 2^(n-1)-1].
	limit := new(big.Int).Lsh(common.Big1, uint(t.Size-1))
	if v.Cmp(limit) >= 0 || v.Cmp(limit.Neg(limit)) < 0 {
		return fmt.Errorf("%w: %v overflows %s", ErrInvalidArgument, v, t)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func asBytes(v any) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case hexutil.Bytes:
		return b, true
	}
	return nil, false
}

// toSlice converts the supported array representations into []any.
func toSlice(t Type, v any) ([]any, error) {
	var out []any
	switch s := v.(type) {
	case []any:
		out = s
	case []string:
		out = make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
	case [][]byte:
		out = make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
	case []bool:
		out = make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
	case []*big.Int:
		out = make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
	case []uint64:
		out = make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
	case []int64:
		out = make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
	case []common.Address:
		out = make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
	case []common.Hash:
		out = make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
	case []byte:
		// uint8[] / uint8[N]
		out = make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
	default:
		return nil, typeErr(t, v)
	}
	if t.T == ArrayTy && len(out) != t.Size {
		return nil, fmt.Errorf("%w: %s needs %d elements, got %d", ErrInvalidArgument, t, t.Size, len(out))
	}
	return out, nil
}

// tupleValues returns the field values of a tuple argument.
func tupleValues(t Type, v any) ([]any, error) {
	var fields []any
	switch x := v.(type) {
	case []any:
		fields = x
	case Tuple:
		fields = x.TupleValues()
	default:
		return nil, typeErr(t, v)
	}
	if len(fields) != len(t.TupleElems) {
		return nil, fmt.Errorf("%w: %s needs %d fields, got %d", ErrInvalidArgument, t, len(t.TupleElems), len(fields))
	}
	return fields, nil
}

func repeatType(elem *Type, n int) []*Type {
	types := make([]*Type, n)
	for i := range types {
		types[i] = elem
	}
	return types
}

func paddedLen(n int) int {
	return (n + 31) / 32 * 32
}

func putLength(word []byte, n int) {
	binary.BigEndian.PutUint64(word[24:32], uint64(n))
}
