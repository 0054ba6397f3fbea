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
	"github.com/Kr1ptal/ethers-go/common/math"
)

// decodeElems decodes a head/tail block. Offsets found in the head are
// relative to the start of data.
func decodeElems(data []byte, types []*Type) ([]any, error) {
	out := make([]any, len(types))
	pos := 0
	for i, typ := range types {
		if !isDynamicType(*typ) {
			size := getTypeSize(*typ)
			if pos+size > len(data) {
				return nil, fmt.Errorf("%w: %s at %d needs %d bytes, have %d", ErrDataTooShort, typ, pos, size, len(data)-pos)
			}
			v, err := decodeValue(data[pos:], *typ)
			if err != nil {
				return nil, err
			}
			out[i] = v
			pos += size
			continue
		}
		offset, err := readOffset(data, pos)
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(data[offset:], *typ)
		if err != nil {
			return nil, err
		}
		out[i] = v
		pos += 32
	}
	return out, nil
}

// decodeValue decodes a single value starting at the beginning of data.
func decodeValue(data []byte, t Type) (any, error) {
	switch t.T {
	case StringTy, BytesTy:
		n, err := readLength(data, 0, 1)
		if err != nil {
			return nil, err
		}
		b := make([]byte, n)
		copy(b, data[32:32+n])
		if t.T == StringTy {
			return string(b), nil
		}
		return b, nil
	case SliceTy:
		n, err := readLength(data, 0, minElemSize(*t.Elem))
		if err != nil {
			return nil, err
		}
		return decodeElems(data[32:], repeatType(t.Elem, n))
	case ArrayTy:
		return decodeElems(data, repeatType(t.Elem, t.Size))
	case TupleTy:
		fields, err := decodeElems(data, t.TupleElems)
		if err != nil {
			return nil, err
		}
		if t.TupleDecoder != nil {
			return t.TupleDecoder(fields)
		}
		return fields, nil
	}
	if len(data) < 32 {
		return nil, fmt.Errorf("%w: %s needs 32 bytes, have %d", ErrDataTooShort, t, len(data))
	}
	return decodeWord(data[:32], t)
}

func decodeWord(word []byte, t Type) (any, error) {
	switch t.T {
	case UintTy:
		return decodeUint(word, t)
	case IntTy:
		return decodeInt(word, t)
	case BoolTy:
		if !allZero(word[:31]) || word[31] > 1 {
			return nil, errBadBool
		}
		return word[31] == 1, nil
	case AddressTy:
		if !allZero(word[:12]) {
			return nil, fmt.Errorf("%w in address", errBadPadding)
		}
		return common.BytesToAddress(word[12:]), nil
	case FixedBytesTy, FunctionTy:
		if !allZero(word[t.Size:]) {
			return nil, fmt.Errorf("%w in %s", errBadPadding, t)
		}
		return common.CopyBytes(word[:t.Size]), nil
	}
	return nil, fmt.Errorf("%w: cannot unpack type %s", ErrInvalidArgument, t)
}

func decodeUint(word []byte, t Type) (any, error) {
	if t.Size > 64 {
		v := new(big.Int).SetBytes(word)
		if v.BitLen() > t.Size {
			return nil, fmt.Errorf("%w: %s", errBadInt, t)
		}
		return v, nil
	}
	if !allZero(word[:24]) {
		return nil, fmt.Errorf("%w: %s", errBadInt, t)
	}
	u := binary.BigEndian.Uint64(word[24:])
	if t.Size < 64 && u>>t.Size != 0 {
		return nil, fmt.Errorf("%w: %s", errBadInt, t)
	}
	switch t.Size {
	case 8:
		return uint8(u), nil
	case 16:
		return uint16(u), nil
	case 32:
		return uint32(u), nil
	case 64:
		return u, nil
	}
	return new(big.Int).SetUint64(u), nil
}

func decodeInt(word []byte, t Type) (any, error) {
	if t.Size > 64 {
		v := math.S256(new(big.Int).SetBytes(word))
		if err := checkIntRange(t, v); err != nil {
			return nil, fmt.Errorf("%w: %s", errBadInt, t)
		}
		return v, nil
	}
	// Everything above the low 8 bytes must be sign extension.
	ext := byte(0)
	if word[24]&0x80 != 0 {
		ext = 0xff
	}
	for _, b := range word[:24] {
		if b != ext {
			return nil, fmt.Errorf("%w: %s", errBadInt, t)
		}
	}
	i := int64(binary.BigEndian.Uint64(word[24:]))
	if t.Size < 64 {
		limit := int64(1) << (t.Size - 1)
		if i >= limit || i < -limit {
			return nil, fmt.Errorf("%w: %s", errBadInt, t)
		}
	}
	switch t.Size {
	case 8:
		return int8(i), nil
	case 16:
		return int16(i), nil
	case 32:
		return int32(i), nil
	case 64:
		return i, nil
	}
	return big.NewInt(i), nil
}

// readOffset reads the head word at pos of data as an offset into data.
func readOffset(data []byte, pos int) (int, error) {
	if pos+32 > len(data) {
		return 0, fmt.Errorf("%w: offset word at %d, have %d bytes", ErrDataTooShort, pos, len(data))
	}
	off, ok := wordToInt(data[pos : pos+32])
	if !ok || off > len(data) {
		return 0, fmt.Errorf("%w: offset %x exceeds %d bytes", ErrOffsetOutOfBounds, data[pos:pos+32], len(data))
	}
	return off, nil
}

// readLength reads a length prefix at pos and checks that n elements of the
// given minimum size fit behind it.
func readLength(data []byte, pos int, elemSize int) (int, error) {
	if pos+32 > len(data) {
		return 0, fmt.Errorf("%w: length word at %d, have %d bytes", ErrDataTooShort, pos, len(data))
	}
	n, ok := wordToInt(data[pos : pos+32])
	avail := len(data) - pos - 32
	if !ok || n > avail {
		return 0, fmt.Errorf("%w: length %x exceeds %d remaining bytes", ErrOffsetOutOfBounds, data[pos:pos+32], avail)
	}
	if elemSize > 1 && n > avail/elemSize {
		return 0, fmt.Errorf("%w: %d elements of %d bytes exceed %d remaining bytes", ErrDataTooShort, n, elemSize, avail)
	}
	return n, nil
}

func minElemSize(t Type) int {
	if isDynamicType(t) {
		return 32
	}
	return getTypeSize(t)
}

// wordToInt interprets a 32 byte word as a non-negative int that fits in 32
// bits, which is plenty for any real buffer.
func wordToInt(word []byte) (int, bool) {
	if !allZero(word[:28]) {
		return 0, false
	}
	return int(binary.BigEndian.Uint32(word[28:])), true
}

func allZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}
