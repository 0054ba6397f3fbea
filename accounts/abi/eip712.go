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
	"fmt"
	"sort"
	"strings"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/crypto"
	mapset "github.com/deckarep/golang-set/v2"
)

// EIP712Name returns the member type name used in EIP-712 type strings:
// struct names for tuples, canonical spellings for everything else.
func (t Type) EIP712Name() string {
	switch t.T {
	case TupleTy:
		return t.TupleRawName
	case SliceTy:
		return t.Elem.EIP712Name() + "[]"
	case ArrayTy:
		return fmt.Sprintf("%s[%d]", t.Elem.EIP712Name(), t.Size)
	}
	return t.String()
}

// EIP712Type renders the encodeType string of a named struct: the struct's
// own definition followed by every struct it references, sorted by name.
func (t Type) EIP712Type() (string, error) {
	if t.T != TupleTy || t.TupleRawName == "" {
		return "", fmt.Errorf("%w: %s is not a named struct", ErrInvalidArgument, t)
	}
	deps := mapset.NewThreadUnsafeSet[string]()
	defs := make(map[string]*Type)
	if err := collectStructs(&t, deps, defs); err != nil {
		return "", err
	}
	deps.Remove(t.TupleRawName)
	names := deps.ToSlice()
	sort.Strings(names)

	var b strings.Builder
	writeStructDef(&b, &t)
	for _, name := range names {
		writeStructDef(&b, defs[name])
	}
	return b.String(), nil
}

// EIP712TypeHash returns keccak256 of EIP712Type.
func (t Type) EIP712TypeHash() (common.Hash, error) {
	enc, err := t.EIP712Type()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash([]byte(enc)), nil
}

func writeStructDef(b *strings.Builder, t *Type) {
	b.WriteString(t.TupleRawName)
	b.WriteByte('(')
	for i, elem := range t.TupleElems {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(elem.EIP712Name())
		b.WriteByte(' ')
		b.WriteString(t.TupleRawNames[i])
	}
	b.WriteByte(')')
}

// collectStructs walks t and records every struct type reachable from it.
// Two different definitions under one name are rejected.
func collectStructs(t *Type, seen mapset.Set[string], defs map[string]*Type) error {
	switch t.T {
	case SliceTy, ArrayTy:
		return collectStructs(t.Elem, seen, defs)
	case TupleTy:
	default:
		return nil
	}
	if t.TupleRawName == "" {
		return fmt.Errorf("%w: anonymous tuple %s in typed data", ErrInvalidArgument, t)
	}
	if prev, ok := defs[t.TupleRawName]; ok {
		if prev.String() != t.String() {
			return fmt.Errorf("%w: conflicting definitions of struct %s", ErrInvalidArgument, t.TupleRawName)
		}
		return nil
	}
	seen.Add(t.TupleRawName)
	defs[t.TupleRawName] = t
	for _, elem := range t.TupleElems {
		if err := collectStructs(elem, seen, defs); err != nil {
			return err
		}
	}
	return nil
}

// PackWord encodes a value of an elementary static type (integers, bool,
// address, bytesN) as a single 32 byte word.
func PackWord(t Type, v any) (common.Hash, error) {
	var word common.Hash
	switch t.T {
	case UintTy, IntTy, BoolTy, AddressTy, FixedBytesTy, FunctionTy:
	default:
		return word, fmt.Errorf("%w: %s is not an elementary static type", ErrInvalidArgument, t)
	}
	err := packElementary(word[:], t, v)
	return word, err
}

// Components returns the element values of an array value or the field values
// of a tuple value, accepting the same representations as Pack.
func Components(t Type, v any) ([]any, error) {
	switch t.T {
	case SliceTy, ArrayTy:
		return toSlice(t, v)
	case TupleTy:
		return tupleValues(t, v)
	}
	return nil, fmt.Errorf("%w: %s has no components", ErrInvalidArgument, t)
}
