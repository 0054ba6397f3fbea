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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStruct(t *testing.T, name string, fields ...Argument) Type {
	t.Helper()
	typ, err := NewStructType(name, fields, nil)
	require.NoError(t, err)
	return typ
}

func TestEIP712Type(t *testing.T) {
	person := mustStruct(t, "Person",
		Argument{Name: "name", Type: MustNewType("string")},
		Argument{Name: "wallet", Type: MustNewType("address")},
	)
	mail := mustStruct(t, "Mail",
		Argument{Name: "from", Type: person},
		Argument{Name: "to", Type: person},
		Argument{Name: "contents", Type: MustNewType("string")},
	)
	enc, err := mail.EIP712Type()
	require.NoError(t, err)
	assert.Equal(t, "Mail(Person from,Person to,string contents)Person(string name,address wallet)", enc)

	hash, err := mail.EIP712TypeHash()
	require.NoError(t, err)
	assert.Equal(t, "0xa0cedeb2dc280ba39b857546d74f5549c3a1d7bdc2dd96bf881f76108e23dac2", hash.Hex())
}

func TestEIP712TypeDependencyOrder(t *testing.T) {
	a := mustStruct(t, "Asset", Argument{Name: "token", Type: MustNewType("address")})
	z := mustStruct(t, "Zone", Argument{Name: "id", Type: MustNewType("uint8")})
	b := mustStruct(t, "Bid",
		Argument{Name: "zone", Type: z},
		Argument{Name: "asset", Type: a},
	)
	order := mustStruct(t, "Order",
		Argument{Name: "bids", Type: SliceOf(b)},
		Argument{Name: "assets", Type: ArrayOf(a, 2)},
	)
	enc, err := order.EIP712Type()
	require.NoError(t, err)
	assert.Equal(t, "Order(Bid[] bids,Asset[2] assets)"+
		"Asset(address token)"+
		"Bid(Zone zone,Asset asset)"+
		"Zone(uint8 id)", enc)
}

func TestEIP712TypeErrors(t *testing.T) {
	_, err := MustNewType("uint256").EIP712Type()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	anon, err := NewType("tuple", "", []ArgumentMarshaling{{Name: "x", Type: "uint8"}})
	require.NoError(t, err)
	outer := mustStruct(t, "Outer", Argument{Name: "inner", Type: anon})
	_, err = outer.EIP712Type()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	s1 := mustStruct(t, "S", Argument{Name: "x", Type: MustNewType("uint8")})
	s2 := mustStruct(t, "S", Argument{Name: "x", Type: MustNewType("uint16")})
	clash := mustStruct(t, "Clash", Argument{Name: "a", Type: s1}, Argument{Name: "b", Type: s2})
	_, err = clash.EIP712Type()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPackWord(t *testing.T) {
	word, err := PackWord(MustNewType("int8"), int8(-1))
	require.NoError(t, err)
	assert.Equal(t, "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", word.Hex())

	word, err = PackWord(MustNewType("bytes4"), [4]byte{0xa9, 0x05, 0x9c, 0xbb})
	require.NoError(t, err)
	assert.Equal(t, "0xa9059cbb00000000000000000000000000000000000000000000000000000000", word.Hex())

	_, err = PackWord(MustNewType("string"), "x")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestComponents(t *testing.T) {
	elems, err := Components(MustNewType("uint64[]"), []uint64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(1), uint64(2)}, elems)

	_, err = Components(MustNewType("uint64[3]"), []uint64{1, 2})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	person := mustStruct(t, "Person",
		Argument{Name: "name", Type: MustNewType("string")},
		Argument{Name: "age", Type: MustNewType("uint8")},
	)
	fields, err := Components(person, []any{"Bob", uint8(3)})
	require.NoError(t, err)
	assert.Len(t, fields, 2)

	_, err = Components(MustNewType("bool"), true)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
