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

// Package abi implements the Ethereum ABI (Application Binary
// Interface).
//
// Values are packed and unpacked without reflection. Elementary types map to
// Go values as follows: bool to bool, uint8..uint64 and int8..int64 to the
// matching Go integer, wider integers to *big.Int, address to common.Address,
// bytesN and bytes to []byte, string to string. Arrays and slices are []any,
// tuples are []any in field order unless the tuple type carries a decode
// function (see NewStructType and RegisterStruct).
//
// Packing accepts the same representations plus the usual conversions: any Go
// integer or *uint256.Int for integer types, common.Hash for bytes32, typed
// slices for arrays and values implementing Tuple for tuples.
package abi
