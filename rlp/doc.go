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

/*
Package rlp implements the RLP serialization format.

The purpose of RLP (Recursive Linear Prefix) is to encode arbitrarily nested arrays of
binary data, and RLP is the main encoding method used to serialize objects in Ethereum.
The only purpose of RLP is to encode structure; encoding specific atomic data types (eg.
strings, ints, floats) is left up to higher-order protocols. In Ethereum integers must be
represented in big endian binary form with no leading zeroes (thus making the integer
value zero equivalent to the empty string).

RLP values are distinguished by a type tag. The type tag precedes the value in the input
stream and defines the size and kind of the bytes that follow.

# Encoding

Values are written explicitly through an Encoder. Byte strings, Go strings and
unsigned integers (uint64, *big.Int, *uint256.Int) encode as RLP strings. Zero always
encodes as the empty string 0x80. Negative numbers and integers wider than 256 bits
are rejected.

Lists are written either with a known content size (WriteListHeader), which is the
fast path used together with the size helpers (BytesSize, IntSize, ListSize, ...), or
with List/ListEnd when the size is not known in advance. In the latter case the
encoder records where the header belongs and inserts it when output is produced.

Types implementing Encodable report their exact encoded size, which lets
EncodeToBytes allocate the output once.

# Decoding

A Decoder walks the input with a cursor. List returns the content start position of the
list it enters and ListEnd must be called with that position once the content has been read.
Integer decoding enforces canonical form: leading zero bytes and single bytes encoded as
strings are rejected with ErrCanonInt and ErrCanonSize.
*/
package rlp
