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

package crypto

import (
	"hash"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/rlp"
	"golang.org/x/crypto/sha3"
)

// KeccakState is a legacy Keccak-256 hasher that can also be read from. Read
// squeezes the output without copying the state, so the hasher must be reset
// before it is used again.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// NewKeccakState returns a fresh Keccak-256 hasher.
func NewKeccakState() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// Keccak256 hashes the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	h := Keccak256Hash(data...)
	return h[:]
}

// Keccak256Hash hashes the concatenation of data into a common.Hash.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := NewKeccakState()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(h[:])
	return h
}

// CreateAddress returns the address of a contract deployed by sender with the
// given account nonce: keccak256(rlp([sender, nonce]))[12:].
func CreateAddress(sender common.Address, nonce uint64) common.Address {
	size := rlp.BytesSize(sender[:]) + rlp.IntSize(nonce)
	enc := rlp.NewEncoderSize(rlp.ListSize(size))
	enc.WriteListHeader(size)
	enc.WriteBytes(sender[:])
	enc.WriteUint64(nonce)
	// Both fields have a known size, the encoder cannot fail.
	data, _ := enc.Bytes()
	return common.BytesToAddress(Keccak256(data)[12:])
}

// CreateAddress2 returns the EIP-1014 address of a contract deployed by sender
// through CREATE2: keccak256(0xff ++ sender ++ salt ++ initHash)[12:].
func CreateAddress2(sender common.Address, salt [32]byte, initHash []byte) common.Address {
	return common.BytesToAddress(Keccak256([]byte{0xff}, sender[:], salt[:], initHash)[12:])
}
