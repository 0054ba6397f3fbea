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
	"bytes"
	"fmt"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/crypto"
)

// Error is a custom error definition, as declared with `error Name(...)` in
// Solidity.
type Error struct {
	Name   string
	Inputs Arguments
	str    string

	// Sig contains the string signature according to the ABI spec.
	// e.g. error foo(uint32 a, int b) = "foo(uint32,int256)"
	Sig string

	// ID is the keccak256 hash of Sig; the first 4 bytes are the selector.
	ID common.Hash
}

// NewError creates a new Error instance with the given name and inputs.
func NewError(name string, inputs Arguments) Error {
	str, sig := describe("error", name, inputs)
	return Error{
		Name:   name,
		Inputs: inputs,
		str:    str,
		Sig:    sig,
		ID:     common.BytesToHash(crypto.Keccak256([]byte(sig))),
	}
}

// NewErrorFromSignature parses "Name(type,...)" into an error definition.
func NewErrorFromSignature(sig string) (Error, error) {
	sel, err := ParseSelector(sig)
	if err != nil {
		return Error{}, err
	}
	inputs, err := sel.arguments()
	if err != nil {
		return Error{}, err
	}
	return NewError(sel.Name, inputs), nil
}

// String returns the string representation of the error.
func (e Error) String() string {
	return e.str
}

// Selector returns the 4 byte error selector.
func (e Error) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], e.ID[:4])
	return sel
}

// Pack encodes the error as revert data.
func (e Error) Pack(args ...any) ([]byte, error) {
	return e.Inputs.packWithPrefix(e.ID[:4], args)
}

// Unpack decodes revert data into the error's input arguments. It fails if
// the data does not carry this error's selector.
func (e Error) Unpack(data []byte) ([]any, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: insufficient data for unpacking: have %d, want at least 4", ErrDataTooShort, len(data))
	}
	if !bytes.Equal(data[:4], e.ID[:4]) {
		return nil, fmt.Errorf("%w: have %#x want %#x", ErrSelectorMismatch, data[:4], e.ID[:4])
	}
	return e.Inputs.Unpack(data[4:])
}
