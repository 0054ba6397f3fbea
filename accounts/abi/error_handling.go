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
)

var (
	// ErrInvalidArgument is returned when a value cannot be packed as the
	// requested ABI type, or when a type definition is malformed.
	ErrInvalidArgument = errors.New("abi: invalid argument")

	// ErrDataTooShort is returned when the input ends before a value it
	// declares.
	ErrDataTooShort = errors.New("abi: data too short")

	// ErrOffsetOutOfBounds is returned when a dynamic offset or length points
	// outside the input.
	ErrOffsetOutOfBounds = errors.New("abi: offset out of bounds")

	// ErrSelectorMismatch is returned when calldata or revert data does not
	// start with the expected 4-byte selector.
	ErrSelectorMismatch = errors.New("abi: selector mismatch")

	// errBadBool is returned when a boolean value is improperly encoded.
	errBadBool = errors.New("abi: improperly encoded boolean value")

	// errBadInt is returned when an integer word does not fit the declared width.
	errBadInt = errors.New("abi: integer value out of range for type")

	errBadPadding = errors.New("abi: non-zero padding")
)

// typeErr returns a formatted type casting error.
func typeErr(expected, got interface{}) error {
	return fmt.Errorf("%w: cannot use %T as type %v", ErrInvalidArgument, got, expected)
}
