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

package rlp

// ListIterator walks the elements of an encoded list without decoding them.
type ListIterator struct {
	data []byte
	next []byte
	err  error
}

// NewListIterator creates an iterator for the (list) represented by data.
func NewListIterator(data RawValue) (*ListIterator, error) {
	k, t, c, err := readKind(data)
	if err != nil {
		return nil, err
	}
	if k != List {
		return nil, ErrExpectedList
	}
	it := &ListIterator{
		data: data[t : t+c],
	}
	return it, nil
}

// Next forwards the iterator one step, returns true if it was not at end yet.
// Iteration stops at the first malformed element, see Err.
func (it *ListIterator) Next() bool {
	if len(it.data) == 0 || it.err != nil {
		return false
	}
	_, t, c, err := readKind(it.data)
	if err != nil {
		it.err = err
		it.next = nil
		return false
	}
	it.next = it.data[:t+c]
	it.data = it.data[t+c:]
	return true
}

// Value returns the encoding of the current element.
func (it *ListIterator) Value() []byte {
	return it.next
}

// Err returns the error that stopped iteration, if any.
func (it *ListIterator) Err() error {
	return it.err
}
