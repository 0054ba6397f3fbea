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

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/holiman/uint256"
)

// EOL is returned when the end of the current list
// has been reached during decoding.
var EOL = errors.New("rlp: end of list")

var (
	ErrExpectedString   = errors.New("rlp: expected String or Byte")
	ErrExpectedList     = errors.New("rlp: expected List")
	ErrCanonInt         = errors.New("rlp: non-canonical integer format")
	ErrCanonSize        = errors.New("rlp: non-canonical size information")
	ErrElemTooLarge     = errors.New("rlp: element is larger than containing list")
	ErrValueTooLarge    = errors.New("rlp: value size exceeds available input length")
	ErrMoreThanOneValue = errors.New("rlp: input contains more than one value")
	ErrUintOverflow     = errors.New("rlp: uint overflow")
	ErrUint256Large     = errors.New("rlp: value too large for uint256")
	ErrNotInList        = errors.New("rlp: call of ListEnd outside of any list")
	ErrNotAtEOL         = errors.New("rlp: call of ListEnd not positioned at EOL")
	ErrListEndMismatch  = errors.New("rlp: ListEnd does not match innermost List")
	ErrUnclosedList     = errors.New("rlp: decoder has unclosed lists")

	errInvalidBool = errors.New("rlp: invalid boolean value, must be 0 or 1")
)

// Decodable is implemented by types that read themselves from a Decoder.
type Decodable interface {
	DecodeRLP(d *Decoder) error
}

// DecodeBytes parses RLP data from b into val. The input must contain
// exactly one value and no trailing data.
func DecodeBytes(b []byte, val Decodable) error {
	d := NewDecoder(b)
	if err := val.DecodeRLP(d); err != nil {
		return err
	}
	return d.Finish()
}

// Decoder reads RLP values from a byte slice. It keeps a cursor into the
// input and a stack of open lists.
//
// Byte slices returned by the Decoder point into the input.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	data  []byte
	pos   int
	stack []listFrame
}

// listFrame is an open list. Nested lists always have distinct content
// start offsets, so start identifies a frame.
type listFrame struct {
	start, end int
}

// NewDecoder creates a decoder reading from b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{data: b}
}

// Reset makes the decoder read from b.
func (d *Decoder) Reset(b []byte) {
	d.data = b
	d.pos = 0
	d.stack = d.stack[:0]
}

// Pos returns the offset of the cursor in the input.
func (d *Decoder) Pos() int { return d.pos }

// limit returns the end of the innermost open list, or of the input.
func (d *Decoder) limit() int {
	if len(d.stack) > 0 {
		return d.stack[len(d.stack)-1].end
	}
	return len(d.data)
}

// Kind returns the kind and content size of the next value in the input.
// Inside a list, EOL is returned when the list content is exhausted.
func (d *Decoder) Kind() (kind Kind, size uint64, err error) {
	kind, _, size, err = d.peek()
	return kind, size, err
}

func (d *Decoder) peek() (kind Kind, tagsize, size uint64, err error) {
	limit := d.limit()
	if d.pos >= limit {
		if len(d.stack) > 0 {
			return 0, 0, 0, EOL
		}
		return 0, 0, 0, io.EOF
	}
	kind, tagsize, size, err = readKind(d.data[d.pos:])
	if err != nil {
		return 0, 0, 0, err
	}
	if len(d.stack) > 0 && tagsize+size > uint64(limit-d.pos) {
		return 0, 0, 0, ErrElemTooLarge
	}
	return kind, tagsize, size, nil
}

// next consumes the next value and returns its content.
func (d *Decoder) next() (Kind, []byte, error) {
	kind, tagsize, size, err := d.peek()
	if err != nil {
		return 0, nil, err
	}
	start := d.pos + int(tagsize)
	end := start + int(size)
	d.pos = end
	return kind, d.data[start:end], nil
}

// Raw reads the next value including its header.
func (d *Decoder) Raw() ([]byte, error) {
	_, tagsize, size, err := d.peek()
	if err != nil {
		return nil, err
	}
	start := d.pos
	d.pos += int(tagsize + size)
	return d.data[start:d.pos], nil
}

// Bytes reads an RLP string and returns its content.
func (d *Decoder) Bytes() ([]byte, error) {
	kind, content, err := d.next()
	if err != nil {
		return nil, err
	}
	if kind == List {
		return nil, ErrExpectedString
	}
	return content, nil
}

// ReadBytes decodes the next RLP value into dst. The value must be a string
// of exactly len(dst) bytes.
func (d *Decoder) ReadBytes(dst []byte) error {
	kind, content, err := d.next()
	if err != nil {
		return err
	}
	if kind == List {
		return ErrExpectedString
	}
	if len(content) != len(dst) {
		return fmt.Errorf("rlp: input string of %d bytes for %d-byte target", len(content), len(dst))
	}
	copy(dst, content)
	return nil
}

// String reads an RLP string and returns its content as a Go string.
func (d *Decoder) String() (string, error) {
	b, err := d.Bytes()
	return string(b), err
}

// uint reads an integer of at most maxbits bits.
func (d *Decoder) uint(maxbits int) (uint64, error) {
	kind, content, err := d.next()
	if err != nil {
		return 0, err
	}
	switch kind {
	case Byte:
		if content[0] == 0 {
			return 0, ErrCanonInt
		}
		return uint64(content[0]), nil
	case String:
		if len(content) > maxbits/8 {
			return 0, ErrUintOverflow
		}
		if len(content) > 0 && content[0] == 0 {
			return 0, ErrCanonInt
		}
		var v uint64
		for _, b := range content {
			v = v<<8 | uint64(b)
		}
		return v, nil
	default:
		return 0, ErrExpectedString
	}
}

// Uint64 reads an RLP string of up to 8 bytes and returns
// its contents as an unsigned integer.
func (d *Decoder) Uint64() (uint64, error) {
	return d.uint(64)
}

// Uint32 is like Uint64 for 32-bit integers.
func (d *Decoder) Uint32() (uint32, error) {
	v, err := d.uint(32)
	return uint32(v), err
}

// Uint8 is like Uint64 for single-byte integers.
func (d *Decoder) Uint8() (uint8, error) {
	v, err := d.uint(8)
	return uint8(v), err
}

// Bool reads an RLP string of up to 1 byte and returns its contents
// as a boolean. If the input does not contain an RLP string, the
// returned error will be ErrExpectedString.
func (d *Decoder) Bool() (bool, error) {
	num, err := d.uint(8)
	if err != nil {
		return false, err
	}
	switch num {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errInvalidBool
	}
}

func (d *Decoder) intContent() ([]byte, error) {
	kind, content, err := d.next()
	if err != nil {
		return nil, err
	}
	switch kind {
	case Byte:
		if content[0] == 0 {
			return nil, ErrCanonInt
		}
	case String:
		if len(content) > 0 && content[0] == 0 {
			return nil, ErrCanonInt
		}
	default:
		return nil, ErrExpectedString
	}
	return content, nil
}

// BigInt decodes an arbitrary-size integer value.
func (d *Decoder) BigInt() (*big.Int, error) {
	content, err := d.intContent()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(content), nil
}

// Uint256 decodes the next value as a uint256.
func (d *Decoder) Uint256(dst *uint256.Int) error {
	content, err := d.intContent()
	if err != nil {
		return err
	}
	if len(content) > 32 {
		return ErrUint256Large
	}
	dst.SetBytes(content)
	return nil
}

// List starts decoding an RLP list. It returns the start position of the list
// content, which must be handed to ListEnd once all elements have been read.
func (d *Decoder) List() (start int, err error) {
	kind, tagsize, size, err := d.peek()
	if err != nil {
		return 0, err
	}
	if kind != List {
		return 0, ErrExpectedList
	}
	d.pos += int(tagsize)
	d.stack = append(d.stack, listFrame{start: d.pos, end: d.pos + int(size)})
	return d.pos, nil
}

// ListEnd returns to the enclosing list. start must be the value returned by
// the matching List call and the cursor must be at the end of the list.
func (d *Decoder) ListEnd(start int) error {
	if len(d.stack) == 0 {
		return ErrNotInList
	}
	top := d.stack[len(d.stack)-1]
	if top.start != start {
		return ErrListEndMismatch
	}
	if d.pos != top.end {
		return ErrNotAtEOL
	}
	d.stack = d.stack[:len(d.stack)-1]
	return nil
}

// MoreDataInList reports whether the current list has unread elements.
func (d *Decoder) MoreDataInList() bool {
	return len(d.stack) > 0 && d.pos < d.stack[len(d.stack)-1].end
}

// DecodeList reads a list, calling fn to decode its content. The list is
// always closed; an error from fn takes precedence over the close error.
func (d *Decoder) DecodeList(fn func(*Decoder) error) error {
	start, err := d.List()
	if err != nil {
		return err
	}
	if err := fn(d); err != nil {
		d.abortList(start)
		return err
	}
	return d.ListEnd(start)
}

// DecodeListOrNil is like DecodeList, but an empty list is reported by
// returning false without calling fn.
func (d *Decoder) DecodeListOrNil(fn func(*Decoder) error) (bool, error) {
	kind, _, size, err := d.peek()
	if err != nil {
		return false, err
	}
	if kind == List && size == 0 {
		d.pos++
		return false, nil
	}
	return true, d.DecodeList(fn)
}

// abortList drops the list frame opened at start, and any frames inside it,
// and moves the cursor past it.
func (d *Decoder) abortList(start int) {
	for i := len(d.stack) - 1; i >= 0; i-- {
		if d.stack[i].start == start {
			d.pos = d.stack[i].end
			d.stack = d.stack[:i]
			return
		}
	}
}

// Finish checks that all lists have been closed and the input is fully consumed.
func (d *Decoder) Finish() error {
	if len(d.stack) > 0 {
		return ErrUnclosedList
	}
	if d.pos < len(d.data) {
		return ErrMoreThanOneValue
	}
	return nil
}
