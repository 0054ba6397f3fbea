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
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/holiman/uint256"
)

var (
	// Common encoded values.
	// These are useful when implementing EncodeRLP.

	// EmptyString is the encoding of an empty string.
	EmptyString = []byte{0x80}
	// EmptyList is the encoding of an empty list.
	EmptyList = []byte{0xC0}
)

var (
	ErrNegativeBigInt   = errors.New("rlp: cannot encode negative big.Int")
	ErrNegativeInt      = errors.New("rlp: cannot encode negative integer")
	ErrIntTooLarge      = errors.New("rlp: integer exceeds 256 bits")
	ErrUnterminatedList = errors.New("rlp: unterminated list")
	ErrListMismatch     = errors.New("rlp: list end does not match innermost open list")
	ErrSizeMismatch     = errors.New("rlp: encoded size differs from precomputed size")
)

// Encodable is implemented by types that know their exact encoded size and
// can write themselves to an Encoder.
type Encodable interface {
	// EncodingSize returns the exact length of the value's RLP encoding.
	EncodingSize() int
	// EncodeRLP writes the value to w.
	EncodeRLP(w *Encoder)
}

// Encoder accumulates an RLP encoding.
//
// Lists can be written in two ways. When the content size is known up front,
// WriteListHeader emits the header immediately. Otherwise List/ListEnd record
// the header position and the header is inserted when the output is produced.
//
// Write errors are sticky: after the first failure all further writes are
// ignored and the error is reported by Bytes, WriteTo and Err.
//
// The zero value is ready for use.
type Encoder struct {
	buf      encBuffer
	open     []int // indexes of unterminated list headers
	err      error
	borrowed bool // buf.str was handed out by Bytes
}

// NewEncoder creates an empty growable encoder.
func NewEncoder() *Encoder {
	return new(Encoder)
}

// NewEncoderSize creates an encoder whose buffer holds exactly size bytes
// without growing. It is meant to be combined with precomputed sizes and
// WriteListHeader.
func NewEncoderSize(size int) *Encoder {
	return &Encoder{buf: encBuffer{str: make([]byte, 0, size)}}
}

// Reset clears the encoder so it can be reused.
func (w *Encoder) Reset() {
	if w.borrowed {
		w.buf.str = nil
		w.borrowed = false
	}
	w.buf.reset()
	w.open = w.open[:0]
	w.err = nil
}

// Err returns the first error encountered while writing.
func (w *Encoder) Err() error { return w.err }

// Len returns the number of bytes the output will have.
func (w *Encoder) Len() int { return w.buf.size() }

func (w *Encoder) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// WriteBytes encodes b as an RLP string.
func (w *Encoder) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}
	w.buf.writeBytes(b)
}

// WriteString encodes s as an RLP string.
func (w *Encoder) WriteString(s string) {
	if w.err != nil {
		return
	}
	w.buf.writeString(s)
}

// WriteBool encodes b as the integer 0 or 1.
func (w *Encoder) WriteBool(b bool) {
	if b {
		w.WriteUint64(1)
	} else {
		w.WriteUint64(0)
	}
}

// WriteUint64 encodes an unsigned integer.
func (w *Encoder) WriteUint64(i uint64) {
	if w.err != nil {
		return
	}
	w.buf.writeUint64(i)
}

// WriteInt64 encodes a non-negative signed integer.
func (w *Encoder) WriteInt64(i int64) {
	if i < 0 {
		w.fail(ErrNegativeInt)
		return
	}
	w.WriteUint64(uint64(i))
}

// WriteBigInt encodes a non-negative big integer of at most 256 bits.
// A nil value encodes as zero.
func (w *Encoder) WriteBigInt(i *big.Int) {
	if w.err != nil {
		return
	}
	if i == nil {
		w.buf.str = append(w.buf.str, 0x80)
		return
	}
	if i.Sign() == -1 {
		w.fail(ErrNegativeBigInt)
		return
	}
	bitlen := i.BitLen()
	if bitlen > 256 {
		w.fail(ErrIntTooLarge)
		return
	}
	if bitlen <= 64 {
		w.buf.writeUint64(i.Uint64())
		return
	}
	// Integer is larger than 64 bits, encode from i.Bits().
	// The minimal byte length is bitlen rounded up to the next
	// multiple of 8, divided by 8.
	length := ((bitlen + 7) & -8) >> 3
	w.buf.encodeStringHeader(length)
	w.buf.str = append(w.buf.str, make([]byte, length)...)
	index := length
	buf := w.buf.str[len(w.buf.str)-length:]
	for _, d := range i.Bits() {
		for j := 0; j < wordBytes && index > 0; j++ {
			index--
			buf[index] = byte(d)
			d >>= 8
		}
	}
}

// WriteUint256 encodes z. A nil value encodes as zero.
func (w *Encoder) WriteUint256(z *uint256.Int) {
	if w.err != nil {
		return
	}
	if z == nil {
		w.buf.str = append(w.buf.str, 0x80)
		return
	}
	bitlen := z.BitLen()
	if bitlen <= 64 {
		w.buf.writeUint64(z.Uint64())
		return
	}
	nBytes := byte((bitlen + 7) / 8)
	var b [33]byte
	binary.BigEndian.PutUint64(b[1:9], z[3])
	binary.BigEndian.PutUint64(b[9:17], z[2])
	binary.BigEndian.PutUint64(b[17:25], z[1])
	binary.BigEndian.PutUint64(b[25:33], z[0])
	b[32-nBytes] = 0x80 + nBytes
	w.buf.str = append(w.buf.str, b[32-nBytes:]...)
}

// WriteUintBytes encodes the big-endian unsigned integer held in b, stripping
// leading zero bytes. An all-zero or empty slice encodes as zero.
func (w *Encoder) WriteUintBytes(b []byte) {
	if w.err != nil {
		return
	}
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	b = b[i:]
	if len(b) > 32 {
		w.fail(ErrIntTooLarge)
		return
	}
	if len(b) == 0 {
		w.buf.str = append(w.buf.str, 0x80)
		return
	}
	w.buf.writeBytes(b)
}

// WriteRaw appends an already encoded value.
func (w *Encoder) WriteRaw(enc []byte) {
	if w.err != nil {
		return
	}
	w.buf.str = append(w.buf.str, enc...)
}

// WriteStringHeader writes the header of a string with the given content size.
// The caller must write exactly size bytes of content with WriteRaw.
func (w *Encoder) WriteStringHeader(size int) {
	if w.err != nil {
		return
	}
	w.buf.encodeStringHeader(size)
}

// WriteListHeader writes the header of a list whose encoded content is
// contentSize bytes long.
func (w *Encoder) WriteListHeader(contentSize int) {
	if w.err != nil {
		return
	}
	w.buf.encodeListHeader(contentSize)
}

// List starts a list of unknown size. It returns a handle that must be passed
// to ListEnd once the list content has been written.
func (w *Encoder) List() int {
	idx := w.buf.list()
	w.open = append(w.open, idx)
	return idx
}

// ListEnd finishes the list started by the List call that returned index.
// Lists must be finished innermost first.
func (w *Encoder) ListEnd(index int) {
	if len(w.open) == 0 || w.open[len(w.open)-1] != index {
		w.fail(ErrListMismatch)
		return
	}
	w.open = w.open[:len(w.open)-1]
	w.buf.listEnd(index)
}

func (w *Encoder) check() error {
	if w.err != nil {
		return w.err
	}
	if len(w.open) > 0 {
		return ErrUnterminatedList
	}
	return nil
}

// Bytes returns the encoded output. When no list headers had to be deferred
// the encoder's buffer is returned directly and the encoder stops using it.
func (w *Encoder) Bytes() ([]byte, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	if len(w.buf.lheads) == 0 {
		w.borrowed = true
		return w.buf.str, nil
	}
	return w.buf.makeBytes(), nil
}

// AppendTo appends the encoded output to dst.
func (w *Encoder) AppendTo(dst []byte) ([]byte, error) {
	if err := w.check(); err != nil {
		return dst, err
	}
	n := len(dst)
	dst = append(dst, make([]byte, w.buf.size())...)
	w.buf.copyTo(dst[n:])
	return dst, nil
}

// WriteTo writes the encoded output to out. It implements io.WriterTo.
func (w *Encoder) WriteTo(out io.Writer) (int64, error) {
	if err := w.check(); err != nil {
		return 0, err
	}
	return w.buf.writeTo(out)
}

// EncodeToBytes returns the RLP encoding of val. The output buffer is
// allocated once using val's precomputed size.
func EncodeToBytes(val Encodable) ([]byte, error) {
	size := val.EncodingSize()
	w := NewEncoderSize(size)
	val.EncodeRLP(w)
	out, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	if len(out) != size {
		return nil, ErrSizeMismatch
	}
	return out, nil
}

// Encode writes the RLP encoding of val to out.
func Encode(out io.Writer, val Encodable) error {
	buf := encBufferPool.Get().(*encBuffer)
	defer encBufferPool.Put(buf)
	buf.reset()

	w := Encoder{buf: *buf}
	val.EncodeRLP(&w)
	*buf = w.buf
	_, err := w.WriteTo(out)
	return err
}

// AppendUint64 appends the RLP encoding of i to b, and returns the resulting slice.
func AppendUint64(b []byte, i uint64) []byte {
	if i == 0 {
		return append(b, 0x80)
	} else if i < 128 {
		return append(b, byte(i))
	}
	var buf [9]byte
	n := putint(buf[1:], i)
	buf[0] = 0x80 + byte(n)
	return append(b, buf[:n+1]...)
}

const wordBytes = (32 << (uint64(^big.Word(0)) >> 63)) / 8
