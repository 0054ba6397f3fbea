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
	"bytes"
	"errors"
	"io"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderKind(t *testing.T) {
	tests := []struct {
		input    string
		wantKind Kind
		wantLen  uint64
		wantErr  error
	}{
		{"00", Byte, 1, nil},
		{"01", Byte, 1, nil},
		{"7F", Byte, 1, nil},
		{"80", String, 0, nil},
		{"B7" + repeatHex("00", 55), String, 55, nil},
		{"B838" + repeatHex("00", 56), String, 56, nil},
		{"C0", List, 0, nil},
		{"C8" + repeatHex("00", 8), List, 8, nil},
		{"F838" + repeatHex("00", 56), List, 56, nil},

		// non-canonical sizes
		{"8100", 0, 0, ErrCanonSize},
		{"8101", 0, 0, ErrCanonSize},
		{"817F", 0, 0, ErrCanonSize},
		{"B800", 0, 0, ErrCanonSize},
		{"B837", 0, 0, ErrCanonSize},
		{"B90037" + repeatHex("00", 0x37), 0, 0, ErrCanonSize},
		{"F800", 0, 0, ErrCanonSize},

		// truncated input
		{"", 0, 0, io.EOF},
		{"81", 0, 0, ErrValueTooLarge},
		{"B8", 0, 0, io.ErrUnexpectedEOF},
		{"B9FF", 0, 0, io.ErrUnexpectedEOF},
		{"C1", 0, 0, ErrValueTooLarge},
		{"F90100", 0, 0, ErrValueTooLarge},
	}
	for i, test := range tests {
		d := NewDecoder(unhex(test.input))
		kind, size, err := d.Kind()
		if !errors.Is(err, test.wantErr) {
			t.Errorf("test %d (%s): error mismatch: got %v, want %v", i, test.input, err, test.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if kind != test.wantKind || size != test.wantLen {
			t.Errorf("test %d (%s): got %v/%d, want %v/%d", i, test.input, kind, size, test.wantKind, test.wantLen)
		}
	}
}

func repeatHex(b string, n int) string {
	return string(bytes.Repeat([]byte(b), n))
}

func TestDecoderUint(t *testing.T) {
	tests := []struct {
		input string
		want  uint64
		err   error
	}{
		{"05", 5, nil},
		{"80", 0, nil},
		{"7F", 0x7F, nil},
		{"8180", 0x80, nil},
		{"820400", 0x400, nil},
		{"88FFFFFFFFFFFFFFFF", 0xFFFFFFFFFFFFFFFF, nil},

		{"00", 0, ErrCanonInt},
		{"820004", 0, ErrCanonInt},
		{"8105", 0, ErrCanonSize},
		{"89FFFFFFFFFFFFFFFFFF", 0, ErrUintOverflow},
		{"C0", 0, ErrExpectedString},
		{"", 0, io.EOF},
	}
	for _, test := range tests {
		v, err := NewDecoder(unhex(test.input)).Uint64()
		if !errors.Is(err, test.err) {
			t.Errorf("input %s: error mismatch: got %v, want %v", test.input, err, test.err)
			continue
		}
		if err == nil && v != test.want {
			t.Errorf("input %s: got %d, want %d", test.input, v, test.want)
		}
	}

	// narrower widths
	if _, err := NewDecoder(unhex("820100")).Uint8(); err != ErrUintOverflow {
		t.Errorf("Uint8 of 256: got %v, want ErrUintOverflow", err)
	}
	if v, err := NewDecoder(unhex("84FFFFFFFF")).Uint32(); err != nil || v != 0xFFFFFFFF {
		t.Errorf("Uint32: got %d, %v", v, err)
	}
}

func TestDecoderBool(t *testing.T) {
	for _, test := range []struct {
		input string
		want  bool
		err   error
	}{
		{"01", true, nil},
		{"80", false, nil},
		{"02", false, errInvalidBool},
		{"00", false, ErrCanonInt},
		{"C0", false, ErrExpectedString},
	} {
		v, err := NewDecoder(unhex(test.input)).Bool()
		if err != test.err || v != test.want {
			t.Errorf("input %s: got %v, %v; want %v, %v", test.input, v, err, test.want, test.err)
		}
	}
}

func TestDecoderBigInt(t *testing.T) {
	v, err := NewDecoder(unhex("8F102030405060708090A0B0C0D0E0F2")).BigInt()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Cmp(new(big.Int).SetBytes(unhex("102030405060708090A0B0C0D0E0F2"))))

	v, err = NewDecoder(unhex("80")).BigInt()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	_, err = NewDecoder(unhex("00")).BigInt()
	assert.Equal(t, ErrCanonInt, err)
	_, err = NewDecoder(unhex("820001")).BigInt()
	assert.Equal(t, ErrCanonInt, err)
}

func TestDecoderUint256(t *testing.T) {
	var z uint256.Int
	require.NoError(t, NewDecoder(unhex("A0"+repeatHex("FF", 32))).Uint256(&z))
	assert.Equal(t, 256, z.BitLen())

	err := NewDecoder(unhex("A1" + "01" + repeatHex("00", 32))).Uint256(&z)
	assert.Equal(t, ErrUint256Large, err)

	err = NewDecoder(unhex("8200FF")).Uint256(&z)
	assert.Equal(t, ErrCanonInt, err)
}

func TestDecoderBytes(t *testing.T) {
	d := NewDecoder(unhex("83010203"))
	var arr [3]byte
	require.NoError(t, d.ReadBytes(arr[:]))
	assert.Equal(t, [3]byte{1, 2, 3}, arr)

	d = NewDecoder(unhex("820102"))
	assert.Error(t, d.ReadBytes(arr[:]))

	d = NewDecoder(unhex("C0"))
	_, err := d.Bytes()
	assert.Equal(t, ErrExpectedString, err)

	s, err := NewDecoder(unhex("83646F67")).String()
	require.NoError(t, err)
	assert.Equal(t, "dog", s)

	raw, err := NewDecoder(unhex("C3010203FF")).Raw()
	require.NoError(t, err)
	assert.Equal(t, unhex("C3010203"), raw)
}

func TestDecoderList(t *testing.T) {
	d := NewDecoder(unhex("C883646F6783676F6483636174"))
	end, err := d.List()
	require.NoError(t, err)
	var words []string
	for d.MoreDataInList() {
		s, err := d.String()
		require.NoError(t, err)
		words = append(words, s)
	}
	_, err = d.String()
	assert.Equal(t, EOL, err)
	require.NoError(t, d.ListEnd(end))
	require.NoError(t, d.Finish())
	assert.Equal(t, []string{"dog", "god", "cat"}, words)
}

func TestDecoderListErrors(t *testing.T) {
	t.Run("expected list", func(t *testing.T) {
		_, err := NewDecoder(unhex("83010203")).List()
		assert.Equal(t, ErrExpectedList, err)
	})
	t.Run("element too large", func(t *testing.T) {
		d := NewDecoder(unhex("C1820102"))
		_, err := d.List()
		require.NoError(t, err)
		_, err = d.Bytes()
		assert.Equal(t, ErrElemTooLarge, err)
	})
	t.Run("not at EOL", func(t *testing.T) {
		d := NewDecoder(unhex("C20102"))
		end, err := d.List()
		require.NoError(t, err)
		_, err = d.Uint64()
		require.NoError(t, err)
		assert.Equal(t, ErrNotAtEOL, d.ListEnd(end))
	})
	t.Run("mismatched end", func(t *testing.T) {
		d := NewDecoder(unhex("C3C20102"))
		outer, err := d.List()
		require.NoError(t, err)
		_, err = d.List()
		require.NoError(t, err)
		assert.Equal(t, ErrListEndMismatch, d.ListEnd(outer))
	})
	t.Run("outside list", func(t *testing.T) {
		assert.Equal(t, ErrNotInList, NewDecoder(unhex("01")).ListEnd(1))
	})
	t.Run("finished twice", func(t *testing.T) {
		d := NewDecoder(unhex("C3C0C0C0"))
		outer, err := d.List()
		require.NoError(t, err)
		inner, err := d.List()
		require.NoError(t, err)
		require.NoError(t, d.ListEnd(inner))
		assert.Equal(t, ErrListEndMismatch, d.ListEnd(inner))
		_ = outer
	})
	t.Run("finished twice at shared end", func(t *testing.T) {
		// [[1]]: the inner list ends at the same offset as the outer one.
		d := NewDecoder(unhex("C2C101"))
		outer, err := d.List()
		require.NoError(t, err)
		inner, err := d.List()
		require.NoError(t, err)
		require.NotEqual(t, outer, inner)
		v, err := d.Uint64()
		require.NoError(t, err)
		require.Equal(t, uint64(1), v)
		require.NoError(t, d.ListEnd(inner))
		assert.Equal(t, ErrListEndMismatch, d.ListEnd(inner))
		assert.Equal(t, ErrUnclosedList, d.Finish())
		require.NoError(t, d.ListEnd(outer))
		require.NoError(t, d.Finish())
	})
	t.Run("unclosed", func(t *testing.T) {
		d := NewDecoder(unhex("C0"))
		_, err := d.List()
		require.NoError(t, err)
		assert.Equal(t, ErrUnclosedList, d.Finish())
	})
	t.Run("trailing data", func(t *testing.T) {
		d := NewDecoder(unhex("0102"))
		_, err := d.Uint64()
		require.NoError(t, err)
		assert.Equal(t, ErrMoreThanOneValue, d.Finish())
	})
}

func TestDecodeListScoped(t *testing.T) {
	errStop := errors.New("stop")
	d := NewDecoder(unhex("C2010203"))
	err := d.DecodeList(func(d *Decoder) error {
		if _, err := d.Uint64(); err != nil {
			return err
		}
		return errStop
	})
	assert.Equal(t, errStop, err)
	// The cursor must be positioned after the aborted list.
	v, err := d.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
	require.NoError(t, d.Finish())

	called := false
	d = NewDecoder(unhex("C0"))
	present, err := d.DecodeListOrNil(func(*Decoder) error { called = true; return nil })
	require.NoError(t, err)
	assert.False(t, present)
	assert.False(t, called)
	require.NoError(t, d.Finish())

	d = NewDecoder(unhex("C101"))
	present, err = d.DecodeListOrNil(func(d *Decoder) error {
		called = true
		_, err := d.Uint64()
		return err
	})
	require.NoError(t, err)
	assert.True(t, present)
	assert.True(t, called)
}

func TestDecodeBytesFinish(t *testing.T) {
	var rec testRecord
	err := DecodeBytes(unhex("C70183646F67C08001"), &rec)
	assert.Equal(t, ErrMoreThanOneValue, err)
}
