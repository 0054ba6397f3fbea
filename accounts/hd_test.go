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

package accounts

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

// Tests that HD derivation paths can be correctly parsed into our internal binary
// representation.
func TestHDPathParsing(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input  string
		output DerivationPath
	}{
		// Plain absolute derivation paths
		{"m/44'/60'/0'/0", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0}},
		{"m/44'/60'/0'/128", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 128}},
		{"m/44'/60'/0'/0'", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0x80000000 + 0}},
		{"m/44'/60'/0'/128'", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0x80000000 + 128}},
		{"m/2147483692/2147483708/2147483648/0", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0}},
		{"m/2147483692/2147483708/2147483648/2147483648", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0x80000000 + 0}},

		// Plain relative derivation paths
		{"0", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0, 0}},
		{"128", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0, 128}},
		{"0'", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0, 0x80000000 + 0}},
		{"128'", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0, 0x80000000 + 128}},
		{"2147483776", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0, 0x80000000 + 128}},

		// Hexadecimal absolute and relative derivation paths
		{"m/0x2C'/0x3c'/0x00'/0x00", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0}},
		{"0x80", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0, 128}},

		// Weird inputs just to ensure they work
		{"	m  /   44			'\n/\n   60	\n\n\t'   /\n0 ' /\t\t	0", DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0}},

		// Invalid derivation paths
		{"", nil},              // Empty relative derivation path
		{"m", nil},             // Empty absolute derivation path
		{"m/", nil},            // Missing last derivation component
		{"/44'/60'/0'/0", nil}, // Absolute path without m prefix, might be user error
		{"m/2147483648'", nil}, // Overflows 32 bit integer
		{"m/-1'", nil},         // Cannot contain negative number
	}
	for i, tt := range tests {
		if path, err := ParseDerivationPath(tt.input); !reflect.DeepEqual(path, tt.output) {
			t.Errorf("test %d: parse mismatch: have %v (%v), want %v", i, path, err, tt.output)
		} else if path == nil && err == nil {
			t.Errorf("test %d: nil path and error: %v", i, err)
		} else if err != nil && !errors.Is(err, ErrInvalidDerivationPath) {
			t.Errorf("test %d: wrong error: %v", i, err)
		}
	}
}

func TestHDPathString(t *testing.T) {
	t.Parallel()
	path := DerivationPath{0x80000000 + 44, 0x80000000 + 60, 0x80000000 + 0, 0, 7}
	if have, want := path.String(), "m/44'/60'/0'/0/7"; have != want {
		t.Fatalf("have %q, want %q", have, want)
	}
	parsed, err := ParseDerivationPath(path.String())
	if err != nil || !reflect.DeepEqual(parsed, path) {
		t.Fatalf("round trip failed: %v %v", parsed, err)
	}

	enc, err := json.Marshal(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(enc) != `"m/44'/60'/0'/0/7"` {
		t.Fatalf("wrong json: %s", enc)
	}
	var dec DerivationPath
	if err := json.Unmarshal(enc, &dec); err != nil || !reflect.DeepEqual(dec, path) {
		t.Fatalf("json round trip failed: %v %v", dec, err)
	}
}

func TestHDPathOffset(t *testing.T) {
	t.Parallel()
	for i, want := range []string{"m/44'/60'/0'/0/0", "m/44'/60'/0'/0/1", "m/44'/60'/0'/0/2"} {
		path, err := DefaultBaseDerivationPath.Offset(uint32(i))
		if err != nil {
			t.Fatal(err)
		}
		if have := path.String(); have != want {
			t.Errorf("offset %d: have %v, want %v", i, have, want)
		}
	}
	if DefaultBaseDerivationPath[4] != 0 {
		t.Fatal("base path modified")
	}

	hardened := DerivationPath{hardenedBit + 44, hardenedBit + 7}
	if path, err := hardened.Offset(3); err != nil || path.String() != "m/44'/10'" {
		t.Errorf("hardened offset: have %v (%v)", path, err)
	}
	top := DerivationPath{hardenedBit - 2}
	if _, err := top.Offset(1); err != nil {
		t.Errorf("offset to last index: %v", err)
	}
	for _, path := range []DerivationPath{top, nil} {
		if _, err := path.Offset(2); !errors.Is(err, ErrInvalidDerivationPath) {
			t.Errorf("%v: wrong error %v", path, err)
		}
	}
}

func TestHDPathOutOfRange(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"m/4294967296", "m/99999999999999999999", "m/2147483648'", "m/0x1z"} {
		if _, err := ParseDerivationPath(in); !errors.Is(err, ErrInvalidDerivationPath) {
			t.Errorf("%q: wrong error %v", in, err)
		}
	}
	if path, err := ParseDerivationPath("m/4294967295"); err != nil || path[0] != math.MaxUint32 {
		t.Errorf("largest normal index: %v (%v)", path, err)
	}
}
