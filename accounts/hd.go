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
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// hardenedBit marks a hardened BIP-32 child index.
const hardenedBit = 0x80000000

// DefaultRootDerivationPath is m/44'/60'/0'/0, the Ethereum BIP-44 prefix that
// relative paths are appended to.
var DefaultRootDerivationPath = DerivationPath{hardenedBit + 44, hardenedBit + 60, hardenedBit + 0, 0}

// DefaultBaseDerivationPath is m/44'/60'/0'/0/0, the first account. Further
// accounts increment the last component.
var DefaultBaseDerivationPath = DerivationPath{hardenedBit + 44, hardenedBit + 60, hardenedBit + 0, 0, 0}

// DerivationPath is a BIP-32 key path, m / purpose' / coin_type' / account' /
// change / address_index for BIP-44 wallets. Hardened components carry
// hardenedBit.
type DerivationPath []uint32

// ParseDerivationPath parses an absolute path starting with "m/" or a path
// relative to DefaultRootDerivationPath. Components are decimal or 0x-hex and
// a trailing ' hardens them; whitespace is ignored.
func ParseDerivationPath(path string) (DerivationPath, error) {
	components := strings.Split(path, "/")
	var result DerivationPath
	switch strings.TrimSpace(components[0]) {
	case "":
		return nil, fmt.Errorf("%w: ambiguous path, use 'm/' prefix for absolute paths, or no leading '/' for relative ones", ErrInvalidDerivationPath)
	case "m":
		components = components[1:]
	default:
		result = append(result, DefaultRootDerivationPath...)
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidDerivationPath)
	}
	for _, c := range components {
		index, err := parsePathComponent(c)
		if err != nil {
			return nil, err
		}
		result = append(result, index)
	}
	return result, nil
}

func parsePathComponent(c string) (uint32, error) {
	c = strings.TrimSpace(c)
	var index uint32
	if rest, ok := strings.CutSuffix(c, "'"); ok {
		index, c = hardenedBit, strings.TrimSpace(rest)
	}
	limit := uint64(math.MaxUint32 - index)
	n, err := strconv.ParseUint(c, 0, 64)
	switch {
	case strings.HasPrefix(c, "-"):
		return 0, fmt.Errorf("%w: negative component %s", ErrInvalidDerivationPath, c)
	case err != nil && !errors.Is(err, strconv.ErrRange):
		return 0, fmt.Errorf("%w: invalid component %q", ErrInvalidDerivationPath, c)
	case err != nil || n > limit:
		kind := "normal"
		if index != 0 {
			kind = "hardened"
		}
		return 0, fmt.Errorf("%w: component %s out of %s range [0, %d]", ErrInvalidDerivationPath, c, kind, limit)
	}
	return index + uint32(n), nil
}

// String returns the canonical form, e.g. m/44'/60'/0'/0/7.
func (path DerivationPath) String() string {
	b := []byte{'m'}
	for _, c := range path {
		b = append(b, '/')
		b = strconv.AppendUint(b, uint64(c&^hardenedBit), 10)
		if c&hardenedBit != 0 {
			b = append(b, '\'')
		}
	}
	return string(b)
}

// MarshalText encodes the path in its canonical form.
func (path DerivationPath) MarshalText() ([]byte, error) {
	return []byte(path.String()), nil
}

// UnmarshalText parses a path with ParseDerivationPath.
func (path *DerivationPath) UnmarshalText(input []byte) error {
	parsed, err := ParseDerivationPath(string(input))
	if err != nil {
		return err
	}
	*path = parsed
	return nil
}

// Offset returns a copy of path with n added to its last component, the
// address index of a BIP-44 path. The hardened flag of the component is kept.
func (path DerivationPath) Offset(n uint32) (DerivationPath, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidDerivationPath)
	}
	last := path[len(path)-1]
	flag, index := last&hardenedBit, last&^hardenedBit
	if uint64(index)+uint64(n) >= hardenedBit {
		return nil, fmt.Errorf("%w: index %d+%d overflows %v", ErrInvalidDerivationPath, index, n, path)
	}
	next := append(DerivationPath(nil), path...)
	next[len(next)-1] = flag | (index + n)
	return next, nil
}
