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
	"strings"
)

// URL locates the key behind a signer: "keystore:///path/to/file" for key
// files, "hd://m/44'/60'/0'/0/0" for mnemonic derived keys. Raw keys have the
// zero URL. Paths are kept verbatim, without escaping.
type URL struct {
	Scheme string // key backend, see the Scheme constants of keystore and hdwallet
	Path   string // backend specific location of the key
}

// ParseURL splits a scheme://path string.
func ParseURL(url string) (URL, error) {
	scheme, path, ok := strings.Cut(url, "://")
	if !ok || scheme == "" {
		return URL{}, errors.New("protocol scheme missing")
	}
	return URL{Scheme: scheme, Path: path}, nil
}

func (u URL) String() string {
	if u.Scheme == "" {
		return u.Path
	}
	return u.Scheme + "://" + u.Path
}

// TerminalString shortens long key file paths in log output.
func (u URL) TerminalString() string {
	s := u.String()
	if len(s) <= 32 {
		return s
	}
	return s[:31] + ".."
}

// MarshalText encodes the URL as scheme://path.
func (u URL) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText parses a scheme://path string. The empty string decodes to
// the zero URL of raw keys.
func (u *URL) UnmarshalText(input []byte) error {
	if len(input) == 0 {
		*u = URL{}
		return nil
	}
	parsed, err := ParseURL(string(input))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
