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

package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Kr1ptal/ethers-go/accounts/abi"
)

// parseStructTypes builds struct types from declarations such as
// "Mail(Person from,Person to,string contents)". A declaration may use the
// structs declared before it as field types. The last declaration is the
// returned primary type.
func parseStructTypes(decls []string) (abi.Type, error) {
	if len(decls) == 0 {
		return abi.Type{}, fmt.Errorf("%w: no struct declaration", errBadValue)
	}
	var (
		structs = make(map[string]abi.Type, len(decls))
		last    abi.Type
	)
	for _, decl := range decls {
		decl = strings.TrimSpace(decl)
		open := strings.IndexByte(decl, '(')
		if open <= 0 || !strings.HasSuffix(decl, ")") {
			return abi.Type{}, fmt.Errorf("%w: malformed struct %q", errBadValue, decl)
		}
		name := decl[:open]
		if _, ok := structs[name]; ok {
			return abi.Type{}, fmt.Errorf("%w: struct %s declared twice", errBadValue, name)
		}
		var fields abi.Arguments
		if body := strings.TrimSpace(decl[open+1 : len(decl)-1]); body != "" {
			for _, member := range strings.Split(body, ",") {
				parts := strings.Fields(member)
				if len(parts) != 2 {
					return abi.Type{}, fmt.Errorf("%w: malformed member %q of %s", errBadValue, member, name)
				}
				typ, err := resolveType(parts[0], structs)
				if err != nil {
					return abi.Type{}, err
				}
				fields = append(fields, abi.Argument{Name: parts[1], Type: typ})
			}
		}
		t, err := abi.NewStructType(name, fields, nil)
		if err != nil {
			return abi.Type{}, err
		}
		structs[name] = t
		last = t
	}
	return last, nil
}

// resolveType parses an elementary or struct type with optional array
// suffixes, e.g. "Person[2][]".
func resolveType(name string, structs map[string]abi.Type) (abi.Type, error) {
	base, suffix, _ := strings.Cut(name, "[")
	if suffix != "" {
		suffix = "[" + suffix
	}
	t, ok := structs[base]
	if !ok {
		var err error
		if t, err = abi.NewType(base, "", nil); err != nil {
			return abi.Type{}, err
		}
	}
	for suffix != "" {
		end := strings.IndexByte(suffix, ']')
		if suffix[0] != '[' || end < 0 {
			return abi.Type{}, fmt.Errorf("%w: malformed type %q", errBadValue, name)
		}
		if size := suffix[1:end]; size == "" {
			t = abi.SliceOf(t)
		} else {
			n, err := strconv.Atoi(size)
			if err != nil || n <= 0 {
				return abi.Type{}, fmt.Errorf("%w: malformed type %q", errBadValue, name)
			}
			t = abi.ArrayOf(t, n)
		}
		suffix = suffix[end+1:]
	}
	return t, nil
}

// parseTypedMessage converts a JSON object into the field values of t.
func parseTypedMessage(t abi.Type, message string) (any, error) {
	return parseJSONValue(t, json.RawMessage(message))
}
