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
	"sync"
)

// Tuple is implemented by Go values that pack as an ABI tuple. The returned
// values must be in field order.
type Tuple interface {
	TupleValues() []any
}

var (
	structMu sync.RWMutex
	structs  = make(map[string]func([]any) (any, error))
)

// RegisterStruct associates a decode function with a struct name as it
// appears in a JSON ABI's internalType ("struct Name", with any "." removed).
// Types parsed afterwards decode that tuple through fn instead of returning
// []any.
func RegisterStruct(name string, fn func([]any) (any, error)) {
	structMu.Lock()
	defer structMu.Unlock()
	if fn == nil {
		delete(structs, name)
		return
	}
	structs[name] = fn
}

func lookupStruct(name string) func([]any) (any, error) {
	structMu.RLock()
	defer structMu.RUnlock()
	return structs[name]
}
