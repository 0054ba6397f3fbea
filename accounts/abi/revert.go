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
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/Kr1ptal/ethers-go/common/hexutil"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/log"
)

var (
	// revertSelector is a special function selector for revert reason unpacking.
	revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

	// panicSelector is a special function selector for panic reason unpacking.
	panicSelector = crypto.Keccak256([]byte("Panic(uint256)"))[:4]

	stringArgs  = Arguments{{Name: "reason", Type: MustNewType("string")}}
	uint256Args = Arguments{{Name: "code", Type: MustNewType("uint256")}}
)

// ContractError is a decoded revert payload.
type ContractError interface {
	error
	// Selector returns the 4 byte selector the payload started with.
	Selector() [4]byte
}

// RevertError is the Error(string) revert emitted by require and revert.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string { return "execution reverted: " + e.Reason }

func (e *RevertError) Selector() [4]byte { return [4]byte(revertSelector) }

// PanicCode is the code carried by a Panic(uint256) revert.
type PanicCode uint64

// Panic codes emitted by the Solidity compiler.
// https://docs.soliditylang.org/en/latest/control-structures.html#panic-via-assert-and-error-via-require
const (
	PanicGeneric               PanicCode = 0x00
	PanicAssert                PanicCode = 0x01
	PanicArithmetic            PanicCode = 0x11
	PanicDivisionByZero        PanicCode = 0x12
	PanicEnumConversion        PanicCode = 0x21
	PanicStorageEncoding       PanicCode = 0x22
	PanicEmptyArrayPop         PanicCode = 0x31
	PanicArrayOutOfBounds      PanicCode = 0x32
	PanicOutOfMemory           PanicCode = 0x41
	PanicUninitializedFunction PanicCode = 0x51
)

// The reason strings follow ethers.js.
var panicReasons = map[PanicCode]string{
	PanicGeneric:               "generic panic",
	PanicAssert:                "assert(false)",
	PanicArithmetic:            "arithmetic underflow or overflow",
	PanicDivisionByZero:        "division or modulo by zero",
	PanicEnumConversion:        "enum overflow",
	PanicStorageEncoding:       "invalid encoded storage byte array accessed",
	PanicEmptyArrayPop:         "out-of-bounds array access; popping on an empty array",
	PanicArrayOutOfBounds:      "out-of-bounds access of an array or bytesN",
	PanicOutOfMemory:           "out of memory",
	PanicUninitializedFunction: "uninitialized function",
}

// Known reports whether c is one of the compiler's panic codes.
func (c PanicCode) Known() bool {
	_, ok := panicReasons[c]
	return ok
}

func (c PanicCode) String() string {
	if reason, ok := panicReasons[c]; ok {
		return reason
	}
	return fmt.Sprintf("unknown panic code: %#x", uint64(c))
}

// PanicError is the Panic(uint256) revert emitted on failed assertions and
// checked arithmetic. Value holds the raw code; Code is only meaningful when
// the value fits 64 bits.
type PanicError struct {
	Code  PanicCode
	Value *big.Int
}

func (e *PanicError) Error() string {
	if !e.Value.IsUint64() {
		return fmt.Sprintf("execution reverted: unknown panic code: %#x", e.Value)
	}
	return "execution reverted: " + e.Code.String()
}

func (e *PanicError) Selector() [4]byte { return [4]byte(panicSelector) }

// CustomError is a revert carrying a registered custom error.
type CustomError struct {
	Def  Error
	Args []any
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("execution reverted: %s%v", e.Def.Name, e.Args)
}

func (e *CustomError) Selector() [4]byte { return e.Def.Selector() }

// UnknownError wraps revert data no resolver recognised.
type UnknownError struct {
	Data []byte
}

func (e *UnknownError) Error() string {
	return "execution reverted: unknown error " + hexutil.Encode(e.Data)
}

func (e *UnknownError) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], e.Data)
	return sel
}

// ErrorResolver decodes revert data. It returns false when the data is not
// recognised; resolvers never fail loudly.
type ErrorResolver func(data []byte) (ContractError, bool)

// errorRegistry holds the process wide resolver list. Writers serialise on mu
// and publish a fresh slice; readers load the current slice without locking.
type errorRegistry struct {
	mu        sync.Mutex
	resolvers atomic.Pointer[[]ErrorResolver]
}

var registry = newErrorRegistry()

func newErrorRegistry() *errorRegistry {
	r := new(errorRegistry)
	builtin := []ErrorResolver{resolveRevert, resolvePanic}
	r.resolvers.Store(&builtin)
	return r
}

func (r *errorRegistry) snapshot() []ErrorResolver {
	return *r.resolvers.Load()
}

func (r *errorRegistry) add(fn ErrorResolver, front bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snapshot()
	next := make([]ErrorResolver, 0, len(cur)+1)
	if front {
		next = append(next, fn)
		next = append(next, cur...)
	} else {
		next = append(next, cur...)
		next = append(next, fn)
	}
	r.resolvers.Store(&next)
}

func (r *errorRegistry) lookup(data []byte) (ContractError, bool) {
	for _, fn := range r.snapshot() {
		if err, ok := fn(data); ok {
			return err, true
		}
	}
	return nil, false
}

// AppendErrorResolver adds fn after all registered resolvers.
func AppendErrorResolver(fn ErrorResolver) {
	registry.add(fn, false)
	log.Debug("Appended contract error resolver", "count", len(registry.snapshot()))
}

// PrependErrorResolver adds fn in front of all registered resolvers, including
// the built-in revert and panic decoders.
func PrependErrorResolver(fn ErrorResolver) {
	registry.add(fn, true)
	log.Debug("Prepended contract error resolver", "count", len(registry.snapshot()))
}

// RegisterError appends a resolver for the given custom error definitions.
func RegisterError(defs ...Error) {
	if len(defs) == 0 {
		return
	}
	registry.add(customResolver(defs), false)
	for _, def := range defs {
		log.Debug("Registered contract error", "sig", def.Sig, "selector", hexutil.Encode(def.ID[:4]))
	}
}

// LookupError runs the registered resolvers in order and returns the first
// match. Unrecognised data yields false.
func LookupError(data []byte) (ContractError, bool) {
	return registry.lookup(data)
}

// ResolveError is like LookupError but wraps unrecognised data in an
// *UnknownError.
func ResolveError(data []byte) ContractError {
	if err, ok := registry.lookup(data); ok {
		return err
	}
	return &UnknownError{Data: bytes.Clone(data)}
}

func resolveRevert(data []byte) (ContractError, bool) {
	if len(data) < 4 || !bytes.Equal(data[:4], revertSelector) {
		return nil, false
	}
	vals, err := stringArgs.Unpack(data[4:])
	if err != nil {
		return nil, false
	}
	return &RevertError{Reason: vals[0].(string)}, true
}

func resolvePanic(data []byte) (ContractError, bool) {
	if len(data) < 4 || !bytes.Equal(data[:4], panicSelector) {
		return nil, false
	}
	vals, err := uint256Args.Unpack(data[4:])
	if err != nil {
		return nil, false
	}
	value := vals[0].(*big.Int)
	code := PanicCode(^uint64(0))
	if value.IsUint64() {
		code = PanicCode(value.Uint64())
	}
	return &PanicError{Code: code, Value: value}, true
}

func customResolver(defs []Error) ErrorResolver {
	bySelector := make(map[[4]byte]Error, len(defs))
	for _, def := range defs {
		bySelector[def.Selector()] = def
	}
	return func(data []byte) (ContractError, bool) {
		if len(data) < 4 {
			return nil, false
		}
		def, ok := bySelector[[4]byte(data[:4])]
		if !ok {
			return nil, false
		}
		args, err := def.Unpack(data)
		if err != nil {
			return nil, false
		}
		return &CustomError{Def: def, Args: args}, true
	}
}

// UnpackRevert resolves the abi-encoded revert reason. According to the solidity
// spec https://solidity.readthedocs.io/en/latest/control-structures.html#revert,
// the provided revert reason is abi-encoded as if it were a call to function
// `Error(string)` or `Panic(uint256)`. So it's a special tool for it.
func UnpackRevert(data []byte) (string, error) {
	if err, ok := resolveRevert(data); ok {
		return err.(*RevertError).Reason, nil
	}
	if err, ok := resolvePanic(data); ok {
		p := err.(*PanicError)
		if !p.Value.IsUint64() {
			return fmt.Sprintf("unknown panic code: %#x", p.Value), nil
		}
		return p.Code.String(), nil
	}
	return "", errors.New("invalid data for unpacking")
}
