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
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Argument holds the name of the argument and the corresponding type.
// Types are used when packing and testing arguments.
type Argument struct {
	Name    string
	Type    Type
	Indexed bool // indexed is only used by events
}

type Arguments []Argument

type ArgumentMarshaling struct {
	Name         string
	Type         string
	InternalType string
	Components   []ArgumentMarshaling
	Indexed      bool
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (argument *Argument) UnmarshalJSON(data []byte) error {
	var arg ArgumentMarshaling
	err := json.Unmarshal(data, &arg)
	if err != nil {
		return fmt.Errorf("argument json err: %v", err)
	}

	argument.Type, err = NewType(arg.Type, arg.InternalType, arg.Components)
	if err != nil {
		return err
	}
	argument.Name = arg.Name
	argument.Indexed = arg.Indexed

	return nil
}

// NewArguments builds an argument list from bare type spellings, naming the
// arguments by position.
func NewArguments(types ...string) (Arguments, error) {
	args := make(Arguments, len(types))
	for i, t := range types {
		typ, err := NewType(t, "", nil)
		if err != nil {
			return nil, err
		}
		args[i] = Argument{Name: fmt.Sprintf("arg%d", i), Type: typ}
	}
	return args, nil
}

// NonIndexed returns the arguments with indexed arguments filtered out.
func (arguments Arguments) NonIndexed() Arguments {
	var ret []Argument
	for _, arg := range arguments {
		if !arg.Indexed {
			ret = append(ret, arg)
		}
	}
	return ret
}

// Types returns the canonical type list, e.g. "uint256,string".
func (arguments Arguments) Types() string {
	types := make([]string, len(arguments))
	for i, arg := range arguments {
		types[i] = arg.Type.String()
	}
	return strings.Join(types, ",")
}

// TupleType returns the arguments as a single anonymous tuple type.
func (arguments Arguments) TupleType() Type {
	t := Type{T: TupleTy, stringKind: "(" + arguments.Types() + ")"}
	for i := range arguments {
		elem := arguments[i].Type
		t.TupleElems = append(t.TupleElems, &elem)
		t.TupleRawNames = append(t.TupleRawNames, arguments[i].Name)
	}
	return t
}

func (arguments Arguments) elemTypes() []*Type {
	types := make([]*Type, len(arguments))
	for i := range arguments {
		types[i] = &arguments[i].Type
	}
	return types
}

// Unpack performs the operation hexdata -> Go format.
func (arguments Arguments) Unpack(data []byte) ([]any, error) {
	nonIndexed := arguments.NonIndexed()
	if len(data) == 0 {
		if len(nonIndexed) != 0 {
			return nil, errors.New("abi: attempting to unmarshal an empty string while arguments are expected")
		}
		return make([]any, 0), nil
	}
	return decodeElems(data, nonIndexed.elemTypes())
}

// UnpackIntoMap performs the operation hexdata -> mapping of argument name to argument value.
func (arguments Arguments) UnpackIntoMap(v map[string]any, data []byte) error {
	if v == nil {
		return errors.New("abi: cannot unpack into a nil map")
	}
	values, err := arguments.Unpack(data)
	if err != nil {
		return err
	}
	for i, arg := range arguments.NonIndexed() {
		v[arg.Name] = values[i]
	}
	return nil
}

// PackedSize returns the exact length of Pack(args...), validating the values
// along the way.
func (arguments Arguments) PackedSize(args ...any) (int, error) {
	if err := arguments.checkCount(args); err != nil {
		return 0, err
	}
	return elemsSize(arguments.elemTypes(), args)
}

// Pack performs the operation Go format -> Hexdata.
func (arguments Arguments) Pack(args ...any) ([]byte, error) {
	return arguments.packWithPrefix(nil, args)
}

// packWithPrefix allocates the prefix and the encoded arguments in one buffer.
func (arguments Arguments) packWithPrefix(prefix []byte, args []any) ([]byte, error) {
	size, err := arguments.PackedSize(args...)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(prefix)+size)
	copy(buf, prefix)
	n, err := encodeElems(buf[len(prefix):], arguments.elemTypes(), args)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("abi: packed %d bytes, expected %d", n, size)
	}
	return buf, nil
}

func (arguments Arguments) checkCount(args []any) error {
	if len(args) != len(arguments) {
		return fmt.Errorf("%w: argument count mismatch: got %d for %d", ErrInvalidArgument, len(args), len(arguments))
	}
	return nil
}
