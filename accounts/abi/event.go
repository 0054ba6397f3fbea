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
	"fmt"
	"strings"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/crypto"
)

// Event is an event potentially triggered by the EVM's LOG mechanism. The Event
// holds type information (inputs) about the yielded output. Anonymous events
// don't get the signature canonical representation as the first LOG topic.
type Event struct {
	// Name is the event name used for internal representation. It's derived from
	// the raw name and a suffix will be added in the case of event overloading.
	Name string

	// RawName is the raw event name parsed from ABI.
	RawName   string
	Anonymous bool
	Inputs    Arguments
	str       string

	// Sig contains the string signature according to the ABI spec.
	// e.g.	 event foo(uint32 a, int b) = "foo(uint32,int256)"
	// Please note that "int" is substitute for its canonical representation "int256"
	Sig string

	// ID returns the canonical representation of the event's signature used by the
	// abi definition to identify event names and types.
	ID common.Hash
}

// NewEvent creates a new Event.
// It sanitizes the input arguments to remove unnamed arguments.
// It also precomputes the id, signature and string representation
// of the event.
func NewEvent(name, rawName string, anonymous bool, inputs Arguments) Event {
	str, sig := describe("event", rawName, inputs)
	return Event{
		Name:      name,
		RawName:   rawName,
		Anonymous: anonymous,
		Inputs:    inputs,
		str:       str,
		Sig:       sig,
		ID:        common.BytesToHash(crypto.Keccak256([]byte(sig))),
	}
}

// String returns the string representation of the event.
func (e Event) String() string {
	return e.str
}

// UnpackLog decodes a log emitted by this event. Indexed arguments are taken
// from the topics; indexed values of dynamic or composite type only exist as
// their hash and are returned as common.Hash.
func (e Event) UnpackLog(topics []common.Hash, data []byte) (map[string]any, error) {
	if !e.Anonymous {
		if len(topics) == 0 || topics[0] != e.ID {
			return nil, fmt.Errorf("%w: log is not a %s event", ErrSelectorMismatch, e.RawName)
		}
		topics = topics[1:]
	}
	out := make(map[string]any, len(e.Inputs))
	if err := e.Inputs.UnpackIntoMap(out, data); err != nil {
		return nil, err
	}
	for _, arg := range e.Inputs {
		if !arg.Indexed {
			continue
		}
		if len(topics) == 0 {
			return nil, fmt.Errorf("%w: missing topic for %s", ErrDataTooShort, arg.Name)
		}
		v, err := parseTopic(arg.Type, topics[0])
		if err != nil {
			return nil, fmt.Errorf("topic %s: %w", arg.Name, err)
		}
		out[arg.Name] = v
		topics = topics[1:]
	}
	if len(topics) != 0 {
		return nil, fmt.Errorf("%w: %d unexpected topics", ErrInvalidArgument, len(topics))
	}
	return out, nil
}

// describe renders the human readable form and the canonical signature of a
// named argument list. Unnamed inputs are named by position in place.
func describe(kind, rawName string, inputs Arguments) (str string, sig string) {
	names := make([]string, len(inputs))
	types := make([]string, len(inputs))
	for i, input := range inputs {
		if input.Name == "" {
			inputs[i] = Argument{
				Name:    fmt.Sprintf("arg%d", i),
				Indexed: input.Indexed,
				Type:    input.Type,
			}
		}
		names[i] = fmt.Sprintf("%v %v", input.Type, inputs[i].Name)
		if input.Indexed {
			names[i] = fmt.Sprintf("%v indexed %v", input.Type, inputs[i].Name)
		}
		types[i] = input.Type.String()
	}
	str = fmt.Sprintf("%v %v(%v)", kind, rawName, strings.Join(names, ", "))
	sig = fmt.Sprintf("%v(%v)", rawName, strings.Join(types, ","))
	return str, sig
}
