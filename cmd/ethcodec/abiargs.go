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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/Kr1ptal/ethers-go/accounts/abi"
	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/common/hexutil"
	"github.com/Kr1ptal/ethers-go/common/math"
)

var errBadValue = errors.New("invalid value")

// parseArg converts a command line argument into a value accepted by the ABI
// packer. Arrays and tuples are written as JSON.
func parseArg(t abi.Type, s string) (any, error) {
	switch t.T {
	case abi.SliceTy, abi.ArrayTy, abi.TupleTy:
		return parseJSONValue(t, json.RawMessage(s))
	}
	return parseScalar(t, s)
}

// parseJSONValue converts a JSON value to an ABI value of type t. Tuples may
// be given as arrays or as objects keyed by field name.
func parseJSONValue(t abi.Type, raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	switch t.T {
	case abi.SliceTy, abi.ArrayTy:
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", errBadValue, t, err)
		}
		if t.T == abi.ArrayTy && len(elems) != t.Size {
			return nil, fmt.Errorf("%w for %s: have %d elements", errBadValue, t, len(elems))
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			v, err := parseJSONValue(*t.Elem, e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case abi.TupleTy:
		if len(raw) > 0 && raw[0] == '{' {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, fmt.Errorf("%w for %s: %v", errBadValue, t, err)
			}
			if len(fields) != len(t.TupleElems) {
				return nil, fmt.Errorf("%w for %s: have %d fields", errBadValue, t, len(fields))
			}
			out := make([]any, len(t.TupleElems))
			for i, elem := range t.TupleElems {
				f, ok := fields[t.TupleRawNames[i]]
				if !ok {
					return nil, fmt.Errorf("%w for %s: missing field %q", errBadValue, t, t.TupleRawNames[i])
				}
				v, err := parseJSONValue(*elem, f)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", errBadValue, t, err)
		}
		if len(elems) != len(t.TupleElems) {
			return nil, fmt.Errorf("%w for %s: have %d fields", errBadValue, t, len(elems))
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			v, err := parseJSONValue(*t.TupleElems[i], e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	// Scalars are JSON strings, numbers or booleans.
	s := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", errBadValue, t, err)
		}
	}
	return parseScalar(t, s)
}

func parseScalar(t abi.Type, s string) (any, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		neg := strings.HasPrefix(s, "-")
		if neg && t.T == abi.UintTy {
			return nil, fmt.Errorf("%w for %s: %q", errBadValue, t, s)
		}
		v, ok := math.ParseBig256(strings.TrimPrefix(s, "-"))
		if !ok {
			return nil, fmt.Errorf("%w for %s: %q", errBadValue, t, s)
		}
		if neg {
			v.Neg(v)
		}
		return v, nil
	case abi.BoolTy:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %q", errBadValue, t, s)
		}
		return b, nil
	case abi.StringTy:
		return s, nil
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%w for %s: %q", errBadValue, t, s)
		}
		return common.HexToAddress(s), nil
	case abi.BytesTy, abi.FixedBytesTy, abi.FunctionTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", errBadValue, t, err)
		}
		if t.T != abi.BytesTy && len(b) != t.Size {
			return nil, fmt.Errorf("%w for %s: have %d bytes", errBadValue, t, len(b))
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: unsupported type %s", errBadValue, t)
}

// formatValue renders a decoded ABI value in the notation accepted by
// parseArg.
func formatValue(v any) string {
	switch x := v.(type) {
	case *big.Int:
		return x.String()
	case common.Address:
		return x.Hex()
	case []byte:
		return hexutil.Encode(x)
	case string:
		return strconv.Quote(x)
	case []any:
		parts := make([]string, len(x))
		for i := range x {
			parts[i] = formatValue(x[i])
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return fmt.Sprint(v)
}
