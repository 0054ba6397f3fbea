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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Kr1ptal/ethers-go/accounts/abi"
	"github.com/Kr1ptal/ethers-go/common/hexutil"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/internal/flags"
	"github.com/urfave/cli/v2"
)

var (
	noSelectorFlag = &cli.BoolFlag{
		Name:  "noselector",
		Usage: "Encode the arguments only, without the function selector",
	}
	errorDefFlag = &cli.StringSliceFlag{
		Name:  "def",
		Usage: "Custom error signature to resolve, e.g. \"InsufficientBalance(uint256,uint256)\"",
	}
	abiFileFlag = &cli.StringFlag{
		Name:  "abi",
		Usage: "Contract ABI JSON file whose errors are registered",
	}

	abiCommand = &cli.Command{
		Name:     "abi",
		Usage:    "Contract ABI encoding",
		Category: flags.CodecCategory,
		Subcommands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode a function call",
				ArgsUsage: "<signature> [args...]",
				Flags:     []cli.Flag{noSelectorFlag},
				Action:    abiEncode,
				Description: `
Encodes call data for the given function signature. Arrays and tuples are
passed as JSON, e.g.

    ethcodec abi encode 'f(uint256[],(address,bool))' '[1,2]' '["0x...",true]'`,
			},
			{
				Name:      "decode",
				Usage:     "Decode call data or a list of values",
				ArgsUsage: "<signature|types> <hex>",
				Action:    abiDecode,
				Description: `
With a function signature the data must start with its selector. A bare
comma separated type list decodes the data as plain arguments.`,
			},
			{
				Name:      "selector",
				Usage:     "Print the selector and event topic of a signature",
				ArgsUsage: "<signature>",
				Action:    abiSelector,
			},
			{
				Name:      "error",
				Usage:     "Resolve revert data",
				ArgsUsage: "<hex>",
				Flags:     []cli.Flag{errorDefFlag, abiFileFlag},
				Action:    abiError,
			},
		},
	}
)

func abiEncode(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("need a function signature")
	}
	method, err := abi.NewMethodFromSignature(ctx.Args().First())
	if err != nil {
		return err
	}
	args := ctx.Args().Tail()
	if len(args) != len(method.Inputs) {
		return fmt.Errorf("%s takes %d arguments, have %d", method.Sig, len(method.Inputs), len(args))
	}
	values := make([]any, len(args))
	for i, arg := range args {
		if values[i], err = parseArg(method.Inputs[i].Type, arg); err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
	}
	var out []byte
	if ctx.Bool(noSelectorFlag.Name) {
		out, err = method.Inputs.Pack(values...)
	} else {
		out, err = method.Pack(values...)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hexutil.Encode(out))
	return nil
}

func abiDecode(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errors.New("need a signature or type list and the data")
	}
	data, err := hexutil.Decode(ensure0x(ctx.Args().Get(1)))
	if err != nil {
		return err
	}
	var (
		desc   = ctx.Args().First()
		inputs abi.Arguments
		values []any
	)
	if isSignature(desc) {
		method, err := abi.NewMethodFromSignature(desc)
		if err != nil {
			return err
		}
		inputs = method.Inputs
		values, err = method.UnpackInput(data)
		if err != nil {
			return err
		}
	} else {
		// Parse the type list as the inputs of an anonymous function.
		method, err := abi.NewMethodFromSignature("f(" + desc + ")")
		if err != nil {
			return err
		}
		inputs = method.Inputs
		values, err = inputs.Unpack(data)
		if err != nil {
			return err
		}
	}
	for i, v := range values {
		fmt.Fprintf(ctx.App.Writer, "%s: %s\n", inputs[i].Type, formatValue(v))
	}
	return nil
}

// isSignature reports whether desc starts with a function name rather than a
// type.
func isSignature(desc string) bool {
	idx := strings.IndexByte(desc, '(')
	return idx > 0 && !strings.ContainsAny(desc[:idx], ",[] ")
}

func abiSelector(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need a signature")
	}
	method, err := abi.NewMethodFromSignature(ctx.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "signature: %s\n", method.Sig)
	fmt.Fprintf(ctx.App.Writer, "selector:  %s\n", hexutil.Encode(method.ID))
	fmt.Fprintf(ctx.App.Writer, "topic:     %s\n", crypto.Keccak256Hash([]byte(method.Sig)).Hex())
	return nil
}

func abiError(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need revert data")
	}
	data, err := hexutil.Decode(ensure0x(ctx.Args().First()))
	if err != nil {
		return err
	}
	if file := ctx.String(abiFileFlag.Name); file != "" {
		f, err := os.Open(flags.ExpandPath(file))
		if err != nil {
			return err
		}
		parsed, err := abi.JSON(f)
		f.Close()
		if err != nil {
			return err
		}
		parsed.RegisterErrors()
	}
	for _, sig := range ctx.StringSlice(errorDefFlag.Name) {
		def, err := abi.NewErrorFromSignature(sig)
		if err != nil {
			return err
		}
		abi.RegisterError(def)
	}

	w := ctx.App.Writer
	switch e := abi.ResolveError(data).(type) {
	case *abi.RevertError:
		fmt.Fprintf(w, "revert: %q\n", e.Reason)
	case *abi.PanicError:
		fmt.Fprintf(w, "panic: %#x (%s)\n", e.Value, e.Code)
	case *abi.CustomError:
		fmt.Fprintf(w, "error: %s\n", e.Def.Sig)
		for i, arg := range e.Args {
			fmt.Fprintf(w, "  %s: %s\n", e.Def.Inputs[i].Type, formatValue(arg))
		}
	case *abi.UnknownError:
		fmt.Fprintf(w, "unknown: %s\n", hexutil.Encode(e.Data))
	}
	return nil
}
