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
	"io"
	"os"
	"strings"

	"github.com/Kr1ptal/ethers-go/common/hexutil"
	"github.com/Kr1ptal/ethers-go/rlp"
	"github.com/urfave/cli/v2"
)

var (
	rlpFileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Read binary RLP from a file instead of the hex argument",
	}
	rlpdumpCommand = &cli.Command{
		Name:      "rlpdump",
		Usage:     "Print the structure of an RLP value",
		ArgsUsage: "<hex>",
		Flags:     []cli.Flag{rlpFileFlag},
		Action:    rlpdump,
	}
)

func rlpdump(ctx *cli.Context) error {
	var (
		input []byte
		err   error
	)
	switch {
	case ctx.IsSet(rlpFileFlag.Name):
		input, err = os.ReadFile(ctx.String(rlpFileFlag.Name))
	case ctx.NArg() == 1:
		input, err = hexutil.Decode(ensure0x(ctx.Args().First()))
	default:
		return errors.New("need hex input or --file")
	}
	if err != nil {
		return err
	}
	if len(input) == 0 {
		return errors.New("empty input")
	}
	return dumpRLP(ctx.App.Writer, input, 0)
}

// dumpRLP writes all values in b, one per line, indenting list contents.
func dumpRLP(w io.Writer, b []byte, depth int) error {
	ws := strings.Repeat("  ", depth)
	for len(b) > 0 {
		kind, content, rest, err := rlp.Split(b)
		if err != nil {
			return err
		}
		switch {
		case kind == rlp.List && len(content) == 0:
			fmt.Fprintf(w, "%s[]\n", ws)
		case kind == rlp.List:
			fmt.Fprintf(w, "%s[\n", ws)
			if err := dumpRLP(w, content, depth+1); err != nil {
				return err
			}
			fmt.Fprintf(w, "%s]\n", ws)
		default:
			fmt.Fprintf(w, "%s%s\n", ws, formatRLPString(content))
		}
		b = rest
	}
	return nil
}

func formatRLPString(b []byte) string {
	if len(b) == 0 {
		return `""`
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return hexutil.Encode(b)
		}
	}
	return fmt.Sprintf("%q", b)
}

func trim0x(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

func ensure0x(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}
