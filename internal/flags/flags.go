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

package flags

import (
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Kr1ptal/ethers-go/common/math"
	"github.com/urfave/cli/v2"
)

var (
	_ cli.Flag              = (*WeiFlag)(nil)
	_ cli.RequiredFlag      = (*WeiFlag)(nil)
	_ cli.VisibleFlag       = (*WeiFlag)(nil)
	_ cli.DocGenerationFlag = (*WeiFlag)(nil)
	_ cli.CategorizableFlag = (*WeiFlag)(nil)
)

var (
	errNegativeAmount = errors.New("amount must not be negative")
	errAmountTooLarge = errors.New("amount exceeds 256 bits")
	errFractionalWei  = errors.New("amount is not a whole number of wei")
)

// amountUnits lists the accepted denominations. gwei is matched before wei.
var amountUnits = []struct {
	suffix string
	wei    *big.Int
}{
	{"ether", math.BigPow(10, 18)},
	{"gwei", math.BigPow(10, 9)},
	{"wei", big.NewInt(1)},
}

// ParseAmount parses a non-negative wei amount of at most 256 bits. Plain
// integers are read as wei in decimal or 0x-prefixed hex. A trailing unit of
// wei, gwei or ether scales a decimal number, so "1.5gwei" is 1500000000.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return nil, errNegativeAmount
	}
	lower := strings.ToLower(s)
	for _, unit := range amountUnits {
		if !strings.HasSuffix(lower, unit.suffix) {
			continue
		}
		num := strings.TrimSpace(s[:len(s)-len(unit.suffix)])
		r, ok := new(big.Rat).SetString(num)
		if num == "" || !ok {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
		r.Mul(r, new(big.Rat).SetInt(unit.wei))
		if !r.IsInt() {
			return nil, errFractionalWei
		}
		return checkAmount(new(big.Int).Set(r.Num()))
	}
	if strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	v, ok := math.ParseBig256(s)
	if !ok {
		// ParseBig256 also fails for values wider than 256 bits.
		if _, isInt := new(big.Int).SetString(strings.TrimPrefix(lower, "0x"), base(lower)); isInt {
			return nil, errAmountTooLarge
		}
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func base(s string) int {
	if strings.HasPrefix(s, "0x") {
		return 16
	}
	return 10
}

func checkAmount(v *big.Int) (*big.Int, error) {
	switch {
	case v.Sign() < 0:
		return nil, errNegativeAmount
	case v.BitLen() > 256:
		return nil, errAmountTooLarge
	}
	return v, nil
}

// WeiFlag is a command line flag holding a transaction amount in wei, see
// ParseAmount for the accepted syntax.
type WeiFlag struct {
	Name string

	Category    string
	DefaultText string
	Usage       string

	Required   bool
	Hidden     bool
	HasBeenSet bool

	Value        *big.Int
	defaultValue *big.Int

	Aliases []string
	EnvVars []string
}

func (f *WeiFlag) Names() []string { return append([]string{f.Name}, f.Aliases...) }
func (f *WeiFlag) IsSet() bool     { return f.HasBeenSet }
func (f *WeiFlag) String() string  { return cli.FlagStringer(f) }

func (f *WeiFlag) Apply(set *flag.FlagSet) error {
	if f.Value != nil {
		f.defaultValue = new(big.Int).Set(f.Value)
	}
	for _, envVar := range f.EnvVars {
		value, found := syscall.Getenv(strings.TrimSpace(envVar))
		if !found {
			continue
		}
		v, err := ParseAmount(value)
		if err != nil {
			return fmt.Errorf("flag %s from environment variable %q: %w", f.Name, envVar, err)
		}
		f.Value = v
		f.HasBeenSet = true
		break
	}
	if f.Value == nil {
		f.Value = new(big.Int)
	}
	eachName(f, func(name string) {
		set.Var((*weiValue)(f.Value), name, f.Usage)
	})
	return nil
}

func (f *WeiFlag) IsRequired() bool    { return f.Required }
func (f *WeiFlag) IsVisible() bool     { return !f.Hidden }
func (f *WeiFlag) GetCategory() string { return f.Category }

func (f *WeiFlag) TakesValue() bool     { return true }
func (f *WeiFlag) GetUsage() string     { return f.Usage }
func (f *WeiFlag) GetValue() string     { return f.Value.String() }
func (f *WeiFlag) GetEnvVars() []string { return f.EnvVars }
func (f *WeiFlag) GetDefaultText() string {
	if f.DefaultText != "" {
		return f.DefaultText
	}
	if f.defaultValue == nil {
		return "0"
	}
	return f.defaultValue.String()
}

// weiValue adapts the flag's *big.Int to flag.Value.
type weiValue big.Int

func (b *weiValue) String() string {
	if b == nil {
		return ""
	}
	return (*big.Int)(b).String()
}

func (b *weiValue) Set(s string) error {
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*b = (weiValue)(*v)
	return nil
}

func (b *weiValue) Get() any {
	return (*big.Int)(b)
}

// Wei returns the amount held by the named WeiFlag, or nil if the flag is
// not defined.
func Wei(ctx *cli.Context, name string) *big.Int {
	val, ok := ctx.Generic(name).(*weiValue)
	if !ok || val == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(val))
}

// ExpandPath expands a file path: a leading ~ becomes the home directory,
// environment variables are substituted and the result is cleaned.
// ~someuser/tmp is not expanded.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		if home := HomeDir(); home != "" {
			p = home + p[1:]
		}
	}
	return filepath.Clean(os.ExpandEnv(p))
}

// HomeDir returns the home directory of the current user.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func eachName(f cli.Flag, fn func(string)) {
	for _, name := range f.Names() {
		fn(strings.TrimSpace(name))
	}
}
