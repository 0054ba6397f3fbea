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
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/Kr1ptal/ethers-go/accounts"
	"github.com/Kr1ptal/ethers-go/accounts/hdwallet"
	"github.com/Kr1ptal/ethers-go/accounts/keystore"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/internal/flags"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

var dumpConfigCommand = &cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Export configuration values in a TOML format",
	ArgsUsage:   "<dumpfile (optional)>",
	Description: `The dumpconfig command shows configuration values.`,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type signerConfig struct {
	ChainID        uint64
	KeyHex         string `toml:",omitempty"`
	KeyFile        string `toml:",omitempty"`
	PasswordFile   string `toml:",omitempty"`
	Mnemonic       string `toml:",omitempty"`
	DerivationPath string
}

type logConfig struct {
	Verbosity int
	JSON      bool
}

type ethcodecConfig struct {
	Signer signerConfig
	Log    logConfig
}

func defaultConfig() ethcodecConfig {
	return ethcodecConfig{
		Signer: signerConfig{
			ChainID:        1,
			DerivationPath: accounts.DefaultBaseDerivationPath.String(),
		},
		Log: logConfig{Verbosity: 2},
	}
}

var (
	errNoSigner        = errors.New("no signing key configured (use --key, --keyfile or --mnemonic)")
	errMultipleSigners = errors.New("more than one signing key source configured")
)

func loadConfig(file string, cfg *ethcodecConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// loadBaseConfig loads the configuration based on the given command line
// parameters and config file.
func loadBaseConfig(ctx *cli.Context) (ethcodecConfig, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(flags.ExpandPath(file), &cfg); err != nil {
			return cfg, err
		}
	}
	setSignerConfig(ctx, &cfg.Signer)
	return cfg, nil
}

func setSignerConfig(ctx *cli.Context, cfg *signerConfig) {
	if ctx.IsSet(chainIDFlag.Name) {
		cfg.ChainID = ctx.Uint64(chainIDFlag.Name)
	}
	if ctx.IsSet(keyFlag.Name) {
		cfg.KeyHex = ctx.String(keyFlag.Name)
	}
	if ctx.IsSet(keyFileFlag.Name) {
		cfg.KeyFile = ctx.String(keyFileFlag.Name)
	}
	if ctx.IsSet(passwordFileFlag.Name) {
		cfg.PasswordFile = ctx.String(passwordFileFlag.Name)
	}
	if ctx.IsSet(mnemonicFlag.Name) {
		cfg.Mnemonic = ctx.String(mnemonicFlag.Name)
	}
	if ctx.IsSet(hdPathFlag.Name) {
		cfg.DerivationPath = ctx.String(hdPathFlag.Name)
	}
}

// applyLogConfig copies file based log settings into the logging flags unless
// they were given on the command line.
func applyLogConfig(ctx *cli.Context, cfg *logConfig) error {
	if !ctx.IsSet("verbosity") {
		if err := ctx.Set("verbosity", strconv.Itoa(cfg.Verbosity)); err != nil {
			return err
		}
	}
	if cfg.JSON && !ctx.IsSet("log.format") {
		return ctx.Set("log.format", "json")
	}
	return nil
}

func (cfg *signerConfig) chainID() *big.Int {
	if cfg.ChainID == 0 {
		return nil
	}
	return new(big.Int).SetUint64(cfg.ChainID)
}

// makeSigner opens the single configured signing key.
func makeSigner(cfg *signerConfig) (*accounts.KeySigner, error) {
	var sources int
	for _, s := range []string{cfg.KeyHex, cfg.KeyFile, cfg.Mnemonic} {
		if s != "" {
			sources++
		}
	}
	switch {
	case sources == 0:
		return nil, errNoSigner
	case sources > 1:
		return nil, errMultipleSigners
	}

	switch {
	case cfg.KeyHex != "":
		prv, err := crypto.HexToECDSA(trim0x(cfg.KeyHex))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		return accounts.NewKeySigner(prv, accounts.URL{}), nil
	case cfg.KeyFile != "":
		password, err := readPassword(cfg.PasswordFile)
		if err != nil {
			return nil, err
		}
		return keystore.NewSigner(flags.ExpandPath(cfg.KeyFile), password)
	default:
		path, err := accounts.ParseDerivationPath(cfg.DerivationPath)
		if err != nil {
			return nil, err
		}
		wallet, err := hdwallet.NewFromMnemonic(cfg.Mnemonic, "")
		if err != nil {
			return nil, err
		}
		return wallet.Signer(path)
	}
}

// readPassword reads the first line of a password file. An empty file name
// means an empty password.
func readPassword(file string) (string, error) {
	if file == "" {
		return "", nil
	}
	text, err := os.ReadFile(flags.ExpandPath(file))
	if err != nil {
		return "", fmt.Errorf("failed to read password file: %w", err)
	}
	line, _, _ := strings.Cut(string(text), "\n")
	return strings.TrimRight(line, "\r"), nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	var dump io.Writer = ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
