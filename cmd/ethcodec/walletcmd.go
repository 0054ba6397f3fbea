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
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/Kr1ptal/ethers-go/accounts"
	"github.com/Kr1ptal/ethers-go/accounts/hdwallet"
	"github.com/Kr1ptal/ethers-go/accounts/keystore"
	"github.com/Kr1ptal/ethers-go/common/hexutil"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/internal/flags"
	"github.com/urfave/cli/v2"
)

var (
	wordsFlag = &cli.IntFlag{
		Name:  "words",
		Usage: "Number of mnemonic words (12, 15, 18, 21 or 24)",
		Value: 12,
	}
	countFlag = &cli.IntFlag{
		Name:  "count",
		Usage: "Number of consecutive accounts to derive",
		Value: 1,
	}
	keystoreDirFlag = &cli.StringFlag{
		Name:     "dir",
		Usage:    "Directory the key file is written to",
		Required: true,
	}
	lightKDFFlag = &cli.BoolFlag{
		Name:  "lightkdf",
		Usage: "Use less secure scrypt parameters",
	}
	privateFlag = &cli.BoolFlag{
		Name:  "private",
		Usage: "Include the private key in the output",
	}
	importKeyFlag = &cli.StringFlag{
		Name:  "import",
		Usage: "Hex encoded private key to store instead of a new random key",
	}

	walletCommand = &cli.Command{
		Name:     "wallet",
		Usage:    "HD wallet operations",
		Category: flags.AccountCategory,
		Subcommands: []*cli.Command{
			{
				Name:   "new",
				Usage:  "Generate a new mnemonic",
				Flags:  []cli.Flag{wordsFlag},
				Action: walletNew,
			},
			{
				Name:   "derive",
				Usage:  "Derive accounts from the configured mnemonic",
				Flags:  []cli.Flag{countFlag, privateFlag},
				Action: walletDerive,
			},
		},
	}
	keystoreCommand = &cli.Command{
		Name:     "keystore",
		Usage:    "Encrypted key file operations",
		Category: flags.AccountCategory,
		Subcommands: []*cli.Command{
			{
				Name:   "new",
				Usage:  "Create an encrypted key file",
				Flags:  []cli.Flag{keystoreDirFlag, lightKDFFlag, importKeyFlag},
				Action: keystoreNew,
			},
			{
				Name:      "inspect",
				Usage:     "Decrypt a key file and print its address",
				ArgsUsage: "<keyfile>",
				Flags:     []cli.Flag{privateFlag},
				Action:    keystoreInspect,
			},
		},
	}
)

func walletNew(ctx *cli.Context) error {
	words := ctx.Int(wordsFlag.Name)
	if words%3 != 0 {
		return fmt.Errorf("invalid word count %d", words)
	}
	mnemonic, err := hdwallet.NewMnemonic(words / 3 * 32)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, mnemonic)
	return nil
}

func walletDerive(ctx *cli.Context) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Signer.Mnemonic == "" {
		return errors.New("need --mnemonic")
	}
	wallet, err := hdwallet.NewFromMnemonic(cfg.Signer.Mnemonic, "")
	if err != nil {
		return err
	}
	base, err := accounts.ParseDerivationPath(cfg.Signer.DerivationPath)
	if err != nil {
		return err
	}
	accs, err := wallet.Accounts(base, ctx.Int(countFlag.Name))
	if err != nil {
		return err
	}
	for _, acc := range accs {
		if !ctx.Bool(privateFlag.Name) {
			fmt.Fprintf(ctx.App.Writer, "%s %s\n", acc.URL.Path, acc.Address.Hex())
			continue
		}
		path, err := accounts.ParseDerivationPath(acc.URL.Path)
		if err != nil {
			return err
		}
		prv, err := wallet.Derive(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "%s %s %s\n", acc.URL.Path, acc.Address.Hex(), hexutil.Encode(crypto.FromECDSA(prv)))
	}
	return nil
}

func keystoreNew(ctx *cli.Context) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	password, err := readPassword(cfg.Signer.PasswordFile)
	if err != nil {
		return err
	}
	scryptN, scryptP := keystore.StandardScryptN, keystore.StandardScryptP
	if ctx.Bool(lightKDFFlag.Name) {
		scryptN, scryptP = keystore.LightScryptN, keystore.LightScryptP
	}
	dir := flags.ExpandPath(ctx.String(keystoreDirFlag.Name))

	var account accounts.Account
	if hex := ctx.String(importKeyFlag.Name); hex != "" {
		var prv *ecdsa.PrivateKey
		if prv, err = crypto.HexToECDSA(trim0x(hex)); err != nil {
			return fmt.Errorf("invalid private key: %w", err)
		}
		account, err = keystore.StoreKey(dir, keystore.NewKeyFromECDSA(prv), password, scryptN, scryptP)
	} else {
		account, err = keystore.NewAccount(dir, password, scryptN, scryptP)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%s %s\n", account.Address.Hex(), account.URL.Path)
	return nil
}

func keystoreInspect(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need a key file")
	}
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	password, err := readPassword(cfg.Signer.PasswordFile)
	if err != nil {
		return err
	}
	key, err := keystore.LoadKey(flags.ExpandPath(ctx.Args().First()), password)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "address: %s\n", key.Address.Hex())
	fmt.Fprintf(ctx.App.Writer, "id:      %s\n", key.Id)
	if ctx.Bool(privateFlag.Name) {
		fmt.Fprintf(ctx.App.Writer, "private: %s\n", hexutil.Encode(crypto.FromECDSA(key.PrivateKey)))
	}
	return nil
}
