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

// ethcodec is a command line tool for Ethereum encodings, transactions and
// signatures.
package main

import (
	"fmt"
	"os"

	"github.com/Kr1ptal/ethers-go/internal/debug"
	"github.com/Kr1ptal/ethers-go/internal/flags"
	"github.com/Kr1ptal/ethers-go/internal/version"
	"github.com/Kr1ptal/ethers-go/log"
	"github.com/urfave/cli/v2"
)

const clientIdentifier = "ethcodec"

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}
	chainIDFlag = &cli.Uint64Flag{
		Name:     "chainid",
		Usage:    "Chain id used for signing (0 signs unprotected legacy transactions)",
		Category: flags.TxCategory,
	}
	keyFlag = &cli.StringFlag{
		Name:     "key",
		Usage:    "Hex encoded private key to sign with",
		Category: flags.AccountCategory,
	}
	keyFileFlag = &cli.StringFlag{
		Name:     "keyfile",
		Usage:    "Encrypted key file to sign with",
		Category: flags.AccountCategory,
	}
	passwordFileFlag = &cli.StringFlag{
		Name:     "password",
		Usage:    "File containing the key file password",
		Category: flags.AccountCategory,
	}
	mnemonicFlag = &cli.StringFlag{
		Name:     "mnemonic",
		Usage:    "BIP-39 mnemonic to derive the signing key from",
		Category: flags.AccountCategory,
	}
	hdPathFlag = &cli.StringFlag{
		Name:     "hd.path",
		Usage:    "BIP-32 derivation path used with --mnemonic",
		Category: flags.AccountCategory,
	}
)

var globalFlags = []cli.Flag{
	configFileFlag,
	chainIDFlag,
	keyFlag,
	keyFileFlag,
	passwordFileFlag,
	mnemonicFlag,
	hdPathFlag,
}

func newApp() *cli.App {
	app := flags.NewApp("Ethereum encoding and signing tool")
	app.Name = clientIdentifier
	app.Flags = flags.Merge(globalFlags, debug.Flags)
	app.Commands = []*cli.Command{
		rlpdumpCommand,
		abiCommand,
		newTxCommand(),
		signCommand,
		recoverCommand,
		walletCommand,
		keystoreCommand,
		dumpConfigCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		cfg, err := loadBaseConfig(ctx)
		if err != nil {
			return err
		}
		if err := applyLogConfig(ctx, &cfg.Log); err != nil {
			return err
		}
		if err := debug.Setup(ctx); err != nil {
			return err
		}
		log.Debug("Starting", "version", version.ClientName(clientIdentifier))
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
