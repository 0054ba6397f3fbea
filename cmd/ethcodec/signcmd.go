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
	"math/big"

	"github.com/Kr1ptal/ethers-go/accounts"
	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/common/hexutil"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/internal/flags"
	"github.com/Kr1ptal/ethers-go/signer/eip712"
	"github.com/urfave/cli/v2"
)

var (
	hexMessageFlag = &cli.BoolFlag{
		Name:  "hex",
		Usage: "Treat the message as hex encoded bytes",
	}
	structFlag = &cli.StringSliceFlag{
		Name:     "struct",
		Usage:    "Struct declaration, e.g. \"Mail(address to,string contents)\"; the last one is signed",
		Required: true,
	}
	domainNameFlag = &cli.StringFlag{
		Name:  "domain.name",
		Usage: "EIP-712 domain name",
	}
	domainVersionFlag = &cli.StringFlag{
		Name:  "domain.version",
		Usage: "EIP-712 domain version",
	}
	domainContractFlag = &cli.StringFlag{
		Name:  "domain.contract",
		Usage: "EIP-712 domain verifying contract",
	}
	domainSaltFlag = &cli.StringFlag{
		Name:  "domain.salt",
		Usage: "EIP-712 domain salt (32 bytes hex)",
	}
	recoverMessageFlag = &cli.StringFlag{
		Name:  "message",
		Usage: "Recover the signer of an EIP-191 text message",
	}
	recoverHashFlag = &cli.StringFlag{
		Name:  "hash",
		Usage: "Recover the signer of a raw 32 byte hash",
	}

	signCommand = &cli.Command{
		Name:     "sign",
		Usage:    "Sign messages",
		Category: flags.AccountCategory,
		Subcommands: []*cli.Command{
			{
				Name:      "message",
				Usage:     "Sign an EIP-191 text message",
				ArgsUsage: "<message>",
				Flags:     []cli.Flag{hexMessageFlag},
				Action:    signMessage,
			},
			{
				Name:      "typed",
				Usage:     "Sign EIP-712 typed data",
				ArgsUsage: "<json message>",
				Flags:     []cli.Flag{structFlag, domainNameFlag, domainVersionFlag, domainContractFlag, domainSaltFlag},
				Action:    signTyped,
				Description: `
The message is a JSON object keyed by field name. The domain chain id is
the configured chain id; 0 leaves it out of the domain.`,
			},
		},
	}
	recoverCommand = &cli.Command{
		Name:      "recover",
		Usage:     "Recover the address that produced a signature",
		ArgsUsage: "<signature>",
		Category:  flags.AccountCategory,
		Flags:     []cli.Flag{recoverMessageFlag, recoverHashFlag, hexMessageFlag},
		Action:    recoverSigner,
	}
)

// encodeSignature renders sig as 65 bytes with the recovery id in the
// Electrum 27/28 notation.
func encodeSignature(sig *crypto.Signature) string {
	b := sig.Bytes()
	b[crypto.RecoveryIDOffset] = sig.Electrum()
	return hexutil.Encode(b)
}

func messageArg(ctx *cli.Context, s string) ([]byte, error) {
	if ctx.Bool(hexMessageFlag.Name) {
		return hexutil.Decode(ensure0x(s))
	}
	return []byte(s), nil
}

func signMessage(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need a message")
	}
	msg, err := messageArg(ctx, ctx.Args().First())
	if err != nil {
		return err
	}
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	signer, err := makeSigner(&cfg.Signer)
	if err != nil {
		return err
	}
	sig, err := accounts.SignText(signer, msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, encodeSignature(sig))
	return nil
}

func signTyped(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need a JSON message")
	}
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	td, err := makeTypedData(ctx, cfg.Signer.ChainID)
	if err != nil {
		return err
	}
	hash, err := td.Hash()
	if err != nil {
		return err
	}
	signer, err := makeSigner(&cfg.Signer)
	if err != nil {
		return err
	}
	sig, err := signer.SignHash(hash)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "hash:      %s\n", hash.Hex())
	fmt.Fprintf(ctx.App.Writer, "signature: %s\n", encodeSignature(sig))
	return nil
}

func makeTypedData(ctx *cli.Context, chainID uint64) (*eip712.TypedData, error) {
	typ, err := parseStructTypes(ctx.StringSlice(structFlag.Name))
	if err != nil {
		return nil, err
	}
	msg, err := parseTypedMessage(typ, ctx.Args().First())
	if err != nil {
		return nil, err
	}
	td := &eip712.TypedData{
		Domain: eip712.Domain{
			Name:    ctx.String(domainNameFlag.Name),
			Version: ctx.String(domainVersionFlag.Name),
		},
		Type:    typ,
		Message: msg,
	}
	if chainID != 0 {
		td.Domain.ChainID = new(big.Int).SetUint64(chainID)
	}
	if s := ctx.String(domainContractFlag.Name); s != "" {
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid verifying contract %q", s)
		}
		addr := common.HexToAddress(s)
		td.Domain.VerifyingContract = &addr
	}
	if s := ctx.String(domainSaltFlag.Name); s != "" {
		b, err := hexutil.Decode(ensure0x(s))
		if err != nil || len(b) != common.HashLength {
			return nil, fmt.Errorf("invalid salt %q", s)
		}
		salt := common.BytesToHash(b)
		td.Domain.Salt = &salt
	}
	return td, nil
}

func recoverSigner(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need a signature")
	}
	raw, err := hexutil.Decode(ensure0x(ctx.Args().First()))
	if err != nil {
		return err
	}
	sig, err := crypto.SignatureFromBytes(raw)
	if err != nil {
		return err
	}

	var hash common.Hash
	switch {
	case ctx.IsSet(recoverMessageFlag.Name) && ctx.IsSet(recoverHashFlag.Name):
		return errors.New("--message and --hash are exclusive")
	case ctx.IsSet(recoverMessageFlag.Name):
		msg, err := messageArg(ctx, ctx.String(recoverMessageFlag.Name))
		if err != nil {
			return err
		}
		hash = common.BytesToHash(accounts.TextHash(msg))
	case ctx.IsSet(recoverHashFlag.Name):
		b, err := hexutil.Decode(ensure0x(ctx.String(recoverHashFlag.Name)))
		if err != nil || len(b) != common.HashLength {
			return fmt.Errorf("invalid hash %q", ctx.String(recoverHashFlag.Name))
		}
		hash = common.BytesToHash(b)
	default:
		return errors.New("need --message or --hash")
	}
	addr, ok := sig.RecoverAddress(hash)
	if !ok {
		return errors.New("invalid signature")
	}
	fmt.Fprintln(ctx.App.Writer, addr.Hex())
	return nil
}
