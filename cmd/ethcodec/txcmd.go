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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/common/hexutil"
	"github.com/Kr1ptal/ethers-go/core/types"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/internal/flags"
	"github.com/Kr1ptal/ethers-go/rlp"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
)

var (
	txTypeFlag = &cli.StringFlag{
		Name:  "type",
		Usage: "Transaction type (legacy|accesslist|dynamicfee|setcode)",
		Value: "dynamicfee",
	}
	txNonceFlag = &cli.Uint64Flag{
		Name:  "nonce",
		Usage: "Sender nonce",
	}
	txGasFlag = &cli.Uint64Flag{
		Name:  "gas",
		Usage: "Gas limit",
		Value: 21000,
	}
	txToFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "Recipient address (empty creates a contract)",
	}
	txDataFlag = &cli.StringFlag{
		Name:  "data",
		Usage: "Hex encoded input data",
	}
	txAccessListFlag = &cli.StringFlag{
		Name:  "accesslist",
		Usage: `Access list as JSON: [{"address":"0x..","storageKeys":["0x.."]}]`,
	}
	txAuthFlag = &cli.StringSliceFlag{
		Name:  "auth",
		Usage: "RLP encoded signed authorization (setcode transactions)",
	}
	authDelegateFlag = &cli.StringFlag{
		Name:     "delegate",
		Usage:    "Address whose code the authority delegates to",
		Required: true,
	}
)

// txSignFlags returns the flags of the sign command. The big integer flags
// store their parsed value in the flag itself, so every app gets its own.
func txSignFlags() []cli.Flag {
	return []cli.Flag{
		txTypeFlag,
		txNonceFlag,
		txGasFlag,
		&flags.WeiFlag{Name: "gasprice", Usage: "Gas price (legacy and access list transactions)"},
		&flags.WeiFlag{Name: "tip", Usage: "Max priority fee per gas"},
		&flags.WeiFlag{Name: "feecap", Usage: "Max fee per gas"},
		&flags.WeiFlag{Name: "value", Usage: "Value, in wei unless a gwei or ether unit is given"},
		txToFlag,
		txDataFlag,
		txAccessListFlag,
		txAuthFlag,
	}
}

func newTxCommand() *cli.Command {
	return &cli.Command{
		Name:     "tx",
		Usage:    "Transaction encoding and signing",
		Category: flags.TxCategory,
		Subcommands: []*cli.Command{
			{
				Name:      "decode",
				Usage:     "Decode a binary transaction",
				ArgsUsage: "<hex>",
				Action:    txDecode,
			},
			{
				Name:   "sign",
				Usage:  "Create and sign a transaction",
				Flags:  txSignFlags(),
				Action: txSign,
			},
			{
				Name:      "senders",
				Usage:     "Recover the senders of several transactions",
				ArgsUsage: "<hex> [<hex>...]",
				Action:    txSenders,
			},
			{
				Name:   "authorize",
				Usage:  "Sign a set code authorization",
				Flags:  []cli.Flag{authDelegateFlag, txNonceFlag},
				Action: txAuthorize,
			},
		},
	}
}

func decodeTxArg(arg string) (*types.Transaction, error) {
	raw, err := hexutil.Decode(ensure0x(strings.TrimSpace(arg)))
	if err != nil {
		return nil, err
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return tx, nil
}

func txDecode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need a transaction")
	}
	tx, err := decodeTxArg(ctx.Args().First())
	if err != nil {
		return err
	}
	printTx(ctx.App.Writer, tx)
	return nil
}

func printTx(w io.Writer, tx *types.Transaction) {
	fmt.Fprintf(w, "type:     %d\n", tx.Type())
	fmt.Fprintf(w, "hash:     %s\n", tx.Hash().Hex())
	if tx.Type() != types.LegacyTxType || tx.Protected() {
		fmt.Fprintf(w, "chainid:  %v\n", tx.ChainId())
	}
	fmt.Fprintf(w, "nonce:    %d\n", tx.Nonce())
	fmt.Fprintf(w, "gas:      %d\n", tx.Gas())
	switch tx.Type() {
	case types.LegacyTxType, types.AccessListTxType:
		fmt.Fprintf(w, "gasprice: %v\n", tx.GasPrice())
	default:
		fmt.Fprintf(w, "tip:      %v\n", tx.GasTipCap())
		fmt.Fprintf(w, "feecap:   %v\n", tx.GasFeeCap())
	}
	if to := tx.To(); to != nil {
		fmt.Fprintf(w, "to:       %s\n", to.Hex())
	} else {
		fmt.Fprintf(w, "to:       <contract creation>\n")
	}
	fmt.Fprintf(w, "value:    %v\n", tx.Value())
	fmt.Fprintf(w, "data:     %s\n", hexutil.Encode(tx.Data()))
	for _, tuple := range tx.AccessList() {
		fmt.Fprintf(w, "access:   %s %d keys\n", tuple.Address.Hex(), len(tuple.StorageKeys))
	}
	for i, auth := range tx.SetCodeAuthorizations() {
		authority, ok := auth.Authority()
		who := "<invalid signature>"
		if ok {
			who = authority.Hex()
		}
		fmt.Fprintf(w, "auth %d:   chain %v delegate %s nonce %d from %s\n", i, &auth.ChainID, auth.Address.Hex(), auth.Nonce, who)
	}
	var signer types.Signer = types.HomesteadSigner{}
	if tx.Protected() {
		signer = types.LatestSignerForChainID(tx.ChainId())
	}
	from, ok := types.Sender(signer, tx)
	if !ok {
		fmt.Fprintf(w, "from:     <invalid signature>\n")
		return
	}
	fmt.Fprintf(w, "from:     %s\n", from.Hex())
	if tx.To() == nil {
		fmt.Fprintf(w, "contract: %s\n", crypto.CreateAddress(from, tx.Nonce()).Hex())
	}
}

func txSign(ctx *cli.Context) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	signer, err := makeSigner(&cfg.Signer)
	if err != nil {
		return err
	}
	inner, err := makeTxData(ctx, cfg.Signer.chainID())
	if err != nil {
		return err
	}
	tx, err := signer.SignTx(types.NewTx(inner), cfg.Signer.chainID())
	if err != nil {
		return err
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hexutil.Encode(raw))
	fmt.Fprintf(ctx.App.Writer, "hash: %s\n", tx.Hash().Hex())
	return nil
}

// makeTxData assembles the unsigned transaction described by the sign flags.
func makeTxData(ctx *cli.Context, chainID *big.Int) (types.TxData, error) {
	var (
		to   *common.Address
		data []byte
		al   types.AccessList
		err  error
	)
	if s := ctx.String(txToFlag.Name); s != "" {
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid recipient %q", s)
		}
		addr := common.HexToAddress(s)
		to = &addr
	}
	if s := ctx.String(txDataFlag.Name); s != "" {
		if data, err = hexutil.Decode(ensure0x(s)); err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
	}
	if s := ctx.String(txAccessListFlag.Name); s != "" {
		if err := json.Unmarshal([]byte(s), &al); err != nil {
			return nil, fmt.Errorf("invalid access list: %w", err)
		}
	}
	var (
		nonce    = ctx.Uint64(txNonceFlag.Name)
		gas      = ctx.Uint64(txGasFlag.Name)
		value    = flags.Wei(ctx, "value")
		gasPrice = flags.Wei(ctx, "gasprice")
		tip      = flags.Wei(ctx, "tip")
		feeCap   = flags.Wei(ctx, "feecap")
	)
	txType := ctx.String(txTypeFlag.Name)
	if txType != "legacy" && chainID == nil {
		return nil, fmt.Errorf("%s transactions need a chain id", txType)
	}
	switch txType {
	case "legacy":
		if len(al) > 0 {
			return nil, errors.New("legacy transactions have no access list")
		}
		return &types.LegacyTx{Nonce: nonce, GasPrice: gasPrice, Gas: gas, To: to, Value: value, Data: data}, nil
	case "accesslist":
		return &types.AccessListTx{ChainID: chainID, Nonce: nonce, GasPrice: gasPrice, Gas: gas, To: to, Value: value, Data: data, AccessList: al}, nil
	case "dynamicfee":
		return &types.DynamicFeeTx{ChainID: chainID, Nonce: nonce, GasTipCap: tip, GasFeeCap: feeCap, Gas: gas, To: to, Value: value, Data: data, AccessList: al}, nil
	case "setcode":
		if to == nil {
			return nil, errors.New("setcode transactions need a recipient")
		}
		var auths []types.SetCodeAuthorization
		for _, s := range ctx.StringSlice(txAuthFlag.Name) {
			enc, err := hexutil.Decode(ensure0x(s))
			if err != nil {
				return nil, fmt.Errorf("invalid authorization: %w", err)
			}
			var auth types.SetCodeAuthorization
			if err := rlp.DecodeBytes(enc, &auth); err != nil {
				return nil, fmt.Errorf("invalid authorization: %w", err)
			}
			auths = append(auths, auth)
		}
		if len(auths) == 0 {
			return nil, errors.New("setcode transactions need at least one --auth")
		}
		return &types.SetCodeTx{
			ChainID:    uint256.MustFromBig(chainID),
			Nonce:      nonce,
			GasTipCap:  uint256.MustFromBig(tip),
			GasFeeCap:  uint256.MustFromBig(feeCap),
			Gas:        gas,
			To:         *to,
			Value:      uint256.MustFromBig(value),
			Data:       data,
			AccessList: al,
			AuthList:   auths,
		}, nil
	}
	return nil, fmt.Errorf("unknown transaction type %q", txType)
}

func txSenders(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("need at least one transaction")
	}
	txs := make([]*types.Transaction, ctx.NArg())
	for i, arg := range ctx.Args().Slice() {
		tx, err := decodeTxArg(arg)
		if err != nil {
			return fmt.Errorf("tx %d: %w", i, err)
		}
		txs[i] = tx
	}
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	senders, err := types.RecoverSenders(context.Background(), types.LatestSignerForChainID(cfg.Signer.chainID()), txs)
	if err != nil {
		return err
	}
	for i, from := range senders {
		fmt.Fprintf(ctx.App.Writer, "%s %s\n", txs[i].Hash().Hex(), from.Hex())
	}
	return nil
}

func txAuthorize(ctx *cli.Context) error {
	delegate := ctx.String(authDelegateFlag.Name)
	if !common.IsHexAddress(delegate) {
		return fmt.Errorf("invalid delegate %q", delegate)
	}
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	signer, err := makeSigner(&cfg.Signer)
	if err != nil {
		return err
	}
	auth := types.SetCodeAuthorization{
		Address: common.HexToAddress(delegate),
		Nonce:   ctx.Uint64(txNonceFlag.Name),
	}
	auth.ChainID.SetUint64(cfg.Signer.ChainID)
	signed, err := signer.SignAuthorization(auth)
	if err != nil {
		return err
	}
	enc, err := rlp.EncodeToBytes(&signed)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hexutil.Encode(enc))
	return nil
}
