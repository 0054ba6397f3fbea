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

package types

import (
	"math/big"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/rlp"
)

// DynamicFeeTx represents an EIP-1559 transaction.
type DynamicFeeTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int // a.k.a. maxPriorityFeePerGas
	GasFeeCap  *big.Int // a.k.a. maxFeePerGas
	Gas        uint64
	To         *common.Address // nil means contract creation
	Value      *big.Int
	Data       []byte
	AccessList AccessList

	// Signature values
	V *big.Int
	R *big.Int
	S *big.Int
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *DynamicFeeTx) copy() TxData {
	return &DynamicFeeTx{
		Nonce:      tx.Nonce,
		To:         copyAddressPtr(tx.To),
		Data:       common.CopyBytes(tx.Data),
		Gas:        tx.Gas,
		AccessList: tx.AccessList.copy(),
		Value:      bigCopy(tx.Value),
		ChainID:    bigCopy(tx.ChainID),
		GasTipCap:  bigCopy(tx.GasTipCap),
		GasFeeCap:  bigCopy(tx.GasFeeCap),
		V:          bigCopy(tx.V),
		R:          bigCopy(tx.R),
		S:          bigCopy(tx.S),
	}
}

// accessors for innerTx.
func (tx *DynamicFeeTx) txType() byte           { return DynamicFeeTxType }
func (tx *DynamicFeeTx) chainID() *big.Int      { return tx.ChainID }
func (tx *DynamicFeeTx) accessList() AccessList { return tx.AccessList }
func (tx *DynamicFeeTx) data() []byte           { return tx.Data }
func (tx *DynamicFeeTx) gas() uint64            { return tx.Gas }
func (tx *DynamicFeeTx) gasFeeCap() *big.Int    { return tx.GasFeeCap }
func (tx *DynamicFeeTx) gasTipCap() *big.Int    { return tx.GasTipCap }
func (tx *DynamicFeeTx) gasPrice() *big.Int     { return tx.GasFeeCap }
func (tx *DynamicFeeTx) value() *big.Int        { return tx.Value }
func (tx *DynamicFeeTx) nonce() uint64          { return tx.Nonce }
func (tx *DynamicFeeTx) to() *common.Address    { return tx.To }

func (tx *DynamicFeeTx) effectiveGasPrice(dst *big.Int, baseFee *big.Int) *big.Int {
	return dynamicFeePrice(dst, tx.GasTipCap, tx.GasFeeCap, baseFee)
}

// dynamicFeePrice returns min(feeCap, baseFee+tipCap).
func dynamicFeePrice(dst, tipCap, feeCap, baseFee *big.Int) *big.Int {
	if baseFee == nil {
		return dst.Set(feeCap)
	}
	tip := dst.Sub(feeCap, baseFee)
	if tip.Cmp(tipCap) > 0 {
		tip.Set(tipCap)
	}
	return tip.Add(tip, baseFee)
}

func (tx *DynamicFeeTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *DynamicFeeTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

func (tx *DynamicFeeTx) fieldsSize(m encodeMode) int {
	chainID := tx.ChainID
	if m.sigHash && m.chainID != nil {
		chainID = m.chainID
	}
	size := rlp.BigIntSize(chainID) +
		rlp.IntSize(tx.Nonce) +
		rlp.BigIntSize(tx.GasTipCap) +
		rlp.BigIntSize(tx.GasFeeCap) +
		rlp.IntSize(tx.Gas) +
		addressPtrSize(tx.To) +
		rlp.BigIntSize(tx.Value) +
		rlp.BytesSize(tx.Data) +
		tx.AccessList.EncodingSize()
	if !m.sigHash {
		size += rlp.BigIntSize(tx.V) + rlp.BigIntSize(tx.R) + rlp.BigIntSize(tx.S)
	}
	return size
}

func (tx *DynamicFeeTx) encodeFields(w *rlp.Encoder, m encodeMode) {
	chainID := tx.ChainID
	if m.sigHash && m.chainID != nil {
		chainID = m.chainID
	}
	w.WriteBigInt(chainID)
	w.WriteUint64(tx.Nonce)
	w.WriteBigInt(tx.GasTipCap)
	w.WriteBigInt(tx.GasFeeCap)
	w.WriteUint64(tx.Gas)
	writeAddressPtr(w, tx.To)
	w.WriteBigInt(tx.Value)
	w.WriteBytes(tx.Data)
	tx.AccessList.EncodeRLP(w)
	if !m.sigHash {
		w.WriteBigInt(tx.V)
		w.WriteBigInt(tx.R)
		w.WriteBigInt(tx.S)
	}
}

func (tx *DynamicFeeTx) decodeFields(d *rlp.Decoder) (err error) {
	if tx.ChainID, err = d.BigInt(); err != nil {
		return err
	}
	if tx.Nonce, err = d.Uint64(); err != nil {
		return err
	}
	if err = readBigInts(d, &tx.GasTipCap, &tx.GasFeeCap); err != nil {
		return err
	}
	if tx.Gas, err = d.Uint64(); err != nil {
		return err
	}
	if tx.To, err = readAddressPtr(d); err != nil {
		return err
	}
	if tx.Value, err = d.BigInt(); err != nil {
		return err
	}
	if tx.Data, err = d.Bytes(); err != nil {
		return err
	}
	tx.Data = common.CopyBytes(tx.Data)
	if err = tx.AccessList.DecodeRLP(d); err != nil {
		return err
	}
	return readBigInts(d, &tx.V, &tx.R, &tx.S)
}
