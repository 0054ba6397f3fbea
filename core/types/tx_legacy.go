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

// LegacyTx is the transaction data of the original Ethereum transactions.
type LegacyTx struct {
	Nonce    uint64          // nonce of sender account
	GasPrice *big.Int        // wei per gas
	Gas      uint64          // gas limit
	To       *common.Address // nil means contract creation
	Value    *big.Int        // wei amount
	Data     []byte          // contract invocation input data
	V, R, S  *big.Int        // signature values
}

// NewTransaction creates an unsigned legacy transaction.
//
// Deprecated: use NewTx instead.
func NewTransaction(nonce uint64, to common.Address, amount *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Transaction {
	return NewTx(&LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    amount,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
}

// NewContractCreation creates an unsigned legacy transaction.
//
// Deprecated: use NewTx instead.
func NewContractCreation(nonce uint64, amount *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Transaction {
	return NewTx(&LegacyTx{
		Nonce:    nonce,
		Value:    amount,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *LegacyTx) copy() TxData {
	return &LegacyTx{
		Nonce:    tx.Nonce,
		To:       copyAddressPtr(tx.To),
		Data:     common.CopyBytes(tx.Data),
		Gas:      tx.Gas,
		Value:    bigCopy(tx.Value),
		GasPrice: bigCopy(tx.GasPrice),
		V:        bigCopy(tx.V),
		R:        bigCopy(tx.R),
		S:        bigCopy(tx.S),
	}
}

// accessors for innerTx.
func (tx *LegacyTx) txType() byte           { return LegacyTxType }
func (tx *LegacyTx) chainID() *big.Int      { return deriveChainId(tx.V) }
func (tx *LegacyTx) accessList() AccessList { return nil }
func (tx *LegacyTx) data() []byte           { return tx.Data }
func (tx *LegacyTx) gas() uint64            { return tx.Gas }
func (tx *LegacyTx) gasPrice() *big.Int     { return tx.GasPrice }
func (tx *LegacyTx) gasTipCap() *big.Int    { return tx.GasPrice }
func (tx *LegacyTx) gasFeeCap() *big.Int    { return tx.GasPrice }
func (tx *LegacyTx) value() *big.Int        { return tx.Value }
func (tx *LegacyTx) nonce() uint64          { return tx.Nonce }
func (tx *LegacyTx) to() *common.Address    { return tx.To }

func (tx *LegacyTx) effectiveGasPrice(dst *big.Int, baseFee *big.Int) *big.Int {
	return dst.Set(tx.GasPrice)
}

func (tx *LegacyTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *LegacyTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

// sigHashChainID returns the chain id appended to the signing payload, or nil
// for the pre EIP-155 form.
func (m encodeMode) sigHashChainID() *big.Int {
	if !m.sigHash || m.chainID == nil || m.chainID.Sign() == 0 {
		return nil
	}
	return m.chainID
}

func (tx *LegacyTx) fieldsSize(m encodeMode) int {
	size := rlp.IntSize(tx.Nonce) +
		rlp.BigIntSize(tx.GasPrice) +
		rlp.IntSize(tx.Gas) +
		addressPtrSize(tx.To) +
		rlp.BigIntSize(tx.Value) +
		rlp.BytesSize(tx.Data)
	switch chainID := m.sigHashChainID(); {
	case !m.sigHash:
		size += rlp.BigIntSize(tx.V) + rlp.BigIntSize(tx.R) + rlp.BigIntSize(tx.S)
	case chainID != nil:
		size += rlp.BigIntSize(chainID) + 2
	}
	return size
}

func (tx *LegacyTx) encodeFields(w *rlp.Encoder, m encodeMode) {
	w.WriteUint64(tx.Nonce)
	w.WriteBigInt(tx.GasPrice)
	w.WriteUint64(tx.Gas)
	writeAddressPtr(w, tx.To)
	w.WriteBigInt(tx.Value)
	w.WriteBytes(tx.Data)
	switch chainID := m.sigHashChainID(); {
	case !m.sigHash:
		w.WriteBigInt(tx.V)
		w.WriteBigInt(tx.R)
		w.WriteBigInt(tx.S)
	case chainID != nil:
		// EIP-155: [..., chainId, 0, 0]
		w.WriteBigInt(chainID)
		w.WriteUint64(0)
		w.WriteUint64(0)
	}
}

func (tx *LegacyTx) decodeFields(d *rlp.Decoder) (err error) {
	if tx.Nonce, err = d.Uint64(); err != nil {
		return err
	}
	if tx.GasPrice, err = d.BigInt(); err != nil {
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
	return readBigInts(d, &tx.V, &tx.R, &tx.S)
}

// deriveChainId derives the chain id from the given v parameter.
func deriveChainId(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	if v.BitLen() <= 64 {
		v := v.Uint64()
		if v < 35 {
			return new(big.Int)
		}
		return new(big.Int).SetUint64((v - 35) / 2)
	}
	v = new(big.Int).Sub(v, big.NewInt(35))
	return v.Rsh(v, 1)
}
