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

// AccessList is an EIP-2930 access list.
type AccessList []AccessTuple

// AccessTuple is the element type of an access list.
type AccessTuple struct {
	Address     common.Address
	StorageKeys []common.Hash
}

// StorageKeys returns the total number of storage keys in the access list.
func (al AccessList) StorageKeys() int {
	sum := 0
	for _, tuple := range al {
		sum += len(tuple.StorageKeys)
	}
	return sum
}

func (t *AccessTuple) contentSize() int {
	return 1 + common.AddressLength + rlp.ListSize(len(t.StorageKeys)*(1+common.HashLength))
}

func (al AccessList) contentSize() int {
	size := 0
	for i := range al {
		size += rlp.ListSize(al[i].contentSize())
	}
	return size
}

// EncodingSize implements rlp.Encodable.
func (al AccessList) EncodingSize() int {
	return rlp.ListSize(al.contentSize())
}

// EncodeRLP implements rlp.Encodable.
func (al AccessList) EncodeRLP(w *rlp.Encoder) {
	w.WriteListHeader(al.contentSize())
	for i := range al {
		tuple := &al[i]
		w.WriteListHeader(tuple.contentSize())
		w.WriteBytes(tuple.Address[:])
		w.WriteListHeader(len(tuple.StorageKeys) * (1 + common.HashLength))
		for _, key := range tuple.StorageKeys {
			w.WriteBytes(key[:])
		}
	}
}

// DecodeRLP implements rlp.Decodable.
func (al *AccessList) DecodeRLP(d *rlp.Decoder) error {
	var list AccessList
	err := d.DecodeList(func(d *rlp.Decoder) error {
		for d.MoreDataInList() {
			var tuple AccessTuple
			if err := d.DecodeList(tuple.decodeFields); err != nil {
				return err
			}
			list = append(list, tuple)
		}
		return nil
	})
	if err != nil {
		return err
	}
	*al = list
	return nil
}

func (t *AccessTuple) decodeFields(d *rlp.Decoder) error {
	if err := d.ReadBytes(t.Address[:]); err != nil {
		return err
	}
	return d.DecodeList(func(d *rlp.Decoder) error {
		for d.MoreDataInList() {
			var key common.Hash
			if err := d.ReadBytes(key[:]); err != nil {
				return err
			}
			t.StorageKeys = append(t.StorageKeys, key)
		}
		return nil
	})
}

// copy returns a deep copy of the access list.
func (al AccessList) copy() AccessList {
	if al == nil {
		return nil
	}
	cpy := make(AccessList, len(al))
	for i, tuple := range al {
		cpy[i] = AccessTuple{
			Address:     tuple.Address,
			StorageKeys: append([]common.Hash(nil), tuple.StorageKeys...),
		}
	}
	return cpy
}

// AccessListTx is the data of EIP-2930 access list transactions.
type AccessListTx struct {
	ChainID    *big.Int        // destination chain ID
	Nonce      uint64          // nonce of sender account
	GasPrice   *big.Int        // wei per gas
	Gas        uint64          // gas limit
	To         *common.Address // nil means contract creation
	Value      *big.Int        // wei amount
	Data       []byte          // contract invocation input data
	AccessList AccessList      // EIP-2930 access list
	V, R, S    *big.Int        // signature values
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *AccessListTx) copy() TxData {
	return &AccessListTx{
		Nonce:      tx.Nonce,
		To:         copyAddressPtr(tx.To),
		Data:       common.CopyBytes(tx.Data),
		Gas:        tx.Gas,
		AccessList: tx.AccessList.copy(),
		Value:      bigCopy(tx.Value),
		ChainID:    bigCopy(tx.ChainID),
		GasPrice:   bigCopy(tx.GasPrice),
		V:          bigCopy(tx.V),
		R:          bigCopy(tx.R),
		S:          bigCopy(tx.S),
	}
}

// accessors for innerTx.
func (tx *AccessListTx) txType() byte           { return AccessListTxType }
func (tx *AccessListTx) chainID() *big.Int      { return tx.ChainID }
func (tx *AccessListTx) accessList() AccessList { return tx.AccessList }
func (tx *AccessListTx) data() []byte           { return tx.Data }
func (tx *AccessListTx) gas() uint64            { return tx.Gas }
func (tx *AccessListTx) gasPrice() *big.Int     { return tx.GasPrice }
func (tx *AccessListTx) gasTipCap() *big.Int    { return tx.GasPrice }
func (tx *AccessListTx) gasFeeCap() *big.Int    { return tx.GasPrice }
func (tx *AccessListTx) value() *big.Int        { return tx.Value }
func (tx *AccessListTx) nonce() uint64          { return tx.Nonce }
func (tx *AccessListTx) to() *common.Address    { return tx.To }

func (tx *AccessListTx) effectiveGasPrice(dst *big.Int, baseFee *big.Int) *big.Int {
	return dst.Set(tx.GasPrice)
}

func (tx *AccessListTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *AccessListTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

func (tx *AccessListTx) fieldsSize(m encodeMode) int {
	chainID := tx.ChainID
	if m.sigHash && m.chainID != nil {
		chainID = m.chainID
	}
	size := rlp.BigIntSize(chainID) +
		rlp.IntSize(tx.Nonce) +
		rlp.BigIntSize(tx.GasPrice) +
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

func (tx *AccessListTx) encodeFields(w *rlp.Encoder, m encodeMode) {
	chainID := tx.ChainID
	if m.sigHash && m.chainID != nil {
		chainID = m.chainID
	}
	w.WriteBigInt(chainID)
	w.WriteUint64(tx.Nonce)
	w.WriteBigInt(tx.GasPrice)
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

func (tx *AccessListTx) decodeFields(d *rlp.Decoder) (err error) {
	if tx.ChainID, err = d.BigInt(); err != nil {
		return err
	}
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
	if err = tx.AccessList.DecodeRLP(d); err != nil {
		return err
	}
	return readBigInts(d, &tx.V, &tx.R, &tx.S)
}
