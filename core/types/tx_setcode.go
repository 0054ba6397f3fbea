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
	"bytes"
	"crypto/ecdsa"
	"math/big"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/rlp"
	"github.com/holiman/uint256"
)

// DelegationPrefix is used by code to denote the account is delegating to
// another account.
var DelegationPrefix = []byte{0xef, 0x01, 0x00}

// authMagic prefixes the signing payload of an authorization.
const authMagic = 0x05

// ParseDelegation tries to parse the address from a delegation slice.
func ParseDelegation(b []byte) (common.Address, bool) {
	if len(b) != len(DelegationPrefix)+common.AddressLength || !bytes.HasPrefix(b, DelegationPrefix) {
		return common.Address{}, false
	}
	return common.BytesToAddress(b[len(DelegationPrefix):]), true
}

// AddressToDelegation adds the delegation prefix to the specified address.
func AddressToDelegation(addr common.Address) []byte {
	out := make([]byte, 0, len(DelegationPrefix)+common.AddressLength)
	out = append(out, DelegationPrefix...)
	return append(out, addr[:]...)
}

// SetCodeTx implements the EIP-7702 transaction type which temporarily installs
// the code at the signer's address.
type SetCodeTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int // a.k.a. maxPriorityFeePerGas
	GasFeeCap  *uint256.Int // a.k.a. maxFeePerGas
	Gas        uint64
	To         common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	AuthList   []SetCodeAuthorization

	// Signature values
	V *uint256.Int
	R *uint256.Int
	S *uint256.Int
}

// SetCodeAuthorization is an authorization from an account to deploy code at its address.
type SetCodeAuthorization struct {
	ChainID uint256.Int
	Address common.Address
	Nonce   uint64
	V       uint8 // signature y-parity
	R       uint256.Int
	S       uint256.Int
}

// SignSetCode creates a signed the SetCode authorization.
func SignSetCode(prv *ecdsa.PrivateKey, auth SetCodeAuthorization) (SetCodeAuthorization, error) {
	sig, err := crypto.SignHash(auth.SigHash(), prv)
	if err != nil {
		return SetCodeAuthorization{}, err
	}
	return SetCodeAuthorization{
		ChainID: auth.ChainID,
		Address: auth.Address,
		Nonce:   auth.Nonce,
		V:       sig.V,
		R:       sig.R,
		S:       sig.S,
	}, nil
}

// SigHash returns the hash signed by the authority:
// keccak256(0x05 || rlp([chain_id, address, nonce])).
func (a *SetCodeAuthorization) SigHash() common.Hash {
	// Authorization fields are fixed width and always encode.
	h, _ := prefixedRlpHash(authMagic, authFields{a, true})
	return h
}

// Signature returns the authorization signature.
func (a *SetCodeAuthorization) Signature() *crypto.Signature {
	return &crypto.Signature{R: a.R, S: a.S, V: a.V}
}

// Authority recovers the authorizing account of an authorization. The second
// return value is false if the signature is malformed or non-canonical.
func (a *SetCodeAuthorization) Authority() (common.Address, bool) {
	sig := a.Signature()
	if !sig.IsCanonical() {
		return common.Address{}, false
	}
	return sig.RecoverAddress(a.SigHash())
}

// EncodingSize implements rlp.Encodable.
func (a *SetCodeAuthorization) EncodingSize() int {
	return authFields{a, false}.EncodingSize()
}

// EncodeRLP implements rlp.Encodable.
func (a *SetCodeAuthorization) EncodeRLP(w *rlp.Encoder) {
	authFields{a, false}.EncodeRLP(w)
}

// DecodeRLP implements rlp.Decodable.
func (a *SetCodeAuthorization) DecodeRLP(d *rlp.Decoder) error {
	return d.DecodeList(func(d *rlp.Decoder) error {
		if err := d.Uint256(&a.ChainID); err != nil {
			return err
		}
		if err := d.ReadBytes(a.Address[:]); err != nil {
			return err
		}
		var err error
		if a.Nonce, err = d.Uint64(); err != nil {
			return err
		}
		if a.V, err = d.Uint8(); err != nil {
			return err
		}
		if err := d.Uint256(&a.R); err != nil {
			return err
		}
		return d.Uint256(&a.S)
	})
}

// authFields is the RLP list of an authorization, optionally without the
// signature.
type authFields struct {
	a        *SetCodeAuthorization
	unsigned bool
}

func (f authFields) contentSize() int {
	size := rlp.Uint256Size(&f.a.ChainID) + 1 + common.AddressLength + rlp.IntSize(f.a.Nonce)
	if !f.unsigned {
		size += rlp.IntSize(uint64(f.a.V)) + rlp.Uint256Size(&f.a.R) + rlp.Uint256Size(&f.a.S)
	}
	return size
}

func (f authFields) EncodingSize() int {
	return rlp.ListSize(f.contentSize())
}

func (f authFields) EncodeRLP(w *rlp.Encoder) {
	w.WriteListHeader(f.contentSize())
	w.WriteUint256(&f.a.ChainID)
	w.WriteBytes(f.a.Address[:])
	w.WriteUint64(f.a.Nonce)
	if !f.unsigned {
		w.WriteUint64(uint64(f.a.V))
		w.WriteUint256(&f.a.R)
		w.WriteUint256(&f.a.S)
	}
}

func authListContentSize(list []SetCodeAuthorization) int {
	size := 0
	for i := range list {
		size += list[i].EncodingSize()
	}
	return size
}

func authListSize(list []SetCodeAuthorization) int {
	return rlp.ListSize(authListContentSize(list))
}

func encodeAuthList(w *rlp.Encoder, list []SetCodeAuthorization) {
	w.WriteListHeader(authListContentSize(list))
	for i := range list {
		list[i].EncodeRLP(w)
	}
}

func decodeAuthList(d *rlp.Decoder) (list []SetCodeAuthorization, err error) {
	err = d.DecodeList(func(d *rlp.Decoder) error {
		for d.MoreDataInList() {
			var auth SetCodeAuthorization
			if err := auth.DecodeRLP(d); err != nil {
				return err
			}
			list = append(list, auth)
		}
		return nil
	})
	return list, err
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *SetCodeTx) copy() TxData {
	cpy := &SetCodeTx{
		Nonce:      tx.Nonce,
		To:         tx.To,
		Data:       common.CopyBytes(tx.Data),
		Gas:        tx.Gas,
		AccessList: tx.AccessList.copy(),
		Value:      u256Copy(tx.Value),
		ChainID:    u256Copy(tx.ChainID),
		GasTipCap:  u256Copy(tx.GasTipCap),
		GasFeeCap:  u256Copy(tx.GasFeeCap),
		V:          u256Copy(tx.V),
		R:          u256Copy(tx.R),
		S:          u256Copy(tx.S),
	}
	if tx.AuthList != nil {
		cpy.AuthList = append([]SetCodeAuthorization(nil), tx.AuthList...)
	}
	return cpy
}

// accessors for innerTx.
func (tx *SetCodeTx) txType() byte           { return SetCodeTxType }
func (tx *SetCodeTx) chainID() *big.Int      { return u256ToBig(tx.ChainID) }
func (tx *SetCodeTx) accessList() AccessList { return tx.AccessList }
func (tx *SetCodeTx) data() []byte           { return tx.Data }
func (tx *SetCodeTx) gas() uint64            { return tx.Gas }
func (tx *SetCodeTx) gasFeeCap() *big.Int    { return u256ToBig(tx.GasFeeCap) }
func (tx *SetCodeTx) gasTipCap() *big.Int    { return u256ToBig(tx.GasTipCap) }
func (tx *SetCodeTx) gasPrice() *big.Int     { return u256ToBig(tx.GasFeeCap) }
func (tx *SetCodeTx) value() *big.Int        { return u256ToBig(tx.Value) }
func (tx *SetCodeTx) nonce() uint64          { return tx.Nonce }
func (tx *SetCodeTx) to() *common.Address    { tmp := tx.To; return &tmp }

func (tx *SetCodeTx) effectiveGasPrice(dst *big.Int, baseFee *big.Int) *big.Int {
	return dynamicFeePrice(dst, tx.gasTipCap(), tx.gasFeeCap(), baseFee)
}

func (tx *SetCodeTx) rawSignatureValues() (v, r, s *big.Int) {
	return u256ToBig(tx.V), u256ToBig(tx.R), u256ToBig(tx.S)
}

func (tx *SetCodeTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.ChainID = uint256.MustFromBig(chainID)
	tx.V = uint256.MustFromBig(v)
	tx.R = uint256.MustFromBig(r)
	tx.S = uint256.MustFromBig(s)
}

func (tx *SetCodeTx) fieldsSize(m encodeMode) int {
	size := tx.chainIDSize(m) +
		rlp.IntSize(tx.Nonce) +
		rlp.Uint256Size(tx.GasTipCap) +
		rlp.Uint256Size(tx.GasFeeCap) +
		rlp.IntSize(tx.Gas) +
		1 + common.AddressLength +
		rlp.Uint256Size(tx.Value) +
		rlp.BytesSize(tx.Data) +
		tx.AccessList.EncodingSize() +
		authListSize(tx.AuthList)
	if !m.sigHash {
		size += rlp.Uint256Size(tx.V) + rlp.Uint256Size(tx.R) + rlp.Uint256Size(tx.S)
	}
	return size
}

func (tx *SetCodeTx) chainIDSize(m encodeMode) int {
	if m.sigHash && m.chainID != nil {
		return rlp.BigIntSize(m.chainID)
	}
	return rlp.Uint256Size(tx.ChainID)
}

func (tx *SetCodeTx) encodeFields(w *rlp.Encoder, m encodeMode) {
	if m.sigHash && m.chainID != nil {
		w.WriteBigInt(m.chainID)
	} else {
		w.WriteUint256(tx.ChainID)
	}
	w.WriteUint64(tx.Nonce)
	w.WriteUint256(tx.GasTipCap)
	w.WriteUint256(tx.GasFeeCap)
	w.WriteUint64(tx.Gas)
	w.WriteBytes(tx.To[:])
	w.WriteUint256(tx.Value)
	w.WriteBytes(tx.Data)
	tx.AccessList.EncodeRLP(w)
	encodeAuthList(w, tx.AuthList)
	if !m.sigHash {
		w.WriteUint256(tx.V)
		w.WriteUint256(tx.R)
		w.WriteUint256(tx.S)
	}
}

func (tx *SetCodeTx) decodeFields(d *rlp.Decoder) (err error) {
	if err = readUint256s(d, &tx.ChainID); err != nil {
		return err
	}
	if tx.Nonce, err = d.Uint64(); err != nil {
		return err
	}
	if err = readUint256s(d, &tx.GasTipCap, &tx.GasFeeCap); err != nil {
		return err
	}
	if tx.Gas, err = d.Uint64(); err != nil {
		return err
	}
	if err = d.ReadBytes(tx.To[:]); err != nil {
		return err
	}
	if err = readUint256s(d, &tx.Value); err != nil {
		return err
	}
	if tx.Data, err = d.Bytes(); err != nil {
		return err
	}
	tx.Data = common.CopyBytes(tx.Data)
	if err = tx.AccessList.DecodeRLP(d); err != nil {
		return err
	}
	if tx.AuthList, err = decodeAuthList(d); err != nil {
		return err
	}
	return readUint256s(d, &tx.V, &tx.R, &tx.S)
}

func u256Copy(x *uint256.Int) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(x)
}

func u256ToBig(x *uint256.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return x.ToBig()
}
