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
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/rlp"
	"github.com/holiman/uint256"
)

var (
	ErrInvalidSig           = errors.New("invalid transaction v, r, s values")
	ErrUnexpectedProtection = errors.New("transaction type does not supported EIP-155 protected signatures")
	ErrInvalidTxType        = errors.New("transaction type not valid in this context")
	ErrTxTypeNotSupported   = errors.New("transaction type not supported")
	ErrGasFeeCapTooLow      = errors.New("fee cap less than base fee")
	errShortTypedTx         = errors.New("typed transaction too short")
	errInvalidAddress       = errors.New("invalid address length")
)

// Transaction types.
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01
	DynamicFeeTxType = 0x02
	SetCodeTxType    = 0x04
)

// Transaction is an Ethereum transaction.
type Transaction struct {
	inner TxData    // Consensus contents of a transaction
	time  time.Time // Time first seen locally

	// caches
	hash atomic.Pointer[common.Hash]
	size atomic.Uint64
	from atomic.Pointer[sigCache]
}

// NewTx creates a new transaction.
func NewTx(inner TxData) *Transaction {
	tx := new(Transaction)
	tx.setDecoded(inner.copy(), 0)
	return tx
}

// TxData is the underlying data of a transaction.
//
// This is implemented by LegacyTx, AccessListTx, DynamicFeeTx and SetCodeTx.
type TxData interface {
	txType() byte // returns the type ID
	copy() TxData // creates a deep copy and initializes all fields

	chainID() *big.Int
	accessList() AccessList
	data() []byte
	gas() uint64
	gasPrice() *big.Int
	gasTipCap() *big.Int
	gasFeeCap() *big.Int
	value() *big.Int
	nonce() uint64
	to() *common.Address

	rawSignatureValues() (v, r, s *big.Int)
	setSignatureValues(chainID, v, r, s *big.Int)

	// effectiveGasPrice computes the gas price paid by the transaction, given
	// the inclusion block baseFee.
	effectiveGasPrice(dst *big.Int, baseFee *big.Int) *big.Int

	// fieldsSize and encodeFields produce the content of the transaction's RLP
	// list in either its signed form or the unsigned form hashed by signers.
	fieldsSize(m encodeMode) int
	encodeFields(w *rlp.Encoder, m encodeMode)
	decodeFields(d *rlp.Decoder) error
}

// encodeMode selects the RLP form of a transaction.
type encodeMode struct {
	sigHash bool     // leave out the signature
	chainID *big.Int // chain id committed to by the signature hash
}

// txFields is the RLP list of a transaction's fields.
type txFields struct {
	inner TxData
	mode  encodeMode
}

func (f txFields) EncodingSize() int {
	return rlp.ListSize(f.inner.fieldsSize(f.mode))
}

func (f txFields) EncodeRLP(w *rlp.Encoder) {
	w.WriteListHeader(f.inner.fieldsSize(f.mode))
	f.inner.encodeFields(w, f.mode)
}

// EncodingSize returns the size of the network encoding of tx.
func (tx *Transaction) EncodingSize() int {
	if tx.Type() == LegacyTxType {
		return txFields{inner: tx.inner}.EncodingSize()
	}
	n := 1 + txFields{inner: tx.inner}.EncodingSize()
	return rlp.HeadSize(n) + n
}

// EncodeRLP implements rlp.Encodable. Typed transactions are wrapped in an
// RLP string.
func (tx *Transaction) EncodeRLP(w *rlp.Encoder) {
	fields := txFields{inner: tx.inner}
	if tx.Type() == LegacyTxType {
		fields.EncodeRLP(w)
		return
	}
	w.WriteStringHeader(1 + fields.EncodingSize())
	tx.encodeTyped(w)
}

// encodeTyped writes the canonical encoding of a typed transaction to w.
func (tx *Transaction) encodeTyped(w *rlp.Encoder) {
	w.WriteRaw([]byte{tx.Type()})
	txFields{inner: tx.inner}.EncodeRLP(w)
}

// MarshalBinary returns the canonical encoding of the transaction.
// For legacy transactions, it returns the RLP encoding. For EIP-2718 typed
// transactions, it returns the type and payload.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	fields := txFields{inner: tx.inner}
	if tx.Type() == LegacyTxType {
		return rlp.EncodeToBytes(fields)
	}
	size := 1 + fields.EncodingSize()
	w := rlp.NewEncoderSize(size)
	tx.encodeTyped(w)
	out, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	if len(out) != size {
		return nil, rlp.ErrSizeMismatch
	}
	return out, nil
}

// DecodeRLP implements rlp.Decodable.
func (tx *Transaction) DecodeRLP(d *rlp.Decoder) error {
	kind, size, err := d.Kind()
	switch {
	case err != nil:
		return err
	case kind == rlp.List:
		// It's a legacy transaction.
		var inner LegacyTx
		if err := d.DecodeList(inner.decodeFields); err != nil {
			return err
		}
		tx.setDecoded(&inner, uint64(rlp.ListSize(int(size))))
		return nil
	case kind == rlp.Byte:
		return errShortTypedTx
	default:
		// It's an EIP-2718 typed TX envelope.
		b, err := d.Bytes()
		if err != nil {
			return err
		}
		inner, err := tx.decodeTyped(b)
		if err != nil {
			return err
		}
		tx.setDecoded(inner, uint64(len(b)))
		return nil
	}
}

// UnmarshalBinary decodes the canonical encoding of transactions.
// It supports legacy RLP transactions and EIP-2718 typed transactions.
func (tx *Transaction) UnmarshalBinary(b []byte) error {
	if len(b) > 0 && b[0] > 0x7f {
		// It's a legacy transaction.
		var data LegacyTx
		if err := decodeFieldList(b, &data); err != nil {
			return err
		}
		tx.setDecoded(&data, uint64(len(b)))
		return nil
	}
	// It's an EIP-2718 typed transaction envelope.
	inner, err := tx.decodeTyped(b)
	if err != nil {
		return err
	}
	tx.setDecoded(inner, uint64(len(b)))
	return nil
}

// decodeTyped decodes a typed transaction from the canonical format.
func (tx *Transaction) decodeTyped(b []byte) (TxData, error) {
	if len(b) <= 1 {
		return nil, errShortTypedTx
	}
	var inner TxData
	switch b[0] {
	case AccessListTxType:
		inner = new(AccessListTx)
	case DynamicFeeTxType:
		inner = new(DynamicFeeTx)
	case SetCodeTxType:
		inner = new(SetCodeTx)
	default:
		return nil, fmt.Errorf("%w: type %#x", ErrTxTypeNotSupported, b[0])
	}
	return inner, decodeFieldList(b[1:], inner)
}

// decodeFieldList decodes b, which must hold exactly one RLP list, into inner.
func decodeFieldList(b []byte, inner TxData) error {
	d := rlp.NewDecoder(b)
	if err := d.DecodeList(inner.decodeFields); err != nil {
		return err
	}
	return d.Finish()
}

// setDecoded sets the inner transaction and size after decoding.
func (tx *Transaction) setDecoded(inner TxData, size uint64) {
	tx.inner = inner
	tx.time = time.Now()
	if size > 0 {
		tx.size.Store(size)
	}
}

func isProtectedV(V *big.Int) bool {
	if V.BitLen() <= 8 {
		v := V.Uint64()
		return v != 27 && v != 28 && v != 1 && v != 0
	}
	// anything not 27 or 28 is considered protected
	return true
}

// Protected says whether the transaction is replay-protected.
func (tx *Transaction) Protected() bool {
	switch tx := tx.inner.(type) {
	case *LegacyTx:
		return tx.V != nil && isProtectedV(tx.V)
	default:
		return true
	}
}

// Type returns the transaction type.
func (tx *Transaction) Type() uint8 {
	return tx.inner.txType()
}

// ChainId returns the EIP155 chain ID of the transaction. The return value will always be
// non-nil. For legacy transactions which are not replay-protected, the return value is
// zero.
func (tx *Transaction) ChainId() *big.Int {
	return tx.inner.chainID()
}

// Data returns the input data of the transaction.
func (tx *Transaction) Data() []byte { return tx.inner.data() }

// AccessList returns the access list of the transaction.
func (tx *Transaction) AccessList() AccessList { return tx.inner.accessList() }

// Gas returns the gas limit of the transaction.
func (tx *Transaction) Gas() uint64 { return tx.inner.gas() }

// GasPrice returns the gas price of the transaction.
func (tx *Transaction) GasPrice() *big.Int { return bigCopy(tx.inner.gasPrice()) }

// GasTipCap returns the gasTipCap per gas of the transaction.
func (tx *Transaction) GasTipCap() *big.Int { return bigCopy(tx.inner.gasTipCap()) }

// GasFeeCap returns the fee cap per gas of the transaction.
func (tx *Transaction) GasFeeCap() *big.Int { return bigCopy(tx.inner.gasFeeCap()) }

// Value returns the ether amount of the transaction.
func (tx *Transaction) Value() *big.Int { return bigCopy(tx.inner.value()) }

// Nonce returns the sender account nonce of the transaction.
func (tx *Transaction) Nonce() uint64 { return tx.inner.nonce() }

// To returns the recipient address of the transaction.
// For contract-creation transactions, To returns nil.
func (tx *Transaction) To() *common.Address {
	return copyAddressPtr(tx.inner.to())
}

// Cost returns (gas * gasPrice) + value.
func (tx *Transaction) Cost() *big.Int {
	total := new(big.Int).Mul(tx.GasPrice(), new(big.Int).SetUint64(tx.Gas()))
	return total.Add(total, tx.Value())
}

// RawSignatureValues returns the V, R, S signature values of the transaction.
// The return values should not be modified by the caller.
// The return values may be nil or zero, if the transaction is unsigned.
func (tx *Transaction) RawSignatureValues() (v, r, s *big.Int) {
	return tx.inner.rawSignatureValues()
}

// EffectiveGasTip returns the effective miner gasTipCap for the given base fee.
// Note: if the effective gasTipCap would be negative, this method returns both
// error in addition to the negative value.
func (tx *Transaction) EffectiveGasTip(baseFee *big.Int) (*big.Int, error) {
	if baseFee == nil {
		return tx.GasTipCap(), nil
	}
	var err error
	gasFeeCap := tx.GasFeeCap()
	if gasFeeCap.Cmp(baseFee) < 0 {
		err = ErrGasFeeCapTooLow
	}
	gasFeeCap = gasFeeCap.Sub(gasFeeCap, baseFee)

	gasTipCap := tx.GasTipCap()
	if gasTipCap.Cmp(gasFeeCap) < 0 {
		return gasTipCap, err
	}
	return gasFeeCap, err
}

// EffectiveGasPrice returns the price per gas paid by the transaction when
// included in a block with the given base fee.
func (tx *Transaction) EffectiveGasPrice(baseFee *big.Int) *big.Int {
	return tx.inner.effectiveGasPrice(new(big.Int), baseFee)
}

// SetCodeAuthorizations returns the authorizations list of the transaction.
func (tx *Transaction) SetCodeAuthorizations() []SetCodeAuthorization {
	setcodetx, ok := tx.inner.(*SetCodeTx)
	if !ok {
		return nil
	}
	return setcodetx.AuthList
}

// Time returns the time when the transaction was first seen locally.
func (tx *Transaction) Time() time.Time {
	return tx.time
}

// Hash returns the transaction hash. It is the zero hash if the transaction
// has fields that cannot be encoded, see MarshalBinary for the error.
func (tx *Transaction) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return *hash
	}

	var (
		h   common.Hash
		err error
	)
	if tx.Type() == LegacyTxType {
		h, err = rlpHash(txFields{inner: tx.inner})
	} else {
		h, err = prefixedRlpHash(tx.Type(), txFields{inner: tx.inner})
	}
	if err != nil {
		return common.Hash{}
	}
	tx.hash.Store(&h)
	return h
}

// Size returns the true encoded storage size of the transaction, either by encoding
// and returning it, or returning a previously cached value.
func (tx *Transaction) Size() uint64 {
	if size := tx.size.Load(); size > 0 {
		return size
	}
	size := uint64(txFields{inner: tx.inner}.EncodingSize())
	if tx.Type() != LegacyTxType {
		size += 1 // type byte
	}
	tx.size.Store(size)
	return size
}

// WithSignature returns a new transaction with the given signature.
func (tx *Transaction) WithSignature(signer Signer, sig *crypto.Signature) (*Transaction, error) {
	r, s, v, err := signer.SignatureValues(tx, sig)
	if err != nil {
		return nil, err
	}
	if r == nil || s == nil || v == nil {
		return nil, fmt.Errorf("%w: r: %s, s: %s, v: %s", ErrInvalidSig, r, s, v)
	}
	cpy := tx.inner.copy()
	cpy.setSignatureValues(bigCopy(signer.ChainID()), v, r, s)
	return &Transaction{inner: cpy, time: tx.time}, nil
}

// Transactions is a list of transactions.
type Transactions []*Transaction

// Len returns the length of s.
func (s Transactions) Len() int { return len(s) }

// TxDifference returns a new set of transactions that are present in a but not in b.
func TxDifference(a, b Transactions) Transactions {
	keep := make(Transactions, 0, len(a))

	remove := make(map[common.Hash]struct{}, len(b))
	for _, tx := range b {
		remove[tx.Hash()] = struct{}{}
	}
	for _, tx := range a {
		if _, ok := remove[tx.Hash()]; !ok {
			keep = append(keep, tx)
		}
	}
	return keep
}

// copyAddressPtr copies an address.
func copyAddressPtr(a *common.Address) *common.Address {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}

func bigCopy(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(x)
}

// addressPtrSize returns the encoded size of an optional recipient. A nil
// address encodes as the empty string.
func addressPtrSize(a *common.Address) int {
	if a == nil {
		return 1
	}
	return 1 + common.AddressLength
}

func writeAddressPtr(w *rlp.Encoder, a *common.Address) {
	if a == nil {
		w.WriteBytes(nil)
		return
	}
	w.WriteBytes(a[:])
}

func readAddressPtr(d *rlp.Decoder) (*common.Address, error) {
	b, err := d.Bytes()
	if err != nil {
		return nil, err
	}
	switch len(b) {
	case 0:
		return nil, nil
	case common.AddressLength:
		addr := common.BytesToAddress(b)
		return &addr, nil
	default:
		return nil, fmt.Errorf("%w: %d", errInvalidAddress, len(b))
	}
}

// readBigInts decodes consecutive integers into the given targets.
func readBigInts(d *rlp.Decoder, dst ...**big.Int) error {
	for _, p := range dst {
		v, err := d.BigInt()
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

// readUint256s is like readBigInts for uint256 targets.
func readUint256s(d *rlp.Decoder, dst ...**uint256.Int) error {
	for _, p := range dst {
		v := new(uint256.Int)
		if err := d.Uint256(v); err != nil {
			return err
		}
		*p = v
	}
	return nil
}
