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
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"runtime"
	"time"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/log"
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidChainId = errors.New("invalid chain id for signer")

// sigCache is used to cache the derived sender and contains
// the signer used to derive it.
type sigCache struct {
	signer Signer
	from   common.Address
}

// LatestSignerForChainID returns the 'most permissive' Signer available. Specifically,
// this enables support for EIP-155 replay protection and all implemented EIP-2718
// transaction types if chainID is positive.
//
// If chainID is nil or zero, the returned signer only accepts unprotected legacy
// transactions. A negative chainID gives a signer that fails every operation
// with ErrInvalidChainId.
func LatestSignerForChainID(chainID *big.Int) Signer {
	switch {
	case chainID == nil || chainID.Sign() == 0:
		return HomesteadSigner{}
	case chainID.Sign() < 0:
		return invalidSigner{chainID: new(big.Int).Set(chainID)}
	}
	return NewPragueSigner(chainID)
}

// SignTx signs the transaction using the given signer and private key.
func SignTx(tx *Transaction, s Signer, prv *ecdsa.PrivateKey) (*Transaction, error) {
	h, err := s.Hash(tx)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.SignHash(h, prv)
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(s, sig)
}

// SignNewTx creates a transaction and signs it.
func SignNewTx(prv *ecdsa.PrivateKey, s Signer, txdata TxData) (*Transaction, error) {
	return SignTx(NewTx(txdata), s, prv)
}

// MustSignNewTx creates a transaction and signs it.
// This panics if the transaction cannot be signed.
func MustSignNewTx(prv *ecdsa.PrivateKey, s Signer, txdata TxData) *Transaction {
	tx, err := SignNewTx(prv, s, txdata)
	if err != nil {
		panic(err)
	}
	return tx
}

// Sender returns the address derived from the signature (V, R, S) using secp256k1
// elliptic curve. The second return value is false if the signature is invalid
// or the signer does not accept the transaction.
//
// Sender may cache the address, allowing it to be used regardless of
// signing method. The cache is invalidated if the cached signer does
// not match the signer used in the current call.
func Sender(signer Signer, tx *Transaction) (common.Address, bool) {
	addr, err := sender(signer, tx)
	return addr, err == nil
}

func sender(signer Signer, tx *Transaction) (common.Address, error) {
	if sc := tx.from.Load(); sc != nil {
		// If the signer used to derive from in a previous
		// call is not the same as used current, invalidate
		// the cache.
		if sc.signer.Equal(signer) {
			return sc.from, nil
		}
	}
	addr, err := signer.Sender(tx)
	if err != nil {
		return common.Address{}, err
	}
	tx.from.Store(&sigCache{signer: signer, from: addr})
	return addr, nil
}

// RecoverSenders derives the senders of txs in parallel. Recovered addresses
// are cached in the transactions. The first failure cancels the remaining
// work and is returned together with the index of the offending transaction.
func RecoverSenders(ctx context.Context, signer Signer, txs []*Transaction) ([]common.Address, error) {
	var (
		start   = time.Now()
		senders = make([]common.Address, len(txs))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			from, err := sender(signer, tx)
			if err != nil {
				return fmt.Errorf("tx %d (%v): %w", i, tx.Hash(), err)
			}
			senders[i] = from
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("Recovered transaction senders", "count", len(txs), "elapsed", time.Since(start))
	return senders, nil
}

// Signer encapsulates transaction signature handling. The name of this type is slightly
// misleading because Signers don't actually sign, they're just for validating and
// processing of signatures.
//
// Note that this interface is not a stable API and may change at any time to accommodate
// new protocol rules.
type Signer interface {
	// Sender returns the sender address of the transaction.
	Sender(tx *Transaction) (common.Address, error)

	// SignatureValues returns the raw R, S, V values corresponding to the
	// given signature.
	SignatureValues(tx *Transaction, sig *crypto.Signature) (r, s, v *big.Int, err error)
	ChainID() *big.Int

	// Hash returns 'signature hash', i.e. the transaction hash that is signed by the
	// private key. This hash does not uniquely identify the transaction. It fails
	// for transaction types the signer does not accept and for fields that
	// cannot be encoded.
	Hash(tx *Transaction) (common.Hash, error)

	// Equal returns true if the given signer is the same as the receiver.
	Equal(Signer) bool
}

// modernSigner accepts legacy transactions and the typed transactions listed in
// txtypes, all bound to a single chain id.
type modernSigner struct {
	txtypes mapset.Set[byte]
	chainID *big.Int
	legacy  EIP155Signer
}

func newModernSigner(chainID *big.Int, types ...byte) Signer {
	if chainID == nil || chainID.Sign() <= 0 {
		panic(fmt.Sprintf("invalid chainID %v", chainID))
	}
	s := modernSigner{
		txtypes: mapset.NewThreadUnsafeSet[byte](LegacyTxType),
		chainID: chainID,
		legacy:  NewEIP155Signer(chainID),
	}
	s.txtypes.Append(types...)
	return s
}

// NewEIP2930Signer returns a signer that accepts EIP-2930 access list
// transactions, EIP-155 replay protected transactions, and legacy Homestead
// transactions.
func NewEIP2930Signer(chainId *big.Int) Signer {
	return newModernSigner(chainId, AccessListTxType)
}

// NewLondonSigner returns a signer that accepts
//   - EIP-1559 dynamic fee transactions
//   - EIP-2930 access list transactions,
//   - EIP-155 replay protected transactions, and
//   - legacy Homestead transactions.
func NewLondonSigner(chainId *big.Int) Signer {
	return newModernSigner(chainId, AccessListTxType, DynamicFeeTxType)
}

// NewPragueSigner returns a signer that accepts
//   - EIP-7702 set code transactions
//   - EIP-1559 dynamic fee transactions
//   - EIP-2930 access list transactions,
//   - EIP-155 replay protected transactions, and
//   - legacy Homestead transactions.
func NewPragueSigner(chainId *big.Int) Signer {
	return newModernSigner(chainId, AccessListTxType, DynamicFeeTxType, SetCodeTxType)
}

func (s modernSigner) ChainID() *big.Int {
	return s.chainID
}

func (s modernSigner) Equal(s2 Signer) bool {
	other, ok := s2.(modernSigner)
	return ok && s.chainID.Cmp(other.chainID) == 0 && s.txtypes.Equal(other.txtypes)
}

func (s modernSigner) Hash(tx *Transaction) (common.Hash, error) {
	tt := tx.Type()
	if tt == LegacyTxType {
		return s.legacy.Hash(tx)
	}
	if !s.supportsType(tt) {
		return common.Hash{}, ErrTxTypeNotSupported
	}
	return prefixedRlpHash(tt, txFields{
		inner: tx.inner,
		mode:  encodeMode{sigHash: true, chainID: s.chainID},
	})
}

func (s modernSigner) supportsType(txtype byte) bool {
	return s.txtypes.Contains(txtype)
}

func (s modernSigner) Sender(tx *Transaction) (common.Address, error) {
	tt := tx.Type()
	if !s.supportsType(tt) {
		return common.Address{}, ErrTxTypeNotSupported
	}
	if tt == LegacyTxType {
		return s.legacy.Sender(tx)
	}
	if tx.ChainId().Cmp(s.chainID) != 0 {
		return common.Address{}, fmt.Errorf("%w: have %d want %d", ErrInvalidChainId, tx.ChainId(), s.chainID)
	}
	// 'modern' txs are defined to use 0 and 1 as their recovery
	// id, add 27 to become equivalent to unprotected Homestead signatures.
	h, err := s.Hash(tx)
	if err != nil {
		return common.Address{}, err
	}
	V, R, S := tx.RawSignatureValues()
	return recoverPlain(h, R, S, V, true)
}

func (s modernSigner) SignatureValues(tx *Transaction, sig *crypto.Signature) (R, S, V *big.Int, err error) {
	tt := tx.Type()
	if !s.supportsType(tt) {
		return nil, nil, nil, ErrTxTypeNotSupported
	}
	if tt == LegacyTxType {
		return s.legacy.SignatureValues(tx, sig)
	}
	// Check that chain ID of tx matches the signer. We also accept ID zero here,
	// because it indicates that the chain ID was not specified in the tx.
	if chainID := tx.inner.chainID(); chainID != nil && chainID.Sign() != 0 && chainID.Cmp(s.chainID) != 0 {
		return nil, nil, nil, fmt.Errorf("%w: have %d want %d", ErrInvalidChainId, chainID, s.chainID)
	}
	return sig.R.ToBig(), sig.S.ToBig(), big.NewInt(int64(sig.V)), nil
}

// EIP155Signer implements Signer using the EIP-155 rules. This accepts transactions which
// are replay-protected as well as unprotected homestead transactions.
type EIP155Signer struct {
	chainId, chainIdMul *big.Int
}

func NewEIP155Signer(chainId *big.Int) EIP155Signer {
	if chainId == nil {
		chainId = new(big.Int)
	}
	return EIP155Signer{
		chainId:    chainId,
		chainIdMul: new(big.Int).Mul(chainId, big.NewInt(2)),
	}
}

func (s EIP155Signer) ChainID() *big.Int {
	return s.chainId
}

func (s EIP155Signer) Equal(s2 Signer) bool {
	eip155, ok := s2.(EIP155Signer)
	return ok && eip155.chainId.Cmp(s.chainId) == 0
}

var big35 = big.NewInt(35)

func (s EIP155Signer) Sender(tx *Transaction) (common.Address, error) {
	if tx.Type() != LegacyTxType {
		return common.Address{}, ErrTxTypeNotSupported
	}
	if !tx.Protected() {
		return HomesteadSigner{}.Sender(tx)
	}
	if tx.ChainId().Cmp(s.chainId) != 0 {
		return common.Address{}, fmt.Errorf("%w: have %d want %d", ErrInvalidChainId, tx.ChainId(), s.chainId)
	}
	h, err := s.Hash(tx)
	if err != nil {
		return common.Address{}, err
	}
	V, R, S := tx.RawSignatureValues()
	V = new(big.Int).Sub(V, s.chainIdMul)
	V.Sub(V, big35)
	return recoverPlain(h, R, S, V, true)
}

// SignatureValues returns signature values. This signature
// needs to be in the [R || S || V] format where V is 0 or 1.
func (s EIP155Signer) SignatureValues(tx *Transaction, sig *crypto.Signature) (R, S, V *big.Int, err error) {
	if tx.Type() != LegacyTxType {
		return nil, nil, nil, ErrTxTypeNotSupported
	}
	return sig.R.ToBig(), sig.S.ToBig(), sig.LegacyV(s.chainId), nil
}

// Hash returns the hash to be signed by the sender.
// It does not uniquely identify the transaction.
func (s EIP155Signer) Hash(tx *Transaction) (common.Hash, error) {
	if tx.Type() != LegacyTxType {
		return common.Hash{}, ErrTxTypeNotSupported
	}
	return rlpHash(txFields{
		inner: tx.inner,
		mode:  encodeMode{sigHash: true, chainID: s.chainId},
	})
}

// HomesteadSigner implements Signer using the homestead rules. It only accepts
// unprotected legacy transactions.
type HomesteadSigner struct{}

func (hs HomesteadSigner) ChainID() *big.Int {
	return nil
}

func (hs HomesteadSigner) Equal(s2 Signer) bool {
	_, ok := s2.(HomesteadSigner)
	return ok
}

// SignatureValues returns signature values. This signature
// needs to be in the [R || S || V] format where V is 0 or 1.
func (hs HomesteadSigner) SignatureValues(tx *Transaction, sig *crypto.Signature) (r, s, v *big.Int, err error) {
	if tx.Type() != LegacyTxType {
		return nil, nil, nil, ErrTxTypeNotSupported
	}
	return sig.R.ToBig(), sig.S.ToBig(), sig.LegacyV(nil), nil
}

func (hs HomesteadSigner) Sender(tx *Transaction) (common.Address, error) {
	if tx.Type() != LegacyTxType {
		return common.Address{}, ErrTxTypeNotSupported
	}
	if tx.Protected() {
		return common.Address{}, ErrUnexpectedProtection
	}
	v, r, s := tx.RawSignatureValues()
	if v == nil {
		return common.Address{}, ErrInvalidSig
	}
	h, err := hs.Hash(tx)
	if err != nil {
		return common.Address{}, err
	}
	return recoverPlain(h, r, s, new(big.Int).Sub(v, big.NewInt(27)), true)
}

// Hash returns the hash to be signed by the sender.
// It does not uniquely identify the transaction.
func (hs HomesteadSigner) Hash(tx *Transaction) (common.Hash, error) {
	if tx.Type() != LegacyTxType {
		return common.Hash{}, ErrTxTypeNotSupported
	}
	return rlpHash(txFields{inner: tx.inner, mode: encodeMode{sigHash: true}})
}

// invalidSigner is returned by LatestSignerForChainID for negative chain ids.
type invalidSigner struct {
	chainID *big.Int
}

func (s invalidSigner) err() error {
	return fmt.Errorf("%w: %v", ErrInvalidChainId, s.chainID)
}

func (s invalidSigner) ChainID() *big.Int { return s.chainID }

func (s invalidSigner) Equal(s2 Signer) bool {
	other, ok := s2.(invalidSigner)
	return ok && s.chainID.Cmp(other.chainID) == 0
}

func (s invalidSigner) Sender(*Transaction) (common.Address, error) {
	return common.Address{}, s.err()
}

func (s invalidSigner) SignatureValues(*Transaction, *crypto.Signature) (r, s2, v *big.Int, err error) {
	return nil, nil, nil, s.err()
}

func (s invalidSigner) Hash(*Transaction) (common.Hash, error) {
	return common.Hash{}, s.err()
}

// recoverPlain recovers the signer of sighash. recid is the raw recovery id
// (0 or 1) and homestead enforces the lower-s rule.
func recoverPlain(sighash common.Hash, R, S, recid *big.Int, homestead bool) (common.Address, error) {
	if R == nil || S == nil || recid == nil || recid.Sign() < 0 || recid.BitLen() > 8 {
		return common.Address{}, ErrInvalidSig
	}
	V := byte(recid.Uint64())
	if !crypto.ValidateSignatureValues(V, R, S, homestead) {
		return common.Address{}, ErrInvalidSig
	}
	sig := &crypto.Signature{V: V}
	sig.R.SetFromBig(R)
	sig.S.SetFromBig(S)
	addr, ok := sig.RecoverAddress(sighash)
	if !ok {
		return common.Address{}, ErrInvalidSig
	}
	return addr, nil
}
