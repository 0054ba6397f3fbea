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

// Package accounts defines the signing contract shared by key, mnemonic and
// keystore backed signers, and the EIP-191 message hashing they use.
package accounts

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strconv"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/core/types"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/signer/eip712"
	"golang.org/x/crypto/sha3"
)

// Account represents an Ethereum account located at a specific location defined
// by the optional URL field.
type Account struct {
	Address common.Address `json:"address"` // Ethereum account address derived from the key
	URL     URL            `json:"url"`     // Optional resource locator within a backend
}

// Signer is an account that can produce secp256k1 signatures. Implementations
// may hold the key in memory or delegate to an external device or service.
type Signer interface {
	// Address returns the address of the signing account.
	Address() common.Address

	// SignHash signs an arbitrary 32 byte hash. Callers are responsible for
	// hashing untrusted input first.
	SignHash(hash common.Hash) (*crypto.Signature, error)

	// SignTx signs the transaction for the given chain. A nil or zero chainID
	// selects pre EIP-155 legacy signing.
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// TextHash is a helper function that calculates a hash for the given message that can be
// safely used to calculate a signature from.
//
// The hash is calculated as
//
//	keccak256("\x19Ethereum Signed Message:\n"${message length}${message}).
//
// This gives context to the signed message and prevents signing of transactions.
func TextHash(data []byte) []byte {
	hash, _ := TextAndHash(data)
	return hash
}

// TextAndHash is a helper function that calculates a hash for the given message that can be
// safely used to calculate a signature from.
//
// The hash is calculated as
//
//	keccak256("\x19Ethereum Signed Message:\n"${message length}${message}).
//
// This gives context to the signed message and prevents signing of transactions.
func TextAndHash(data []byte) ([]byte, string) {
	msg := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(data)) + string(data)
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(msg))
	return hasher.Sum(nil), msg
}

// SignText signs the EIP-191 hash of data.
func SignText(s Signer, data []byte) (*crypto.Signature, error) {
	return s.SignHash(common.BytesToHash(TextHash(data)))
}

// RecoverText returns the address that signed data with sig. The second
// return value is false if the signature is invalid.
func RecoverText(sig *crypto.Signature, data []byte) (common.Address, bool) {
	return sig.RecoverAddress(common.BytesToHash(TextHash(data)))
}

// SignTypedData signs the EIP-712 hash of td.
func SignTypedData(s Signer, td *eip712.TypedData) (*crypto.Signature, error) {
	hash, err := td.Hash()
	if err != nil {
		return nil, err
	}
	return s.SignHash(hash)
}

// KeySigner is a Signer backed by a private key held in memory.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	account Account
}

// NewKeySigner creates a signer for prv. url optionally records where the key
// was loaded from.
func NewKeySigner(prv *ecdsa.PrivateKey, url URL) *KeySigner {
	return &KeySigner{
		key:     prv,
		account: Account{Address: crypto.PubkeyToAddress(prv.PublicKey), URL: url},
	}
}

// Account returns the account of the signer.
func (s *KeySigner) Account() Account { return s.account }

// Address implements Signer.
func (s *KeySigner) Address() common.Address { return s.account.Address }

// PublicKey returns the public key of the signer.
func (s *KeySigner) PublicKey() *ecdsa.PublicKey { return &s.key.PublicKey }

// SignHash implements Signer.
func (s *KeySigner) SignHash(hash common.Hash) (*crypto.Signature, error) {
	return crypto.SignHash(hash, s.key)
}

// SignTx implements Signer using the most permissive transaction signer for
// chainID.
func (s *KeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	return signed, nil
}

// SignAuthorization signs an EIP-7702 authorization.
func (s *KeySigner) SignAuthorization(auth types.SetCodeAuthorization) (types.SetCodeAuthorization, error) {
	return types.SignSetCode(s.key, auth)
}
