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

// Package hdwallet derives signing keys from BIP-39 mnemonics along BIP-32
// derivation paths.
package hdwallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/Kr1ptal/ethers-go/accounts"
	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/log"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"
)

// Scheme is the URL scheme of signers derived from a wallet.
const Scheme = "hd"

var (
	// ErrInvalidMnemonic is returned for phrases with unknown words, a bad word
	// count or a failing checksum.
	ErrInvalidMnemonic = errors.New("hdwallet: invalid mnemonic")

	// ErrInvalidEntropy is returned by NewMnemonic for unsupported entropy sizes.
	ErrInvalidEntropy = errors.New("hdwallet: entropy must be 128-256 bits in steps of 32")
)

// Wallet is a BIP-32 master key. It is safe for concurrent use.
type Wallet struct {
	master *bip32.Key
}

// NewMnemonic generates a random mnemonic from the given amount of entropy
// bits (128 gives 12 words, 256 gives 24).
func NewMnemonic(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("%w: %d", ErrInvalidEntropy, bits)
	}
	return bip39.NewMnemonic(entropy)
}

// NewFromMnemonic validates mnemonic and creates the wallet for its seed. The
// passphrase is the optional BIP-39 password. Both are NFKD normalized.
func NewFromMnemonic(mnemonic, passphrase string) (*Wallet, error) {
	mnemonic = strings.Join(strings.Fields(norm.NFKD.String(mnemonic)), " ")
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, norm.NFKD.String(passphrase))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return NewFromSeed(seed)
}

// NewFromSeed creates a wallet from a raw BIP-32 seed.
func NewFromSeed(seed []byte) (*Wallet, error) {
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	return &Wallet{master: master}, nil
}

// Derive returns the private key at path.
func (w *Wallet) Derive(path accounts.DerivationPath) (*ecdsa.PrivateKey, error) {
	key := w.master
	for i, n := range path {
		child, err := key.NewChildKey(n)
		if err != nil {
			return nil, fmt.Errorf("deriving %v at depth %d: %w", path, i+1, err)
		}
		key = child
	}
	prv, err := crypto.ToECDSA(common.LeftPadBytes(key.Key, 32))
	if err != nil {
		return nil, err
	}
	log.Debug("Derived HD key", "path", path, "address", crypto.PubkeyToAddress(prv.PublicKey))
	return prv, nil
}

// Address returns the address of the key at path.
func (w *Wallet) Address(path accounts.DerivationPath) (common.Address, error) {
	prv, err := w.Derive(path)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(prv.PublicKey), nil
}

// Signer returns a signer for the key at path.
func (w *Wallet) Signer(path accounts.DerivationPath) (*accounts.KeySigner, error) {
	prv, err := w.Derive(path)
	if err != nil {
		return nil, err
	}
	return accounts.NewKeySigner(prv, URL(path)), nil
}

// Accounts derives n consecutive accounts starting at base, incrementing the
// last path component.
func (w *Wallet) Accounts(base accounts.DerivationPath, n int) ([]accounts.Account, error) {
	if len(base) == 0 {
		return nil, fmt.Errorf("%w: empty base path", accounts.ErrInvalidDerivationPath)
	}
	out := make([]accounts.Account, 0, max(n, 0))
	for i := 0; i < n; i++ {
		path, err := base.Offset(uint32(i))
		if err != nil {
			return nil, err
		}
		addr, err := w.Address(path)
		if err != nil {
			return nil, err
		}
		out = append(out, accounts.Account{Address: addr, URL: URL(path)})
	}
	return out, nil
}

// URL returns the account URL of a derived key.
func URL(path accounts.DerivationPath) accounts.URL {
	return accounts.URL{Scheme: Scheme, Path: path.String()}
}
