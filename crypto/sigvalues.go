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

package crypto

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/holiman/uint256"
)

var (
	secp256k1NU256     = uint256.MustFromBig(secp256k1N)
	secp256k1halfNU256 = uint256.MustFromBig(secp256k1halfN)

	errInvalidSigLen = errors.New("invalid signature length")
	errInvalidV      = errors.New("invalid signature recovery id")
)

// Signature is a secp256k1 signature with its recovery id. V always holds the
// raw recovery id (0 or 1); chain specific encodings are produced by LegacyV
// and Electrum.
type Signature struct {
	R, S uint256.Int
	V    byte
}

// SignHash signs the given hash and returns the signature values.
func SignHash(hash common.Hash, prv *ecdsa.PrivateKey) (*Signature, error) {
	sig, err := Sign(hash[:], prv)
	if err != nil {
		return nil, err
	}
	return SignatureFromBytes(sig)
}

// SignatureFromBytes parses a 65 byte [R || S || V] signature. V may be the raw
// recovery id or the Electrum form (27/28).
func SignatureFromBytes(sig []byte) (*Signature, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: have %d, want %d", errInvalidSigLen, len(sig), SignatureLength)
	}
	v := sig[RecoveryIDOffset]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return nil, errInvalidV
	}
	s := &Signature{V: v}
	s.R.SetBytes32(sig[:32])
	s.S.SetBytes32(sig[32:64])
	return s, nil
}

// SignatureFromValues builds a signature from the chain encoded v value. v can
// be a raw recovery id (0/1), Electrum (27/28) or EIP-155 (chainID*2+35/36)
// when chainID is non-nil.
func SignatureFromValues(v, r, s *big.Int, chainID *big.Int) (*Signature, error) {
	id, ok := RecoveryID(v, chainID)
	if !ok {
		return nil, errInvalidV
	}
	sig := &Signature{V: id}
	if sig.R.SetFromBig(r) || sig.S.SetFromBig(s) {
		return nil, errors.New("signature value exceeds 256 bits")
	}
	return sig, nil
}

// RecoveryID extracts the recovery id from a chain encoded v value.
func RecoveryID(v *big.Int, chainID *big.Int) (byte, bool) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, false
	}
	raw := v.Uint64()
	switch {
	case raw <= 1:
		return byte(raw), true
	case raw == 27 || raw == 28:
		return byte(raw - 27), true
	case chainID != nil && chainID.Sign() > 0:
		id := new(big.Int).Sub(v, new(big.Int).Lsh(chainID, 1))
		id.Sub(id, big.NewInt(35))
		if id.Sign() < 0 || id.Cmp(common.Big1) > 0 {
			return 0, false
		}
		return byte(id.Uint64()), true
	}
	return 0, false
}

// Bytes returns the signature in the 65 byte [R || S || V] format with V
// being the raw recovery id.
func (s *Signature) Bytes() []byte {
	out := make([]byte, SignatureLength)
	s.R.WriteToSlice(out[:32])
	s.S.WriteToSlice(out[32:64])
	out[RecoveryIDOffset] = s.V
	return out
}

// Electrum returns the recovery id offset by 27, as used by personal message
// signatures.
func (s *Signature) Electrum() byte {
	return s.V + 27
}

// LegacyV returns v as encoded in legacy transactions: chainID*2+35+V when a
// chain id is given (EIP-155), 27+V otherwise.
func (s *Signature) LegacyV(chainID *big.Int) *big.Int {
	if chainID == nil || chainID.Sign() == 0 {
		return big.NewInt(int64(s.V) + 27)
	}
	v := new(big.Int).Lsh(chainID, 1)
	return v.Add(v, big.NewInt(int64(s.V)+35))
}

// IsCanonical reports whether r and s are in range and s is in the lower half
// of the curve order.
func (s *Signature) IsCanonical() bool {
	if s.R.IsZero() || s.S.IsZero() || s.V > 1 {
		return false
	}
	return s.R.Lt(secp256k1NU256) && !s.S.Gt(secp256k1halfNU256)
}

// RecoverPublicKey recovers the public key that produced the signature over
// hash. The second return value is false if the signature is invalid.
func (s *Signature) RecoverPublicKey(hash common.Hash) (*ecdsa.PublicKey, bool) {
	if s.V > 1 || s.R.IsZero() || s.S.IsZero() || !s.R.Lt(secp256k1NU256) || !s.S.Lt(secp256k1NU256) {
		return nil, false
	}
	pub, err := SigToPub(hash[:], s.Bytes())
	if err != nil {
		return nil, false
	}
	return pub, true
}

// RecoverAddress recovers the address of the account that produced the
// signature over hash.
func (s *Signature) RecoverAddress(hash common.Hash) (common.Address, bool) {
	pub, ok := s.RecoverPublicKey(hash)
	if !ok {
		return common.Address{}, false
	}
	return PubkeyToAddress(*pub), true
}

// String implements fmt.Stringer.
func (s *Signature) String() string {
	return fmt.Sprintf("Signature{r: %#x, s: %#x, v: %d}", s.R.Bytes32(), s.S.Bytes32(), s.V)
}
