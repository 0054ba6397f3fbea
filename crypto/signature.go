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
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// SignatureLength is the size of a [R || S || V] signature.
	SignatureLength = 65
	// RecoveryIDOffset is the index of V within a signature.
	RecoveryIDOffset = 64

	// compactRecoveryBase is added to the recovery id in decred's compact
	// signatures, which carry it in front of R.
	compactRecoveryBase = 27
)

var errCurveMismatch = errors.New("private key curve is not secp256k1")

// Sign produces a [R || S || V] signature of a 32 byte digest, V being the raw
// recovery id. The nonce follows RFC 6979 and S is always in the lower half of
// the curve order. The digest must not be attacker chosen; hash input first.
func Sign(digest []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("digest must be %d bytes, have %d", DigestLength, len(digest))
	}
	key, err := toSecp256k1Priv(prv)
	if err != nil {
		return nil, err
	}
	defer key.Zero()

	compact := secpecdsa.SignCompact(key, digest, false)
	sig := make([]byte, SignatureLength)
	copy(sig, compact[1:])
	sig[RecoveryIDOffset] = compact[0] - compactRecoveryBase
	return sig, nil
}

func toSecp256k1Priv(prv *ecdsa.PrivateKey) (*secp256k1.PrivateKey, error) {
	if prv == nil || prv.D == nil {
		return nil, errInvalidPrivkey
	}
	if prv.Curve != S256() {
		return nil, errCurveMismatch
	}
	if prv.D.Sign() <= 0 || prv.D.BitLen() > 8*privkeyLength {
		return nil, errInvalidPrivkey
	}
	var k secp256k1.ModNScalar
	if k.SetByteSlice(prv.D.Bytes()) || k.IsZero() {
		return nil, errInvalidPrivkey
	}
	return secp256k1.NewPrivateKey(&k), nil
}

// recoverPubkey recovers the signing key of a [R || S || V] signature.
func recoverPubkey(digest, sig []byte) (*secp256k1.PublicKey, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: have %d, want %d", errInvalidSigLen, len(sig), SignatureLength)
	}
	if v := sig[RecoveryIDOffset]; v > 1 {
		return nil, fmt.Errorf("%w: %d", errInvalidV, v)
	}
	var compact [SignatureLength]byte
	compact[0] = sig[RecoveryIDOffset] + compactRecoveryBase
	copy(compact[1:], sig[:RecoveryIDOffset])
	pub, _, err := secpecdsa.RecoverCompact(compact[:], digest)
	return pub, err
}

// Ecrecover returns the 65 byte uncompressed public key that produced sig.
func Ecrecover(digest, sig []byte) ([]byte, error) {
	pub, err := recoverPubkey(digest, sig)
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}

// SigToPub returns the public key that produced sig.
func SigToPub(digest, sig []byte) (*ecdsa.PublicKey, error) {
	pub, err := recoverPubkey(digest, sig)
	if err != nil {
		return nil, err
	}
	return pub.ToECDSA(), nil
}

// VerifySignature reports whether the 64 byte [R || S] signature over digest
// was made by pubkey, given in compressed or uncompressed form. Signatures with
// S in the upper half of the curve order are rejected.
func VerifySignature(pubkey, digest, signature []byte) bool {
	if len(signature) != RecoveryIDOffset {
		return false
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(signature[:32]) || s.SetByteSlice(signature[32:]) {
		return false
	}
	if s.IsOverHalfOrder() {
		return false
	}
	key, err := secp256k1.ParsePubKey(pubkey)
	if err != nil {
		return false
	}
	return secpecdsa.NewSignature(&r, &s).Verify(digest, key)
}

// ValidateSignatureValues reports whether v, r and s form a valid signature.
// v is the raw recovery id. With homestead set, s must be in the lower half of
// the curve order.
func ValidateSignatureValues(v byte, r, s *big.Int, homestead bool) bool {
	if v > 1 || r.Cmp(common.Big1) < 0 || s.Cmp(common.Big1) < 0 {
		return false
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return false
	}
	return !homestead || s.Cmp(secp256k1halfN) <= 0
}
