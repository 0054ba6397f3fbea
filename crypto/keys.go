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
	"crypto/elliptic"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// DigestLength is the length of a hash accepted by Sign.
	DigestLength = 32

	privkeyLength      = 32
	uncompressedLength = 65
	compressedLength   = 33
)

var (
	secp256k1N     = S256().Params().N
	secp256k1halfN = new(big.Int).Rsh(secp256k1N, 1)

	errInvalidPrivkey = errors.New("invalid secp256k1 private key")
	errInvalidPubkey  = errors.New("invalid secp256k1 public key")
)

// S256 returns the secp256k1 curve. Keys produced by this package carry it as
// their Curve.
func S256() elliptic.Curve {
	return secp256k1.S256()
}

// ToECDSA builds a private key from its 32 byte big-endian scalar, which must be
// in [1, N).
func ToECDSA(d []byte) (*ecdsa.PrivateKey, error) {
	if len(d) != privkeyLength {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", errInvalidPrivkey, len(d), privkeyLength)
	}
	var k secp256k1.ModNScalar
	if k.SetByteSlice(d) {
		return nil, fmt.Errorf("%w: scalar not below curve order", errInvalidPrivkey)
	}
	if k.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", errInvalidPrivkey)
	}
	priv := secp256k1.NewPrivateKey(&k)
	defer priv.Zero()
	return priv.ToECDSA(), nil
}

// HexToECDSA parses a hex encoded private key, with or without 0x prefix.
func HexToECDSA(s string) (*ecdsa.PrivateKey, error) {
	if has0xPrefix(s) {
		s = s[2:]
	}
	d, err := hex.DecodeString(s)
	if err != nil {
		var bad hex.InvalidByteError
		if errors.As(err, &bad) {
			return nil, fmt.Errorf("%w: invalid hex character %q", errInvalidPrivkey, byte(bad))
		}
		return nil, fmt.Errorf("%w: %v", errInvalidPrivkey, err)
	}
	return ToECDSA(d)
}

func has0xPrefix(s string) bool {
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

// FromECDSA returns the 32 byte scalar of a private key.
func FromECDSA(priv *ecdsa.PrivateKey) []byte {
	if priv == nil || priv.D == nil {
		return nil
	}
	return priv.D.FillBytes(make([]byte, privkeyLength))
}

// GenerateKey creates a random private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	return priv.ToECDSA(), nil
}

// UnmarshalPubkey parses a public key in the 65 byte uncompressed form. The
// point must lie on the curve.
func UnmarshalPubkey(pub []byte) (*ecdsa.PublicKey, error) {
	if len(pub) != uncompressedLength || pub[0] != 0x04 {
		return nil, errInvalidPubkey
	}
	key, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, errInvalidPubkey
	}
	return key.ToECDSA(), nil
}

// FromECDSAPub serializes a public key in the 65 byte uncompressed form.
func FromECDSAPub(pub *ecdsa.PublicKey) []byte {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil
	}
	out := make([]byte, uncompressedLength)
	out[0] = 0x04
	pub.X.FillBytes(out[1:33])
	pub.Y.FillBytes(out[33:])
	return out
}

// DecompressPubkey parses a public key in the 33 byte compressed form.
func DecompressPubkey(pub []byte) (*ecdsa.PublicKey, error) {
	if len(pub) != compressedLength {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", errInvalidPubkey, len(pub), compressedLength)
	}
	key, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, err
	}
	return key.ToECDSA(), nil
}

// CompressPubkey serializes a public key in the 33 byte compressed form. The
// key must be a valid curve point, as produced by this package.
func CompressPubkey(pub *ecdsa.PublicKey) []byte {
	return toSecp256k1Pub(pub).SerializeCompressed()
}

func toSecp256k1Pub(pub *ecdsa.PublicKey) *secp256k1.PublicKey {
	var x, y secp256k1.FieldVal
	x.SetByteSlice(pub.X.Bytes())
	y.SetByteSlice(pub.Y.Bytes())
	return secp256k1.NewPublicKey(&x, &y)
}

// PubkeyToAddress returns the account address of a public key, the last 20
// bytes of the keccak256 of its uncompressed coordinates.
func PubkeyToAddress(p ecdsa.PublicKey) common.Address {
	return common.BytesToAddress(Keccak256(FromECDSAPub(&p)[1:])[12:])
}
