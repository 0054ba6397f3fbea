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
	"math/big"
	"testing"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignHashRecover(t *testing.T) {
	key, err := HexToECDSA(testPrivHex)
	require.NoError(t, err)
	addr := common.HexToAddress(testAddrHex)

	hash := Keccak256Hash([]byte("hello"))
	sig, err := SignHash(hash, key)
	require.NoError(t, err)
	assert.True(t, sig.IsCanonical())

	got, ok := sig.RecoverAddress(hash)
	require.True(t, ok)
	assert.Equal(t, addr, got)

	pub, ok := sig.RecoverPublicKey(hash)
	require.True(t, ok)
	assert.Equal(t, 0, pub.X.Cmp(key.X))

	// round trip through the byte form
	parsed, err := SignatureFromBytes(sig.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	electrum := sig.Bytes()
	electrum[RecoveryIDOffset] = sig.Electrum()
	parsed, err = SignatureFromBytes(electrum)
	require.NoError(t, err)
	assert.Equal(t, sig.V, parsed.V)
}

func TestSignatureLowS(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	for i := 0; i < 64; i++ {
		hash := Keccak256Hash(big.NewInt(int64(i)).Bytes())
		sig, err := SignHash(hash, key)
		require.NoError(t, err)
		require.Falsef(t, sig.S.Gt(secp256k1halfNU256), "signature %d has high s: %v", i, sig)
		got, ok := sig.RecoverAddress(hash)
		require.True(t, ok)
		require.Equal(t, PubkeyToAddress(key.PublicKey), got)
	}
}

func TestRecoverInvalid(t *testing.T) {
	hash := Keccak256Hash([]byte("x"))
	tests := map[string]*Signature{
		"zero r":     {S: *uint256.NewInt(1)},
		"zero s":     {R: *uint256.NewInt(1)},
		"bad v":      {R: *uint256.NewInt(1), S: *uint256.NewInt(1), V: 2},
		"r overflow": {R: *new(uint256.Int).Set(secp256k1NU256), S: *uint256.NewInt(1)},
		"s overflow": {R: *uint256.NewInt(1), S: *new(uint256.Int).Set(secp256k1NU256)},
		"r max uint": {R: *new(uint256.Int).SetAllOne(), S: *uint256.NewInt(1)},
	}
	for name, sig := range tests {
		if _, ok := sig.RecoverAddress(hash); ok {
			t.Errorf("%s: recovery should fail", name)
		}
		if _, ok := sig.RecoverPublicKey(hash); ok {
			t.Errorf("%s: public key recovery should fail", name)
		}
	}
}

func TestLegacyV(t *testing.T) {
	sig := &Signature{V: 1}
	assert.Equal(t, big.NewInt(28), sig.LegacyV(nil))
	assert.Equal(t, big.NewInt(38), sig.LegacyV(big.NewInt(1)))
	assert.Equal(t, big.NewInt(2*1337+36), sig.LegacyV(big.NewInt(1337)))

	for _, test := range []struct {
		v, chainID int64
		id         byte
		ok         bool
	}{
		{0, 0, 0, true},
		{1, 0, 1, true},
		{27, 0, 0, true},
		{28, 0, 1, true},
		{37, 1, 0, true},
		{38, 1, 1, true},
		{39, 1, 0, false},
		{36, 1, 0, false},
		{37, 0, 0, false},
		{2, 5, 0, false},
	} {
		var chainID *big.Int
		if test.chainID != 0 {
			chainID = big.NewInt(test.chainID)
		}
		id, ok := RecoveryID(big.NewInt(test.v), chainID)
		if ok != test.ok || (ok && id != test.id) {
			t.Errorf("RecoveryID(%d, %d) = %d, %v; want %d, %v", test.v, test.chainID, id, ok, test.id, test.ok)
		}
	}
	_, ok := RecoveryID(big.NewInt(-1), nil)
	assert.False(t, ok)
}

func TestSignatureFromValues(t *testing.T) {
	r := big.NewInt(5)
	s := big.NewInt(6)
	sig, err := SignatureFromValues(big.NewInt(38), r, s, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, byte(1), sig.V)
	assert.Equal(t, uint64(5), sig.R.Uint64())

	_, err = SignatureFromValues(big.NewInt(40), r, s, big.NewInt(1))
	assert.Error(t, err)

	_, err = SignatureFromValues(big.NewInt(27), new(big.Int).Lsh(common.Big1, 256), s, nil)
	assert.Error(t, err)

	_, err = SignatureFromBytes(make([]byte, 64))
	assert.ErrorIs(t, err, errInvalidSigLen)
}
