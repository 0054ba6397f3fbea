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
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestEIP155SigningVector(t *testing.T) {
	signer := NewEIP155Signer(big.NewInt(1))
	tx := NewTransaction(9, testTo, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil), 21000, big.NewInt(20_000_000_000), nil)

	sighash, err := signer.Hash(tx)
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xdaf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53"), sighash)

	signed, err := SignTx(tx, signer, testKey)
	require.NoError(t, err)
	enc, err := signed.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, eip155Raw, enc)

	from, err := signer.Sender(signed)
	require.NoError(t, err)
	require.Equal(t, testAddr, from)

	// The unsigned transaction is left untouched.
	v, _, _ := tx.RawSignatureValues()
	require.Zero(t, v.Sign())
}

func TestSigningVectors(t *testing.T) {
	tests := []struct {
		name   string
		signer Signer
		tx     TxData
		raw    []byte
	}{
		{
			name:   "homestead",
			signer: HomesteadSigner{},
			tx:     &LegacyTx{GasPrice: big.NewInt(1), Gas: 21000, To: &testTo, Value: big.NewInt(1)},
			raw:    homesteadRaw,
		},
		{
			name:   "accesslist",
			signer: NewEIP2930Signer(big.NewInt(5)),
			tx:     &AccessListTx{ChainID: big.NewInt(5), GasPrice: big.NewInt(7), Gas: 50000, Data: []byte{0x60, 0x00}},
			raw:    accessListRaw,
		},
		{
			name:   "dynamicfee",
			signer: NewLondonSigner(big.NewInt(1)),
			tx: &DynamicFeeTx{
				ChainID:    big.NewInt(1),
				Nonce:      3,
				GasTipCap:  big.NewInt(1_000_000_000),
				GasFeeCap:  big.NewInt(30_000_000_000),
				Gas:        21000,
				To:         &testTo,
				Value:      big.NewInt(1000),
				Data:       []byte{0x55, 0x44},
				AccessList: AccessList{{Address: accessedTo, StorageKeys: []common.Hash{accessedKey}}},
			},
			raw: dynamicFeeRaw,
		},
		{
			name:   "setcode",
			signer: NewPragueSigner(big.NewInt(1)),
			tx: &SetCodeTx{
				ChainID:   uint256.NewInt(1),
				Nonce:     4,
				GasTipCap: uint256.NewInt(1),
				GasFeeCap: uint256.NewInt(2),
				Gas:       100000,
				To:        testTo,
				AuthList:  []SetCodeAuthorization{testAuthorization(t)},
			},
			raw: setCodeRaw,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tx, err := SignNewTx(testKey, test.signer, test.tx)
			require.NoError(t, err)
			enc, err := tx.MarshalBinary()
			require.NoError(t, err)
			require.Equal(t, test.raw, enc)

			from, ok := Sender(test.signer, tx)
			require.True(t, ok)
			require.Equal(t, testAddr, from)

			// The most permissive signer accepts every vector.
			latest := LatestSignerForChainID(test.signer.ChainID())
			from, err = latest.Sender(decodeTx(t, test.raw))
			require.NoError(t, err)
			require.Equal(t, testAddr, from)
		})
	}
}

func TestTypedSignatureValues(t *testing.T) {
	signer := NewLondonSigner(big.NewInt(1))
	tx := MustSignNewTx(testKey, signer, &DynamicFeeTx{GasTipCap: common.Big1, GasFeeCap: common.Big1, Gas: 21000, To: &testTo})

	v, _, _ := tx.RawSignatureValues()
	require.LessOrEqual(t, v.Uint64(), uint64(1), "typed transactions carry the y-parity")
	require.Equal(t, big.NewInt(1), tx.ChainId(), "signing fills in the chain id")

	// A transaction pinned to another chain cannot be signed.
	_, err := SignNewTx(testKey, signer, &DynamicFeeTx{ChainID: big.NewInt(5)})
	require.ErrorIs(t, err, ErrInvalidChainId)
}

func TestLegacyV(t *testing.T) {
	for _, chainID := range []int64{1, 5, 1337, 11155111} {
		signer := NewEIP155Signer(big.NewInt(chainID))
		tx := MustSignNewTx(testKey, signer, &LegacyTx{Gas: 21000, To: &testTo})
		v, _, _ := tx.RawSignatureValues()
		base := chainID*2 + 35
		if v.Int64() != base && v.Int64() != base+1 {
			t.Errorf("chain %d: wrong v %v", chainID, v)
		}
		if tx.ChainId().Int64() != chainID {
			t.Errorf("chain %d: derived chain id %v", chainID, tx.ChainId())
		}
	}
	tx := MustSignNewTx(testKey, HomesteadSigner{}, &LegacyTx{Gas: 21000, To: &testTo})
	if v, _, _ := tx.RawSignatureValues(); v.Int64() != 27 && v.Int64() != 28 {
		t.Errorf("homestead: wrong v %v", v)
	}
	if tx.Protected() {
		t.Error("homestead transaction is protected")
	}
}

func TestSenderErrors(t *testing.T) {
	mainnet := NewLondonSigner(big.NewInt(1))
	goerli := NewLondonSigner(big.NewInt(5))

	protected := decodeTx(t, eip155Raw)
	typed := decodeTx(t, dynamicFeeRaw)
	setcode := decodeTx(t, setCodeRaw)
	unprotected := decodeTx(t, homesteadRaw)

	tests := []struct {
		name   string
		signer Signer
		tx     *Transaction
		err    error
	}{
		{"legacy wrong chain", NewEIP155Signer(big.NewInt(2)), protected, ErrInvalidChainId},
		{"typed wrong chain", goerli, typed, ErrInvalidChainId},
		{"typed on eip155", NewEIP155Signer(big.NewInt(1)), typed, ErrTxTypeNotSupported},
		{"typed on homestead", HomesteadSigner{}, typed, ErrTxTypeNotSupported},
		{"protected on homestead", HomesteadSigner{}, protected, ErrUnexpectedProtection},
		{"setcode on london", mainnet, setcode, ErrTxTypeNotSupported},
		{"unsigned", mainnet, NewTx(&DynamicFeeTx{ChainID: big.NewInt(1)}), ErrInvalidSig},
		{"unsigned legacy", HomesteadSigner{}, NewTransaction(0, testTo, nil, 0, nil, nil), ErrInvalidSig},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.signer.Sender(test.tx)
			if !errors.Is(err, test.err) {
				t.Fatalf("wrong error: have %v, want %v", err, test.err)
			}
			if _, ok := Sender(test.signer, test.tx); ok {
				t.Fatal("Sender reported success")
			}
		})
	}

	// Unprotected legacy transactions are accepted by every signer.
	for _, signer := range []Signer{HomesteadSigner{}, NewEIP155Signer(big.NewInt(1)), mainnet, goerli} {
		from, err := signer.Sender(unprotected)
		require.NoError(t, err)
		require.Equal(t, testAddr, from)
	}
}

func TestHighSRejected(t *testing.T) {
	tx := decodeTx(t, dynamicFeeRaw)
	v, r, s := tx.RawSignatureValues()

	// Flip to the upper-s form of the same signature.
	n := crypto.S256().Params().N
	highS := new(big.Int).Sub(n, s)
	flipped := new(big.Int).Xor(v, common.Big1)

	inner := tx.inner.copy()
	inner.setSignatureValues(tx.ChainId(), flipped, r, highS)
	if _, ok := Sender(NewLondonSigner(big.NewInt(1)), NewTx(inner)); ok {
		t.Fatal("upper-s signature accepted")
	}
}

func TestSenderCache(t *testing.T) {
	tx := decodeTx(t, eip155Raw)
	london := NewLondonSigner(big.NewInt(1))

	from, ok := Sender(london, tx)
	require.True(t, ok)
	require.Equal(t, testAddr, from)

	sc := tx.from.Load()
	require.NotNil(t, sc)
	require.True(t, sc.signer.Equal(london))

	// Same signer: served from cache.
	from, ok = Sender(NewLondonSigner(big.NewInt(1)), tx)
	require.True(t, ok)
	require.Equal(t, testAddr, from)
	require.Same(t, sc, tx.from.Load())

	// A different signer invalidates the cache.
	_, ok = Sender(NewEIP155Signer(big.NewInt(2)), tx)
	require.False(t, ok)
	from, ok = Sender(NewEIP155Signer(big.NewInt(1)), tx)
	require.True(t, ok)
	require.Equal(t, testAddr, from)
	require.NotSame(t, sc, tx.from.Load())
}

func TestSignerEqual(t *testing.T) {
	require.True(t, NewPragueSigner(big.NewInt(1)).Equal(NewPragueSigner(big.NewInt(1))))
	require.False(t, NewPragueSigner(big.NewInt(1)).Equal(NewLondonSigner(big.NewInt(1))))
	require.False(t, NewPragueSigner(big.NewInt(1)).Equal(NewPragueSigner(big.NewInt(2))))
	require.False(t, NewEIP155Signer(big.NewInt(1)).Equal(NewEIP2930Signer(big.NewInt(1))))
	require.True(t, HomesteadSigner{}.Equal(HomesteadSigner{}))
	require.True(t, LatestSignerForChainID(nil).Equal(HomesteadSigner{}))

	require.Panics(t, func() { NewLondonSigner(nil) })
}

func TestLatestSignerForChainID(t *testing.T) {
	require.True(t, LatestSignerForChainID(big.NewInt(0)).Equal(HomesteadSigner{}))
	require.True(t, LatestSignerForChainID(big.NewInt(7)).Equal(NewPragueSigner(big.NewInt(7))))

	// Chain id zero signs unprotected legacy transactions.
	zero := LatestSignerForChainID(new(big.Int))
	signed, err := SignTx(NewTransaction(0, testTo, big.NewInt(1), 21000, big.NewInt(1), nil), zero, testKey)
	require.NoError(t, err)
	require.False(t, signed.Protected())
	from, ok := Sender(zero, signed)
	require.True(t, ok)
	require.Equal(t, testAddr, from)

	negative := LatestSignerForChainID(big.NewInt(-1))
	require.NotPanics(t, func() { _, _ = negative.Hash(signed) })
	_, err = SignTx(NewTransaction(0, testTo, nil, 21000, nil, nil), negative, testKey)
	require.ErrorIs(t, err, ErrInvalidChainId)
	_, err = negative.Sender(signed)
	require.ErrorIs(t, err, ErrInvalidChainId)
	require.True(t, negative.Equal(LatestSignerForChainID(big.NewInt(-1))))
}

func TestSignUnencodableFields(t *testing.T) {
	oversized := new(big.Int).Lsh(common.Big1, 256)
	tests := []struct {
		name   string
		signer Signer
		tx     TxData
		err    error
	}{
		{"negative value", HomesteadSigner{}, &LegacyTx{Value: big.NewInt(-5), Gas: 21000, To: &testTo}, rlp.ErrNegativeBigInt},
		{"negative value eip155", NewEIP155Signer(big.NewInt(1)), &LegacyTx{Value: big.NewInt(-7), Gas: 21000}, rlp.ErrNegativeBigInt},
		{"oversized gas price", HomesteadSigner{}, &LegacyTx{GasPrice: oversized, Gas: 21000}, rlp.ErrIntTooLarge},
		{"negative fee cap", NewLondonSigner(big.NewInt(1)), &DynamicFeeTx{ChainID: big.NewInt(1), GasFeeCap: big.NewInt(-1)}, rlp.ErrNegativeBigInt},
		{"oversized access list price", NewEIP2930Signer(big.NewInt(1)), &AccessListTx{ChainID: big.NewInt(1), GasPrice: oversized}, rlp.ErrIntTooLarge},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tx := NewTx(test.tx)
			_, err := test.signer.Hash(tx)
			require.ErrorIs(t, err, test.err)

			_, err = SignTx(tx, test.signer, testKey)
			require.ErrorIs(t, err, test.err)
			require.Equal(t, common.Hash{}, tx.Hash())
		})
	}

	// Different unencodable transactions must not share a signature hash.
	a := NewTx(&LegacyTx{Value: big.NewInt(-5)})
	b := NewTx(&LegacyTx{Value: big.NewInt(-7)})
	_, errA := HomesteadSigner{}.Hash(a)
	_, errB := HomesteadSigner{}.Hash(b)
	require.Error(t, errA)
	require.Error(t, errB)
}

func TestRecoverSenders(t *testing.T) {
	signer := LatestSignerForChainID(big.NewInt(1))
	txs := make([]*Transaction, 64)
	for i := range txs {
		var inner TxData
		switch i % 3 {
		case 0:
			inner = &LegacyTx{Nonce: uint64(i), Gas: 21000, To: &testTo}
		case 1:
			inner = &AccessListTx{Nonce: uint64(i), Gas: 21000, To: &testTo}
		default:
			inner = &DynamicFeeTx{Nonce: uint64(i), Gas: 21000, To: &testTo}
		}
		txs[i] = MustSignNewTx(testKey, signer, inner)
	}

	senders, err := RecoverSenders(context.Background(), signer, txs)
	require.NoError(t, err)
	require.Len(t, senders, len(txs))
	for i, from := range senders {
		if from != testAddr {
			t.Errorf("tx %d: wrong sender %v", i, from)
		}
		if txs[i].from.Load() == nil {
			t.Errorf("tx %d: sender not cached", i)
		}
	}

	// A broken signature is reported with its index.
	bad := append([]*Transaction(nil), txs[:8]...)
	bad[5] = NewTx(&LegacyTx{Nonce: 5, V: big.NewInt(37), R: common.Big1, S: common.Big0})
	_, err = RecoverSenders(context.Background(), signer, bad)
	require.ErrorIs(t, err, ErrInvalidSig)
	require.True(t, strings.HasPrefix(err.Error(), "tx 5 "), err.Error())
}

func TestRecoverSendersCancelled(t *testing.T) {
	signer := LatestSignerForChainID(big.NewInt(1))
	txs := []*Transaction{decodeTx(t, dynamicFeeRaw), decodeTx(t, setCodeRaw)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RecoverSenders(ctx, signer, txs)
	require.ErrorIs(t, err, context.Canceled)
	for _, tx := range txs {
		require.Nil(t, tx.from.Load())
	}
}

func BenchmarkRecoverSenders(b *testing.B) {
	signer := LatestSignerForChainID(big.NewInt(1))
	txs := make([]*Transaction, 128)
	for i := range txs {
		txs[i] = MustSignNewTx(testKey, signer, &DynamicFeeTx{Nonce: uint64(i), Gas: 21000, To: &testTo})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tx := range txs {
			tx.from.Store(nil)
		}
		if _, err := RecoverSenders(context.Background(), signer, txs); err != nil {
			b.Fatal(err)
		}
	}
}
