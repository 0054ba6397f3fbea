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
	"errors"
	"math/big"
	"testing"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/rlp"
	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// The following transactions were signed with key 0x4646...46.
var (
	testKey, _  = crypto.HexToECDSA("4646464646464646464646464646464646464646464646464646464646464646")
	testAddr    = common.HexToAddress("0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F")
	testTo      = common.HexToAddress("0x3535353535353535353535353535353535353535")
	authKey, _  = crypto.HexToECDSA("45a915e4d060149eb4365960e6a7a45f334393093061116b197e3240065ff2d8")
	authAddr    = common.HexToAddress("0xa94f5374fce5edbc8e2a8697c15331677e6ebf0b")
	delegateTo  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	accessedTo  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	accessedKey = common.HexToHash("0x01")

	// EIP-155 example transaction.
	eip155Raw     = common.FromHex("f86c098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a76400008025a028ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276a067cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83")
	homesteadRaw  = common.FromHex("f85f800182520894353535353535353535353535353535353535353501801ca0cabffd5343e661557127d6096390ccaec4f6e6e89ae3560d5fd2d58f98d652baa07cc12865dfb6e7e0b83b17a6ac811c36ecc580d060481662e32456b99b496199")
	accessListRaw = common.FromHex("01f84f05800782c3508080826000c001a0b528a74577237a3343a4936495438f51b91531b6845d152115791990adde7ab3a005fca8b688b03c11eec81964ffe240e2003c62c4bb9ac5d27dbbc75246720576")
	dynamicFeeRaw = common.FromHex("02f8a80103843b9aca008506fc23ac008252089435353535353535353535353535353535353535358203e8825544f838f7941111111111111111111111111111111111111111e1a0000000000000000000000000000000000000000000000000000000000000000101a0154ab749c9777cc852222053c2faf4845d7b72a2f155fae4356e65bcd479e930a027a3393adba940c3caad5e9794e746e347d77355f3780b60909b14566f1e5016")
	setCodeRaw    = common.FromHex("04f8c101040102830186a09435353535353535353535353535353535353535358080c0f85cf85a019422222222222222222222222222222222222222220780a08f59e1f7b39847637c63c5d8fd11119bd022ccefdb02bfb65342d1a2403a6f61a05a1f607b12858935612987034faf42c13b16341b60eb3a3265bd34448dfe60c580a0780406dc3fdd743e84ca2e887ccd3480fd0f081d962de17f460f6ad0da03ab8ea06e15cfa4865a1ef7e60860860b8739063d686387a1f17ed844d87c1aaadc232f")
)

func decodeTx(t *testing.T, raw []byte) *Transaction {
	t.Helper()
	tx := new(Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return tx
}

func TestDecodeEIP155Transaction(t *testing.T) {
	tx := decodeTx(t, eip155Raw)

	require.Equal(t, uint8(LegacyTxType), tx.Type())
	require.Equal(t, uint64(9), tx.Nonce())
	require.Equal(t, big.NewInt(20_000_000_000), tx.GasPrice())
	require.Equal(t, uint64(21000), tx.Gas())
	require.Equal(t, &testTo, tx.To())
	require.Equal(t, "1000000000000000000", tx.Value().String())
	require.Empty(t, tx.Data())
	require.True(t, tx.Protected())
	require.Equal(t, big.NewInt(1), tx.ChainId())

	v, r, s := tx.RawSignatureValues()
	require.Equal(t, big.NewInt(37), v)
	require.Equal(t, "28ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276", common.Bytes2Hex(r.Bytes()))
	require.Equal(t, "67cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83", common.Bytes2Hex(s.Bytes()))

	// The gas price and value are shared between cost and accessors.
	want := new(big.Int).Mul(big.NewInt(20_000_000_000), big.NewInt(21000))
	want.Add(want, tx.Value())
	require.Equal(t, want, tx.Cost())
}

func TestTransactionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		typ  uint8
	}{
		{"homestead", homesteadRaw, LegacyTxType},
		{"eip155", eip155Raw, LegacyTxType},
		{"accesslist", accessListRaw, AccessListTxType},
		{"dynamicfee", dynamicFeeRaw, DynamicFeeTxType},
		{"setcode", setCodeRaw, SetCodeTxType},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tx := decodeTx(t, test.raw)
			if tx.Type() != test.typ {
				t.Fatalf("wrong type: have %d, want %d", tx.Type(), test.typ)
			}
			enc, err := tx.MarshalBinary()
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(enc, test.raw) {
				t.Fatalf("re-encoding mismatch\nhave %x\nwant %x\n%s", enc, test.raw, spew.Sdump(tx.inner))
			}
			if tx.Hash() != crypto.Keccak256Hash(test.raw) {
				t.Errorf("wrong hash: %v", tx.Hash())
			}
			if tx.Size() != uint64(len(test.raw)) {
				t.Errorf("wrong size: have %d, want %d", tx.Size(), len(test.raw))
			}
			// A freshly constructed copy computes the size by encoding.
			if size := NewTx(tx.inner).Size(); size != uint64(len(test.raw)) {
				t.Errorf("wrong computed size: have %d, want %d", size, len(test.raw))
			}
		})
	}
}

func TestTransactionHashes(t *testing.T) {
	require.Equal(t, common.HexToHash("0x37a7cdb4aa6b46785849e825978dde314b6978bd48d0b6aa4fa117fcf5484d43"), decodeTx(t, dynamicFeeRaw).Hash())
	require.Equal(t, common.HexToHash("0x587040f1c9e855a6d23fdf7ae6f6b9fba4a84e3ce1b2081d8fd8a4b041045c86"), decodeTx(t, setCodeRaw).Hash())
}

func TestNetworkEncoding(t *testing.T) {
	for _, raw := range [][]byte{eip155Raw, accessListRaw, dynamicFeeRaw, setCodeRaw} {
		tx := decodeTx(t, raw)
		enc, err := rlp.EncodeToBytes(tx)
		require.NoError(t, err)
		require.Equal(t, tx.EncodingSize(), len(enc))

		if tx.Type() == LegacyTxType {
			require.Equal(t, raw, enc)
		} else {
			// Typed transactions are wrapped in a byte string.
			content, rest, err := rlp.SplitString(enc)
			require.NoError(t, err)
			require.Empty(t, rest)
			require.Equal(t, raw, content)
		}

		var dec Transaction
		require.NoError(t, rlp.DecodeBytes(enc, &dec))
		require.Equal(t, tx.Hash(), dec.Hash())
		require.Equal(t, tx.Size(), dec.Size())
	}
}

func TestEncodingSize(t *testing.T) {
	to := common.HexToAddress("0x095e7baea6a6c7c4c2dfeb977efac326af552d87")
	bigData := bytes.Repeat([]byte{0xab}, 1024)
	txs := []TxData{
		&LegacyTx{},
		&LegacyTx{Nonce: 1 << 40, GasPrice: new(big.Int).Lsh(common.Big1, 200), Gas: 1, To: &to, Value: big.NewInt(1), Data: bigData},
		&AccessListTx{ChainID: big.NewInt(1)},
		&AccessListTx{
			ChainID:    big.NewInt(1337),
			GasPrice:   big.NewInt(3),
			To:         &to,
			Data:       []byte{0x01},
			AccessList: AccessList{{Address: to, StorageKeys: []common.Hash{{1}, {2}}}, {Address: accessedTo}},
		},
		&DynamicFeeTx{ChainID: big.NewInt(1), GasTipCap: big.NewInt(0x7f), GasFeeCap: big.NewInt(0x80), Data: bigData},
		&SetCodeTx{ChainID: uint256.NewInt(1), To: to},
		&SetCodeTx{
			ChainID:   uint256.NewInt(1),
			GasFeeCap: new(uint256.Int).SetAllOne(),
			To:        to,
			AuthList: []SetCodeAuthorization{
				{ChainID: *uint256.NewInt(0), Address: delegateTo, Nonce: 0},
				{ChainID: *uint256.NewInt(1), Address: delegateTo, Nonce: 1 << 63, V: 1, R: *uint256.NewInt(5), S: *uint256.NewInt(6)},
			},
		},
	}
	for i, inner := range txs {
		tx := NewTx(inner)
		enc, err := rlp.EncodeToBytes(tx)
		if err != nil {
			t.Fatalf("tx %d: encode error: %v", i, err)
		}
		if len(enc) != tx.EncodingSize() {
			t.Errorf("tx %d: EncodingSize %d, encoded %d bytes", i, tx.EncodingSize(), len(enc))
		}
		bin, err := tx.MarshalBinary()
		if err != nil {
			t.Fatalf("tx %d: marshal error: %v", i, err)
		}
		if uint64(len(bin)) != tx.Size() {
			t.Errorf("tx %d: Size %d, binary %d bytes", i, tx.Size(), len(bin))
		}
		dec := new(Transaction)
		if err := dec.UnmarshalBinary(bin); err != nil {
			t.Fatalf("tx %d: decode error: %v", i, err)
		}
		if dec.Hash() != tx.Hash() {
			t.Errorf("tx %d: hash mismatch after round trip\n%s", i, spew.Sdump(dec.inner))
		}
	}
}

func TestContractCreation(t *testing.T) {
	tx := NewContractCreation(0, common.Big0, 53000, common.Big1, common.FromHex("6000"))
	require.Nil(t, tx.To())

	bin, err := tx.MarshalBinary()
	require.NoError(t, err)
	dec := decodeTx(t, bin)
	require.Nil(t, dec.To())
	require.Equal(t, []byte{0x60, 0x00}, dec.Data())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty", "", errShortTypedTx},
		{"type only", "02", errShortTypedTx},
		{"unknown type", "05c0", ErrTxTypeNotSupported},
		{"blob type", "03c0", ErrTxTypeNotSupported},
		{"typed string payload", "0280", rlp.ErrExpectedList},
		{"legacy string", "8180", rlp.ErrExpectedList},
		{"short address", "de8001825208933535353535353535353535353535353535353501801c0101", errInvalidAddress},
		{"non-canonical nonce", "e18200000182520894353535353535353535353535353535353535353501801c0101", rlp.ErrCanonInt},
		{"missing fields", "c3808080", rlp.EOL},
		{"extra field", "ca808080808080801c010101", rlp.ErrNotAtEOL},
		{"trailing bytes", "c9808080808080801c010100", rlp.ErrMoreThanOneValue},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var tx Transaction
			err := tx.UnmarshalBinary(common.FromHex(test.input))
			if !errors.Is(err, test.err) {
				t.Fatalf("wrong error: have %v, want %v", err, test.err)
			}
		})
	}
}

func TestDecodeRLPShortTyped(t *testing.T) {
	var tx Transaction
	if err := rlp.DecodeBytes([]byte{0x02}, &tx); !errors.Is(err, errShortTypedTx) {
		t.Fatalf("wrong error: %v", err)
	}
}

func TestEffectiveGasTip(t *testing.T) {
	tx := NewTx(&DynamicFeeTx{ChainID: big.NewInt(1), GasTipCap: big.NewInt(2), GasFeeCap: big.NewInt(10)})

	tip, err := tx.EffectiveGasTip(nil)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(2), tip)

	tip, err = tx.EffectiveGasTip(big.NewInt(9))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1), tip)

	_, err = tx.EffectiveGasTip(big.NewInt(11))
	require.ErrorIs(t, err, ErrGasFeeCapTooLow)

	require.Equal(t, big.NewInt(10), tx.EffectiveGasPrice(big.NewInt(9)))
	require.Equal(t, big.NewInt(7), tx.EffectiveGasPrice(big.NewInt(5)))
	require.Equal(t, big.NewInt(10), tx.EffectiveGasPrice(nil))

	legacy := NewTransaction(0, testTo, common.Big0, 21000, big.NewInt(8), nil)
	require.Equal(t, big.NewInt(8), legacy.EffectiveGasPrice(big.NewInt(5)))
}

func TestAccessorsCopy(t *testing.T) {
	tx := decodeTx(t, dynamicFeeRaw)
	tx.Value().SetInt64(1)
	tx.GasFeeCap().SetInt64(1)
	*tx.To() = common.Address{}
	require.Equal(t, big.NewInt(1000), tx.Value())
	require.Equal(t, big.NewInt(30_000_000_000), tx.GasFeeCap())
	require.Equal(t, &testTo, tx.To())

	al := tx.AccessList()
	require.Len(t, al, 1)
	require.Equal(t, accessedTo, al[0].Address)
	require.Equal(t, []common.Hash{accessedKey}, al[0].StorageKeys)
	require.Equal(t, 1, al.StorageKeys())
}

func TestTxDifference(t *testing.T) {
	a := decodeTx(t, eip155Raw)
	b := decodeTx(t, dynamicFeeRaw)
	c := decodeTx(t, setCodeRaw)

	diff := TxDifference(Transactions{a, b, c}, Transactions{b})
	require.Equal(t, 2, diff.Len())
	require.Equal(t, a.Hash(), diff[0].Hash())
	require.Equal(t, c.Hash(), diff[1].Hash())
}

func FuzzTransactionRoundTrip(f *testing.F) {
	for _, raw := range [][]byte{homesteadRaw, eip155Raw, accessListRaw, dynamicFeeRaw, setCodeRaw} {
		f.Add(raw)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		var tx Transaction
		if err := tx.UnmarshalBinary(data); err != nil {
			return
		}
		enc, err := tx.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal error: %v", err)
		}
		if uint64(len(enc)) != tx.Size() {
			t.Fatalf("size mismatch: encoded %d, Size %d", len(enc), tx.Size())
		}
		var tx2 Transaction
		if err := tx2.UnmarshalBinary(enc); err != nil {
			t.Fatalf("re-decode error: %v", err)
		}
		enc2, err := tx2.MarshalBinary()
		if err != nil {
			t.Fatalf("re-marshal error: %v", err)
		}
		if !bytes.Equal(enc, enc2) {
			t.Fatalf("encoding not stable\n%x\n%x", enc, enc2)
		}
	})
}

func BenchmarkTransactionMarshal(b *testing.B) {
	tx := new(Transaction)
	if err := tx.UnmarshalBinary(setCodeRaw); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := tx.MarshalBinary(); err != nil {
			b.Fatal(err)
		}
	}
}
