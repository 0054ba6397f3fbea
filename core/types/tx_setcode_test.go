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
	"testing"

	"github.com/Kr1ptal/ethers-go/common"
	"github.com/Kr1ptal/ethers-go/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func testAuthorization(t testing.TB) SetCodeAuthorization {
	t.Helper()
	auth, err := SignSetCode(authKey, SetCodeAuthorization{
		ChainID: *uint256.NewInt(1),
		Address: delegateTo,
		Nonce:   7,
	})
	if err != nil {
		t.Fatal(err)
	}
	return auth
}

func TestSetCodeAuthorization(t *testing.T) {
	auth := testAuthorization(t)

	require.Equal(t, common.HexToHash("0xeb1cce4707677a1968b78c5e74535d51773d66a8d2e291718937e3ddb3d44386"), auth.SigHash())
	require.Equal(t, uint8(0), auth.V)
	require.Equal(t, "0x8f59e1f7b39847637c63c5d8fd11119bd022ccefdb02bfb65342d1a2403a6f61", auth.R.Hex())
	require.Equal(t, "0x5a1f607b12858935612987034faf42c13b16341b60eb3a3265bd34448dfe60c5", auth.S.Hex())

	authority, ok := auth.Authority()
	require.True(t, ok)
	require.Equal(t, authAddr, authority)

	// Changing a signed field changes the recovered authority.
	tampered := auth
	tampered.Nonce++
	if got, ok := tampered.Authority(); ok && got == authAddr {
		t.Fatal("tampered authorization recovered the original authority")
	}
}

func TestSetCodeAuthorizationInvalid(t *testing.T) {
	auth := testAuthorization(t)

	tests := map[string]func(a *SetCodeAuthorization){
		"zero r":     func(a *SetCodeAuthorization) { a.R.Clear() },
		"zero s":     func(a *SetCodeAuthorization) { a.S.Clear() },
		"bad parity": func(a *SetCodeAuthorization) { a.V = 2 },
		"high s": func(a *SetCodeAuthorization) {
			n := uint256.MustFromHex("0xfffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
			a.S.Sub(n, &a.S)
			a.V ^= 1
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			a := auth
			mutate(&a)
			if _, ok := a.Authority(); ok {
				t.Fatal("invalid authorization accepted")
			}
		})
	}
}

func TestSetCodeAuthorizationRLP(t *testing.T) {
	auth := testAuthorization(t)
	enc, err := rlp.EncodeToBytes(&auth)
	require.NoError(t, err)
	require.Equal(t, auth.EncodingSize(), len(enc))
	require.Equal(t, "f85a019422222222222222222222222222222222222222220780a08f59e1f7b39847637c63c5d8fd11119bd022ccefdb02bfb65342d1a2403a6f61a05a1f607b12858935612987034faf42c13b16341b60eb3a3265bd34448dfe60c5", common.Bytes2Hex(enc))

	var dec SetCodeAuthorization
	require.NoError(t, rlp.DecodeBytes(enc, &dec))
	require.Equal(t, auth, dec)

	// Short address.
	bad := common.FromHex("d901932222222222222222222222222222222222222207800101")
	require.Error(t, rlp.DecodeBytes(bad, &dec))
}

func TestSetCodeTransactionAuthorizations(t *testing.T) {
	tx := decodeTx(t, setCodeRaw)
	auths := tx.SetCodeAuthorizations()
	require.Len(t, auths, 1)
	require.Equal(t, testAuthorization(t), auths[0])

	authority, ok := auths[0].Authority()
	require.True(t, ok)
	require.Equal(t, authAddr, authority)

	require.Nil(t, decodeTx(t, dynamicFeeRaw).SetCodeAuthorizations())
}

func TestDelegation(t *testing.T) {
	code := AddressToDelegation(delegateTo)
	require.Equal(t, "ef01002222222222222222222222222222222222222222", common.Bytes2Hex(code))

	addr, ok := ParseDelegation(code)
	require.True(t, ok)
	require.Equal(t, delegateTo, addr)

	for _, bad := range [][]byte{
		nil,
		code[:len(code)-1],
		append(append([]byte(nil), code...), 0x00),
		append([]byte{0xef, 0x01, 0x01}, delegateTo[:]...),
	} {
		if _, ok := ParseDelegation(bad); ok {
			t.Errorf("ParseDelegation(%x) succeeded", bad)
		}
	}

	// The prefix is not shared between results.
	code[0] = 0
	require.Equal(t, byte(0xef), DelegationPrefix[0])
}
