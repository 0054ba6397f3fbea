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

package accounts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestURLParsing(t *testing.T) {
	t.Parallel()
	url, err := ParseURL("https://ethereum.org")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if url.Scheme != "https" {
		t.Errorf("expected: %v, got: %v", "https", url.Scheme)
	}
	if url.Path != "ethereum.org" {
		t.Errorf("expected: %v, got: %v", "ethereum.org", url.Path)
	}

	for _, u := range []string{"ethereum.org", ""} {
		if _, err = ParseURL(u); err == nil {
			t.Errorf("input %v, expected err, got: nil", u)
		}
	}
}

func TestURLString(t *testing.T) {
	t.Parallel()
	url := URL{Scheme: "https", Path: "ethereum.org"}
	if url.String() != "https://ethereum.org" {
		t.Errorf("expected: %v, got: %v", "https://ethereum.org", url.String())
	}

	url = URL{Scheme: "", Path: "ethereum.org"}
	if url.String() != "ethereum.org" {
		t.Errorf("expected: %v, got: %v", "ethereum.org", url.String())
	}

	url = URL{Scheme: "keystore", Path: "/home/user/.ethereum/keystore/UTC--2016-03-22T12-57-55.920751759Z"}
	if have := url.TerminalString(); have != "keystore:///home/user/.ethereum.." {
		t.Errorf("wrong terminal string: %v", have)
	}
}

func TestAccountJSON(t *testing.T) {
	t.Parallel()
	acc := Account{URL: URL{Scheme: "keystore", Path: "/tmp/key.json"}}
	enc, err := json.Marshal(acc)
	require.NoError(t, err)
	require.JSONEq(t, `{"address":"0x0000000000000000000000000000000000000000","url":"keystore:///tmp/key.json"}`, string(enc))

	var dec Account
	require.NoError(t, json.Unmarshal(enc, &dec))
	require.Equal(t, acc, dec)

	require.Error(t, json.Unmarshal([]byte(`{"url":"no-scheme"}`), &dec))

	raw := Account{}
	enc, err = json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(enc, &dec))
	require.Equal(t, raw, dec)
}

func TestURLParsingSeparator(t *testing.T) {
	t.Parallel()
	// Only the first separator splits.
	url, err := ParseURL("hd://m/44'/60'/0'/0/0://x")
	require.NoError(t, err)
	require.Equal(t, URL{Scheme: "hd", Path: "m/44'/60'/0'/0/0://x"}, url)

	_, err = ParseURL("://path")
	require.Error(t, err)
}
