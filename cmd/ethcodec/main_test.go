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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey     = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testPhrase  = "test test test test test test test test test test test junk"
)

// runApp executes the tool with the given arguments and returns its output.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{clientIdentifier}, args...))
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runApp(t, args...)
	require.NoError(t, err, "output: %s", out)
	return out
}

func TestRLPDump(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"c883646f6783676f6483636174", "[\n  \"dog\"\n  \"god\"\n  \"cat\"\n]\n"},
		{"0xc0", "[]\n"},
		{"80", "\"\"\n"},
		{"c7c0c1c0c3c0c1c0", "[\n  []\n  [\n    []\n  ]\n  [\n    []\n    [\n      []\n    ]\n  ]\n]\n"},
		{"820400", "0x0400\n"},
		{"0102", "0x01\n0x02\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, "rlpdump", tt.input), "input %s", tt.input)
	}

	_, err := runApp(t, "rlpdump", "c9")
	assert.Error(t, err)
	_, err = runApp(t, "rlpdump")
	assert.Error(t, err)
}

func TestRLPDumpFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "value.rlp")
	require.NoError(t, os.WriteFile(file, []byte{0xc3, 0x01, 0x02, 0x03}, 0600))
	assert.Equal(t, "[\n  0x01\n  0x02\n  0x03\n]\n", mustRun(t, "rlpdump", "--file", file))
}

const fooCalldata = "0xc5d1c995" +
	"000000000000000000000000000000000000000000000000000000000000002a" +
	"0000000000000000000000000000000000000000000000000000000000000040" +
	"0000000000000000000000000000000000000000000000000000000000000002" +
	"6869000000000000000000000000000000000000000000000000000000000000"

func TestABIEncodeDecode(t *testing.T) {
	out := mustRun(t, "abi", "encode", "foo(uint256,string)", "42", "hi")
	assert.Equal(t, fooCalldata+"\n", out)

	out = mustRun(t, "abi", "encode", "--noselector", "foo(uint256,string)", "42", "hi")
	assert.Equal(t, "0x"+fooCalldata[10:]+"\n", out)

	out = mustRun(t, "abi", "decode", "foo(uint256,string)", fooCalldata)
	assert.Equal(t, "uint256: 42\nstring: \"hi\"\n", out)

	out = mustRun(t, "abi", "decode", "uint256,string", fooCalldata[10:])
	assert.Equal(t, "uint256: 42\nstring: \"hi\"\n", out)

	// Wrong selector.
	_, err := runApp(t, "abi", "decode", "bar(uint256,string)", fooCalldata)
	assert.Error(t, err)

	_, err = runApp(t, "abi", "encode", "foo(uint256,string)", "42")
	assert.ErrorContains(t, err, "takes 2 arguments")
}

func TestABISelector(t *testing.T) {
	out := mustRun(t, "abi", "selector", "transfer(address,uint256)")
	assert.Contains(t, out, "signature: transfer(address,uint256)\n")
	assert.Contains(t, out, "selector:  0xa9059cbb\n")
}

func TestABIError(t *testing.T) {
	revert := "0x08c379a0" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"626f6f6d00000000000000000000000000000000000000000000000000000000"
	assert.Equal(t, "revert: \"boom\"\n", mustRun(t, "abi", "error", revert))

	panicData := "0x4e487b71" + "0000000000000000000000000000000000000000000000000000000000000011"
	assert.True(t, strings.HasPrefix(mustRun(t, "abi", "error", panicData), "panic: 0x11 "))

	custom := "0xcf479181" +
		"0000000000000000000000000000000000000000000000000000000000000001" +
		"0000000000000000000000000000000000000000000000000000000000000002"
	out := mustRun(t, "abi", "error", "--def", "InsufficientBalance(uint256,uint256)", custom)
	assert.Equal(t, "error: InsufficientBalance(uint256,uint256)\n  uint256: 1\n  uint256: 2\n", out)

	assert.Equal(t, "unknown: 0xdeadbeef\n", mustRun(t, "abi", "error", "0xdeadbeef"))
}

func TestSignAndRecoverMessage(t *testing.T) {
	sig := strings.TrimSpace(mustRun(t, "--key", testKey, "sign", "message", "hello"))
	require.Len(t, sig, 2+65*2)
	assert.Contains(t, []string{"1b", "1c"}, sig[len(sig)-2:])

	out := mustRun(t, "recover", "--message", "hello", sig)
	assert.Equal(t, testAddress+"\n", out)

	// Hex messages hash the decoded bytes.
	hexSig := strings.TrimSpace(mustRun(t, "--key", testKey, "sign", "message", "--hex", "0x68656c6c6f"))
	assert.Equal(t, sig, hexSig)

	if out, err := runApp(t, "recover", "--message", "other", sig); err == nil {
		assert.NotEqual(t, testAddress+"\n", out)
	}

	_, err := runApp(t, "recover", sig)
	assert.Error(t, err)
	_, err = runApp(t, "sign", "message", "hello")
	assert.ErrorIs(t, err, errNoSigner)
	_, err = runApp(t, "--key", testKey, "--mnemonic", testPhrase, "sign", "message", "hello")
	assert.ErrorIs(t, err, errMultipleSigners)
}

func TestSignTypedMail(t *testing.T) {
	const message = `{
		"from": {"name": "Cow", "wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826"},
		"to":   {"name": "Bob", "wallet": "0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB"},
		"contents": "Hello, Bob!"
	}`
	out := mustRun(t,
		"--chainid", "1",
		"--key", "c85ef7d79691fe79573b1a7064c19c1a9819ebdbd1faaab1a8ec92344438aaf4",
		"sign", "typed",
		"--struct", "Person(string name,address wallet)",
		"--struct", "Mail(Person from,Person to,string contents)",
		"--domain.name", "Ether Mail",
		"--domain.version", "1",
		"--domain.contract", "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC",
		message,
	)
	want := "hash:      0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2\n" +
		"signature: 0x4355c47d63924e8a72e509b65029052eb6c299d53a04e167c5775fd466751c9d" +
		"07299936d304c153f6443dfa05f40ff007d72911b6f72307f996231605b91562" + "1c\n"
	assert.Equal(t, want, out)

	out = mustRun(t, "recover", "--hash", "0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2", strings.TrimPrefix(strings.Split(want, "\n")[1], "signature: "))
	assert.Equal(t, "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826\n", out)
}

func TestTxSignDecode(t *testing.T) {
	const to = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	out := mustRun(t,
		"--chainid", "31337", "--key", testKey,
		"tx", "sign", "--to", to, "--nonce", "3", "--value", "1000", "--tip", "1", "--feecap", "2000000000",
	)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	raw := lines[0]
	assert.True(t, strings.HasPrefix(raw, "0x02"))

	decoded := mustRun(t, "tx", "decode", raw)
	assert.Contains(t, decoded, "type:     2\n")
	assert.Contains(t, decoded, "chainid:  31337\n")
	assert.Contains(t, decoded, "nonce:    3\n")
	assert.Contains(t, decoded, "gas:      21000\n")
	assert.Contains(t, decoded, "feecap:   2000000000\n")
	assert.Contains(t, decoded, "to:       "+to+"\n")
	assert.Contains(t, decoded, "value:    1000\n")
	assert.Contains(t, decoded, "from:     "+testAddress+"\n")
	assert.Contains(t, decoded, "hash:     "+strings.TrimPrefix(lines[1], "hash: ")+"\n")

	senders := mustRun(t, "--chainid", "31337", "tx", "senders", raw, raw)
	assert.Equal(t, 2, strings.Count(senders, " "+testAddress+"\n"))
}

func TestTxSignLegacyUnprotected(t *testing.T) {
	out := mustRun(t,
		"--chainid", "0", "--key", testKey,
		"tx", "sign", "--type", "legacy", "--gasprice", "1000000000", "--data", "0x1234",
	)
	raw := strings.Split(out, "\n")[0]
	decoded := mustRun(t, "tx", "decode", raw)
	assert.Contains(t, decoded, "type:     0\n")
	assert.NotContains(t, decoded, "chainid:")
	assert.Contains(t, decoded, "to:       <contract creation>\n")
	assert.Contains(t, decoded, "data:     0x1234\n")
	assert.Contains(t, decoded, "from:     "+testAddress+"\n")
	assert.Contains(t, decoded, "contract: 0x5FbDB2315678afecb367f032d93F642f64180aa3\n")

	_, err := runApp(t, "--chainid", "0", "--key", testKey, "tx", "sign")
	assert.ErrorContains(t, err, "need a chain id")
}

func TestTxSignAmounts(t *testing.T) {
	out := mustRun(t,
		"--chainid", "1", "--key", testKey,
		"tx", "sign", "--value", "1.5gwei", "--feecap", "2gwei", "--to", testAddress,
	)
	decoded := mustRun(t, "tx", "decode", strings.Split(out, "\n")[0])
	assert.Contains(t, decoded, "value:    1500000000\n")
	assert.Contains(t, decoded, "feecap:   2000000000\n")

	_, err := runApp(t, "--chainid", "1", "--key", testKey, "tx", "sign", "--value", "-1")
	assert.ErrorContains(t, err, "negative")
	_, err = runApp(t, "--chainid", "1", "--key", testKey, "tx", "sign", "--gasprice", "0x1"+strings.Repeat("0", 64))
	assert.ErrorContains(t, err, "256 bits")
}

func TestTxSetCode(t *testing.T) {
	const delegate = "0x1111111111111111111111111111111111111111"
	auth := strings.TrimSpace(mustRun(t, "--chainid", "1", "--key", testKey, "tx", "authorize", "--delegate", delegate, "--nonce", "8"))

	out := mustRun(t,
		"--chainid", "1", "--key", testKey,
		"tx", "sign", "--type", "setcode", "--to", testAddress, "--nonce", "7", "--feecap", "10", "--auth", auth,
	)
	decoded := mustRun(t, "tx", "decode", strings.Split(out, "\n")[0])
	assert.Contains(t, decoded, "type:     4\n")
	assert.Contains(t, decoded, "auth 0:   chain 1 delegate "+delegate+" nonce 8 from "+testAddress+"\n")
	assert.Contains(t, decoded, "from:     "+testAddress+"\n")

	_, err := runApp(t, "--chainid", "1", "--key", testKey, "tx", "sign", "--type", "setcode", "--to", testAddress)
	assert.ErrorContains(t, err, "at least one --auth")
	_, err = runApp(t, "--chainid", "1", "--key", testKey, "tx", "sign", "--type", "blob")
	assert.ErrorContains(t, err, "unknown transaction type")
}

func TestWalletDerive(t *testing.T) {
	out := mustRun(t, "--mnemonic", testPhrase, "wallet", "derive", "--count", "2")
	want := "m/44'/60'/0'/0/0 " + testAddress + "\n" +
		"m/44'/60'/0'/0/1 0x70997970C51812dc3A010C7d01b50e0d17dc79C8\n"
	assert.Equal(t, want, out)

	out = mustRun(t, "--mnemonic", testPhrase, "wallet", "derive", "--private")
	assert.Equal(t, "m/44'/60'/0'/0/0 "+testAddress+" 0x"+testKey+"\n", out)

	// The configured mnemonic also signs.
	sig := strings.TrimSpace(mustRun(t, "--mnemonic", testPhrase, "sign", "message", "hello"))
	assert.Equal(t, testAddress+"\n", mustRun(t, "recover", "--message", "hello", sig))
}

func TestWalletNew(t *testing.T) {
	for _, words := range []string{"12", "24"} {
		out := mustRun(t, "wallet", "new", "--words", words)
		assert.Len(t, strings.Fields(out), map[string]int{"12": 12, "24": 24}[words])
	}
	for _, words := range []string{"11", "13", "27"} {
		_, err := runApp(t, "wallet", "new", "--words", words)
		assert.Error(t, err, "words %s", words)
	}
}

func TestKeystoreNewInspect(t *testing.T) {
	dir := t.TempDir()
	password := filepath.Join(dir, "password.txt")
	require.NoError(t, os.WriteFile(password, []byte("foo\n"), 0600))
	keydir := filepath.Join(dir, "keys")

	out := mustRun(t, "--password", password, "keystore", "new", "--dir", keydir, "--lightkdf", "--import", "0x"+testKey)
	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	assert.Equal(t, testAddress, fields[0])
	keyfile := fields[1]
	assert.FileExists(t, keyfile)

	out = mustRun(t, "--password", password, "keystore", "inspect", "--private", keyfile)
	assert.Contains(t, out, "address: "+testAddress+"\n")
	assert.Contains(t, out, "private: 0x"+testKey+"\n")

	// The key file signs like the raw key.
	sig := strings.TrimSpace(mustRun(t, "--keyfile", keyfile, "--password", password, "sign", "message", "hello"))
	assert.Equal(t, testAddress+"\n", mustRun(t, "recover", "--message", "hello", sig))

	_, err := runApp(t, "keystore", "inspect", keyfile)
	assert.Error(t, err)
}
