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

package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

func newAESBlock(key, iv []byte) (cipher.Block, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("invalid iv length %d", len(iv))
	}
	return block, nil
}

// aesCTRXOR runs AES-CTR over in. Encryption and decryption are the same
// operation.
func aesCTRXOR(key, in, iv []byte) ([]byte, error) {
	block, err := newAESBlock(key, iv)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)
	return out, nil
}

// aesCBCDecrypt decrypts PKCS#7 padded AES-CBC data, as found in version 1 key
// files. Malformed padding is reported as ErrDecrypt.
func aesCBCDecrypt(key, in, iv []byte) ([]byte, error) {
	block, err := newAESBlock(key, iv)
	if err != nil {
		return nil, err
	}
	if len(in) == 0 || len(in)%aes.BlockSize != 0 {
		return nil, ErrDecrypt
	}
	out := make([]byte, len(in))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, in)
	return pkcs7Unpad(out)
}

func pkcs7Unpad(in []byte) ([]byte, error) {
	n := int(in[len(in)-1])
	if n == 0 || n > aes.BlockSize || n > len(in) {
		return nil, ErrDecrypt
	}
	for _, b := range in[len(in)-n:] {
		if int(b) != n {
			return nil, ErrDecrypt
		}
	}
	return in[:len(in)-n], nil
}
