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

/*

The crypto is documented at https://github.com/ethereum/wiki/wiki/Web3-Secret-Storage-Definition

*/

package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Kr1ptal/ethers-go/accounts"
	"github.com/Kr1ptal/ethers-go/common/math"
	"github.com/Kr1ptal/ethers-go/crypto"
	"github.com/Kr1ptal/ethers-go/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

var (
	// ErrDecrypt is returned when the MAC of a key file does not match the
	// passphrase.
	ErrDecrypt = fmt.Errorf("%w: could not decrypt key", accounts.ErrInvalidPassphrase)

	errKDFParams = errors.New("invalid kdf parameters")
)

const (
	keyHeaderKDF = "scrypt"

	// StandardScryptN is the N parameter of Scrypt encryption algorithm, using 256MB
	// memory and taking approximately 1s CPU time on a modern processor.
	StandardScryptN = 1 << 18

	// StandardScryptP is the P parameter of Scrypt encryption algorithm, using 256MB
	// memory and taking approximately 1s CPU time on a modern processor.
	StandardScryptP = 1

	// LightScryptN is the N parameter of Scrypt encryption algorithm, using 4MB
	// memory and taking approximately 100ms CPU time on a modern processor.
	LightScryptN = 1 << 12

	// LightScryptP is the P parameter of Scrypt encryption algorithm, using 4MB
	// memory and taking approximately 100ms CPU time on a modern processor.
	LightScryptP = 6

	scryptR     = 8
	scryptDKLen = 32
)

// LoadKey reads and decrypts the key file at path.
func LoadKey(path, auth string) (*Key, error) {
	keyjson, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecryptKey(keyjson, auth)
}

// NewSigner loads the key file at path and returns a signer for it.
func NewSigner(path, auth string) (*accounts.KeySigner, error) {
	key, err := LoadKey(path, auth)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return accounts.NewKeySigner(key.PrivateKey, accounts.URL{Scheme: Scheme, Path: abs}), nil
}

// StoreKey encrypts key with auth and writes it into dir using the standard
// key file naming convention. The written file is read back and decrypted
// before it is moved into place.
func StoreKey(dir string, key *Key, auth string, scryptN, scryptP int) (accounts.Account, error) {
	keyjson, err := EncryptKey(key, auth, scryptN, scryptP)
	if err != nil {
		return accounts.Account{}, err
	}
	filename := filepath.Join(dir, keyFileName(key.Address, time.Now()))
	tmpName, err := writeTemporaryKeyFile(filename, keyjson)
	if err != nil {
		return accounts.Account{}, err
	}
	stored, err := LoadKey(tmpName, auth)
	if err == nil && stored.Address != key.Address {
		err = fmt.Errorf("key content mismatch: have account %x, want %x", stored.Address, key.Address)
	}
	if err != nil {
		os.Remove(tmpName)
		return accounts.Account{}, fmt.Errorf("verifying key file: %w", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return accounts.Account{}, err
	}
	log.Debug("Stored key file", "address", key.Address, "path", filename)
	return accounts.Account{
		Address: key.Address,
		URL:     accounts.URL{Scheme: Scheme, Path: filename},
	}, nil
}

// NewAccount generates a fresh key and stores it in dir.
func NewAccount(dir, auth string, scryptN, scryptP int) (accounts.Account, error) {
	key, err := NewKey(rand.Reader)
	if err != nil {
		return accounts.Account{}, err
	}
	defer zeroKey(key.PrivateKey)
	return StoreKey(dir, key, auth, scryptN, scryptP)
}

// EncryptDataV3 encrypts the data given as 'data' with the password 'auth'.
// The encryption algorithm used is AES-128-CTR, and the key derivation function
// is Scrypt.
func EncryptDataV3(data, auth []byte, scryptN, scryptP int) (CryptoJSON, error) {
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		panic("reading from crypto/rand failed: " + err.Error())
	}
	derivedKey, err := scrypt.Key(auth, salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return CryptoJSON{}, err
	}
	encryptKey := derivedKey[:16]

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		panic("reading from crypto/rand failed: " + err.Error())
	}
	cipherText, err := aesCTRXOR(encryptKey, data, iv)
	if err != nil {
		return CryptoJSON{}, err
	}
	mac := crypto.Keccak256(derivedKey[16:32], cipherText)

	scryptParamsJSON := make(map[string]interface{}, 5)
	scryptParamsJSON["n"] = scryptN
	scryptParamsJSON["r"] = scryptR
	scryptParamsJSON["p"] = scryptP
	scryptParamsJSON["dklen"] = scryptDKLen
	scryptParamsJSON["salt"] = hex.EncodeToString(salt)

	return CryptoJSON{
		Cipher:       "aes-128-ctr",
		CipherText:   hex.EncodeToString(cipherText),
		CipherParams: cipherparamsJSON{IV: hex.EncodeToString(iv)},
		KDF:          keyHeaderKDF,
		KDFParams:    scryptParamsJSON,
		MAC:          hex.EncodeToString(mac),
	}, nil
}

// EncryptKey encrypts a key using the specified scrypt parameters into a json
// blob that can be decrypted later on.
func EncryptKey(key *Key, auth string, scryptN, scryptP int) ([]byte, error) {
	keyBytes := math.PaddedBigBytes(key.PrivateKey.D, 32)
	cryptoStruct, err := EncryptDataV3(keyBytes, []byte(auth), scryptN, scryptP)
	if err != nil {
		return nil, err
	}
	return json.Marshal(encryptedKeyJSONV3{
		Address: hex.EncodeToString(key.Address[:]),
		Crypto:  cryptoStruct,
		Id:      key.Id.String(),
		Version: version,
	})
}

// DecryptKey decrypts a key from a json blob, returning the private key itself.
func DecryptKey(keyjson []byte, auth string) (*Key, error) {
	// The version field is a string in V1 files and a number in V3 files.
	m := make(map[string]interface{})
	if err := json.Unmarshal(keyjson, &m); err != nil {
		return nil, err
	}
	var (
		keyBytes, keyId []byte
		err             error
	)
	if version, ok := m["version"].(string); ok && version == "1" {
		k := new(encryptedKeyJSONV1)
		if err := json.Unmarshal(keyjson, k); err != nil {
			return nil, err
		}
		keyBytes, keyId, err = decryptKeyV1(k, auth)
	} else {
		k := new(encryptedKeyJSONV3)
		if err := json.Unmarshal(keyjson, k); err != nil {
			return nil, err
		}
		keyBytes, keyId, err = decryptKeyV3(k, auth)
	}
	if err != nil {
		return nil, err
	}
	key, err := crypto.ToECDSA(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	id, err := uuid.FromBytes(keyId)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID: %w", err)
	}
	return &Key{
		Id:         id,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, nil
}

// DecryptDataV3 decrypts the data using the key derived from the password.
// The cipher used is AES-128-CTR and the KDF is Scrypt or PBKDF2.
func DecryptDataV3(cryptoJson CryptoJSON, auth string) ([]byte, error) {
	if cryptoJson.Cipher != "aes-128-ctr" {
		return nil, fmt.Errorf("cipher not supported: %v", cryptoJson.Cipher)
	}
	mac, err := hex.DecodeString(cryptoJson.MAC)
	if err != nil {
		return nil, err
	}
	iv, err := hex.DecodeString(cryptoJson.CipherParams.IV)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("invalid iv length %d", len(iv))
	}
	cipherText, err := hex.DecodeString(cryptoJson.CipherText)
	if err != nil {
		return nil, err
	}
	derivedKey, err := getKDFKey(cryptoJson, auth)
	if err != nil {
		return nil, err
	}

	calculatedMAC := crypto.Keccak256(derivedKey[16:32], cipherText)
	if !bytes.Equal(calculatedMAC, mac) {
		return nil, ErrDecrypt
	}
	return aesCTRXOR(derivedKey[:16], cipherText, iv)
}

func decryptKeyV3(keyProtected *encryptedKeyJSONV3, auth string) (keyBytes []byte, keyId []byte, err error) {
	if keyProtected.Version != version {
		return nil, nil, fmt.Errorf("version not supported: %v", keyProtected.Version)
	}
	keyUUID, err := uuid.Parse(keyProtected.Id)
	if err != nil {
		return nil, nil, err
	}
	plainText, err := DecryptDataV3(keyProtected.Crypto, auth)
	if err != nil {
		return nil, nil, err
	}
	return plainText, keyUUID[:], nil
}

func decryptKeyV1(keyProtected *encryptedKeyJSONV1, auth string) (keyBytes []byte, keyId []byte, err error) {
	keyUUID, err := uuid.Parse(keyProtected.Id)
	if err != nil {
		return nil, nil, err
	}
	mac, err := hex.DecodeString(keyProtected.Crypto.MAC)
	if err != nil {
		return nil, nil, err
	}
	iv, err := hex.DecodeString(keyProtected.Crypto.CipherParams.IV)
	if err != nil {
		return nil, nil, err
	}
	cipherText, err := hex.DecodeString(keyProtected.Crypto.CipherText)
	if err != nil {
		return nil, nil, err
	}
	derivedKey, err := getKDFKey(keyProtected.Crypto, auth)
	if err != nil {
		return nil, nil, err
	}

	calculatedMAC := crypto.Keccak256(derivedKey[16:32], cipherText)
	if !bytes.Equal(calculatedMAC, mac) {
		return nil, nil, ErrDecrypt
	}
	plainText, err := aesCBCDecrypt(crypto.Keccak256(derivedKey[:16])[:16], cipherText, iv)
	if err != nil {
		return nil, nil, err
	}
	return plainText, keyUUID[:], nil
}

// getKDFKey derives a key from the keyfile's KDF parameters, the salt, and the
// passphrase.
func getKDFKey(cryptoJSON CryptoJSON, auth string) ([]byte, error) {
	authArray := []byte(auth)
	saltHex, ok := cryptoJSON.KDFParams["salt"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing salt", errKDFParams)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, err
	}
	dkLen, err := kdfInt(cryptoJSON.KDFParams, "dklen")
	if err != nil {
		return nil, err
	}
	if dkLen < 32 {
		return nil, fmt.Errorf("%w: dklen %d too short", errKDFParams, dkLen)
	}

	switch cryptoJSON.KDF {
	case keyHeaderKDF:
		var n, r, p int
		if n, err = kdfInt(cryptoJSON.KDFParams, "n"); err != nil {
			return nil, err
		}
		if r, err = kdfInt(cryptoJSON.KDFParams, "r"); err != nil {
			return nil, err
		}
		if p, err = kdfInt(cryptoJSON.KDFParams, "p"); err != nil {
			return nil, err
		}
		return scrypt.Key(authArray, salt, n, r, p, dkLen)
	case "pbkdf2":
		c, err := kdfInt(cryptoJSON.KDFParams, "c")
		if err != nil {
			return nil, err
		}
		if prf, _ := cryptoJSON.KDFParams["prf"].(string); prf != "hmac-sha256" {
			return nil, fmt.Errorf("unsupported PBKDF2 PRF: %v", cryptoJSON.KDFParams["prf"])
		}
		return pbkdf2.Key(authArray, salt, c, dkLen, sha256.New), nil
	}
	return nil, fmt.Errorf("unsupported KDF: %s", cryptoJSON.KDF)
}

// kdfInt reads an integer parameter. Values decoded from JSON are float64,
// values set by EncryptDataV3 are int.
func kdfInt(params map[string]interface{}, name string) (int, error) {
	switch x := params[name].(type) {
	case int:
		return x, nil
	case float64:
		return int(x), nil
	}
	return 0, fmt.Errorf("%w: %s", errKDFParams, name)
}
