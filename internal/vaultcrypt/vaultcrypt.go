// Package vaultcrypt seals vault item contents with a key derived from the PIN.
// The store only ever sees the sealed bytes.
package vaultcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	version   byte = 1
	saltSize       = 16
	nonceSize      = 12
	keySize        = 32
)

var (
	// ErrDecrypt is returned for a wrong PIN or tampered data
	ErrDecrypt = errors.New("unable to decrypt vault item")
	// ErrFormat is returned when sealed data is too short or has an unknown version
	ErrFormat = errors.New("unrecognised vault item format")
)

// DeriveKey stretches pin into an AES-256 key
func DeriveKey(pin string, salt []byte) []byte {
	return argon2.IDKey([]byte(pin), salt, 1, 64*1024, 4, keySize)
}

// Seal encrypts plaintext as version | salt | nonce | ciphertext
func Seal(pin string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	aesgcm, err := newGCM(DeriveKey(pin, salt))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+saltSize+nonceSize+len(plaintext)+aesgcm.Overhead())
	out = append(out, version)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aesgcm.Seal(out, nonce, plaintext, []byte{version}), nil
}

// Open reverses Seal
func Open(pin string, sealed []byte) ([]byte, error) {
	if len(sealed) < 1+saltSize+nonceSize || sealed[0] != version {
		return nil, ErrFormat
	}
	salt := sealed[1 : 1+saltSize]
	nonce := sealed[1+saltSize : 1+saltSize+nonceSize]
	ciphertext := sealed[1+saltSize+nonceSize:]

	aesgcm, err := newGCM(DeriveKey(pin, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, []byte{version})
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
