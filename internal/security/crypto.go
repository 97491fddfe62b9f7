package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/mcport/mcport/internal/errors"
)

// Encrypted blob layout: salt (16) || iv (16) || ciphertext || mac (32).
// The MAC is HMAC-SHA256 over iv||ciphertext, encrypt-then-MAC. Two
// independent 32-byte keys (cipher, MAC) are derived from the passphrase
// with PBKDF2-SHA256.
const (
	saltSize   = 16
	macSize    = sha256.Size
	keySize    = 32
	kdfRounds  = 100_000
	minBlobLen = saltSize + aes.BlockSize + aes.BlockSize + macSize
)

// ErrDecrypt is returned for any decryption failure: wrong passphrase,
// truncated blob, or tampered ciphertext. The cause is deliberately not
// distinguished.
var ErrDecrypt = errors.New("decryption failed")

func deriveKeys(passphrase string, salt []byte) (encKey, macKey []byte) {
	material := pbkdf2.Key([]byte(passphrase), salt, kdfRounds, 2*keySize, sha256.New)
	return material[:keySize], material[keySize:]
}

func pkcs7Pad(data []byte) []byte {
	padding := aes.BlockSize - len(data)%aes.BlockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, ErrDecrypt
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, ErrDecrypt
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrDecrypt
		}
	}
	return data[:len(data)-padding], nil
}

// Encrypt seals plaintext with a passphrase using AES-256-CBC and an
// HMAC-SHA256 authentication tag. Each call generates a fresh salt and
// IV, so encrypting the same plaintext twice yields different blobs.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase must not be empty")
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, errors.Wrap(err, "generating salt")
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, errors.Wrap(err, "generating iv")
	}

	encKey, macKey := deriveKeys(passphrase, salt)
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating cipher")
	}

	padded := pkcs7Pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(ciphertext)

	blob := make([]byte, 0, saltSize+aes.BlockSize+len(ciphertext)+macSize)
	blob = append(blob, salt...)
	blob = append(blob, iv...)
	blob = append(blob, ciphertext...)
	blob = append(blob, mac.Sum(nil)...)
	return blob, nil
}

// Decrypt opens a blob produced by Encrypt. The MAC is verified before
// any decryption happens.
func Decrypt(blob []byte, passphrase string) ([]byte, error) {
	if len(blob) < minBlobLen {
		return nil, ErrDecrypt
	}

	salt := blob[:saltSize]
	iv := blob[saltSize : saltSize+aes.BlockSize]
	ciphertext := blob[saltSize+aes.BlockSize : len(blob)-macSize]
	tag := blob[len(blob)-macSize:]

	encKey, macKey := deriveKeys(passphrase, salt)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	if subtle.ConstantTimeCompare(tag, mac.Sum(nil)) != 1 {
		return nil, ErrDecrypt
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating cipher")
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrDecrypt
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
	return pkcs7Unpad(padded)
}
