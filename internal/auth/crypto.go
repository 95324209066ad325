package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// keySalt is a fixed domain-separation salt for the token encryption key.
// The derived key's secrecy rests entirely on CRYPTO_SECRET; the salt only
// keeps the key distinct from other uses of the same secret.
const keySalt = "leaguehq.token.v1"

const (
	scryptN = 32768
	scryptR = 8
	scryptP = 1
	keyLen  = 32
)

var errMalformedBlob = errors.New("malformed token blob")

// deriveKey stretches the encryption secret into an AES-256 key.
func deriveKey(secret string) ([]byte, error) {
	key, err := scrypt.Key([]byte(secret), []byte(keySalt), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("deriving token key: %w", err)
	}
	return key, nil
}

// seal encrypts plaintext with AES-256-CBC under a fresh random IV and
// returns base64url(iv || ciphertext). The layer is obfuscation of the inner
// JWT, not an integrity boundary; integrity comes from the JWT signature.
func seal(key, plaintext []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))

	iv := out[:aes.BlockSize]
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generating iv: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// open reverses seal. Any structural defect reports the same generic error;
// callers collapse it further so clients get no decryption oracle.
func open(key []byte, encoded string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errMalformedBlob
	}
	if len(raw) < 2*aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return nil, errMalformedBlob
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv, ciphertext := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errMalformedBlob
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errMalformedBlob
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errMalformedBlob
		}
	}
	return data[:len(data)-n], nil
}
