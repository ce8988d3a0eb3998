package save

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Encryptor handles encryption/decryption operations.
type Encryptor interface {
	// Encrypt encrypts plaintext and returns ciphertext.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext and returns plaintext.
	Decrypt(ciphertext []byte) ([]byte, error)
}

// ecbEncryptor implements AES-ECB, the mode the save format uses. ECB is
// chosen to match the format, not for its security properties.
type ecbEncryptor struct {
	block cipher.Block
}

// AESECB returns an AES-ECB encryptor.
// Key must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256.
func AESECB(key []byte) (Encryptor, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return &ecbEncryptor{block: block}, nil
}

// Encrypt applies PKCS7 padding to a 16-byte multiple, then encrypts each
// block independently.
func (e *ecbEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	padded := padPKCS7(plaintext)
	ciphertext := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		e.block.Encrypt(ciphertext[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}
	return ciphertext, nil
}

// Decrypt decrypts each block independently, then strips trailing padding
// with the format's lax heuristic.
func (e *ecbEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte block size",
			ErrInvalidCiphertextLength, len(ciphertext), aes.BlockSize)
	}

	plaintext := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		e.block.Decrypt(plaintext[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
	}
	return stripPadding(plaintext), nil
}

// padPKCS7 appends n bytes each holding value n to fill the final block.
// A block-aligned input gains a full padding block.
func padPKCS7(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// stripPadding trims a PKCS7-style tail only when the last byte value is in
// [1,16). Some payloads arrive unpadded, so this stays a best-effort strip
// rather than strict PKCS7 validation; a strict check would reject real
// save files.
func stripPadding(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	n := int(data[len(data)-1])
	if n >= 1 && n < aes.BlockSize && n <= len(data) {
		return data[:len(data)-n]
	}
	return data
}
