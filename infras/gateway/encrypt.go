package gateway

import (
	"bytes"
	"crypto/cipher"
	"crypto/des" //nolint:gosec
	"encoding/base64"
	"fmt"
	"strings"
)

const tripleDESKeySize = 24

// Encrypter seals a gateway payload.
type Encrypter interface {
	Encrypt(plaintext []byte) (string, error)
}

type tripleDES struct {
	block cipher.Block
}

// NewTripleDES builds the Flutterwave payload cipher: 3DES in ECB mode with
// PKCS#7 padding, base64 encoded. The key is right-padded with '0' (or
// truncated) to 24 bytes.
func NewTripleDES(key string) (Encrypter, error) {
	if len(key) < tripleDESKeySize {
		key += strings.Repeat("0", tripleDESKeySize-len(key))
	}

	block, err := des.NewTripleDESCipher([]byte(key[:tripleDESKeySize])) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to create 3des cipher: %w", err)
	}

	return &tripleDES{block: block}, nil
}

func (t *tripleDES) Encrypt(plaintext []byte) (string, error) {
	size := t.block.BlockSize()
	padding := size - len(plaintext)%size
	padded := append(plaintext, bytes.Repeat([]byte{byte(padding)}, padding)...)

	sealed := make([]byte, len(padded))
	for offset := 0; offset < len(padded); offset += size {
		t.block.Encrypt(sealed[offset:offset+size], padded[offset:offset+size])
	}

	return base64.StdEncoding.EncodeToString(sealed), nil
}
