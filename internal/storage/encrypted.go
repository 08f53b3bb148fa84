package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/pbkdf2"
)

var ErrMissingPassphrase = errors.New("storage encryption requires a passphrase")

const pbkdf2Iterations = 100000

type sealedValue struct {
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// Cipher seals values with AES-256-GCM.
type Cipher struct {
	gcm cipher.AEAD
}

// Derive a 256-bit key from the passphrase using PBKDF2
func deriveKey(passphrase string, salt string) []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(salt), pbkdf2Iterations, 32, sha256.New)
}

func NewCipher(passphrase string, salt string) (*Cipher, error) {

	if len(passphrase) == 0 {
		return nil, ErrMissingPassphrase
	}

	key := deriveKey(passphrase, salt)
	defer func() {
		for i := range key {
			key[i] = 0
		}
	}()

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{gcm: gcm}, nil
}

func (c *Cipher) Seal(plainText string) (string, error) {

	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := c.gcm.Seal(nil, nonce, []byte(plainText), nil)

	data, err := json.Marshal(sealedValue{
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal encrypted data: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

func (c *Cipher) Open(sealed string) (string, error) {

	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode encrypted data: %w", err)
	}

	var value sealedValue
	if err := json.Unmarshal(data, &value); err != nil {
		return "", fmt.Errorf("failed to parse encrypted data: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(value.Nonce)
	if err != nil {
		return "", fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(value.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt value: %w", err)
	}

	return string(plaintext), nil
}

// Encrypted seals values before handing them to the wrapped storage.
type Encrypted struct {
	inner  Storage
	cipher *Cipher
}

func NewEncrypted(inner Storage, cipher *Cipher) *Encrypted {
	return &Encrypted{
		inner:  inner,
		cipher: cipher,
	}
}

// Get treats a value that fails to decrypt as absent, since it was written
// with another passphrase or before encryption was enabled.
func (e *Encrypted) Get(key string) (string, bool, error) {
	sealed, ok, err := e.inner.Get(key)
	if err != nil || !ok {
		return "", ok, err
	}

	value, err := e.cipher.Open(sealed)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"key": key,
		}).Warnln("Ignoring stored value that could not be decrypted")
		return "", false, nil
	}

	return value, true, nil
}

func (e *Encrypted) Set(key string, value string) error {
	sealed, err := e.cipher.Seal(value)
	if err != nil {
		return err
	}
	return e.inner.Set(key, sealed)
}

func (e *Encrypted) Remove(keys ...string) error {
	return e.inner.Remove(keys...)
}

// Close closes the wrapped storage.
func (e *Encrypted) Close() error {
	return Close(e.inner)
}
