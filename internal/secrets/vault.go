// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package secrets stores the generative-language API key encrypted at rest.
//
// Keys never land on disk in plaintext. The vault keeps three files under
// the molesim home directory, all mode 0600:
//
//   - master.key:  32 bytes of random key material
//   - master.salt: 32 bytes of random salt
//   - credentials: ENC:base64(nonce || ciphertext || tag)
//
// The AES-256-GCM key is stretched from the key material with
// PBKDF2-SHA-256, so the material on disk is never used as a cipher key
// directly.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks a stored value as encrypted.
const EncryptedPrefix = "ENC:"

// NonceSize is the AES-GCM nonce size (96 bits).
const NonceSize = 12

// KeySize is the AES-256 key size.
const KeySize = 32

// SaltSize is the salt size for key derivation.
const SaltSize = 32

// PBKDF2Iterations follows the OWASP recommendation for PBKDF2-SHA-256.
const PBKDF2Iterations = 600000

const (
	keyFileName        = "master.key"
	saltFileName       = "master.salt"
	credentialFileName = "credentials"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoCredentials indicates no API key has been stored yet.
	ErrNoCredentials = errors.New("no stored credentials: run 'molesim setup'")
	// ErrInvalidCiphertext indicates the stored value is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates the authentication tag did not verify.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// =============================================================================
// HELPERS
// =============================================================================

// ZeroBytes zeros sensitive byte slices to limit exposure in memory dumps.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// IsEncrypted reports whether a value carries the encryption marker.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

// DeriveKey stretches key material into an AES-256 key with PBKDF2-SHA-256.
func DeriveKey(material, salt []byte) []byte {
	return pbkdf2.Key(material, salt, PBKDF2Iterations, KeySize, sha256.New)
}

// DefaultDir returns the vault directory (~/.molesim).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".molesim"), nil
}

// =============================================================================
// VAULT
// =============================================================================

// Vault encrypts and decrypts the stored API key.
type Vault struct {
	mu   sync.Mutex
	dir  string
	aead cipher.AEAD
}

// Open opens the vault in dir, provisioning key material on first use.
func Open(dir string) (*Vault, error) {
	v := &Vault{dir: dir}

	material, salt, err := v.loadOrProvision()
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(material)

	key := DeriveKey(material, salt)
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	v.aead, err = cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}

	return v, nil
}

// OpenDefault opens the vault in the default molesim directory.
func OpenDefault() (*Vault, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return Open(dir)
}

// loadOrProvision reads the key material and salt, generating both when
// neither exists yet. Files are written atomically with 0600 permissions.
func (v *Vault) loadOrProvision() (material, salt []byte, err error) {
	keyPath := filepath.Join(v.dir, keyFileName)
	saltPath := filepath.Join(v.dir, saltFileName)

	material, keyErr := os.ReadFile(keyPath)
	salt, saltErr := os.ReadFile(saltPath)
	if keyErr == nil && saltErr == nil {
		if len(material) != KeySize || len(salt) != SaltSize {
			return nil, nil, fmt.Errorf("corrupt key material in %s", v.dir)
		}
		return material, salt, nil
	}
	if keyErr == nil || saltErr == nil {
		// One of the pair is missing. Refuse to regenerate silently, that
		// would orphan any existing credentials file.
		return nil, nil, fmt.Errorf("incomplete key material in %s: remove %s and %s to reset",
			v.dir, keyFileName, saltFileName)
	}

	material = make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, material); err != nil {
		return nil, nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	salt = make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(keyPath, material, 0600, 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to write key material: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(saltPath, salt, 0600, 0700); err != nil {
		_ = os.Remove(keyPath)
		return nil, nil, fmt.Errorf("failed to write salt: %w", err)
	}

	return material, salt, nil
}

// =============================================================================
// ENCRYPTION PRIMITIVES
// =============================================================================

// encrypt seals plaintext as nonce || ciphertext || tag.
func (v *Vault) encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return v.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt opens nonce || ciphertext || tag.
func (v *Vault) decrypt(data []byte) ([]byte, error) {
	if len(data) < NonceSize {
		return nil, ErrInvalidCiphertext
	}
	nonce, ciphertext := data[:NonceSize], data[NonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptString encrypts a value and returns it with the ENC: marker.
func (v *Vault) EncryptString(plaintext string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := v.encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecryptString decrypts a marked value. Unmarked values pass through
// unchanged, so plaintext keys from older installs keep working.
func (v *Vault) DecryptString(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("invalid base64 encoding: %w", err)
	}
	plaintext, err := v.decrypt(data)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// =============================================================================
// API KEY STORAGE
// =============================================================================

// credentialPath returns the path of the encrypted credentials file.
func (v *Vault) credentialPath() string {
	return filepath.Join(v.dir, credentialFileName)
}

// StoreAPIKey encrypts and persists the API key.
func (v *Vault) StoreAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("refusing to store an empty API key")
	}

	encrypted, err := v.EncryptString(strings.TrimSpace(key))
	if err != nil {
		return fmt.Errorf("failed to encrypt API key: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(v.credentialPath(), []byte(encrypted), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// LoadAPIKey reads and decrypts the stored API key.
func (v *Vault) LoadAPIKey() (string, error) {
	data, err := os.ReadFile(v.credentialPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoCredentials
		}
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}

	key, err := v.DecryptString(strings.TrimSpace(string(data)))
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrNoCredentials
	}
	return key, nil
}

// DeleteAPIKey removes the stored credentials. Missing credentials are not
// an error.
func (v *Vault) DeleteAPIKey() error {
	if err := os.Remove(v.credentialPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}

// HasAPIKey reports whether credentials are stored.
func (v *Vault) HasAPIKey() bool {
	_, err := os.Stat(v.credentialPath())
	return err == nil
}
