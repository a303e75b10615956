package infra

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// keySize is the length of a raw SQLCipher key (AES-256).
const keySize = 32

var (
	// ErrNoKey is returned when the key file does not exist.
	ErrNoKey = errors.New("preferences key not found")

	// ErrKeyInvalid is returned for a key file that is not 64 hex digits.
	ErrKeyInvalid = errors.New("invalid preferences key")

	// ErrKeyExposed is returned when the key file is readable by other users.
	ErrKeyExposed = errors.New("preferences key file is accessible by other users")
)

// FileKeyProvider keeps the raw SQLCipher key of a database in a sibling
// file named after it (preferences.db -> preferences.key). The file holds
// the key as hex, the form SQLCipher accepts in x'...' key pragmas.
type FileKeyProvider struct {
	keyPath string
}

// NewFileKeyProvider returns the provider for the preference database in
// dataDir.
func NewFileKeyProvider(dataDir string) *FileKeyProvider {
	return &FileKeyProvider{keyPath: KeyPathFor(filepath.Join(dataDir, PreferencesDBName))}
}

// KeyPathFor returns the key file belonging to the database at dbPath.
func KeyPathFor(dbPath string) string {
	return strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".key"
}

// Path returns the key file path.
func (p *FileKeyProvider) Path() string { return p.keyPath }

// GetKey reads the key. Files with group or other permission bits are
// refused rather than used.
func (p *FileKeyProvider) GetKey() ([]byte, error) {
	info, err := os.Stat(p.keyPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoKey, p.keyPath)
	}
	if err != nil {
		return nil, fmt.Errorf("stat key file: %w", err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		return nil, fmt.Errorf("%w: %s has mode %o", ErrKeyExposed, p.keyPath, perm)
	}

	data, err := os.ReadFile(p.keyPath)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return decodeKey(strings.TrimSpace(string(data)))
}

// StoreKey writes key as hex with owner-only permissions.
func (p *FileKeyProvider) StoreKey(key []byte) error {
	if len(key) != keySize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrKeyInvalid, len(key), keySize)
	}
	if err := os.MkdirAll(filepath.Dir(p.keyPath), 0o700); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(p.keyPath, []byte(hex.EncodeToString(key)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

// KeyExists reports whether the key file exists.
func (p *FileKeyProvider) KeyExists() bool {
	_, err := os.Stat(p.keyPath)
	return err == nil
}

func decodeKey(s string) ([]byte, error) {
	if len(s) != 2*keySize {
		return nil, fmt.Errorf("%w: %d hex digits, want %d", ErrKeyInvalid, len(s), 2*keySize)
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyInvalid, err)
	}
	return key, nil
}

// SQLCipherKey formats key as a raw key literal for the _pragma_key DSN
// parameter, which skips SQLCipher's passphrase derivation.
func SQLCipherKey(key []byte) string {
	return "x'" + hex.EncodeToString(key) + "'"
}

// GenerateKey creates a new random key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// EnsureKey returns the stored key, generating and storing one on first use.
func EnsureKey(provider domain.KeyProvider) ([]byte, error) {
	if provider.KeyExists() {
		return provider.GetKey()
	}
	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := provider.StoreKey(key); err != nil {
		return nil, err
	}
	return key, nil
}

var _ domain.KeyProvider = (*FileKeyProvider)(nil)
