package infra

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	// Ensure sqlcipher driver is registered.
	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// PreferencesDBName is the database file inside the data directory.
const PreferencesDBName = "preferences.db"

// EncryptedPreferences implements domain.PreferenceStore using a SQLCipher
// encrypted SQLite database.
type EncryptedPreferences struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

// NewEncryptedPreferences opens (or creates) the preference database in
// dataDir. The key is used as the SQLCipher passphrase via PRAGMA key.
func NewEncryptedPreferences(dataDir string, key []byte) (*EncryptedPreferences, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, PreferencesDBName)
	dsn := fmt.Sprintf("%s?_pragma_key=%s&_pragma_cipher_page_size=4096", dbPath, SQLCipherKey(key))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}

	// A wrong key only shows up on first access.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to unlock preferences: %w", err)
	}

	p := &EncryptedPreferences{db: db, dbPath: dbPath}
	if err := p.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return p, nil
}

func (p *EncryptedPreferences) createTables() error {
	_, err := p.db.Exec(`
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`)
	return err
}

// Get returns the stored value and whether it exists.
func (p *EncryptedPreferences) Get(key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var value string
	err := p.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a value, replacing any previous one.
func (p *EncryptedPreferences) Set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := p.db.Exec(`INSERT OR REPLACE INTO preferences (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, time.Now().Unix())
	return err
}

// All returns every stored preference.
func (p *EncryptedPreferences) All() (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows, err := p.db.Query(`SELECT key, value FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		prefs[k] = v
	}
	return prefs, rows.Err()
}

// Path returns the database file path.
func (p *EncryptedPreferences) Path() string {
	return p.dbPath
}

// Close releases the database connection. It is safe to call twice.
func (p *EncryptedPreferences) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

// OpenPreferences loads (or creates) the key in dataDir and opens the
// encrypted store with it.
//
// A database whose key file is gone cannot be unlocked, so no new key is
// generated for it; ErrNoKey is returned instead.
func OpenPreferences(dataDir string) (*EncryptedPreferences, error) {
	provider := NewFileKeyProvider(dataDir)
	if !provider.KeyExists() {
		if _, err := os.Stat(filepath.Join(dataDir, PreferencesDBName)); err == nil {
			return nil, fmt.Errorf("%w for existing database in %s", ErrNoKey, dataDir)
		}
	}
	key, err := EnsureKey(provider)
	if err != nil {
		return nil, err
	}
	return NewEncryptedPreferences(dataDir, key)
}

// Ensure EncryptedPreferences implements domain.PreferenceStore.
var _ domain.PreferenceStore = (*EncryptedPreferences)(nil)
