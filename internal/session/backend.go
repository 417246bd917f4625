package session

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/taskforge/internal/constants"
)

// NewBackend builds the backend named by kind. SQLite data lives under dataDir.
func NewBackend(kind, dataDir string) (Backend, error) {
	switch kind {
	case "", constants.SessionStoreKeyring:
		return NewKeyringBackend(), nil
	case constants.SessionStoreSQLite:
		b := NewSQLiteBackend(filepath.Join(dataDir, constants.SessionDBName))
		if err := b.Open(); err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown session store %q (want %s or %s)", kind, constants.SessionStoreKeyring, constants.SessionStoreSQLite)
	}
}
