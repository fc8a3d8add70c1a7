package store

import (
	"fmt"
	"strings"

	"stockledger/domain"
)

// NewStore constructs a domain.Storage by kind: "memory", "file" or "sqlite".
// For the file store path is a directory; for sqlite it is the database file;
// for memory it is ignored.
func NewStore(kind, path string) (domain.Storage, error) {
	switch strings.ToLower(kind) {
	case "memory", "mem":
		return NewInMemoryStore(), nil
	case "file":
		if path == "" {
			return nil, fmt.Errorf("data directory required for file store")
		}
		return NewFileStore(path)
	case "sqlite":
		if path == "" {
			return nil, fmt.Errorf("database path required for sqlite store")
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}
