// Package util provides utility functions for the ledger.
package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewSaleID returns a random RFC 4122 v4 UUID string.
func NewSaleID() string {
	return uuid.NewString()
}

// NewProductID returns a short catalog id such as "P-1F0C9A2B", used when the
// caller does not pick one.
func NewProductID() string {
	return "P-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
