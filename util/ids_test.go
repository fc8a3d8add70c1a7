package util

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
)

func TestNewSaleID_Format(t *testing.T) {
	id := NewSaleID()
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("sale id %q is not a UUID: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected v4 UUID, got version %d", parsed.Version())
	}
}

func TestNewProductID_Format(t *testing.T) {
	r := regexp.MustCompile(`^P-[0-9A-F]{8}$`)
	for i := 0; i < 20; i++ {
		if id := NewProductID(); !r.MatchString(id) {
			t.Fatalf("product id %s does not match %s", id, r)
		}
	}
}

func TestNewSaleID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewSaleID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
