package shared

import (
	"fmt"
	"strings"
)

// TenantID is a value object identifying a company-level tenant.
// Both requesters and responders are tenants, never individual users.
type TenantID struct {
	value string
}

// NewTenantID creates a new TenantID value object
func NewTenantID(id string) (TenantID, error) {
	if strings.TrimSpace(id) == "" {
		return TenantID{}, fmt.Errorf("tenant_id cannot be empty")
	}
	return TenantID{value: id}, nil
}

// MustNewTenantID creates a new TenantID value object, panicking if invalid.
// Use this only when you're certain the ID is valid (e.g., from database)
func MustNewTenantID(id string) TenantID {
	tenantID, err := NewTenantID(id)
	if err != nil {
		panic(err)
	}
	return tenantID
}

// Value returns the string value of the TenantID
func (t TenantID) Value() string {
	return t.value
}

// String returns a string representation of the TenantID
func (t TenantID) String() string {
	return t.value
}

// Equals checks if two TenantIDs are equal
func (t TenantID) Equals(other TenantID) bool {
	return t.value == other.value
}

// IsZero checks if the TenantID is the zero value (uninitialized)
func (t TenantID) IsZero() bool {
	return t.value == ""
}
