package enums

import (
	"fmt"
	"strings"
)

// UserRole is the account-level role carried in the access token.
type UserRole string

const (
	UserRoleAdmin           UserRole = "ADMIN"
	UserRoleUser            UserRole = "USER"
	UserRoleStoreManager    UserRole = "STORE_MANAGER"
	UserRoleStoreStaff      UserRole = "STORE_STAFF"
	UserRoleDeliveryPartner UserRole = "DELIVERY_PARTNER"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleUser,
	UserRoleStoreManager,
	UserRoleStoreStaff,
	UserRoleDeliveryPartner,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole. Matching ignores case.
func ParseUserRole(value string) (UserRole, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validUserRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
