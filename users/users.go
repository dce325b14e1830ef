package users

import (
	"golang.org/x/crypto/bcrypt"
)

// Role names used by the warehouse backend
const (
	RoleAdmin          = "Admin"
	RoleSales          = "Sales"
	RoleWarehouse      = "Warehouse"
	RoleOwner          = "Owner"
	RoleShippingVendor = "Shipping_Vendor"
)

// Profile is the user record returned by the login and current-user endpoints.
type Profile struct {
	UserID   int64  `json:"user_id"`             // Backend user id
	Account  string `json:"account"`             // Login name
	RoleID   int64  `json:"role_id,omitempty"`   // Backend role id
	RoleName string `json:"role_name,omitempty"` // Primary role, one of the Role* constants
	Name     string `json:"name,omitempty"`      // Display name, optional
}

// Roles returns the profile's role set. Single-role deployments yield one element.
func (p *Profile) Roles() []string {
	if p == nil || p.RoleName == "" {
		return []string{}
	}
	return []string{p.RoleName}
}

// DisplayName prefers the account name, the way the UI header shows it.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Account != "" {
		return p.Account
	}
	return p.Name
}

// Account is a server-side user with credentials. Only the development auth server uses it.
type Account struct {
	Profile
	PasswordHash string `json:"-"` // Never serialize
	Blocked      bool   `json:"blocked,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword compares password against the account's stored hash
func (a *Account) CheckPassword(password string) bool {
	return CheckPasswordHash(password, a.PasswordHash)
}
