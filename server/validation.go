package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-warehouse-client/api"
	"github.com/jrsteele09/go-warehouse-client/users"
)

var errAccountBlocked = errors.New("account is blocked")

// ValidateCredentials checks a login request before any account lookup.
func ValidateCredentials(creds api.Credentials) error {
	if strings.TrimSpace(creds.Account) == "" {
		return fmt.Errorf("account is required")
	}
	if strings.ContainsAny(creds.Account, " \t\r\n") {
		return fmt.Errorf("account must not contain whitespace")
	}
	if creds.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// ValidateAccountState rejects accounts that may not hold a session.
func ValidateAccountState(account *users.Account) error {
	if account == nil {
		return fmt.Errorf("account not found")
	}
	if account.Blocked {
		return errAccountBlocked
	}
	return nil
}
