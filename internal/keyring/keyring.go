// Package keyring keeps PostgreSQL connection strings in the OS keyring.
// Each habitree user may store an entry of their own; the shared entry
// (empty user) serves everyone without one.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitree/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Account is the keyring account name holding user's entry.
func Account(user string) string {
	if user == "" {
		return constants.DefaultKeyringUser
	}
	return constants.DefaultKeyringUser + ":" + user
}

func get(account string) (string, error) {
	connStr, err := keyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// GetConnectionString returns user's connection string, falling back to
// the shared entry.
func GetConnectionString(user string) (string, error) {
	if user != "" {
		connStr, err := get(Account(user))
		if !errors.Is(err, ErrNotFound) {
			return connStr, err
		}
	}
	return get(Account(""))
}

func SetConnectionString(user, connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, Account(user), connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes only user's own entry.
func DeleteConnectionString(user string) error {
	err := keyring.Delete(constants.AppName, Account(user))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable reports, best effort, whether the OS keyring is usable.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
