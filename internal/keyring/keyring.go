// Package keyring keeps shiftbase secrets in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Service is the keyring service name all secrets are stored under.
const Service = "shiftbase"

// Accounts used within Service.
const (
	PostgresPasswordAccount = "postgres-password"
	OutlookTokenAccount     = "msgraph-token"
)

var (
	// ErrNotFound is returned when no secret is stored for the account.
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get returns the secret stored for account.
func Get(account string) (string, error) {
	secret, err := keyring.Get(Service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret for account, replacing any previous value.
func Set(account, secret string) error {
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(Service, account, secret); err != nil {
		return fmt.Errorf("failed to store secret in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret for account.
func Delete(account string) error {
	if err := keyring.Delete(Service, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete secret from keyring: %w", err)
	}
	return nil
}

// PostgresPassword returns the stored database password, or "" when none is set.
func PostgresPassword() (string, error) {
	pw, err := Get(PostgresPasswordAccount)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return pw, err
}

// IsAvailable checks if the OS keyring can be used on this system.
func IsAvailable() bool {
	_, err := keyring.Get(Service, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
