package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/curiosity/internal/constants"
)

var (
	// ErrNotFound is returned when nothing is stored under the requested key
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrPINMismatch is returned when a PIN does not match the stored hash
	ErrPINMismatch = errors.New("PIN does not match")
)

const minPINLength = 4

func get(key string) (string, error) {
	value, err := keyring.Get(constants.AppName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func set(key, value string) error {
	if value == "" {
		return fmt.Errorf("value for %s cannot be empty", key)
	}
	if err := keyring.Set(constants.AppName, key, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", key, err)
	}
	return nil
}

func del(key string) error {
	err := keyring.Delete(constants.AppName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}

// SetPIN hashes pin with bcrypt and stores only the hash
func SetPIN(pin string) error {
	if len(strings.TrimSpace(pin)) < minPINLength {
		return fmt.Errorf("PIN must be at least %d characters", minPINLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	return set(constants.KeyringPINHash, string(hash))
}

// VerifyPIN compares pin with the stored hash
func VerifyPIN(pin string) error {
	hash, err := get(constants.KeyringPINHash)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrPINMismatch
	}
	return nil
}

// HasPIN reports whether a PIN hash is stored
func HasPIN() bool {
	_, err := get(constants.KeyringPINHash)
	return err == nil
}

// SetBiometricCredentialID stores the platform authenticator's credential id
func SetBiometricCredentialID(id string) error {
	return set(constants.KeyringBiometricCredentialID, id)
}

// GetBiometricCredentialID returns the stored credential id
func GetBiometricCredentialID() (string, error) {
	return get(constants.KeyringBiometricCredentialID)
}

// GetSessionToken returns the stored session token
func GetSessionToken() (string, error) {
	return get(constants.KeyringSessionToken)
}

// SetSessionToken stores the session token issued by the backend
func SetSessionToken(token string) error {
	return set(constants.KeyringSessionToken, token)
}

// GetMirrorConnection returns the stored mirror connection string
func GetMirrorConnection() (string, error) {
	return get(constants.KeyringMirrorConnection)
}

// SetMirrorConnection stores the mirror connection string
func SetMirrorConnection(connStr string) error {
	return set(constants.KeyringMirrorConnection, connStr)
}

// Credentials is the keyring-backed store for the lock-screen secrets
type Credentials struct{}

// ClearLocalCredentials removes the PIN hash and the biometric credential id.
// Keys that were never set are not an error.
func (Credentials) ClearLocalCredentials() error {
	for _, key := range []string{constants.KeyringPINHash, constants.KeyringBiometricCredentialID} {
		if err := del(key); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
