package auth

import (
	"os"
	"strconv"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// This is primarily for CI and container setups without a keychain.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	apiIDStr := os.Getenv("TGSCRAPER_API_ID")
	apiHash := os.Getenv("TGSCRAPER_API_HASH")

	if apiIDStr == "" || apiHash == "" {
		return nil, ErrCredentialsNotFound
	}

	apiID, err := strconv.Atoi(apiIDStr)
	if err != nil || apiID <= 0 {
		return nil, ErrInvalidCredentials
	}

	// Environment variables don't carry an account name
	if name == "" {
		name = "default"
	}

	return &Account{
		Name:         name,
		APIID:        apiID,
		APIHash:      apiHash,
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("TGSCRAPER_API_ID") != "" && os.Getenv("TGSCRAPER_API_HASH") != ""
}
