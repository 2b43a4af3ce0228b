package signing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/eugenenazirov/keyprops/internal/properties"
)

// Property keys read from key.properties.
const (
	KeyAlias      = "keyAlias"
	KeyPassword   = "keyPassword"
	StoreFile     = "storeFile"
	StorePassword = "storePassword"
)

const mask = "********"

// RequiredKeys returns the credential keys in the order they are checked.
func RequiredKeys() []string {
	return []string{KeyAlias, KeyPassword, StoreFile, StorePassword}
}

// IsSecretKey reports whether the value stored under key must not be displayed.
func IsSecretKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "password")
}

// Profile holds the credentials for signing a release artifact.
type Profile struct {
	KeyAlias      string
	KeyPassword   string
	StoreFile     string
	StorePassword string
}

// BuildProfile extracts a Profile from set. Keys are checked in RequiredKeys
// order and the first one that is missing or empty is reported.
func BuildProfile(set properties.Set) (Profile, error) {
	values := make(map[string]string, 4)
	for _, key := range RequiredKeys() {
		v, ok := set.Get(key)
		if !ok || v == "" {
			return Profile{}, &MissingCredentialError{Key: key}
		}
		values[key] = v
	}

	return Profile{
		KeyAlias:      values[KeyAlias],
		KeyPassword:   values[KeyPassword],
		StoreFile:     values[StoreFile],
		StorePassword: values[StorePassword],
	}, nil
}

// ResolveStoreFile returns the keystore path, resolving a relative StoreFile
// against root.
func (p Profile) ResolveStoreFile(root string) string {
	if filepath.IsAbs(p.StoreFile) {
		return filepath.Clean(p.StoreFile)
	}
	return filepath.Join(root, p.StoreFile)
}

// Redacted returns a copy of p with both passwords masked.
func (p Profile) Redacted() Profile {
	p.KeyPassword = mask
	p.StorePassword = mask
	return p
}

func (p Profile) String() string {
	r := p.Redacted()
	return fmt.Sprintf("keyAlias=%s keyPassword=%s storeFile=%s storePassword=%s",
		r.KeyAlias, r.KeyPassword, r.StoreFile, r.StorePassword)
}

// MaskValue returns value, or a fixed mask when key holds a secret.
func MaskValue(key, value string) string {
	if IsSecretKey(key) && value != "" {
		return mask
	}
	return value
}
