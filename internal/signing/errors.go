package signing

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is matched by every *MissingCredentialError.
	ErrMissingCredential = errors.New("missing signing credential")
	// ErrUnknownBuildType is returned when a build type name is not recognised.
	ErrUnknownBuildType = errors.New("unknown build type")
)

// MissingCredentialError names the first required key that was absent or empty.
type MissingCredentialError struct {
	Key string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingCredential, e.Key)
}

// Is reports whether target is ErrMissingCredential.
func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}
