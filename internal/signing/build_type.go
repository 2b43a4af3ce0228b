package signing

import (
	"fmt"
	"strings"
)

// BuildType selects the build variant being configured.
type BuildType string

const (
	Debug   BuildType = "debug"
	Release BuildType = "release"
)

// ParseBuildType accepts the variant name case-insensitively.
func ParseBuildType(raw string) (BuildType, error) {
	switch BuildType(strings.ToLower(strings.TrimSpace(raw))) {
	case Debug:
		return Debug, nil
	case Release:
		return Release, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownBuildType, raw)
}

// RequiresSigning reports whether the variant is signed with release credentials.
func (b BuildType) RequiresSigning() bool {
	return b == Release
}
