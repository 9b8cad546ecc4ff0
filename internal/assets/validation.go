package assets

import (
	"fmt"
)

// MaxAssetNameLength bounds asset names. Theme and template names are short.
const MaxAssetNameLength = 64

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Only ASCII letters, digits, '-' and '_' are accepted, which rules out path
// separators, dots and traversal sequences.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxAssetNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, MaxAssetNameLength)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
