package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName rejects names that are empty or could address anything
// other than a single file in an asset directory: path separators and dots
// are not allowed.
func ValidateAssetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
