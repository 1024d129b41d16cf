package assets

import "errors"

// Sentinel errors for asset loading and style composition.
var (
	// ErrStyleNotFound indicates the requested style does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrTemplateNotFound indicates the requested template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName indicates an asset name with path separators or dots.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the custom asset path is not a readable directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error while reading an asset file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an asset path resolving outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrUnknownTheme indicates a theme name outside the supported set.
	ErrUnknownTheme = errors.New("unknown theme")

	// ErrMissingAsset indicates a bundled stylesheet or highlight style is
	// unavailable. It is a configuration error, not a per-request one.
	ErrMissingAsset = errors.New("missing bundled asset")

	// ErrCSSNotFound indicates an extra CSS file that cannot be read.
	ErrCSSNotFound = errors.New("CSS file not found")
)
