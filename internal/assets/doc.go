// Package assets holds the bundled stylesheets and HTML templates used to
// compose a printable document, and the Style Composer that assembles the
// CSS bundle for a theme.
//
// # Loaders
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed styles/ and templates/
//	    ├── FilesystemLoader  - a directory on disk with the same layout
//	    └── AssetResolver     - custom directory first, embedded fallback
//
// A custom directory overrides individual assets by name:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css        # markdown-light, print, clean, ...
//	└── templates/
//	    └── {name}.html       # document, headerfooter, editor
//
// Only "not found" errors fall through to the embedded copy; validation
// and I/O errors are returned as-is.
//
// # Style bundle
//
// StyleComposer.Compose concatenates, in order: the theme's base stylesheet,
// the math stylesheet, code highlighting CSS generated from a chroma style,
// the structural print stylesheet, the theme stylesheet and any extra CSS
// files supplied by the caller.
//
// # Security
//
// Asset names may not contain dots or path separators. FilesystemLoader
// resolves symlinks and refuses paths that leave its base directory.
package assets
