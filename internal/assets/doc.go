// Package assets provides the jurisdiction table, HTML document template and
// submission guide used to draft RTI applications.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the CLI. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is
// not found. A user can override the jurisdiction table for another state
// while keeping the built-in template and guide.
//
// # Directory Structure
//
//	{basePath}/
//	├── directory/
//	│   └── {name}.yaml          # jurisdiction table (e.g., kerala.yaml)
//	├── templates/
//	│   └── {name}.html          # HTML document template
//	└── guide/
//	    └── {name}.md            # submission guide (Markdown)
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
