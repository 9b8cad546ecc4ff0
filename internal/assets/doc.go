// Package assets provides the stylesheets, scripts and page templates of the
// generated textbook site. Assets can be loaded from embedded files or from a
// custom directory that overrides individual files.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in theme)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the site builder. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when a file is not
// found, so a custom directory only needs the files it changes.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── base.css             # Layout, typography, code blocks, print rules
//	│   └── {theme}.css          # Sidebar variant (clean, collapsible, ...)
//	├── scripts/
//	│   ├── tracker.js           # Sidebar auto-hide and section highlighting
//	│   └── copy.js              # Copy button behaviour
//	└── templates/
//	    ├── layout.html          # Document shell
//	    ├── home.html            # Syllabus and chapter grid
//	    ├── chapter.html         # Lesson page
//	    ├── sidebar.html         # Section list
//	    └── footer.html          # Previous/next navigation
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
