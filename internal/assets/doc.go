// Package assets resolves résumé templates and their stylesheets.
//
// # Directory Structure
//
// Templates live in one directory per template id; stylesheets live in a
// separate theme directory keyed by the same id:
//
//	{templateDir}/
//	└── {id}/
//	    ├── template.html    # Pandoc layout (required to render)
//	    └── metadata.json    # catalog entry (optional)
//	{themeDir}/
//	└── {id}.css
//
// # Resolution
//
// Resolve verifies the requested template and falls back to "europass" when
// the id is invalid, the directory is missing, or it has no layout. When the
// default template is unusable too, the result is Fatal and callers switch to
// a template-less render using the embedded base stylesheet.
//
// # Security
//
// Template ids are validated with ValidateTemplateID before touching the
// filesystem, so an id can never address a path outside templateDir.
package assets
