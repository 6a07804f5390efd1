package assets

import (
	_ "embed"
)

//go:embed styles/default.css
var defaultStylesheet []byte

// DefaultStylesheetName is the file name used when staging the embedded stylesheet.
const DefaultStylesheetName = "default.css"

// DefaultStylesheet returns the built-in print stylesheet.
func DefaultStylesheet() []byte {
	out := make([]byte, len(defaultStylesheet))
	copy(out, defaultStylesheet)
	return out
}
