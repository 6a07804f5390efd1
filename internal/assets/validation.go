package assets

import "fmt"

// MaxTemplateIDLength bounds template ids taken from request parameters.
const MaxTemplateIDLength = 64

// ValidateTemplateID checks that a template id names a single directory
// under the template root. Ids are limited to ASCII letters, digits, hyphen
// and underscore, which rules out separators, dots and traversal.
func ValidateTemplateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidTemplateID)
	}
	if len(id) > MaxTemplateIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidTemplateID, MaxTemplateIDLength)
	}
	for _, r := range id {
		if !isIDRune(r) {
			return fmt.Errorf("%w: %q", ErrInvalidTemplateID, id)
		}
	}
	return nil
}

func isIDRune(r rune) bool {
	return r == '-' || r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
