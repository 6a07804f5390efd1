package pipeline

// Template variable names understood by the résumé layouts.
const (
	VarPaperSize    = "papersize"
	VarThemeColor   = "themecolor"
	VarFirstImage   = "first_image"
	VarImageXOffset = "image_x_offset"
	VarImageYOffset = "image_y_offset"
	VarContactInfo  = "contact_info"
	VarSkills       = "skills"
	VarLanguages    = "languages"
)

// Variable is one name=value pair passed to the converter.
type Variable struct {
	Name  string
	Value string
}

// Variables is an ordered multi-map. A name may repeat; each occurrence is
// passed to the converter separately, in insertion order.
// The zero value is ready to use.
type Variables struct {
	list []Variable
}

// Add appends one occurrence of name for each value.
func (v *Variables) Add(name string, values ...string) {
	for _, val := range values {
		v.list = append(v.list, Variable{Name: name, Value: val})
	}
}

// Values returns every value recorded for name, in order.
func (v *Variables) Values(name string) []string {
	if v == nil {
		return nil
	}
	var out []string
	for _, item := range v.list {
		if item.Name == name {
			out = append(out, item.Value)
		}
	}
	return out
}

// Lookup returns the first value recorded for name.
func (v *Variables) Lookup(name string) (string, bool) {
	if v == nil {
		return "", false
	}
	for _, item := range v.list {
		if item.Name == name {
			return item.Value, true
		}
	}
	return "", false
}

// All returns a copy of every pair in order.
func (v *Variables) All() []Variable {
	if v == nil {
		return nil
	}
	out := make([]Variable, len(v.list))
	copy(out, v.list)
	return out
}

// Len returns the number of pairs.
func (v *Variables) Len() int {
	if v == nil {
		return 0
	}
	return len(v.list)
}
