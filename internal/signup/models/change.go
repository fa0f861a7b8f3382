package models

// Change lists the draft fields an operation actually modified, in the order
// they were written. An empty Change means the operation left the draft as it
// was.
type Change struct {
	Fields []Field
}

// Empty reports whether nothing changed.
func (c Change) Empty() bool {
	return len(c.Fields) == 0
}

// Has reports whether f was modified.
func (c Change) Has(f Field) bool {
	for _, got := range c.Fields {
		if got == f {
			return true
		}
	}
	return false
}

// Derived reports whether the operation changed a field other than the one
// the user edited, i.e. whether derivation happened.
func (c Change) Derived(edited Field) bool {
	for _, got := range c.Fields {
		if got != edited {
			return true
		}
	}
	return false
}

// Strings renders field names for responses and log attributes.
func (c Change) Strings() []string {
	out := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		out = append(out, string(f))
	}
	return out
}

// record appends f once.
func (c *Change) record(f Field) {
	if !c.Has(f) {
		c.Fields = append(c.Fields, f)
	}
}

// Set writes value into *dst and records f when the value differs.
func (c *Change) Set(f Field, dst *string, value string) {
	if *dst == value {
		return
	}
	*dst = value
	c.record(f)
}

// SetBool is Set for boolean fields.
func (c *Change) SetBool(f Field, dst *bool, value bool) {
	if *dst == value {
		return
	}
	*dst = value
	c.record(f)
}
