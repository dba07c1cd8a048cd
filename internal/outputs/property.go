package outputs

// OutputProperty describes one user-configurable field of an output variant:
// the prompt shown to an operator, the current value, and how the value is
// collected and persisted. Properties flagged with CredRequirement are
// bundled and sent to the credential vault instead of the plaintext output
// configuration.
type OutputProperty struct {
	Description string
	Value       string
	// InputRestrictions holds characters disallowed in Value when the
	// property is persisted as part of a unique identifier.
	InputRestrictions map[rune]struct{}
	MaskInput         bool
	CredRequirement   bool
}

// DefaultInputRestrictions returns the characters disallowed by default.
func DefaultInputRestrictions() map[rune]struct{} {
	return map[rune]struct{}{' ': {}, ':': {}}
}

// NewOutputProperty builds a property with the default input restrictions.
func NewOutputProperty(description, value string) OutputProperty {
	return OutputProperty{
		Description:       description,
		Value:             value,
		InputRestrictions: DefaultInputRestrictions(),
	}
}

// CredProperty builds a masked, vault-bound property.
func CredProperty(description string) OutputProperty {
	p := NewOutputProperty(description, "")
	p.MaskInput = true
	p.CredRequirement = true
	return p
}

// CredBundle assembles the credential bundle for one destination from all
// properties with CredRequirement set. Property names map to field names.
func CredBundle(props map[string]OutputProperty) map[string]string {
	bundle := make(map[string]string)
	for name, prop := range props {
		if prop.CredRequirement {
			bundle[name] = prop.Value
		}
	}
	return bundle
}
