// Package catalog holds the vocabulary shared by the reconcilers: the nested
// specification types submitted by callers, the identity resolver, and the
// id-list helpers used on read paths.
package catalog

// PropertySpec describes one property inside a nested event or tracking-plan
// submission. Identity is (Name, Type); Description is the property's meaning.
// Required is accepted on input for compatibility with tracking-plan payloads
// but is not persisted on the property itself.
type PropertySpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

// EventSpec describes one event inside a tracking-plan submission. Identity is
// (Name, Type). AdditionalProperties is accepted on input but not persisted.
type EventSpec struct {
	Name                 string         `json:"name"`
	Type                 string         `json:"type"`
	Description          string         `json:"description"`
	Properties           []PropertySpec `json:"properties,omitempty"`
	AdditionalProperties string         `json:"additionalProperties,omitempty"`
}

// IdentityKey returns the key under which an event spec resolves: two specs
// with the same key address the same catalog event.
func (s EventSpec) IdentityKey() string {
	return s.Name + "\x00" + s.Type
}
