package domain

import "testing"

func TestValidate(t *testing.T) {
	types := NewTypes(nil)
	testCases := []struct {
		name  string
		event Event
		valid bool
	}{
		{"valid", Event{Name: "signup", Type: "track", Description: "d"}, true},
		{"missing name", Event{Type: "track", Description: "d"}, false},
		{"missing description", Event{Name: "signup", Type: "track"}, false},
		{"unrecognized type", Event{Name: "signup", Type: "click", Description: "d"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.event.Validate(types)
			if tc.valid && err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("Validate should return error")
			}
		})
	}
}

func TestValidate_ConfiguredTypes(t *testing.T) {
	types := NewTypes([]string{"click"})
	e := Event{Name: "signup", Type: "click", Description: "d"}
	if err := e.Validate(types); err != nil {
		t.Errorf("Validate: %v", err)
	}
	e.Type = "track"
	if err := e.Validate(types); err == nil {
		t.Error("Validate should reject a type outside the configured set")
	}
}

func TestNewTypes_BlankFallsBackToDefaults(t *testing.T) {
	for _, members := range [][]string{nil, {}, {" ", ""}} {
		types := NewTypes(members)
		for _, m := range DefaultTypes {
			if !types.Contains(m) {
				t.Errorf("NewTypes(%v) should contain %q", members, m)
			}
		}
	}
}

func TestTypes_StringSorted(t *testing.T) {
	types := NewTypes([]string{"screen", "track", "page"})
	if got := types.String(); got != "page, screen, track" {
		t.Errorf("String = %q, want %q", got, "page, screen, track")
	}
}
