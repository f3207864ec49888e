package target

import (
	"errors"
	"testing"
)

func TestParseOID(t *testing.T) {
	tests := []struct {
		name     string
		oid      string
		expected []uint32
	}{
		{"sysDescr", "1.3.6.1.2.1.1.1.0", []uint32{1, 3, 6, 1, 2, 1, 1, 1, 0}},
		{"Leading dot", ".1.3.6.1.2.1.1.5.0", []uint32{1, 3, 6, 1, 2, 1, 1, 5, 0}},
		{"Single component", "1", []uint32{1}},
		{"Max uint32", "1.4294967295", []uint32{1, 4294967295}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseOID(tt.oid)
			if err != nil {
				t.Fatalf("ParseOID(%q) error = %v", tt.oid, err)
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("ParseOID(%q) returned %d components, want %d", tt.oid, len(result), len(tt.expected))
			}
			for i, c := range result {
				if c != tt.expected[i] {
					t.Errorf("ParseOID(%q)[%d] = %d, want %d", tt.oid, i, c, tt.expected[i])
				}
			}
		})
	}
}

func TestParseOID_Malformed(t *testing.T) {
	tests := []struct {
		name      string
		oid       string
		component string
	}{
		{"Non-numeric component", "1.3.a.0", "a"},
		{"Negative component", "1.3.-6.1", "-6"},
		{"Overflow", "1.4294967296", "4294967296"},
		{"Trailing dot", "1.3.6.", ""},
		{"Double dot", "1..3", ""},
		{"Empty string", "", ""},
		{"Only dot", ".", ""},
		{"Name instead of OID", "sysDescr", "sysDescr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOID(tt.oid)
			if err == nil {
				t.Fatalf("ParseOID(%q) expected error but got none", tt.oid)
			}
			var malformed *MalformedOIDError
			if !errors.As(err, &malformed) {
				t.Fatalf("ParseOID(%q) error = %T, want *MalformedOIDError", tt.oid, err)
			}
			if malformed.OID != tt.oid {
				t.Errorf("MalformedOIDError.OID = %q, want %q", malformed.OID, tt.oid)
			}
			if malformed.Component != tt.component {
				t.Errorf("MalformedOIDError.Component = %q, want %q", malformed.Component, tt.component)
			}
		})
	}
}

func TestFormatOID(t *testing.T) {
	got := FormatOID([]uint32{1, 3, 6, 1, 2, 1, 1, 1, 0})
	if got != ".1.3.6.1.2.1.1.1.0" {
		t.Errorf("FormatOID() = %q, want %q", got, ".1.3.6.1.2.1.1.1.0")
	}
}

func TestParseOIDList(t *testing.T) {
	tests := []struct {
		name     string
		list     string
		expected []Target
	}{
		{
			"Bare OID",
			"1.2.3",
			[]Target{{Name: "1.2.3", OID: "1.2.3", Type: Unknown}},
		},
		{
			"Named OID",
			"1.2.3:foo",
			[]Target{{Name: "foo", OID: "1.2.3", Type: Unknown}},
		},
		{
			"Two named OIDs keep order",
			"1.2.3:foo,4.5.6:bar",
			[]Target{
				{Name: "foo", OID: "1.2.3", Type: Unknown},
				{Name: "bar", OID: "4.5.6", Type: Unknown},
			},
		},
		{
			"Mixed named and bare",
			"4.5.6,1.2.3:foo",
			[]Target{
				{Name: "4.5.6", OID: "4.5.6", Type: Unknown},
				{Name: "foo", OID: "1.2.3", Type: Unknown},
			},
		},
		{
			"Empty name falls back to OID",
			"1.2.3:",
			[]Target{{Name: "1.2.3", OID: "1.2.3", Type: Unknown}},
		},
		{
			"Too many separators falls back to first part",
			"1.2.3:foo:bar",
			[]Target{{Name: "1.2.3", OID: "1.2.3", Type: Unknown}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseOIDList(tt.list)
			if err != nil {
				t.Fatalf("ParseOIDList(%q) error = %v", tt.list, err)
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("ParseOIDList(%q) returned %d targets, want %d", tt.list, len(result), len(tt.expected))
			}
			for i, target := range result {
				if target != tt.expected[i] {
					t.Errorf("ParseOIDList(%q)[%d] = %+v, want %+v", tt.list, i, target, tt.expected[i])
				}
			}
		})
	}
}

func TestParseOIDList_Empty(t *testing.T) {
	_, err := ParseOIDList("")
	if !errors.Is(err, ErrEmptyOIDList) {
		t.Errorf("ParseOIDList(\"\") error = %v, want ErrEmptyOIDList", err)
	}
}

func TestParseValueType(t *testing.T) {
	for _, name := range ValueTypeNames() {
		v, err := ParseValueType(name)
		if err != nil {
			t.Fatalf("ParseValueType(%q) error = %v", name, err)
		}
		if v.String() != name {
			t.Errorf("ParseValueType(%q).String() = %q", name, v.String())
		}
	}

	if _, err := ParseValueType("counter32"); err == nil {
		t.Error("ParseValueType(\"counter32\") expected error for wrong case")
	}
}
