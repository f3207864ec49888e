// Package target resolves metric nicknames and user supplied OID lists into
// the ordered set of OIDs a probe run queries.
package target

import (
	"fmt"
)

// ValueType is the value type a target expects the agent to return
type ValueType int

const (
	Unknown ValueType = iota
	Integer
	Counter32
	Counter64
	Unsigned32
	Opaque
	OctetString
)

var valueTypeNames = map[ValueType]string{
	Unknown:     "Unknown",
	Integer:     "Integer",
	Counter32:   "Counter32",
	Counter64:   "Counter64",
	Unsigned32:  "Unsigned32",
	Opaque:      "Opaque",
	OctetString: "OctetString",
}

// String returns the canonical name of the value type
func (v ValueType) String() string {
	if name, ok := valueTypeNames[v]; ok {
		return name
	}
	return fmt.Sprintf("ValueType(%d)", int(v))
}

// ParseValueType maps a canonical type name (e.g. "Counter32") to its ValueType.
// Names are case-sensitive.
func ParseValueType(name string) (ValueType, error) {
	for v, n := range valueTypeNames {
		if n == name {
			return v, nil
		}
	}
	return Unknown, fmt.Errorf("unknown value type: %q", name)
}

// ValueTypeNames returns the accepted type names in declaration order
func ValueTypeNames() []string {
	names := make([]string, 0, len(valueTypeNames))
	for v := Unknown; v <= OctetString; v++ {
		names = append(names, valueTypeNames[v])
	}
	return names
}

// Target is a single named OID queried by the probe
type Target struct {
	Name string
	OID  string
	Type ValueType
}

// New builds a target
func New(name, oid string, vtype ValueType) Target {
	return Target{Name: name, OID: oid, Type: vtype}
}
