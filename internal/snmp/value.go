// Package snmp wraps gosnmp behind a single-OID GET session and converts the
// returned PDUs into a closed set of tagged values.
package snmp

import (
	"context"
	"fmt"
)

// Tag is the protocol type of a returned value
type Tag int

const (
	// Other covers every type the probe does not decode (Null, TimeTicks,
	// IpAddress, ObjectIdentifier, NoSuchObject, NoSuchInstance, EndOfMibView...)
	Other Tag = iota
	Integer
	OctetString
	Counter32
	Unsigned32
	Counter64
	Opaque
)

func (t Tag) String() string {
	switch t {
	case Integer:
		return "Integer"
	case OctetString:
		return "OctetString"
	case Counter32:
		return "Counter32"
	case Unsigned32:
		return "Unsigned32"
	case Counter64:
		return "Counter64"
	case Opaque:
		return "Opaque"
	default:
		return "Other"
	}
}

// Value is a decoded varbind value. Int is set for Integer, Uint for
// Counter32/Unsigned32/Counter64, Bytes for OctetString/Opaque.
type Value struct {
	Tag   Tag
	Int   int64
	Uint  uint64
	Bytes []byte
	// Raw keeps the gosnmp type name for diagnostics when Tag is Other
	Raw string
}

func (v Value) String() string {
	switch v.Tag {
	case Integer:
		return fmt.Sprintf("%s(%d)", v.Tag, v.Int)
	case Counter32, Unsigned32, Counter64:
		return fmt.Sprintf("%s(%d)", v.Tag, v.Uint)
	case OctetString, Opaque:
		return fmt.Sprintf("%s(%q)", v.Tag, v.Bytes)
	default:
		return fmt.Sprintf("Other(%s)", v.Raw)
	}
}

// Varbind is a single (OID, value) pair from a GET response
type Varbind struct {
	OID   string
	Value Value
}

// Session issues single-OID GET requests against one agent
type Session interface {
	Get(ctx context.Context, oid []uint32) ([]Varbind, error)
	Close() error
}
