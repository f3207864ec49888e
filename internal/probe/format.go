package probe

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/nmslite/metrics-snmp/internal/snmp"
	"github.com/nmslite/metrics-snmp/internal/target"
	xunicode "golang.org/x/text/encoding/unicode"
)

// unknownOrder is the tag priority used for targets whose expected type is Unknown
var unknownOrder = []snmp.Tag{
	snmp.Counter32,
	snmp.Unsigned32,
	snmp.Counter64,
	snmp.Integer,
	snmp.Opaque,
	snmp.OctetString,
}

// Line is one rendered metric
type Line struct {
	Agent     string
	Target    string
	Nickname  string
	Value     string
	Raw       bool
	Timestamp int64
}

// String renders "<agent>.snmp.<target>.<nickname> <value> <timestamp>".
// Raw values are written as is, others as a double-quoted string.
func (l Line) String() string {
	value := l.Value
	if !l.Raw {
		value = quote(l.Value)
	}
	return l.Agent + ".snmp." + l.Target + "." + l.Nickname + " " + value + " " + strconv.FormatInt(l.Timestamp, 10)
}

// expectedTag maps a target type onto the protocol tag it accepts
func expectedTag(v target.ValueType) (snmp.Tag, bool) {
	switch v {
	case target.Integer:
		return snmp.Integer, true
	case target.Counter32:
		return snmp.Counter32, true
	case target.Counter64:
		return snmp.Counter64, true
	case target.Unsigned32:
		return snmp.Unsigned32, true
	case target.Opaque:
		return snmp.Opaque, true
	case target.OctetString:
		return snmp.OctetString, true
	default:
		return snmp.Other, false
	}
}

// Decode checks a value against the expected type and renders it.
// ok is false when the value does not match; that is a skip, not an error.
func Decode(expected target.ValueType, v snmp.Value) (value string, raw bool, ok bool) {
	if tag, specific := expectedTag(expected); specific {
		if v.Tag != tag {
			return "", false, false
		}
		value, raw = render(v)
		return value, raw, true
	}

	for _, tag := range unknownOrder {
		if v.Tag == tag {
			value, raw = render(v)
			return value, raw, true
		}
	}
	return "", false, false
}

func render(v snmp.Value) (string, bool) {
	switch v.Tag {
	case snmp.Integer:
		return strconv.FormatInt(v.Int, 10), true
	case snmp.Counter32, snmp.Unsigned32, snmp.Counter64:
		return strconv.FormatUint(v.Uint, 10), true
	default:
		return lossyUTF8(v.Bytes), false
	}
}

// lossyUTF8 decodes b as UTF-8, replacing invalid sequences with U+FFFD.
// The decoder never fails on invalid input.
func lossyUTF8(b []byte) string {
	decoded, _ := xunicode.UTF8.NewDecoder().Bytes(b)
	return string(decoded)
}

// quote wraps s in double quotes. Quotes, backslashes and \t \r \n \0 get a
// backslash, other non-graphic runes are written as \u{hex}.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if unicode.IsGraphic(r) {
				b.WriteRune(r)
			} else {
				fmt.Fprintf(&b, `\u{%x}`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
