package target

import (
	"strconv"
	"strings"
)

// ParseOID converts a dotted-decimal OID into its numeric components.
// A single leading dot is accepted, as gosnmp reports OIDs in that form.
//
// Examples:
//   - "1.3.6.1.2.1.1.1.0"  -> [1 3 6 1 2 1 1 1 0]
//   - ".1.3.6.1.2.1.1.5.0" -> [1 3 6 1 2 1 1 5 0]
//   - "1.3.a.0"            -> MalformedOIDError
func ParseOID(oid string) ([]uint32, error) {
	trimmed := strings.TrimPrefix(oid, ".")
	if trimmed == "" {
		return nil, &MalformedOIDError{OID: oid}
	}

	parts := strings.Split(trimmed, ".")
	components := make([]uint32, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, &MalformedOIDError{OID: oid}
		}
		// ParseUint also rejects signs, so "-1" and "+1" fail here
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, &MalformedOIDError{OID: oid, Component: part}
		}
		components = append(components, uint32(n))
	}
	return components, nil
}

// FormatOID renders numeric components in the dotted form gosnmp expects
func FormatOID(components []uint32) string {
	var b strings.Builder
	for _, c := range components {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(uint64(c), 10))
	}
	return b.String()
}

// ParseOIDList parses a custom target list of the form "OID[:NAME],OID[:NAME]...".
// An entry with exactly one ':' and a non-empty part after it uses that part as
// display name, any other entry uses its first part as both OID and name.
// Every target gets type Unknown.
func ParseOIDList(list string) ([]Target, error) {
	if list == "" {
		return nil, ErrEmptyOIDList
	}

	entries := strings.Split(list, ",")
	targets := make([]Target, 0, len(entries))
	for _, entry := range entries {
		parts := strings.Split(entry, ":")
		if len(parts) == 2 && parts[1] != "" {
			targets = append(targets, New(parts[1], parts[0], Unknown))
		} else {
			targets = append(targets, New(parts[0], parts[0], Unknown))
		}
	}

	if len(targets) == 0 {
		return nil, ErrEmptyOIDList
	}
	return targets, nil
}
