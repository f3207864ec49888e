package target

import (
	"errors"
	"fmt"
)

// ErrEmptyOIDList is returned when a custom OID list yields no entries
var ErrEmptyOIDList = errors.New("can not find oid")

// ErrBuiltinNickname is returned when a configured group tries to redefine a built-in nickname
var ErrBuiltinNickname = errors.New("nickname is reserved by a built-in metric group")

// UnsupportedMetricError reports a nickname with no registered metric group
type UnsupportedMetricError struct {
	Nickname string
}

func (e *UnsupportedMetricError) Error() string {
	return fmt.Sprintf("not supported metric-type %s", e.Nickname)
}

// MalformedOIDError reports an OID that is not a dotted sequence of non-negative integers
type MalformedOIDError struct {
	OID       string
	Component string
}

func (e *MalformedOIDError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("malformed oid %q: empty component", e.OID)
	}
	return fmt.Sprintf("malformed oid %q: invalid component %q", e.OID, e.Component)
}
