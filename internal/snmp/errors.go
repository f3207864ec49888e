package snmp

import "fmt"

// TransportError reports a failed exchange with the agent: connection setup,
// timeout or a payload that can not be decoded.
type TransportError struct {
	Op     string
	Target string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("snmp %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
