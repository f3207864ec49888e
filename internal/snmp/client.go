package snmp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/nmslite/metrics-snmp/internal/target"
)

// DefaultTimeout is the per-request timeout when none is configured
const DefaultTimeout = 2 * time.Second

// Params describes the agent a session talks to
type Params struct {
	Host      string
	Port      int
	Community string
	Version   string // "1" or "2c"
	Timeout   time.Duration
}

// Address returns host:port
func (p Params) Address() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// Client is a gosnmp-backed Session
type Client struct {
	snmp *gosnmp.GoSNMP
	addr string
}

var _ Session = (*Client)(nil)

// ParseVersion maps a version string to the gosnmp constant
func ParseVersion(version string) (gosnmp.SnmpVersion, error) {
	switch version {
	case "1":
		return gosnmp.Version1, nil
	case "2c", "":
		return gosnmp.Version2c, nil
	default:
		return 0, fmt.Errorf("unsupported snmp version: %q (expected 1 or 2c)", version)
	}
}

// Open creates the UDP session used for the whole run. No request is sent.
func Open(ctx context.Context, p Params) (*Client, error) {
	version, err := ParseVersion(p.Version)
	if err != nil {
		return nil, err
	}
	if p.Port <= 0 || p.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", p.Port)
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	g := &gosnmp.GoSNMP{
		Target:    p.Host,
		Port:      uint16(p.Port),
		Transport: "udp",
		Version:   version,
		Community: p.Community,
		Timeout:   timeout,
		Retries:   0,
		Context:   ctx,
		MaxOids:   gosnmp.MaxOids,
	}

	if err := g.Connect(); err != nil {
		return nil, &TransportError{Op: "connect", Target: p.Address(), Err: err}
	}

	return &Client{snmp: g, addr: p.Address()}, nil
}

// Get performs one GET for a single OID
func (c *Client) Get(ctx context.Context, oid []uint32) ([]Varbind, error) {
	if ctx != nil {
		c.snmp.Context = ctx
	}

	result, err := c.snmp.Get([]string{target.FormatOID(oid)})
	if err != nil {
		return nil, &TransportError{Op: "get", Target: c.addr, Err: err}
	}

	return FromPacket(result, c.addr)
}

// Close releases the UDP socket
func (c *Client) Close() error {
	if c.snmp.Conn == nil {
		return nil
	}
	return c.snmp.Conn.Close()
}

// FromPacket converts a GET response into varbinds. A non-zero error-status
// is not fatal: the agent echoes the request with Null values, which the
// engine skips like any other undecoded type.
func FromPacket(packet *gosnmp.SnmpPacket, addr string) ([]Varbind, error) {
	if packet == nil {
		return nil, &TransportError{Op: "get", Target: addr, Err: fmt.Errorf("empty response")}
	}
	if packet.Error != gosnmp.NoError {
		slog.Debug("agent returned error-status",
			"addr", addr,
			"error_status", packet.Error,
			"error_index", packet.ErrorIndex,
		)
	}

	varbinds := make([]Varbind, 0, len(packet.Variables))
	for _, pdu := range packet.Variables {
		value, err := FromPDU(pdu)
		if err != nil {
			return nil, &TransportError{Op: "decode", Target: addr, Err: err}
		}
		varbinds = append(varbinds, Varbind{OID: pdu.Name, Value: value})
	}
	return varbinds, nil
}

// FromPDU maps a gosnmp variable onto the closed Value variant
func FromPDU(pdu gosnmp.SnmpPDU) (Value, error) {
	switch pdu.Type {
	case gosnmp.Integer:
		n, ok := asInt64(pdu.Value)
		if !ok {
			return Value{}, unexpectedPayload(pdu)
		}
		return Value{Tag: Integer, Int: n}, nil

	case gosnmp.Counter32, gosnmp.Gauge32:
		n, ok := asUint64(pdu.Value)
		if !ok {
			return Value{}, unexpectedPayload(pdu)
		}
		tag := Counter32
		if pdu.Type == gosnmp.Gauge32 {
			tag = Unsigned32
		}
		return Value{Tag: tag, Uint: n}, nil

	case gosnmp.Counter64:
		n, ok := asUint64(pdu.Value)
		if !ok {
			return Value{}, unexpectedPayload(pdu)
		}
		return Value{Tag: Counter64, Uint: n}, nil

	case gosnmp.OctetString:
		b, ok := pdu.Value.([]byte)
		if !ok {
			return Value{}, unexpectedPayload(pdu)
		}
		return Value{Tag: OctetString, Bytes: b}, nil

	case gosnmp.Opaque, gosnmp.OpaqueFloat, gosnmp.OpaqueDouble:
		// gosnmp unwraps float opaques; keep their textual form
		switch v := pdu.Value.(type) {
		case []byte:
			return Value{Tag: Opaque, Bytes: v}, nil
		case float32, float64:
			return Value{Tag: Opaque, Bytes: []byte(fmt.Sprint(v))}, nil
		default:
			return Value{}, unexpectedPayload(pdu)
		}

	default:
		return Value{Tag: Other, Raw: fmt.Sprintf("%v", pdu.Type)}, nil
	}
}

func unexpectedPayload(pdu gosnmp.SnmpPDU) error {
	return fmt.Errorf("unexpected payload %T for %v value at %s", pdu.Value, pdu.Type, pdu.Name)
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func asUint64(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	default:
		return 0, false
	}
}
