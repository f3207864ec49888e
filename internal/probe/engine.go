// Package probe queries resolved targets one by one and writes a metric line
// for every value that decodes to the expected type.
package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nmslite/metrics-snmp/internal/snmp"
	"github.com/nmslite/metrics-snmp/internal/target"
)

// Query is a target with its OID already parsed
type Query struct {
	Target target.Target
	OID    []uint32
}

// Compile parses every target OID. The first malformed OID fails the whole set.
func Compile(targets []target.Target) ([]Query, error) {
	queries := make([]Query, 0, len(targets))
	for _, t := range targets {
		oid, err := target.ParseOID(t.OID)
		if err != nil {
			return nil, err
		}
		queries = append(queries, Query{Target: t, OID: oid})
	}
	return queries, nil
}

// Engine runs queries sequentially over one session
type Engine struct {
	// Now is read once per emitted line
	Now    func() time.Time
	Logger *slog.Logger
}

// NewEngine creates an engine using the wall clock
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		Now:    time.Now,
		Logger: logger,
	}
}

// Run queries every target in order and writes one line per decoded value to w.
// Malformed OIDs are reported before any request is sent. A transport error
// stops the run; lines already written stay written.
func (e *Engine) Run(ctx context.Context, w io.Writer, session snmp.Session, targets []target.Target, agentName, nickname string) error {
	queries, err := Compile(targets)
	if err != nil {
		return err
	}
	return e.RunQueries(ctx, w, session, queries, agentName, nickname)
}

// RunQueries is Run for targets that were compiled beforehand
func (e *Engine) RunQueries(ctx context.Context, w io.Writer, session snmp.Session, queries []Query, agentName, nickname string) error {
	for _, q := range queries {
		e.Logger.Debug("target oid vec", "target", q.Target.Name, "oid", q.OID)

		varbinds, err := session.Get(ctx, q.OID)
		if err != nil {
			return err
		}
		e.Logger.Debug("response", "target", q.Target.Name, "varbinds", varbinds)

		if len(varbinds) == 0 {
			e.Logger.Debug("empty response, skipping", "target", q.Target.Name)
			continue
		}

		// one OID per request, extra varbinds are ignored
		v := varbinds[0].Value
		value, raw, ok := Decode(q.Target.Type, v)
		if !ok {
			e.Logger.Debug("value type mismatch, skipping",
				"target", q.Target.Name,
				"expected", q.Target.Type.String(),
				"actual", v.Tag.String(),
			)
			continue
		}

		line := Line{
			Agent:     agentName,
			Target:    q.Target.Name,
			Nickname:  nickname,
			Value:     value,
			Raw:       raw,
			Timestamp: e.Now().Unix(),
		}
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return fmt.Errorf("failed to write metric line: %w", err)
		}
	}
	return nil
}
