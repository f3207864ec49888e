package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nmslite/metrics-snmp/internal/config"
	"github.com/nmslite/metrics-snmp/internal/probe"
	"github.com/nmslite/metrics-snmp/internal/snmp"
	"github.com/nmslite/metrics-snmp/internal/target"
	"github.com/spf13/pflag"
)

// customNickname is used in metric lines when -o is given without METRIC
const customNickname = "custom"

// ArgumentError reports unusable command line arguments
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string {
	return "invalid arguments: " + e.Err.Error()
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func argumentErrorf(format string, args ...any) error {
	return &ArgumentError{Err: fmt.Errorf(format, args...)}
}

type options struct {
	name        string
	host        string
	port        int
	community   string
	oids        string
	snmpVersion string
	timeout     time.Duration
	configPath  string
	debug       bool
	help        bool
	list        bool
	dumpConfig  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := realMain(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// realMain runs the probe and returns the exit status. Any failure is
// reported as a single line on stderr.
func realMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := run(ctx, args, stdout, stderr)
	if err == nil {
		return 0
	}

	// yaml and validator errors may span lines
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	if isArgumentError(err) {
		fmt.Fprintf(stderr, "metrics-snmp: %s (see --help)\n", msg)
	} else {
		fmt.Fprintf(stderr, "metrics-snmp: %s\n", msg)
	}
	return 1
}

func newFlagSet(opts *options) *pflag.FlagSet {
	defaults := config.Default()

	fs := pflag.NewFlagSet("metrics-snmp", pflag.ContinueOnError)
	// errors are reported once by realMain
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	fs.StringVarP(&opts.name, "name", "n", "", "agent display name (default: host)")
	fs.StringVarP(&opts.host, "host", "h", defaults.Agent.Host, "agent host")
	fs.IntVarP(&opts.port, "port", "p", defaults.Agent.Port, "agent port")
	fs.StringVarP(&opts.community, "community", "c", defaults.Agent.Community, "SNMP community string")
	fs.StringVarP(&opts.oids, "oids", "o", "", "custom OID list: OID[:NAME],...")
	fs.BoolVarP(&opts.debug, "debug", "D", false, "print diagnostics to stdout")
	fs.BoolVarP(&opts.help, "help", "H", false, "print this help and exit")
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.DurationVar(&opts.timeout, "timeout", defaults.Agent.Timeout(), "request timeout")
	fs.StringVar(&opts.snmpVersion, "snmp-version", defaults.Agent.SNMPVersion, "SNMP version: 1 or 2c")
	fs.BoolVar(&opts.list, "list", false, "list metric groups and exit")
	fs.BoolVar(&opts.dumpConfig, "dump-config", false, "print an example config file and exit")

	return fs
}

func usage(w io.Writer, fs *pflag.FlagSet, nicknames []string) {
	fmt.Fprintln(w, "Usage: metrics-snmp METRIC [options]")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "METRIC: %s\n", strings.Join(nicknames, ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprint(w, fs.FlagUsages())
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		return &ArgumentError{Err: err}
	}

	if opts.help {
		usage(stdout, fs, target.GetRegistry().Nicknames())
		return nil
	}

	if opts.dumpConfig {
		return config.DumpExampleConfig(stdout)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, fs, &opts); err != nil {
		return err
	}

	logger := config.InitLogger(cfg.Logging, opts.debug, stdout, stderr)

	registry := target.NewRegistry()
	if err := cfg.RegisterMetrics(registry); err != nil {
		return err
	}

	if opts.list {
		return listGroups(stdout, registry)
	}

	targets, nickname, err := resolveTargets(registry, fs, &opts)
	if err != nil {
		return err
	}

	// every OID is validated before the session exists
	queries, err := probe.Compile(targets)
	if err != nil {
		return err
	}

	params := snmp.Params{
		Host:      cfg.Agent.Host,
		Port:      cfg.Agent.Port,
		Community: cfg.Agent.Community,
		Version:   cfg.Agent.SNMPVersion,
		Timeout:   cfg.Agent.Timeout(),
	}
	agentName := cfg.Agent.DisplayName()

	logger.Debug("nickname", "value", nickname)
	logger.Debug("agent_name", "value", agentName)
	logger.Debug("agent", "host", params.Host, "port", params.Port, "addr", params.Address())
	logger.Debug("community", "value", params.Community)

	client, err := snmp.Open(ctx, params)
	if err != nil {
		return err
	}
	defer client.Close()

	engine := probe.NewEngine(logger)
	return engine.RunQueries(ctx, stdout, client, queries, agentName, nickname)
}

// applyFlags layers explicitly set flags over the loaded configuration
func applyFlags(cfg *config.Config, fs *pflag.FlagSet, opts *options) error {
	if fs.Changed("host") {
		cfg.Agent.Host = opts.host
	}
	if fs.Changed("name") {
		cfg.Agent.Name = opts.name
	}
	if fs.Changed("port") {
		if opts.port < 1 || opts.port > 65535 {
			return argumentErrorf("port must be between 1 and 65535, got %d", opts.port)
		}
		cfg.Agent.Port = opts.port
	}
	if fs.Changed("community") {
		cfg.Agent.Community = opts.community
	}
	if fs.Changed("snmp-version") {
		if _, err := snmp.ParseVersion(opts.snmpVersion); err != nil {
			return &ArgumentError{Err: err}
		}
		cfg.Agent.SNMPVersion = opts.snmpVersion
	}
	if fs.Changed("timeout") {
		if opts.timeout < time.Millisecond {
			return argumentErrorf("timeout must be at least 1ms, got %s", opts.timeout)
		}
		cfg.Agent.TimeoutMS = int(opts.timeout / time.Millisecond)
	}

	if err := cfg.Validate(); err != nil {
		return &ArgumentError{Err: err}
	}
	return nil
}

// resolveTargets picks the target set from -o or the METRIC positional
func resolveTargets(registry *target.Registry, fs *pflag.FlagSet, opts *options) ([]target.Target, string, error) {
	positional := fs.Args()
	if len(positional) > 1 {
		return nil, "", argumentErrorf("unexpected argument %q", positional[1])
	}

	nickname := ""
	if len(positional) == 1 {
		nickname = positional[0]
	}

	if fs.Changed("oids") {
		targets, err := target.ParseOIDList(opts.oids)
		if err != nil {
			return nil, "", err
		}
		if nickname == "" {
			nickname = customNickname
		}
		return targets, nickname, nil
	}

	if nickname == "" {
		return nil, "", argumentErrorf("METRIC is required unless -o is given")
	}

	targets, err := registry.Resolve(nickname)
	if err != nil {
		return nil, "", err
	}
	return targets, nickname, nil
}

func listGroups(w io.Writer, registry *target.Registry) error {
	for _, nickname := range registry.Nicknames() {
		targets, err := registry.Resolve(nickname)
		if err != nil {
			return err
		}

		kind := "config"
		if registry.IsBuiltin(nickname) {
			kind = "builtin"
		}
		if _, err := fmt.Fprintf(w, "%s (%s)\n", nickname, kind); err != nil {
			return fmt.Errorf("failed to write group list: %w", err)
		}
		for _, t := range targets {
			if _, err := fmt.Fprintf(w, "  %-16s %-32s %s\n", t.Name, t.OID, t.Type); err != nil {
				return fmt.Errorf("failed to write group list: %w", err)
			}
		}
	}
	return nil
}

// isArgumentError reports whether err came from command line handling
func isArgumentError(err error) bool {
	var argErr *ArgumentError
	return errors.As(err, &argErr)
}
