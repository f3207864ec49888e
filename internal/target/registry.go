package target

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Registry maps metric nicknames to their ordered target tables
type Registry struct {
	groups  map[string][]Target
	builtin map[string]bool
	mu      sync.RWMutex
}

var (
	globalRegistry *Registry
	registryOnce   sync.Once
)

// GetRegistry returns the shared registry holding only the built-in groups
func GetRegistry() *Registry {
	registryOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Resolve looks up a nickname in the built-in registry
func Resolve(nickname string) ([]Target, error) {
	return GetRegistry().Resolve(nickname)
}

// NewRegistry creates a registry preloaded with the built-in metric groups
func NewRegistry() *Registry {
	r := &Registry{
		groups:  make(map[string][]Target),
		builtin: make(map[string]bool),
	}
	r.initializeGroups()
	return r
}

const (
	ucdSystemStats = "1.3.6.1.4.1.2021.11."
	ucdLoad        = "1.3.6.1.4.1.2021.10.1.3."
	ucdDisk        = "1.3.6.1.4.1.2021.9.1."
	ucdMemory      = "1.3.6.1.4.1.2021.4."
)

// initializeGroups registers the built-in tables (MIB-2 and UCD-SNMP-MIB)
func (r *Registry) initializeGroups() {
	r.registerBuiltin("desc", []Target{
		New("description", "1.3.6.1.2.1.1.1.0", OctetString),
	})

	r.registerBuiltin("ss", []Target{
		New("ssSwapIn", ucdSystemStats+"3.0", Integer),
		New("ssSwapOut", ucdSystemStats+"4.0", Integer),
		New("ssIOSent", ucdSystemStats+"5.0", Integer),
		New("ssIOReceive", ucdSystemStats+"6.0", Integer),
		New("ssSysInterrupts", ucdSystemStats+"7.0", Integer),
		New("ssSysContext", ucdSystemStats+"8.0", Integer),
		New("ssCpuUser", ucdSystemStats+"9.0", Unknown),
		New("ssCpuSystem", ucdSystemStats+"10.0", Unknown),
		New("ssCpuIdle", ucdSystemStats+"11.0", Unknown),
	})

	r.registerBuiltin("la", []Target{
		New("laLoad.1", ucdLoad+"1.0", OctetString),
		New("laLoad.2", ucdLoad+"2.0", OctetString),
		New("laLoad.3", ucdLoad+"3.0", OctetString),
	})

	r.registerBuiltin("dsk", []Target{
		New("dskPath", ucdDisk+"2.0", OctetString),
		New("dskDevice", ucdDisk+"3.0", OctetString),
		New("dskTotal", ucdDisk+"6.0", Integer),
		New("dskAvail", ucdDisk+"7.0", Integer),
		New("dskUsed", ucdDisk+"8.0", Integer),
		New("dskPercent", ucdDisk+"9.0", Integer),
		New("dskPercentNode", ucdDisk+"10.0", Integer),
	})

	r.registerBuiltin("mem", []Target{
		New("memTotalSwap", ucdMemory+"3.0", Integer),
		New("memAvailSwap", ucdMemory+"4.0", Integer),
		New("memTotalReal", ucdMemory+"5.0", Integer),
		New("memAvailReal", ucdMemory+"6.0", Integer),
		New("memTotalFree", ucdMemory+"11.0", Integer),
		New("memShared", ucdMemory+"13.0", Integer),
		New("memBuffer", ucdMemory+"14.0", Integer),
		New("memCached", ucdMemory+"15.0", Integer),
	})

	r.registerBuiltin("if", []Target{
		New("ifInOctets", "1.3.6.1.2.1.2.2.1.10.1", Counter32),
	})
}

func (r *Registry) registerBuiltin(nickname string, targets []Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[nickname] = targets
	r.builtin[nickname] = true
}

// Register adds a metric group defined outside the built-in table.
// Built-in nicknames can not be redefined; a previously registered custom group is replaced.
func (r *Registry) Register(nickname string, targets []Target) error {
	if nickname == "" {
		return fmt.Errorf("nickname is required")
	}
	if len(targets) == 0 {
		return fmt.Errorf("metric group %s has no targets", nickname)
	}
	for _, t := range targets {
		if t.Name == "" {
			return fmt.Errorf("metric group %s: target name is required", nickname)
		}
		if _, err := ParseOID(t.OID); err != nil {
			return fmt.Errorf("metric group %s: %w", nickname, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.builtin[nickname] {
		return fmt.Errorf("%s: %w", nickname, ErrBuiltinNickname)
	}
	r.groups[nickname] = slices.Clone(targets)
	return nil
}

// Resolve returns a copy of the ordered target table for a nickname
func (r *Registry) Resolve(nickname string) ([]Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	targets, exists := r.groups[nickname]
	if !exists {
		return nil, &UnsupportedMetricError{Nickname: nickname}
	}
	return slices.Clone(targets), nil
}

// Nicknames returns all registered nicknames in sorted order
func (r *Registry) Nicknames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nicknames := make([]string, 0, len(r.groups))
	for n := range r.groups {
		nicknames = append(nicknames, n)
	}
	sort.Strings(nicknames)
	return nicknames
}

// IsBuiltin reports whether a nickname belongs to the built-in table
func (r *Registry) IsBuiltin(nickname string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.builtin[nickname]
}
