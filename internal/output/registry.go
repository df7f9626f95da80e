package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Serializer renders a value into bytes.
type Serializer func(v any) ([]byte, error)

// Registry maps format names to Serializer functions, enabling pluggable
// output formats for commands with a --format flag.
type Registry struct {
	mu          sync.RWMutex
	serializers map[string]Serializer
}

// NewRegistry creates an empty serializer registry.
func NewRegistry() *Registry {
	return &Registry{
		serializers: make(map[string]Serializer),
	}
}

// Register adds a serializer under the given format name.
// Existing entries for the same name are overwritten.
func (r *Registry) Register(name string, s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.serializers[name] = s
}

// Serializer returns the serializer for the given format, or an error if not
// found.
func (r *Registry) Serializer(name string) (Serializer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.serializers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, r.availableLocked())
	}

	return s, nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formatsLocked()
}

func (r *Registry) formatsLocked() []string {
	names := make([]string, 0, len(r.serializers))
	for name := range r.serializers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *Registry) availableLocked() string {
	formats := r.formatsLocked()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// Render serializes v in the named format and writes it to w.
func (r *Registry) Render(w Writer, format string, v any) error {
	s, err := r.Serializer(format)
	if err != nil {
		return err
	}

	data, err := s(v)
	if err != nil {
		return err
	}

	return w.Write(data)
}

// DefaultRegistry returns a registry pre-populated with the built-in
// machine-readable formats: json, yaml.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("json", SerializeJSON)
	r.Register("yaml", SerializeYAML)

	return r
}
