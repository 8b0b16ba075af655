package abi

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Registry is the declarative signature registry for one contract. Both
// the generated entrypoint wrappers and the generated call-sites are
// built from the same registry, which is what keeps the two sides of
// the wire in agreement.
type Registry struct {
	contract string
	sigs     map[string]Signature
	order    []string
}

// NewRegistry creates an empty registry for the named contract.
func NewRegistry(contract string) *Registry {
	return &Registry{
		contract: contract,
		sigs:     make(map[string]Signature),
	}
}

// Contract returns the contract name the registry describes.
func (r *Registry) Contract() string { return r.contract }

// Register adds one signature. Registering the same entrypoint name
// twice is an error.
func (r *Registry) Register(sig Signature) error {
	if err := sig.Validate(); err != nil {
		return err
	}
	if _, exists := r.sigs[sig.Name]; exists {
		return fmt.Errorf("entrypoint %q already registered", sig.Name)
	}
	r.sigs[sig.Name] = sig
	r.order = append(r.order, sig.Name)
	return nil
}

// MustRegister is Register for static declarations that cannot fail at
// runtime without a programming error.
func (r *Registry) MustRegister(sig Signature) *Registry {
	if err := r.Register(sig); err != nil {
		panic(err)
	}
	return r
}

// Get looks up one signature by entrypoint name.
func (r *Registry) Get(name string) (Signature, bool) {
	sig, ok := r.sigs[name]
	return sig, ok
}

// Signatures returns all signatures in declaration order.
func (r *Registry) Signatures() []Signature {
	out := make([]Signature, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sigs[name])
	}
	return out
}

// Len returns the number of registered signatures.
func (r *Registry) Len() int { return len(r.order) }

// manifest is the YAML shape of a declared registry.
type manifest struct {
	Contract    string      `yaml:"contract"`
	Entrypoints []Signature `yaml:"entrypoints"`
}

// ParseManifest builds a registry from YAML manifest bytes.
func ParseManifest(data []byte) (*Registry, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Contract == "" {
		return nil, fmt.Errorf("manifest has no contract name")
	}
	reg := NewRegistry(m.Contract)
	for _, sig := range m.Entrypoints {
		if err := reg.Register(sig); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LoadManifest reads and parses a YAML manifest file.
func LoadManifest(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(data)
}
