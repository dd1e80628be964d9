package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrDuplicateArtifact is returned when registering a name that is already bound.
	ErrDuplicateArtifact = errors.New("artifact already registered")
	// ErrUnresolvedDependency is returned when resolving a name that is not bound.
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	// ErrChainMismatch is returned when a registry snapshot belongs to another chain.
	ErrChainMismatch = errors.New("registry belongs to another chain")
)

// Registry maps artifact names to deployed components. Names are bound at most once and the
// registration order is preserved.
type Registry struct {
	mu sync.RWMutex

	// ChainID is the chain the artifacts are deployed on. Zero when unknown.
	ChainID uint64     `json:"chainId,omitempty"`
	Records []Artifact `json:"records"`
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{Records: []Artifact{}}
}

// NewForChain creates an empty Registry for the artifacts deployed on chainID.
func NewForChain(chainID uint64) *Registry {
	r := New()
	r.ChainID = chainID

	return r
}

// Register binds name to address. If name is already bound the existing binding is left
// unchanged and ErrDuplicateArtifact is returned.
func (r *Registry) Register(name string, address common.Address) error {
	return r.RegisterArtifact(Artifact{Name: name, Address: address})
}

// RegisterArtifact binds a.Name to a.
func (r *Registry) RegisterArtifact(a Artifact) error {
	if a.Name == "" {
		return errors.New("artifact name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if idx := r.indexOf(a.Name); idx != -1 {
		return fmt.Errorf("%w: %s at %s", ErrDuplicateArtifact, a.Name, r.Records[idx].Address.Hex())
	}
	r.Records = append(r.Records, a)

	return nil
}

// Resolve returns the address bound to name.
func (r *Registry) Resolve(name string) (common.Address, error) {
	a, err := r.Get(name)
	if err != nil {
		return common.Address{}, err
	}

	return a.Address, nil
}

// Get returns the artifact bound to name.
func (r *Registry) Get(name string) (Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(name)
	if idx == -1 {
		return Artifact{}, fmt.Errorf("%w: %s", ErrUnresolvedDependency, name)
	}

	return r.Records[idx], nil
}

// Has reports whether name is bound.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.indexOf(name) != -1
}

// HasContract reports whether an artifact of contract is bound. Artifacts registered without a
// contract count as their own name.
func (r *Registry) HasContract(contract string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.Records {
		if a.Contract == contract || (a.Contract == "" && a.Name == contract) {
			return true
		}
	}

	return false
}

// List returns every binding in registration order.
func (r *Registry) List() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bindings := make([]Binding, 0, len(r.Records))
	for _, a := range r.Records {
		bindings = append(bindings, Binding{Name: a.Name, Address: a.Address})
	}

	return bindings
}

// Artifacts returns a copy of every artifact in registration order.
func (r *Registry) Artifacts() []Artifact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Artifact{}, r.Records...)
}

// indexOf returns the index of the artifact named name, or -1 if no such artifact exists.
func (r *Registry) indexOf(name string) int {
	for i, a := range r.Records {
		if a.Name == name {
			return i
		}
	}

	return -1
}
