package pipeline

import (
	"fmt"
	"slices"

	"github.com/gnosis/dxctl/chain/evm"
)

// Kind is the kind of a Step.
type Kind int

const (
	// KindDeploy deploys a contract and registers it as an artifact.
	KindDeploy Kind = iota + 1
	// KindLink binds a deployed library into contracts that are not deployed yet.
	KindLink
	// KindCall sends a configuration call to a deployed artifact.
	KindCall
)

func (k Kind) String() string {
	switch k {
	case KindDeploy:
		return "deploy"
	case KindLink:
		return "link"
	case KindCall:
		return "call"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Ref is a deferred reference to the address of a registered artifact. It is resolved when the
// step using it runs, not when the step is built.
type Ref string

// operatorRef resolves to the address of the operator identity.
type operatorRef struct{}

// Operator returns a deferred reference to the operator address.
func Operator() any { return operatorRef{} }

// Step is a unit of work of a Pipeline. Steps are values: build them with Deploy, Link or Call and
// do not modify them afterwards.
type Step struct {
	ID   string
	Kind Kind

	// Name is the artifact the step deploys, the library it links or the target it calls.
	Name string
	// Contract is the compiled contract a deploy step deploys. It defaults to Name.
	Contract string
	// Consumers are the contracts a link step binds the library into.
	Consumers []string
	// Method is the function a call step invokes.
	Method evm.Func
	// Args are the constructor or call arguments. They may hold Ref and Operator values.
	Args []any
	// Requires lists artifacts that must be registered besides the ones referenced in Args.
	Requires []string
}

// Deploy returns a step deploying the contract called name and registering it under name.
func Deploy(name string, args ...any) Step {
	return DeployContract(name, name, args...)
}

// DeployContract returns a step deploying contract and registering it under name.
func DeployContract(name, contract string, args ...any) Step {
	return Step{
		ID:       "deploy-" + name,
		Kind:     KindDeploy,
		Name:     name,
		Contract: contract,
		Args:     args,
	}
}

// Link returns a step binding the library artifact into consumers. Consumers are contract names,
// not artifact names: the library is linked into every later deployment of those contracts.
func Link(library string, consumers ...string) Step {
	return Step{
		ID:        "link-" + library,
		Kind:      KindLink,
		Name:      library,
		Consumers: consumers,
	}
}

// Call returns a step invoking method with args on the target artifact.
func Call(target string, method evm.Func, args ...any) Step {
	return Step{
		ID:     fmt.Sprintf("call-%s-%s", target, method.Signature()),
		Kind:   KindCall,
		Name:   target,
		Method: method,
		Args:   args,
	}
}

// WithID returns a copy of s with the given id.
func (s Step) WithID(id string) Step {
	s.ID = id
	return s
}

// DependsOn returns a copy of s that additionally requires names to be registered.
func (s Step) DependsOn(names ...string) Step {
	s.Requires = append(slices.Clone(s.Requires), names...)
	return s
}

// Dependencies returns the artifact names that must be registered before s runs, in order of
// first appearance.
func (s Step) Dependencies() []string {
	var deps []string
	add := func(name string) {
		if !slices.Contains(deps, name) {
			deps = append(deps, name)
		}
	}

	if s.Kind == KindLink || s.Kind == KindCall {
		add(s.Name)
	}
	for _, arg := range s.Args {
		if ref, ok := arg.(Ref); ok {
			add(string(ref))
		}
	}
	for _, name := range s.Requires {
		add(name)
	}

	return deps
}
