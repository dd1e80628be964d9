// Package pipeline executes an ordered list of deploy, link and call steps. Steps run strictly in
// the supplied order and resolve the artifacts they depend on from the registry when they run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/gnosis/dxctl/caller"
	"github.com/gnosis/dxctl/chain/evm"
	"github.com/gnosis/dxctl/operations"
	"github.com/gnosis/dxctl/pkg/logger"
	"github.com/gnosis/dxctl/registry"
)

// Config configures a Pipeline.
type Config struct {
	// Required: Registry receives the deployed artifacts and resolves references.
	Registry *registry.Registry
	// Required: Contracts deploys and calls contracts.
	Contracts evm.Contracts
	// Operator signs deployments and calls. Steps needing it fail when it is nil.
	Operator *bind.TransactOpts
	// Optional: Reporter records step reports. Successful reports it already holds make the
	// matching steps skip their side effect. Defaults to an empty memory reporter.
	Reporter operations.Reporter
	// Optional: ChainID is recorded in every step report so that reports of one chain never
	// satisfy steps on another. Defaults to the chain of the Registry.
	ChainID uint64
	// Optional: Force re-executes steps even if the Reporter holds a successful report.
	Force bool
	// Optional: Logger defaults to a no-op logger.
	Logger logger.Logger
}

// Pipeline runs steps in order, halting at the first failure.
type Pipeline struct {
	registry  *registry.Registry
	contracts evm.Contracts
	caller    *caller.Caller
	operator  *bind.TransactOpts
	reporter  operations.Reporter
	chainID   uint64
	force     bool
	lggr      logger.Logger

	// contract name to library name to library address
	links map[string]map[string]common.Address
}

// New creates a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.Contracts == nil {
		return nil, errors.New("contracts backend is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Reporter == nil {
		cfg.Reporter = operations.NewMemoryReporter()
	}
	switch {
	case cfg.ChainID == 0:
		cfg.ChainID = cfg.Registry.ChainID
	case cfg.Registry.ChainID != 0 && cfg.Registry.ChainID != cfg.ChainID:
		return nil, fmt.Errorf("%w: registry is for chain %d, pipeline runs on chain %d",
			registry.ErrChainMismatch, cfg.Registry.ChainID, cfg.ChainID)
	}

	return &Pipeline{
		registry:  cfg.Registry,
		contracts: cfg.Contracts,
		caller:    caller.New(cfg.Contracts, cfg.Registry, cfg.Logger),
		operator:  cfg.Operator,
		reporter:  cfg.Reporter,
		chainID:   cfg.ChainID,
		force:     cfg.Force,
		lggr:      cfg.Logger.Named("pipeline"),
		links:     make(map[string]map[string]common.Address),
	}, nil
}

// Run executes steps in order. Each step completes, including the confirmation of its
// transaction, before the next one starts. The first failure stops the run and is returned as a
// *StepError. Artifacts registered before the failure stay registered.
func (p *Pipeline) Run(ctx context.Context, steps []Step) error {
	b := operations.NewBundle(func() context.Context { return ctx }, p.lggr, p.reporter)
	deps := stepDeps{contracts: p.contracts, caller: p.caller, operator: p.operator}

	for i, s := range steps {
		p.lggr.Infow("Running step", "index", i, "step", s.ID, "kind", s.Kind.String())

		if err := p.runStep(b, deps, s); err != nil {
			p.lggr.Errorw("Step failed", "index", i, "step", s.ID, "kind", s.Kind.String(), "error", err)
			return &StepError{Index: i, ID: s.ID, Kind: s.Kind, Err: err}
		}
	}

	p.lggr.Infow("Pipeline finished", "steps", len(steps), "artifacts", len(p.registry.List()))

	return nil
}

// Libraries returns the libraries linked into contract so far.
func (p *Pipeline) Libraries(contract string) map[string]common.Address {
	return maps.Clone(p.links[contract])
}

func (p *Pipeline) runStep(b operations.Bundle, deps stepDeps, s Step) error {
	for _, name := range s.Requires {
		if _, err := p.registry.Resolve(name); err != nil {
			return err
		}
	}

	switch s.Kind {
	case KindDeploy:
		return p.deploy(b, deps, s)
	case KindLink:
		return p.link(b, deps, s)
	case KindCall:
		return p.call(b, deps, s)
	default:
		return fmt.Errorf("unknown step kind %s", s.Kind)
	}
}

func (p *Pipeline) deploy(b operations.Bundle, deps stepDeps, s Step) error {
	if p.registry.Has(s.Name) {
		return fmt.Errorf("%w: %s", registry.ErrDuplicateArtifact, s.Name)
	}

	contract := s.Contract
	if contract == "" {
		contract = s.Name
	}

	args, err := p.resolveArgs(s.Args)
	if err != nil {
		return err
	}

	operator, err := p.operatorAddress()
	if err != nil {
		return err
	}

	report, err := operations.ExecuteOperation(b, deployOp, deps, DeployInput{
		ChainID:   p.chainID,
		Step:      s.ID,
		Name:      s.Name,
		Contract:  contract,
		Libraries: p.Libraries(contract),
		Args:      args,
		Operator:  operator,
	}, p.executeOptions()...)
	if err != nil {
		return err
	}

	if err = p.registry.RegisterArtifact(registry.Artifact{
		Name:     s.Name,
		Address:  report.Output.Address,
		Contract: contract,
	}); err != nil {
		return err
	}

	p.lggr.Infow("Deployed artifact", "name", s.Name, "contract", contract, "address", report.Output.Address.Hex())

	return nil
}

func (p *Pipeline) link(b operations.Bundle, deps stepDeps, s Step) error {
	if len(s.Consumers) == 0 {
		return fmt.Errorf("library %s has no consumers", s.Name)
	}

	address, err := p.registry.Resolve(s.Name)
	if err != nil {
		return err
	}

	for _, consumer := range s.Consumers {
		if p.registry.Has(consumer) || p.registry.HasContract(consumer) {
			return fmt.Errorf("%w: cannot link %s into %s, it is already deployed",
				ErrLinkOrderViolation, s.Name, consumer)
		}
	}

	_, err = operations.ExecuteOperation(b, linkOp, deps, LinkInput{
		ChainID:   p.chainID,
		Step:      s.ID,
		Library:   s.Name,
		Address:   address,
		Consumers: s.Consumers,
	}, p.executeOptions()...)
	if err != nil {
		return err
	}

	for _, consumer := range s.Consumers {
		if p.links[consumer] == nil {
			p.links[consumer] = make(map[string]common.Address)
		}
		p.links[consumer][s.Name] = address
	}

	return nil
}

func (p *Pipeline) call(b operations.Bundle, deps stepDeps, s Step) error {
	if s.Method.IsZero() {
		return fmt.Errorf("call step %s has no method", s.ID)
	}

	address, err := p.registry.Resolve(s.Name)
	if err != nil {
		return err
	}

	args, err := p.resolveArgs(s.Args)
	if err != nil {
		return err
	}

	operator, err := p.operatorAddress()
	if err != nil {
		return err
	}

	_, err = operations.ExecuteOperation(b, callOp, deps, CallInput{
		ChainID:  p.chainID,
		Step:     s.ID,
		Target:   s.Name,
		Address:  address,
		Method:   s.Method,
		Args:     args,
		Operator: operator,
	}, p.executeOptions()...)

	return err
}

// resolveArgs replaces deferred references with addresses and checks that every numeric
// argument is exact.
func (p *Pipeline) resolveArgs(args []any) ([]any, error) {
	resolved := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case Ref:
			addr, err := p.registry.Resolve(string(v))
			if err != nil {
				return nil, err
			}
			resolved[i] = addr
		case operatorRef:
			addr, err := p.operatorAddress()
			if err != nil {
				return nil, err
			}
			resolved[i] = addr
		default:
			resolved[i] = arg
		}
	}

	return caller.NormalizeArgs(resolved)
}

func (p *Pipeline) operatorAddress() (common.Address, error) {
	if p.operator == nil {
		return common.Address{}, caller.ErrMissingOperator
	}

	return p.operator.From, nil
}

func (p *Pipeline) executeOptions() []operations.ExecuteOption {
	if p.force {
		return []operations.ExecuteOption{operations.WithForce()}
	}

	return nil
}
