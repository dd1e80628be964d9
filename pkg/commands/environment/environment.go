// Package environment connects a command to the network selected by its configuration.
package environment

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"github.com/gnosis/dxctl/chain/evm"
	"github.com/gnosis/dxctl/chain/evm/provider"
	"github.com/gnosis/dxctl/config"
	"github.com/gnosis/dxctl/network"
	"github.com/gnosis/dxctl/pkg/logger"
)

// Environment is what a command needs to act on a network.
type Environment struct {
	Profile   network.Profile
	Chain     evm.Chain
	Operator  *bind.TransactOpts
	Contracts evm.Contracts

	closer func() error
}

// Close releases the connection to the network.
func (e *Environment) Close() error {
	if e.closer == nil {
		return nil
	}

	return e.closer()
}

// ChainID returns the id of the chain the environment acts on, zero when the profile has none.
func (e *Environment) ChainID() uint64 {
	if e.Profile.ChainID == nil {
		return 0
	}

	return e.Profile.ChainID.Uint64()
}

// New creates an Environment from its parts. closer may be nil.
func New(profile network.Profile, chain evm.Chain, operator *bind.TransactOpts, contracts evm.Contracts, closer func() error) *Environment {
	return &Environment{
		Profile:   profile,
		Chain:     chain,
		Operator:  operator,
		Contracts: contracts,
		closer:    closer,
	}
}

// LoaderFunc loads the Environment described by cfg.
type LoaderFunc func(ctx context.Context, cfg *config.Config, lggr logger.Logger) (*Environment, error)

// Load selects the network profile of cfg, connects to its endpoint with the configured operator
// keys and reads contract artifacts from the configured build directory.
func Load(ctx context.Context, cfg *config.Config, lggr logger.Logger) (*Environment, error) {
	profile, err := cfg.Profile()
	if err != nil {
		return nil, err
	}
	if err = cfg.RequireOperatorKeys(); err != nil {
		return nil, err
	}

	users := make([]provider.SignerGenerator, 0, len(cfg.OperatorKeys)-1)
	for _, key := range cfg.OperatorKeys[1:] {
		users = append(users, provider.TransactorFromRaw(key))
	}

	var p provider.ChainProvider = provider.NewRPCChainProvider(provider.RPCChainProviderConfig{
		ChainID:               profile.ChainID,
		Selector:              profile.ChainSelector,
		Endpoint:              profile.Endpoint,
		DeployerTransactorGen: provider.TransactorFromRaw(cfg.OperatorKeys[0]),
		UsersTransactorGen:    users,
		ConfirmFunctor:        provider.ConfirmFuncGeth(cfg.WaitMinedTimeout),
		Logger:                lggr,
	})

	chain, err := p.Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", profile, err)
	}

	operator, err := profile.Operator(chain)
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	lggr.Infow("Loaded environment",
		"network", profile.ID, "chain", chain.String(), "operator", operator.From.Hex())

	return New(profile, chain, operator, evm.NewBackend(chain, evm.NewDirArtifacts(cfg.Paths.BuildDir)), p.Close), nil
}
