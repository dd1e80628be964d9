package provider

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/gnosis/dxctl/chain/evm"
	"github.com/gnosis/dxctl/pkg/logger"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: ChainID is the chain ID the node is expected to report.
	ChainID *big.Int
	// Optional: Selector is the chain-selectors selector of the chain, zero if unknown.
	Selector uint64
	// Required: Endpoint is the HTTP or WebSocket URL of the node.
	Endpoint string
	// Required: A generator for the deployer key, the first available identity.
	DeployerTransactorGen SignerGenerator
	// Optional: Generators for additional operator identities.
	UsersTransactorGen []SignerGenerator
	// Required: ConfirmFunctor generates the function waiting for transactions to be mined.
	// If in doubt, use ConfirmFuncGeth.
	ConfirmFunctor ConfirmFunctor
	// Optional: Logger defaults to a production logger.
	Logger logger.Logger
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.ChainID == nil || c.ChainID.Sign() <= 0 {
		return errors.New("a positive chain ID is required")
	}
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if c.DeployerTransactorGen == nil {
		return errors.New("deployer transactor generator is required")
	}
	if c.ConfirmFunctor == nil {
		return errors.New("confirm functor is required")
	}

	return nil
}

// RPCChainProvider provides a chain connected to an EVM node over JSON-RPC.
type RPCChainProvider struct {
	config RPCChainProviderConfig

	client *ethclient.Client
	chain  *evm.Chain
}

// NewRPCChainProvider creates a new RPCChainProvider.
func NewRPCChainProvider(config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{config: config}
}

// Initialize dials the node, checks that it serves the configured chain and generates the
// operator identities.
func (p *RPCChainProvider) Initialize(ctx context.Context) (evm.Chain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.config.Logger == nil {
		lggr, err := logger.New()
		if err != nil {
			return evm.Chain{}, fmt.Errorf("failed to create default logger: %w", err)
		}
		p.config.Logger = lggr
	}
	lggr := p.config.Logger.Named("rpc")

	if err := p.config.validate(); err != nil {
		return evm.Chain{}, fmt.Errorf("failed to validate provider config: %w", err)
	}

	deployerKey, err := p.config.DeployerTransactorGen.Generate(p.config.ChainID)
	if err != nil {
		return evm.Chain{}, fmt.Errorf("failed to generate deployer key: %w", err)
	}

	users := make([]*bind.TransactOpts, 0, len(p.config.UsersTransactorGen))
	for _, g := range p.config.UsersTransactorGen {
		u, gerr := g.Generate(p.config.ChainID)
		if gerr != nil {
			return evm.Chain{}, fmt.Errorf("failed to generate user transactor: %w", gerr)
		}

		users = append(users, u)
	}

	client, err := ethclient.DialContext(ctx, p.config.Endpoint)
	if err != nil {
		return evm.Chain{}, fmt.Errorf("failed to dial %s: %w", p.config.Endpoint, err)
	}

	remoteID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return evm.Chain{}, fmt.Errorf("failed to query chain ID from %s: %w", p.config.Endpoint, err)
	}
	if remoteID.Cmp(p.config.ChainID) != 0 {
		client.Close()
		return evm.Chain{}, fmt.Errorf("node at %s serves chain %s, expected %s",
			p.config.Endpoint, remoteID, p.config.ChainID,
		)
	}

	chain := evm.Chain{
		Selector:    p.config.Selector,
		ChainID:     p.config.ChainID,
		Client:      client,
		DeployerKey: deployerKey,
		Users:       users,
	}

	confirmFunc, err := p.config.ConfirmFunctor.Generate(ctx, chain.Name(), client, deployerKey.From)
	if err != nil {
		client.Close()
		return evm.Chain{}, fmt.Errorf("failed to generate confirm function: %w", err)
	}
	chain.Confirm = confirmFunc

	lggr.Infow("Connected to chain",
		"chain", chain.String(), "endpoint", p.config.Endpoint,
		"deployer", deployerKey.From.Hex(), "users", len(users),
	)

	p.client = client
	p.chain = &chain

	return chain, nil
}

// Close closes the connection to the node.
func (p *RPCChainProvider) Close() error {
	if p.client != nil {
		p.client.Close()
	}

	return nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "EVM RPC Chain Provider"
}
