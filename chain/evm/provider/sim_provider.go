package provider

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	chainsel "github.com/smartcontractkit/chain-selectors"

	"github.com/gnosis/dxctl/chain/evm"
)

var (
	// SimChainID is the chain ID of every simulated chain.
	SimChainID = params.AllDevChainProtocolChanges.ChainID

	// prefundAmountWei is the balance of every generated account, 1,000,000 ether.
	prefundAmountWei = new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(params.Ether))
)

// SimChainProviderConfig holds the configuration to initialize the SimChainProvider.
type SimChainProviderConfig struct {
	// Optional: NumAdditionalAccounts is the number of user accounts to generate besides the
	// deployer.
	NumAdditionalAccounts uint
	// Optional: BlockTime mines a block every interval. By default blocks are only mined when a
	// transaction is confirmed.
	BlockTime time.Duration
}

// SimChainProvider manages a chain backed by go-ethereum's in memory simulated backend. It is
// used by tests and by dry runs against the "local" network without a node.
type SimChainProvider struct {
	config SimChainProviderConfig

	backend *simulated.Backend
	chain   *evm.Chain
}

// NewSimChainProvider creates a new SimChainProvider.
func NewSimChainProvider(config SimChainProviderConfig) *SimChainProvider {
	return &SimChainProvider{config: config}
}

// Initialize starts the simulated chain with a prefunded deployer and the configured number of
// prefunded user accounts. Block mining stops when ctx is done.
func (p *SimChainProvider) Initialize(ctx context.Context) (evm.Chain, error) {
	if p.chain != nil {
		return *p.chain, nil
	}

	deployerKey, err := crypto.GenerateKey()
	if err != nil {
		return evm.Chain{}, fmt.Errorf("failed to generate deployer key: %w", err)
	}

	deployer, err := bind.NewKeyedTransactorWithChainID(deployerKey, SimChainID)
	if err != nil {
		return evm.Chain{}, err
	}

	genesis := types.GenesisAlloc{
		deployer.From: {Balance: prefundAmountWei},
	}

	users := make([]*bind.TransactOpts, 0, p.config.NumAdditionalAccounts)
	for range p.config.NumAdditionalAccounts {
		user, gerr := TransactorRandom().Generate(SimChainID)
		if gerr != nil {
			return evm.Chain{}, fmt.Errorf("failed to generate user transactor: %w", gerr)
		}

		users = append(users, user)
		genesis[user.From] = types.Account{Balance: prefundAmountWei}
	}

	p.backend = simulated.NewBackend(genesis, simulated.WithBlockGasLimit(50_000_000))
	p.backend.Commit()

	client := NewSimClient(p.backend)

	if p.config.BlockTime > 0 {
		startAutoMine(ctx, client, p.config.BlockTime)
	}

	confirm, err := ConfirmFuncGeth(time.Minute, WithTickInterval(10*time.Millisecond)).
		Generate(ctx, "simulated", client, deployer.From)
	if err != nil {
		return evm.Chain{}, err
	}

	p.chain = &evm.Chain{
		Selector:    chainsel.GETH_TESTNET.Selector,
		ChainID:     SimChainID,
		Client:      client,
		DeployerKey: deployer,
		Users:       users,
		Confirm: func(tx *types.Transaction) (uint64, error) {
			if tx != nil {
				client.Commit()
			}

			return confirm(tx)
		},
	}

	return *p.chain, nil
}

// Close shuts the simulated backend down.
func (p *SimChainProvider) Close() error {
	if p.backend == nil {
		return nil
	}

	return p.backend.Close()
}

// Name returns the name of the SimChainProvider.
func (*SimChainProvider) Name() string {
	return "Simulated EVM Chain Provider"
}

func startAutoMine(ctx context.Context, client *SimClient, blockTime time.Duration) {
	ticker := time.NewTicker(blockTime)
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				client.Commit()
			case <-ctx.Done():
				return
			}
		}
	}()
}
