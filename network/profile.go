// Package network defines the network profiles a run is configured with. A profile is pure
// configuration: it names the chain, the endpoint, the operator identity and the address-subset
// rule of the approval workflow, and performs no I/O itself.
package network

import (
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	chainsel "github.com/smartcontractkit/chain-selectors"

	"github.com/gnosis/dxctl/chain/evm"
)

// ErrNetworkConfiguration is returned for unknown profiles and invalid profile settings.
var ErrNetworkConfiguration = errors.New("invalid network configuration")

// ID identifies a network profile.
type ID string

const (
	Local   ID = "local"
	Sepolia ID = "sepolia"
	Holesky ID = "holesky"
	Mainnet ID = "mainnet"
	Custom  ID = "custom"
)

// IDs lists the known profiles.
var IDs = []ID{Local, Sepolia, Holesky, Mainnet, Custom}

// ParseID parses a profile id. The empty string selects Local.
func ParseID(s string) (ID, error) {
	if s == "" {
		return Local, nil
	}

	id := ID(s)
	if !slices.Contains(IDs, id) {
		return "", fmt.Errorf("%w: unknown network %q, expected one of %v", ErrNetworkConfiguration, s, IDs)
	}

	return id, nil
}

// DefaultSubsets is the address-subset rule of each profile.
var DefaultSubsets = map[ID]SubsetRule{
	Mainnet: All(),
	Sepolia: Artifacts("EtherToken", "TokenRDN", "TokenOMG"),
	Holesky: Range(0, 5),
	Local:   Range(0, 5),
	Custom:  All(),
}

// Profile is the configuration of the network a run targets.
type Profile struct {
	ID            ID
	ChainSelector uint64
	ChainID       *big.Int
	Endpoint      string
	// OperatorIndex selects the operator among the available identities. Zero is the first one.
	OperatorIndex int
	Subset        SubsetRule
	// DeployTestTokens adds the test tokens to the migration.
	DeployTestTokens bool
}

type defaults struct {
	chain      chainsel.Chain
	endpoint   string
	testTokens bool
}

var knownNetworks = map[ID]defaults{
	Local:   {chain: chainsel.GETH_TESTNET, endpoint: "http://localhost:8545", testTokens: true},
	Sepolia: {chain: chainsel.ETHEREUM_TESTNET_SEPOLIA, endpoint: "https://ethereum-sepolia-rpc.publicnode.com", testTokens: true},
	Holesky: {chain: chainsel.ETHEREUM_TESTNET_HOLESKY, endpoint: "https://ethereum-holesky-rpc.publicnode.com", testTokens: true},
	Mainnet: {chain: chainsel.ETHEREUM_MAINNET, endpoint: "https://ethereum-rpc.publicnode.com"},
}

// Overrides adjust the defaults of a profile. Zero values keep the default.
type Overrides struct {
	Endpoint         string      `yaml:"endpoint,omitempty"`
	ChainID          uint64      `yaml:"chainId,omitempty"`
	OperatorIndex    *int        `yaml:"operatorIndex,omitempty"`
	Subset           *SubsetRule `yaml:"subset,omitempty"`
	DeployTestTokens *bool       `yaml:"deployTestTokens,omitempty"`
}

// Select returns the profile id with overrides applied. The custom profile has no defaults and
// requires an endpoint and a chain id.
func Select(id ID, o Overrides) (Profile, error) {
	if !slices.Contains(IDs, id) {
		return Profile{}, fmt.Errorf("%w: unknown network %q", ErrNetworkConfiguration, id)
	}

	p := Profile{ID: id, Subset: DefaultSubsets[id]}
	if d, ok := knownNetworks[id]; ok {
		p.ChainSelector = d.chain.Selector
		p.ChainID = new(big.Int).SetUint64(d.chain.EvmChainID)
		p.Endpoint = d.endpoint
		p.DeployTestTokens = d.testTokens
	}

	if o.Endpoint != "" {
		p.Endpoint = o.Endpoint
	}
	if o.ChainID != 0 {
		if p.ChainID != nil && p.ChainID.Uint64() != o.ChainID {
			return Profile{}, fmt.Errorf("%w: %s is chain %s, cannot override with %d",
				ErrNetworkConfiguration, id, p.ChainID, o.ChainID)
		}
		p.ChainID = new(big.Int).SetUint64(o.ChainID)
		if sel, err := chainsel.SelectorFromChainId(o.ChainID); err == nil {
			p.ChainSelector = sel
		}
	}
	if o.OperatorIndex != nil {
		p.OperatorIndex = *o.OperatorIndex
	}
	if o.Subset != nil {
		p.Subset = *o.Subset
	}
	if o.DeployTestTokens != nil {
		p.DeployTestTokens = *o.DeployTestTokens
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}

	return p, nil
}

// Validate checks that the profile is complete.
func (p Profile) Validate() error {
	if p.Endpoint == "" {
		return fmt.Errorf("%w: %s requires an endpoint", ErrNetworkConfiguration, p.ID)
	}
	if p.ChainID == nil || p.ChainID.Sign() <= 0 {
		return fmt.Errorf("%w: %s requires a chain id", ErrNetworkConfiguration, p.ID)
	}
	if p.OperatorIndex < 0 {
		return fmt.Errorf("%w: negative operator index %d", ErrNetworkConfiguration, p.OperatorIndex)
	}

	return p.Subset.Validate()
}

// Operator returns the operator identity of the profile among the identities of chain.
func (p Profile) Operator(chain evm.Chain) (*bind.TransactOpts, error) {
	op, err := chain.Operator(p.OperatorIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %s operator: %w", ErrNetworkConfiguration, p.ID, err)
	}

	return op, nil
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (chain %s, %s)", p.ID, p.ChainID, p.Endpoint)
}
