package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	chainsel "github.com/smartcontractkit/chain-selectors"
)

// ConfirmFunc is a function that takes a transaction, waits for the transaction to be confirmed,
// and returns the block number and an error.
type ConfirmFunc func(tx *types.Transaction) (uint64, error)

// OnchainClient is an EVM chain client.
// For EVM specifically we can use existing geth interface to abstract chain clients.
type OnchainClient interface {
	bind.ContractBackend
	bind.DeployBackend

	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
}

// Chain represents a connected EVM chain together with the identities available to sign on it.
type Chain struct {
	// Selector is the chain selector of the chain. It is zero for chains unknown to
	// chain-selectors, in which case ChainID identifies the chain.
	Selector uint64
	ChainID  *big.Int

	Client OnchainClient
	// DeployerKey is the first available identity.
	DeployerKey *bind.TransactOpts
	Confirm     ConfirmFunc
	// Users are additional identities that can be used to interact with the chain.
	Users []*bind.TransactOpts
}

// Operator returns the identity at index, where 0 is the deployer key and the users follow in
// order.
func (c Chain) Operator(index int) (*bind.TransactOpts, error) {
	identities := c.Identities()
	if len(identities) == 0 {
		return nil, errors.New("no operator identity available")
	}
	if index < 0 || index >= len(identities) {
		return nil, fmt.Errorf("operator index %d out of range, %d identities available", index, len(identities))
	}

	return identities[index], nil
}

// Identities returns all signing identities in order of preference.
func (c Chain) Identities() []*bind.TransactOpts {
	ids := make([]*bind.TransactOpts, 0, len(c.Users)+1)
	if c.DeployerKey != nil {
		ids = append(ids, c.DeployerKey)
	}

	return append(ids, c.Users...)
}

// String returns chain name and selector "<name> (<selector>)"
func (c Chain) String() string {
	return fmt.Sprintf("%s (%d)", c.Name(), c.Selector)
}

// Name returns the name of the chain. Chains unknown to chain-selectors are named by chain ID.
func (c Chain) Name() string {
	if details, ok := chainsel.ChainBySelector(c.Selector); ok && details.Name != "" {
		return details.Name
	}
	if c.ChainID != nil {
		return c.ChainID.String()
	}

	return strconv.FormatUint(c.Selector, 10)
}

// MaybeDataErr unpacks the revert data of an RPC error into the error message when present.
func MaybeDataErr(err error) error {
	var d rpc.DataError
	if errors.As(err, &d) {
		return fmt.Errorf("%s: %v", d.Error(), d.ErrorData())
	}

	return err
}
