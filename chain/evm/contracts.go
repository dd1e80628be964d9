package evm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Confirmation describes a mined transaction.
type Confirmation struct {
	TxHash      common.Hash `json:"txHash"`
	BlockNumber uint64      `json:"blockNumber"`
}

// Contracts deploys contracts and hands out handles to deployed ones.
type Contracts interface {
	// Deploy deploys contract with the given libraries linked in and waits for the deployment to
	// be confirmed. It returns the address of the new contract.
	Deploy(
		ctx context.Context, contract string, libraries map[string]common.Address,
		operator *bind.TransactOpts, args ...any,
	) (common.Address, error)

	// At returns a handle to the contract deployed at address.
	At(address common.Address) Contract
}

// Contract is a handle to a deployed contract.
type Contract interface {
	Address() common.Address

	// Transact sends a transaction calling fn signed by operator and waits for its confirmation.
	Transact(ctx context.Context, operator *bind.TransactOpts, fn Func, args ...any) (Confirmation, error)

	// Call executes fn as a read-only call and decodes its output into returns.
	Call(ctx context.Context, fn Func, args []any, returns ...any) error
}

// Backend implements Contracts on a Chain using artifacts from an ArtifactSource.
type Backend struct {
	chain     Chain
	artifacts ArtifactSource
}

var _ Contracts = (*Backend)(nil)

// NewBackend creates a Backend.
func NewBackend(chain Chain, artifacts ArtifactSource) *Backend {
	return &Backend{chain: chain, artifacts: artifacts}
}

// Deploy implements Contracts.
func (b *Backend) Deploy(
	ctx context.Context, contract string, libraries map[string]common.Address,
	operator *bind.TransactOpts, args ...any,
) (common.Address, error) {
	if operator == nil {
		return common.Address{}, errors.New("operator is required to deploy")
	}

	artifact, err := b.artifacts.Artifact(contract)
	if err != nil {
		return common.Address{}, err
	}

	parsed, err := artifact.ParsedABI()
	if err != nil {
		return common.Address{}, err
	}

	code, err := artifact.LinkedBytecode(libraries)
	if err != nil {
		return common.Address{}, err
	}

	opts := *operator
	opts.Context = ctx

	addr, tx, _, err := bind.DeployContract(&opts, parsed, code, b.chain.Client, args...)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to deploy %s: %w", contract, MaybeDataErr(err))
	}

	if _, err := b.chain.Confirm(tx); err != nil {
		return common.Address{}, fmt.Errorf("failed to confirm deployment of %s: %w", contract, err)
	}

	return addr, nil
}

// At implements Contracts.
func (b *Backend) At(address common.Address) Contract {
	return &boundContract{
		address: address,
		client:  b.chain.Client,
		confirm: b.chain.Confirm,
	}
}

type boundContract struct {
	address common.Address
	client  OnchainClient
	confirm ConfirmFunc
}

func (c *boundContract) Address() common.Address { return c.address }

func (c *boundContract) Transact(
	ctx context.Context, operator *bind.TransactOpts, fn Func, args ...any,
) (Confirmation, error) {
	if operator == nil {
		return Confirmation{}, fmt.Errorf("operator is required to call %s", fn)
	}

	data, err := fn.EncodeArgs(args...)
	if err != nil {
		return Confirmation{}, fmt.Errorf("encode %s: %w", fn, err)
	}

	opts := *operator
	opts.Context = ctx

	bound := bind.NewBoundContract(c.address, abi.ABI{}, c.client, c.client, c.client)
	tx, err := bound.RawTransact(&opts, data)
	if err != nil {
		return Confirmation{}, fmt.Errorf("send %s to %s: %w", fn, c.address.Hex(), MaybeDataErr(err))
	}

	block, err := c.confirm(tx)
	if err != nil {
		return Confirmation{}, err
	}

	return Confirmation{TxHash: tx.Hash(), BlockNumber: block}, nil
}

func (c *boundContract) Call(ctx context.Context, fn Func, args []any, returns ...any) error {
	data, err := fn.EncodeArgs(args...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", fn, err)
	}

	out, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("call %s on %s: %w", fn, c.address.Hex(), MaybeDataErr(err))
	}

	if err := fn.DecodeReturns(out, returns...); err != nil {
		return fmt.Errorf("decode %s: %w", fn, err)
	}

	return nil
}
