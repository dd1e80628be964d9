// Package caller issues configuration calls on deployed artifacts. Every call carries an explicit
// operator identity, exact numeric arguments and waits for its confirmation.
package caller

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"github.com/gnosis/dxctl/chain/evm"
	"github.com/gnosis/dxctl/pkg/logger"
	"github.com/gnosis/dxctl/registry"
)

// ErrMissingOperator is returned when a configuration call has no operator identity.
var ErrMissingOperator = errors.New("operator identity is required")

// Caller issues configuration calls and views on artifacts resolved from a registry.
type Caller struct {
	contracts evm.Contracts
	registry  *registry.Registry
	lggr      logger.Logger
}

// New creates a Caller.
func New(contracts evm.Contracts, reg *registry.Registry, lggr logger.Logger) *Caller {
	return &Caller{
		contracts: contracts,
		registry:  reg,
		lggr:      lggr.Named("caller"),
	}
}

// Call sends fn with args to the artifact named target, signed by operator, and blocks until the
// transaction is confirmed. Argument and resolution errors are raised before anything is sent.
// Failures of the call itself are returned unchanged.
func (c *Caller) Call(
	ctx context.Context, operator *bind.TransactOpts, target string, fn evm.Func, args ...any,
) (evm.Confirmation, error) {
	if operator == nil {
		return evm.Confirmation{}, fmt.Errorf("%w: %s.%s", ErrMissingOperator, target, fn)
	}

	address, err := c.registry.Resolve(target)
	if err != nil {
		return evm.Confirmation{}, err
	}

	normalized, err := NormalizeArgs(args)
	if err != nil {
		return evm.Confirmation{}, fmt.Errorf("%s.%s: %w", target, fn, err)
	}

	c.lggr.Debugw("Sending configuration call",
		"target", target, "address", address.Hex(), "method", fn.Signature(), "operator", operator.From.Hex())

	conf, err := c.contracts.At(address).Transact(ctx, operator, fn, normalized...)
	if err != nil {
		return evm.Confirmation{}, err
	}

	c.lggr.Infow("Configuration call confirmed",
		"target", target, "method", fn.Signature(), "tx", conf.TxHash.Hex(), "block", conf.BlockNumber)

	return conf, nil
}

// View calls the read-only fn on the artifact named target and decodes the result into returns.
func (c *Caller) View(ctx context.Context, target string, fn evm.Func, args []any, returns ...any) error {
	address, err := c.registry.Resolve(target)
	if err != nil {
		return err
	}

	normalized, err := NormalizeArgs(args)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", target, fn, err)
	}

	return c.contracts.At(address).Call(ctx, fn, normalized, returns...)
}
