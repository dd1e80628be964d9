// Package provider connects to EVM chains: a JSON-RPC node or an in-process simulated chain.
package provider

import (
	"context"

	"github.com/gnosis/dxctl/chain/evm"
)

// ChainProvider initializes a connected evm.Chain.
type ChainProvider interface {
	Initialize(ctx context.Context) (evm.Chain, error)
	Name() string
	// Close releases the connection opened by Initialize.
	Close() error
}

var (
	_ ChainProvider = (*RPCChainProvider)(nil)
	_ ChainProvider = (*SimChainProvider)(nil)
)
