package provider

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient/simulated"

	"github.com/gnosis/dxctl/chain/evm"
)

var _ evm.OnchainClient = (*SimClient)(nil)

// SimClient wraps a simulated backend so it can serve as the client of an evm.Chain while still
// exposing Commit to mine blocks on demand.
type SimClient struct {
	simulated.Client

	mu  sync.Mutex
	sim *simulated.Backend
}

// NewSimClient creates a SimClient over sim.
func NewSimClient(sim *simulated.Backend) *SimClient {
	return &SimClient{
		Client: sim.Client(),
		sim:    sim,
	}
}

// Commit mines a block with the pending transactions and returns its hash.
func (b *SimClient) Commit() common.Hash {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.sim.Commit()
}
