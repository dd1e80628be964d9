package registry

import (
	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/common"
)

// Artifact is a deployed component bound to the name it was deployed under. Artifacts are
// created once, when the deployment succeeds, and are never modified.
type Artifact struct {
	// Name is the unique name the artifact is looked up by, e.g. "DutchExchangeProxy".
	Name string `json:"name"`
	// Address is where the component lives on chain.
	Address common.Address `json:"address"`
	// Contract is the compiled contract the component was deployed from. It is empty for
	// artifacts registered by address only.
	Contract string `json:"contract,omitempty"`
	// Version of the contract, if known.
	Version *semver.Version `json:"version,omitempty"`
}

// Binding is a name to address pair as returned by List.
type Binding struct {
	Name    string
	Address common.Address
}
