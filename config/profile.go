package config

import (
	"fmt"

	"github.com/gnosis/dxctl/network"
)

// Profile selects the network profile of the config. The per network overrides of the networks
// file apply first, then the endpoint and operator index set in the config.
func (c *Config) Profile() (network.Profile, error) {
	id, err := network.ParseID(c.Network)
	if err != nil {
		return network.Profile{}, err
	}

	manifest, err := network.LoadManifest(c.Paths.NetworksFile)
	if err != nil {
		return network.Profile{}, err
	}

	p, err := manifest.Select(id, network.Overrides{
		Endpoint:      c.Endpoint,
		OperatorIndex: c.OperatorIndex,
	})
	if err != nil {
		return network.Profile{}, fmt.Errorf("select network %s: %w", id, err)
	}

	return p, nil
}

// RequireOperatorKeys checks that at least one operator key is configured.
func (c *Config) RequireOperatorKeys() error {
	if len(c.OperatorKeys) == 0 {
		return fmt.Errorf("%w: no operator keys configured, set DX_OPERATOR_KEYS", network.ErrNetworkConfiguration)
	}

	return nil
}
