// Package approve provides the CLI command approving tokens on the DutchX exchange.
package approve

import (
	"github.com/gnosis/dxctl/config"
	"github.com/gnosis/dxctl/pkg/commands/environment"
	"github.com/gnosis/dxctl/registry"
)

// ConfigLoaderFunc loads the configuration from a file path.
type ConfigLoaderFunc func(path string) (*config.Config, error)

// RegistryLoaderFunc loads the registry snapshot the migration wrote for chainID.
type RegistryLoaderFunc func(path string, chainID uint64) (*registry.Registry, error)

// Deps holds the injectable dependencies of the approve-tokens command.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ConfigLoader loads the configuration.
	// Default: config.Load
	ConfigLoader ConfigLoaderFunc

	// EnvironmentLoader connects to the network.
	// Default: environment.Load
	EnvironmentLoader environment.LoaderFunc

	// RegistryLoader loads the deployed artifacts.
	// Default: registry.LoadForChain
	RegistryLoader RegistryLoaderFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = config.Load
	}
	if d.EnvironmentLoader == nil {
		d.EnvironmentLoader = environment.Load
	}
	if d.RegistryLoader == nil {
		d.RegistryLoader = registry.LoadForChain
	}
}
