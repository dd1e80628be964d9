// Package migrate provides the CLI command deploying and configuring the DutchX contracts.
package migrate

import (
	"github.com/gnosis/dxctl/config"
	"github.com/gnosis/dxctl/operations"
	"github.com/gnosis/dxctl/pkg/commands/environment"
	"github.com/gnosis/dxctl/registry"
)

// ConfigLoaderFunc loads the configuration from a file path.
type ConfigLoaderFunc func(path string) (*config.Config, error)

// ReporterLoaderFunc opens the reporter step reports are recorded in.
type ReporterLoaderFunc func(path string) (operations.Reporter, error)

// RegistrySaverFunc persists the registry snapshot.
type RegistrySaverFunc func(reg *registry.Registry, path string) error

func defaultReporterLoader(path string) (operations.Reporter, error) {
	return operations.NewFileReporter(path)
}

func defaultRegistrySaver(reg *registry.Registry, path string) error {
	return reg.Save(path)
}

// Deps holds the injectable dependencies of the migrate command.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ConfigLoader loads the configuration.
	// Default: config.Load
	ConfigLoader ConfigLoaderFunc

	// EnvironmentLoader connects to the network.
	// Default: environment.Load
	EnvironmentLoader environment.LoaderFunc

	// ReporterLoader opens the step reports of previous runs.
	// Default: operations.NewFileReporter
	ReporterLoader ReporterLoaderFunc

	// RegistrySaver writes the deployed artifacts.
	// Default: registry.Save
	RegistrySaver RegistrySaverFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = config.Load
	}
	if d.EnvironmentLoader == nil {
		d.EnvironmentLoader = environment.Load
	}
	if d.ReporterLoader == nil {
		d.ReporterLoader = defaultReporterLoader
	}
	if d.RegistrySaver == nil {
		d.RegistrySaver = defaultRegistrySaver
	}
}
