// Package config loads the dxctl configuration from an optional YAML file and the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/spf13/viper"

	"github.com/gnosis/dxctl/network"
)

// Config is the configuration of a dxctl run.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type Config struct {
	Network  string `mapstructure:"network" yaml:"network"`   // The network profile, local when empty
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"` // Overrides the endpoint of the profile
	// Secret: hex private keys of the available identities. The first key is the deployer.
	OperatorKeys  []string `mapstructure:"operator_keys" yaml:"operator_keys"`
	OperatorIndex *int     `mapstructure:"operator_index" yaml:"operator_index,omitempty"` // Overrides the operator of the profile

	Paths PathsConfig `mapstructure:"paths" yaml:"paths"`

	WaitMinedTimeout time.Duration `mapstructure:"wait_mined_timeout" yaml:"wait_mined_timeout"`
}

// PathsConfig holds the locations dxctl reads from and writes to.
type PathsConfig struct {
	BuildDir     string `mapstructure:"build_dir" yaml:"build_dir"`         // Directory of the compiled contract artifacts
	RegistryFile string `mapstructure:"registry_file" yaml:"registry_file"` // Snapshot of the deployed artifacts
	ReportsFile  string `mapstructure:"reports_file" yaml:"reports_file"`   // Step reports used to resume a migration
	TokensFile   string `mapstructure:"tokens_file" yaml:"tokens_file"`     // Token addresses to approve
	NetworksFile string `mapstructure:"networks_file" yaml:"networks_file"` // Per network overrides
}

var defaults = map[string]any{
	"network":             string(network.Local),
	"paths.build_dir":     "build/contracts",
	"paths.registry_file": "build/registry.json",
	"paths.reports_file":  "build/reports.json",
	"paths.tokens_file":   "tokens.txt",
	"paths.networks_file": "networks.yaml",
	"wait_mined_timeout":  2 * time.Minute,
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v := newViper()

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	bindEnvs(v)

	return v
}

// envBindings maps config keys to the environment variables that can provide them. The first
// name is preferred, later names are legacy ones still honoured.
var envBindings = map[string][]string{
	"network":             {"DX_NETWORK", "NETWORK"},
	"endpoint":            {"DX_ENDPOINT"},
	"operator_keys":       {"DX_OPERATOR_KEYS", "PRIVATE_KEY"},
	"operator_index":      {"DX_OPERATOR_INDEX"},
	"paths.build_dir":     {"DX_BUILD_DIR"},
	"paths.registry_file": {"DX_REGISTRY_FILE"},
	"paths.reports_file":  {"DX_REPORTS_FILE"},
	"paths.tokens_file":   {"DX_TOKENS_FILE"},
	"paths.networks_file": {"DX_NETWORKS_FILE"},
	"wait_mined_timeout":  {"DX_WAIT_MINED_TIMEOUT"},
}

func bindEnvs(v *viper.Viper) {
	for key, envs := range envBindings {
		// BindEnv only fails without a key.
		_ = v.BindEnv(slices.Insert(slices.Clone(envs), 0, key)...)
	}
}
