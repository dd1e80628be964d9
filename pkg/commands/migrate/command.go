package migrate

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnosis/dxctl/dutchx"
	"github.com/gnosis/dxctl/pipeline"
	"github.com/gnosis/dxctl/pkg/logger"
	"github.com/gnosis/dxctl/registry"
)

// Config configures the migrate command.
type Config struct {
	Logger logger.Logger
	// Deps are optional; nil uses the production defaults.
	Deps *Deps
}

func (c *Config) deps() {
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	if c.Deps == nil {
		c.Deps = &Deps{}
	}
	c.Deps.applyDefaults()
}

type flags struct {
	configPath    string
	network       string
	reset         bool
	testTokens    bool
	proxyContract string
}

// NewCommand creates the migrate command.
//
// Usage:
//
//	rootCmd.AddCommand(migrate.NewCommand(migrate.Config{Logger: lggr}))
func NewCommand(cfg Config) *cobra.Command {
	cfg.deps()

	var f flags

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Deploy and configure the DutchX contracts",
		Long: `Deploys the DutchX contracts in dependency order and configures them.

Every step is recorded in the reports file. Running the command again resumes after the last
successful step instead of deploying again, unless --reset is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg, f)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "dxctl.yaml", "Path to the config file")
	cmd.Flags().StringVarP(&f.network, "network", "n", "", "Network profile, overrides the config")
	cmd.Flags().BoolVar(&f.reset, "reset", false, "Run every step again even if a previous run completed it")
	cmd.Flags().BoolVar(&f.testTokens, "test-tokens", false, "Deploy the test tokens, overrides the network profile")
	cmd.Flags().StringVar(&f.proxyContract, "proxy-contract", dutchx.ProxyContract, "Contract deployed as DutchExchangeProxy")

	return cmd
}

func run(cmd *cobra.Command, cfg Config, f flags) error {
	ctx := cmd.Context()

	conf, err := cfg.Deps.ConfigLoader(f.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if f.network != "" {
		conf.Network = f.network
	}

	env, err := cfg.Deps.EnvironmentLoader(ctx, conf, cfg.Logger)
	if err != nil {
		return err
	}
	defer env.Close()

	reporter, err := cfg.Deps.ReporterLoader(conf.Paths.ReportsFile)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	opts := dutchx.Options{
		TestTokens:    env.Profile.DeployTestTokens,
		ProxyContract: f.proxyContract,
	}
	if cmd.Flags().Changed("test-tokens") {
		opts.TestTokens = f.testTokens
	}

	reg := registry.NewForChain(env.ChainID())
	p, err := pipeline.New(pipeline.Config{
		Registry:  reg,
		ChainID:   env.ChainID(),
		Contracts: env.Contracts,
		Operator:  env.Operator,
		Reporter:  reporter,
		Force:     f.reset,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return err
	}

	cfg.Logger.Infow("Starting migration",
		"network", env.Profile.ID, "chainID", env.ChainID(), "testTokens", opts.TestTokens, "reset", f.reset)

	runErr := p.Run(ctx, dutchx.Plan(opts))

	// The partial registry of a failed run is saved too.
	if err := cfg.Deps.RegistrySaver(reg, conf.Paths.RegistryFile); err != nil {
		return errors.Join(runErr, fmt.Errorf("save registry: %w", err))
	}
	if runErr != nil {
		return runErr
	}

	printArtifacts(cmd.OutOrStdout(), reg)

	return nil
}

func printArtifacts(w io.Writer, reg *registry.Registry) {
	for _, a := range reg.Artifacts() {
		fmt.Fprintf(w, "%-22s %s\n", a.Name, a.Address.Hex())
	}
}
