package approve

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnosis/dxctl/approval"
	"github.com/gnosis/dxctl/caller"
	"github.com/gnosis/dxctl/pkg/logger"
)

// Config configures the approve-tokens command.
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
	configPath string
	network    string
	tokensFile string
	exchange   string
}

// NewCommand creates the approve-tokens command.
func NewCommand(cfg Config) *cobra.Command {
	cfg.deps()

	var f flags

	cmd := &cobra.Command{
		Use:   "approve-tokens",
		Short: "Approve a batch of tokens on the exchange",
		Long: `Approves a batch of tokens on the exchange in a single call and reads back their status.

Which tokens are approved depends on the network: mainnet approves every address of the tokens
file, sepolia the test tokens deployed by the migration and the other networks a range of the
tokens file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg, f)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "dxctl.yaml", "Path to the config file")
	cmd.Flags().StringVarP(&f.network, "network", "n", "", "Network profile, overrides the config")
	cmd.Flags().StringVarP(&f.tokensFile, "tokens", "t", "", "Token address list, overrides the config")
	cmd.Flags().StringVar(&f.exchange, "exchange", approval.DefaultExchange, "Artifact the approval is sent to")

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
	if f.tokensFile != "" {
		conf.Paths.TokensFile = f.tokensFile
	}

	env, err := cfg.Deps.EnvironmentLoader(ctx, conf, cfg.Logger)
	if err != nil {
		return err
	}
	defer env.Close()

	reg, err := cfg.Deps.RegistryLoader(conf.Paths.RegistryFile, env.ChainID())
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	w, err := approval.New(approval.Config{
		Profile:  env.Profile,
		Registry: reg,
		Caller:   caller.New(env.Contracts, reg, cfg.Logger),
		Source:   approval.FileSource{Path: conf.Paths.TokensFile},
		Operator: env.Operator,
		Exchange: f.exchange,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return err
	}

	batch, err := w.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	notApproved := 0
	for _, s := range batch.Statuses {
		status := "approved"
		if !s.Approved {
			status = "NOT approved"
			notApproved++
		}
		fmt.Fprintf(out, "%s %s\n", s.Address.Hex(), status)
	}

	if notApproved > 0 {
		return fmt.Errorf("%d of %d token(s) not approved on %s", notApproved, len(batch.Tokens), batch.Network)
	}

	return nil
}
