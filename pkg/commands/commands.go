// Package commands provides the dxctl CLI commands.
//
// There are two ways to use commands from this package:
//
// 1. Via the Commands factory (recommended for most use cases):
//
//	cmds := commands.New(lggr)
//	root := cmds.Root("v1.0.0")
//
// 2. Via direct package imports (for advanced DI/testing):
//
//	import "github.com/gnosis/dxctl/pkg/commands/migrate"
//
//	app.AddCommand(migrate.NewCommand(migrate.Config{
//	    Logger: lggr,
//	    Deps:   &migrate.Deps{...},  // inject mocks for testing
//	}))
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnosis/dxctl/pkg/commands/approve"
	"github.com/gnosis/dxctl/pkg/commands/migrate"
	"github.com/gnosis/dxctl/pkg/logger"
)

// Commands provides a factory for creating CLI commands with shared configuration.
// This allows setting the logger once and reusing it across all commands.
type Commands struct {
	lggr logger.Logger
}

// New creates a new Commands factory with the given logger.
// The logger will be shared across all commands created by this factory.
func New(lggr logger.Logger) *Commands {
	return &Commands{lggr: lggr}
}

// Migrate creates the command deploying and configuring the contracts.
func (c *Commands) Migrate() *cobra.Command {
	return migrate.NewCommand(migrate.Config{Logger: c.lggr})
}

// ApproveTokens creates the command approving tokens on the exchange.
func (c *Commands) ApproveTokens() *cobra.Command {
	return approve.NewCommand(approve.Config{Logger: c.lggr})
}

// Root creates the dxctl root command with every subcommand attached.
func (c *Commands) Root(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "dxctl",
		Short: "Deploy the DutchX contracts and manage token approvals",
		Long: `dxctl deploys the DutchX contracts in dependency order and approves tokens on the exchange.

Configuration (in order of priority):
  1. Command-line flags (--network, --tokens)
  2. Environment variables (DX_NETWORK, DX_ENDPOINT, DX_OPERATOR_KEYS, ...)
  3. Config file (dxctl.yaml)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		c.Migrate(),
		c.ApproveTokens(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "dxctl version %s\n", version)
			},
		},
	)

	return root
}
