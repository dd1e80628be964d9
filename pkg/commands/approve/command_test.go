package approve

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gnosis/dxctl/approval"
	"github.com/gnosis/dxctl/chain/evm"
	"github.com/gnosis/dxctl/chain/evm/mocks"
	"github.com/gnosis/dxctl/config"
	"github.com/gnosis/dxctl/network"
	"github.com/gnosis/dxctl/pkg/commands/environment"
	"github.com/gnosis/dxctl/pkg/logger"
	"github.com/gnosis/dxctl/registry"
)

var (
	operator  = &bind.TransactOpts{From: common.HexToAddress("0x00000000000000000000000000000000000000aa")}
	proxyAddr = common.HexToAddress("0x00000000000000000000000000000000000000d1")

	tokenA = common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	tokenB = common.HexToAddress("0x6810e776880C02933D47DB1b9fc05908e5386b96")
)

type testEnv struct {
	dir     string
	network network.ID
	tokens  string
}

func newTestEnv(t *testing.T, id network.ID, tokens string) testEnv {
	t.Helper()

	e := testEnv{dir: t.TempDir(), network: id, tokens: tokens}

	p, err := network.Select(id, network.Overrides{})
	require.NoError(t, err)

	reg := registry.NewForChain(p.ChainID.Uint64())
	require.NoError(t, reg.Register(approval.DefaultExchange, proxyAddr))
	require.NoError(t, reg.Save(filepath.Join(e.dir, "registry.json")))
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, "tokens.txt"), []byte(tokens), 0o600))

	return e
}

func (e testEnv) deps(t *testing.T, contracts evm.Contracts) *Deps {
	t.Helper()

	return &Deps{
		ConfigLoader: func(string) (*config.Config, error) {
			return &config.Config{Paths: config.PathsConfig{
				RegistryFile: filepath.Join(e.dir, "registry.json"),
				TokensFile:   filepath.Join(e.dir, "tokens.txt"),
			}}, nil
		},
		EnvironmentLoader: func(_ context.Context, cfg *config.Config, _ logger.Logger) (*environment.Environment, error) {
			id, err := network.ParseID(cfg.Network)
			require.NoError(t, err)
			if id == network.Local {
				id = e.network
			}

			p, err := network.Select(id, network.Overrides{})
			require.NoError(t, err)

			return environment.New(p, evm.Chain{}, operator, contracts, nil), nil
		},
	}
}

func execute(t *testing.T, deps *Deps, args ...string) (string, error) {
	t.Helper()

	cmd := NewCommand(Config{Logger: logger.Test(t), Deps: deps})

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func expectExchange(t *testing.T, tokens []common.Address, approved map[common.Address]bool) *mocks.MockContracts {
	t.Helper()

	contracts := mocks.NewMockContracts(t)
	contract := mocks.NewMockContract(t)

	contracts.EXPECT().At(proxyAddr).Return(contract)
	contract.EXPECT().Call(mock.Anything, approval.Auctioneer, []any{}, mock.Anything).
		RunAndReturn(func(_ context.Context, _ evm.Func, _ []any, returns ...any) error {
			*(returns[0].(*common.Address)) = operator.From
			return nil
		}).Once()
	contract.EXPECT().Transact(mock.Anything, operator, approval.UpdateApprovalOfToken, []any{tokens, true}).
		Return(evm.Confirmation{BlockNumber: 3}, nil).Once()
	contract.EXPECT().Call(mock.Anything, approval.ApprovedTokens, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ evm.Func, args []any, returns ...any) error {
			*(returns[0].(*bool)) = approved[args[0].(common.Address)]
			return nil
		}).Times(len(tokens))

	return contracts
}

func TestNewCommand_Structure(t *testing.T) {
	t.Parallel()

	cmd := NewCommand(Config{})

	assert.Equal(t, "approve-tokens", cmd.Use)
	for _, name := range []string{"config", "network", "tokens", "exchange"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, approval.DefaultExchange, cmd.Flags().Lookup("exchange").DefValue)
}

func TestApproveTokens(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, network.Mainnet, tokenA.Hex()+","+tokenB.Hex()+"\n")
	contracts := expectExchange(t, []common.Address{tokenA, tokenB}, map[common.Address]bool{tokenA: true, tokenB: true})

	out, err := execute(t, env.deps(t, contracts))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{tokenA.Hex() + " approved", tokenB.Hex() + " approved"}, lines)
}

func TestApproveTokens_NotApproved(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, network.Mainnet, tokenA.Hex()+"\n"+tokenB.Hex())
	contracts := expectExchange(t, []common.Address{tokenA, tokenB}, map[common.Address]bool{tokenA: true})

	out, err := execute(t, env.deps(t, contracts))
	require.ErrorContains(t, err, "1 of 2 token(s) not approved on mainnet")
	assert.Contains(t, out, tokenB.Hex()+" NOT approved")
}

func TestApproveTokens_TokensFlag(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, network.Mainnet, "not an address")

	other := filepath.Join(t.TempDir(), "other.txt")
	require.NoError(t, os.WriteFile(other, []byte(tokenB.Hex()), 0o600))

	contracts := expectExchange(t, []common.Address{tokenB}, map[common.Address]bool{tokenB: true})

	_, err := execute(t, env.deps(t, contracts), "--tokens", other)
	require.NoError(t, err)
}

func TestApproveTokens_RejectsMalformedBeforeAnyCall(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, network.Mainnet, tokenA.Hex()+",0xnope")
	contracts := mocks.NewMockContracts(t)

	_, err := execute(t, env.deps(t, contracts))
	require.ErrorIs(t, err, evm.ErrMalformedAddress)
	contracts.AssertNotCalled(t, "At", mock.Anything)
}

func TestApproveTokens_NetworkFlag(t *testing.T) {
	t.Parallel()

	// holesky takes the first five entries, the list has two
	env := newTestEnv(t, network.Holesky, tokenA.Hex()+","+tokenB.Hex())

	_, err := execute(t, env.deps(t, mocks.NewMockContracts(t)), "-n", "holesky")
	require.ErrorIs(t, err, network.ErrNetworkConfiguration)
}

func TestApproveTokens_MissingRegistry(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, network.Mainnet, tokenA.Hex())
	deps := env.deps(t, mocks.NewMockContracts(t))
	deps.ConfigLoader = func(string) (*config.Config, error) {
		return &config.Config{Paths: config.PathsConfig{
			RegistryFile: filepath.Join(t.TempDir(), "absent.json"),
			TokensFile:   filepath.Join(env.dir, "tokens.txt"),
		}}, nil
	}

	_, err := execute(t, deps)
	require.ErrorContains(t, err, "load registry")
}

func TestApproveTokens_RegistryOfAnotherChain(t *testing.T) {
	t.Parallel()

	// the registry was written by a migration on mainnet
	env := newTestEnv(t, network.Mainnet, tokenA.Hex())
	contracts := mocks.NewMockContracts(t)

	_, err := execute(t, env.deps(t, contracts), "-n", "sepolia")
	require.ErrorIs(t, err, registry.ErrChainMismatch)
	contracts.AssertNotCalled(t, "At", mock.Anything)
}
