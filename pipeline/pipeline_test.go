package pipeline

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gnosis/dxctl/caller"
	"github.com/gnosis/dxctl/chain/evm"
	"github.com/gnosis/dxctl/chain/evm/mocks"
	"github.com/gnosis/dxctl/operations"
	"github.com/gnosis/dxctl/pkg/logger"
	"github.com/gnosis/dxctl/registry"
)

var (
	addrA    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	addrB    = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	addrMath = common.HexToAddress("0x00000000000000000000000000000000000000c3")

	testOperator = &bind.TransactOpts{From: common.HexToAddress("0x0000000000000000000000000000000000000001")}

	setFn = evm.MustNewFunc("set(address,address,uint256)", "")
)

func newPipeline(t *testing.T, contracts evm.Contracts, reg *registry.Registry, reporter operations.Reporter) *Pipeline {
	t.Helper()

	p, err := New(Config{
		Registry:  reg,
		Contracts: contracts,
		Operator:  testOperator,
		Reporter:  reporter,
		Logger:    logger.Test(t),
	})
	require.NoError(t, err)

	return p
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Contracts: mocks.NewMockContracts(t)})
	require.ErrorContains(t, err, "registry is required")

	_, err = New(Config{Registry: registry.New()})
	require.ErrorContains(t, err, "contracts backend is required")

	_, err = New(Config{Registry: registry.NewForChain(1337), Contracts: mocks.NewMockContracts(t), ChainID: 1})
	require.ErrorIs(t, err, registry.ErrChainMismatch)
}

func TestPipeline_Run_LateBindingAndUnresolvedDependency(t *testing.T) {
	t.Parallel()

	contracts := mocks.NewMockContracts(t)
	contracts.EXPECT().Deploy(mock.Anything, "A", mock.Anything, testOperator, []any{}).
		Return(addrA, nil).Once()
	contracts.EXPECT().Deploy(mock.Anything, "B", mock.Anything, testOperator, []any{addrA}).
		Return(addrB, nil).Once()

	reg := registry.New()
	p := newPipeline(t, contracts, reg, nil)

	err := p.Run(t.Context(), []Step{
		Deploy("A"),
		Deploy("B", Ref("A")),
		Deploy("C", Ref("D")),
	})

	require.ErrorIs(t, err, registry.ErrUnresolvedDependency)
	require.ErrorContains(t, err, "D")

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 2, stepErr.Index)
	assert.Equal(t, "deploy-C", stepErr.ID)
	assert.Equal(t, KindDeploy, stepErr.Kind)

	got, err := reg.Resolve("A")
	require.NoError(t, err)
	assert.Equal(t, addrA, got)
	assert.NotEqual(t, common.Address{}, got)

	got, err = reg.Resolve("B")
	require.NoError(t, err)
	assert.Equal(t, addrB, got)

	contracts.AssertNotCalled(t, "Deploy", mock.Anything, "C", mock.Anything, mock.Anything, mock.Anything)
	assert.False(t, reg.Has("C"))
}

func TestPipeline_Run_Link(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		giveSteps  []Step
		beforeFunc func(*mocks.MockContracts)
		wantErrIs  error
		wantErr    string
	}{
		{
			name: "library is linked into later deployments",
			giveSteps: []Step{
				Deploy("Math"),
				Link("Math", "TokenGNO"),
				Deploy("TokenGNO", big.NewInt(100)),
				Deploy("Other"),
			},
			beforeFunc: func(c *mocks.MockContracts) {
				c.EXPECT().Deploy(mock.Anything, "Math", map[string]common.Address(nil), testOperator, []any{}).
					Return(addrMath, nil).Once()
				c.EXPECT().Deploy(mock.Anything, "TokenGNO", map[string]common.Address{"Math": addrMath}, testOperator, []any{big.NewInt(100)}).
					Return(addrA, nil).Once()
				c.EXPECT().Deploy(mock.Anything, "Other", map[string]common.Address(nil), testOperator, []any{}).
					Return(addrB, nil).Once()
			},
		},
		{
			name: "linking into a deployed consumer is rejected",
			giveSteps: []Step{
				Deploy("Math"),
				Deploy("TokenGNO"),
				Link("Math", "TokenGNO"),
			},
			beforeFunc: func(c *mocks.MockContracts) {
				c.EXPECT().Deploy(mock.Anything, "Math", mock.Anything, testOperator, []any{}).Return(addrMath, nil).Once()
				c.EXPECT().Deploy(mock.Anything, "TokenGNO", mock.Anything, testOperator, []any{}).Return(addrA, nil).Once()
			},
			wantErrIs: ErrLinkOrderViolation,
		},
		{
			name: "consumer deployed under another artifact name is rejected",
			giveSteps: []Step{
				Deploy("Math"),
				DeployContract("DutchExchangeProxy", "Proxy"),
				Link("Math", "Proxy"),
			},
			beforeFunc: func(c *mocks.MockContracts) {
				c.EXPECT().Deploy(mock.Anything, "Math", mock.Anything, testOperator, []any{}).Return(addrMath, nil).Once()
				c.EXPECT().Deploy(mock.Anything, "Proxy", mock.Anything, testOperator, []any{}).Return(addrA, nil).Once()
			},
			wantErrIs: ErrLinkOrderViolation,
		},
		{
			name: "library is linked by contract name into an aliased deployment",
			giveSteps: []Step{
				Deploy("Math"),
				Link("Math", "Proxy"),
				DeployContract("DutchExchangeProxy", "Proxy"),
			},
			beforeFunc: func(c *mocks.MockContracts) {
				c.EXPECT().Deploy(mock.Anything, "Math", mock.Anything, testOperator, []any{}).Return(addrMath, nil).Once()
				c.EXPECT().Deploy(mock.Anything, "Proxy", map[string]common.Address{"Math": addrMath}, testOperator, []any{}).
					Return(addrA, nil).Once()
			},
		},
		{
			name:      "linking an unknown library",
			giveSteps: []Step{Link("Math", "TokenGNO")},
			wantErrIs: registry.ErrUnresolvedDependency,
		},
		{
			name: "linking without consumers",
			giveSteps: []Step{
				Deploy("Math"),
				Link("Math"),
			},
			beforeFunc: func(c *mocks.MockContracts) {
				c.EXPECT().Deploy(mock.Anything, "Math", mock.Anything, testOperator, []any{}).Return(addrMath, nil).Once()
			},
			wantErr: "has no consumers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			contracts := mocks.NewMockContracts(t)
			if tt.beforeFunc != nil {
				tt.beforeFunc(contracts)
			}

			err := newPipeline(t, contracts, registry.New(), nil).Run(t.Context(), tt.giveSteps)
			switch {
			case tt.wantErrIs != nil:
				require.ErrorIs(t, err, tt.wantErrIs)
			case tt.wantErr != "":
				require.ErrorContains(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestPipeline_Run_Call(t *testing.T) {
	t.Parallel()

	contracts := mocks.NewMockContracts(t)
	medianizer := mocks.NewMockContract(t)

	contracts.EXPECT().Deploy(mock.Anything, "Medianizer", mock.Anything, testOperator, []any{}).Return(addrA, nil).Once()
	contracts.EXPECT().Deploy(mock.Anything, "PriceFeed", mock.Anything, testOperator, []any{}).Return(addrB, nil).Once()
	contracts.EXPECT().At(addrA).Return(medianizer).Once()
	medianizer.EXPECT().Transact(mock.Anything, testOperator, setFn, []any{addrB, testOperator.From, big.NewInt(5)}).
		Return(evm.Confirmation{BlockNumber: 3}, nil).Once()

	reg := registry.New()
	err := newPipeline(t, contracts, reg, nil).Run(t.Context(), []Step{
		Deploy("Medianizer"),
		Deploy("PriceFeed"),
		Call("Medianizer", setFn, Ref("PriceFeed"), Operator(), 5).WithID("medianizer-set"),
	})
	require.NoError(t, err)
}

func TestPipeline_Run_CallUnknownTarget(t *testing.T) {
	t.Parallel()

	contracts := mocks.NewMockContracts(t)

	err := newPipeline(t, contracts, registry.New(), nil).Run(t.Context(), []Step{
		Call("Medianizer", setFn, Ref("PriceFeed"), Operator(), 5),
	})
	require.ErrorIs(t, err, registry.ErrUnresolvedDependency)
	contracts.AssertNotCalled(t, "At", mock.Anything)
}

func TestPipeline_Run_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		giveSteps  []Step
		giveNoOp   bool
		beforeFunc func(*mocks.MockContracts)
		wantIndex  int
		wantErrIs  error
		wantErr    string
	}{
		{
			name:      "duplicate artifact",
			giveSteps: []Step{Deploy("A"), Deploy("A")},
			beforeFunc: func(c *mocks.MockContracts) {
				c.EXPECT().Deploy(mock.Anything, "A", mock.Anything, testOperator, []any{}).Return(addrA, nil).Once()
			},
			wantIndex: 1,
			wantErrIs: registry.ErrDuplicateArtifact,
		},
		{
			name:      "deploy failure halts the run",
			giveSteps: []Step{Deploy("A"), Deploy("B"), Deploy("C")},
			beforeFunc: func(c *mocks.MockContracts) {
				c.EXPECT().Deploy(mock.Anything, "A", mock.Anything, testOperator, []any{}).Return(addrA, nil).Once()
				c.EXPECT().Deploy(mock.Anything, "B", mock.Anything, testOperator, []any{}).
					Return(common.Address{}, assert.AnError).Once()
			},
			wantIndex: 1,
			wantErrIs: assert.AnError,
		},
		{
			name:      "float constructor argument",
			giveSteps: []Step{Deploy("TokenGNO", 100000e18)},
			wantIndex: 0,
			wantErrIs: caller.ErrLossyNumeric,
		},
		{
			name:      "missing operator",
			giveSteps: []Step{Deploy("A")},
			giveNoOp:  true,
			wantIndex: 0,
			wantErrIs: caller.ErrMissingOperator,
		},
		{
			name:      "missing explicit dependency",
			giveSteps: []Step{Deploy("A").DependsOn("Math")},
			wantIndex: 0,
			wantErrIs: registry.ErrUnresolvedDependency,
		},
		{
			name:      "call without method",
			giveSteps: []Step{{ID: "broken", Kind: KindCall, Name: "A"}},
			wantIndex: 0,
			wantErr:   "has no method",
		},
		{
			name:      "unknown kind",
			giveSteps: []Step{{ID: "broken", Kind: Kind(42)}},
			wantIndex: 0,
			wantErr:   "unknown step kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			contracts := mocks.NewMockContracts(t)
			if tt.beforeFunc != nil {
				tt.beforeFunc(contracts)
			}

			cfg := Config{Registry: registry.New(), Contracts: contracts, Operator: testOperator}
			if tt.giveNoOp {
				cfg.Operator = nil
			}
			p, err := New(cfg)
			require.NoError(t, err)

			err = p.Run(t.Context(), tt.giveSteps)

			var stepErr *StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, tt.wantIndex, stepErr.Index)
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
			}
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestPipeline_Run_ResumesFromReports(t *testing.T) {
	t.Parallel()

	steps := []Step{
		Deploy("Math"),
		Link("Math", "TokenGNO"),
		Deploy("TokenGNO", big.NewInt(1)),
		Deploy("Medianizer"),
	}

	reporter := operations.NewMemoryReporter()

	first := mocks.NewMockContracts(t)
	first.EXPECT().Deploy(mock.Anything, "Math", mock.Anything, testOperator, mock.Anything).Return(addrMath, nil).Once()
	first.EXPECT().Deploy(mock.Anything, "TokenGNO", mock.Anything, testOperator, mock.Anything).Return(addrA, nil).Once()
	first.EXPECT().Deploy(mock.Anything, "Medianizer", mock.Anything, testOperator, mock.Anything).
		Return(common.Address{}, errors.New("out of gas")).Once()

	err := newPipeline(t, first, registry.New(), reporter).Run(t.Context(), steps)
	require.ErrorContains(t, err, "out of gas")

	second := mocks.NewMockContracts(t)
	second.EXPECT().Deploy(mock.Anything, "Medianizer", mock.Anything, testOperator, mock.Anything).Return(addrB, nil).Once()

	reg := registry.New()
	require.NoError(t, newPipeline(t, second, reg, reporter).Run(t.Context(), steps))

	assert.Equal(t, []registry.Binding{
		{Name: "Math", Address: addrMath},
		{Name: "TokenGNO", Address: addrA},
		{Name: "Medianizer", Address: addrB},
	}, reg.List())

	forced := mocks.NewMockContracts(t)
	forced.EXPECT().Deploy(mock.Anything, mock.Anything, mock.Anything, testOperator, mock.Anything).Return(addrB, nil).Times(3)

	p, err := New(Config{
		Registry: registry.New(), Contracts: forced, Operator: testOperator, Reporter: reporter, Force: true,
	})
	require.NoError(t, err)
	require.NoError(t, p.Run(context.Background(), steps))
}

func TestPipeline_Run_ReportsAreScopedToTheChain(t *testing.T) {
	t.Parallel()

	reportsPath := filepath.Join(t.TempDir(), "reports.json")
	steps := []Step{
		Deploy("Math"),
		Link("Math", "TokenGNO"),
		Deploy("TokenGNO"),
	}

	run := func(chainID uint64, contracts evm.Contracts) *registry.Registry {
		t.Helper()

		reporter, err := operations.NewFileReporter(reportsPath)
		require.NoError(t, err)

		reg := registry.NewForChain(chainID)
		p, err := New(Config{
			Registry:  reg,
			Contracts: contracts,
			Operator:  testOperator,
			Reporter:  reporter,
			Logger:    logger.Test(t),
		})
		require.NoError(t, err)
		require.NoError(t, p.Run(t.Context(), steps))

		return reg
	}

	local := mocks.NewMockContracts(t)
	local.EXPECT().Deploy(mock.Anything, "Math", mock.Anything, testOperator, []any{}).Return(addrMath, nil).Once()
	local.EXPECT().Deploy(mock.Anything, "TokenGNO", mock.Anything, testOperator, []any{}).Return(addrA, nil).Once()
	run(1337, local)

	// same operator, same reports file, another chain: everything is deployed again
	mainnetMath := common.HexToAddress("0x00000000000000000000000000000000000000d4")
	mainnet := mocks.NewMockContracts(t)
	mainnet.EXPECT().Deploy(mock.Anything, "Math", mock.Anything, testOperator, []any{}).Return(mainnetMath, nil).Once()
	mainnet.EXPECT().Deploy(mock.Anything, "TokenGNO", map[string]common.Address{"Math": mainnetMath}, testOperator, []any{}).
		Return(addrB, nil).Once()
	reg := run(1, mainnet)

	assert.Equal(t, []registry.Binding{
		{Name: "Math", Address: mainnetMath},
		{Name: "TokenGNO", Address: addrB},
	}, reg.List())

	// the first chain still resumes from its own reports
	resumed := mocks.NewMockContracts(t)
	reg = run(1337, resumed)
	assert.Equal(t, []registry.Binding{
		{Name: "Math", Address: addrMath},
		{Name: "TokenGNO", Address: addrA},
	}, reg.List())
}
