package dutchx

import (
	"context"
	"math/big"
	"slices"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gnosis/dxctl/chain/evm"
	"github.com/gnosis/dxctl/chain/evm/mocks"
	"github.com/gnosis/dxctl/pipeline"
	"github.com/gnosis/dxctl/pkg/logger"
	"github.com/gnosis/dxctl/registry"
)

func stepIDs(steps []pipeline.Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}

	return ids
}

func TestPlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		opts          Options
		wantSteps     int
		wantConsumers []string
		wantProxy     string
	}{
		{
			name:      "default",
			wantSteps: 16,
			wantConsumers: []string{
				DutchExchange, StandardToken, EtherToken, TokenGNO, TokenMGN, TokenOWL, TokenOWLProxy, OWLAirdrop,
			},
			wantProxy: "Proxy",
		},
		{
			name:      "with test tokens and a dedicated proxy contract",
			opts:      Options{TestTokens: true, ProxyContract: "DutchExchangeProxy"},
			wantSteps: 18,
			wantConsumers: []string{
				DutchExchange, StandardToken, EtherToken, TokenGNO, TokenMGN, TokenOWL, TokenOWLProxy, OWLAirdrop,
				TokenOMG, TokenRDN,
			},
			wantProxy: "DutchExchangeProxy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			steps := Plan(tt.opts)
			require.Len(t, steps, tt.wantSteps)

			ids := stepIDs(steps)
			assert.Equal(t, "deploy-Math", ids[0])
			assert.Equal(t, "link-Math", ids[1])
			assert.Equal(t, tt.wantConsumers, steps[1].Consumers)
			assert.Equal(t, "call-TokenMGN-updateMinter(address)", ids[len(ids)-1])
			assert.Equal(t, tt.opts.TestTokens, slices.Contains(ids, "deploy-TokenOMG"))
			assert.Equal(t, tt.opts.TestTokens, slices.Contains(ids, "deploy-TokenRDN"))

			proxy := steps[slices.Index(ids, "deploy-DutchExchangeProxy")]
			assert.Equal(t, tt.wantProxy, proxy.Contract)
			assert.Equal(t, []any{pipeline.Ref(DutchExchange)}, proxy.Args)
		})
	}
}

func TestPlan_DependenciesPrecedeUse(t *testing.T) {
	t.Parallel()

	steps := Plan(Options{TestTokens: true})

	assert.Len(t, slices.Compact(slices.Sorted(slices.Values(stepIDs(steps)))), len(steps), "step ids are unique")

	seen := make(map[string]bool)
	for i, s := range steps {
		for _, dep := range s.Dependencies() {
			assert.True(t, seen[dep], "step %d (%s) depends on %s before it is deployed", i, s.ID, dep)
		}
		for _, consumer := range s.Consumers {
			assert.False(t, seen[consumer], "step %d links into %s after it is deployed", i, consumer)
		}
		if s.Kind == pipeline.KindDeploy {
			seen[s.Name] = true
		}
	}
}

func TestPlan_Amounts(t *testing.T) {
	t.Parallel()

	e18 := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	mul := func(n int64) *big.Int { return new(big.Int).Mul(big.NewInt(n), e18) }

	assert.Equal(t, mul(100000), InitialGNOSupply)
	assert.Equal(t, mul(1100), ETHUSDPrice)
	assert.Equal(t, mul(10000), ThresholdNewTokenPair)
	assert.Equal(t, mul(1000), ThresholdNewAuction)
	assert.Equal(t, uint32(3032337676), PriceExpiry)
}

type call struct {
	target common.Address
	fn     evm.Func
	args   []any
}

type deployment struct {
	contract  string
	libraries map[string]common.Address
	args      []any
}

func TestPlan_Run(t *testing.T) {
	t.Parallel()

	operator := &bind.TransactOpts{From: common.HexToAddress("0x00000000000000000000000000000000000000aa")}

	var (
		deployed = make(map[string]deployment)
		byName   = make(map[string]common.Address)
		calls    []call
		target   common.Address
	)

	contracts := mocks.NewMockContracts(t)
	contract := mocks.NewMockContract(t)

	contracts.EXPECT().Deploy(mock.Anything, mock.Anything, mock.Anything, operator, mock.Anything).
		RunAndReturn(func(
			_ context.Context, name string, libs map[string]common.Address, _ *bind.TransactOpts, args ...any,
		) (common.Address, error) {
			addr := common.BigToAddress(big.NewInt(int64(0x100 + len(deployed))))
			deployed[name] = deployment{contract: name, libraries: libs, args: args}
			byName[name] = addr

			return addr, nil
		})
	contracts.EXPECT().At(mock.Anything).RunAndReturn(func(addr common.Address) evm.Contract {
		target = addr
		return contract
	})
	contract.EXPECT().Transact(mock.Anything, operator, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ *bind.TransactOpts, fn evm.Func, args ...any) (evm.Confirmation, error) {
			calls = append(calls, call{target: target, fn: fn, args: args})
			return evm.Confirmation{BlockNumber: uint64(len(calls))}, nil
		})

	reg := registry.New()
	p, err := pipeline.New(pipeline.Config{
		Registry:  reg,
		Contracts: contracts,
		Operator:  operator,
		Logger:    logger.Test(t),
	})
	require.NoError(t, err)

	require.NoError(t, p.Run(t.Context(), Plan(Options{})))

	// every linked consumer that is deployed gets Math
	for _, name := range []string{DutchExchange, EtherToken, TokenGNO, TokenMGN, TokenOWL, TokenOWLProxy} {
		assert.Equal(t, map[string]common.Address{Math: byName[Math]}, deployed[name].libraries, name)
	}
	assert.Empty(t, deployed[PriceFeed].libraries)

	assert.Equal(t, []any{InitialGNOSupply}, deployed[TokenGNO].args)
	assert.Equal(t, []any{operator.From}, deployed[TokenMGN].args)
	assert.Equal(t, []any{byName[TokenOWL]}, deployed[TokenOWLProxy].args)
	assert.Equal(t, []any{operator.From, byName[Medianizer]}, deployed[PriceOracleInterface].args)
	assert.Equal(t, []any{byName[DutchExchange]}, deployed[ProxyContract].args)

	proxyAddr, err := reg.Resolve(DutchExchangeProxy)
	require.NoError(t, err)
	assert.Equal(t, byName[ProxyContract], proxyAddr)

	require.Len(t, calls, 4)
	assert.Equal(t, call{target: byName[Medianizer], fn: MedianizerSet, args: []any{byName[PriceFeed]}}, calls[0])
	assert.Equal(t, call{
		target: byName[PriceFeed], fn: PriceFeedPost,
		args: []any{ETHUSDPrice, PriceExpiry, byName[Medianizer]},
	}, calls[1])
	assert.Equal(t, call{
		target: proxyAddr, fn: SetupDutchExchange,
		args: []any{
			byName[TokenMGN], byName[TokenOWLProxy], operator.From, byName[EtherToken],
			byName[PriceOracleInterface], ThresholdNewTokenPair, ThresholdNewAuction,
		},
	}, calls[2])
	assert.Equal(t, call{target: byName[TokenMGN], fn: UpdateMinter, args: []any{proxyAddr}}, calls[3])

	assert.Len(t, reg.List(), 11)
}
