package operations

import (
	"context"
	"fmt"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/gnosis/dxctl/pkg/logger"
)

// addressBook stands in for a chain: it knows where each contract gets deployed.
type addressBook map[string]common.Address

type deployInput struct {
	ChainID  uint64 `json:"chainId"`
	Step     string `json:"step"`
	Contract string `json:"contract"`
}

var (
	mathAddr   = common.HexToAddress("0x00000000000000000000000000000000000000c3")
	testBook   = addressBook{"Math": mathAddr}
	deployMath = deployInput{ChainID: 1337, Step: "deploy-Math", Contract: "Math"}
)

func deployFromBook(_ Bundle, book addressBook, input deployInput) (common.Address, error) {
	addr, ok := book[input.Contract]
	if !ok {
		return common.Address{}, fmt.Errorf("no artifact for %s", input.Contract)
	}

	return addr, nil
}

func Test_NewOperation(t *testing.T) {
	t.Parallel()

	version := semver.MustParse("1.0.0")
	description := "deploys a contract"

	op := NewOperation("deploy-contract", version, description, deployFromBook)

	assert.Equal(t, "deploy-contract", op.ID())
	assert.Equal(t, version.String(), op.Version())
	assert.Equal(t, description, op.Description())
	assert.Equal(t, op.def, op.Def())
	res, err := op.handler(Bundle{}, testBook, deployMath)
	require.NoError(t, err)
	assert.Equal(t, mathAddr, res)

	assert.Panics(t, func() { NewOperation("deploy-contract", nil, description, deployFromBook) })
}

func Test_Operation_Execute(t *testing.T) {
	t.Parallel()

	log, observedLog := logger.TestObserved(t, zapcore.InfoLevel)

	op := NewOperation("deploy-contract", semver.MustParse("1.0.0"), "deploys a contract", deployFromBook)
	e := NewBundle(context.Background, log, nil)

	output, err := op.execute(e, testBook, deployMath)
	require.NoError(t, err)
	assert.Equal(t, mathAddr, output)

	_, err = op.execute(e, testBook, deployInput{Step: "deploy-Medianizer", Contract: "Medianizer"})
	require.ErrorContains(t, err, "no artifact for Medianizer")

	require.Equal(t, 2, observedLog.Len())
	entry := observedLog.All()[0]
	assert.Equal(t, "Executing operation", entry.Message)
	assert.Equal(t, "deploy-contract", entry.ContextMap()["id"])
	assert.NotNil(t, e.Reporter(), "a memory reporter is used by default")
}
