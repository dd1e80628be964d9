package pipeline

import (
	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/gnosis/dxctl/caller"
	"github.com/gnosis/dxctl/chain/evm"
	"github.com/gnosis/dxctl/operations"
)

// stepDeps are the dependencies of the step operations.
type stepDeps struct {
	contracts evm.Contracts
	caller    *caller.Caller
	operator  *bind.TransactOpts
}

// DeployInput is the fully resolved input of a deploy step.
type DeployInput struct {
	ChainID   uint64                    `json:"chainId"`
	Step      string                    `json:"step"`
	Name      string                    `json:"name"`
	Contract  string                    `json:"contract"`
	Libraries map[string]common.Address `json:"libraries,omitempty"`
	Args      []any                     `json:"args"`
	Operator  common.Address            `json:"operator"`
}

// DeployOutput is the result of a deploy step.
type DeployOutput struct {
	Address common.Address `json:"address"`
}

// LinkInput is the fully resolved input of a link step.
type LinkInput struct {
	ChainID   uint64         `json:"chainId"`
	Step      string         `json:"step"`
	Library   string         `json:"library"`
	Address   common.Address `json:"address"`
	Consumers []string       `json:"consumers"`
}

// CallInput is the fully resolved input of a call step.
type CallInput struct {
	ChainID  uint64         `json:"chainId"`
	Step     string         `json:"step"`
	Target   string         `json:"target"`
	Address  common.Address `json:"address"`
	Method   evm.Func       `json:"method"`
	Args     []any          `json:"args"`
	Operator common.Address `json:"operator"`
}

var (
	deployOp = operations.NewOperation(
		"deploy-contract", semver.MustParse("1.0.0"), "Deploys a contract with its libraries linked",
		func(b operations.Bundle, deps stepDeps, input DeployInput) (DeployOutput, error) {
			addr, err := deps.contracts.Deploy(
				b.GetContext(), input.Contract, input.Libraries, deps.operator, input.Args...,
			)
			if err != nil {
				return DeployOutput{}, err
			}

			return DeployOutput{Address: addr}, nil
		},
	)

	// Linking edits the consumer bytecode when the consumer is deployed, so the operation only
	// records the binding.
	linkOp = operations.NewOperation(
		"link-library", semver.MustParse("1.0.0"), "Links a library into contracts yet to be deployed",
		func(b operations.Bundle, _ stepDeps, input LinkInput) (operations.EmptyOutput, error) {
			b.Logger.Debugw("Linking library",
				"library", input.Library, "address", input.Address.Hex(), "consumers", input.Consumers)

			return operations.EmptyOutput{}, nil
		},
	)

	callOp = operations.NewOperation(
		"call-method", semver.MustParse("1.0.0"), "Sends a configuration call to a deployed artifact",
		func(b operations.Bundle, deps stepDeps, input CallInput) (evm.Confirmation, error) {
			return deps.caller.Call(b.GetContext(), deps.operator, input.Target, input.Method, input.Args...)
		},
	)
)
