package provider

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignerGenerator generates geth's *bind.TransactOpts instances for a chain. These are the
// operator identities used to sign deployments and configuration calls.
type SignerGenerator interface {
	Generate(chainID *big.Int) (*bind.TransactOpts, error)
}

var (
	_ SignerGenerator = (*transactorFromRaw)(nil)
	_ SignerGenerator = (*transactorRandom)(nil)
)

// GeneratorOptions contains configuration options for the SignerGenerator.
type GeneratorOptions struct {
	gasLimit uint64
}

// GeneratorOption is a function that modifies GeneratorOptions.
type GeneratorOption func(*GeneratorOptions)

// WithGasLimit fixes the gas limit of generated transactors instead of estimating it.
func WithGasLimit(gasLimit uint64) GeneratorOption {
	return func(opts *GeneratorOptions) {
		opts.gasLimit = gasLimit
	}
}

// TransactorFromRaw returns a generator which creates a transactor from a hex encoded private
// key. The key may carry a 0x prefix.
func TransactorFromRaw(privKey string, opts ...GeneratorOption) SignerGenerator {
	o := &GeneratorOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return &transactorFromRaw{
		privKey:  strings.TrimPrefix(strings.TrimSpace(privKey), "0x"),
		gasLimit: o.gasLimit,
	}
}

type transactorFromRaw struct {
	privKey  string
	gasLimit uint64
}

// Generate parses the hex encoded private key and returns the bind transactor options.
func (g *transactorFromRaw) Generate(chainID *big.Int) (*bind.TransactOpts, error) {
	privKey, err := crypto.HexToECDSA(g.privKey)
	if err != nil {
		return nil, fmt.Errorf("failed to convert private key to ECDSA: %w", err)
	}

	return newTransactor(privKey, chainID, g.gasLimit)
}

// TransactorRandom is a SignerGenerator that creates a transactor with a random private key.
// The key is generated on the first call to Generate and reused afterwards.
func TransactorRandom() SignerGenerator {
	return &transactorRandom{}
}

type transactorRandom struct {
	privKey *ecdsa.PrivateKey
}

// Generate generates a random key and returns the bind transactor options.
func (g *transactorRandom) Generate(chainID *big.Int) (*bind.TransactOpts, error) {
	if g.privKey == nil {
		privKey, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate random private key: %w", err)
		}
		g.privKey = privKey
	}

	return newTransactor(g.privKey, chainID, 0)
}

func newTransactor(key *ecdsa.PrivateKey, chainID *big.Int, gasLimit uint64) (*bind.TransactOpts, error) {
	if chainID == nil {
		return nil, errors.New("chain ID is required")
	}

	transactor, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, err
	}
	if gasLimit > 0 {
		transactor.GasLimit = gasLimit
	}

	return transactor, nil
}
