package provider

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/gnosis/dxctl/chain/evm"
)

// ConfirmFunctor creates the confirmation function used by a chain to wait for its transactions.
type ConfirmFunctor interface {
	// Generate returns a function that confirms transactions. A reverted transaction is replayed
	// from its signer to recover the revert reason; `from` is used when the signer cannot be
	// recovered.
	Generate(ctx context.Context, chainName string, client evm.OnchainClient, from common.Address) (evm.ConfirmFunc, error)
}

// ConfirmFuncGeth returns a ConfirmFunctor that polls the client for the receipt of the
// transaction until it is mined or waitMinedTimeout elapses.
func ConfirmFuncGeth(waitMinedTimeout time.Duration, opts ...func(*confirmFuncGeth)) ConfirmFunctor {
	cf := &confirmFuncGeth{
		tickInterval:     1 * time.Second, // the same value we have in bind.WaitMined hardcoded in "go-ethereum"
		waitMinedTimeout: waitMinedTimeout,
	}
	for _, o := range opts {
		o(cf)
	}

	return cf
}

// WithTickInterval sets how often the receipt is polled.
func WithTickInterval(interval time.Duration) func(*confirmFuncGeth) {
	return func(o *confirmFuncGeth) {
		o.tickInterval = interval
	}
}

type confirmFuncGeth struct {
	tickInterval     time.Duration
	waitMinedTimeout time.Duration
}

// Generate returns a function that confirms transactions using the geth client.
func (g *confirmFuncGeth) Generate(
	ctx context.Context, chainName string, client evm.OnchainClient, from common.Address,
) (evm.ConfirmFunc, error) {
	if g.waitMinedTimeout <= 0 {
		return nil, errors.New("wait mined timeout must be positive")
	}

	return func(tx *types.Transaction) (uint64, error) {
		if tx == nil {
			return 0, fmt.Errorf("tx was nil, nothing to confirm on %s", chainName)
		}

		ctxTimeout, cancel := context.WithTimeout(ctx, g.waitMinedTimeout)
		defer cancel()

		receipt, err := WaitMinedWithInterval(ctxTimeout, g.tickInterval, client, tx.Hash())
		if err != nil {
			return 0, fmt.Errorf("tx %s failed to confirm on %s: %w", tx.Hash().Hex(), chainName, err)
		}

		if receipt.Status == types.ReceiptStatusFailed {
			reason, rerr := getErrorReasonFromTx(ctxTimeout, client, txSender(tx, from), tx, receipt)
			if rerr == nil && reason != "" {
				return 0, fmt.Errorf("tx %s reverted on %s: %s", tx.Hash().Hex(), chainName, reason)
			}

			return 0, fmt.Errorf("tx %s reverted on %s, could not decode error reason", tx.Hash().Hex(), chainName)
		}

		return receipt.BlockNumber.Uint64(), nil
	}, nil
}

// txSender recovers the signer of tx, so that a call sent by a user identity is not replayed as
// the deployer.
func txSender(tx *types.Transaction, fallback common.Address) common.Address {
	sender, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return fallback
	}

	return sender
}

// ReceiptFetcher fetches transaction receipts.
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// WaitMinedWithInterval polls for the receipt of txHash every tick until it is available or ctx
// is done. Unlike bind.WaitMined the interval is configurable, which matters for chains with
// instant blocks.
func WaitMinedWithInterval(ctx context.Context, tick time.Duration, b ReceiptFetcher, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := retry.DoWithData(
		func() (*types.Receipt, error) {
			r, err := b.TransactionReceipt(ctx, txHash)
			if err != nil {
				return nil, err
			}
			if r == nil {
				return nil, ethereum.NotFound
			}

			return r, nil
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(tick),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, err
	}

	return receipt, nil
}

// ContractCaller is the subset of the client needed to replay a reverted transaction.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// getErrorReasonFromTx replays the reverted transaction as a call at its block to recover the
// revert reason.
func getErrorReasonFromTx(
	ctx context.Context, caller ContractCaller, from common.Address, tx *types.Transaction, receipt *types.Receipt,
) (string, error) {
	call := ethereum.CallMsg{
		From:     from,
		To:       tx.To(),
		Data:     tx.Data(),
		Value:    tx.Value(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
	}

	_, err := caller.CallContract(ctx, call, receipt.BlockNumber)
	if err == nil {
		return "", fmt.Errorf("tx %s reverted with no reason", tx.Hash().Hex())
	}

	// The JSON error type is private in go-ethereum, match it structurally.
	type jsonError interface {
		Error() string
		ErrorCode() int
		ErrorData() any
	}

	var jerr jsonError
	if errors.As(err, &jerr) {
		if data := fmt.Sprintf("%v", jerr.ErrorData()); data != "" && data != "<nil>" {
			return data, nil
		}
	}

	return err.Error(), nil
}
