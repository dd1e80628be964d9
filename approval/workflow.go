// Package approval runs the batch token approval of the exchange. A run moves through the states
// Load, Validate, Select, Approve, Verify and Report, and stops at the first failure.
package approval

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/gnosis/dxctl/caller"
	"github.com/gnosis/dxctl/chain/evm"
	"github.com/gnosis/dxctl/network"
	"github.com/gnosis/dxctl/pkg/logger"
	"github.com/gnosis/dxctl/registry"
)

// DefaultExchange is the artifact the approval calls are sent to.
const DefaultExchange = "DutchExchangeProxy"

var (
	UpdateApprovalOfToken = evm.MustNewFunc("updateApprovalOfToken(address[],bool)", "")
	ApprovedTokens        = evm.MustNewFunc("approvedTokens(address)", "bool")
	Auctioneer            = evm.MustNewFunc("auctioneer()", "address")
)

// State is a stage of the workflow.
type State int

const (
	StateLoad State = iota
	StateValidate
	StateSelect
	StateApprove
	StateVerify
	StateReport
	StateDone
)

func (s State) String() string {
	switch s {
	case StateLoad:
		return "load addresses"
	case StateValidate:
		return "validate"
	case StateSelect:
		return "select subset"
	case StateApprove:
		return "approve"
	case StateVerify:
		return "verify"
	case StateReport:
		return "report"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TokenStatus is the approval status of a token as read back from the exchange.
type TokenStatus struct {
	Address  common.Address
	Approved bool
}

// Batch is the outcome of a workflow run.
type Batch struct {
	Network      network.ID
	Tokens       []common.Address
	Confirmation evm.Confirmation
	Statuses     []TokenStatus
}

// AllApproved reports whether every token of the batch reads back as approved.
func (b *Batch) AllApproved() bool {
	for _, s := range b.Statuses {
		if !s.Approved {
			return false
		}
	}

	return len(b.Statuses) == len(b.Tokens)
}

// Config configures a Workflow.
type Config struct {
	Profile  network.Profile
	Registry *registry.Registry
	Caller   *caller.Caller
	// Source provides the address list. It is not used when the profile selects artifacts.
	Source   AddressSource
	Operator *bind.TransactOpts
	// Exchange is the artifact the calls are sent to, DefaultExchange when empty.
	Exchange string
	Logger   logger.Logger
}

// Workflow is a single batch approval run.
type Workflow struct {
	cfg   Config
	lggr  logger.Logger
	state State
}

// New validates cfg and creates a Workflow.
func New(cfg Config) (*Workflow, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.Caller == nil {
		return nil, errors.New("caller is required")
	}
	if cfg.Operator == nil {
		return nil, caller.ErrMissingOperator
	}
	if err := cfg.Profile.Subset.Validate(); err != nil {
		return nil, err
	}
	if cfg.Source == nil && cfg.Profile.Subset.Kind != network.SubsetArtifacts {
		return nil, fmt.Errorf("an address source is required for the %s subset", cfg.Profile.Subset)
	}
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	return &Workflow{cfg: cfg, lggr: cfg.Logger.Named("approval"), state: StateLoad}, nil
}

// State returns the current state. After a failed Run it is the state that failed.
func (w *Workflow) State() State { return w.state }

// Run executes the workflow. Call failures are returned as *ApprovalCallFailure and are never
// retried.
func (w *Workflow) Run(ctx context.Context) (*Batch, error) {
	if w.state != StateLoad {
		return nil, fmt.Errorf("workflow already ran, state %s", w.state)
	}

	batch := &Batch{Network: w.cfg.Profile.ID}

	entries, err := w.load(ctx)
	if err != nil {
		return nil, w.fail(err)
	}

	w.advance(StateValidate)
	addresses, err := evm.ParseAddresses(entries)
	if err != nil {
		return nil, w.fail(err)
	}

	w.advance(StateSelect)
	batch.Tokens, err = w.selectSubset(addresses)
	if err != nil {
		return nil, w.fail(err)
	}

	w.advance(StateApprove)
	batch.Confirmation, err = w.approve(ctx, batch.Tokens)
	if err != nil {
		return nil, w.fail(err)
	}

	w.advance(StateVerify)
	batch.Statuses, err = w.verify(ctx, batch.Tokens)
	if err != nil {
		return nil, w.fail(err)
	}

	w.advance(StateReport)
	w.report(batch)

	w.advance(StateDone)

	return batch, nil
}

func (w *Workflow) advance(s State) {
	w.state = s
	w.lggr.Debugw("Approval workflow state", "state", s.String())
}

func (w *Workflow) fail(err error) error {
	w.lggr.Errorw("Approval workflow failed", "state", w.state.String(), "err", err)

	return fmt.Errorf("%s: %w", w.state, err)
}

func (w *Workflow) load(ctx context.Context) ([]string, error) {
	rule := w.cfg.Profile.Subset
	if rule.Kind != network.SubsetArtifacts {
		return w.cfg.Source.Addresses(ctx)
	}

	entries := make([]string, 0, len(rule.Artifacts))
	for _, name := range rule.Artifacts {
		addr, err := w.cfg.Registry.Resolve(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, addr.Hex())
	}

	return entries, nil
}

func (w *Workflow) selectSubset(addresses []common.Address) ([]common.Address, error) {
	rule := w.cfg.Profile.Subset

	selected := addresses
	if rule.Kind != network.SubsetArtifacts {
		var err error
		if selected, err = network.ApplyRange(rule, addresses); err != nil {
			return nil, err
		}
	}
	if len(selected) == 0 {
		return nil, ErrNoTokens
	}

	w.lggr.Infow("Selected tokens",
		"network", w.cfg.Profile.ID, "rule", rule.String(), "loaded", len(addresses), "selected", len(selected))

	return selected, nil
}

func (w *Workflow) approve(ctx context.Context, tokens []common.Address) (evm.Confirmation, error) {
	if _, err := w.cfg.Registry.Resolve(w.cfg.Exchange); err != nil {
		return evm.Confirmation{}, err
	}

	w.checkAuctioneer(ctx)

	conf, err := w.cfg.Caller.Call(ctx, w.cfg.Operator, w.cfg.Exchange, UpdateApprovalOfToken, tokens, true)
	if err != nil {
		return evm.Confirmation{}, &ApprovalCallFailure{Subset: tokens, Cause: err}
	}

	w.lggr.Infow("Approved tokens", "count", len(tokens), "tx", conf.TxHash.Hex(), "block", conf.BlockNumber)

	return conf, nil
}

// checkAuctioneer logs the auctioneer of the exchange and warns when the operator is not it, in
// which case the approval call is expected to revert.
func (w *Workflow) checkAuctioneer(ctx context.Context) {
	var auctioneer common.Address
	if err := w.cfg.Caller.View(ctx, w.cfg.Exchange, Auctioneer, nil, &auctioneer); err != nil {
		w.lggr.Warnw("Failed to read the auctioneer", "exchange", w.cfg.Exchange, "err", err)
		return
	}

	w.lggr.Infow("Exchange auctioneer", "auctioneer", auctioneer.Hex(), "operator", w.cfg.Operator.From.Hex())
	if auctioneer != w.cfg.Operator.From {
		w.lggr.Warnw("Operator is not the auctioneer of the exchange",
			"auctioneer", auctioneer.Hex(), "operator", w.cfg.Operator.From.Hex())
	}
}

func (w *Workflow) verify(ctx context.Context, tokens []common.Address) ([]TokenStatus, error) {
	statuses := make([]TokenStatus, 0, len(tokens))
	for _, token := range tokens {
		var approved bool
		if err := w.cfg.Caller.View(ctx, w.cfg.Exchange, ApprovedTokens, []any{token}, &approved); err != nil {
			return nil, &ApprovalCallFailure{Subset: []common.Address{token}, Cause: err}
		}
		statuses = append(statuses, TokenStatus{Address: token, Approved: approved})
	}

	return statuses, nil
}

func (w *Workflow) report(batch *Batch) {
	for _, s := range batch.Statuses {
		if s.Approved {
			w.lggr.Infow("Token approved", "token", s.Address.Hex())
		} else {
			w.lggr.Warnw("Token not approved after the approval call", "token", s.Address.Hex())
		}
	}

	w.lggr.Infow("Approval finished",
		"network", batch.Network, "tokens", len(batch.Tokens), "allApproved", batch.AllApproved())
}
