// Package dutchx holds the DutchX migration: the contracts it deploys, the order it deploys them
// in and the configuration calls that wire them together.
package dutchx

import (
	"github.com/gnosis/dxctl/caller"
	"github.com/gnosis/dxctl/chain/evm"
	"github.com/gnosis/dxctl/pipeline"
)

// Artifact names.
const (
	Math                 = "Math"
	DutchExchange        = "DutchExchange"
	DutchExchangeProxy   = "DutchExchangeProxy"
	StandardToken        = "StandardToken"
	EtherToken           = "EtherToken"
	TokenGNO             = "TokenGNO"
	TokenMGN             = "TokenMGN"
	TokenOWL             = "TokenOWL"
	TokenOWLProxy        = "TokenOWLProxy"
	OWLAirdrop           = "OWLAirdrop"
	PriceFeed            = "PriceFeed"
	Medianizer           = "Medianizer"
	PriceOracleInterface = "PriceOracleInterface"
	TokenOMG             = "TokenOMG"
	TokenRDN             = "TokenRDN"

	// ProxyContract is the compiled contract deployed as DutchExchangeProxy by default.
	ProxyContract = "Proxy"
)

var (
	// InitialGNOSupply is minted to the deployer by TokenGNO.
	InitialGNOSupply = caller.MustParseAmount("100000e18")
	// InitialTestTokenSupply is minted to the deployer by each test token.
	InitialTestTokenSupply = caller.MustParseAmount("100000e18")
	// ETHUSDPrice is the ETH price posted to the price feed, with 18 decimals.
	ETHUSDPrice = caller.MustParseAmount("1100e18")
	// ThresholdNewTokenPair is the USD value of funding needed to add a token pair.
	ThresholdNewTokenPair = caller.MustParseAmount("10000e18")
	// ThresholdNewAuction is the USD value of sell volume needed to start an auction.
	ThresholdNewAuction = caller.MustParseAmount("1000e18")
)

// PriceExpiry is the expiry of the posted price.
const PriceExpiry uint32 = 1516168838 * 2

var (
	MedianizerSet      = evm.MustNewFunc("set(address)", "")
	PriceFeedPost      = evm.MustNewFunc("post(uint128,uint32,address)", "")
	SetupDutchExchange = evm.MustNewFunc(
		"setupDutchExchange(address,address,address,address,address,uint256,uint256)", "")
	UpdateMinter = evm.MustNewFunc("updateMinter(address)", "")
)

// Options select the variant of the migration.
type Options struct {
	// TestTokens adds TokenOMG and TokenRDN.
	TestTokens bool
	// ProxyContract is the compiled contract deployed as DutchExchangeProxy, ProxyContract when
	// empty. Newer builds ship a dedicated DutchExchangeProxy contract.
	ProxyContract string
}

// Plan returns the migration steps in execution order.
func Plan(opts Options) []pipeline.Step {
	if opts.ProxyContract == "" {
		opts.ProxyContract = ProxyContract
	}

	consumers := []string{DutchExchange, StandardToken, EtherToken, TokenGNO, TokenMGN, TokenOWL, TokenOWLProxy, OWLAirdrop}
	if opts.TestTokens {
		consumers = append(consumers, TokenOMG, TokenRDN)
	}

	steps := []pipeline.Step{
		pipeline.Deploy(Math),
		pipeline.Link(Math, consumers...),

		// tokens
		pipeline.Deploy(EtherToken),
		pipeline.Deploy(TokenGNO, InitialGNOSupply),
		pipeline.Deploy(TokenMGN, pipeline.Operator()),
		pipeline.Deploy(TokenOWL),
		pipeline.Deploy(TokenOWLProxy, pipeline.Ref(TokenOWL)),
	}

	if opts.TestTokens {
		steps = append(steps,
			pipeline.Deploy(TokenOMG, InitialTestTokenSupply),
			pipeline.Deploy(TokenRDN, InitialTestTokenSupply),
		)
	}

	return append(steps,
		// price feed
		pipeline.Deploy(PriceFeed),
		pipeline.Deploy(Medianizer),
		pipeline.Deploy(PriceOracleInterface, pipeline.Operator(), pipeline.Ref(Medianizer)),
		pipeline.Call(Medianizer, MedianizerSet, pipeline.Ref(PriceFeed)),
		pipeline.Call(PriceFeed, PriceFeedPost, ETHUSDPrice, PriceExpiry, pipeline.Ref(Medianizer)),

		// exchange
		pipeline.Deploy(DutchExchange),
		pipeline.DeployContract(DutchExchangeProxy, opts.ProxyContract, pipeline.Ref(DutchExchange)),
		pipeline.Call(DutchExchangeProxy, SetupDutchExchange,
			pipeline.Ref(TokenMGN),
			pipeline.Ref(TokenOWLProxy),
			pipeline.Operator(), // auctioneer
			pipeline.Ref(EtherToken),
			pipeline.Ref(PriceOracleInterface),
			ThresholdNewTokenPair,
			ThresholdNewAuction,
		),
		pipeline.Call(TokenMGN, UpdateMinter, pipeline.Ref(DutchExchangeProxy)),
	)
}
