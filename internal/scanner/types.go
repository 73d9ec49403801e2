package scanner

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"arbscanner/internal/eth"
)

// VenueQuote is a single venue's observed price for one direction of a pair.
// Price is quote-asset per base-asset for that direction. LiquidityRef is the
// pool address used later for slippage lookup.
type VenueQuote struct {
	VenueID      string
	Venue        string
	Pair         string
	Kind         eth.VenueKind
	Price        float64
	LiquidityRef common.Address
}

// Candidate is the chosen buy/sell venue pair before sizing.
// BuyVenue maximises intermediate received per base unit; SellVenue maximises
// base received per intermediate unit. The two are always distinct venues.
type Candidate struct {
	BuyVenue  VenueQuote
	SellVenue VenueQuote
	// SpreadPct is the round-trip return at a 1-unit probe, in percent.
	SpreadPct float64
}

// SizingResult is the optimal size solver's output.
type SizingResult struct {
	// TradeSize in base-asset units, floored to 2 decimals.
	TradeSize float64
	// MinSize is the smallest size that clears the profit floor before the
	// slippage clamp. Kept for observability; TradeSize may be below it when
	// the slippage budget binds.
	MinSize  float64
	Rejected bool
}

// SlippageEstimate is a two-sided price impact estimate in percent.
// Legs compose sequentially (buy output feeds the sell leg) but the total is
// an additive approximation, kept deliberately conservative-simple.
type SlippageEstimate struct {
	BuyPct   float64
	SellPct  float64
	TotalPct float64
}

// Opportunity lifecycle states. The scanner only ever emits StatusPending;
// transitions belong to whatever executes the trade.
const (
	StatusPending   = "pending"
	StatusExecuting = "executing"
	StatusSuccess   = "success"
	StatusFailed    = "failed"
)

// Rejection reasons. These are expected, frequent outcomes, surfaced as
// strings so an operator can tell "no arbitrage" from "found but too risky".
const (
	ReasonInsufficientData = "insufficient data"
	ReasonSpreadBelowMin   = "spread below minimum"
	ReasonSameVenue        = "same venue both directions"
	ReasonFeeExceedsSpread = "not profitable after fees"
	ReasonProfitBelowMin   = "profit below threshold"
	ReasonSlippageTooHigh  = "slippage too high"
)

// Opportunity is the final accepted record. Immutable once created.
type Opportunity struct {
	ID        string
	Timestamp time.Time

	Pair              string
	BaseAsset         eth.TokenInfo
	IntermediateAsset eth.TokenInfo

	BuyFrom VenueQuote
	SellTo  VenueQuote

	SpreadPct       float64
	TradeSize       float64
	GrossProfitUSD  float64
	GasCostUSD      float64
	FlashLoanFeeUSD float64
	NetProfitUSD    float64

	SlippagePct     float64
	BuySlippagePct  float64
	SellSlippagePct float64

	EthPriceUSD float64
	GasGwei     float64

	Status string
}

// Sample is a scalar oracle reading with an explicit staleness tag. A stale
// sample is the last known good value, served because a refresh failed or
// no fresh read exists yet.
type Sample struct {
	Value float64
	Stale bool
}

// PairResult is one pair's outcome for one scan tick: either an opportunity
// or a tagged rejection, plus the observations that led there.
type PairResult struct {
	Pair        string
	Timestamp   time.Time
	SpreadPct   float64
	BuyVenue    string
	SellVenue   string
	BuyPrice    float64
	SellPrice   float64
	Opportunity *Opportunity
	Reason      string
	EthPrice    Sample
	GasGwei     Sample
}
