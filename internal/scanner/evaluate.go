package scanner

import (
	"fmt"
	"time"

	"arbscanner/internal/eth"
)

// EvalInput bundles the context the evaluator needs beyond the candidate and
// sizing themselves.
type EvalInput struct {
	Pair            eth.PairDef
	GasCostUSD      float64
	FlashLoanFeePct float64
	EthPriceUSD     Sample
	GasGwei         Sample
	MaxSlippagePct  float64
	MinProfitUSD    float64
	Now             time.Time
}

// Evaluate makes the final accept/reject call. It recomputes profit at the
// chosen size (the solver worked from a linear model; this is the
// authoritative number) and applies the size-specific slippage veto last: a
// candidate can pass the profit test and still die here if on-chain depth
// turned out shallower than the 1-unit probe suggested.
//
// Returns the opportunity, or nil and a reason string.
func Evaluate(cand *Candidate, sizing SizingResult, finalSlip SlippageEstimate, in EvalInput) (*Opportunity, string) {
	if sizing.Rejected {
		return nil, ReasonFeeExceedsSpread
	}

	size := sizing.TradeSize
	ethUSD := in.EthPriceUSD.Value

	// Round trip at the chosen size.
	intermediateOut := size * cand.BuyVenue.Price
	baseOut := intermediateOut * cand.SellVenue.Price
	grossProfitUSD := (baseOut - size) * ethUSD

	flashLoanFeeUSD := size * (in.FlashLoanFeePct / 100) * ethUSD
	netProfitUSD := grossProfitUSD - in.GasCostUSD - flashLoanFeeUSD

	if netProfitUSD < in.MinProfitUSD {
		return nil, ReasonProfitBelowMin
	}

	if finalSlip.TotalPct > in.MaxSlippagePct {
		return nil, ReasonSlippageTooHigh
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	return &Opportunity{
		ID:                fmt.Sprintf("%s-%d", in.Pair.Name, now.UnixNano()),
		Timestamp:         now,
		Pair:              in.Pair.Name,
		BaseAsset:         in.Pair.Base,
		IntermediateAsset: in.Pair.Intermediate,
		BuyFrom:           cand.BuyVenue,
		SellTo:            cand.SellVenue,
		SpreadPct:         cand.SpreadPct,
		TradeSize:         size,
		GrossProfitUSD:    grossProfitUSD,
		GasCostUSD:        in.GasCostUSD,
		FlashLoanFeeUSD:   flashLoanFeeUSD,
		NetProfitUSD:      netProfitUSD,
		SlippagePct:       finalSlip.TotalPct,
		BuySlippagePct:    finalSlip.BuyPct,
		SellSlippagePct:   finalSlip.SellPct,
		EthPriceUSD:       ethUSD,
		GasGwei:           in.GasGwei.Value,
		Status:            StatusPending,
	}, ""
}
