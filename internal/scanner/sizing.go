package scanner

import "math"

// Smallest trade worth quoting, in base-asset units.
const minSizeFloor = 0.1

// SizingInput carries everything the solver needs. All percent fields are
// whole percents (0.17 means 0.17%).
type SizingInput struct {
	SpreadPct        float64
	GasCostUSD       float64
	FlashLoanFeePct  float64
	EthPriceUSD      float64
	MaxSlippagePct   float64
	ProbeSlippagePct float64 // total slippage observed at the 1-unit probe
	MinProfitUSD     float64
	MaxTradeSize     float64
}

// SlippageAt models total slippage growing with the square root of size
// relative to the 1-unit probe. Both input and output are decimal fractions.
func SlippageAt(probeSlippage, size float64) float64 {
	return probeSlippage * math.Sqrt(size)
}

// SolveSize picks the profit-maximising trade size. Profit is modeled linear
// in size (spread minus financing fee, gas flat), so the best size is the
// largest one the slippage budget and the absolute ceiling allow. The solver
// rejects outright when the financing fee eats the whole spread, or when even
// the ceiling cannot clear the profit floor.
//
// When the slippage budget binds below the break-even size the result is
// still sized at the budget: the evaluator re-checks profit at the final
// size and owns that rejection.
func SolveSize(in SizingInput) SizingResult {
	effSpread := in.SpreadPct/100 - in.FlashLoanFeePct/100
	if effSpread <= 0 {
		return SizingResult{Rejected: true}
	}

	// profit(s) = s * ethUSD * effSpread - gas; solve profit(s) >= minProfit.
	minSize := (in.GasCostUSD + in.MinProfitUSD) / (in.EthPriceUSD * effSpread)
	minSize = math.Max(minSize, minSizeFloor)

	if minSize > in.MaxTradeSize {
		// Even the safety ceiling can't reach the profit floor.
		return SizingResult{MinSize: minSize, Rejected: true}
	}

	size := in.MaxTradeSize
	if in.ProbeSlippagePct > 0 {
		// Largest size keeping slippage within budget:
		// probe * sqrt(s) <= max  =>  s <= (max/probe)^2.
		bound := math.Pow(in.MaxSlippagePct/in.ProbeSlippagePct, 2)
		size = math.Min(size, bound)
	}

	// Floor to 2 decimals — never round up, so feasible size is never
	// overstated.
	size = math.Floor(size*100) / 100

	return SizingResult{
		TradeSize: size,
		MinSize:   minSize,
		Rejected:  size <= 0,
	}
}
