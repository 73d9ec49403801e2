package scanner

import "context"

// Fallback impact per leg when a venue query or curve computation fails, in
// percent. Deliberately pessimistic: unknown depth is treated as shallow.
const FallbackImpactPct = 5.0

// SlippageSource estimates two-sided price impact for a buy/sell venue pair
// at a given trade size in base-asset units. Implementations live next to
// the chain access code; the scanner only depends on this interface.
type SlippageSource interface {
	Estimate(ctx context.Context, buy, sell VenueQuote, size float64) (SlippageEstimate, error)
}

// ConservativeFallback is the estimate used when a source fails entirely.
func ConservativeFallback() SlippageEstimate {
	return SlippageEstimate{
		BuyPct:   FallbackImpactPct,
		SellPct:  FallbackImpactPct,
		TotalPct: 2 * FallbackImpactPct,
	}
}

// EstimateOrFallback queries the source and degrades to the fallback on any
// error. Slippage estimation failure never aborts opportunity detection; it
// only widens the uncertainty, and the widened estimate then fails the
// max-slippage check on its own.
func EstimateOrFallback(ctx context.Context, src SlippageSource, buy, sell VenueQuote, size float64, fallback SlippageEstimate) SlippageEstimate {
	est, err := src.Estimate(ctx, buy, sell, size)
	if err != nil {
		return fallback
	}
	return est
}
