// Package venues implements the scanner's chain-facing collaborators: the
// per-venue quote source, the two-sided slippage estimator and the gas and
// ETH price oracles, all backed by a single RPC endpoint.
package venues

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/holiman/uint256"

	"arbscanner/internal/eth"
	"arbscanner/internal/scanner"
)

// PoolReader reads pool state for quotes and slippage. Stateless apart from
// the client, so one instance is safe for all concurrent pair pipelines.
type PoolReader struct {
	client *eth.Client
}

func NewPoolReader(client *eth.Client) *PoolReader {
	return &PoolReader{client: client}
}

// PairQuotes queries every venue of the pair concurrently and returns both
// directional quote sets. A venue that errors is simply left out of both
// directions — partial data beats pipeline failure — and only a total wipeout
// (no venue answered) returns an error.
func (r *PoolReader) PairQuotes(ctx context.Context, pair eth.PairDef) (buy, sell []scanner.VenueQuote, err error) {
	type venueResult struct {
		buy, sell scanner.VenueQuote
		err       error
	}

	results := make([]venueResult, len(pair.Venues))
	var wg sync.WaitGroup

	for i, venue := range pair.Venues {
		wg.Add(1)
		go func(i int, venue eth.Venue) {
			defer wg.Done()
			b, s, err := r.quoteVenue(ctx, pair, venue)
			results[i] = venueResult{buy: b, sell: s, err: err}
		}(i, venue)
	}
	wg.Wait()

	buy = make([]scanner.VenueQuote, 0, len(pair.Venues))
	sell = make([]scanner.VenueQuote, 0, len(pair.Venues))
	for _, res := range results {
		if res.err != nil {
			continue
		}
		buy = append(buy, res.buy)
		sell = append(sell, res.sell)
	}

	if len(buy) == 0 {
		return nil, nil, fmt.Errorf("no venue answered for %s", pair.Name)
	}
	return buy, sell, nil
}

// quoteVenue produces one venue's quotes for both directions of the pair:
// buy prices base->intermediate, sell prices intermediate->base.
func (r *PoolReader) quoteVenue(ctx context.Context, pair eth.PairDef, venue eth.Venue) (buy, sell scanner.VenueQuote, err error) {
	var buyPrice, sellPrice float64

	switch venue.Kind {
	case eth.KindConstantProduct:
		state, ferr := fetchV2State(ctx, r.client, venue.Pool)
		if ferr != nil {
			return buy, sell, ferr
		}
		rIn, rOut := state.reservesFor(pair.Base.Address)
		buyPrice = PriceFromReserves(rIn, rOut, pair.Base.Decimals, pair.Intermediate.Decimals)
		sellPrice = PriceFromReserves(rOut, rIn, pair.Intermediate.Decimals, pair.Base.Decimals)

	case eth.KindConcentrated:
		state, ferr := fetchV3State(ctx, r.client, venue.Pool)
		if ferr != nil {
			return buy, sell, ferr
		}
		if state.Token0 == pair.Base.Address {
			buyPrice = state.priceToken1PerToken0(pair.Base.Decimals, pair.Intermediate.Decimals)
		} else {
			p := state.priceToken1PerToken0(pair.Intermediate.Decimals, pair.Base.Decimals)
			if p > 0 {
				buyPrice = 1 / p
			}
		}
		if buyPrice > 0 {
			sellPrice = 1 / buyPrice
		}

	default:
		return buy, sell, fmt.Errorf("unknown venue kind %v", venue.Kind)
	}

	base := scanner.VenueQuote{
		VenueID:      venue.Pool.Hex(),
		Venue:        venue.Name,
		Pair:         pair.Name,
		Kind:         venue.Kind,
		LiquidityRef: venue.Pool,
	}

	buy, sell = base, base
	buy.Price = buyPrice
	sell.Price = sellPrice
	return buy, sell, nil
}

// Estimate computes the two-sided slippage for a buy/sell venue pair at the
// given trade size in base units. Legs compose sequentially — the buy leg's
// estimated output feeds the sell leg — but the total stays additive. A leg
// whose pool cannot be read degrades to the conservative fixed impact
// instead of failing the estimate.
func (r *PoolReader) Estimate(ctx context.Context, buy, sell scanner.VenueQuote, size float64) (scanner.SlippageEstimate, error) {
	pair, ok := eth.PairByName(buy.Pair)
	if !ok {
		return scanner.SlippageEstimate{}, fmt.Errorf("unknown pair %q", buy.Pair)
	}

	amountIn := toUnits(size, pair.Base.Decimals)

	buyImpact, intermediateOut := r.legImpact(ctx, buy, pair.Base, pair.Intermediate, amountIn, buy.Price)
	sellImpact, _ := r.legImpact(ctx, sell, pair.Intermediate, pair.Base, intermediateOut, sell.Price)

	return scanner.SlippageEstimate{
		BuyPct:   buyImpact,
		SellPct:  sellImpact,
		TotalPct: buyImpact + sellImpact,
	}, nil
}

// legImpact estimates one leg's price impact and output amount. price is the
// venue's marginal from->to price, used for the linear projection on
// concentrated pools and for the degraded path.
func (r *PoolReader) legImpact(ctx context.Context, q scanner.VenueQuote, from, to eth.TokenInfo, amountIn *big.Int, price float64) (float64, *big.Int) {
	linearOut := func(impactPct float64) *big.Int {
		out := fromUnits(amountIn, from.Decimals) * price * (1 - impactPct/100)
		return toUnits(out, to.Decimals)
	}

	switch q.Kind {
	case eth.KindConstantProduct:
		state, err := fetchV2State(ctx, r.client, q.LiquidityRef)
		if err != nil {
			return scanner.FallbackImpactPct, linearOut(scanner.FallbackImpactPct)
		}
		rIn, rOut := state.reservesFor(from.Address)
		impact := ImpactPct(amountIn, rIn, rOut)

		in, o1 := uint256.FromBig(amountIn)
		ri, o2 := uint256.FromBig(rIn)
		ro, o3 := uint256.FromBig(rOut)
		if o1 || o2 || o3 {
			return impact, linearOut(impact)
		}
		return impact, AmountOut997(in, ri, ro).ToBig()

	case eth.KindConcentrated:
		state, err := fetchV3State(ctx, r.client, q.LiquidityRef)
		if err != nil {
			return scanner.FallbackImpactPct, linearOut(scanner.FallbackImpactPct)
		}
		inRaw, _ := new(big.Float).SetInt(amountIn).Float64()
		impact, err := v3ImpactPct(inRaw, state.virtualReserve(state.Token0 == from.Address))
		if err != nil {
			return scanner.FallbackImpactPct, linearOut(scanner.FallbackImpactPct)
		}
		return impact, linearOut(impact)
	}

	return scanner.FallbackImpactPct, linearOut(scanner.FallbackImpactPct)
}
