// Package scanner holds the opportunity detection and sizing engine: quote
// normalization, spread finding, optimal sizing, slippage composition and the
// final profitability call, plus the per-tick fan-out across tracked pairs.
// Everything here is a pure function of its inputs; chain access sits behind
// the QuoteSource / SlippageSource / oracle interfaces.
package scanner

import (
	"context"
	"sync"
	"time"

	"arbscanner/internal/config"
	"arbscanner/internal/eth"
)

// QuoteSource returns both directional quote sets for a pair: buy quotes
// price base->intermediate (intermediate per base unit), sell quotes price
// intermediate->base (base per intermediate unit). A venue that fails to
// answer is simply absent; only a total failure returns an error.
type QuoteSource interface {
	PairQuotes(ctx context.Context, pair eth.PairDef) (buy, sell []VenueQuote, err error)
}

// GasOracle returns the current gas price in gwei. Never errors: a failed
// refresh yields the last known good value tagged stale.
type GasOracle interface {
	GasGwei(ctx context.Context) Sample
}

// PriceOracle returns the base asset's USD price, same staleness contract.
type PriceOracle interface {
	EthPriceUSD(ctx context.Context) Sample
}

// Scanner fans one scan pass out across the tracked pairs.
type Scanner struct {
	cfg      config.Config
	pairs    []eth.PairDef
	quotes   QuoteSource
	slippage SlippageSource
	gas      GasOracle
	price    PriceOracle
}

func New(cfg config.Config, pairs []eth.PairDef, quotes QuoteSource, slippage SlippageSource, gas GasOracle, price PriceOracle) *Scanner {
	return &Scanner{
		cfg:      cfg,
		pairs:    pairs,
		quotes:   quotes,
		slippage: slippage,
		gas:      gas,
		price:    price,
	}
}

// ScanTick runs one full pass. Pairs are evaluated concurrently — they share
// no mutable state — each under its own timeout, so one slow venue never
// stalls the siblings. The gas and ETH price reads happen once per tick and
// are shared across pairs. Results come back in pair order.
func (s *Scanner) ScanTick(ctx context.Context) []PairResult {
	gas := s.gas.GasGwei(ctx)
	ethPrice := s.price.EthPriceUSD(ctx)

	results := make([]PairResult, len(s.pairs))
	var wg sync.WaitGroup

	for i, pair := range s.pairs {
		wg.Add(1)
		go func(i int, pair eth.PairDef) {
			defer wg.Done()
			pairCtx, cancel := context.WithTimeout(ctx, s.cfg.Scan.QuoteTimeout)
			defer cancel()
			results[i] = s.scanPair(pairCtx, pair, gas, ethPrice)
		}(i, pair)
	}

	wg.Wait()
	return results
}

// scanPair runs the full pipeline for one pair: fetch -> normalize -> spread
// -> size -> final slippage -> evaluate. Steps are strictly sequential; the
// pure ones never block.
func (s *Scanner) scanPair(ctx context.Context, pair eth.PairDef, gas, ethPrice Sample) PairResult {
	res := PairResult{
		Pair:      pair.Name,
		Timestamp: time.Now(),
		EthPrice:  ethPrice,
		GasGwei:   gas,
	}

	rawBuy, rawSell, err := s.quotes.PairQuotes(ctx, pair)
	if err != nil {
		// All venues down, or the pair timed out: data insufficiency for
		// this tick only, never an error propagated to sibling pairs.
		res.Reason = ReasonInsufficientData
		return res
	}

	buyQuotes := Normalize(rawBuy)
	sellQuotes := Normalize(rawSell)

	// Record the raw probe spread even when it won't clear the threshold,
	// so the scan log can show how close each tick came.
	if bb, ok := bestQuote(buyQuotes); ok {
		if bs, ok := bestQuote(sellQuotes); ok {
			res.SpreadPct = (bb.Price*bs.Price - 1) * 100
			res.BuyVenue = bb.Venue
			res.SellVenue = bs.Venue
			res.BuyPrice = bb.Price
			res.SellPrice = bs.Price
		}
	}

	cand, reason := FindBest(buyQuotes, sellQuotes, s.cfg.Strategy.MinSpreadPct)
	if cand == nil {
		res.Reason = reason
		return res
	}

	gasCostUSD := gasCostUSD(cand, gas.Value, ethPrice.Value)

	// Exploratory slippage at the 1-unit probe feeds the solver.
	probe := EstimateOrFallback(ctx, s.slippage, cand.BuyVenue, cand.SellVenue, 1.0, ConservativeFallback())

	sizing := SolveSize(SizingInput{
		SpreadPct:        cand.SpreadPct,
		GasCostUSD:       gasCostUSD,
		FlashLoanFeePct:  s.cfg.Strategy.FlashLoanFeePct,
		EthPriceUSD:      ethPrice.Value,
		MaxSlippagePct:   s.cfg.Strategy.MaxSlippagePct,
		ProbeSlippagePct: probe.TotalPct,
		MinProfitUSD:     s.cfg.Strategy.MinProfitUSD,
		MaxTradeSize:     s.cfg.Strategy.MaxTradeSize,
	})

	// Authoritative slippage at the chosen size. Skipped when sizing already
	// rejected — the evaluator short-circuits on that first.
	var finalSlip SlippageEstimate
	if !sizing.Rejected {
		finalSlip = EstimateOrFallback(ctx, s.slippage, cand.BuyVenue, cand.SellVenue, sizing.TradeSize, ConservativeFallback())
	}

	opp, reason := Evaluate(cand, sizing, finalSlip, EvalInput{
		Pair:            pair,
		GasCostUSD:      gasCostUSD,
		FlashLoanFeePct: s.cfg.Strategy.FlashLoanFeePct,
		EthPriceUSD:     ethPrice,
		GasGwei:         gas,
		MaxSlippagePct:  s.cfg.Strategy.MaxSlippagePct,
		MinProfitUSD:    s.cfg.Strategy.MinProfitUSD,
		Now:             res.Timestamp,
	})

	res.Opportunity = opp
	res.Reason = reason
	return res
}

// gasCostUSD prices the round trip's gas from the fixed unit table, the live
// gwei reading and the ETH price.
func gasCostUSD(cand *Candidate, gasGwei, ethUSD float64) float64 {
	units := eth.GasUnits(cand.BuyVenue.Kind, cand.SellVenue.Kind)
	return float64(units) * gasGwei * 1e-9 * ethUSD
}
