package scanner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbscanner/internal/config"
	"arbscanner/internal/eth"
)

type fakeQuotes struct {
	fn func(ctx context.Context, pair eth.PairDef) ([]VenueQuote, []VenueQuote, error)
}

func (f *fakeQuotes) PairQuotes(ctx context.Context, pair eth.PairDef) ([]VenueQuote, []VenueQuote, error) {
	return f.fn(ctx, pair)
}

type fakeSlippage struct {
	est SlippageEstimate
	err error
}

func (f *fakeSlippage) Estimate(ctx context.Context, buy, sell VenueQuote, size float64) (SlippageEstimate, error) {
	return f.est, f.err
}

type fixedOracle struct{ s Sample }

func (f fixedOracle) GasGwei(ctx context.Context) Sample     { return f.s }
func (f fixedOracle) EthPriceUSD(ctx context.Context) Sample { return f.s }

func goodQuotes(pair eth.PairDef) ([]VenueQuote, []VenueQuote) {
	buy := []VenueQuote{
		{VenueID: "uni", Venue: "uniswap-v2", Pair: pair.Name, Price: 3000},
		{VenueID: "sushi", Venue: "sushiswap", Pair: pair.Name, Price: 2990},
	}
	sell := []VenueQuote{
		{VenueID: "uni", Venue: "uniswap-v2", Pair: pair.Name, Price: 1.0 / 2995},
		{VenueID: "sushi", Venue: "sushiswap", Pair: pair.Name, Price: 1.0 / 2985},
	}
	return buy, sell
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Strategy.FlashLoanFeePct = 0
	cfg.Scan.QuoteTimeout = 50 * time.Millisecond
	return cfg
}

func testPairs(n int) []eth.PairDef {
	return eth.TrackedPairs[:n]
}

func TestScanTickEmitsOpportunity(t *testing.T) {
	quotes := &fakeQuotes{fn: func(ctx context.Context, pair eth.PairDef) ([]VenueQuote, []VenueQuote, error) {
		buy, sell := goodQuotes(pair)
		return buy, sell, nil
	}}
	slippage := &fakeSlippage{est: SlippageEstimate{BuyPct: 0.02, SellPct: 0.03, TotalPct: 0.05}}

	s := New(testConfig(), testPairs(1), quotes, slippage,
		fixedOracle{Sample{Value: 20}}, fixedOracle{Sample{Value: 3500}})

	results := s.ScanTick(context.Background())

	require.Len(t, results, 1)
	res := results[0]
	require.NotNil(t, res.Opportunity, "reason: %s", res.Reason)
	assert.Equal(t, "WETH/USDC", res.Opportunity.Pair)
	assert.Equal(t, "uniswap-v2", res.Opportunity.BuyFrom.Venue)
	assert.Equal(t, "sushiswap", res.Opportunity.SellTo.Venue)
	assert.Equal(t, StatusPending, res.Opportunity.Status)
	assert.Positive(t, res.Opportunity.NetProfitUSD)
	// ~(3000/2985 - 1) * 100
	assert.InDelta(t, 0.5025, res.SpreadPct, 1e-3)
}

func TestScanTickTimeoutIsolation(t *testing.T) {
	// WETH/USDC hangs until its per-pair deadline; WETH/USDT answers
	// instantly. The sibling's opportunity must still come out of the tick.
	quotes := &fakeQuotes{fn: func(ctx context.Context, pair eth.PairDef) ([]VenueQuote, []VenueQuote, error) {
		if pair.Name == "WETH/USDC" {
			<-ctx.Done()
			return nil, nil, ctx.Err()
		}
		buy, sell := goodQuotes(pair)
		return buy, sell, nil
	}}
	slippage := &fakeSlippage{est: SlippageEstimate{TotalPct: 0.05}}

	s := New(testConfig(), testPairs(2), quotes, slippage,
		fixedOracle{Sample{Value: 20}}, fixedOracle{Sample{Value: 3500}})

	start := time.Now()
	results := s.ScanTick(context.Background())
	elapsed := time.Since(start)

	require.Len(t, results, 2)
	assert.Nil(t, results[0].Opportunity)
	assert.Equal(t, ReasonInsufficientData, results[0].Reason)
	require.NotNil(t, results[1].Opportunity, "sibling pair must not be stalled")

	// Both pairs ran concurrently: the tick is bounded by one timeout, not two.
	assert.Less(t, elapsed, 2*s.cfg.Scan.QuoteTimeout)
}

func TestScanTickAllVenuesDownIsInsufficientData(t *testing.T) {
	quotes := &fakeQuotes{fn: func(ctx context.Context, pair eth.PairDef) ([]VenueQuote, []VenueQuote, error) {
		return nil, nil, fmt.Errorf("no venue answered for %s", pair.Name)
	}}

	s := New(testConfig(), testPairs(1), quotes, &fakeSlippage{},
		fixedOracle{Sample{Value: 20}}, fixedOracle{Sample{Value: 3500}})

	results := s.ScanTick(context.Background())

	require.Len(t, results, 1)
	assert.Nil(t, results[0].Opportunity)
	assert.Equal(t, ReasonInsufficientData, results[0].Reason)
}

func TestScanTickSlippageFailureWidensNotAborts(t *testing.T) {
	quotes := &fakeQuotes{fn: func(ctx context.Context, pair eth.PairDef) ([]VenueQuote, []VenueQuote, error) {
		buy, sell := goodQuotes(pair)
		return buy, sell, nil
	}}
	// Estimator down entirely: the probe degrades to the conservative
	// fallback, the slippage budget squeezes the size to zero and sizing
	// rejects — but the scan itself must complete with a tagged reason.
	slippage := &fakeSlippage{err: fmt.Errorf("rpc unreachable")}

	s := New(testConfig(), testPairs(1), quotes, slippage,
		fixedOracle{Sample{Value: 20}}, fixedOracle{Sample{Value: 3500}})

	results := s.ScanTick(context.Background())

	require.Len(t, results, 1)
	assert.Nil(t, results[0].Opportunity)
	assert.Equal(t, ReasonFeeExceedsSpread, results[0].Reason)
}

func TestScanTickStaleOraclesStillScan(t *testing.T) {
	quotes := &fakeQuotes{fn: func(ctx context.Context, pair eth.PairDef) ([]VenueQuote, []VenueQuote, error) {
		buy, sell := goodQuotes(pair)
		return buy, sell, nil
	}}
	slippage := &fakeSlippage{est: SlippageEstimate{TotalPct: 0.05}}

	s := New(testConfig(), testPairs(1), quotes, slippage,
		fixedOracle{Sample{Value: 30, Stale: true}}, fixedOracle{Sample{Value: 3500, Stale: true}})

	results := s.ScanTick(context.Background())

	require.Len(t, results, 1)
	assert.True(t, results[0].EthPrice.Stale)
	assert.True(t, results[0].GasGwei.Stale)
	require.NotNil(t, results[0].Opportunity, "stale oracle data still feeds a scan")
}
