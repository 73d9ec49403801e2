package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbscanner/internal/scanner"
)

func testLog(t *testing.T) *ScanLog {
	t.Helper()
	log, err := NewScanLog(filepath.Join(t.TempDir(), "scans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func sampleResults(now time.Time) []scanner.PairResult {
	opp := &scanner.Opportunity{
		ID:             "WETH/USDC-1",
		Timestamp:      now,
		Pair:           "WETH/USDC",
		BuyFrom:        scanner.VenueQuote{Venue: "uniswap-v2", Price: 3000},
		SellTo:         scanner.VenueQuote{Venue: "sushiswap", Price: 1.0 / 2985},
		SpreadPct:      0.5025,
		TradeSize:      10,
		GrossProfitUSD: 175.88,
		GasCostUSD:     24.5,
		NetProfitUSD:   151.38,
		SlippagePct:    0.05,
		Status:         scanner.StatusPending,
	}
	return []scanner.PairResult{
		{
			Pair:        "WETH/USDC",
			Timestamp:   now,
			SpreadPct:   0.5025,
			BuyVenue:    "uniswap-v2",
			SellVenue:   "sushiswap",
			BuyPrice:    3000,
			SellPrice:   1.0 / 2985,
			Opportunity: opp,
			EthPrice:    scanner.Sample{Value: 3500},
			GasGwei:     scanner.Sample{Value: 20},
		},
		{
			Pair:      "WETH/USDT",
			Timestamp: now,
			SpreadPct: 0.02,
			Reason:    scanner.ReasonSpreadBelowMin,
			EthPrice:  scanner.Sample{Value: 3500},
			GasGwei:   scanner.Sample{Value: 20, Stale: true},
		},
	}
}

func TestRecordTickAndStats(t *testing.T) {
	log := testLog(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	require.NoError(t, log.RecordTick(1, sampleResults(now)))

	second := sampleResults(now.Add(4 * time.Second))
	second[0].Opportunity.ID = "WETH/USDC-2"
	require.NoError(t, log.RecordTick(2, second))

	stats, err := log.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats["scan_records"])
	assert.Equal(t, int64(2), stats["opportunities"])
}

func TestRecentOpportunitiesNewestFirst(t *testing.T) {
	log := testLog(t)
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		results := sampleResults(base.Add(time.Duration(i) * time.Minute))
		results[0].Opportunity.ID = results[0].Opportunity.Timestamp.String()
		require.NoError(t, log.RecordTick(i+1, results))
	}

	opps, err := log.RecentOpportunities(2)
	require.NoError(t, err)
	require.Len(t, opps, 2)
	assert.True(t, opps[0].Timestamp.After(opps[1].Timestamp))
	assert.Equal(t, "WETH/USDC", opps[0].Pair)
	assert.Equal(t, scanner.StatusPending, opps[0].Status)
}

func TestExportParquetWritesAllRows(t *testing.T) {
	log := testLog(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, log.RecordTick(1, sampleResults(now)))

	out := filepath.Join(t.TempDir(), "scans.parquet")
	count, err := log.ExportParquet(out)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.FileExists(t, out)
}
