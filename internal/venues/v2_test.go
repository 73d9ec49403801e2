package venues

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestAmountOut997KnownValue(t *testing.T) {
	out := AmountOut997(
		uint256.NewInt(1000),
		uint256.NewInt(1_000_000),
		uint256.NewInt(1_000_000),
	)

	// 1000*997*1e6 / (1e6*1000 + 1000*997) = 996.006... -> 996
	assert.Equal(t, uint64(996), out.Uint64())
}

func TestAmountOut997DegenerateInputs(t *testing.T) {
	zero := uint256.NewInt(0)
	million := uint256.NewInt(1_000_000)

	assert.True(t, AmountOut997(zero, million, million).IsZero())
	assert.True(t, AmountOut997(million, zero, million).IsZero())
	assert.True(t, AmountOut997(million, million, zero).IsZero())
}

func TestPriceFromReservesDecimalAdjustment(t *testing.T) {
	// 100 WETH (18 dec) against 300,000 USDC (6 dec): 3000 USDC per WETH.
	rWETH := new(big.Int).Mul(big.NewInt(100), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	rUSDC := big.NewInt(300_000_000_000)

	usdcPerWeth := PriceFromReserves(rWETH, rUSDC, 18, 6)
	assert.InDelta(t, 3000.0, usdcPerWeth, 1e-6)

	wethPerUsdc := PriceFromReserves(rUSDC, rWETH, 6, 18)
	assert.InDelta(t, 1.0/3000.0, wethPerUsdc, 1e-12)
}

func TestPriceFromReservesZeroReserves(t *testing.T) {
	assert.Zero(t, PriceFromReserves(big.NewInt(0), big.NewInt(1), 18, 6))
	assert.Zero(t, PriceFromReserves(big.NewInt(1), big.NewInt(0), 18, 6))
}

func TestImpactPctPureCurvature(t *testing.T) {
	// in*997 / (rIn*1000 + in*997) = 0.001 exactly with these numbers, so
	// the curve shorts the linear projection by exactly 0.1%. The 0.3% fee
	// cancels out of the ratio.
	in := big.NewInt(1_000_000)
	rIn := big.NewInt(996_003_000)
	rOut := big.NewInt(996_003_000)

	impact := ImpactPct(in, rIn, rOut)

	assert.InDelta(t, 0.1, impact, 1e-3)
}

func TestImpactPctShrinksWithSize(t *testing.T) {
	rIn := big.NewInt(1_000_000_000)
	rOut := big.NewInt(1_000_000_000)

	small := ImpactPct(big.NewInt(1_000), rIn, rOut)
	large := ImpactPct(big.NewInt(10_000_000), rIn, rOut)

	assert.Less(t, small, large)
	assert.Less(t, small, 0.001)
}

func TestTwoLegImpactsAddNotCompound(t *testing.T) {
	// Both legs at the 0.1% proportion: the round trip total the estimator
	// reports is the sum, 0.2%, not the multiplicative compounding.
	in := big.NewInt(1_000_000)
	r := big.NewInt(996_003_000)

	buyLeg := ImpactPct(in, r, r)
	sellLeg := ImpactPct(in, r, r)
	total := buyLeg + sellLeg

	assert.InDelta(t, 0.2, total, 2e-3)
}

func TestUnitsRoundTrip(t *testing.T) {
	raw := toUnits(1.5, 6)
	assert.Equal(t, int64(1_500_000), raw.Int64())

	assert.InDelta(t, 1.5, fromUnits(raw, 6), 1e-12)

	weth := toUnits(0.25, 18)
	assert.InDelta(t, 0.25, fromUnits(weth, 18), 1e-12)
}
