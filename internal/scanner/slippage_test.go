package scanner

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateOrFallbackUsesSourceWhenHealthy(t *testing.T) {
	src := &fakeSlippage{est: SlippageEstimate{BuyPct: 0.1, SellPct: 0.1, TotalPct: 0.2}}

	got := EstimateOrFallback(context.Background(), src, VenueQuote{}, VenueQuote{}, 1.0, ConservativeFallback())

	assert.Equal(t, 0.2, got.TotalPct)
}

func TestEstimateOrFallbackDegradesOnError(t *testing.T) {
	src := &fakeSlippage{err: fmt.Errorf("pool unreachable")}
	fallback := SlippageEstimate{BuyPct: 1, SellPct: 1, TotalPct: 2}

	got := EstimateOrFallback(context.Background(), src, VenueQuote{}, VenueQuote{}, 1.0, fallback)

	assert.Equal(t, fallback, got)
}

func TestConservativeFallbackIsPerLegAdditive(t *testing.T) {
	fb := ConservativeFallback()

	assert.Equal(t, FallbackImpactPct, fb.BuyPct)
	assert.Equal(t, FallbackImpactPct, fb.SellPct)
	assert.Equal(t, fb.BuyPct+fb.SellPct, fb.TotalPct)
}
