package venues

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"arbscanner/internal/eth"
	"arbscanner/internal/scanner"
)

// USD assumed when no price has ever been observed.
const defaultEthPriceUSD = 3500.0

const ethPriceKey = "eth-usd"

// PriceFeed derives ETH/USD from the deepest WETH/USDC constant-product pool
// so a scan needs nothing beyond the one RPC endpoint. Reads are cached for
// a bounded staleness window (multiple in-flight pair pipelines share one
// read per window) and a failed refresh falls back to the last known good
// value, tagged stale.
type PriceFeed struct {
	client *eth.Client
	pool   eth.Venue
	pair   eth.PairDef
	cache  *expirable.LRU[string, float64]

	mu       sync.RWMutex
	last     float64
	haveLast bool
}

func NewPriceFeed(client *eth.Client, ttl time.Duration) *PriceFeed {
	pair, _ := eth.PairByName("WETH/USDC")
	return &PriceFeed{
		client: client,
		pool:   pair.Venues[0], // uniswap-v2 WETH/USDC
		pair:   pair,
		cache:  expirable.NewLRU[string, float64](1, nil, ttl),
	}
}

func (p *PriceFeed) EthPriceUSD(ctx context.Context) scanner.Sample {
	if cached, ok := p.cache.Get(ethPriceKey); ok {
		return scanner.Sample{Value: cached}
	}

	state, err := fetchV2State(ctx, p.client, p.pool.Pool)
	if err != nil {
		return p.staleSample()
	}

	rIn, rOut := state.reservesFor(p.pair.Base.Address)
	price := PriceFromReserves(rIn, rOut, p.pair.Base.Decimals, p.pair.Intermediate.Decimals)
	if price <= 0 {
		return p.staleSample()
	}

	p.cache.Add(ethPriceKey, price)
	p.mu.Lock()
	p.last = price
	p.haveLast = true
	p.mu.Unlock()

	return scanner.Sample{Value: price}
}

func (p *PriceFeed) staleSample() scanner.Sample {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.haveLast {
		return scanner.Sample{Value: p.last, Stale: true}
	}
	return scanner.Sample{Value: defaultEthPriceUSD, Stale: true}
}
