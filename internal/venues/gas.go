package venues

import (
	"context"
	"math/big"
	"sync"

	"arbscanner/internal/eth"
	"arbscanner/internal/scanner"
)

// Gwei assumed when no gas price has ever been observed.
const defaultGasGwei = 30.0

// GasMeter reads the node's suggested gas price. A failed read serves the
// last known good value tagged stale instead of an indistinguishable magic
// number — one oracle hiccup never fails a scan tick.
type GasMeter struct {
	client *eth.Client

	mu       sync.RWMutex
	last     float64
	haveLast bool
}

func NewGasMeter(client *eth.Client) *GasMeter {
	return &GasMeter{client: client}
}

func (g *GasMeter) GasGwei(ctx context.Context) scanner.Sample {
	wei, err := g.client.SuggestGasPrice(ctx)
	if err != nil {
		return g.stale()
	}

	gwei, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e9)).Float64()
	if gwei <= 0 {
		return g.stale()
	}

	g.mu.Lock()
	g.last = gwei
	g.haveLast = true
	g.mu.Unlock()

	return scanner.Sample{Value: gwei}
}

func (g *GasMeter) stale() scanner.Sample {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.haveLast {
		return scanner.Sample{Value: g.last, Stale: true}
	}
	return scanner.Sample{Value: defaultGasGwei, Stale: true}
}
