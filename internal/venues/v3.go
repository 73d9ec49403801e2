package venues

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"arbscanner/internal/eth"
)

var v3ABI = mustABI(eth.UniswapV3PoolABI)

// v3State is a concentrated-liquidity pool's current tick price and in-range
// liquidity.
type v3State struct {
	Token0       common.Address
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
}

// fetchV3State reads slot0, liquidity and token0 at the latest block.
func fetchV3State(ctx context.Context, client *eth.Client, pool common.Address) (v3State, error) {
	slot0Raw, err := callV3(ctx, client, pool, "slot0")
	if err != nil {
		return v3State{}, err
	}
	sqrtPrice, ok := slot0Raw[0].(*big.Int)
	if !ok {
		return v3State{}, fmt.Errorf("sqrtPriceX96 type assertion failed")
	}

	liqRaw, err := callV3(ctx, client, pool, "liquidity")
	if err != nil {
		return v3State{}, err
	}
	liquidity, ok := liqRaw[0].(*big.Int)
	if !ok {
		return v3State{}, fmt.Errorf("liquidity type assertion failed")
	}

	tokenRaw, err := callV3(ctx, client, pool, "token0")
	if err != nil {
		return v3State{}, err
	}
	token0, ok := tokenRaw[0].(common.Address)
	if !ok {
		return v3State{}, fmt.Errorf("token0 type assertion failed")
	}

	return v3State{
		Token0:       token0,
		SqrtPriceX96: sqrtPrice,
		Liquidity:    liquidity,
	}, nil
}

func callV3(ctx context.Context, client *eth.Client, pool common.Address, method string) ([]interface{}, error) {
	data, err := v3ABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	unpacked, err := v3ABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("%s returned nothing", method)
	}
	return unpacked, nil
}

var q96 = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 96))

// sqrtPriceRatio converts sqrtPriceX96 to the raw token1/token0 price.
func sqrtPriceRatio(sqrtPriceX96 *big.Int) float64 {
	sqrtP := new(big.Float).SetInt(sqrtPriceX96)
	sqrtP.Quo(sqrtP, q96)
	f, _ := sqrtP.Float64()
	return f * f
}

// priceToken1PerToken0 is the decimal-adjusted human price of token0 in
// token1 units.
func (s v3State) priceToken1PerToken0(dec0, dec1 int) float64 {
	raw := sqrtPriceRatio(s.SqrtPriceX96)
	return raw * math.Pow10(dec0-dec1)
}

// virtualReserve approximates the in-range depth of the input side as a
// two-reserve pool would see it: rIn(token0) ~= L/sqrtP, rIn(token1) ~= L*sqrtP.
// This is the liquidity-as-reserve proxy — a knowingly imprecise fallback
// compared with walking ticks, so callers must tolerate wider error bars.
func (s v3State) virtualReserve(inputIsToken0 bool) float64 {
	liq := new(big.Float).SetInt(s.Liquidity)
	l, _ := liq.Float64()

	sqrtP := new(big.Float).SetInt(s.SqrtPriceX96)
	sqrtP.Quo(sqrtP, q96)
	sp, _ := sqrtP.Float64()
	if sp <= 0 {
		return 0
	}

	if inputIsToken0 {
		return l / sp
	}
	return l * sp
}

// v3ImpactPct approximates price impact for a swap pushing amountIn (raw
// units) into the virtual reserve: moving x into a depth of R shifts the
// marginal price by roughly x/R, and the average fill price by half that.
func v3ImpactPct(amountIn float64, virtualReserveIn float64) (float64, error) {
	if virtualReserveIn <= 0 || math.IsNaN(virtualReserveIn) || math.IsInf(virtualReserveIn, 0) {
		return 0, fmt.Errorf("no usable liquidity")
	}
	impact := amountIn / (2 * virtualReserveIn) * 100
	if math.IsNaN(impact) || math.IsInf(impact, 0) {
		return 0, fmt.Errorf("degenerate impact")
	}
	return impact, nil
}
