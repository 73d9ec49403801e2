package venues

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"arbscanner/internal/eth"
)

var v2ABI = mustABI(eth.UniswapV2PairABI)

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// v2State is a constant-product pool's reserves plus its token ordering.
type v2State struct {
	Token0   common.Address
	Reserve0 *big.Int
	Reserve1 *big.Int
}

// fetchV2State reads getReserves and token0 at the latest block.
func fetchV2State(ctx context.Context, client *eth.Client, pool common.Address) (v2State, error) {
	data, err := v2ABI.Pack("getReserves")
	if err != nil {
		return v2State{}, fmt.Errorf("pack getReserves: %w", err)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data}, nil)
	if err != nil {
		return v2State{}, fmt.Errorf("call getReserves: %w", err)
	}

	unpacked, err := v2ABI.Unpack("getReserves", result)
	if err != nil {
		return v2State{}, fmt.Errorf("unpack reserves: %w", err)
	}
	if len(unpacked) < 2 {
		return v2State{}, fmt.Errorf("unexpected unpack result length: %d", len(unpacked))
	}

	reserve0, ok := unpacked[0].(*big.Int)
	if !ok {
		return v2State{}, fmt.Errorf("reserve0 type assertion failed")
	}
	reserve1, ok := unpacked[1].(*big.Int)
	if !ok {
		return v2State{}, fmt.Errorf("reserve1 type assertion failed")
	}

	data0, err := v2ABI.Pack("token0")
	if err != nil {
		return v2State{}, fmt.Errorf("pack token0: %w", err)
	}
	result0, err := client.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data0}, nil)
	if err != nil {
		return v2State{}, fmt.Errorf("call token0: %w", err)
	}

	return v2State{
		Token0:   common.BytesToAddress(result0),
		Reserve0: reserve0,
		Reserve1: reserve1,
	}, nil
}

// reservesFor orients the pool state for a swap from -> to.
func (s v2State) reservesFor(from common.Address) (reserveIn, reserveOut *big.Int) {
	if s.Token0 == from {
		return s.Reserve0, s.Reserve1
	}
	return s.Reserve1, s.Reserve0
}

// AmountOut997 is the uniswap v2 swap output with the 0.3% fee baked into the
// constant-product formula: out = in*997*rOut / (rIn*1000 + in*997).
func AmountOut997(amountIn, reserveIn, reserveOut *uint256.Int) *uint256.Int {
	if amountIn.IsZero() || reserveIn.IsZero() || reserveOut.IsZero() {
		return uint256.NewInt(0)
	}

	amountInWithFee := new(uint256.Int).Mul(amountIn, uint256.NewInt(997))
	numerator := new(uint256.Int).Mul(amountInWithFee, reserveOut)

	denominator := new(uint256.Int).Mul(reserveIn, uint256.NewInt(1000))
	denominator.Add(denominator, amountInWithFee)

	return new(uint256.Int).Div(numerator, denominator)
}

// PriceFromReserves returns how much out-token one unit of in-token buys at
// the marginal (zero-size) price, adjusting for differing decimals:
// price = rOut/rIn * 10^(decIn-decOut).
func PriceFromReserves(reserveIn, reserveOut *big.Int, decIn, decOut int) float64 {
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return 0
	}

	rIn := new(big.Float).SetInt(reserveIn)
	rOut := new(big.Float).SetInt(reserveOut)

	decimalAdj := new(big.Float).SetInt(
		new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(decIn-decOut))), nil),
	)

	price := new(big.Float).Quo(rOut, rIn)
	if decIn >= decOut {
		price.Mul(price, decimalAdj)
	} else {
		price.Quo(price, decimalAdj)
	}

	f, _ := price.Float64()
	return f
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ImpactPct measures the constant-product curve's shortfall against a linear
// projection at the same fee: impact = (linearOut - actualOut)/linearOut * 100.
// The 0.3% venue fee cancels out of the ratio, so this is pure curvature and
// tends to zero for small trades.
func ImpactPct(amountIn, reserveIn, reserveOut *big.Int) float64 {
	if amountIn.Sign() <= 0 || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return 0
	}

	in, overflow := uint256.FromBig(amountIn)
	if overflow {
		return 0
	}
	rIn, overflow := uint256.FromBig(reserveIn)
	if overflow {
		return 0
	}
	rOut, overflow := uint256.FromBig(reserveOut)
	if overflow {
		return 0
	}

	actual := AmountOut997(in, rIn, rOut)

	// linear = in * 997/1000 * rOut/rIn, in big.Float to dodge overflow
	linear := new(big.Float).SetInt(amountIn)
	linear.Mul(linear, big.NewFloat(0.997))
	linear.Mul(linear, new(big.Float).SetInt(reserveOut))
	linear.Quo(linear, new(big.Float).SetInt(reserveIn))

	actualF := new(big.Float).SetInt(actual.ToBig())

	diff := new(big.Float).Sub(linear, actualF)
	pct := new(big.Float).Quo(diff, linear)
	pct.Mul(pct, big.NewFloat(100))

	f, _ := pct.Float64()
	if f < 0 {
		return 0
	}
	return f
}

// toUnits converts a human amount to raw token units (floor).
func toUnits(amount float64, decimals int) *big.Int {
	scale := new(big.Float).SetInt(
		new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil),
	)
	raw := new(big.Float).Mul(big.NewFloat(amount), scale)
	out, _ := raw.Int(nil)
	return out
}

// fromUnits converts raw token units back to a human amount.
func fromUnits(raw *big.Int, decimals int) float64 {
	scale := new(big.Float).SetInt(
		new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil),
	)
	f := new(big.Float).SetInt(raw)
	f.Quo(f, scale)
	out, _ := f.Float64()
	return out
}
