package eth

import (
	"github.com/ethereum/go-ethereum/common"
)

// Token addresses — Ethereum mainnet
var (
	WETHAddress = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	USDCAddress = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	USDTAddress = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	DAIAddress  = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
)

const (
	WETHDecimals = 18
	USDCDecimals = 6
	USDTDecimals = 6
	DAIDecimals  = 18
)

// TokenInfo bundles address + decimals for easy lookup
type TokenInfo struct {
	Address  common.Address
	Decimals int
	Symbol   string
}

// KnownTokens — lookup by symbol string
var KnownTokens = map[string]TokenInfo{
	"WETH": {WETHAddress, WETHDecimals, "WETH"},
	"USDC": {USDCAddress, USDCDecimals, "USDC"},
	"USDT": {USDTAddress, USDTDecimals, "USDT"},
	"DAI":  {DAIAddress, DAIDecimals, "DAI"},
}

// VenueKind tags the AMM curve family of a pool. It is attached to every
// quote when the pool is read, never inferred later from the venue name.
type VenueKind int

const (
	KindConstantProduct VenueKind = iota // uniswap v2 style two-reserve pool
	KindConcentrated                     // uniswap v3 style concentrated liquidity
)

func (k VenueKind) String() string {
	if k == KindConcentrated {
		return "concentrated"
	}
	return "constant-product"
}

// Venue is one liquidity source for a pair: a pool address plus its curve kind.
type Venue struct {
	Name string
	Kind VenueKind
	Pool common.Address
}

// PairDef describes a tracked base/intermediate pair and the venues quoting it.
// Base is always WETH in this scanner; Intermediate is the other leg.
type PairDef struct {
	Name         string
	Base         TokenInfo
	Intermediate TokenInfo
	Venues       []Venue
}

// TrackedPairs — all WETH pairs the scanner watches, with their mainnet pools.
// V3 entries carry the fee tier in the name so venue names stay unique per tier.
var TrackedPairs = []PairDef{
	{
		Name:         "WETH/USDC",
		Base:         KnownTokens["WETH"],
		Intermediate: KnownTokens["USDC"],
		Venues: []Venue{
			{"uniswap-v2", KindConstantProduct, common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc")},
			{"sushiswap", KindConstantProduct, common.HexToAddress("0x397FF1542f962076d0BFE58eA045FfA2d347ACa0")},
			{"uniswap-v3-500", KindConcentrated, common.HexToAddress("0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640")},
			{"uniswap-v3-3000", KindConcentrated, common.HexToAddress("0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8")},
		},
	},
	{
		Name:         "WETH/USDT",
		Base:         KnownTokens["WETH"],
		Intermediate: KnownTokens["USDT"],
		Venues: []Venue{
			{"uniswap-v2", KindConstantProduct, common.HexToAddress("0x0d4a11d5EEaaC28EC3F61d100daF4d40471f1852")},
			{"sushiswap", KindConstantProduct, common.HexToAddress("0x06da0fd433C1A5d7a4faa01111c044910A184553")},
			{"uniswap-v3-500", KindConcentrated, common.HexToAddress("0x11b815efB8f581194ae79006d24E0d814B7697F6")},
			{"uniswap-v3-3000", KindConcentrated, common.HexToAddress("0x4e68Ccd3E89f51C3074ca5072bbAC773960dFa36")},
		},
	},
	{
		Name:         "WETH/DAI",
		Base:         KnownTokens["WETH"],
		Intermediate: KnownTokens["DAI"],
		Venues: []Venue{
			{"uniswap-v2", KindConstantProduct, common.HexToAddress("0xA478c2975Ab1Ea89e8196811F51A7B7Ade33eB11")},
			{"sushiswap", KindConstantProduct, common.HexToAddress("0xC3D03e4F041Fd4cD388c549Ee2A29a9E5075882f")},
			{"uniswap-v3-500", KindConcentrated, common.HexToAddress("0x60594a405d53811d3BC4766596EFD80fd545A270")},
			{"uniswap-v3-3000", KindConcentrated, common.HexToAddress("0xC2e9F25Be6257c210d7Adf0D4Cd6E3E881ba25f8")},
		},
	},
}

// PairByName finds a tracked pair, e.g. "WETH/USDC".
func PairByName(name string) (PairDef, bool) {
	for _, p := range TrackedPairs {
		if p.Name == name {
			return p, true
		}
	}
	return PairDef{}, false
}

// Gas unit estimates for a full two-swap round trip. Concentrated pools cost
// more per swap (tick crossing), so any V3 leg bumps the estimate.
const (
	GasUnitsV2Pair = 350_000
	GasUnitsWithV3 = 400_000
)

// GasUnits returns the round-trip gas estimate for a buy/sell venue-kind pair.
func GasUnits(buy, sell VenueKind) uint64 {
	if buy == KindConcentrated || sell == KindConcentrated {
		return GasUnitsWithV3
	}
	return GasUnitsV2Pair
}

// Uniswap V2 Pair ABI — getReserves + token0 (token ordering decides price direction)
const UniswapV2PairABI = `[
	{
		"constant": true,
		"inputs": [],
		"name": "getReserves",
		"outputs": [
			{"internalType": "uint112", "name": "reserve0", "type": "uint112"},
			{"internalType": "uint112", "name": "reserve1", "type": "uint112"},
			{"internalType": "uint32",  "name": "blockTimestampLast", "type": "uint32"}
		],
		"payable": false,
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "token0",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"payable": false,
		"stateMutability": "view",
		"type": "function"
	}
]`

// Uniswap V3 Pool ABI — slot0 + liquidity + token0
const UniswapV3PoolABI = `[
	{
		"inputs": [],
		"name": "slot0",
		"outputs": [
			{"internalType": "uint160", "name": "sqrtPriceX96", "type": "uint160"},
			{"internalType": "int24",   "name": "tick", "type": "int24"},
			{"internalType": "uint16",  "name": "observationIndex", "type": "uint16"},
			{"internalType": "uint16",  "name": "observationCardinality", "type": "uint16"},
			{"internalType": "uint16",  "name": "observationCardinalityNext", "type": "uint16"},
			{"internalType": "uint8",   "name": "feeProtocol", "type": "uint8"},
			{"internalType": "bool",    "name": "unlocked", "type": "bool"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "liquidity",
		"outputs": [{"internalType": "uint128", "name": "", "type": "uint128"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "token0",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`
