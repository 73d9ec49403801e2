package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"arbscanner/internal/config"
	"arbscanner/internal/eth"
	"arbscanner/internal/scanner"
	"arbscanner/internal/venues"
)

func main() {
	_ = godotenv.Load()

	pairFlag := flag.String("pair", "", "single pair to scan (e.g. WETH/USDC); default all tracked pairs")
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pairs := eth.TrackedPairs
	if *pairFlag != "" {
		pair, ok := eth.PairByName(*pairFlag)
		if !ok {
			log.Fatalf("unknown pair: %s (tracked: WETH/USDC, WETH/USDT, WETH/DAI)", *pairFlag)
		}
		pairs = []eth.PairDef{pair}
	}

	client, err := eth.NewClient()
	if err != nil {
		log.Fatalf("failed to connect to Ethereum: %v", err)
	}
	defer client.Close()

	reader := venues.NewPoolReader(client)
	s := scanner.New(cfg, pairs,
		reader,
		reader,
		venues.NewGasMeter(client),
		venues.NewPriceFeed(client, cfg.Scan.EthPriceTTL),
	)

	ctx := context.Background()
	if block, err := client.BlockNumber(ctx); err == nil {
		fmt.Printf("scanning %d pair(s) at block %d...\n\n", len(pairs), block)
	} else {
		fmt.Printf("scanning %d pair(s)...\n\n", len(pairs))
	}

	results := s.ScanTick(ctx)

	found := 0
	for _, res := range results {
		fmt.Printf("%s\n", res.Pair)
		fmt.Println("==========")
		if res.BuyVenue != "" {
			fmt.Printf("  best buy:  %s @ %.6f\n", res.BuyVenue, res.BuyPrice)
			fmt.Printf("  best sell: %s @ %.8f\n", res.SellVenue, res.SellPrice)
			fmt.Printf("  spread:    %.4f%%\n", res.SpreadPct)
		}

		if opp := res.Opportunity; opp != nil {
			found++
			fmt.Println("\n  🚨 PROFITABLE ARBITRAGE DETECTED! 🚨")
			fmt.Printf("  Buy from:  %s (%s)\n", opp.BuyFrom.Venue, opp.BuyFrom.LiquidityRef.Hex())
			fmt.Printf("  Sell to:   %s (%s)\n", opp.SellTo.Venue, opp.SellTo.LiquidityRef.Hex())
			fmt.Printf("  Size:      %.2f WETH\n", opp.TradeSize)
			fmt.Printf("  Gross:     $%.2f\n", opp.GrossProfitUSD)
			fmt.Printf("  Gas:       $%.2f | Flash loan fee: $%.2f\n", opp.GasCostUSD, opp.FlashLoanFeeUSD)
			fmt.Printf("  Net:       $%.2f (slippage %.4f%%)\n", opp.NetProfitUSD, opp.SlippagePct)
		} else {
			fmt.Printf("  no opportunity: %s\n", res.Reason)
		}

		stale := ""
		if res.EthPrice.Stale || res.GasGwei.Stale {
			stale = " (stale)"
		}
		fmt.Printf("  ETH $%.2f, gas %.1f gwei%s\n\n", res.EthPrice.Value, res.GasGwei.Value, stale)
	}

	fmt.Printf("✅ Scan complete — %d opportunity(ies) across %d pair(s)\n", found, len(pairs))
}
