package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"arbscanner/internal/config"
	"arbscanner/internal/eth"
	"arbscanner/internal/feed"
	"arbscanner/internal/scanner"
	"arbscanner/internal/storage"
	"arbscanner/internal/ui"
	"arbscanner/internal/venues"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", ".", "directory containing config.yaml")
	useTUI := flag.Bool("tui", false, "render the terminal dashboard")
	useBinance := flag.Bool("binance", false, "price ETH from the Binance bookTicker stream instead of pool reserves")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	client, err := eth.NewClient()
	if err != nil {
		log.Fatalf("failed to connect to Ethereum: %v", err)
	}
	defer client.Close()

	store, err := storage.NewScanLog(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("failed to open scan log: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var price scanner.PriceOracle
	if *useBinance {
		bf := feed.NewBinanceFeed("")
		bf.Start(ctx)
		defer bf.Stop()
		price = bf
	} else {
		price = venues.NewPriceFeed(client, cfg.Scan.EthPriceTTL)
	}

	reader := venues.NewPoolReader(client)
	s := scanner.New(cfg, eth.TrackedPairs, reader, reader, venues.NewGasMeter(client), price)

	var dash *ui.Dashboard
	if *useTUI {
		dash = ui.NewDashboard()
	}

	go runLoop(ctx, cancel, cfg, s, store, dash)

	if dash != nil {
		if err := dash.Run(); err != nil {
			log.Fatalf("dashboard error: %v", err)
		}
		cancel()
		return
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	fmt.Println("\nshutting down...")
}

func runLoop(ctx context.Context, cancel context.CancelFunc, cfg config.Config, s *scanner.Scanner, store *storage.ScanLog, dash *ui.Dashboard) {
	ticker := time.NewTicker(cfg.Scan.Interval)
	defer ticker.Stop()

	scanNum := 0
	for {
		scanNum++
		results := s.ScanTick(ctx)

		if err := store.RecordTick(scanNum, results); err != nil {
			log.Printf("scan %d: failed to record: %v", scanNum, err)
		}

		if dash != nil {
			dash.Update(scanNum, results)
		} else {
			logTick(scanNum, results)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func logTick(scanNum int, results []scanner.PairResult) {
	for _, res := range results {
		if opp := res.Opportunity; opp != nil {
			fmt.Printf("🎯 scan %d [%s]: buy %s / sell %s, size %.2f WETH, net $%.2f\n",
				scanNum, res.Pair, opp.BuyFrom.Venue, opp.SellTo.Venue,
				opp.TradeSize, opp.NetProfitUSD)
		}
	}
	if scanNum%25 == 0 {
		fmt.Printf("scan %d: %d pairs checked (last spread", scanNum, len(results))
		for _, res := range results {
			fmt.Printf(" %s=%.4f%%", res.Pair, res.SpreadPct)
		}
		fmt.Println(")")
	}
}
