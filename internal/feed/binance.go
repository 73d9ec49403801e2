// Package feed provides an off-chain ETH/USD price source over the Binance
// bookTicker stream, as an alternative to deriving the price from pool
// reserves. Opt-in; the scanner works without it.
package feed

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"arbscanner/internal/scanner"
)

const (
	DefaultURL = "wss://stream.binance.com:9443/ws/ethusdt@bookTicker"

	initialBackoff = 1 * time.Second
	maxBackoff     = 60 * time.Second
	readTimeout    = 90 * time.Second
)

type bookTicker struct {
	BidPrice string `json:"b"`
	AskPrice string `json:"a"`
}

// BinanceFeed keeps the latest ETHUSDT mid price from the bookTicker stream.
// It implements scanner.PriceOracle: while the stream is healthy samples are
// fresh, after a drop the last mid is served tagged stale until reconnect.
type BinanceFeed struct {
	url string

	mu       sync.RWMutex
	mid      float64
	haveMid  bool
	lastSeen time.Time

	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewBinanceFeed(url string) *BinanceFeed {
	if url == "" {
		url = DefaultURL
	}
	return &BinanceFeed{
		url:      url,
		stopChan: make(chan struct{}),
	}
}

// Start begins the read loop with automatic reconnection and exponential
// backoff.
func (f *BinanceFeed) Start(ctx context.Context) {
	f.wg.Add(1)
	go f.runLoop(ctx)
}

func (f *BinanceFeed) Stop() {
	f.stopOnce.Do(func() { close(f.stopChan) })
	f.wg.Wait()
}

func (f *BinanceFeed) runLoop(ctx context.Context) {
	defer f.wg.Done()
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.stopChan:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
		if err != nil {
			log.Printf("binance feed: dial failed: %v (retrying in %s)", err, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			case <-f.stopChan:
				return
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		backoff = initialBackoff
		f.readUntilError(ctx, conn)
		conn.Close()
	}
}

func (f *BinanceFeed) readUntilError(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.stopChan:
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Printf("binance feed: read failed: %v", err)
			return
		}

		var tick bookTicker
		if err := json.Unmarshal(msg, &tick); err != nil {
			continue
		}

		bid, err1 := strconv.ParseFloat(tick.BidPrice, 64)
		ask, err2 := strconv.ParseFloat(tick.AskPrice, 64)
		if err1 != nil || err2 != nil || bid <= 0 || ask <= 0 {
			continue
		}

		f.mu.Lock()
		f.mid = (bid + ask) / 2
		f.haveMid = true
		f.lastSeen = time.Now()
		f.mu.Unlock()
	}
}

// EthPriceUSD serves the latest mid. Samples older than the read timeout are
// tagged stale; before the first tick arrives the on-chain fallback price is
// served stale so a tick never blocks on the socket.
func (f *BinanceFeed) EthPriceUSD(ctx context.Context) scanner.Sample {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.haveMid {
		return scanner.Sample{Value: 3500, Stale: true}
	}
	return scanner.Sample{
		Value: f.mid,
		Stale: time.Since(f.lastSeen) > readTimeout,
	}
}
