// Package storage persists scan history to sqlite: one row per pair per
// tick, plus every accepted opportunity. The columns mirror what gets
// analyzed offline — spread, reject reason, prices, gas, ETH price.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"arbscanner/internal/scanner"
)

const schema = `
CREATE TABLE IF NOT EXISTS scan_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	scan_num INTEGER NOT NULL,
	pair TEXT NOT NULL,
	spread_pct REAL NOT NULL,
	has_opportunity INTEGER NOT NULL,
	reject_reason TEXT,
	buy_venue TEXT,
	sell_venue TEXT,
	buy_price REAL,
	sell_price REAL,
	trade_size REAL,
	slippage_pct REAL,
	gross_profit_usd REAL,
	gas_cost_usd REAL,
	flash_loan_fee_usd REAL,
	net_profit_usd REAL,
	eth_price_usd REAL,
	eth_price_stale INTEGER,
	gas_gwei REAL,
	gas_stale INTEGER
);
CREATE INDEX IF NOT EXISTS idx_scan_records_pair ON scan_records(pair, timestamp);

CREATE TABLE IF NOT EXISTS opportunities (
	id TEXT PRIMARY KEY,
	timestamp INTEGER NOT NULL,
	pair TEXT NOT NULL,
	buy_venue TEXT NOT NULL,
	sell_venue TEXT NOT NULL,
	buy_price REAL NOT NULL,
	sell_price REAL NOT NULL,
	spread_pct REAL NOT NULL,
	trade_size REAL NOT NULL,
	gross_profit_usd REAL NOT NULL,
	gas_cost_usd REAL NOT NULL,
	flash_loan_fee_usd REAL NOT NULL,
	net_profit_usd REAL NOT NULL,
	slippage_pct REAL NOT NULL,
	status TEXT NOT NULL
);
`

type ScanLog struct {
	db *sql.DB
}

func NewScanLog(dbPath string) (*ScanLog, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan db: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialise schema: %w", err)
	}

	return &ScanLog{db: db}, nil
}

func (s *ScanLog) Close() error {
	return s.db.Close()
}

// RecordTick writes one tick's pair results in a single transaction and the
// accepted opportunities alongside.
func (s *ScanLog) RecordTick(scanNum int, results []scanner.PairResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO scan_records
		(timestamp, scan_num, pair, spread_pct, has_opportunity, reject_reason,
		 buy_venue, sell_venue, buy_price, sell_price,
		 trade_size, slippage_pct, gross_profit_usd, gas_cost_usd,
		 flash_loan_fee_usd, net_profit_usd,
		 eth_price_usd, eth_price_stale, gas_gwei, gas_stale)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, res := range results {
		hasOpp := 0
		var tradeSize, slippage, gross, gasCost, fee, net float64
		if opp := res.Opportunity; opp != nil {
			hasOpp = 1
			tradeSize = opp.TradeSize
			slippage = opp.SlippagePct
			gross = opp.GrossProfitUSD
			gasCost = opp.GasCostUSD
			fee = opp.FlashLoanFeeUSD
			net = opp.NetProfitUSD
		}

		_, err := stmt.Exec(
			res.Timestamp.UnixMilli(), scanNum, res.Pair, res.SpreadPct,
			hasOpp, res.Reason,
			res.BuyVenue, res.SellVenue, res.BuyPrice, res.SellPrice,
			tradeSize, slippage, gross, gasCost, fee, net,
			res.EthPrice.Value, boolToInt(res.EthPrice.Stale),
			res.GasGwei.Value, boolToInt(res.GasGwei.Stale),
		)
		if err != nil {
			return err
		}

		if res.Opportunity != nil {
			if err := insertOpportunity(tx, res.Opportunity); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func insertOpportunity(tx *sql.Tx, opp *scanner.Opportunity) error {
	_, err := tx.Exec(`INSERT OR REPLACE INTO opportunities
		(id, timestamp, pair, buy_venue, sell_venue, buy_price, sell_price,
		 spread_pct, trade_size, gross_profit_usd, gas_cost_usd,
		 flash_loan_fee_usd, net_profit_usd, slippage_pct, status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		opp.ID, opp.Timestamp.UnixMilli(), opp.Pair,
		opp.BuyFrom.Venue, opp.SellTo.Venue,
		opp.BuyFrom.Price, opp.SellTo.Price,
		opp.SpreadPct, opp.TradeSize,
		opp.GrossProfitUSD, opp.GasCostUSD, opp.FlashLoanFeeUSD,
		opp.NetProfitUSD, opp.SlippagePct, opp.Status,
	)
	return err
}

// OpportunityRow is an accepted opportunity as stored.
type OpportunityRow struct {
	ID           string
	Timestamp    time.Time
	Pair         string
	BuyVenue     string
	SellVenue    string
	SpreadPct    float64
	TradeSize    float64
	NetProfitUSD float64
	Status       string
}

// RecentOpportunities returns the newest accepted opportunities, newest first.
func (s *ScanLog) RecentOpportunities(limit int) ([]OpportunityRow, error) {
	rows, err := s.db.Query(`SELECT id, timestamp, pair, buy_venue, sell_venue,
		spread_pct, trade_size, net_profit_usd, status
		FROM opportunities ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OpportunityRow, 0, limit)
	for rows.Next() {
		var r OpportunityRow
		var ts int64
		if err := rows.Scan(&r.ID, &ts, &r.Pair, &r.BuyVenue, &r.SellVenue,
			&r.SpreadPct, &r.TradeSize, &r.NetProfitUSD, &r.Status); err != nil {
			return nil, err
		}
		r.Timestamp = time.UnixMilli(ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats for monitoring scan volume
func (s *ScanLog) Stats() (map[string]int64, error) {
	stats := make(map[string]int64)

	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM scan_records").Scan(&count); err != nil {
		return nil, err
	}
	stats["scan_records"] = count

	if err := s.db.QueryRow("SELECT COUNT(*) FROM opportunities").Scan(&count); err != nil {
		return nil, err
	}
	stats["opportunities"] = count

	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
