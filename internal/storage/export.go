package storage

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
)

// ScanRow is the parquet shape of one scan record, for offline analysis.
type ScanRow struct {
	Timestamp      int64   `parquet:"name=timestamp, type=INT64"`
	ScanNum        int64   `parquet:"name=scan_num, type=INT64"`
	Pair           string  `parquet:"name=pair, type=BYTE_ARRAY, convertedtype=UTF8"`
	SpreadPct      float64 `parquet:"name=spread_pct, type=DOUBLE"`
	HasOpportunity int32   `parquet:"name=has_opportunity, type=INT32"`
	RejectReason   string  `parquet:"name=reject_reason, type=BYTE_ARRAY, convertedtype=UTF8"`
	BuyVenue       string  `parquet:"name=buy_venue, type=BYTE_ARRAY, convertedtype=UTF8"`
	SellVenue      string  `parquet:"name=sell_venue, type=BYTE_ARRAY, convertedtype=UTF8"`
	BuyPrice       float64 `parquet:"name=buy_price, type=DOUBLE"`
	SellPrice      float64 `parquet:"name=sell_price, type=DOUBLE"`
	TradeSize      float64 `parquet:"name=trade_size, type=DOUBLE"`
	SlippagePct    float64 `parquet:"name=slippage_pct, type=DOUBLE"`
	NetProfitUSD   float64 `parquet:"name=net_profit_usd, type=DOUBLE"`
	EthPriceUSD    float64 `parquet:"name=eth_price_usd, type=DOUBLE"`
	GasGwei        float64 `parquet:"name=gas_gwei, type=DOUBLE"`
}

// ExportParquet dumps every scan record to a parquet file and returns the row
// count.
func (s *ScanLog) ExportParquet(outPath string) (int, error) {
	rows, err := s.db.Query(`SELECT timestamp, scan_num, pair, spread_pct,
		has_opportunity, reject_reason, buy_venue, sell_venue, buy_price,
		sell_price, trade_size, slippage_pct, net_profit_usd,
		eth_price_usd, gas_gwei
		FROM scan_records ORDER BY timestamp`)
	if err != nil {
		return 0, fmt.Errorf("query scan records: %w", err)
	}
	defer rows.Close()

	fw, err := local.NewLocalFileWriter(outPath)
	if err != nil {
		return 0, fmt.Errorf("create parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(ScanRow), 2)
	if err != nil {
		return 0, fmt.Errorf("create parquet writer: %w", err)
	}

	count := 0
	for rows.Next() {
		var r ScanRow
		if err := rows.Scan(&r.Timestamp, &r.ScanNum, &r.Pair, &r.SpreadPct,
			&r.HasOpportunity, &r.RejectReason, &r.BuyVenue, &r.SellVenue,
			&r.BuyPrice, &r.SellPrice, &r.TradeSize, &r.SlippagePct,
			&r.NetProfitUSD, &r.EthPriceUSD, &r.GasGwei); err != nil {
			return count, err
		}
		if err := pw.Write(r); err != nil {
			return count, fmt.Errorf("write row: %w", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, err
	}

	if err := pw.WriteStop(); err != nil {
		return count, fmt.Errorf("finalize parquet: %w", err)
	}
	return count, nil
}
