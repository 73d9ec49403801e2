package main

import (
	"flag"
	"fmt"
	"log"

	"arbscanner/internal/storage"
)

func main() {
	dbPath := flag.String("db", "data/scans.db", "scan log database")
	outPath := flag.String("out", "data/scans.parquet", "output parquet file")
	flag.Parse()

	store, err := storage.NewScanLog(*dbPath)
	if err != nil {
		log.Fatalf("failed to open scan log: %v", err)
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		log.Fatalf("failed to read stats: %v", err)
	}
	fmt.Printf("📥 Exporting %d scan records (%d opportunities) to %s...\n",
		stats["scan_records"], stats["opportunities"], *outPath)

	count, err := store.ExportParquet(*outPath)
	if err != nil {
		log.Fatalf("export failed after %d rows: %v", count, err)
	}

	fmt.Printf("✅ Wrote %d rows\n", count)
}
