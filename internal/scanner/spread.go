package scanner

// bestQuote folds over a quote set and returns the first-seen maximum price.
// Strict > keeps the tie-break first-seen-wins, so tests are reproducible.
func bestQuote(quotes []VenueQuote) (VenueQuote, bool) {
	if len(quotes) == 0 {
		return VenueQuote{}, false
	}
	best := quotes[0]
	for _, q := range quotes[1:] {
		if q.Price > best.Price {
			best = q
		}
	}
	return best, true
}

// FindBest selects the venue pair maximising the round-trip return:
// buy where one base unit yields the most intermediate, sell where one
// intermediate unit yields the most base. Returns a nil candidate with a
// reason when there is no usable pair.
//
// Same-venue round trips are never arbitrage — they just walk a single
// pool's own curve and net negative after fees — so they are excluded.
func FindBest(buyQuotes, sellQuotes []VenueQuote, minSpreadPct float64) (*Candidate, string) {
	buy, ok := bestQuote(buyQuotes)
	if !ok {
		return nil, ReasonInsufficientData
	}
	sell, ok := bestQuote(sellQuotes)
	if !ok {
		return nil, ReasonInsufficientData
	}

	if buy.VenueID == sell.VenueID {
		return nil, ReasonSameVenue
	}

	// Round trip at a 1-unit probe: 1 base -> buy.Price intermediate ->
	// buy.Price*sell.Price base.
	spreadPct := (buy.Price*sell.Price - 1) * 100

	if spreadPct < minSpreadPct {
		return nil, ReasonSpreadBelowMin
	}

	return &Candidate{
		BuyVenue:  buy,
		SellVenue: sell,
		SpreadPct: spreadPct,
	}, ""
}
