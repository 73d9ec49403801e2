package scanner

import "math"

// Normalize drops quotes that cannot feed the spread finder: non-positive,
// NaN or infinite prices. Zero reserves and failed decimal math upstream all
// surface here as one of those three, so nothing non-finite gets past this
// point. An empty result is not an error; downstream treats it as
// insufficient data.
func Normalize(raw []VenueQuote) []VenueQuote {
	out := make([]VenueQuote, 0, len(raw))
	for _, q := range raw {
		if q.Price <= 0 || math.IsNaN(q.Price) || math.IsInf(q.Price, 0) {
			continue
		}
		out = append(out, q)
	}
	return out
}
