package scanner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDropsDegenerateQuotes(t *testing.T) {
	raw := []VenueQuote{
		{VenueID: "a", Price: 3000},
		{VenueID: "b", Price: 0},
		{VenueID: "c", Price: -1},
		{VenueID: "d", Price: math.NaN()},
		{VenueID: "e", Price: math.Inf(1)},
		{VenueID: "f", Price: math.Inf(-1)},
		{VenueID: "g", Price: 2985.5},
	}

	got := Normalize(raw)

	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].VenueID)
	assert.Equal(t, "g", got[1].VenueID)
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []VenueQuote{
		{VenueID: "a", Price: 3000},
		{VenueID: "b", Price: math.NaN()},
		{VenueID: "c", Price: 0.000335},
	}

	once := Normalize(raw)
	twice := Normalize(once)

	assert.Equal(t, once, twice)
}

func TestNormalizeEmptyInput(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Normalize([]VenueQuote{}))
}
