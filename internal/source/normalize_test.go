package source

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dealradar/internal/extract"
)

func TestNormalizeMapsStructuredRecord(t *testing.T) {
	records := []RawRecord{
		{
			NativeID: "B0WIDGET",
			Title:    "Widget",
			Link:     "https://x/1",
			Price:    80,
			OldPrice: 100,
		},
	}

	deals, dropped := Normalize(records, "amazon_search")

	assert.Equal(t, 0, dropped)
	assert.Len(t, deals, 1)

	d := deals[0]
	assert.Equal(t, "B0WIDGET", d.ID)
	assert.False(t, d.IDGenerated)
	assert.Equal(t, float64(80), d.Price)
	assert.Equal(t, float64(100), d.OldPrice)
	assert.Equal(t, 20, d.DiscountPercent)
	assert.Equal(t, "https://x/1", d.Link)
	assert.Equal(t, "amazon_search", d.Source)
	assert.False(t, d.Timestamp.IsZero())
	// Description defaults to the title
	assert.Equal(t, "Widget", d.Description)
}

func TestNormalizeDropsUnresolvableRecords(t *testing.T) {
	records := []RawRecord{
		{Title: "No link at all"},
		{Title: "Relative link", Link: "/deals/1"},
		{Title: "Not http", Link: "ftp://example.com/x"},
		{Link: "https://example.com/no-title"},
		{Title: "Keeper", Link: "https://example.com/ok"},
	}

	deals, dropped := Normalize(records, "rss")

	assert.Equal(t, 4, dropped)
	assert.Len(t, deals, 1)
	assert.Equal(t, "Keeper", deals[0].Title)
}

func TestNormalizeGeneratesIDs(t *testing.T) {
	records := []RawRecord{
		{Title: "First", Link: "https://example.com/1"},
		{Title: "Second", Link: "https://example.com/2"},
	}

	deals, _ := Normalize(records, "rss")

	assert.Len(t, deals, 2)
	assert.Equal(t, "rss_1", deals[0].ID)
	assert.Equal(t, "rss_2", deals[1].ID)
	assert.True(t, deals[0].IDGenerated)
	assert.Equal(t, "link:https://example.com/1", deals[0].DedupeKey())
}

func TestNormalizeNeverTrustsUpstreamDiscount(t *testing.T) {
	// Old price below current price yields zero discount, not a negative one
	records := []RawRecord{
		{Title: "Odd pricing", Link: "https://example.com/odd", Price: 100, OldPrice: 50},
	}

	deals, _ := Normalize(records, "rss")

	assert.Len(t, deals, 1)
	assert.Equal(t, float64(100), deals[0].Price)
	assert.Equal(t, float64(100), deals[0].OldPrice)
	assert.Equal(t, 0, deals[0].DiscountPercent)
}

func TestNormalizeInfersStore(t *testing.T) {
	records := []RawRecord{
		{Title: "Amazon item", Link: "https://www.amazon.in/dp/B0X"},
		{Title: "Unknown merchant", Link: "https://blog.example.com/post"},
	}

	deals, _ := Normalize(records, "rss")

	assert.Len(t, deals, 2)
	assert.Equal(t, "amazon", deals[0].Store)
	assert.Equal(t, "rss", deals[1].Store)
}

func TestNormalizeDiscountInvariant(t *testing.T) {
	records := []RawRecord{
		{Title: "a", Link: "https://e.com/a", Price: 1, OldPrice: 100000},
		{Title: "b", Link: "https://e.com/b", Price: 0, OldPrice: 100},
		{Title: "c", Link: "https://e.com/c", Price: 50, OldPrice: 50},
	}

	deals, _ := Normalize(records, "test")

	for _, d := range deals {
		assert.GreaterOrEqual(t, d.DiscountPercent, 0)
		assert.LessOrEqual(t, d.DiscountPercent, 100)
		assert.Equal(t, extract.DiscountPercent(d.Price, d.OldPrice), d.DiscountPercent)
	}
}
