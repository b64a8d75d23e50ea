package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dealradar/internal/deal"
)

func TestDeduplicateFirstSeenWins(t *testing.T) {
	deals := []deal.Deal{
		{ID: "a1", Title: "Widget A", Link: "https://x/1", IDGenerated: true, Source: "amazon_search"},
		{ID: "rss_1", Title: "Widget A (RSS)", Link: "https://x/1", IDGenerated: true, Source: "rss"},
		{ID: "rss_2", Title: "Widget B", Link: "https://x/2", IDGenerated: true, Source: "rss"},
	}

	merged := Deduplicate(deals)

	assert.Len(t, merged, 2)
	assert.Equal(t, "Widget A", merged[0].Title, "higher-priority source wins the shared link")
	assert.Equal(t, "Widget B", merged[1].Title)
}

func TestDeduplicateMixedNativeIDAndLink(t *testing.T) {
	// The winner carries a native id, the duplicate only shares its link;
	// the two must still collide on the link
	deals := []deal.Deal{
		{ID: "B0A", Title: "Widget A", Link: "https://x/1", Source: "amazon_search"},
		{ID: "rss_1", Title: "Widget A (RSS)", Link: "https://x/1", IDGenerated: true, Source: "rss"},
		{ID: "rss_2", Title: "Widget B", Link: "https://x/2", IDGenerated: true, Source: "rss"},
	}

	merged := Deduplicate(deals)

	assert.Len(t, merged, 2)
	assert.Equal(t, "Widget A", merged[0].Title)
	assert.Equal(t, "amazon_search", merged[0].Source)
	assert.Equal(t, "Widget B", merged[1].Title)
}

func TestDeduplicateKeysNativeIDOverLink(t *testing.T) {
	deals := []deal.Deal{
		{ID: "B0X", Title: "First listing", Link: "https://x/1"},
		{ID: "B0X", Title: "Same product, different page", Link: "https://x/1?ref=alt"},
		{ID: "B0Y", Title: "Other product", Link: "https://x/2"},
	}

	merged := Deduplicate(deals)

	assert.Len(t, merged, 2)
	assert.Equal(t, "First listing", merged[0].Title)
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	deals := []deal.Deal{
		{ID: "B0X", Link: "https://x/1"},
		{ID: "B0X", Link: "https://x/1"},
		{ID: "gen_1", Link: "https://x/2", IDGenerated: true},
		{ID: "gen_2", Link: "https://x/2", IDGenerated: true},
	}

	once := Deduplicate(deals)
	twice := Deduplicate(once)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 2)
}
