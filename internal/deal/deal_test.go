package deal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeKey(t *testing.T) {
	native := Deal{ID: "B0X", Link: "https://x/1"}
	assert.Equal(t, "id:B0X", native.DedupeKey())

	generated := Deal{ID: "rss_1", Link: "https://x/1", IDGenerated: true}
	assert.Equal(t, "link:https://x/1", generated.DedupeKey())

	// Records sharing a link collapse regardless of generated ids
	other := Deal{ID: "html_page_7", Link: "https://x/1", IDGenerated: true}
	assert.Equal(t, generated.DedupeKey(), other.DedupeKey())
}

func TestRating(t *testing.T) {
	v := 4.5
	assert.Equal(t, 4.5, Deal{Stars: &v}.Rating())
	assert.Equal(t, float64(0), Deal{}.Rating())
}

func TestFallback(t *testing.T) {
	fallback := Fallback()

	assert.NotEmpty(t, fallback)
	for _, d := range fallback {
		assert.Equal(t, FallbackSource, d.Source)
		assert.NotEmpty(t, d.Title)
		assert.NotEmpty(t, d.Link)
		assert.Equal(t, float64(0), d.Price)
		assert.Equal(t, 0, d.DiscountPercent)
		assert.False(t, d.Timestamp.IsZero())
	}
}
