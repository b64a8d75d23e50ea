package deal

import "time"

// FallbackSource tags placeholder deals returned when every live source fails
const FallbackSource = "fallback"

// Deal represents one normalized discounted offer. A Deal is built once by
// the normalizer and never mutated afterward.
type Deal struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Link            string    `json:"link"`
	Store           string    `json:"store"`
	Image           string    `json:"image"`
	Price           float64   `json:"price"`
	OldPrice        float64   `json:"old_price"`
	DiscountPercent int       `json:"discount_percent"`
	Stars           *float64  `json:"stars"`
	TotalReviews    int       `json:"total_reviews"`
	Source          string    `json:"source"`
	Timestamp       time.Time `json:"timestamp"`

	// IDGenerated marks ids the normalizer had to make up. Generated ids
	// are not stable across sources, so deduplication keys on the link
	// instead.
	IDGenerated bool `json:"-"`
}

// DedupeKey returns the key used to collapse duplicates of the same offer
func (d Deal) DedupeKey() string {
	if d.ID != "" && !d.IDGenerated {
		return "id:" + d.ID
	}
	return "link:" + d.Link
}

// Rating returns the star rating, or 0 when the source had none
func (d Deal) Rating() float64 {
	if d.Stars == nil {
		return 0
	}
	return *d.Stars
}

// Fallback returns the static placeholder set served when all live sources
// fail or yield nothing. Callers always receive a well-formed, non-empty
// response shape.
func Fallback() []Deal {
	return []Deal{
		{
			ID:           "demo_1",
			Title:        "Demo Amazon Deal",
			Description:  "Fallback deal while upstream sources are unavailable",
			Link:         "https://www.amazon.in/",
			Store:        "amazon",
			Image:        "",
			Price:        0,
			OldPrice:     0,
			TotalReviews: 0,
			Source:       FallbackSource,
			Timestamp:    time.Now(),
		},
	}
}
