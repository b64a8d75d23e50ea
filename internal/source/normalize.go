package source

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"dealradar/internal/deal"
	"dealradar/internal/extract"
)

// Normalize maps a source's raw records into canonical Deals, tagging each
// with the source name as provenance. Records it cannot coerce into a valid
// Deal (no title, or no resolvable absolute link) are dropped and counted.
// It never returns an error.
func Normalize(records []RawRecord, sourceName string) ([]deal.Deal, int) {
	deals := make([]deal.Deal, 0, len(records))
	dropped := 0
	now := time.Now()

	for i, r := range records {
		title := strings.TrimSpace(r.Title)
		link := strings.TrimSpace(r.Link)
		if title == "" || !validLink(link) {
			dropped++
			continue
		}

		d := deal.Deal{
			Title:        title,
			Link:         link,
			Image:        strings.TrimSpace(r.Image),
			Stars:        r.Stars,
			TotalReviews: r.TotalReviews,
			Source:       sourceName,
			Timestamp:    now,
		}

		d.ID = strings.TrimSpace(r.NativeID)
		if d.ID == "" {
			d.ID = fmt.Sprintf("%s_%d", sourceName, i+1)
			d.IDGenerated = true
		}

		d.Description = strings.TrimSpace(r.Description)
		if d.Description == "" {
			d.Description = title
		}

		d.Store = strings.TrimSpace(r.Store)
		if d.Store == "" {
			d.Store = extract.Store(link, title+" "+d.Description, sourceName)
		}

		if r.Price > 0 {
			d.Price = r.Price
		}
		d.OldPrice = d.Price
		if r.OldPrice > d.Price {
			d.OldPrice = r.OldPrice
		}

		// Discount is always recomputed, never trusted from upstream
		d.DiscountPercent = extract.DiscountPercent(d.Price, d.OldPrice)

		deals = append(deals, d)
	}

	return deals, dropped
}

// validLink requires an absolute http(s) URL
func validLink(link string) bool {
	if link == "" {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
