package aggregator

import (
	"sort"

	"dealradar/internal/deal"
)

// Sort orders accepted by the query engine
const (
	SortDiscountDesc = "discount_desc"
	SortPriceAsc     = "price_asc"
	SortPriceDesc    = "price_desc"
	SortRatingDesc   = "rating_desc"
)

const defaultLimit = 20

// Options are the caller-supplied filter, sort, and pagination parameters
type Options struct {
	MinDiscount int
	MaxPrice    float64
	Sort        string
	Limit       int
	Page        int
}

// withDefaults normalizes out-of-range option values
func (o Options) withDefaults() Options {
	if o.MinDiscount < 0 {
		o.MinDiscount = 0
	}
	if o.MaxPrice < 0 {
		o.MaxPrice = 0
	}
	switch o.Sort {
	case SortDiscountDesc, SortPriceAsc, SortPriceDesc, SortRatingDesc:
	default:
		o.Sort = SortDiscountDesc
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if o.Page < 1 {
		o.Page = 1
	}
	return o
}

// Apply filters, sorts, and paginates the merged deal set. It returns the
// requested page and the post-filter, pre-limit total.
func (o Options) Apply(deals []deal.Deal) ([]deal.Deal, int) {
	o = o.withDefaults()

	filtered := make([]deal.Deal, 0, len(deals))
	for _, d := range deals {
		if d.DiscountPercent < o.MinDiscount {
			continue
		}
		if o.MaxPrice > 0 && (d.Price <= 0 || d.Price > o.MaxPrice) {
			continue
		}
		filtered = append(filtered, d)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch o.Sort {
		case SortPriceAsc:
			return a.Price < b.Price
		case SortPriceDesc:
			return a.Price > b.Price
		case SortRatingDesc:
			return a.Rating() > b.Rating()
		default:
			return a.DiscountPercent > b.DiscountPercent
		}
	})

	total := len(filtered)
	offset := (o.Page - 1) * o.Limit
	if offset >= total {
		return []deal.Deal{}, total
	}

	end := offset + o.Limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total
}
