package aggregator

import (
	"context"
	"sync"
	"time"

	"dealradar/internal/deal"
	"dealradar/internal/source"
	"dealradar/logger"
)

// Meta echoes the query parameters alongside result counts
type Meta struct {
	Query       string  `json:"query"`
	Page        int     `json:"page"`
	MinDiscount int     `json:"min_discount"`
	MaxPrice    float64 `json:"max_price,omitempty"`
	Sort        string  `json:"sort"`
	Limit       int     `json:"limit"`
	Total       int     `json:"total"`
	Returned    int     `json:"returned"`
}

// Response is the aggregation result handed to the HTTP layer
type Response struct {
	Meta Meta        `json:"meta"`
	Data []deal.Deal `json:"data"`
}

// Collector fans a query out to every configured source, merges and
// deduplicates the results, and applies the caller's query options. Source
// failures degrade the data, never the request: CollectDeals cannot fail.
type Collector struct {
	sources []source.Source
	timeout time.Duration
	log     *logger.Logger
}

// NewCollector creates a collector over sources listed in priority order
func NewCollector(sources []source.Source, timeout time.Duration) *Collector {
	return &Collector{
		sources: sources,
		timeout: timeout,
		log:     logger.ForAggregator(),
	}
}

// CollectDeals runs every source concurrently and returns the merged,
// deduplicated, filtered result set. When the union is empty the static
// fallback set is served instead, bypassing the query engine.
func (c *Collector) CollectDeals(ctx context.Context, q source.Query, opts Options) Response {
	if q.Keywords == "" {
		q.Keywords = "deals"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	opts = opts.withDefaults()

	// One result slot per source; slot order, not completion order,
	// decides dedup priority.
	slots := make([][]source.RawRecord, len(c.sources))

	var wg sync.WaitGroup
	for i, src := range c.sources {
		wg.Add(1)
		go func(i int, src source.Source) {
			defer wg.Done()

			sctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			records, err := src.Fetch(sctx, q)
			if err != nil {
				// An erroring source contributes zero records
				c.log.Warn().Err(err).Str("source", src.Name()).Msg("Source fetch failed")
				return
			}
			slots[i] = records
		}(i, src)
	}
	wg.Wait()

	var all []deal.Deal
	for i, src := range c.sources {
		deals, dropped := source.Normalize(slots[i], src.Name())
		if dropped > 0 {
			c.log.Debug().Str("source", src.Name()).Int("dropped", dropped).Msg("Dropped invalid records")
		}
		all = append(all, deals...)
	}

	merged := Deduplicate(all)

	meta := Meta{
		Query:       q.Keywords,
		Page:        q.Page,
		MinDiscount: opts.MinDiscount,
		MaxPrice:    opts.MaxPrice,
		Sort:        opts.Sort,
		Limit:       opts.Limit,
	}

	if len(merged) == 0 {
		fallback := deal.Fallback()
		meta.Total = len(fallback)
		meta.Returned = len(fallback)
		c.log.Warn().Str("query", q.Keywords).Msg("All sources empty, serving fallback deals")
		return Response{Meta: meta, Data: fallback}
	}

	pageDeals, total := opts.Apply(merged)
	meta.Total = total
	meta.Returned = len(pageDeals)

	c.log.Info().
		Str("query", q.Keywords).
		Int("merged", len(merged)).
		Int("total", total).
		Int("returned", len(pageDeals)).
		Msg("Collected deals")

	return Response{Meta: meta, Data: pageDeals}
}
