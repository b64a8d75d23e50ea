package source

import (
	"context"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"dealradar/internal/extract"
	"dealradar/logger"
	errs "dealradar/pkg/errors"
)

// FeedName is the source tag of the RSS adapter
const FeedName = "rss"

var (
	// dealVocabulary filters out non-deal editorial posts
	dealVocabulary = regexp.MustCompile(`(?i)\b(deal|deals|offer|offers|discount|discounts|coupon|coupons|sale|cashback|price\s+drop)\b|\d+%\s*off`)

	// feedBoilerplate matches attribution footers appended by feed generators
	feedBoilerplate = regexp.MustCompile(`(?s)\s*The post\b.*?\bappeared first on\b.*$`)

	htmlTag = regexp.MustCompile(`<[^>]*>`)
)

// FeedSource aggregates deal posts from one or more RSS/Atom feeds. Feeds
// are fetched independently; one feed's failure never aborts the others.
type FeedSource struct {
	feedURLs []string
	parser   *gofeed.Parser
	log      *logger.Logger
}

// NewFeedSource creates a new RSS source over the given feed URLs
func NewFeedSource(feedURLs []string) *FeedSource {
	parser := gofeed.NewParser()
	parser.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"

	return &FeedSource{
		feedURLs: feedURLs,
		parser:   parser,
		log:      logger.ForSource(FeedName),
	}
}

// Name returns the source tag
func (s *FeedSource) Name() string {
	return FeedName
}

// Fetch parses every configured feed and yields the items that pass the
// deal-relevance filter. It returns an error only when every feed failed.
func (s *FeedSource) Fetch(ctx context.Context, q Query) ([]RawRecord, error) {
	var records []RawRecord
	failures := 0
	var lastErr error

	for _, feedURL := range s.feedURLs {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			failures++
			lastErr = err
			s.log.Warn().Err(err).Str("feed", feedURL).Msg("Feed fetch failed")
			continue
		}

		for _, item := range feed.Items {
			if rec, ok := s.itemRecord(item); ok {
				records = append(records, rec)
			}
		}
	}

	if failures == len(s.feedURLs) && failures > 0 {
		return nil, errs.NewTransport(FeedName, "all feeds failed", lastErr)
	}

	s.log.Debug().Int("count", len(records)).Msg("Collected feed items")
	return records, nil
}

// itemRecord converts one feed item into a raw record, or reports false for
// items that do not look like deals
func (s *FeedSource) itemRecord(item *gofeed.Item) (RawRecord, bool) {
	title := strings.TrimSpace(item.Title)
	description := CleanFeedDescription(item.Description)

	if title == "" || !dealVocabulary.MatchString(title+" "+description) {
		return RawRecord{}, false
	}

	rec := RawRecord{
		Title:       title,
		Description: description,
		Link:        strings.TrimSpace(item.Link),
	}

	// A GUID that is just a permalink is no identity at all; leaving the
	// native id empty makes deduplication key on the link, which is what
	// catches a feed item duplicating an API-sourced deal.
	if guid := strings.TrimSpace(item.GUID); guid != "" && !strings.Contains(guid, "://") {
		rec.NativeID = guid
	}

	if item.Image != nil {
		rec.Image = item.Image.URL
	}

	if price, oldPrice, ok := extract.Price(title + " " + description); ok {
		rec.Price = price
		rec.OldPrice = oldPrice
	}

	return rec, true
}

// CleanFeedDescription strips markup and feed-generator boilerplate from an
// item description
func CleanFeedDescription(description string) string {
	cleaned := htmlTag.ReplaceAllString(description, " ")
	cleaned = feedBoilerplate.ReplaceAllString(cleaned, "")
	return strings.Join(strings.Fields(cleaned), " ")
}
