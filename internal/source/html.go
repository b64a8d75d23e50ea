package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"dealradar/helpers"
	"dealradar/internal/extract"
	"dealradar/logger"
	errs "dealradar/pkg/errors"
	"dealradar/services/cache"
)

// PageName is the source tag of the HTML scrape adapter
const PageName = "html_page"

// SelectorSet is one CSS-selector convention for a deals listing page
type SelectorSet struct {
	Card  string
	Title string
	Link  string
	Image string
	Price string
}

// DefaultSelectorSets lists the known markup conventions in preference
// order. Markup drift is expected; the first convention whose card selector
// matches anything wins, and zero matches everywhere is an empty result,
// not an error.
var DefaultSelectorSets = []SelectorSet{
	{
		Card:  "div.deal-card",
		Title: ".deal-title",
		Link:  "a.deal-link, a",
		Image: "img.deal-image, img",
		Price: ".deal-price",
	},
	{
		Card:  "li.product-item",
		Title: ".product-title, h3",
		Link:  "a",
		Image: "img",
		Price: ".price",
	},
	{
		Card:  "article.offer",
		Title: "h2 a, h2",
		Link:  "a",
		Image: "img",
		Price: ".offer-price, .price",
	},
}

// PageSource scrapes one HTML deals page with a small ordered set of
// candidate selector conventions
type PageSource struct {
	pageURL      string
	base         *url.URL
	selectorSets []SelectorSet
	cacheSvc     cache.CacheService
	cacheKey     string
	blockTime    time.Duration
	log          *logger.Logger
}

// NewPageSource creates a new HTML scrape source for the given page
func NewPageSource(pageURL string, cacheSvc cache.CacheService) *PageSource {
	base, _ := url.Parse(pageURL)

	return &PageSource{
		pageURL:      pageURL,
		base:         base,
		selectorSets: DefaultSelectorSets,
		cacheSvc:     cacheSvc,
		cacheKey:     "html_page_rate_limited",
		blockTime:    500 * time.Second,
		log:          logger.ForSource(PageName),
	}
}

// Name returns the source tag
func (s *PageSource) Name() string {
	return PageName
}

// Fetch downloads and parses the page, extracting one record per deal card
func (s *PageSource) Fetch(ctx context.Context, q Query) ([]RawRecord, error) {
	body, err := s.fetchWithBlock(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("html parse error: %w", err)
	}

	for _, set := range s.selectorSets {
		cards := doc.Find(set.Card)
		if cards.Length() == 0 {
			continue
		}

		var records []RawRecord
		cards.Each(func(i int, card *goquery.Selection) {
			if rec, ok := s.cardRecord(card, set); ok {
				records = append(records, rec)
			}
		})

		s.log.Debug().
			Str("card_selector", set.Card).
			Int("count", len(records)).
			Msg("Extracted deal cards")
		return records, nil
	}

	// No convention matched; treat markup drift as an empty result
	s.log.Warn().Str("url", s.pageURL).Msg("No selector convention matched the page")
	return []RawRecord{}, nil
}

// fetchWithBlock fetches the page unless a previous rate limit rejection is
// still in effect, in which case the source sits the request out
func (s *PageSource) fetchWithBlock(ctx context.Context) (io.Reader, error) {
	if s.cacheSvc != nil && s.cacheKey != "" {
		if _, cacheErr := s.cacheSvc.Get(s.cacheKey); cacheErr == nil {
			return nil, errs.NewRateLimit(PageName, s.blockTime)
		}
	}

	utf8Body, err := helpers.FetchWithRandomHeaders(ctx, s.pageURL)
	if err != nil {
		if s.cacheSvc != nil && s.cacheKey != "" && helpers.IsRateLimited(err) {
			s.cacheSvc.Set(s.cacheKey, []byte(fmt.Sprintf("%d", int(s.blockTime.Seconds()))), s.blockTime)
		}
		return nil, err
	}

	return utf8Body, nil
}

// cardRecord extracts one raw record from a deal card selection
func (s *PageSource) cardRecord(card *goquery.Selection, set SelectorSet) (RawRecord, bool) {
	title := s.cardTitle(card, set)
	if title == "" {
		return RawRecord{}, false
	}

	link := s.cardLink(card, set)
	if link == "" {
		return RawRecord{}, false
	}

	rec := RawRecord{
		Title: title,
		Link:  link,
	}

	if src, exists := card.Find(set.Image).Attr("src"); exists {
		rec.Image = s.resolveURL(strings.TrimSpace(src))
	}

	priceText := strings.TrimSpace(card.Find(set.Price).Text())
	if priceText == "" {
		priceText = title
	}
	if price, oldPrice, ok := extract.Price(priceText); ok {
		rec.Price = price
		rec.OldPrice = oldPrice
	}

	return rec, true
}

func (s *PageSource) cardTitle(card *goquery.Selection, set SelectorSet) string {
	titleSel := card.Find(set.Title)
	if titleSel.Length() == 0 {
		return ""
	}

	if titleAttr, exists := titleSel.Attr("title"); exists && titleAttr != "" {
		return strings.TrimSpace(titleAttr)
	}
	return strings.TrimSpace(titleSel.First().Text())
}

func (s *PageSource) cardLink(card *goquery.Selection, set SelectorSet) string {
	linkSel := card.Find(set.Link)
	if linkSel.Length() == 0 {
		return ""
	}

	href, exists := linkSel.First().Attr("href")
	if !exists {
		return ""
	}
	return s.resolveURL(strings.TrimSpace(href))
}

// resolveURL resolves absolute, root-relative, path-relative, and
// protocol-relative hrefs against the page URL
func (s *PageSource) resolveURL(href string) string {
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() || s.base == nil {
		return ref.String()
	}
	return s.base.ResolveReference(ref).String()
}
