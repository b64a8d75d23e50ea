package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dealradar/logger"
	errs "dealradar/pkg/errors"
	"dealradar/services/cache"
)

// AmazonSearchName is the source tag of the structured search adapter
const AmazonSearchName = "amazon_search"

const searchCacheTTL = 5 * time.Minute

// AmazonSearchSource fetches deals from the ScraperAPI structured Amazon
// search endpoint. An empty or missing result array is a soft failure
// (empty slice, nil error); only transport problems surface as errors.
type AmazonSearchSource struct {
	apiKey   string
	domain   string
	endpoint string
	client   *http.Client
	cacheSvc cache.CacheService
	log      *logger.Logger
}

// NewAmazonSearchSource creates a new structured search source. The API key
// must be non-empty; the factory skips construction when it is missing.
func NewAmazonSearchSource(apiKey, domain, endpoint string, cacheSvc cache.CacheService) *AmazonSearchSource {
	return &AmazonSearchSource{
		apiKey:   apiKey,
		domain:   domain,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		cacheSvc: cacheSvc,
		log:      logger.ForSource(AmazonSearchName),
	}
}

// Name returns the source tag
func (s *AmazonSearchSource) Name() string {
	return AmazonSearchName
}

// flexFloat decodes a JSON number, a quoted number, or null; anything else
// falls back to 0 so one malformed field never drops the whole response.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(data, `"`)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type searchRow struct {
	Type          string    `json:"type"`
	ASIN          string    `json:"asin"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	Image         string    `json:"image"`
	Price         flexFloat `json:"price"`
	OriginalPrice struct {
		Price flexFloat `json:"price"`
	} `json:"original_price"`
	Stars                  *flexFloat `json:"stars"`
	TotalReviews           flexFloat  `json:"total_reviews"`
	PurchaseHistoryMessage string     `json:"purchase_history_message"`
}

type searchResponse struct {
	Results       []searchRow `json:"results"`
	SearchResults []searchRow `json:"search_results"`
}

// Fetch issues one paginated search request and maps product rows to raw
// records
func (s *AmazonSearchSource) Fetch(ctx context.Context, q Query) ([]RawRecord, error) {
	body, err := s.fetchBody(ctx, q)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Shape problems degrade to an empty contribution
		s.log.Warn().Err(err).Msg("Unexpected search response shape")
		return []RawRecord{}, nil
	}

	rows := parsed.Results
	if len(rows) == 0 {
		rows = parsed.SearchResults
	}
	if len(rows) == 0 {
		s.log.Warn().Str("query", q.Keywords).Msg("No search results")
		return []RawRecord{}, nil
	}

	records := make([]RawRecord, 0, len(rows))
	for _, row := range rows {
		if row.Type != "search_product" {
			continue
		}

		rec := RawRecord{
			NativeID:     row.ASIN,
			Title:        row.Name,
			Link:         row.URL,
			Image:        row.Image,
			Price:        float64(row.Price),
			OldPrice:     float64(row.OriginalPrice.Price),
			TotalReviews: int(row.TotalReviews),
			Store:        "amazon",
		}
		if row.Stars != nil {
			stars := float64(*row.Stars)
			rec.Stars = &stars
		}

		rec.Description = strings.TrimSpace(row.PurchaseHistoryMessage)
		if rec.Description == "" {
			rec.Description = fmt.Sprintf("Rating: %s • Reviews: %d", formatStars(rec.Stars), rec.TotalReviews)
		}

		records = append(records, rec)
	}

	s.log.Debug().Int("count", len(records)).Msg("Mapped search rows")
	return records, nil
}

// fetchBody returns the search response body, consulting the short-TTL
// response cache first
func (s *AmazonSearchSource) fetchBody(ctx context.Context, q Query) ([]byte, error) {
	cacheKey := fmt.Sprintf("amazon_search:%s:%d", q.Keywords, q.Page)
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.Get(cacheKey); err == nil {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("query", q.Keywords)
	params.Set("amazon_domain", s.domain)
	params.Set("page", strconv.Itoa(q.Page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errs.NewTransport(AmazonSearchName, "failed to create request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errs.NewTransport(AmazonSearchName, "search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewTransport(AmazonSearchName, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewTransport(AmazonSearchName, "failed to read response body", err)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.Set(cacheKey, body, searchCacheTTL); err != nil {
			s.log.Debug().Err(err).Msg("Failed to cache search response")
		}
	}

	return body, nil
}

func formatStars(stars *float64) string {
	if stars == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*stars, 'f', -1, 64)
}
