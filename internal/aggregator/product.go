package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"dealradar/internal/extract"
	"dealradar/logger"
	errs "dealradar/pkg/errors"
)

// ProductSourceName tags single-product lookups in logs and results
const ProductSourceName = "amazon_product"

// pricingPattern pulls the numeric amount out of a currency-marked pricing
// string like "₹1,299.00"
var pricingPattern = regexp.MustCompile(`(?:₹|\$|£|€)\s*([\d,]+(?:\.\d+)?)`)

// ProductDetail is the result of a single-item structured lookup
type ProductDetail struct {
	ASIN            string   `json:"asin"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Images          []string `json:"images"`
	Image           string   `json:"image"`
	AverageRating   *float64 `json:"average_rating"`
	TotalReviews    int      `json:"total_reviews"`
	Price           float64  `json:"price"`
	RawPriceString  string   `json:"raw_price_string"`
	ProductCategory string   `json:"product_category"`
	Brand           string   `json:"brand"`
	BrandURL        string   `json:"brand_url"`
	FeatureBullets  []string `json:"feature_bullets"`
	Source          string   `json:"source"`
}

// ProductClient fetches one product from the ScraperAPI structured Amazon
// product endpoint. Unlike the aggregation pipeline there is no meaningful
// fallback for a specific requested product, so failures propagate.
type ProductClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      *logger.Logger
}

// NewProductClient creates a new product lookup client
func NewProductClient(apiKey, endpoint string) *ProductClient {
	return &ProductClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      logger.ForSource(ProductSourceName),
	}
}

type productResponse struct {
	Name               string   `json:"name"`
	SmallDescription   string   `json:"small_description"`
	FullDescription    string   `json:"full_description"`
	Images             []string `json:"images"`
	Pricing            string   `json:"pricing"`
	ListPrice          string   `json:"list_price"`
	AverageRating      *float64 `json:"average_rating"`
	TotalReviews       int      `json:"total_reviews"`
	ProductCategory    string   `json:"product_category"`
	Brand              string   `json:"brand"`
	BrandURL           string   `json:"brand_url"`
	FeatureBullets     []string `json:"feature_bullets"`
	ProductInformation struct {
		ASIN            string `json:"asin"`
		CustomerReviews struct {
			Stars        *float64 `json:"stars"`
			RatingsCount int      `json:"ratings_count"`
		} `json:"customer_reviews"`
	} `json:"product_information"`
}

// FetchProduct looks up one product by its id
func (c *ProductClient) FetchProduct(ctx context.Context, id, country, tld string) (*ProductDetail, error) {
	if id == "" {
		return nil, errs.NewValidation(ProductSourceName, "missing id")
	}
	if c.apiKey == "" {
		return nil, errs.NewConfiguration("missing credentials", nil)
	}

	if country == "" {
		country = "in"
	}
	if tld == "" {
		tld = "in"
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("asin", id)
	params.Set("country", country)
	params.Set("tld", tld)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errs.NewTransport(ProductSourceName, "failed to create request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errs.NewTransport(ProductSourceName, "product request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewTransport(ProductSourceName, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewTransport(ProductSourceName, "failed to read response body", err)
	}

	var parsed productResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.NewUpstreamShape(ProductSourceName, "unexpected product response shape", err)
	}

	detail := c.mapProduct(id, &parsed)
	c.log.Debug().Str("asin", detail.ASIN).Msg("Fetched product")
	return detail, nil
}

// mapProduct converts the upstream product payload into a ProductDetail
func (c *ProductClient) mapProduct(id string, parsed *productResponse) *ProductDetail {
	detail := &ProductDetail{
		ASIN:            parsed.ProductInformation.ASIN,
		Title:           parsed.Name,
		Description:     parsed.SmallDescription,
		Images:          parsed.Images,
		AverageRating:   parsed.AverageRating,
		TotalReviews:    parsed.TotalReviews,
		ProductCategory: parsed.ProductCategory,
		Brand:           parsed.Brand,
		BrandURL:        parsed.BrandURL,
		FeatureBullets:  parsed.FeatureBullets,
		Source:          ProductSourceName,
	}

	if detail.ASIN == "" {
		detail.ASIN = id
	}
	if detail.Title == "" {
		detail.Title = "Amazon Product"
	}
	if detail.Description == "" {
		detail.Description = parsed.FullDescription
	}
	if len(detail.Images) > 0 {
		detail.Image = detail.Images[0]
	}
	if detail.AverageRating == nil {
		detail.AverageRating = parsed.ProductInformation.CustomerReviews.Stars
	}
	if detail.TotalReviews == 0 {
		detail.TotalReviews = parsed.ProductInformation.CustomerReviews.RatingsCount
	}

	detail.RawPriceString = parsed.Pricing
	if detail.RawPriceString == "" {
		detail.RawPriceString = parsed.ListPrice
	}
	if m := pricingPattern.FindStringSubmatch(detail.RawPriceString); len(m) > 1 {
		detail.Price = extract.Amount(m[1])
	}

	return detail
}
