package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dealradar/internal/aggregator"
	"dealradar/internal/source"
)

// stubSource implements source.Source for handler tests
type stubSource struct {
	name    string
	records []source.RawRecord
}

func (s *stubSource) Name() string {
	return s.name
}

func (s *stubSource) Fetch(ctx context.Context, q source.Query) ([]source.RawRecord, error) {
	return s.records, nil
}

func TestDealsHandler(t *testing.T) {
	src := &stubSource{
		name: "amazon_search",
		records: []source.RawRecord{
			{NativeID: "B0A", Title: "Widget A", Link: "https://x/1", Price: 80, OldPrice: 100},
			{NativeID: "B0B", Title: "Widget B", Link: "https://x/2", Price: 95, OldPrice: 100},
		},
	}
	collector := aggregator.NewCollector([]source.Source{src}, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/api/deals?q=widgets&minDiscount=10&sort=price_asc", nil)
	rec := httptest.NewRecorder()
	dealsHandler(collector)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp aggregator.Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "widgets", resp.Meta.Query)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "Widget A", resp.Data[0].Title)
}

func TestDealsHandlerAlwaysSucceeds(t *testing.T) {
	// No sources configured at all: the endpoint still answers 200 with
	// the fallback set
	collector := aggregator.NewCollector(nil, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/api/deals", nil)
	rec := httptest.NewRecorder()
	dealsHandler(collector)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp aggregator.Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data)
	assert.Equal(t, "fallback", resp.Data[0].Source)
}

func TestProductHandlerMissingID(t *testing.T) {
	products := aggregator.NewProductClient("test-key", "https://example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/product/", nil)
	rec := httptest.NewRecorder()
	productHandler(products)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandlerMissingCredentials(t *testing.T) {
	products := aggregator.NewProductClient("", "https://example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/product/B0X", nil)
	rec := httptest.NewRecorder()
	productHandler(products)(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	healthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestParamHelpers(t *testing.T) {
	assert.Equal(t, 7, intParam("7", 1))
	assert.Equal(t, 1, intParam("", 1))
	assert.Equal(t, 1, intParam("junk", 1))
	assert.Equal(t, 99.5, floatParam("99.5"))
	assert.Equal(t, float64(0), floatParam("junk"))
}
