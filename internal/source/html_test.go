package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"

	errs "dealradar/pkg/errors"
)

const primaryConventionHTML = `<!DOCTYPE html>
<html><body>
	<div class="deal-card">
		<h3 class="deal-title">Widget A</h3>
		<a class="deal-link" href="/deals/widget-a">View</a>
		<img class="deal-image" src="/img/widget-a.jpg" />
		<span class="deal-price">₹499 (was ₹999)</span>
	</div>
	<div class="deal-card">
		<h3 class="deal-title">Widget B for $20</h3>
		<a class="deal-link" href="https://shop.example.com/widget-b">View</a>
	</div>
	<div class="deal-card">
		<h3 class="deal-title">Cardless orphan without a link</h3>
	</div>
</body></html>`

const altConventionHTML = `<!DOCTYPE html>
<html><body><ul>
	<li class="product-item">
		<h3>Gadget C</h3>
		<a href="//cdn.example.com/gadget-c">View</a>
		<span class="price">$15.99 $31.99</span>
	</li>
</ul></body></html>`

func TestPageSourcePrimaryConvention(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(primaryConventionHTML))
	}))
	defer server.Close()

	src := NewPageSource(server.URL+"/deals", nil)
	records, err := src.Fetch(context.Background(), Query{Keywords: "deals", Page: 1})

	assert.NoError(t, err)
	// The card without a link is skipped
	assert.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Widget A", first.Title)
	assert.Equal(t, server.URL+"/deals/widget-a", first.Link)
	assert.Equal(t, server.URL+"/img/widget-a.jpg", first.Image)
	assert.Equal(t, float64(499), first.Price)
	assert.Equal(t, float64(999), first.OldPrice)

	// No price node: the title is the price text of last resort
	second := records[1]
	assert.Equal(t, float64(20), second.Price)
	assert.Equal(t, "https://shop.example.com/widget-b", second.Link)
}

func TestPageSourceFallsBackToSecondConvention(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(altConventionHTML))
	}))
	defer server.Close()

	src := NewPageSource(server.URL, nil)
	records, err := src.Fetch(context.Background(), Query{Keywords: "deals", Page: 1})

	assert.NoError(t, err)
	assert.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Gadget C", rec.Title)
	// Protocol-relative hrefs pick up the page's scheme
	assert.Equal(t, "http://cdn.example.com/gadget-c", rec.Link)
	assert.Equal(t, 15.99, rec.Price)
	assert.Equal(t, 31.99, rec.OldPrice)
}

func TestPageSourceMarkupDriftYieldsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Totally different markup</p></body></html>`))
	}))
	defer server.Close()

	src := NewPageSource(server.URL, nil)
	records, err := src.Fetch(context.Background(), Query{Keywords: "deals", Page: 1})

	assert.NoError(t, err, "selector drift is an empty result, not an error")
	assert.Empty(t, records)
}

func TestPageSourceRateLimitBlocking(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	mockCache := newMockCacheService()
	src := NewPageSource(server.URL, mockCache)

	_, err := src.Fetch(context.Background(), Query{})
	assert.Error(t, err)

	// The block is cached; the second fetch never reaches the server
	_, err = src.Fetch(context.Background(), Query{})
	assert.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeRateLimit))
	assert.Equal(t, 1, hits)
}

func TestResolveURL(t *testing.T) {
	src := NewPageSource("https://example.com/deals/", nil)

	assert.Equal(t, "https://example.com/deals/widget-c", src.resolveURL("widget-c"))
	assert.Equal(t, "https://example.com/widget-d", src.resolveURL("/widget-d"))
	assert.Equal(t, "https://cdn.example.com/i.jpg", src.resolveURL("//cdn.example.com/i.jpg"))
	assert.Equal(t, "https://shop.example.com/x", src.resolveURL("https://shop.example.com/x"))
	assert.Equal(t, "", src.resolveURL(""))
}

func TestCardRecordExtraction(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(primaryConventionHTML))
	assert.NoError(t, err)

	src := NewPageSource("https://example.com/deals", nil)
	set := DefaultSelectorSets[0]

	rec, ok := src.cardRecord(doc.Find(set.Card).First(), set)
	assert.True(t, ok)
	assert.Equal(t, "Widget A", rec.Title)
	assert.Equal(t, "https://example.com/deals/widget-a", rec.Link)
}
