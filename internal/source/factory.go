package source

import (
	"dealradar/config"
	"dealradar/logger"
	"dealradar/services/cache"
)

// CreateSources builds the configured sources in deduplication priority
// order: the structured API first, then the RSS feeds, then the HTML page.
// A source whose configuration is missing is skipped with a warning, so a
// missing credential degrades that source to "contributes nothing" instead
// of failing startup.
func CreateSources(cfg *config.Config, cacheSvc cache.CacheService) []Source {
	var sources []Source

	if cfg.ScraperAPIKey != "" {
		sources = append(sources, NewAmazonSearchSource(cfg.ScraperAPIKey, cfg.AmazonDomain, cfg.SearchEndpoint, cacheSvc))
	} else {
		logger.Warn("SCRAPER_API_KEY missing, structured search source disabled")
	}

	if len(cfg.FeedURLs) > 0 {
		sources = append(sources, NewFeedSource(cfg.FeedURLs))
	}

	if cfg.DealsPageURL != "" {
		sources = append(sources, NewPageSource(cfg.DealsPageURL, cacheSvc))
	}

	logger.Info("Created %d deal sources", len(sources))
	return sources
}
