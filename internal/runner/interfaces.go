package runner

import (
	"context"

	"github.com/Adda-Baaj/shifter-go/pkg/httpclient"
	"github.com/Adda-Baaj/shifter-go/pkg/publishers"
	"github.com/Adda-Baaj/shifter-go/pkg/scrapeapi"
)

// Scraper sends one query to the scraping API. *scrapeapi.Client satisfies it.
type Scraper interface {
	Do(ctx context.Context, method string, qb *scrapeapi.QueryBuilder) (httpclient.Response, error)
}

// ResultPublisher forwards results downstream. *publishers.Fanout satisfies it.
type ResultPublisher interface {
	Publish(ctx context.Context, res publishers.Result) (int, error)
}
