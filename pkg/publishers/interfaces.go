package publishers

import "context"

// Publisher sends scrape results to a downstream sink (stdout, HTTP, SQS, SNS, Pub/Sub).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, res Result) error
}
