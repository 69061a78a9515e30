package events

import (
	"context"
	"time"
)

// Stream carrying ads lifecycle events to admin dashboards.
const StreamAds = "events:ads"

// Event types
const (
	EventAdsGenerated    = "ads_generated"
	EventAdsPublished    = "ads_published"
	EventProductsCleaned = "products_cleaned"
	EventProductCloned   = "product_cloned"
	EventProductChanged  = "product_changed"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
	At      time.Time      `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
