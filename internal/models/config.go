package models

// CampaignConfig is the single shared document holding every product of a deployment.
type CampaignConfig struct {
	DefaultLang       string                         `json:"default_lang"`
	ActiveProductSlug string                         `json:"active_product_slug"`
	Products          map[string]*ProductConfig      `json:"products"`
	Platforms         map[string]PlatformCredentials `json:"platforms,omitempty"`

	// Revision is bumped by the store on every successful write. It is only
	// compared against the stored value when optimistic locking is enabled.
	Revision int64 `json:"_rev,omitempty"`
}

// PlatformCredentials is the affiliate network connection state for one platform.
type PlatformCredentials struct {
	Connected bool              `json:"connected"`
	AccountID string            `json:"account_id,omitempty"`
	APIKey    string            `json:"api_key,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// NewCampaignConfig returns a structurally valid empty configuration.
func NewCampaignConfig() *CampaignConfig {
	return &CampaignConfig{
		DefaultLang: "en",
		Products:    map[string]*ProductConfig{},
		Platforms:   map[string]PlatformCredentials{},
	}
}

// Normalize fills nil maps so callers can mutate the document without checks.
func (c *CampaignConfig) Normalize() {
	if c.Products == nil {
		c.Products = map[string]*ProductConfig{}
	}
	if c.Platforms == nil {
		c.Platforms = map[string]PlatformCredentials{}
	}
	if c.DefaultLang == "" {
		c.DefaultLang = "en"
	}
}

// Product returns the product stored under slug, or nil.
func (c *CampaignConfig) Product(slug string) *ProductConfig {
	if c == nil || c.Products == nil {
		return nil
	}
	return c.Products[slug]
}
