package adsplatform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleAdsOptions configures the REST client.
type GoogleAdsOptions struct {
	BaseURL         string
	APIVersion      string
	DeveloperToken  string
	LoginCustomerID string
	Timeout         time.Duration
}

// GoogleAdsClient talks to the Google Ads REST API.
type GoogleAdsClient struct {
	baseURL         string
	developerToken  string
	loginCustomerID string
	tokens          oauth2.TokenSource
	httpClient      *http.Client
	now             func() time.Time
	log             *zap.Logger
}

// RefreshTokenSource exchanges a stored refresh token for access tokens.
// Obtaining the refresh token itself happens outside this service.
func RefreshTokenSource(ctx context.Context, clientID, clientSecret, refreshToken string) oauth2.TokenSource {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://www.googleapis.com/auth/adwords"},
	}
	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
}

func NewGoogleAdsClient(opts GoogleAdsOptions, tokens oauth2.TokenSource, log *zap.Logger) *GoogleAdsClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.APIVersion == "" {
		opts.APIVersion = "v17"
	}
	return &GoogleAdsClient{
		baseURL:         strings.TrimRight(opts.BaseURL, "/") + "/" + opts.APIVersion,
		developerToken:  opts.DeveloperToken,
		loginCustomerID: NormalizeCustomerID(opts.LoginCustomerID),
		tokens:          oauth2.ReuseTokenSource(nil, tokens),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		now: time.Now,
		log: log,
	}
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *GoogleAdsClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	tok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("google ads token refresh failed: %w", err)
	}
	tok.SetAuthHeader(req)
	req.Header.Set("developer-token", c.developerToken)
	if c.loginCustomerID != "" {
		req.Header.Set("login-customer-id", c.loginCustomerID)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("google ads unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("google ads returned %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("google ads returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// search runs a GAQL query and follows pagination.
func (c *GoogleAdsClient) search(ctx context.Context, customerID, query string) ([]json.RawMessage, error) {
	customerID = NormalizeCustomerID(customerID)
	if customerID == "" {
		return nil, fmt.Errorf("customer id is required")
	}

	var rows []json.RawMessage
	pageToken := ""
	for {
		in := map[string]any{"query": query}
		if pageToken != "" {
			in["pageToken"] = pageToken
		}
		var out struct {
			Results       []json.RawMessage `json:"results"`
			NextPageToken string            `json:"nextPageToken"`
		}
		if err := c.do(ctx, http.MethodPost, "/customers/"+customerID+"/googleAds:search", in, &out); err != nil {
			return nil, err
		}
		rows = append(rows, out.Results...)
		if out.NextPageToken == "" {
			return rows, nil
		}
		pageToken = out.NextPageToken
	}
}

func (c *GoogleAdsClient) ListAccounts(ctx context.Context) ([]Account, error) {
	var out struct {
		ResourceNames []string `json:"resourceNames"`
	}
	if err := c.do(ctx, http.MethodGet, "/customers:listAccessibleCustomers", nil, &out); err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(out.ResourceNames))
	for _, rn := range out.ResourceNames {
		acc := Account{ResourceName: rn, CustomerID: strings.TrimPrefix(rn, "customers/")}

		rows, err := c.search(ctx, acc.CustomerID,
			"SELECT customer.descriptive_name, customer.currency_code, customer.time_zone, customer.manager FROM customer LIMIT 1")
		if err != nil {
			// Accounts the login customer cannot read details for are still listed.
			c.log.Debug("customer details unavailable", zap.String("customer_id", acc.CustomerID), zap.Error(err))
		} else if len(rows) > 0 {
			var row struct {
				Customer struct {
					DescriptiveName string `json:"descriptiveName"`
					CurrencyCode    string `json:"currencyCode"`
					TimeZone        string `json:"timeZone"`
					Manager         bool   `json:"manager"`
				} `json:"customer"`
			}
			if err := json.Unmarshal(rows[0], &row); err == nil {
				acc.Name = row.Customer.DescriptiveName
				acc.CurrencyCode = row.Customer.CurrencyCode
				acc.TimeZone = row.Customer.TimeZone
				acc.Manager = row.Customer.Manager
			}
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (c *GoogleAdsClient) ListCampaigns(ctx context.Context, customerID string) ([]CampaignSummary, error) {
	campaignRows, err := c.search(ctx, customerID,
		"SELECT campaign.id, campaign.name, campaign.status FROM campaign WHERE campaign.status != 'REMOVED' ORDER BY campaign.name")
	if err != nil {
		return nil, err
	}
	groupRows, err := c.search(ctx, customerID,
		"SELECT campaign.id, ad_group.id, ad_group.name, ad_group.status FROM ad_group WHERE ad_group.status != 'REMOVED' ORDER BY ad_group.name")
	if err != nil {
		return nil, err
	}

	type entity struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	}

	campaigns := make([]CampaignSummary, 0, len(campaignRows))
	index := map[string]int{}
	for _, raw := range campaignRows {
		var row struct {
			Campaign entity `json:"campaign"`
		}
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, err
		}
		index[row.Campaign.ID] = len(campaigns)
		campaigns = append(campaigns, CampaignSummary{
			ID:       row.Campaign.ID,
			Name:     row.Campaign.Name,
			Status:   row.Campaign.Status,
			AdGroups: []AdGroupSummary{},
		})
	}

	for _, raw := range groupRows {
		var row struct {
			Campaign entity `json:"campaign"`
			AdGroup  entity `json:"adGroup"`
		}
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, err
		}
		i, ok := index[row.Campaign.ID]
		if !ok {
			continue
		}
		campaigns[i].AdGroups = append(campaigns[i].AdGroups, AdGroupSummary{
			ID:     row.AdGroup.ID,
			Name:   row.AdGroup.Name,
			Status: row.AdGroup.Status,
		})
	}
	return campaigns, nil
}

func (c *GoogleAdsClient) GetMetrics(ctx context.Context, customerID string, days int) (*Metrics, error) {
	if days <= 0 {
		days = 30
	}
	end := c.now().UTC()
	start := end.AddDate(0, 0, -(days - 1))
	query := fmt.Sprintf(
		"SELECT metrics.impressions, metrics.clicks, metrics.cost_micros, metrics.conversions FROM customer WHERE segments.date BETWEEN '%s' AND '%s'",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	rows, err := c.search(ctx, customerID, query)
	if err != nil {
		return nil, err
	}

	m := &Metrics{CustomerID: NormalizeCustomerID(customerID), Days: days}
	for _, raw := range rows {
		// int64 fields are encoded as JSON strings by the REST API.
		var row struct {
			Metrics struct {
				Impressions string  `json:"impressions"`
				Clicks      string  `json:"clicks"`
				CostMicros  string  `json:"costMicros"`
				Conversions float64 `json:"conversions"`
			} `json:"metrics"`
		}
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, err
		}
		m.Impressions += parseInt64(row.Metrics.Impressions)
		m.Clicks += parseInt64(row.Metrics.Clicks)
		m.CostMicros += parseInt64(row.Metrics.CostMicros)
		m.Conversions += row.Metrics.Conversions
	}
	m.Cost = float64(m.CostMicros) / 1e6
	if m.Impressions > 0 {
		m.CTR = float64(m.Clicks) / float64(m.Impressions)
	}
	if m.Clicks > 0 {
		m.AvgCPC = m.Cost / float64(m.Clicks)
	}
	return m, nil
}

func (c *GoogleAdsClient) ListConversionActions(ctx context.Context, customerID string) ([]ConversionAction, error) {
	rows, err := c.search(ctx, customerID,
		"SELECT conversion_action.id, conversion_action.name, conversion_action.status, conversion_action.type, conversion_action.category FROM conversion_action WHERE conversion_action.status != 'REMOVED'")
	if err != nil {
		return nil, err
	}

	actions := make([]ConversionAction, 0, len(rows))
	for _, raw := range rows {
		var row struct {
			ConversionAction ConversionAction `json:"conversionAction"`
		}
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, err
		}
		actions = append(actions, row.ConversionAction)
	}
	return actions, nil
}

type textAsset struct {
	Text string `json:"text"`
}

func textAssets(lines []string) []textAsset {
	out := make([]textAsset, 0, len(lines))
	for _, l := range lines {
		out = append(out, textAsset{Text: l})
	}
	return out
}

func (c *GoogleAdsClient) PublishAd(ctx context.Context, req PublishRequest) (string, error) {
	customerID := NormalizeCustomerID(req.CustomerID)
	if customerID == "" || req.AdGroupID == "" {
		return "", fmt.Errorf("customer id and ad group id are required")
	}

	status := "ENABLED"
	if req.Paused {
		status = "PAUSED"
	}
	in := map[string]any{
		"operations": []any{map[string]any{
			"create": map[string]any{
				"adGroup": fmt.Sprintf("customers/%s/adGroups/%s", customerID, req.AdGroupID),
				"status":  status,
				"ad": map[string]any{
					"finalUrls": []string{req.FinalURL},
					"responsiveSearchAd": map[string]any{
						"headlines":    textAssets(req.Headlines),
						"descriptions": textAssets(req.Descriptions),
					},
				},
			},
		}},
	}

	var out struct {
		Results []struct {
			ResourceName string `json:"resourceName"`
		} `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/customers/"+customerID+"/adGroupAds:mutate", in, &out); err != nil {
		return "", err
	}
	if len(out.Results) == 0 || out.Results[0].ResourceName == "" {
		return "", fmt.Errorf("google ads returned no resource name")
	}

	c.log.Info("ad published",
		zap.String("customer_id", customerID),
		zap.String("ad_group_id", req.AdGroupID),
		zap.String("resource_name", out.Results[0].ResourceName),
	)
	return out.Results[0].ResourceName, nil
}

func parseInt64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
