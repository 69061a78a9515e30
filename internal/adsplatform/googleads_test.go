package adsplatform

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GoogleAdsClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGoogleAdsClient(GoogleAdsOptions{
		BaseURL:         srv.URL,
		APIVersion:      "v17",
		DeveloperToken:  "dev-token",
		LoginCustomerID: "111-222-3333",
		Timeout:         2 * time.Second,
	}, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "access", TokenType: "Bearer"}), zap.NewNop())
	c.now = func() time.Time { return time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC) }
	return c
}

func decodeQuery(t *testing.T, r *http.Request) string {
	t.Helper()
	var in struct {
		Query string `json:"query"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
	return in.Query
}

func TestPublishAd(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v17/customers/1234567890/adGroupAds:mutate", r.URL.Path)
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		assert.Equal(t, "dev-token", r.Header.Get("developer-token"))
		assert.Equal(t, "1112223333", r.Header.Get("login-customer-id"))

		var in struct {
			Operations []struct {
				Create struct {
					AdGroup string `json:"adGroup"`
					Status  string `json:"status"`
					Ad      struct {
						FinalURLs          []string `json:"finalUrls"`
						ResponsiveSearchAd struct {
							Headlines []struct {
								Text string `json:"text"`
							} `json:"headlines"`
						} `json:"responsiveSearchAd"`
					} `json:"ad"`
				} `json:"create"`
			} `json:"operations"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Len(t, in.Operations, 1)
		op := in.Operations[0].Create
		assert.Equal(t, "customers/1234567890/adGroups/55", op.AdGroup)
		assert.Equal(t, "PAUSED", op.Status)
		assert.Equal(t, []string{"https://amino.example.com"}, op.Ad.FinalURLs)
		assert.Equal(t, "Amino", op.Ad.ResponsiveSearchAd.Headlines[0].Text)

		_, _ = w.Write([]byte(`{"results":[{"resourceName":"customers/1234567890/adGroupAds/55~99"}]}`))
	})

	rn, err := c.PublishAd(t.Context(), PublishRequest{
		CustomerID:   "123-456-7890",
		AdGroupID:    "55",
		Headlines:    []string{"Amino", "Buy Amino"},
		Descriptions: []string{"Great"},
		FinalURL:     "https://amino.example.com",
		Paused:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "customers/1234567890/adGroupAds/55~99", rn)
}

func TestPublishAdSurfacesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Request contains an invalid argument.","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := c.PublishAd(t.Context(), PublishRequest{CustomerID: "1", AdGroupID: "2", FinalURL: "https://x.example.com"})
	require.Error(t, err)
	assert.Equal(t, "google ads returned 400: Request contains an invalid argument.", err.Error())
}

func TestPublishAdRequiresIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.PublishAd(t.Context(), PublishRequest{CustomerID: "1"})
	assert.Error(t, err)
}

func TestListAccounts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v17/customers:listAccessibleCustomers":
			_, _ = w.Write([]byte(`{"resourceNames":["customers/100","customers/200"]}`))
		case "/v17/customers/100/googleAds:search":
			_, _ = w.Write([]byte(`{"results":[{"customer":{"descriptiveName":"Main","currencyCode":"USD","timeZone":"UTC","manager":true}}]}`))
		case "/v17/customers/200/googleAds:search":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	accounts, err := c.ListAccounts(t.Context())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, Account{CustomerID: "100", ResourceName: "customers/100", Name: "Main", CurrencyCode: "USD", TimeZone: "UTC", Manager: true}, accounts[0])
	assert.Equal(t, "200", accounts[1].CustomerID)
	assert.Empty(t, accounts[1].Name)
}

func TestListCampaignsGroupsAdGroups(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := decodeQuery(t, r)
		switch {
		case strings.Contains(q, "FROM campaign "):
			_, _ = w.Write([]byte(`{"results":[
				{"campaign":{"id":"1","name":"Amino","status":"ENABLED"}},
				{"campaign":{"id":"2","name":"Keto","status":"PAUSED"}}]}`))
		case strings.Contains(q, "FROM ad_group"):
			_, _ = w.Write([]byte(`{"results":[
				{"campaign":{"id":"1"},"adGroup":{"id":"10","name":"Brand","status":"ENABLED"}},
				{"campaign":{"id":"1"},"adGroup":{"id":"11","name":"Generic","status":"ENABLED"}},
				{"campaign":{"id":"9"},"adGroup":{"id":"90","name":"Orphan","status":"ENABLED"}}]}`))
		default:
			t.Errorf("unexpected query %s", q)
		}
	})

	campaigns, err := c.ListCampaigns(t.Context(), "123")
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Len(t, campaigns[0].AdGroups, 2)
	assert.Equal(t, "Brand", campaigns[0].AdGroups[0].Name)
	assert.Empty(t, campaigns[1].AdGroups)
}

func TestGetMetricsPaginatesAndAggregates(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var in struct {
			Query     string `json:"query"`
			PageToken string `json:"pageToken"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Contains(t, in.Query, "BETWEEN '2026-03-25' AND '2026-03-31'")
		if in.PageToken == "" {
			_, _ = w.Write([]byte(`{"results":[{"metrics":{"impressions":"1000","clicks":"50","costMicros":"25000000","conversions":2}}],"nextPageToken":"p2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"metrics":{"impressions":"1000","clicks":"50","costMicros":"25000000","conversions":3}}]}`))
	})

	m, err := c.GetMetrics(t.Context(), "123", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(2000), m.Impressions)
	assert.Equal(t, int64(100), m.Clicks)
	assert.InDelta(t, 50.0, m.Cost, 1e-9)
	assert.InDelta(t, 5.0, m.Conversions, 1e-9)
	assert.InDelta(t, 0.05, m.CTR, 1e-9)
	assert.InDelta(t, 0.5, m.AvgCPC, 1e-9)
}

func TestListConversionActions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"conversionAction":{"id":"7","name":"Purchase","status":"ENABLED","type":"WEBPAGE","category":"PURCHASE"}}]}`))
	})

	actions, err := c.ListConversionActions(t.Context(), "123")
	require.NoError(t, err)
	assert.Equal(t, []ConversionAction{{ID: "7", Name: "Purchase", Status: "ENABLED", Type: "WEBPAGE", Category: "PURCHASE"}}, actions)
}

func TestTimeoutIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.ListAccounts(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google ads unavailable")
}

func TestUnconfigured(t *testing.T) {
	var p Platform = Unconfigured{}
	_, err := p.PublishAd(t.Context(), PublishRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
