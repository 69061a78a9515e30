// Package adsplatform is the boundary to the external paid-search platform.
// Every call is a network round trip that may fail; callers treat failures as
// permanent and surface the message as is.
package adsplatform

import (
	"context"
	"errors"
	"strings"
)

// ErrNotConfigured is returned by every call when credentials are missing.
var ErrNotConfigured = errors.New("ads platform credentials are not configured")

type Platform interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	ListCampaigns(ctx context.Context, customerID string) ([]CampaignSummary, error)
	GetMetrics(ctx context.Context, customerID string, days int) (*Metrics, error)
	PublishAd(ctx context.Context, req PublishRequest) (string, error)
	ListConversionActions(ctx context.Context, customerID string) ([]ConversionAction, error)
}

type Account struct {
	CustomerID   string `json:"customerId"`
	ResourceName string `json:"resourceName"`
	Name         string `json:"name,omitempty"`
	CurrencyCode string `json:"currencyCode,omitempty"`
	TimeZone     string `json:"timeZone,omitempty"`
	Manager      bool   `json:"manager"`
}

type CampaignSummary struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Status   string           `json:"status"`
	AdGroups []AdGroupSummary `json:"adGroups"`
}

type AdGroupSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type Metrics struct {
	CustomerID  string  `json:"customerId"`
	Days        int     `json:"days"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CostMicros  int64   `json:"costMicros"`
	Cost        float64 `json:"cost"`
	Conversions float64 `json:"conversions"`
	CTR         float64 `json:"ctr"`
	AvgCPC      float64 `json:"avgCpc"`
}

type ConversionAction struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

type PublishRequest struct {
	CustomerID   string
	AdGroupID    string
	Headlines    []string
	Descriptions []string
	FinalURL     string
	Paused       bool
}

// NormalizeCustomerID strips the dashes of the 123-456-7890 display form.
func NormalizeCustomerID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}

// Unconfigured fails every call with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) ListAccounts(context.Context) ([]Account, error) { return nil, ErrNotConfigured }
func (Unconfigured) ListCampaigns(context.Context, string) ([]CampaignSummary, error) {
	return nil, ErrNotConfigured
}
func (Unconfigured) GetMetrics(context.Context, string, int) (*Metrics, error) {
	return nil, ErrNotConfigured
}
func (Unconfigured) PublishAd(context.Context, PublishRequest) (string, error) {
	return "", ErrNotConfigured
}
func (Unconfigured) ListConversionActions(context.Context, string) ([]ConversionAction, error) {
	return nil, ErrNotConfigured
}
