// Package generator builds search campaigns for a product from fixed
// vertical templates. Output depends only on the product, so regenerating an
// unchanged product yields identical campaigns.
package generator

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/microsite-ads/backend/internal/models"
)

// Google Ads responsive search ad limits.
const (
	MaxHeadlineLen    = 30
	MaxDescriptionLen = 90
	MaxHeadlines      = 15
	MaxDescriptions   = 4
)

type Generator struct {
	publicBaseURL string
}

// New returns a generator that falls back to publicBaseURL/go?slug=... for
// products without a usable official URL. publicBaseURL must be absolute.
func New(publicBaseURL string) (*Generator, error) {
	base := strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")
	if !models.IsAbsoluteURL(base) {
		return nil, fmt.Errorf("public base url %q is not an absolute http(s) URL", publicBaseURL)
	}
	return &Generator{publicBaseURL: base}, nil
}

// Languages returns the languages campaigns are generated for.
func Languages(p *models.ProductConfig, defaultLang string) []string {
	lang := strings.ToLower(strings.TrimSpace(p.Language))
	if lang == "" {
		lang = strings.ToLower(strings.TrimSpace(defaultLang))
	}
	if lang == "" {
		lang = "en"
	}
	return []string{lang}
}

// Generate builds one search campaign per language. It does not take the
// bidding strategy into account.
func (g *Generator) Generate(p *models.ProductConfig, languages []string) []models.Campaign {
	tpl, ok := templates[p.Vertical]
	if !ok {
		tpl = genericTemplate
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = p.Slug
	}
	finalURL := g.FinalURL(p)

	headlines := render(tpl.headlines, name, MaxHeadlineLen, MaxHeadlines)
	descriptions := render(tpl.descriptions, name, MaxDescriptionLen, MaxDescriptions)

	groups := append([]groupTemplate{brandGroup}, tpl.groups...)

	campaigns := make([]models.Campaign, 0, len(languages))
	for _, lang := range languages {
		c := models.Campaign{
			CampaignName: strings.Join([]string{name, strings.ToUpper(tpl.label), strings.ToUpper(lang), "Search"}, " | "),
		}
		for _, gt := range groups {
			c.AdGroups = append(c.AdGroups, models.AdGroup{
				Name:     gt.name,
				Keywords: keywords(gt.keywords, name),
				Ads: []models.Ad{{
					Headlines:    append([]string(nil), headlines...),
					Descriptions: append([]string(nil), descriptions...),
					FinalURL:     finalURL,
				}},
			})
		}
		campaigns = append(campaigns, c)
	}
	return campaigns
}

// FinalURL is the product's official URL when it is a well-formed absolute
// URL, otherwise the site's outbound redirect for the product.
func (g *Generator) FinalURL(p *models.ProductConfig) string {
	official := strings.TrimSpace(p.OfficialURL)
	if models.IsAbsoluteURL(official) {
		return official
	}
	return g.publicBaseURL + "/go?slug=" + url.QueryEscape(p.Slug)
}

func render(lines []string, name string, maxLen, maxCount int) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		s := fit(strings.ReplaceAll(l, "{name}", name), maxLen)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == maxCount {
			break
		}
	}
	return out
}

func keywords(lines []string, name string) []string {
	lower := strings.ToLower(name)
	seen := map[string]bool{}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		k := strings.Join(strings.Fields(strings.ReplaceAll(l, "{name}", lower)), " ")
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// fit shortens s to maxLen runes, cutting at a word boundary when possible.
func fit(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)[:maxLen]
	cut := string(r)
	if i := strings.LastIndex(cut, " "); i > maxLen/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " -,.")
}
