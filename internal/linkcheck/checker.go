package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (compatible; microsite-linkcheck/1.0)"

// maxBody caps how much of a landing page is parsed.
const maxBody = 2 << 20

type Report struct {
	URL        string    `json:"url"`
	FinalURL   string    `json:"final_url,omitempty"`
	StatusCode int       `json:"status_code"`
	OK         bool      `json:"ok"`
	Title      string    `json:"title,omitempty"`
	Language   string    `json:"language"`
	LatencyMS  int64     `json:"latency_ms"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

type Checker struct {
	httpClient *http.Client
	log        *zap.Logger
}

func NewChecker(timeout time.Duration, log *zap.Logger) *Checker {
	return &Checker{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Check fetches url once. Transport failures and non-2xx responses are
// reported in the Report, not returned as errors. There is no retry.
func (c *Checker) Check(ctx context.Context, url string) (*Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	rep := &Report{URL: url, Language: "unknown", CheckedAt: time.Now().UTC()}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	rep.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		c.log.Debug("link check failed", zap.String("url", url), zap.Error(err))
		rep.Error = err.Error()
		return rep, nil
	}
	defer resp.Body.Close()

	rep.StatusCode = resp.StatusCode
	rep.FinalURL = resp.Request.URL.String()
	rep.OK = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !rep.OK {
		rep.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return rep, nil
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		rep.Error = "parse html: " + err.Error()
		return rep, nil
	}

	rep.Title = strings.TrimSpace(doc.Find("head title").First().Text())
	if lang, ok := doc.Find("html").Attr("lang"); ok && strings.TrimSpace(lang) != "" {
		rep.Language = primaryTag(lang)
	} else {
		rep.Language = guessLanguage(doc.Find("body").Text())
	}
	return rep, nil
}

// LanguageMatches reports whether a detected language agrees with the
// product language. Unknown detections never match.
func LanguageMatches(detected, want string) bool {
	detected, want = primaryTag(detected), primaryTag(want)
	if detected == "" || detected == "unknown" || detected == "other" {
		return false
	}
	return detected == want
}

// primaryTag reduces "en-US" or "pt_BR" to "en" / "pt".
func primaryTag(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}

func guessLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return "unknown"
	}

	cyrillicCount := 0
	latinCount := 0
	arabicCount := 0
	cjkCount := 0
	totalLetters := 0

	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		totalLetters++
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillicCount++
		case unicode.Is(unicode.Latin, r):
			latinCount++
		case unicode.Is(unicode.Arabic, r):
			arabicCount++
		case unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			cjkCount++
		}
	}

	if totalLetters == 0 {
		return "unknown"
	}

	pct := func(n int) float64 { return float64(n) / float64(totalLetters) }
	switch {
	case pct(cyrillicCount) >= 0.3:
		return "ru"
	case pct(arabicCount) >= 0.3:
		return "ar"
	case pct(cjkCount) >= 0.3:
		return "zh"
	case pct(latinCount) >= 0.3:
		return "en" // any latin script
	default:
		return "other"
	}
}
