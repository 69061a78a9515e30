package services

import (
	"context"
	"net"
	"net/url"
	"sort"
	"strings"

	"github.com/microsite-ads/backend/internal/metrics"
	"github.com/microsite-ads/backend/internal/models"
	"github.com/microsite-ads/backend/internal/store"
	"go.uber.org/zap"
)

// Redirect outcomes, also used as metric labels.
const (
	RedirectTarget  = "target"
	RedirectOffline = "offline"
	RedirectRoot    = "root"
)

// SlugParam names the query parameter that selects the product.
const SlugParam = "slug"

type RedirectResolver struct {
	store         store.Store
	defaultSlug   string
	offlinePath   string
	hostVerticals map[string]string
	log           *zap.Logger
}

func NewRedirectResolver(st store.Store, defaultSlug, offlinePath string, hostVerticals map[string]string, log *zap.Logger) *RedirectResolver {
	if offlinePath == "" {
		offlinePath = "/offline"
	}
	return &RedirectResolver{
		store:         st,
		defaultSlug:   defaultSlug,
		offlinePath:   offlinePath,
		hostVerticals: hostVerticals,
		log:           log,
	}
}

type Redirect struct {
	Location string
	Outcome  string
	Slug     string
}

// Resolve picks the final redirect target for a visitor. It never fails:
// unknown products go to the site root, unusable ones to the offline page.
func (r *RedirectResolver) Resolve(ctx context.Context, host string, query url.Values) Redirect {
	cfg := r.store.Read(ctx)

	slug := strings.TrimSpace(query.Get(SlugParam))
	if slug == "" {
		slug = r.defaultSlug
	}
	if slug == "" {
		slug = cfg.ActiveProductSlug
	}
	p := cfg.Product(slug)
	if p == nil {
		return r.done(Redirect{Location: "/", Outcome: RedirectRoot, Slug: slug})
	}

	if v := r.hostVertical(host); v != "" && v != p.Vertical {
		r.log.Debug("redirect blocked by host vertical",
			zap.String("host", host), zap.String("host_vertical", v),
			zap.String("slug", slug), zap.String("vertical", p.Vertical))
		return r.done(Redirect{Location: r.offlinePath, Outcome: RedirectOffline, Slug: slug})
	}

	target := p.TargetURL()
	if target == "" {
		return r.done(Redirect{Location: r.offlinePath, Outcome: RedirectOffline, Slug: slug})
	}
	return r.done(Redirect{Location: MergeQuery(target, query), Outcome: RedirectTarget, Slug: slug})
}

func (r *RedirectResolver) done(rd Redirect) Redirect {
	metrics.Redirects.WithLabelValues(rd.Outcome).Inc()
	return rd
}

// hostVertical returns the vertical a serving host implies, or "" when it
// implies none. Explicit mappings win over the first host label.
func (r *RedirectResolver) hostVertical(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		return ""
	}
	if v, ok := r.hostVerticals[host]; ok {
		return v
	}
	label, _, _ := strings.Cut(host, ".")
	if models.IsKnownVertical(label) {
		return label
	}
	return ""
}

// MergeQuery copies incoming parameters into target without overwriting the
// ones target already carries. The selector parameter is never forwarded.
// A target that does not parse is returned unchanged.
func MergeQuery(target string, incoming url.Values) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	existing, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return target
	}
	keys := make([]string, 0, len(incoming))
	for key := range incoming {
		if key == SlugParam {
			continue
		}
		if _, ok := existing[key]; ok {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return target
	}
	sort.Strings(keys)

	// the target's own query is kept byte for byte; affiliate macros such as
	// {clickid} must reach the network unescaped
	var b strings.Builder
	b.WriteString(u.RawQuery)
	for _, key := range keys {
		for _, v := range incoming[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	u.RawQuery = b.String()
	return u.String()
}
