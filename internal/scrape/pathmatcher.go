package scrape

import (
	"net/url"
	"path"
	"strings"
)

// DefaultHosts are the Codeforces hosts fetched when none are configured.
var DefaultHosts = []string{"codeforces.com"}

// PathMatcher admits http(s) URLs on an allowed host whose path matches no
// exclude pattern. A host entry also admits its subdomains, so
// "codeforces.com" admits "mirror.codeforces.com".
type PathMatcher struct {
	hosts    []string
	excludes []string
}

// NewPathMatcher builds a matcher. Empty hosts admit any host. Exclude
// patterns are path.Match globs; a trailing "/*" also covers deeper paths.
func NewPathMatcher(hosts, excludes []string) *PathMatcher {
	m := &PathMatcher{}
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			m.hosts = append(m.hosts, h)
		}
	}
	for _, p := range excludes {
		m.excludes = append(m.excludes, strings.ToLower(p))
	}
	return m
}

// Allows reports whether rawURL may be fetched.
func (m *PathMatcher) Allows(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	if !m.hostAllowed(strings.ToLower(u.Hostname())) {
		return false
	}
	p := strings.ToLower(u.Path)
	for _, pattern := range m.excludes {
		if matchSegmented(pattern, p) {
			return false
		}
	}
	return true
}

func (m *PathMatcher) hostAllowed(host string) bool {
	if len(m.hosts) == 0 {
		return true
	}
	for _, h := range m.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// matchSegmented is path.Match, except "/x/*" also matches "/x" and any
// path below it.
func matchSegmented(pattern, urlPath string) bool {
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/")
	}
	return false
}
