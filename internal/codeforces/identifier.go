// Package codeforces parses Codeforces problem pages and editorial blog
// posts into model records.
package codeforces

import (
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrInvalidProblemURL is returned when no identifier can be derived from a URL.
var ErrInvalidProblemURL = eris.New("codeforces: url is not a problem url")

// ProblemIDFromURL derives the problem identifier from a problem page URL.
//
//	/contest/{N}/problem/{L}        -> {N}{L}
//	/problemset/problem/{N}/{L}     -> {N}{L}
//
// The result is uppercased. Any other shape yields "".
func ProblemIDFromURL(rawURL string) string {
	segs := pathSegments(rawURL)

	problemIdx := slices.Index(segs, "problem")
	if problemIdx < 0 {
		return ""
	}

	switch {
	case slices.Contains(segs[:problemIdx], "contest"):
		if problemIdx+1 >= len(segs) || !isDigits(segs[problemIdx-1]) {
			return ""
		}
		return NormalizeID(segs[problemIdx-1] + segs[problemIdx+1])
	case slices.Contains(segs[:problemIdx], "problemset"):
		if problemIdx+2 >= len(segs) || !isDigits(segs[problemIdx+1]) {
			return ""
		}
		return NormalizeID(segs[problemIdx+1] + segs[problemIdx+2])
	}
	return ""
}

// NormalizeID uppercases and trims an identifier for lookup.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

var contestFromHrefRe = regexp.MustCompile(`/contest/(\d+)/problem/`)

// contestFromHref extracts the contest number from an editorial problem link.
func contestFromHref(href string) string {
	m := contestFromHrefRe.FindStringSubmatch(href)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// pathSegments returns the non-empty path segments of a URL. Inputs that do
// not parse as URLs are split as plain paths.
func pathSegments(rawURL string) []string {
	p := rawURL
	if u, err := url.Parse(strings.TrimSpace(rawURL)); err == nil {
		p = u.Path
	}
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
