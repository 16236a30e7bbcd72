package codeforces

import (
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/sells-group/cf-tutor/internal/model"
)

var (
	markerHrefRe = regexp.MustCompile(`/contest/\d+/problem/[A-Z]\d*`)
	markerTextRe = regexp.MustCompile(`(\d+[A-Z]\d*|[A-Z]\d?)\s*[—–-]\s*(.*)`)
	bareLetterRe = regexp.MustCompile(`^[A-Z]\d?$`)
)

// EditorialParser extracts per-problem content groupings from an editorial
// blog post.
type EditorialParser struct {
	classifier *Classifier
}

// NewEditorialParser creates a parser. A nil classifier uses DefaultRules.
func NewEditorialParser(c *Classifier) *EditorialParser {
	if c == nil {
		c = NewClassifier(nil)
	}
	return &EditorialParser{classifier: c}
}

// ParseEditorial parses body with the default classifier.
func ParseEditorial(body string) ([]model.EditorialProblem, error) {
	return NewEditorialParser(nil).Parse(body)
}

// Parse returns every grouping on the page that received at least one
// classified block, in marker order. A page without a typography container
// yields no groupings.
func (p *EditorialParser) Parse(body string) ([]model.EditorialProblem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "codeforces: parse editorial html")
	}

	container := doc.Find("div.ttypography").First()
	if container.Length() == 0 {
		return []model.EditorialProblem{}, nil
	}

	markers := container.Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		return markerHrefRe.MatchString(href)
	})

	boundary := boundarySet(markers, container.Get(0))
	groups := []model.EditorialProblem{}

	markers.Each(func(i int, marker *goquery.Selection) {
		id, name, ok := parseMarker(marker)
		if !ok {
			return
		}

		group := model.EditorialProblem{
			ID:         id,
			Name:       id + " - " + name,
			Hints:      []model.ContentBlock{},
			Solutions:  []model.ContentBlock{},
			Tutorials:  []model.ContentBlock{},
			Editorials: []model.ContentBlock{},
		}

		var owned []*html.Node
		start := scanStart(marker.Get(0), container.Get(0))
		if !containsLaterMarker(start, markers.Nodes[i+1:], container.Get(0)) {
			owned = span(start, boundary)
		}
		for _, n := range owned {
			spoiler := goquery.NewDocumentFromNode(n).Selection
			if block, cat, ok := p.classifier.Classify(spoiler); ok {
				group.Add(cat, block)
			}
		}

		if group.Total() == 0 {
			zap.L().Debug("codeforces: marker without content", zap.String("problem_id", id))
			return
		}
		groups = append(groups, group)
	})

	return groups, nil
}

// parseMarker reads the identifier and name from a marker's visible text.
func parseMarker(marker *goquery.Selection) (id, name string, ok bool) {
	m := markerTextRe.FindStringSubmatch(strings.TrimSpace(marker.Text()))
	if m == nil {
		return "", "", false
	}
	id = strings.TrimSpace(m[1])
	name = strings.TrimSpace(m[2])

	if bareLetterRe.MatchString(id) {
		href, _ := marker.Attr("href")
		if contest := contestFromHref(href); contest != "" {
			id = contest + id
		}
	}
	return id, name, true
}

// boundarySet holds every marker and each of its ancestors below root. A
// sibling in this set is, or contains, a marker.
func boundarySet(markers *goquery.Selection, root *html.Node) map[*html.Node]bool {
	set := make(map[*html.Node]bool)
	for _, m := range markers.Nodes {
		for n := m; n != nil && n != root; n = n.Parent {
			set[n] = true
		}
	}
	return set
}

// scanStart is the element whose following siblings a marker owns: the
// marker's parent, or the marker itself when it sits directly in root.
func scanStart(marker, root *html.Node) *html.Node {
	if marker.Parent == nil || marker.Parent == root {
		return marker
	}
	return marker.Parent
}

// containsLaterMarker reports whether start is an ancestor of any of later.
// Content after start then belongs to the later marker, so the earlier
// marker owns nothing.
func containsLaterMarker(start *html.Node, later []*html.Node, root *html.Node) bool {
	for _, m := range later {
		for n := m.Parent; n != nil && n != root; n = n.Parent {
			if n == start {
				return true
			}
		}
	}
	return false
}

// span returns the element siblings following start that are spoilers, up
// to the first one in boundary.
func span(start *html.Node, boundary map[*html.Node]bool) []*html.Node {
	var out []*html.Node
	for sib := start.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode {
			continue
		}
		if boundary[sib] {
			break
		}
		if sib.Data == "div" && hasClass(sib, "spoiler") {
			out = append(out, sib)
		}
	}
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && slices.Contains(strings.Fields(a.Val), class) {
			return true
		}
	}
	return false
}
