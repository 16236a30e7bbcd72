package codeforces

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/cf-tutor/internal/model"
)

// ErrNotProblemPage is returned when the page has no problem statement
// container.
var ErrNotProblemPage = eris.New("codeforces: not a problem page")

// DefaultBaseURL is used to resolve site-relative links when the page URL
// cannot supply a scheme and host.
const DefaultBaseURL = "https://codeforces.com"

var (
	roundRe         = regexp.MustCompile(`(?i)\bcodeforces\b.*\bround\b`)
	tutorialTokenRe = regexp.MustCompile(`(?i)tutorial|editorial`)
)

const (
	timeLimitPrefix   = "time limit per test"
	memoryLimitPrefix = "memory limit per test"
)

// ParseProblem builds a Problem from a single problem page. Content lists are
// left empty; they are filled from the editorial by the extractor.
func ParseProblem(body, pageURL string) (*model.Problem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "codeforces: parse problem html")
	}

	statement := doc.Find("div.problem-statement").First()
	if statement.Length() == 0 {
		return nil, ErrNotProblemPage
	}

	p := model.NewProblem(ProblemIDFromURL(pageURL))
	p.URL = pageURL
	p.ContestTitle = contestTitle(doc)

	p.ProblemTitle = "Unknown"
	if t := cleanText(statement.Find("div.title").First().Text()); t != "" {
		p.ProblemTitle = t
	}

	p.TimeLimit = limitValue(statement.Find("div.time-limit").First(), timeLimitPrefix)
	p.MemoryLimit = limitValue(statement.Find("div.memory-limit").First(), memoryLimitPrefix)
	p.Statement = statementText(statement)
	p.SampleInputs, p.SampleOutputs = samples(statement)
	p.Notes = cleanText(statement.Find("div.note").First().Text())

	doc.Find("span.tag-box").Each(func(_ int, s *goquery.Selection) {
		if tag := cleanText(s.Text()); tag != "" {
			p.Tags = append(p.Tags, tag)
		}
	})

	p.TutorialInfo = TutorialLinks(doc, pageURL)
	return p, nil
}

// contestTitle returns the first heading naming the round, falling back to
// the first contest link.
func contestTitle(doc *goquery.Document) string {
	var title string
	doc.Find("th, h1, h2, h3, h4").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := cleanText(s.Text())
		if roundRe.MatchString(t) {
			title = t
			return false
		}
		return true
	})
	if title != "" {
		return title
	}
	return cleanText(doc.Find(`a[href*="/contest/"]`).First().Text())
}

// limitValue strips the descriptive prefix and keeps the remainder verbatim.
func limitValue(s *goquery.Selection, prefix string) string {
	if s.Length() == 0 {
		return ""
	}
	text := cleanText(s.Text())
	return strings.TrimSpace(strings.Replace(text, prefix, "", 1))
}

// statementText joins the non-empty blocks between the header and the sample
// tests section.
func statementText(statement *goquery.Selection) string {
	header := statement.Find("div.header").First()
	if header.Length() == 0 {
		return ""
	}

	var parts []string
	header.NextAll().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) != "div" {
			return true
		}
		if s.HasClass("sample-tests") {
			return false
		}
		if text := cleanText(s.Text()); text != "" {
			parts = append(parts, text)
		}
		return true
	})
	return strings.Join(parts, "\n\n")
}

// samples collects input and output blocks independently, in document order.
func samples(statement *goquery.Selection) (inputs, outputs []string) {
	inputs, outputs = []string{}, []string{}

	tests := statement.Find("div.sample-tests").First()
	if tests.Length() == 0 {
		return inputs, outputs
	}

	collect := func(sel string) []string {
		out := []string{}
		tests.Find(sel).Each(func(_ int, block *goquery.Selection) {
			pre := block.Find("pre").First()
			if pre.Length() == 0 {
				return
			}
			out = append(out, preText(pre))
		})
		return out
	}
	return collect("div.input"), collect("div.output")
}

// TutorialLinks scans every link on the page for tutorial or editorial
// anchors. Site-relative hrefs are resolved against the page's scheme and host.
func TutorialLinks(doc *goquery.Document, pageURL string) model.TutorialInfo {
	info := model.TutorialInfo{TutorialLinks: []model.TutorialLink{}}
	base := baseURL(pageURL)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		title, _ := s.Attr("title")
		text := cleanText(s.Text())

		if !tutorialTokenRe.MatchString(text) && !tutorialTokenRe.MatchString(title) {
			return
		}

		info.HasTutorial = true
		info.TutorialLinks = append(info.TutorialLinks, model.TutorialLink{
			Text:    text,
			Title:   title,
			URL:     href,
			FullURL: resolveHref(base, href),
		})
	})
	return info
}

func baseURL(pageURL string) *url.URL {
	if u, err := url.Parse(pageURL); err == nil && u.Scheme != "" && u.Host != "" {
		return &url.URL{Scheme: u.Scheme, Host: u.Host}
	}
	u, _ := url.Parse(DefaultBaseURL)
	return u
}

func resolveHref(base *url.URL, href string) string {
	if !strings.HasPrefix(href, "/") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
