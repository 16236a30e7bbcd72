package codeforces

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/cf-tutor/internal/model"
)

// Rule files a disclosure under Category when Match reports true for its
// lower-cased title.
type Rule struct {
	Name     string
	Match    func(title string) bool
	Category model.Category
}

func titleContains(keywords ...string) func(string) bool {
	return func(title string) bool {
		for _, k := range keywords {
			if strings.Contains(title, k) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is the keyword policy applied to disclosure titles. The last
// rule always matches; ambiguous titles land in solutions.
var DefaultRules = []Rule{
	{Name: "hint", Match: titleContains("hint"), Category: model.CategoryHints},
	{Name: "solution", Match: titleContains("solution", "code"), Category: model.CategorySolutions},
	{Name: "tutorial", Match: titleContains("tutorial"), Category: model.CategoryTutorials},
	{Name: "editorial", Match: titleContains("editorial"), Category: model.CategoryEditorials},
	{Name: "fallback", Match: func(string) bool { return true }, Category: model.CategorySolutions},
}

// Classifier assigns disclosure blocks to content categories.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a Classifier from an ordered rule list. A nil or empty
// list uses DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Categorize returns the category of the first rule matching title.
func (c *Classifier) Categorize(title string) model.Category {
	title = strings.ToLower(title)
	for _, r := range c.rules {
		if r.Match(title) {
			return r.Category
		}
	}
	return model.CategorySolutions
}

// Classify extracts a spoiler block and decides its category. ok is false when
// the spoiler lacks a title or content element.
func (c *Classifier) Classify(spoiler *goquery.Selection) (block model.ContentBlock, cat model.Category, ok bool) {
	titleSel := spoiler.Find("b.spoiler-title").First()
	if titleSel.Length() == 0 {
		return model.ContentBlock{}, "", false
	}
	contentSel := spoiler.Find("div.spoiler-content").First()
	if contentSel.Length() == 0 {
		return model.ContentBlock{}, "", false
	}

	block = model.ContentBlock{
		Title: strings.ToLower(strings.TrimSpace(titleSel.Text())),
		Text:  strings.TrimSpace(contentSel.Text()),
		Codes: extractCodes(contentSel),
	}
	return block, c.Categorize(block.Title), true
}

// Text() has already decoded entities; only the dash is normalised.
var codeReplacer = strings.NewReplacer("—", "-")

// extractCodes collects pre blocks (and code elements directly inside pre)
// in document order, dropping exact duplicates within the block.
func extractCodes(content *goquery.Selection) []string {
	codes := []string{}
	seen := make(map[string]bool)

	content.Find("pre, code").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if name == "code" && goquery.NodeName(s.Parent()) != "pre" {
			return
		}
		code := strings.TrimSpace(codeReplacer.Replace(s.Text()))
		if code == "" || seen[code] {
			return
		}
		seen[code] = true
		codes = append(codes, code)
	})
	return codes
}
