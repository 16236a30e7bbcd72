package model

// Category is one of the four buckets editorial content is filed under.
type Category string

const (
	CategoryHints      Category = "hints"
	CategorySolutions  Category = "solutions"
	CategoryTutorials  Category = "tutorials"
	CategoryEditorials Category = "editorials"
)

// AllCategories returns the categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryHints,
		CategorySolutions,
		CategoryTutorials,
		CategoryEditorials,
	}
}

// ContentBlock is one disclosure section found under a problem heading on
// an editorial page.
type ContentBlock struct {
	Title string   `json:"title"`
	Text  string   `json:"text"`
	Codes []string `json:"codes"`
}

// TutorialLink is a single tutorial/editorial anchor found on a problem page.
type TutorialLink struct {
	Text    string `json:"text"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	FullURL string `json:"full_url"`
}

// TutorialInfo records whether a problem page links to an editorial.
type TutorialInfo struct {
	HasTutorial   bool           `json:"has_tutorial"`
	TutorialLinks []TutorialLink `json:"tutorial_links"`
}

// First returns the first discovered tutorial link.
func (t TutorialInfo) First() (TutorialLink, bool) {
	if !t.HasTutorial || len(t.TutorialLinks) == 0 {
		return TutorialLink{}, false
	}
	return t.TutorialLinks[0], true
}

// Problem is the persisted record for one problem. JSON field names match the
// flat dump format so existing documents load unchanged.
type Problem struct {
	ContestTitle  string         `json:"contest_title"`
	ProblemID     string         `json:"problem_id"`
	ProblemTitle  string         `json:"problem_title"`
	TimeLimit     string         `json:"time_limit"`
	MemoryLimit   string         `json:"memory_limit"`
	Statement     string         `json:"statement"`
	SampleInputs  []string       `json:"sample_inputs"`
	SampleOutputs []string       `json:"sample_outputs"`
	Notes         string         `json:"notes"`
	Tags          []string       `json:"tags"`
	URL           string         `json:"url"`
	TutorialInfo  TutorialInfo   `json:"tutorial_info"`
	Hints         []ContentBlock `json:"hints"`
	Solutions     []ContentBlock `json:"solutions"`
	Tutorials     []ContentBlock `json:"tutorials"`
	Editorials    []ContentBlock `json:"editorials"`
}

// NewProblem returns a Problem with all list fields initialised so the record
// serializes with [] rather than null.
func NewProblem(id string) *Problem {
	return &Problem{
		ProblemID:     id,
		SampleInputs:  []string{},
		SampleOutputs: []string{},
		Tags:          []string{},
		TutorialInfo:  TutorialInfo{TutorialLinks: []TutorialLink{}},
		Hints:         []ContentBlock{},
		Solutions:     []ContentBlock{},
		Tutorials:     []ContentBlock{},
		Editorials:    []ContentBlock{},
	}
}

// SamplePair is one sample input with its expected output.
type SamplePair struct {
	Input  string
	Output string
}

// SamplePairs zips inputs with outputs by position. Extra entries on either
// side (malformed pages) are dropped.
func (p *Problem) SamplePairs() []SamplePair {
	n := min(len(p.SampleInputs), len(p.SampleOutputs))
	pairs := make([]SamplePair, 0, n)
	for i := range n {
		pairs = append(pairs, SamplePair{Input: p.SampleInputs[i], Output: p.SampleOutputs[i]})
	}
	return pairs
}

// Content returns the blocks stored under the given category.
func (p *Problem) Content(c Category) []ContentBlock {
	switch c {
	case CategoryHints:
		return p.Hints
	case CategorySolutions:
		return p.Solutions
	case CategoryTutorials:
		return p.Tutorials
	case CategoryEditorials:
		return p.Editorials
	}
	return nil
}

// Append adds blocks to the given category. Existing blocks are kept.
func (p *Problem) Append(c Category, blocks ...ContentBlock) {
	switch c {
	case CategoryHints:
		p.Hints = append(p.Hints, blocks...)
	case CategorySolutions:
		p.Solutions = append(p.Solutions, blocks...)
	case CategoryTutorials:
		p.Tutorials = append(p.Tutorials, blocks...)
	case CategoryEditorials:
		p.Editorials = append(p.Editorials, blocks...)
	}
}

// TotalContent counts blocks across all four categories.
func (p *Problem) TotalContent() int {
	return len(p.Hints) + len(p.Solutions) + len(p.Tutorials) + len(p.Editorials)
}

// Summary returns the listing view of the record.
func (p *Problem) Summary() ProblemSummary {
	return ProblemSummary{
		ProblemID:    p.ProblemID,
		ProblemTitle: p.ProblemTitle,
		Hints:        len(p.Hints),
		Solutions:    len(p.Solutions),
		Tutorials:    len(p.Tutorials),
		Editorials:   len(p.Editorials),
	}
}

// ProblemSummary is a stored problem with per-category counts.
type ProblemSummary struct {
	ProblemID    string `json:"problem_id"`
	ProblemTitle string `json:"problem_title"`
	Hints        int    `json:"hints"`
	Solutions    int    `json:"solutions"`
	Tutorials    int    `json:"tutorials"`
	Editorials   int    `json:"editorials"`
}

// EditorialProblem is the content grouping found for one problem on an
// editorial page.
type EditorialProblem struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Hints      []ContentBlock `json:"hints"`
	Solutions  []ContentBlock `json:"solutions"`
	Tutorials  []ContentBlock `json:"tutorials"`
	Editorials []ContentBlock `json:"editorials"`
}

// Add files a block under the given category.
func (e *EditorialProblem) Add(c Category, b ContentBlock) {
	switch c {
	case CategoryHints:
		e.Hints = append(e.Hints, b)
	case CategorySolutions:
		e.Solutions = append(e.Solutions, b)
	case CategoryTutorials:
		e.Tutorials = append(e.Tutorials, b)
	case CategoryEditorials:
		e.Editorials = append(e.Editorials, b)
	}
}

// Total counts classified blocks.
func (e *EditorialProblem) Total() int {
	return len(e.Hints) + len(e.Solutions) + len(e.Tutorials) + len(e.Editorials)
}

// MergeInto appends every content list onto the target record.
func (e *EditorialProblem) MergeInto(p *Problem) {
	p.Append(CategoryHints, e.Hints...)
	p.Append(CategorySolutions, e.Solutions...)
	p.Append(CategoryTutorials, e.Tutorials...)
	p.Append(CategoryEditorials, e.Editorials...)
}
