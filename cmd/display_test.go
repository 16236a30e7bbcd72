package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/cf-tutor/internal/model"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...", truncate("abc", 2))
	assert.Equal(t, "abc", truncate("abc", 0))
	assert.Equal(t, "héé...", truncate("hééllo", 3))
}

func TestPrintProblemList(t *testing.T) {
	var buf bytes.Buffer
	ids := printProblemList(&buf, []model.ProblemSummary{
		{ProblemID: "2135A", ProblemTitle: "A. Alpha", Hints: 1, Solutions: 2},
		{ProblemID: "2135B", Editorials: 3},
	})

	assert.Equal(t, []string{"2135A", "2135B"}, ids)
	out := buf.String()
	assert.Contains(t, out, "STORED PROBLEMS (2):")
	assert.Contains(t, out, "  1. 2135A: A. Alpha - 0 editorials, 1 hints, 2 solutions, 0 tutorials")
	assert.Contains(t, out, "  2. 2135B: Unknown - 3 editorials, 0 hints, 0 solutions, 0 tutorials")
}

func TestPrintProblemList_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.Nil(t, printProblemList(&buf, nil))
	assert.Equal(t, "No problems found in database.\n", buf.String())
}

func TestDisplayProblem(t *testing.T) {
	p := model.NewProblem("2135B")
	p.ProblemTitle = "B. Bar"
	p.TimeLimit = "2 seconds"
	p.Tags = []string{"greedy", "math"}
	p.Hints = []model.ContentBlock{{Title: "hint 1", Text: strings.Repeat("h", 600)}}
	p.Solutions = []model.ContentBlock{{Title: "SOLUTION", Text: strings.Repeat("s", 400), Codes: []string{"int main(){}"}}}
	p.Editorials = []model.ContentBlock{{Title: "editorial notes", Text: "short"}}

	var buf bytes.Buffer
	displayProblem(&buf, p)
	out := buf.String()

	assert.Contains(t, out, "Problem: 2135B - B. Bar")
	assert.Contains(t, out, "Contest: N/A")
	assert.Contains(t, out, "Time Limit: 2 seconds")
	assert.Contains(t, out, "Memory Limit: N/A")
	assert.Contains(t, out, "Tags: greedy, math")

	assert.Contains(t, out, "1. Hint 1:\n"+strings.Repeat("h", 600)+"\n")
	assert.Contains(t, out, "1. Solution:\n"+strings.Repeat("s", 300)+"...\n")
	assert.Contains(t, out, "Code 1:\n```cpp\nint main(){}\n```")
	assert.Contains(t, out, "1. Editorial Notes:\nshort\n")
	assert.NotContains(t, out, "TUTORIALS")

	// Sections print editorials, hints, tutorials, then solutions.
	assert.Less(t, strings.Index(out, "EDITORIALS (1)"), strings.Index(out, "HINTS (1)"))
	assert.Less(t, strings.Index(out, "HINTS (1)"), strings.Index(out, "SOLUTIONS (1)"))
}
