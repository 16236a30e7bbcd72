package codeforces

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const problemURL = "https://codeforces.com/contest/2135/problem/B"

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func TestParseProblem_Fixture(t *testing.T) {
	t.Parallel()

	p, err := ParseProblem(readFixture(t, "problem_2135B.html"), problemURL)
	require.NoError(t, err)

	assert.Equal(t, "2135B", p.ProblemID)
	assert.Equal(t, problemURL, p.URL)
	assert.Equal(t, "Codeforces Round 1046 (Div. 2)", p.ContestTitle)
	assert.Equal(t, "B. Bar Counting", p.ProblemTitle)
	assert.Equal(t, "2 seconds", p.TimeLimit)
	assert.Equal(t, "256 megabytes", p.MemoryLimit)
	assert.Equal(t, []string{"greedy", "math", "*1200"}, p.Tags)
	assert.Contains(t, p.Notes, "In the first test the answer is 6.")

	assert.Empty(t, p.Hints)
	assert.Empty(t, p.Solutions)
	assert.NotNil(t, p.Editorials)
}

func TestParseProblem_Statement(t *testing.T) {
	t.Parallel()

	p, err := ParseProblem(readFixture(t, "problem_2135B.html"), problemURL)
	require.NoError(t, err)

	parts := strings.Split(p.Statement, "\n\n")
	require.Len(t, parts, 3)
	assert.Contains(t, parts[0], "You are given an array of n integers.")
	assert.Contains(t, parts[1], "The first line contains t.")
	assert.Contains(t, parts[2], "Print one integer per test.")
	assert.NotContains(t, p.Statement, "Example")
	assert.NotContains(t, p.Statement, "time limit")
}

func TestParseProblem_Samples(t *testing.T) {
	t.Parallel()

	p, err := ParseProblem(readFixture(t, "problem_2135B.html"), problemURL)
	require.NoError(t, err)

	assert.Equal(t, []string{"2\n3\n1 2 3", "1\n5"}, p.SampleInputs)
	assert.Equal(t, []string{"6\n0", "5"}, p.SampleOutputs)
	assert.Len(t, p.SamplePairs(), 2)
}

func TestParseProblem_TutorialLinks(t *testing.T) {
	t.Parallel()

	p, err := ParseProblem(readFixture(t, "problem_2135B.html"), problemURL)
	require.NoError(t, err)

	require.True(t, p.TutorialInfo.HasTutorial)
	require.Len(t, p.TutorialInfo.TutorialLinks, 2)

	first := p.TutorialInfo.TutorialLinks[0]
	assert.Equal(t, "Tutorial (en)", first.Text)
	assert.Equal(t, "/blog/entry/145000", first.URL)
	assert.Equal(t, "https://codeforces.com/blog/entry/145000", first.FullURL)

	second := p.TutorialInfo.TutorialLinks[1]
	assert.Equal(t, "Video editorial", second.Title)
	assert.Equal(t, "https://codeforces.com/blog/entry/145002", second.FullURL)
}

func TestParseProblem_NotProblemPage(t *testing.T) {
	t.Parallel()

	_, err := ParseProblem(`<html><body><div class="ttypography">blog</div></body></html>`, problemURL)
	assert.ErrorIs(t, err, ErrNotProblemPage)
}

func TestParseProblem_Defaults(t *testing.T) {
	t.Parallel()

	body := `<html><body>
<a href="/contest/7">Contest 7</a>
<div class="problem-statement"><div class="header"></div><div><p>Only text.</p></div></div>
</body></html>`

	p, err := ParseProblem(body, "https://mirror.codeforces.com/problemset/problem/7/a")
	require.NoError(t, err)

	assert.Equal(t, "7A", p.ProblemID)
	assert.Equal(t, "Unknown", p.ProblemTitle)
	assert.Equal(t, "Contest 7", p.ContestTitle)
	assert.Equal(t, "Only text.", p.Statement)
	assert.Empty(t, p.TimeLimit)
	assert.Empty(t, p.SampleInputs)
	assert.NotNil(t, p.SampleInputs)
	assert.False(t, p.TutorialInfo.HasTutorial)
}

func TestResolveHref(t *testing.T) {
	t.Parallel()

	base := baseURL("https://mirror.codeforces.com/contest/1/problem/A")
	assert.Equal(t, "https://mirror.codeforces.com/blog/entry/1", resolveHref(base, "/blog/entry/1"))
	assert.Equal(t, "https://other.example/x", resolveHref(base, "https://other.example/x"))
	assert.Equal(t, "relative/path", resolveHref(base, "relative/path"))

	fallback := baseURL("not a url")
	assert.Equal(t, "https://codeforces.com/blog/entry/1", resolveHref(fallback, "/blog/entry/1"))
}
