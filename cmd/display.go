package main

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/cf-tutor/internal/model"
)

const (
	rule          = "============================================================"
	longTextLimit = 500
	solutionLimit = 300
)

var titleCaser = cases.Title(language.English)

// printProblemList writes the numbered listing and returns the ids in
// display order.
func printProblemList(w io.Writer, list []model.ProblemSummary) []string {
	if len(list) == 0 {
		fmt.Fprintln(w, "No problems found in database.")
		return nil
	}

	fmt.Fprintf(w, "\nSTORED PROBLEMS (%d):\n", len(list))
	ids := make([]string, 0, len(list))
	for i, s := range list {
		title := s.ProblemTitle
		if title == "" {
			title = "Unknown"
		}
		fmt.Fprintf(w, "  %d. %s: %s - %d editorials, %d hints, %d solutions, %d tutorials\n",
			i+1, s.ProblemID, title, s.Editorials, s.Hints, s.Solutions, s.Tutorials)
		ids = append(ids, s.ProblemID)
	}
	return ids
}

type section struct {
	heading string
	blocks  []model.ContentBlock
	limit   int // 0 prints the text in full
	codes   bool
}

// displayProblem writes a problem record for reading in a terminal.
func displayProblem(w io.Writer, p *model.Problem) {
	fmt.Fprintf(w, "\n%s\nProblem: %s - %s\n%s\n", rule, p.ProblemID, p.ProblemTitle, rule)

	fmt.Fprintln(w, "\nPROBLEM INFO:")
	fmt.Fprintf(w, "Contest: %s\n", orNA(p.ContestTitle))
	fmt.Fprintf(w, "Time Limit: %s\n", orNA(p.TimeLimit))
	fmt.Fprintf(w, "Memory Limit: %s\n", orNA(p.MemoryLimit))
	fmt.Fprintf(w, "Tags: %s\n", strings.Join(p.Tags, ", "))

	for _, s := range []section{
		{heading: "EDITORIALS", blocks: p.Editorials, limit: longTextLimit, codes: true},
		{heading: "HINTS", blocks: p.Hints},
		{heading: "TUTORIALS", blocks: p.Tutorials, limit: longTextLimit, codes: true},
		{heading: "SOLUTIONS", blocks: p.Solutions, limit: solutionLimit, codes: true},
	} {
		writeSection(w, s)
	}
}

func writeSection(w io.Writer, s section) {
	if len(s.blocks) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", s.heading, len(s.blocks))
	for i, b := range s.blocks {
		fmt.Fprintf(w, "\n%d. %s:\n", i+1, titleCaser.String(b.Title))
		if b.Text != "" {
			fmt.Fprintln(w, truncate(b.Text, s.limit))
		}
		if !s.codes {
			continue
		}
		for j, code := range b.Codes {
			fmt.Fprintf(w, "\nCode %d:\n```cpp\n%s\n```\n", j+1, code)
		}
	}
}

// truncate cuts s to n runes and marks the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
