package tutor

import (
	"fmt"
	"strings"

	"github.com/sells-group/cf-tutor/internal/model"
)

const historyWindow = 10

var hintInstructions = [4]string{
	"Provide a high-level conceptual hint about the general approach or key insight needed to solve this problem. Don't reveal specific algorithms or implementation details.",
	"Provide a more specific hint about the algorithmic technique or data structure that would be helpful for this problem.",
	"Provide implementation guidance or pseudocode structure that would help the student organize their solution.",
	"Provide a detailed explanation of the solution approach, including step-by-step methodology.",
}

// problemContext renders the problem fields the tutor may quote.
func problemContext(p *model.Problem) string {
	id, title, contest := "Unknown", "Unknown", "N/A"
	if p.ProblemID != "" {
		id = p.ProblemID
	}
	if p.ProblemTitle != "" {
		title = p.ProblemTitle
	}
	if p.ContestTitle != "" {
		contest = p.ContestTitle
	}

	parts := []string{
		fmt.Sprintf("Problem: %s - %s", id, title),
		"Contest: " + contest,
	}
	if p.Statement != "" {
		parts = append(parts, "Problem Statement:\n"+p.Statement)
	}
	if pairs := p.SamplePairs(); len(pairs) > 0 {
		parts = append(parts, "Sample Input/Output:")
		for i, s := range pairs {
			parts = append(parts,
				fmt.Sprintf("Example %d:", i+1),
				"Input: "+s.Input,
				"Output: "+s.Output,
			)
		}
	}
	if len(p.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(p.Tags, ", "))
	}
	if p.TimeLimit != "" {
		parts = append(parts, "Time Limit: "+p.TimeLimit)
	}
	if p.MemoryLimit != "" {
		parts = append(parts, "Memory Limit: "+p.MemoryLimit)
	}
	return strings.Join(parts, "\n\n")
}

// conversationContext renders the last messages as Student/Tutor lines.
func conversationContext(history []model.ChatMessage) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	lines := []string{"Previous conversation:"}
	for _, m := range history {
		switch m.Role {
		case model.RoleUser:
			lines = append(lines, "Student: "+m.Message)
		case model.RoleAssistant:
			lines = append(lines, "Tutor: "+m.Message)
		}
	}
	return strings.Join(lines, "\n")
}

// referenceCodes collects codes from solutions then editorials, capped at n.
func referenceCodes(p *model.Problem, n int) []string {
	var out []string
	for _, blocks := range [][]model.ContentBlock{p.Solutions, p.Editorials} {
		for _, b := range blocks {
			for _, c := range b.Codes {
				if len(out) == n {
					return out
				}
				out = append(out, c)
			}
		}
	}
	return out
}

func joinSections(sections ...string) string {
	return strings.Join(sections, "\n\n")
}

func startPrompt(p *model.Problem) string {
	return joinSections(
		problemContext(p),
		`The student is starting to work on this problem. Provide a welcoming message that:
1. Briefly acknowledges the problem they're working on
2. Encourages them to share their initial thoughts or approach
3. Lets them know you're here to guide them through the problem-solving process
4. Asks what they understand about the problem so far or what their initial approach might be

Keep the message encouraging and concise (2-3 sentences).`,
	)
}

func respondPrompt(msg string, p *model.Problem, history []model.ChatMessage, hintsGiven int) string {
	return joinSections(
		problemContext(p),
		conversationContext(history),
		"Student's current message: "+msg,
		fmt.Sprintf("Number of hints already given: %d", hintsGiven),
		"Respond to the student's message following your role as a competitive programming tutor. "+
			"If they're asking for a hint, provide appropriate guidance based on the number of hints already given. "+
			"If they're sharing their approach or asking questions, provide supportive feedback and guidance.",
	)
}

func hintPrompt(p *model.Problem, hintsGiven int, history []model.ChatMessage) string {
	return joinSections(
		problemContext(p),
		conversationContext(history),
		fmt.Sprintf("This is hint #%d for the student. %s", hintsGiven+1, hintInstructions[hintLevel(hintsGiven)]),
		"Make sure your hint is encouraging and educational, helping the student learn the thinking process rather than just giving away the answer.",
	)
}

func solutionPrompt(p *model.Problem, history []model.ChatMessage) string {
	var refs string
	if codes := referenceCodes(p, 2); len(codes) > 0 {
		refs = "Available reference solutions:\n" + strings.Join(codes, "\n")
	}
	return joinSections(
		problemContext(p),
		conversationContext(history),
		refs,
		`The student is requesting the complete solution. Provide a comprehensive explanation that includes:

1. A clear explanation of the approach and algorithm
2. Step-by-step breakdown of the solution methodology
3. Code implementation (preferably in C++ for competitive programming)
4. Time and space complexity analysis
5. Key insights and learning points
6. Alternative approaches if applicable

Make this educational and help the student understand not just what the solution is, but why it works and how they could approach similar problems in the future.`,
	)
}

func analyzePrompt(code string, p *model.Problem) string {
	return joinSections(
		problemContext(p),
		"The student has submitted the following code:\n\n```\n"+code+"\n```",
		`Please analyze their code and provide constructive feedback including:
1. What they did well
2. Any issues or bugs you notice
3. Suggestions for improvement
4. Whether their approach is correct
5. Performance considerations

Be encouraging and educational in your feedback.`,
	)
}

func hintLevel(hintsGiven int) int {
	return max(0, min(hintsGiven, len(hintInstructions)-1))
}
