// Package tutor builds prompts from stored problem records and drives an
// LLM Generator to produce welcome messages, replies, progressive hints,
// full solutions and code reviews.
package tutor

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/cf-tutor/internal/model"
	"github.com/sells-group/cf-tutor/internal/resilience"
)

// DefaultSystemPrompt is used when no prompt file can be read.
const DefaultSystemPrompt = "You are a helpful competitive programming tutor."

// Apology is returned in place of a completion once all retries failed.
const Apology = "I apologize, but I'm having trouble processing your request right now. Please try again."

// MaxHintLevel is the index of the deepest hint.
const MaxHintLevel = 3

var hintKeywords = []string{"hint", "help", "stuck", "don't know", "how to"}

// Reply is the tutor's answer to a free-form chat message.
type Reply struct {
	Message string `json:"message"`
	IsHint  bool   `json:"is_hint"`
}

// Hint is one progressive hint.
type Hint struct {
	Message            string `json:"hint"`
	MoreHintsAvailable bool   `json:"more_hints_available"`
}

// Solution is a complete write-up with the first code block and the
// complexity line pulled out.
type Solution struct {
	Message     string `json:"solution"`
	Explanation string `json:"explanation"`
	Code        string `json:"code"`
	Complexity  string `json:"complexity"`
}

// Tutor is safe for concurrent use.
type Tutor struct {
	gen    Generator
	system string
	retry  resilience.RetryConfig
}

// Option configures a Tutor.
type Option func(*Tutor)

// WithSystemPrompt overrides the system prompt text.
func WithSystemPrompt(text string) Option {
	return func(t *Tutor) {
		if strings.TrimSpace(text) != "" {
			t.system = strings.TrimSpace(text)
		}
	}
}

// WithRetry sets the retry policy for generation calls.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(t *Tutor) { t.retry = cfg }
}

// New creates a Tutor over gen.
func New(gen Generator, opts ...Option) *Tutor {
	t := &Tutor{
		gen:    gen,
		system: DefaultSystemPrompt,
		retry:  resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(t)
	}
	if t.retry.OnRetry == nil {
		t.retry.OnRetry = resilience.RetryLogger("llm", "generate")
	}
	return t
}

// LoadSystemPrompt reads the prompt file, falling back to
// DefaultSystemPrompt when it is missing or empty.
func LoadSystemPrompt(path string) string {
	if path == "" {
		return DefaultSystemPrompt
	}
	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn("tutor: could not load system prompt", zap.String("path", path), zap.Error(err))
		return DefaultSystemPrompt
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return DefaultSystemPrompt
	}
	return text
}

// SystemPrompt returns the active system prompt.
func (t *Tutor) SystemPrompt() string { return t.system }

// StartSession returns a short welcome message for p.
func (t *Tutor) StartSession(ctx context.Context, p *model.Problem) string {
	return t.call(ctx, "start_session", startPrompt(p))
}

// Respond answers a chat message.
func (t *Tutor) Respond(ctx context.Context, msg string, p *model.Problem, history []model.ChatMessage, hintsGiven int) Reply {
	return Reply{
		Message: t.call(ctx, "respond", respondPrompt(msg, p, history, hintsGiven)),
		IsHint:  IsHintRequest(msg),
	}
}

// ProgressiveHint returns the hint for the level implied by hintsGiven.
func (t *Tutor) ProgressiveHint(ctx context.Context, p *model.Problem, hintsGiven int, history []model.ChatMessage) Hint {
	return Hint{
		Message:            t.call(ctx, "progressive_hint", hintPrompt(p, hintsGiven, history)),
		MoreHintsAvailable: hintsGiven < MaxHintLevel,
	}
}

// CompleteSolution returns a full solution write-up.
func (t *Tutor) CompleteSolution(ctx context.Context, p *model.Problem, history []model.ChatMessage) Solution {
	text := t.call(ctx, "complete_solution", solutionPrompt(p, history))
	code, complexity := splitSolution(text)
	return Solution{
		Message:     text,
		Explanation: text,
		Code:        code,
		Complexity:  complexity,
	}
}

// AnalyzeCode reviews a student's submission.
func (t *Tutor) AnalyzeCode(ctx context.Context, code string, p *model.Problem) string {
	return t.call(ctx, "analyze_code", analyzePrompt(code, p))
}

// IsHintRequest reports whether a chat message asks for help.
func IsHintRequest(msg string) bool {
	lower := strings.ToLower(msg)
	for _, k := range hintKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func (t *Tutor) call(ctx context.Context, op, prompt string) string {
	out, err := resilience.DoVal(ctx, t.retry, func(ctx context.Context) (string, error) {
		return t.gen.Generate(ctx, t.system, prompt)
	})
	if err != nil {
		zap.L().Error("tutor: generation failed", zap.String("operation", op), zap.Error(err))
		return Apology
	}
	return strings.TrimSpace(out)
}

// splitSolution returns the first fenced code block and the last line that
// states a complexity.
func splitSolution(text string) (code, complexity string) {
	var (
		blocks  []string
		current []string
		inCode  bool
	)
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "```") {
			if inCode {
				blocks = append(blocks, strings.Join(current, "\n"))
				current = nil
			}
			inCode = !inCode
			continue
		}
		if inCode {
			current = append(current, line)
			continue
		}
		if isComplexityLine(line) {
			complexity = strings.TrimSpace(line)
		}
	}
	if len(blocks) > 0 {
		code = blocks[0]
	}
	return code, complexity
}

func isComplexityLine(line string) bool {
	lower := strings.ToLower(line)
	if !strings.Contains(lower, "complexity") {
		return false
	}
	return strings.Contains(line, "O(") || strings.Contains(lower, "time:") || strings.Contains(lower, "space:")
}
