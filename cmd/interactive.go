package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/cf-tutor/internal/model"
)

// problemSource is the extractor surface the terminal commands use.
type problemSource interface {
	Process(ctx context.Context, url string) bool
	Search(id string) (*model.Problem, bool)
	List() []model.ProblemSummary
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Extract a problem, then browse the collection from a prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer env.Close()

		return runInteractive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), env.Extractor)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

const interactiveHelp = `Commands:
  - Enter a number (1,2,3...) to select a problem
  - Enter a problem ID (e.g., 2135C) to search
  - Enter 'add <URL>' to process a new problem
  - Enter 'list' to show all problems
  - Enter 'quit' to exit`

// runInteractive asks for a first URL, then reads commands until quit or
// end of input. A failed first extraction ends the session.
func runInteractive(ctx context.Context, in io.Reader, out io.Writer, src problemSource) error {
	scanner := bufio.NewScanner(in)
	readLine := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	fmt.Fprintf(out, "\n%s\nCODEFORCES SOLUTION EXTRACTOR\n%s\n", rule, rule)

	url, ok := readLine("\nEnter Codeforces problem URL: ")
	if !ok {
		return scanner.Err()
	}
	if url != "" && !processURL(ctx, out, src, url) {
		fmt.Fprintln(out, "Failed to process the problem.")
		return nil
	}

	fmt.Fprintf(out, "\n%s\nINTERACTIVE MODE\n%s\n%s\n%s\n", rule, rule, interactiveHelp, strings.Repeat("-", len(rule)))

	for {
		if ctx.Err() != nil {
			return nil
		}
		ids := printProblemList(out, src.List())

		command, ok := readLine("\nEnter command: ")
		if !ok {
			fmt.Fprintln(out, "\nGoodbye!")
			return scanner.Err()
		}
		lower := strings.ToLower(command)

		switch {
		case lower == "quit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case lower == "list", command == "":
		case lower == "add", strings.HasPrefix(lower, "add "):
			if target := strings.TrimSpace(command[3:]); target != "" {
				processURL(ctx, out, src, target)
			} else {
				fmt.Fprintln(out, "Please provide a URL after 'add'")
			}
		default:
			if n, err := strconv.Atoi(command); err == nil && n >= 1 && n <= len(ids) {
				command = ids[n-1]
			}
			if p, found := src.Search(command); found {
				displayProblem(out, p)
			} else {
				fmt.Fprintf(out, "Problem '%s' not found.\n", command)
			}
		}
	}
}

func processURL(ctx context.Context, out io.Writer, src problemSource, url string) bool {
	fmt.Fprintf(out, "Processing %s ...\n", url)
	if !src.Process(ctx, url) {
		return false
	}
	fmt.Fprintln(out, "Problem processing complete!")
	return true
}
