package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [prompt]",
	Short: "Refine a prompt through clarifying questions",
	Long: `Sends a prompt to the prompt optimiser, shows its clarifying questions,
collects an answer for each and prints the optimised prompt.

Answers are read from stdin one line per question unless given with --answer.
Use --questions-only to stop after the questions are shown.

Examples:
  artisan optimize "write a class that reads a global"
  artisan optimize "summarise the log" -a "error lines only" -a "one paragraph"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOptimize,
}

var (
	optimizeAnswers       []string
	optimizeQuestionsOnly bool
)

func init() {
	optimizeCmd.Flags().StringArrayVarP(&optimizeAnswers, "answer", "a", nil, "Answer to a clarifying question (repeat in order)")
	optimizeCmd.Flags().BoolVar(&optimizeQuestionsOnly, "questions-only", false, "Only print the clarifying questions")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if refinementCoordinator == nil {
		return errors.New("refinement service not configured")
	}

	ctx := cmd.Context()
	prompt := strings.Join(args, " ")

	session, err := refinementCoordinator.Submit(ctx, prompt)
	if err != nil {
		return fmt.Errorf("failed to optimise prompt: %w", err)
	}

	if len(session.ClarifyingQuestions) == 0 {
		cmd.Println("The optimiser returned no clarifying questions.")
		return nil
	}

	cmd.Println(bold("Clarifying questions:"))
	for i, q := range session.ClarifyingQuestions {
		cmd.Printf("  %d. %s\n", i+1, q)
	}
	cmd.Println()

	if optimizeQuestionsOnly {
		return nil
	}

	responses, err := collectAnswers(cmd, session.ClarifyingQuestions)
	if err != nil {
		return err
	}

	result, err := refinementCoordinator.Answer(ctx, responses)
	if err != nil {
		return fmt.Errorf("failed to submit answers: %w", err)
	}

	printOptimized(cmd, result)
	return nil
}

// collectAnswers uses --answer values when given, and otherwise reads one
// line per question from the command's input.
func collectAnswers(cmd *cobra.Command, questions []string) ([]string, error) {
	if len(optimizeAnswers) > 0 {
		if len(optimizeAnswers) != len(questions) {
			return nil, fmt.Errorf("got %d answers for %d questions", len(optimizeAnswers), len(questions))
		}
		return optimizeAnswers, nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	responses := make([]string, 0, len(questions))
	for i, q := range questions {
		cmd.Printf("%s %s\n> ", faint(fmt.Sprintf("[%d/%d]", i+1, len(questions))), q)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading answer: %w", err)
		}
		responses = append(responses, strings.TrimSpace(line))
		if errors.Is(err, io.EOF) && i < len(questions)-1 {
			return nil, fmt.Errorf("input ended after %d of %d answers", i+1, len(questions))
		}
	}
	cmd.Println()
	return responses, nil
}

func printOptimized(cmd *cobra.Command, result domain.OptimizedPrompt) {
	cmd.Println(bold("Optimised prompt:"))
	cmd.Println()
	cmd.Println(result.OptimizedPrompt)
	if result.KeyImprovements != "" {
		cmd.Println()
		cmd.Println(bold("Key improvements:"))
		cmd.Println(result.KeyImprovements)
	}
}
