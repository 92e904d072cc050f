package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fol2/mathsquiz/internal/llm"
	"github.com/fol2/mathsquiz/internal/problemgen"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated questions for one or more levels (no database)",
	Long: `Request a batch of questions per level and print them with their answers.

This is a stateless developer tool: nothing is cached or recorded. Without an
API key, or with --fallback, the built-in practice generator is used instead.
Practice questions whose answer does not match their own arithmetic are flagged.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Int("level", 1, "Difficulty level (1-20)")
	previewCmd.Flags().IntSlice("levels", nil, "Several levels, fetched concurrently (overrides --level)")
	previewCmd.Flags().Int("count", 5, "Questions per level")
	previewCmd.Flags().Bool("fallback", false, "Use the practice generator even when an API key is set")
	previewCmd.Flags().Bool("quiz", false, "Answer the questions interactively instead of listing answers")
}

func runPreview(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetInt("level")
	levels, _ := cmd.Flags().GetIntSlice("levels")
	count, _ := cmd.Flags().GetInt("count")
	useFallback, _ := cmd.Flags().GetBool("fallback")
	quiz, _ := cmd.Flags().GetBool("quiz")

	if len(levels) == 0 {
		levels = []int{level}
	}
	for _, l := range levels {
		if !problemgen.Level(l).Valid() {
			return fmt.Errorf("invalid level %d: must be %d-%d", l, problemgen.MinLevel, problemgen.MaxLevel)
		}
	}
	if count < 1 {
		return fmt.Errorf("invalid count %d: must be positive", count)
	}

	ctx := cmd.Context()

	var gen *problemgen.LLMGenerator
	if !useFallback && cfg.LLM.APIKey() != "" {
		// No EventRepo: preview requests are only logged.
		provider, err := llm.NewProvider(ctx, cfg.LLM, nil, logger)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		gen = problemgen.New(provider, cfg.Supply().Generator)
		fmt.Printf("Model: %s\n", gen.ModelID())
	} else {
		fmt.Println("Model: practice generator")
	}

	batches, err := fetchBatches(ctx, gen, levels, count)
	if err != nil {
		return err
	}

	if quiz {
		return quizBatches(batches)
	}

	for i, l := range levels {
		lv := problemgen.Level(l)
		fmt.Printf("\n── Level %s, ages %d ──\n", lv, lv.Age())
		for j, p := range batches[i] {
			fmt.Printf("%2d. %s\n    = %s%s\n", j+1, p.Text, formatAnswer(p.Answer), consistencyMark(p))
		}
	}
	return nil
}

// fetchBatches requests one batch per level concurrently. A nil generator
// uses the practice generator. Results are in the order of levels.
func fetchBatches(ctx context.Context, gen *problemgen.LLMGenerator, levels []int, count int) ([][]problemgen.Problem, error) {
	batches := make([][]problemgen.Problem, len(levels))

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range levels {
		g.Go(func() error {
			lv := problemgen.Level(l)
			if gen == nil {
				batch := make([]problemgen.Problem, count)
				for j := range batch {
					batch[j] = problemgen.Fallback(lv)
				}
				batches[i] = batch
				return nil
			}
			batch, err := gen.RequestBatch(gctx, lv, count)
			if err != nil {
				return fmt.Errorf("level %d: %s: %w", l, problemgen.Classify(err), err)
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

// quizBatches asks every question on stdin and prints a score.
func quizBatches(batches [][]problemgen.Problem) error {
	scanner := bufio.NewScanner(os.Stdin)

	var correct, asked int
	for _, batch := range batches {
		for _, q := range batch {
			asked++
			fmt.Printf("\n── Question %d · %s ──\n", asked, q.Level.Name())
			fmt.Println(q.Text)

			fmt.Print("\nYour answer: ")
			if !scanner.Scan() {
				fmt.Println("\n(input closed)")
				return summarizeQuiz(correct, asked-1)
			}
			answer := strings.TrimSpace(scanner.Text())
			if answer == "" {
				fmt.Println("(skipped)")
				continue
			}

			if problemgen.CheckAnswer(answer, q) {
				correct++
				fmt.Println("\033[32m✓ Correct!\033[0m")
			} else {
				fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %s\n", formatAnswer(q.Answer))
			}
		}
	}
	return summarizeQuiz(correct, asked)
}

func summarizeQuiz(correct, asked int) error {
	fmt.Printf("\n── Summary: %d/%d correct ──\n", correct, asked)
	return nil
}

// consistencyMark flags practice questions whose stated answer disagrees
// with the arithmetic in their text.
func consistencyMark(p problemgen.Problem) string {
	if !p.Degraded() {
		return ""
	}
	if problemgen.ConsistentAnswer(p.Text, p.Answer) {
		return "  ✓"
	}
	return "  ⚠ inconsistent"
}

func formatAnswer(v float64) string {
	return fmt.Sprintf("%g", v)
}
