package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset progress and game history",
	RunE: func(cmd *cobra.Command, args []string) error {
		includeLLM, _ := cmd.Flags().GetBool("llm")
		yes, _ := cmd.Flags().GetBool("yes")

		if !yes {
			fmt.Print("This deletes your high score, level and game history. Continue? [y/N] ")
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Reset(cmd.Context(), includeLLM); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		logger.Info("progress reset")
		fmt.Println("Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("llm", false, "Also delete recorded LLM requests")
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
