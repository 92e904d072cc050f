package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fol2/mathsquiz/internal/problemgen"
	"github.com/fol2/mathsquiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime progress and recent games",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		p, err := s.ProgressRepo().Load(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		fmt.Printf("High score:     %d\n", p.HighScore)
		fmt.Printf("Best level:     %s\n", problemgen.Level(p.BestLevel))
		fmt.Printf("Games played:   %d\n", p.GamesPlayed)
		fmt.Printf("Total correct:  %d\n", p.TotalCorrect)
		if p.GamesPlayed > 0 {
			fmt.Printf("Avg per answer: %.1fs\n", p.AverageTime.Seconds())
		}

		games, err := s.EventRepo().RecentGames(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query games: %w", err)
		}
		if len(games) == 0 {
			fmt.Println("\nNo games played yet.")
			return nil
		}

		fmt.Println()
		tw := newTable(os.Stdout)
		fmt.Fprintln(tw, "PLAYED\tSCORE\tLEVELS\tCORRECT\tAVG\tPRACTICE")
		for _, g := range games {
			fmt.Fprintf(tw, "%s\t%d\t%d→%d\t%d/%d\t%.1fs\t%d\n",
				g.Timestamp.Local().Format("2006-01-02 15:04"),
				g.Score,
				g.StartLevel, g.FinalLevel,
				g.Correct, g.Attempted,
				g.AvgAnswerTime.Seconds(),
				g.Degraded,
			)
		}
		return tw.Flush()
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Number of recent games to show")
}
