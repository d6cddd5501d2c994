package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper-leaderboard/internal/client"
	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [difficulty]",
	Short: "Show the best times for a difficulty",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := string(mines.Easy)
		if len(args) > 0 {
			name = args[0]
		}
		d, err := mines.ParseDifficulty(name)
		if err != nil {
			return err
		}

		entries, err := client.New(viper.GetString("server")).Leaderboard(cmd.Context(), d)
		if err != nil {
			return fmt.Errorf("unable to fetch leaderboard: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no %s wins yet\n", d)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tPLAYER\tTIME\tDATE")
		for i, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%ds\t%s\n",
				i+1, e.User.Username, e.BestTime, e.UpdatedAt.Local().Format("2006-01-02"))
		}
		return w.Flush()
	},
}
