package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show games played on this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := openLocalData()
		if err != nil {
			return err
		}
		defer data.Close()

		best, err := data.history.BestTimes(cmd.Context())
		if err != nil {
			return err
		}
		records, err := data.history.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DIFFICULTY\tBEST")
		for _, d := range mines.Difficulties() {
			if t, ok := best[d]; ok {
				fmt.Fprintf(w, "%s\t%ds\n", d, t)
			} else {
				fmt.Fprintf(w, "%s\t-\n", d)
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "STARTED\tDIFFICULTY\tSTATUS\tTIME")
		for _, r := range records {
			taken := "-"
			if r.TimeTaken != nil {
				taken = fmt.Sprintf("%ds", *r.TimeTaken)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04"), r.Difficulty, r.Status, taken)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of games to list")
}
