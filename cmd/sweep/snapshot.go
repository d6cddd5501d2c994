package main

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

var (
	snapshotDifficulty string
	snapshotSeed       uint64
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print a generated mine layout as YAML",
	Long: `Print a generated mine layout as YAML. The output can be replayed with
	sweep play --board layout.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := mines.ParseDifficulty(snapshotDifficulty)
		if err != nil {
			return err
		}
		seed := snapshotSeed
		if seed == 0 {
			seed = new(maphash.Hash).Sum64()
		}
		board, err := mines.GenerateFor(d, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			return err
		}
		out, err := board.Snapshot(d).Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotDifficulty, "difficulty", "d", string(mines.Easy), "easy, medium or hard")
	snapshotCmd.Flags().Uint64Var(&snapshotSeed, "seed", 0, "Generator seed (random when 0)")
}
