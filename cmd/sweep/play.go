package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper-leaderboard/internal/client"
	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
	"github.com/vancomm/minesweeper-leaderboard/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an interactive game",
	Long: `Play an interactive game. Finished games are sent to the leaderboard
server when logged in and kept in the local history otherwise.

Games played on a --board layout are not recorded anywhere.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	d, err := mines.ParseDifficulty(viper.GetString("difficulty"))
	if err != nil {
		return err
	}

	data, err := openLocalData()
	if err != nil {
		return err
	}
	defer data.Close()

	var recorder session.Recorder = data.history
	var opts []session.Option
	var layout mines.Difficulty

	if path := viper.GetString("board"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap, err := mines.LoadSnapshot(raw)
		if err != nil {
			return err
		}
		if _, err := snap.Board(); err != nil {
			return err
		}
		if snap.Difficulty != "" {
			d = snap.Difficulty
		}
		layout = d
		opts = append(opts, session.WithBoardSource(
			func(mines.Difficulty, *rand.Rand) (*mines.Board, error) {
				return snap.Board()
			},
		))
		recorder = session.Nop{}
	} else if !viper.GetBool("offline") {
		creds, ok, err := savedToken(data.settings)
		if err != nil {
			return err
		}
		if ok {
			log.WithField("username", creds.Username).Debug("recording games on server")
			recorder = client.New(creds.Server, client.WithToken(creds.Token))
		}
	}

	s := session.New(recorder, log.WithField("component", "session"), opts...)
	defer s.Close()

	if err := s.NewGame(d); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), helpText)
	return playLoop(s, layout, cmd.InOrStdin(), cmd.OutOrStdout())
}

func init() {
	flags := playCmd.Flags()
	flags.StringP("difficulty", "d", string(mines.Easy), "easy, medium or hard")
	flags.String("board", "", "Play a YAML layout made by sweep snapshot")
	flags.Bool("offline", false, "Keep results in the local history only")
	for _, name := range []string{"difficulty", "board", "offline"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
}
