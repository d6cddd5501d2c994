package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper-leaderboard/internal/logging"
	"github.com/vancomm/minesweeper-leaderboard/internal/store"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Play minesweeper in the terminal and compete on the leaderboard",
	Long: `sweep is a terminal minesweeper client.

Play a game, recorded on the leaderboard when logged in
	sweep play --difficulty medium

Play without touching the network
	sweep play --offline
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logging.Options{
			Development: viper.GetBool("debug"),
			File:        viper.GetString("log-file"),
			Output:      cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		if !viper.GetBool("debug") {
			l.SetLevel(logrus.WarnLevel)
			l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		}
		log = l
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultDataPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sweep.db"
	}
	return filepath.Join(dir, "sweep", "sweep.db")
}

// localData is the sqlite file shared by the settings store and the game
// history.
type localData struct {
	db       *sql.DB
	settings *store.Store
	history  *store.History
}

func openLocalData() (*localData, error) {
	path := viper.GetString("data")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create data dir: %w", err)
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	settings, err := store.NewStore(db, "settings")
	if err != nil {
		db.Close()
		return nil, err
	}
	history, err := store.NewHistory(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &localData{db: db, settings: settings, history: history}, nil
}

func (d *localData) Close() error {
	return d.db.Close()
}

func init() {
	viper.SetEnvPrefix("SWEEP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	flags := rootCmd.PersistentFlags()
	flags.String("server", "http://localhost:8080", "Leaderboard server base URL")
	flags.String("data", defaultDataPath(), "Path of the local sqlite database")
	flags.String("log-file", "", "Also write logs to this file")
	flags.Bool("debug", false, "Verbose logging")
	for _, name := range []string{"server", "data", "log-file", "debug"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(playCmd, registerCmd, loginCmd, logoutCmd, leaderboardCmd, historyCmd, snapshotCmd)
}
