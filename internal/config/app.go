package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type App struct {
	Addr        string
	BasePath    string
	Development bool
	LogFile     string
	// LeaderboardSize caps the number of rows served per tier.
	LeaderboardSize int
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

func NewApp() (*App, error) {
	app := &App{
		Addr:            ":8080",
		BasePath:        strings.TrimSuffix(os.Getenv("APP_BASE_PATH"), "/"),
		Development:     Development(),
		LogFile:         os.Getenv("LOG_FILE"),
		LeaderboardSize: 10,
	}

	if port, ok := os.LookupEnv("APP_PORT"); ok {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		app.Addr = port
	}

	if sizeStr, ok := os.LookupEnv("LEADERBOARD_SIZE"); ok {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("LEADERBOARD_SIZE must be a positive integer, got %q", sizeStr)
		}
		app.LeaderboardSize = size
	}

	return app, nil
}
