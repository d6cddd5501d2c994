package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/vancomm/minesweeper-leaderboard/internal/client"
	"github.com/vancomm/minesweeper-leaderboard/internal/store"
)

const credentialsKey = "credentials"

type credentials struct {
	Server   string
	Username string
	Token    string
}

// savedToken returns the token cached for the configured server, if any.
func savedToken(settings *store.Store) (credentials, bool, error) {
	var c credentials
	err := settings.Get(credentialsKey, &c)
	if errors.Is(err, store.ErrNotFound) {
		return c, false, nil
	}
	if err != nil {
		return c, false, err
	}
	return c, c.Server == viper.GetString("server") && c.Token != "", nil
}

func readPassword(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p, nil
	}
	if p := viper.GetString("password"); p != "" {
		return p, nil
	}
	fmt.Fprint(cmd.OutOrStdout(), "password: ")

	var line string
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		line = string(raw)
	} else {
		// piped input
		read, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimRight(read, "\r\n")
	}
	if line == "" {
		return "", errors.New("password required")
	}
	return line, nil
}

func login(cmd *cobra.Command, c *client.Client, username, password string) error {
	data, err := openLocalData()
	if err != nil {
		return err
	}
	defer data.Close()

	user, err := c.Login(cmd.Context(), username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	err = data.settings.Set(credentialsKey, credentials{
		Server:   viper.GetString("server"),
		Username: user.Username,
		Token:    c.Token(),
	})
	if err != nil {
		return fmt.Errorf("unable to save credentials: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", user.Username)
	return nil
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		c := client.New(viper.GetString("server"))
		if _, err := c.Register(cmd.Context(), args[0], password); err != nil {
			if errors.Is(err, client.ErrConflict) {
				return fmt.Errorf("username %s is taken", args[0])
			}
			return fmt.Errorf("register failed: %w", err)
		}
		return login(cmd, c, args[0], password)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and remember the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		return login(cmd, client.New(viper.GetString("server")), args[0], password)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := openLocalData()
		if err != nil {
			return err
		}
		defer data.Close()
		return data.settings.Delete(credentialsKey)
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().String("password", "", "Password (prompted when empty)")
	}
}
