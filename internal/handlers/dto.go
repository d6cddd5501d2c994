package handlers

import (
	"errors"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

type CredentialsDTO struct {
	Username string `schema:"username,required" json:"username"`
	Password string `schema:"password,required" json:"password"`
}

func (d *CredentialsDTO) Validate() error {
	if d.Username == "" || d.Password == "" {
		return errors.New("username and password are required")
	}
	return nil
}

type CreateGameDTO struct {
	Difficulty mines.Difficulty `schema:"difficulty,required" json:"difficulty"`
}

func (d *CreateGameDTO) Validate() error {
	if d.Difficulty == "" {
		return errors.New("difficulty is required")
	}
	return nil
}

type UpdateGameDTO struct {
	Status mines.Status `schema:"status,required" json:"status"`
	// TimeTaken is whole seconds. Older clients send timeTaken.
	TimeTaken      *int `schema:"time_taken" json:"time_taken"`
	TimeTakenCamel *int `schema:"timeTaken" json:"timeTaken"`
}

func (d *UpdateGameDTO) Validate() error {
	seconds, ok := d.Seconds()
	if !d.Status.Terminal() || !ok || seconds < 0 {
		return errors.New("status must be terminal and time taken non-negative")
	}
	return nil
}

func (d UpdateGameDTO) Seconds() (int, bool) {
	switch {
	case d.TimeTaken != nil:
		return *d.TimeTaken, true
	case d.TimeTakenCamel != nil:
		return *d.TimeTakenCamel, true
	}
	return 0, false
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type UserDTO struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
}

type LoginDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type StatusDTO struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}
