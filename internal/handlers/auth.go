package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minesweeper-leaderboard/internal/config"
	"github.com/vancomm/minesweeper-leaderboard/internal/middleware"
	"github.com/vancomm/minesweeper-leaderboard/internal/repository"
)

var (
	ErrBadAuthBody        = errors.New("request body must contain username and password")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

type Auth struct {
	log        logrus.FieldLogger
	repo       PlayerRepository
	cookies    *config.Cookies
	jwt        *config.JWT
	bcryptCost int
}

func NewAuth(
	log logrus.FieldLogger,
	repo PlayerRepository,
	cookies *config.Cookies,
	jwt *config.JWT,
	bcryptCost int,
) *Auth {
	return &Auth{
		log:        log,
		repo:       repo,
		cookies:    cookies,
		jwt:        jwt,
		bcryptCost: bcryptCost,
	}
}

func (h Auth) parseCredentials(w http.ResponseWriter, r *http.Request) (*CredentialsDTO, bool) {
	var dto CredentialsDTO
	if err := decodeBody(w, r, &dto); err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, ErrBadAuthBody)
		return nil, false
	}
	if len(dto.Password) > maxPasswordBytes {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, ErrPasswordTooLong)
		return nil, false
	}
	return &dto, true
}

// issueToken signs the player's claims and mirrors the token into cookies.
func (h Auth) issueToken(w http.ResponseWriter, p *repository.Player) (string, error) {
	token, err := h.jwt.Sign(
		config.NewPlayerClaims(p.PlayerId, p.Username, h.jwt.TokenLifetime),
	)
	if err != nil {
		return "", err
	}
	if err := h.cookies.Refresh(w, token, time.Now().Add(h.jwt.TokenLifetime)); err != nil {
		return "", err
	}
	return token, nil
}

func (h Auth) Register(w http.ResponseWriter, r *http.Request) {
	dto, ok := h.parseCredentials(w, r)
	if !ok {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), h.bcryptCost)
	if err != nil {
		internalError(w, h.log, err, "unable to hash password")
		return
	}

	player, err := h.repo.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     dto.Username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		sendErrorOrLog(w, h.log, http.StatusConflict, ErrUsernameTaken)
		return
	}
	if err != nil {
		internalError(w, h.log, err, "unable to insert player")
		return
	}

	if _, err := h.issueToken(w, player); err != nil {
		internalError(w, h.log, err, "unable to create a jwt token")
		return
	}

	h.log.WithField("player_id", player.PlayerId).Info("player registered")
	sendJSONOrLog(w, h.log, http.StatusCreated, message("user created", map[string]any{
		"user_id": player.PlayerId,
	}))
}

func (h Auth) Login(w http.ResponseWriter, r *http.Request) {
	dto, ok := h.parseCredentials(w, r)
	if !ok {
		return
	}

	player, err := h.repo.FetchPlayer(r.Context(), dto.Username)
	if errors.Is(err, repository.ErrNotFound) {
		sendErrorOrLog(w, h.log, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err != nil {
		internalError(w, h.log, err, "unable to fetch player")
		return
	}

	err = bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(dto.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		sendErrorOrLog(w, h.log, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err != nil {
		internalError(w, h.log, err, "bcrypt compare error")
		return
	}

	token, err := h.issueToken(w, player)
	if err != nil {
		internalError(w, h.log, err, "unable to create a jwt token")
		return
	}

	sendJSONOrLog(w, h.log, http.StatusOK, LoginDTO{
		Token: token,
		User:  UserDTO{Id: player.PlayerId, Username: player.Username},
	})
}

func (h Auth) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	sendJSONOrLog(w, h.log, http.StatusOK, message("logged out", nil))
}

func (h Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		sendJSONOrLog(w, h.log, http.StatusOK, StatusDTO{LoggedIn: false})
		return
	}

	sendJSONOrLog(w, h.log, http.StatusOK, StatusDTO{
		LoggedIn: true,
		Player:   &PlayerInfo{claims.PlayerId, claims.Username},
	})
}
