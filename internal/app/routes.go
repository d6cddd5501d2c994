package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vancomm/minesweeper-leaderboard/internal/handlers"
	"github.com/vancomm/minesweeper-leaderboard/internal/middleware"
)

func (a *App) Router() *mux.Router {
	auth := handlers.NewAuth(a.log, a.repo, a.cookies, a.jwt, a.BcryptCost)
	leaderboard := handlers.NewLeaderboard(a.log, a.repo, a.ws, a.cfg.LeaderboardSize)
	games := handlers.NewGames(a.log, a.repo, leaderboard)

	router := mux.NewRouter()
	router.Methods(http.MethodGet).Path("/status").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	api := router.PathPrefix(a.cfg.BasePath + "/api").Subrouter()

	users := api.PathPrefix("/users").Subrouter()
	users.Methods(http.MethodPost).Path("/register").HandlerFunc(auth.Register)
	users.Methods(http.MethodPost).Path("/login").HandlerFunc(auth.Login)
	users.Methods(http.MethodPost).Path("/logout").HandlerFunc(auth.Logout)
	users.Methods(http.MethodGet).Path("/status").HandlerFunc(auth.Status)

	api.Methods(http.MethodPost).Path("/games").
		Handler(middleware.RequireAuth(http.HandlerFunc(games.Create)))
	api.Methods(http.MethodPut).Path("/games/{id}").
		Handler(middleware.RequireAuth(http.HandlerFunc(games.Update)))

	api.Methods(http.MethodGet).Path("/leaderboard/{difficulty}").HandlerFunc(leaderboard.Get)
	api.Path("/leaderboard/{difficulty}/live").HandlerFunc(leaderboard.Live)

	return router
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.Router(),
		middleware.Logging(a.log),
		middleware.Auth(a.log, a.jwt, a.cookies),
		middleware.Cors(a.AllowedOrigins...),
	)
}
