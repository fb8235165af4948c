package main

import (
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/pondside/faceoff/go/internal/fantasyteam"
	"github.com/pondside/faceoff/go/internal/httpapi"
	"github.com/pondside/faceoff/go/internal/leagues"
	"github.com/pondside/faceoff/go/internal/lineup"
	"github.com/pondside/faceoff/go/internal/membership"
	"github.com/pondside/faceoff/go/internal/player"
	"github.com/pondside/faceoff/go/internal/roster"
	"github.com/pondside/faceoff/go/internal/transactions"
	"github.com/pondside/faceoff/go/internal/users"
)

// Services holds the wired application layer
type Services struct {
	Guard        *membership.Guard
	Users        *users.App
	Leagues      *leagues.App
	FantasyTeams *fantasyteam.App
	Players      *player.App
	Roster       *roster.App
	Transactions *transactions.App
	Lineup       *lineup.App
}

func setupServices(database *sql.DB) *Services {
	// Database layer → Repository layer → App layer
	clock := clockwork.NewRealClock()

	guard := membership.NewGuard(membership.NewRepository(database))

	usersRepo := users.NewRepository(database)
	usersApp := users.NewApp(usersRepo)

	leaguesRepo := leagues.NewRepository(database)
	leaguesApp := leagues.NewApp(leaguesRepo, usersRepo)

	teamsRepo := fantasyteam.NewRepository(database)
	teamsApp := fantasyteam.NewApp(teamsRepo, usersRepo, leaguesRepo)

	playersRepo := player.NewRepository(database)
	playersApp := player.NewApp(playersRepo)

	rosterRepo := roster.NewRepository(database)
	rosterApp := roster.NewApp(rosterRepo, guard)

	txRepo := transactions.NewRepository(database)
	txApp := transactions.NewApp(txRepo, guard, leaguesRepo, clock)

	lineupRepo := lineup.NewRepository(database)
	lineupApp := lineup.NewApp(lineupRepo, rosterRepo, playersRepo, leaguesRepo, guard, clock)

	return &Services{
		Guard:        guard,
		Users:        usersApp,
		Leagues:      leaguesApp,
		FantasyTeams: teamsApp,
		Players:      playersApp,
		Roster:       rosterApp,
		Transactions: txApp,
		Lineup:       lineupApp,
	}
}

func setupHandlers(services *Services, tokenSecret string) httpapi.Handlers {
	return httpapi.Handlers{
		Users:        httpapi.NewUsersHandler(services.Users, tokenSecret),
		Leagues:      httpapi.NewLeaguesHandler(services.Leagues, services.FantasyTeams),
		Roster:       httpapi.NewRosterHandler(services.Roster),
		Transactions: httpapi.NewTransactionsHandler(services.Transactions),
		Lineup:       httpapi.NewLineupHandler(services.Lineup, services.Guard),
		Players:      httpapi.NewPlayersHandler(services.Players),
	}
}
