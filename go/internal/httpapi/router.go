package httpapi

import (
	"net/http"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Users        *UsersHandler
	Leagues      *LeaguesHandler
	Roster       *RosterHandler
	Transactions *TransactionsHandler
	Lineup       *LineupHandler
	Players      *PlayersHandler
}

// NewRouter mounts all API routes on a fresh mux
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Users and auth
	mux.HandleFunc("POST /users", WithLogging(h.Users.CreateUser))
	mux.HandleFunc("GET /users/{id}", WithLogging(h.Users.GetUser))
	mux.HandleFunc("PUT /users/{id}", WithLogging(h.Users.UpdateUser))
	mux.HandleFunc("POST /users/{id}/token", WithLogging(h.Users.IssueToken))

	// Leagues and teams
	mux.HandleFunc("POST /leagues", WithLogging(h.Leagues.CreateLeague))
	mux.HandleFunc("GET /leagues/{id}", WithLogging(h.Leagues.GetLeague))
	mux.HandleFunc("PUT /leagues/{id}", WithLogging(h.Leagues.UpdateLeague))
	mux.HandleFunc("PUT /leagues/{id}/settings", WithLogging(h.Leagues.UpdateLeagueSettings))
	mux.HandleFunc("GET /leagues/{id}/teams", WithLogging(h.Leagues.ListLeagueTeams))
	mux.HandleFunc("POST /teams", WithLogging(h.Leagues.CreateTeam))
	mux.HandleFunc("GET /teams/{id}", WithLogging(h.Leagues.GetTeam))
	mux.HandleFunc("POST /teams/{id}/claim", WithLogging(h.Leagues.ClaimTeam))

	// Roster ledger reads
	mux.HandleFunc("GET /leagues/{leagueID}/teams/{teamID}/roster", WithLogging(h.Roster.GetRoster))
	mux.HandleFunc("GET /leagues/{leagueID}/players/{playerID}/owner", WithLogging(h.Roster.GetOwner))

	// Roster moves and the ledger
	mux.HandleFunc("POST /leagues/{leagueID}/teams/{teamID}/moves", WithLogging(h.Transactions.ApplyMove))
	mux.HandleFunc("POST /leagues/{leagueID}/teams/{teamID}/waiver-claims", WithLogging(h.Transactions.FileWaiverClaim))
	mux.HandleFunc("POST /leagues/{leagueID}/draft-sync", WithLogging(h.Transactions.SyncDraftResults))
	mux.HandleFunc("GET /leagues/{leagueID}/transactions", WithLogging(h.Transactions.GetLedger))

	// Lineups
	mux.HandleFunc("GET /leagues/{leagueID}/teams/{teamID}/lineup", WithLogging(h.Lineup.GetProjection))
	mux.HandleFunc("PUT /leagues/{leagueID}/teams/{teamID}/lineup/preferences", WithLogging(h.Lineup.SetSlotPreference))
	mux.HandleFunc("DELETE /leagues/{leagueID}/teams/{teamID}/lineup/preferences/{playerID}", WithLogging(h.Lineup.ClearSlotPreference))
	mux.HandleFunc("POST /leagues/{leagueID}/teams/{teamID}/lineup/lock", WithLogging(h.Lineup.LockSnapshot))

	// Player pool
	mux.HandleFunc("POST /players", WithLogging(h.Players.UpsertPlayer))
	mux.HandleFunc("GET /players/{id}", WithLogging(h.Players.GetPlayer))
	mux.HandleFunc("PUT /players/{id}/injury-status", WithLogging(h.Players.UpdateInjuryStatus))

	return mux
}
