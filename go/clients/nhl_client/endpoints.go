package nhl_client

const (
	// Base URL
	BaseURL = "https://api-web.nhle.com"

	// API Endpoints
	RosterEndpoint    = "/v1/roster/%s/current" // club abbreviation, e.g. TOR
	StandingsEndpoint = "/v1/standings/now"
)
