package nhl_client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// LocalizedName is how the NHL API wraps translatable strings
type LocalizedName struct {
	Default string `json:"default"`
}

// RosterPlayer is one player on a club roster. The upstream id is numeric;
// ExternalID normalizes it to a string.
type RosterPlayer struct {
	ID           int           `json:"id"`
	FirstName    LocalizedName `json:"firstName"`
	LastName     LocalizedName `json:"lastName"`
	PositionCode string        `json:"positionCode"`
}

// ExternalID returns the upstream id as a string
func (p RosterPlayer) ExternalID() string {
	return strconv.Itoa(p.ID)
}

// FullName joins the localized name parts
func (p RosterPlayer) FullName() string {
	return p.FirstName.Default + " " + p.LastName.Default
}

type rosterResponse struct {
	Forwards   []RosterPlayer `json:"forwards"`
	Defensemen []RosterPlayer `json:"defensemen"`
	Goalies    []RosterPlayer `json:"goalies"`
}

type standingsResponse struct {
	Standings []struct {
		TeamAbbrev LocalizedName `json:"teamAbbrev"`
	} `json:"standings"`
}

// GetClubRoster returns the current roster for one club abbreviation
func (c *NHLClient) GetClubRoster(ctx context.Context, clubAbbrev string) ([]RosterPlayer, error) {
	body, err := c.Get(ctx, fmt.Sprintf(RosterEndpoint, clubAbbrev))
	if err != nil {
		return nil, fmt.Errorf("failed to get roster for %s: %w", clubAbbrev, err)
	}

	var response rosterResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster response: %w", err)
	}

	players := make([]RosterPlayer, 0, len(response.Forwards)+len(response.Defensemen)+len(response.Goalies))
	players = append(players, response.Forwards...)
	players = append(players, response.Defensemen...)
	players = append(players, response.Goalies...)
	return players, nil
}

// GetClubAbbreviations returns every active club abbreviation from the
// current standings.
func (c *NHLClient) GetClubAbbreviations(ctx context.Context) ([]string, error) {
	body, err := c.Get(ctx, StandingsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}

	var response standingsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal standings response: %w", err)
	}

	abbrevs := make([]string, 0, len(response.Standings))
	for _, row := range response.Standings {
		abbrevs = append(abbrevs, row.TeamAbbrev.Default)
	}
	return abbrevs, nil
}
