package nhl_client

import (
	"github.com/pondside/faceoff/go/clients"
)

// NHLClient talks to the public NHL web API for club rosters
type NHLClient struct {
	*clients.BaseClient
}

func NewNHLClient() *NHLClient {
	return &NHLClient{
		BaseClient: clients.NewBaseClient(BaseURL),
	}
}
