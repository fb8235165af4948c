package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pondside/faceoff/go/clients/nhl_client"
	"github.com/pondside/faceoff/go/internal/dbconfig"
	"github.com/pondside/faceoff/go/internal/models"
	"github.com/pondside/faceoff/go/internal/player"
)

// Seeds the players table from the public NHL API: every active club's
// current roster, upserted by external id so reruns refresh in place.
func main() {
	ctx := context.Background()

	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	client := nhl_client.NewNHLClient()
	clubs, err := client.GetClubAbbreviations(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list clubs: %v\n", err)
		os.Exit(1)
	}

	var (
		total  int
		seeded int
		errs   int
	)

	for _, club := range clubs {
		rosterPlayers, err := client.GetClubRoster(ctx, club)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error fetching roster for %s: %v\n", club, err)
			errs++
			continue
		}

		for _, p := range rosterPlayers {
			total++
			position, err := player.NormalizePosition(p.PositionCode)
			if err != nil {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", p.FullName(), err)
				errs++
				continue
			}

			_, err = pool.Exec(ctx, `
				INSERT INTO players (id, external_id, full_name, nhl_team, position, injury_status)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (external_id) DO UPDATE
				SET full_name = EXCLUDED.full_name,
				    nhl_team = EXCLUDED.nhl_team,
				    position = EXCLUDED.position
			`,
				uuid.New(), p.ExternalID(), p.FullName(), club, position, models.InjuryStatusHealthy,
			)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error upserting player %s: %v\n", p.ExternalID(), err)
				errs++
				continue
			}
			seeded++
		}
	}

	fmt.Printf(
		"Players seed complete: %d total, %d seeded, %d errors\n",
		total, seeded, errs,
	)
}
