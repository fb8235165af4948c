// Package dbschema bootstraps the Postgres schema. The uniqueness constraint
// on roster_entries (league_id, player_id) is the load-bearing piece: it is
// what makes two concurrent claims on the same free agent race at the
// database instead of in application code.
package dbschema

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leagues (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	commissioner_id UUID NOT NULL REFERENCES users(id),
	settings JSONB NOT NULL,
	status TEXT NOT NULL,
	season TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS fantasy_teams (
	id UUID PRIMARY KEY,
	league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
	owner_id UUID REFERENCES users(id),
	name TEXT NOT NULL,
	logo_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (league_id, owner_id)
);

CREATE TABLE IF NOT EXISTS players (
	id UUID PRIMARY KEY,
	external_id TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	nhl_team TEXT NOT NULL DEFAULT '',
	position TEXT NOT NULL,
	injury_status TEXT NOT NULL DEFAULT 'HEALTHY',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS roster_entries (
	id UUID PRIMARY KEY,
	league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
	fantasy_team_id UUID NOT NULL REFERENCES fantasy_teams(id) ON DELETE CASCADE,
	player_id UUID NOT NULL REFERENCES players(id),
	acquired_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	acquisition_type TEXT NOT NULL,
	UNIQUE (league_id, player_id)
);

CREATE INDEX IF NOT EXISTS idx_roster_entries_team ON roster_entries(fantasy_team_id);

CREATE TABLE IF NOT EXISTS transaction_ledger (
	id UUID PRIMARY KEY,
	league_id UUID NOT NULL REFERENCES leagues(id),
	team_id UUID NOT NULL,
	actor_id UUID NOT NULL,
	type TEXT NOT NULL,
	changes JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ledger_league ON transaction_ledger(league_id, created_at);

CREATE TABLE IF NOT EXISTS waiver_players (
	league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
	player_id UUID NOT NULL REFERENCES players(id),
	waived_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	clears_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (league_id, player_id)
);

CREATE TABLE IF NOT EXISTS waiver_priority (
	league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
	fantasy_team_id UUID NOT NULL REFERENCES fantasy_teams(id) ON DELETE CASCADE,
	priority INT NOT NULL,
	PRIMARY KEY (league_id, fantasy_team_id),
	UNIQUE (league_id, priority)
);

CREATE TABLE IF NOT EXISTS waiver_claims (
	league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
	player_id UUID NOT NULL REFERENCES players(id),
	fantasy_team_id UUID NOT NULL REFERENCES fantasy_teams(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (league_id, player_id, fantasy_team_id)
);

CREATE TABLE IF NOT EXISTS lineup_preferences (
	fantasy_team_id UUID NOT NULL REFERENCES fantasy_teams(id) ON DELETE CASCADE,
	player_id UUID NOT NULL REFERENCES players(id),
	slot TEXT NOT NULL,
	PRIMARY KEY (fantasy_team_id, player_id)
);

CREATE TABLE IF NOT EXISTS lineup_projections (
	fantasy_team_id UUID NOT NULL REFERENCES fantasy_teams(id) ON DELETE CASCADE,
	date TEXT NOT NULL,
	lineup JSONB,
	stale BOOLEAN NOT NULL DEFAULT FALSE,
	computed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (fantasy_team_id, date)
);

CREATE TABLE IF NOT EXISTS daily_roster_snapshots (
	id UUID PRIMARY KEY,
	fantasy_team_id UUID NOT NULL REFERENCES fantasy_teams(id),
	matchup_id UUID NOT NULL,
	date TEXT NOT NULL,
	lineup JSONB NOT NULL,
	locked BOOLEAN NOT NULL DEFAULT FALSE,
	locked_at TIMESTAMPTZ,
	UNIQUE (fantasy_team_id, matchup_id, date)
);

CREATE TABLE IF NOT EXISTS draft_results (
	id UUID PRIMARY KEY,
	league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
	fantasy_team_id UUID NOT NULL REFERENCES fantasy_teams(id) ON DELETE CASCADE,
	player_id UUID NOT NULL REFERENCES players(id),
	overall_pick INT NOT NULL,
	picked_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (league_id, overall_pick)
);

CREATE TABLE IF NOT EXISTS roster_outbox (
	id UUID PRIMARY KEY,
	league_id UUID NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	sent_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_roster_outbox_unsent ON roster_outbox(created_at) WHERE sent_at IS NULL;

CREATE OR REPLACE FUNCTION notify_roster_outbox() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('roster_outbox_events', NEW.id::text);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS roster_outbox_notify ON roster_outbox;
CREATE TRIGGER roster_outbox_notify AFTER INSERT ON roster_outbox
	FOR EACH ROW EXECUTE FUNCTION notify_roster_outbox();
`

// Apply creates all tables if they do not exist.
func Apply(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
