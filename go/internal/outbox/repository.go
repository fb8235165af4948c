package outbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pondside/faceoff/go/internal/sqlutil"
)

// Repository reads and settles roster outbox rows. Inserts happen inside the
// transaction processor's transactions; this side only drains.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new outbox repository
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

const eventColumns = `id, league_id, event_type, payload, created_at, sent_at`

// FetchUnsent returns up to limit undelivered events, oldest first. Rows are
// locked with SKIP LOCKED so concurrent workers never double-deliver within
// one polling cycle.
func (r *Repository) FetchUnsent(ctx context.Context, limit int) ([]OutboxEvent, error) {
	q := `SELECT ` + eventColumns + `
		FROM roster_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`

	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// FetchByID returns one outbox event, typically from a NOTIFY payload
func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*OutboxEvent, error) {
	q := `SELECT ` + eventColumns + ` FROM roster_outbox WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("outbox event not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MarkSent stamps the given events as delivered
func (r *Repository) MarkSent(ctx context.Context, ids []uuid.UUID) error {
	const q = `UPDATE roster_outbox SET sent_at = now() WHERE id = ANY($1) AND sent_at IS NULL`

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	if _, err := r.db.ExecContext(ctx, q, pq.Array(strs)); err != nil {
		return fmt.Errorf("failed to mark outbox events sent: %w", err)
	}
	return nil
}

func scanEvent(row interface{ Scan(...interface{}) error }) (OutboxEvent, error) {
	var e OutboxEvent
	var sentAt sql.NullTime
	if err := row.Scan(&e.ID, &e.LeagueID, &e.EventType, &e.Payload, &e.CreatedAt, &sentAt); err != nil {
		if err == sql.ErrNoRows {
			return e, err
		}
		return e, fmt.Errorf("failed to scan outbox event: %w", err)
	}
	e.SentAt = sqlutil.FromSqlTime(sentAt)
	return e, nil
}
