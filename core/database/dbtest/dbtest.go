// Package dbtest opens migrated in-memory SQLite databases for repository tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"party-invites/core/database"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func New(t *testing.T) *database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := sqlx.Connect("sqlite3", dsn)
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	db := database.Wrap(conn)
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// SeedUser inserts a host user and returns its id.
func SeedUser(t *testing.T, db database.IDatabase, email string) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	id := uuid.New()
	require.NoError(t, db.ExecContext(context.Background(), db.Rebind(
		`INSERT INTO users (id, email, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`),
		id, email, "Host", now, now))
	return id
}

// SeedParty inserts a child and a party owned by userID and returns the
// party id. The RSVP token is the party id.
func SeedParty(t *testing.T, db database.IDatabase, userID uuid.UUID, event time.Time) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	childID, partyID := uuid.New(), uuid.New()
	require.NoError(t, db.ExecContext(ctx, db.Rebind(
		`INSERT INTO children (id, user_id, name, birth_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
		childID, userID, "Mia", time.Date(2020, 5, 30, 0, 0, 0, 0, time.UTC), now, now))
	require.NoError(t, db.ExecContext(ctx, db.Rebind(
		`INSERT INTO parties (id, user_id, child_id, event_datetime, location, public_rsvp_token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		partyID, userID, childID, event.UTC(), "Park", partyID.String(), now, now))
	return partyID
}
