package database

import (
	"context"
	"fmt"
	"strings"

	"party-invites/core/logger"
)

// DBSchemas lists the schema statements in apply order. Column types are
// written as placeholders and resolved per driver by Schemas.
var DBSchemas = []string{`
CREATE TABLE IF NOT EXISTS users (
	id {{uuid}} PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL DEFAULT '',
	password_hash TEXT,
	google_id TEXT UNIQUE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at {{ts}} NOT NULL,
	updated_at {{ts}} NOT NULL
);
`, `
CREATE TABLE IF NOT EXISTS children (
	id {{uuid}} PRIMARY KEY,
	user_id {{uuid}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	birth_date {{ts}} NOT NULL,
	created_at {{ts}} NOT NULL,
	updated_at {{ts}} NOT NULL
);
`, `
CREATE TABLE IF NOT EXISTS parties (
	id {{uuid}} PRIMARY KEY,
	user_id {{uuid}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	child_id {{uuid}} NOT NULL REFERENCES children(id) ON DELETE CASCADE,
	event_datetime {{ts}} NOT NULL,
	event_end_datetime {{ts}},
	location TEXT NOT NULL,
	theme TEXT,
	notes TEXT,
	public_rsvp_token TEXT NOT NULL UNIQUE,
	template_id TEXT NOT NULL DEFAULT '',
	photo_sharing_enabled BOOLEAN NOT NULL DEFAULT FALSE,
	photo_sharing_paid BOOLEAN NOT NULL DEFAULT FALSE,
	created_at {{ts}} NOT NULL,
	updated_at {{ts}} NOT NULL
);
`, `
CREATE INDEX IF NOT EXISTS idx_parties_event_datetime ON parties(event_datetime);
`, `
CREATE TABLE IF NOT EXISTS guests (
	id {{uuid}} PRIMARY KEY,
	party_id {{uuid}} NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
	user_id {{uuid}} REFERENCES users(id) ON DELETE SET NULL,
	parent_name TEXT NOT NULL DEFAULT '',
	child_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL,
	phone TEXT,
	created_at {{ts}} NOT NULL,
	updated_at {{ts}} NOT NULL,
	UNIQUE (party_id, email)
);
`, `
CREATE TABLE IF NOT EXISTS rsvps (
	id {{uuid}} PRIMARY KEY,
	guest_id {{uuid}} NOT NULL UNIQUE REFERENCES guests(id) ON DELETE CASCADE,
	party_id {{uuid}} NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
	status TEXT NOT NULL,
	children_count INTEGER NOT NULL DEFAULT 0,
	parent_stays BOOLEAN NOT NULL DEFAULT FALSE,
	allergies TEXT,
	message TEXT,
	created_at {{ts}} NOT NULL,
	updated_at {{ts}} NOT NULL
);
`, `
CREATE TABLE IF NOT EXISTS reminders (
	id {{uuid}} PRIMARY KEY,
	party_id {{uuid}} NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
	type TEXT NOT NULL,
	scheduled_for {{ts}},
	sent_at {{ts}},
	created_at {{ts}} NOT NULL,
	updated_at {{ts}} NOT NULL,
	UNIQUE (party_id, type)
);
`, `
CREATE TABLE IF NOT EXISTS notifications (
	id {{uuid}} PRIMARY KEY,
	user_id {{uuid}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	type TEXT NOT NULL,
	data {{json}},
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at {{ts}} NOT NULL,
	updated_at {{ts}} NOT NULL
);
`, `
CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);
`, `
CREATE TABLE IF NOT EXISTS party_template_purchases (
	party_id {{uuid}} NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
	template_id TEXT NOT NULL,
	payment_ref TEXT NOT NULL DEFAULT '',
	created_at {{ts}} NOT NULL,
	PRIMARY KEY (party_id, template_id)
);
`, `
CREATE TABLE IF NOT EXISTS payment_events (
	event_id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	party_id {{uuid}},
	product TEXT NOT NULL DEFAULT '',
	reference TEXT NOT NULL DEFAULT '',
	amount_cents INTEGER NOT NULL DEFAULT 0,
	received_at {{ts}} NOT NULL
);
`, `
CREATE TABLE IF NOT EXISTS photos (
	id {{uuid}} PRIMARY KEY,
	party_id {{uuid}} NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
	uploader_name TEXT NOT NULL DEFAULT '',
	object_key TEXT NOT NULL UNIQUE,
	content_type TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	created_at {{ts}} NOT NULL,
	updated_at {{ts}} NOT NULL
);
`}

// Schemas returns DBSchemas with column types for the given driver.
func Schemas(driver string) []string {
	replacer := strings.NewReplacer("{{uuid}}", "UUID", "{{ts}}", "TIMESTAMPTZ", "{{json}}", "JSONB")
	if driver == "sqlite3" {
		// go-sqlite3 only decodes TIMESTAMP/DATETIME/DATE declared columns into time.Time
		replacer = strings.NewReplacer("{{uuid}}", "TEXT", "{{ts}}", "TIMESTAMP", "{{json}}", "TEXT")
	}

	out := make([]string, len(DBSchemas))
	for i, s := range DBSchemas {
		out[i] = replacer.Replace(s)
	}
	return out
}

func Migrate(ctx context.Context, db IDatabase) error {
	for i, stmt := range Schemas(db.DriverName()) {
		if err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error("Database:Migrate:Error", "statement", i, "error", err)
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	logger.Info("Database:Migrate:Done", "statements", len(DBSchemas))
	return nil
}
