package store

// Statements use $N placeholders in order of first appearance and never
// reuse one; the SQLite connection rewrites them to plain "?".
const (
	qCreateUser = `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`

	qGetUser = `
		SELECT id, email, password_hash, created_at
		FROM users WHERE id = $1`

	qGetUserByEmail = `
		SELECT id, email, password_hash, created_at
		FROM users WHERE email = $1`

	qUpdatePassword = `
		UPDATE users SET password_hash = $1 WHERE id = $2`

	qCreateProperty = `
		INSERT INTO properties (id, owner_id, name, domain, embed_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	qGetProperty = `
		SELECT id, owner_id, name, domain, embed_key, created_at
		FROM properties WHERE id = $1`

	qGetPropertyByKey = `
		SELECT id, owner_id, name, domain, embed_key, created_at
		FROM properties WHERE embed_key = $1`

	qListProperties = `
		SELECT id, owner_id, name, domain, embed_key, created_at
		FROM properties
		WHERE owner_id = $1
		ORDER BY created_at ASC, name ASC`

	qGetWidgetSettings = `
		SELECT property_id, app_name, primary_color, enabled, updated_at
		FROM widget_settings WHERE property_id = $1`

	qSaveWidgetSettings = `
		INSERT INTO widget_settings (property_id, app_name, primary_color, enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (property_id) DO UPDATE SET
			app_name = excluded.app_name,
			primary_color = excluded.primary_color,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`

	qCreateFeedback = `
		INSERT INTO feedbacks (id, property_id, message, email, page, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	qListFeedbacks = `
		SELECT id, property_id, message, email, page, created_at
		FROM feedbacks
		WHERE property_id = $1
		ORDER BY created_at DESC`

	qCreateFeature = `
		INSERT INTO features (id, property_id, title, description, votes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	qListFeatures = `
		SELECT id, property_id, title, description, votes, created_at
		FROM features
		WHERE property_id = $1
		ORDER BY votes DESC, created_at ASC`

	qDeleteFeature = `
		DELETE FROM features WHERE property_id = $1 AND id = $2`

	qVoteFeature = `
		UPDATE features SET votes = votes + 1
		WHERE property_id = $1 AND id = $2
		RETURNING votes`

	qCreateIntegration = `
		INSERT INTO integrations (id, property_id, kind, target_cipher, target_nonce, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	qListIntegrations = `
		SELECT id, property_id, kind, target_cipher, target_nonce, enabled, created_at
		FROM integrations
		WHERE property_id = $1
		ORDER BY created_at ASC`

	qDeleteIntegration = `
		DELETE FROM integrations WHERE property_id = $1 AND id = $2`
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		domain TEXT NOT NULL DEFAULT '',
		embed_key TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS properties_owner_idx ON properties (owner_id)`,
	`CREATE TABLE IF NOT EXISTS widget_settings (
		property_id UUID PRIMARY KEY REFERENCES properties(id) ON DELETE CASCADE,
		app_name TEXT NOT NULL,
		primary_color TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedbacks (
		id UUID PRIMARY KEY,
		property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		page TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS feedbacks_property_idx ON feedbacks (property_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS features (
		id UUID PRIMARY KEY,
		property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		votes INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS integrations (
		id UUID PRIMARY KEY,
		property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		target_cipher BYTEA NOT NULL,
		target_nonce BYTEA NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		domain TEXT NOT NULL DEFAULT '',
		embed_key TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS properties_owner_idx ON properties (owner_id)`,
	`CREATE TABLE IF NOT EXISTS widget_settings (
		property_id TEXT PRIMARY KEY REFERENCES properties(id) ON DELETE CASCADE,
		app_name TEXT NOT NULL,
		primary_color TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT 1,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedbacks (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		page TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS feedbacks_property_idx ON feedbacks (property_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS features (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		votes INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS integrations (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		target_cipher BLOB NOT NULL,
		target_nonce BLOB NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	)`,
}
