package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: USERS & OAUTH CREDENTIALS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Main users table; one row per mobile account linked to a Strava athlete.
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    strava_id VARCHAR(30) NOT NULL UNIQUE,
    nickname VARCHAR(100) NOT NULL DEFAULT '',
    email VARCHAR(255) NOT NULL DEFAULT '',
    birthdate VARCHAR(10) NOT NULL DEFAULT '',
    gender VARCHAR(20) NOT NULL DEFAULT '',
    country VARCHAR(60) NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_strava_id ON users(strava_id);

-- One Strava token set per user, refreshed in place.
CREATE TABLE IF NOT EXISTS oauth_credentials (
    user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    access_token TEXT NOT NULL,
    refresh_token TEXT NOT NULL,
    expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: ACTIVITIES & LEAGUE FAN-OUT
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Saved activities, keyed user_activity so re-saving an import is idempotent.
CREATE TABLE IF NOT EXISTS activities (
    doc_id VARCHAR(120) PRIMARY KEY,
    user_id VARCHAR(60) NOT NULL,
    activity_id VARCHAR(60) NOT NULL,
    kind VARCHAR(30) NOT NULL,
    distance_km DOUBLE PRECISION NOT NULL CHECK (distance_km >= 0),
    duration_min DOUBLE PRECISION NOT NULL CHECK (duration_min >= 0),
    elevation_m DOUBLE PRECISION NOT NULL CHECK (elevation_m >= 0),
    start_date VARCHAR(40) NOT NULL,
    avg_speed DOUBLE PRECISION,
    summary_polyline TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_activities_user_id ON activities(user_id);

-- Fan-out: an activity appears under every league it was shared into.
CREATE TABLE IF NOT EXISTS league_activities (
    league_id VARCHAR(60) NOT NULL,
    doc_id VARCHAR(120) NOT NULL REFERENCES activities(doc_id) ON DELETE CASCADE,
    PRIMARY KEY (league_id, doc_id)
);

CREATE INDEX IF NOT EXISTS idx_league_activities_league ON league_activities(league_id);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: SOCIAL (LIKES & COMMENTS)
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- One row per (activity, user) like; toggling deletes the row.
CREATE TABLE IF NOT EXISTS activity_likes (
    activity_id VARCHAR(120) NOT NULL,
    user_id VARCHAR(60) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    PRIMARY KEY (activity_id, user_id)
);

CREATE TABLE IF NOT EXISTS activity_comments (
    id UUID PRIMARY KEY,
    activity_id VARCHAR(120) NOT NULL,
    user_id VARCHAR(60) NOT NULL,
    nickname VARCHAR(100) NOT NULL,
    body TEXT NOT NULL,
    posted_at VARCHAR(40) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_comments_activity
    ON activity_comments(activity_id, posted_at);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: ACHIEVEMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Client-computed achievement state, stored as-is.
CREATE TABLE IF NOT EXISTS user_achievements (
    user_id VARCHAR(60) PRIMARY KEY,
    unlocked JSONB NOT NULL DEFAULT '{}'::jsonb,
    locked JSONB NOT NULL DEFAULT '[]'::jsonb,
    updated_at VARCHAR(40) NOT NULL
);
`

// Migrations returns all embedded migrations in order.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_users_and_credentials", UpSQL: migration001Up},
		{Version: 2, Name: "create_activities_and_league_fanout", UpSQL: migration002Up},
		{Version: 3, Name: "create_social", UpSQL: migration003Up},
		{Version: 4, Name: "create_achievements", UpSQL: migration004Up},
	}
}
