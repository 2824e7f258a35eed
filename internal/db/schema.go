package db

import "context"

// Only one session may have a NULL end_time; the partial unique index turns
// "start a session" into a conditional insert.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         UUID PRIMARY KEY,
	start_time TIMESTAMPTZ NOT NULL DEFAULT now(),
	end_time   TIMESTAMPTZ,
	distance   DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (distance >= 0)
);

CREATE UNIQUE INDEX IF NOT EXISTS sessions_single_open
	ON sessions ((end_time IS NULL))
	WHERE end_time IS NULL;

CREATE INDEX IF NOT EXISTS sessions_start_time_idx
	ON sessions (start_time DESC);

CREATE TABLE IF NOT EXISTS locations (
	id          BIGSERIAL PRIMARY KEY,
	latitude    DOUBLE PRECISION NOT NULL,
	longitude   DOUBLE PRECISION NOT NULL,
	distance    DOUBLE PRECISION NOT NULL DEFAULT 0,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS locations_recorded_at_idx
	ON locations (recorded_at DESC, id DESC);
`

// Migrate creates the sessions and locations tables when missing.
func Migrate(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schema)
	return err
}
