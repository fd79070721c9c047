package pgx

// schemaDDL creates the two tables spec.md §6 requires plus a single
// append_to_stream function that performs the version check and the
// insert of a whole batch atomically. Grounded on the
// append_to_store(...) stored-procedure pattern from go-eventually's
// postgres store, combined with a bootstrap-on-construct style (run once
// from NewEventStore, idempotent via IF NOT EXISTS / CREATE OR REPLACE)
// borrowed from cacack-my-family's createTables.
//
// The function signals an optimistic concurrency conflict by returning
// ok=false rather than raising an exception, so callers never pay for
// Postgres's exception machinery on the common "someone else appended
// first" path. A stream-type mismatch is a programming error, not a
// race, so it is still raised as an exception (SQLSTATE ES001).
const schemaDDL = `
CREATE TABLE IF NOT EXISTS streams (
	id      TEXT PRIMARY KEY,
	type    TEXT NOT NULL,
	version BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id          UUID PRIMARY KEY,
	stream_id   TEXT NOT NULL REFERENCES streams(id),
	stream_type TEXT NOT NULL,
	version     BIGINT NOT NULL,
	type        TEXT NOT NULL,
	data        JSONB NOT NULL,
	metadata    JSONB NOT NULL DEFAULT '{}',
	created     TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (stream_id, version)
);

CREATE INDEX IF NOT EXISTS events_stream_type_idx ON events (stream_type, stream_id, version);
CREATE INDEX IF NOT EXISTS events_created_idx ON events (created, stream_id, version);

CREATE TABLE IF NOT EXISTS snapshots (
	stream_id TEXT PRIMARY KEY,
	version   BIGINT NOT NULL,
	state     JSONB NOT NULL,
	at        TIMESTAMPTZ NOT NULL
);

CREATE OR REPLACE FUNCTION append_to_stream(
	p_stream_id TEXT,
	p_stream_type TEXT,
	p_expected_version BIGINT,
	p_events JSONB,
	p_metadata JSONB,
	OUT ok BOOLEAN,
	OUT new_version BIGINT,
	OUT actual_version BIGINT
) AS $$
DECLARE
	v_actual_type TEXT;
	rec RECORD;
BEGIN
	SELECT version, type INTO actual_version, v_actual_type
	FROM streams WHERE id = p_stream_id FOR UPDATE;

	IF NOT FOUND THEN
		actual_version := 0;
		v_actual_type := p_stream_type;
		INSERT INTO streams (id, type, version) VALUES (p_stream_id, p_stream_type, 0);
	END IF;

	IF v_actual_type <> p_stream_type THEN
		RAISE EXCEPTION 'stream % has type % but append asserted %', p_stream_id, v_actual_type, p_stream_type
			USING ERRCODE = 'ES001';
	END IF;

	IF p_expected_version >= 0 AND actual_version <> p_expected_version THEN
		ok := false;
		new_version := actual_version;
		RETURN;
	END IF;

	new_version := actual_version;

	FOR rec IN
		SELECT (value->>'id')::uuid AS id, value->>'type' AS type, value->'data' AS data, ord
		FROM jsonb_array_elements(p_events) WITH ORDINALITY AS t(value, ord)
		ORDER BY ord
	LOOP
		new_version := new_version + 1;
		INSERT INTO events (id, stream_id, stream_type, version, type, data, metadata)
		VALUES (rec.id, p_stream_id, p_stream_type, new_version, rec.type, rec.data, p_metadata);
	END LOOP;

	IF new_version <> actual_version THEN
		UPDATE streams SET version = new_version WHERE id = p_stream_id;
	END IF;

	ok := true;
	actual_version := new_version;
END;
$$ LANGUAGE plpgsql;
`

const streamTypeMismatchSQLState = "ES001"
