package catalog

// Schema migrations, applied in ascending version order against
// meta_version (§6). Grounded on original_source/backend/src/db.rs's
// MIGRATIONS table: one SQL batch per version, each run in its own
// transaction, each bumping the recorded version on success.
var migrations = []struct {
	version uint32
	sql     string
}{
	{version: 1, sql: schemaV1},
}

const schemaV1 = `
CREATE TYPE format AS ENUM (
	'mp3', 'flac', 'ogg', 'mp4', 'opus', 'wma', 'aac', 'aiff', 'alac', 'ape', 'wav', 'wv'
);

CREATE TABLE deletion (
	id UUID PRIMARY KEY,
	"timestamp" TIMESTAMP NOT NULL
);

CREATE TABLE file (
	id UUID PRIMARY KEY,
	path TEXT NOT NULL,
	hash BLOB NOT NULL,
	size UINTEGER NOT NULL,
	format format NOT NULL,
	duration REAL NOT NULL,
	added TIMESTAMP NOT NULL,
	deletion UUID REFERENCES deletion(id)
);

CREATE UNIQUE INDEX idx_file_path_live ON file(path) WHERE deletion IS NULL;
CREATE INDEX idx_file_hash ON file(hash);

CREATE TABLE album (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	year USMALLINT
);

CREATE TABLE artist (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE track (
	id UUID PRIMARY KEY,
	file UUID NOT NULL REFERENCES file(id),
	title TEXT NOT NULL,
	album UUID REFERENCES album(id),
	disc_number UTINYINT,
	track_number UTINYINT,
	genre TEXT NOT NULL,
	start_position REAL,
	end_position REAL,
	rating REAL
);

CREATE TABLE credit (
	track UUID NOT NULL REFERENCES track(id),
	artist UUID NOT NULL REFERENCES artist(id),
	ord REAL NOT NULL,
	role TEXT,
	PRIMARY KEY (track, artist)
);
`
