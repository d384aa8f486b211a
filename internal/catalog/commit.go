package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	duckdb "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"github.com/franzsee/collectune/internal/util"
)

// createStagingTablesSQL mirrors original_source/backend/src/scanner/staging.rs's
// create_staging_tables: one temp table per staged entity kind on the
// single catalog connection. The connection returns to the pool after a
// commit with its temp tables still in place, so each commit replaces
// them with empty ones.
const createStagingTablesSQL = `
CREATE OR REPLACE TEMP TABLE staging_artist (id UUID, name TEXT);
CREATE OR REPLACE TEMP TABLE staging_album (id UUID, title TEXT, year USMALLINT);
CREATE OR REPLACE TEMP TABLE staging_file (id UUID, path TEXT, hash BLOB, size UINTEGER, format format, duration REAL);
CREATE OR REPLACE TEMP TABLE staging_track (id UUID, file UUID, title TEXT, album UUID, disc_number UTINYINT, track_number UTINYINT, genre TEXT);
CREATE OR REPLACE TEMP TABLE staging_credit (track UUID, artist UUID, ord REAL, role TEXT);
CREATE OR REPLACE TEMP TABLE staging_moved (id UUID, new_path TEXT);
CREATE OR REPLACE TEMP TABLE staging_modified (id UUID, hash BLOB, size UINTEGER, duration REAL);
CREATE OR REPLACE TEMP TABLE staging_deleted (file_id UUID, deletion_id UUID);
`

// batchSQL mirrors staging.rs's BATCH_SQL: the one ordered, transactional
// pass from staging tables into the live schema (§4.6). Inserts precede
// updates precede deletion marking; within inserts, artist/album precede
// file precedes track precedes credit, satisfying the foreign-key order
// in §3's invariants.
const batchSQL = `
INSERT INTO artist (id, name) SELECT id, name FROM staging_artist;
INSERT INTO album (id, title, year) SELECT id, title, year FROM staging_album;

INSERT INTO file (id, path, hash, size, format, duration, added, deletion)
SELECT id, path, hash, size, format, duration, now(), NULL FROM staging_file;

INSERT INTO track (id, file, title, album, disc_number, track_number, genre, start_position, end_position, rating)
SELECT id, file, title, album, disc_number, track_number, genre, NULL, NULL, NULL FROM staging_track;

INSERT INTO credit (track, artist, ord, role)
SELECT track, artist, ord, role FROM staging_credit;

UPDATE file SET path = sm.new_path
FROM staging_moved sm WHERE file.id = sm.id;

UPDATE file SET hash = sm.hash, size = sm.size, duration = sm.duration
FROM staging_modified sm WHERE file.id = sm.id;

INSERT INTO deletion (id, "timestamp")
SELECT DISTINCT deletion_id, now() FROM staging_deleted;

UPDATE file SET deletion = sd.deletion_id
FROM staging_deleted sd WHERE file.id = sd.file_id;
`

// Commit stages data onto the single catalog connection and applies it in
// one all-or-nothing transaction (§4.6). Any failure at any point leaves
// the live schema untouched: only the temp staging tables are written
// outside the transaction, and the transactional batch never partially
// commits.
func Commit(ctx context.Context, s *Store, data StagingData) error {
	conn, err := s.DB().Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire catalog connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, createStagingTablesSQL); err != nil {
		return fmt.Errorf("create staging tables: %w", err)
	}

	if err := appendStagingRows(ctx, conn, data); err != nil {
		return fmt.Errorf("populate staging tables: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	if _, err := tx.ExecContext(ctx, batchSQL); err != nil {
		return fmt.Errorf("%w: %v", util.ErrCommitFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", util.ErrCommitFailed, err)
	}
	return nil
}

func appendStagingRows(ctx context.Context, conn *sql.Conn, data StagingData) error {
	return conn.Raw(func(driverConn any) error {
		dc, ok := driverConn.(driver.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}

		appenders := []func() error{
			func() error { return appendArtists(dc, data.Artists) },
			func() error { return appendAlbums(dc, data.Albums) },
			func() error { return appendFiles(dc, data.Files) },
			func() error { return appendTracks(dc, data.Tracks) },
			func() error { return appendCredits(dc, data.Credits) },
			func() error { return appendMoved(dc, data.Moved) },
			func() error { return appendModified(dc, data.Modified) },
			func() error { return appendDeleted(dc, data.Deleted) },
		}
		for _, step := range appenders {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}

func appendArtists(conn driver.Conn, rows []StagingArtist) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "staging_artist")
	if err != nil {
		return err
	}
	defer app.Close()
	for _, a := range rows {
		if err := app.AppendRow(a.ID.String(), a.Name); err != nil {
			return err
		}
	}
	return nil
}

func appendAlbums(conn driver.Conn, rows []StagingAlbum) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "staging_album")
	if err != nil {
		return err
	}
	defer app.Close()
	for _, a := range rows {
		if err := app.AppendRow(a.ID.String(), a.Title, optionalUint16(a.Year)); err != nil {
			return err
		}
	}
	return nil
}

func appendFiles(conn driver.Conn, rows []StagingFile) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "staging_file")
	if err != nil {
		return err
	}
	defer app.Close()
	for _, f := range rows {
		if err := app.AppendRow(f.ID.String(), f.Path, f.Hash[:], f.Size, string(f.Format), f.Duration); err != nil {
			return err
		}
	}
	return nil
}

func appendTracks(conn driver.Conn, rows []StagingTrack) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "staging_track")
	if err != nil {
		return err
	}
	defer app.Close()
	for _, t := range rows {
		if err := app.AppendRow(
			t.ID.String(),
			t.File.String(),
			t.Title,
			optionalUUID(t.Album),
			optionalUint8(t.DiscNumber),
			optionalUint8(t.TrackNumber),
			t.Genre,
		); err != nil {
			return err
		}
	}
	return nil
}

func appendCredits(conn driver.Conn, rows []StagingCredit) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "staging_credit")
	if err != nil {
		return err
	}
	defer app.Close()
	for _, c := range rows {
		var role any
		if c.Role != nil {
			role = *c.Role
		}
		if err := app.AppendRow(c.Track.String(), c.Artist.String(), float32(c.Ord), role); err != nil {
			return err
		}
	}
	return nil
}

func appendMoved(conn driver.Conn, rows []StagingMoved) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "staging_moved")
	if err != nil {
		return err
	}
	defer app.Close()
	for _, m := range rows {
		if err := app.AppendRow(m.ID.String(), m.NewPath); err != nil {
			return err
		}
	}
	return nil
}

func appendModified(conn driver.Conn, rows []StagingModified) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "staging_modified")
	if err != nil {
		return err
	}
	defer app.Close()
	for _, m := range rows {
		if err := app.AppendRow(m.ID.String(), m.Hash[:], m.Size, m.Duration); err != nil {
			return err
		}
	}
	return nil
}

func appendDeleted(conn driver.Conn, rows []StagingDeleted) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "staging_deleted")
	if err != nil {
		return err
	}
	defer app.Close()
	for _, d := range rows {
		if err := app.AppendRow(d.FileID.String(), d.DeletionID.String()); err != nil {
			return err
		}
	}
	return nil
}

func optionalUint16(v *uint16) any {
	if v == nil {
		return nil
	}
	return *v
}

func optionalUint8(v *uint8) any {
	if v == nil {
		return nil
	}
	return *v
}

func optionalUUID(v *uuid.UUID) any {
	if v == nil {
		return nil
	}
	return v.String()
}
