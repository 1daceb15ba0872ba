package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/steamcarve/steamcarve/internal/model"
)

// CarveDB provides SQLite-based storage for carve runs and raw artifacts.
//
// Design decision: One database file for all runs rather than one per
// image. Cross-run queries (history per image, repeated SteamIDs across
// captures) need the runs side by side.
type CarveDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures CarveDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended: artifact
	// inserts stream in while the scan is still running.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CarveDB under the specified directory.
func Open(dbDir string, opts Options) (*CarveDB, error) {
	dbPath := filepath.Join(dbDir, "steamcarve.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection modes: rwc allows creation, rw
	// requires an existing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; funnel everything through one
	// connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CarveDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CarveDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CarveDB) createTables() error {
	schema := `
	-- One row per carve run over one image
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		image_path TEXT NOT NULL,
		fingerprint TEXT,
		chunk_size INTEGER NOT NULL,
		overlap INTEGER NOT NULL,
		min_length INTEGER NOT NULL,
		scan_unicode INTEGER NOT NULL,
		ranges INTEGER DEFAULT 0,
		chunks INTEGER DEFAULT 0,
		skipped_chunks INTEGER DEFAULT 0,
		bytes_scanned INTEGER DEFAULT 0,
		artifact_count INTEGER DEFAULT 0,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_scans_image ON scans(image_path);
	CREATE INDEX IF NOT EXISTS idx_scans_started ON scans(started_at);

	-- Raw artifact records, keyed by run
	CREATE TABLE IF NOT EXISTS artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id INTEGER NOT NULL REFERENCES scans(id),
		kind TEXT NOT NULL,
		abs_offset INTEGER NOT NULL,
		preview TEXT,
		steamid TEXT,
		unix_ts INTEGER,
		message TEXT,
		value TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_artifacts_scan ON artifacts(scan_id);
	CREATE INDEX IF NOT EXISTS idx_artifacts_kind ON artifacts(kind);
	CREATE INDEX IF NOT EXISTS idx_artifacts_steamid ON artifacts(steamid);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// BeginScan records the start of a carve run and returns its scan ID.
func (cdb *CarveDB) BeginScan(ctx context.Context, report *model.CarveReport) (int64, error) {
	res, err := cdb.db.ExecContext(ctx, `
	INSERT INTO scans (image_path, fingerprint, chunk_size, overlap, min_length, scan_unicode, started_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.Image,
		report.Fingerprint,
		report.ChunkSize,
		report.Overlap,
		report.MinLength,
		boolToInt(report.ScanUnicode),
		report.StartedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}
	return res.LastInsertId()
}

// FinishScan records the end of a carve run: statistics, finish time, and
// the fatal error, if any.
func (cdb *CarveDB) FinishScan(ctx context.Context, scanID int64, report *model.CarveReport) error {
	_, err := cdb.db.ExecContext(ctx, `
	UPDATE scans
	SET chunk_size = ?, overlap = ?, min_length = ?, scan_unicode = ?,
	    ranges = ?, chunks = ?, skipped_chunks = ?, bytes_scanned = ?,
	    artifact_count = ?, finished_at = ?, error = ?
	WHERE id = ?`,
		report.ChunkSize,
		report.Overlap,
		report.MinLength,
		boolToInt(report.ScanUnicode),
		report.Ranges,
		report.Chunks,
		report.SkippedChunks,
		report.BytesScanned,
		report.TotalArtifacts(),
		report.FinishedAt.UTC(),
		report.ErrorMessage,
		scanID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish scan: %w", err)
	}
	return nil
}

// InsertArtifact appends one raw artifact to a run.
func (cdb *CarveDB) InsertArtifact(ctx context.Context, scanID int64, a model.Artifact) error {
	_, err := cdb.db.ExecContext(ctx, `
	INSERT INTO artifacts (scan_id, kind, abs_offset, preview, steamid, unix_ts, message, value)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		scanID,
		a.Kind.String(),
		int64(a.Offset),
		a.Preview,
		a.SteamID,
		int64(a.UnixTsMs),
		a.Message,
		a.Value,
	)
	if err != nil {
		return fmt.Errorf("failed to insert artifact: %w", err)
	}
	return nil
}

// ScanSummary is one row of the history listing.
type ScanSummary struct {
	ID            int64
	ImagePath     string
	Fingerprint   string
	ArtifactCount int
	StartedAt     time.Time
	FinishedAt    time.Time
	Error         string
}

// ListScans returns carve runs in reverse chronological order. When
// imagePath is non-empty, only runs over that image are returned.
func (cdb *CarveDB) ListScans(ctx context.Context, imagePath string) ([]ScanSummary, error) {
	query := `
	SELECT id, image_path, COALESCE(fingerprint, ''), artifact_count,
	       started_at, COALESCE(finished_at, started_at), COALESCE(error, '')
	FROM scans`
	args := []any{}
	if imagePath != "" {
		query += " WHERE image_path = ?"
		args = append(args, imagePath)
	}
	query += " ORDER BY started_at DESC"

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var scans []ScanSummary
	for rows.Next() {
		var s ScanSummary
		var started, finished string
		if err := rows.Scan(&s.ID, &s.ImagePath, &s.Fingerprint, &s.ArtifactCount,
			&started, &finished, &s.Error); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		s.StartedAt = parseTimestamp(started)
		s.FinishedAt = parseTimestamp(finished)
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

// CountArtifactsByKind tallies a run's artifacts per kind.
func (cdb *CarveDB) CountArtifactsByKind(ctx context.Context, scanID int64) (map[model.Kind]int, error) {
	rows, err := cdb.db.QueryContext(ctx,
		"SELECT kind, COUNT(*) FROM artifacts WHERE scan_id = ? GROUP BY kind", scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to count artifacts: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[model.ParseKind(kind)] = n
	}
	return counts, rows.Err()
}

// parseTimestamp parses the timestamp formats sqlite hands back.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// boolToInt stores booleans as SQLite integers.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
