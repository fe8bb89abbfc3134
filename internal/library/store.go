package library

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/fileutil"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrSchemaMismatch indicates the database records schema versions this
// build does not know about.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages the track metadata index backed by SQLite, plus the audio
// files stored alongside it under the library directory.
type Store struct {
	db      *sql.DB
	path    string
	baseDir string
}

// Open initializes or connects to the library database under the configured
// library directory and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	return OpenAt(cfg.Paths.LibraryDir)
}

// OpenAt opens the library rooted at baseDir.
func OpenAt(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}

	dbPath := filepath.Join(baseDir, "library.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, baseDir: baseDir}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[strings.TrimSuffix(name, ".sql")] = true
	}
	unknown, err := unknownVersions(ctx, tx, known)
	if err != nil {
		return err
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: database %s records versions %s from a newer build; upgrade coolio or delete the database",
			ErrSchemaMismatch, s.path, strings.Join(unknown, ", "))
	}

	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		raw, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(raw)); err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("record migration %s: %w", version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// unknownVersions lists recorded migration versions this build does not ship.
func unknownVersions(ctx context.Context, tx *sql.Tx, known map[string]bool) ([]string, error) {
	rows, err := tx.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("scan recorded versions: %w", err)
	}
	defer rows.Close()

	var unknown []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan recorded versions: %w", err)
		}
		if !known[version] {
			unknown = append(unknown, version)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan recorded versions: %w", err)
	}
	return unknown, nil
}

const trackColumns = "track_id, title, genre, subgenre, bpm, duration_ms, energy, role, provider, prompt_hash, session_id, created_at, last_used_at, usage_count"

// Save inserts or replaces a track's metadata row.
func (s *Store) Save(ctx context.Context, meta TrackMetadata) error {
	if meta.TrackID == "" {
		return services.Wrap(services.ErrValidation, "library", "save", "track id required", nil)
	}
	var lastUsed any
	if meta.LastUsedAt != nil {
		lastUsed = meta.LastUsedAt.UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tracks (`+trackColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.TrackID,
		meta.Title,
		meta.Genre,
		nullableString(meta.Subgenre),
		meta.BPM,
		meta.DurationMS,
		meta.Energy,
		meta.Role,
		nullableString(meta.Provider),
		nullableString(meta.PromptHash),
		nullableString(meta.SessionID),
		meta.CreatedAt.UTC().Format(time.RFC3339Nano),
		lastUsed,
		meta.UsageCount,
	)
	if err != nil {
		return fmt.Errorf("save track %s: %w", meta.TrackID, err)
	}
	return nil
}

// Get returns the track with the given id.
func (s *Store) Get(ctx context.Context, trackID string) (TrackMetadata, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+trackColumns+" FROM tracks WHERE track_id = ?", trackID)
	meta, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TrackMetadata{}, services.Wrap(services.ErrNotFound, "library", "get",
			fmt.Sprintf("track %s", trackID), nil)
	}
	return meta, err
}

// ListByGenre returns the tracks of one genre ordered by creation time,
// newest first. An empty genre lists the whole library.
func (s *Store) ListByGenre(ctx context.Context, genre string) ([]TrackMetadata, error) {
	query := "SELECT " + trackColumns + " FROM tracks ORDER BY created_at DESC"
	args := []any{}
	if genre != "" {
		query = "SELECT " + trackColumns + " FROM tracks WHERE genre = ? ORDER BY created_at DESC"
		args = append(args, genre)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []TrackMetadata
	for rows.Next() {
		meta, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, meta)
	}
	return tracks, rows.Err()
}

// FindByPromptHash returns tracks generated from the given prompt hash.
func (s *Store) FindByPromptHash(ctx context.Context, promptHash string) ([]TrackMetadata, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+trackColumns+" FROM tracks WHERE prompt_hash = ?", promptHash)
	if err != nil {
		return nil, fmt.Errorf("find by prompt hash: %w", err)
	}
	defer rows.Close()

	var tracks []TrackMetadata
	for rows.Next() {
		meta, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, meta)
	}
	return tracks, rows.Err()
}

// MarkUsed bumps the usage counter and records when the track was last
// placed in a session.
func (s *Store) MarkUsed(ctx context.Context, trackID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tracks SET usage_count = usage_count + 1, last_used_at = ? WHERE track_id = ?",
		time.Now().UTC().Format(time.RFC3339Nano), trackID)
	if err != nil {
		return fmt.Errorf("mark used %s: %w", trackID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark used %s: %w", trackID, err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "library", "mark-used",
			fmt.Sprintf("track %s", trackID), nil)
	}
	return nil
}

// AudioPath returns where a track's audio file lives in the library tree:
// tracks/<genre>/<track_id>.mp3.
func (s *Store) AudioPath(meta TrackMetadata) string {
	return filepath.Join(s.baseDir, "tracks", meta.Genre, meta.TrackID+".mp3")
}

// ImportAudio copies a generated clip into the library tree and indexes its
// metadata in one step.
func (s *Store) ImportAudio(ctx context.Context, meta TrackMetadata, sourcePath string) error {
	dest := s.AudioPath(meta)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create genre dir: %w", err)
	}
	if err := fileutil.CopyFileVerified(sourcePath, dest); err != nil {
		return fmt.Errorf("import %s: %w", sourcePath, err)
	}
	if err := s.Save(ctx, meta); err != nil {
		_ = os.Remove(dest)
		return err
	}
	return nil
}

func scanTrack(scanner interface{ Scan(dest ...any) error }) (TrackMetadata, error) {
	var (
		meta      TrackMetadata
		subgenre  sql.NullString
		provider  sql.NullString
		prompt    sql.NullString
		session   sql.NullString
		createdAt string
		lastUsed  sql.NullString
	)
	err := scanner.Scan(
		&meta.TrackID,
		&meta.Title,
		&meta.Genre,
		&subgenre,
		&meta.BPM,
		&meta.DurationMS,
		&meta.Energy,
		&meta.Role,
		&provider,
		&prompt,
		&session,
		&createdAt,
		&lastUsed,
		&meta.UsageCount,
	)
	if err != nil {
		return TrackMetadata{}, err
	}
	meta.Subgenre = subgenre.String
	meta.Provider = provider.String
	meta.PromptHash = prompt.String
	meta.SessionID = session.String
	if meta.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return TrackMetadata{}, fmt.Errorf("parse created_at: %w", err)
	}
	if lastUsed.Valid {
		parsed, err := time.Parse(time.RFC3339Nano, lastUsed.String)
		if err != nil {
			return TrackMetadata{}, fmt.Errorf("parse last_used_at: %w", err)
		}
		meta.LastUsedAt = &parsed
	}
	return meta, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
