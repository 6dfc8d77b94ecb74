package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store implements storage.CandidateRepository and storage.EmbeddingRepository
// on a SQLite database. Predicates are compiled to WHERE clauses and orders
// to ORDER BY expressions, so filtering and pagination run inside SQLite.
type Store struct {
	db     *sql.DB
	ownsDB bool
}

var (
	_ storage.CandidateRepository = (*Store)(nil)
	_ storage.EmbeddingRepository = (*Store)(nil)
)

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	dsn := path
	if path != MemoryPath {
		dsn = "file:" + path + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, ownsDB: true}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// NewStore wraps an existing connection. The caller keeps ownership of db.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("db required")
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS candidates (
			id INTEGER PRIMARY KEY,
			username TEXT NOT NULL,
			username_key TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			instagram_handle TEXT NOT NULL DEFAULT '',
			youtube_channel TEXT NOT NULL DEFAULT '',
			tiktok_handle TEXT NOT NULL DEFAULT '',
			instagram_followers INTEGER NOT NULL DEFAULT 0,
			youtube_subscribers INTEGER NOT NULL DEFAULT 0,
			tiktok_followers INTEGER NOT NULL DEFAULT 0,
			total_followers INTEGER GENERATED ALWAYS AS
				(instagram_followers + youtube_subscribers + tiktok_followers) STORED,
			video_count INTEGER NOT NULL DEFAULT 0,
			total_views INTEGER NOT NULL DEFAULT 0,
			youtube_url TEXT NOT NULL DEFAULT '',
			profile_image_url TEXT NOT NULL DEFAULT '',
			engagement_rate REAL NOT NULL DEFAULT 0,
			verified INTEGER NOT NULL DEFAULT 0,
			inserted_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_category ON candidates(category)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_engagement ON candidates(engagement_rate DESC, total_followers DESC)`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			candidate_id INTEGER PRIMARY KEY,
			vector BLOB,
			content_hash INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database if the store opened it.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

const candidateColumns = `id, username, full_name, email, bio, category,
	instagram_handle, youtube_channel, tiktok_handle,
	instagram_followers, youtube_subscribers, tiktok_followers,
	video_count, total_views, youtube_url, profile_image_url,
	engagement_rate, verified, inserted_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*core.Candidate, error) {
	var (
		c                    core.Candidate
		id                   int64
		insertedAt, updateAt int64
	)
	err := row.Scan(
		&id, &c.Username, &c.FullName, &c.Email, &c.Bio, &c.Category,
		&c.InstagramHandle, &c.YouTubeChannel, &c.TikTokHandle,
		&c.InstagramFollowers, &c.YouTubeSubscribers, &c.TikTokFollowers,
		&c.VideoCount, &c.TotalViews, &c.YouTubeURL, &c.ProfileImageURL,
		&c.EngagementRate, &c.Verified, &insertedAt, &updateAt,
	)
	if err != nil {
		return nil, err
	}
	c.Id = core.ID(id)
	c.InsertedAt = time.UnixMicro(insertedAt).UTC()
	c.UpdatedAt = time.UnixMicro(updateAt).UTC()
	return &c, nil
}

// AddCandidates inserts or replaces candidates in one transaction.
func (s *Store) AddCandidates(ctx context.Context, candidates ...*core.Candidate) ([]*core.Candidate, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, c := range candidates {
			c.Username = strings.TrimSpace(c.Username)
			if c.Id == 0 {
				c.Id = core.CandidateID(c.Username)
			}
			key := core.NormalizeUsername(c.Username)

			var owner int64
			err := tx.QueryRowContext(ctx, `SELECT id FROM candidates WHERE username_key = ?`, key).Scan(&owner)
			switch {
			case errors.Is(err, sql.ErrNoRows):
			case err != nil:
				return err
			case core.ID(owner) != c.Id:
				return fmt.Errorf("%w: username %q", storage.ErrDuplicateKey, c.Username)
			}

			if c.InsertedAt.IsZero() {
				var insertedAt int64
				err := tx.QueryRowContext(ctx, `SELECT inserted_at FROM candidates WHERE id = ?`, int64(c.Id)).Scan(&insertedAt)
				switch {
				case errors.Is(err, sql.ErrNoRows):
					c.InsertedAt = now
				case err != nil:
					return err
				default:
					c.InsertedAt = time.UnixMicro(insertedAt).UTC()
				}
			}
			c.UpdatedAt = now

			_, err = tx.ExecContext(ctx, `
				INSERT INTO candidates (`+candidateColumns+`, username_key)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					username = excluded.username,
					username_key = excluded.username_key,
					full_name = excluded.full_name,
					email = excluded.email,
					bio = excluded.bio,
					category = excluded.category,
					instagram_handle = excluded.instagram_handle,
					youtube_channel = excluded.youtube_channel,
					tiktok_handle = excluded.tiktok_handle,
					instagram_followers = excluded.instagram_followers,
					youtube_subscribers = excluded.youtube_subscribers,
					tiktok_followers = excluded.tiktok_followers,
					video_count = excluded.video_count,
					total_views = excluded.total_views,
					youtube_url = excluded.youtube_url,
					profile_image_url = excluded.profile_image_url,
					engagement_rate = excluded.engagement_rate,
					verified = excluded.verified,
					inserted_at = excluded.inserted_at,
					updated_at = excluded.updated_at`,
				int64(c.Id), c.Username, c.FullName, c.Email, c.Bio, c.Category,
				c.InstagramHandle, c.YouTubeChannel, c.TikTokHandle,
				c.InstagramFollowers, c.YouTubeSubscribers, c.TikTokFollowers,
				c.VideoCount, c.TotalViews, c.YouTubeURL, c.ProfileImageURL,
				c.EngagementRate, c.Verified, c.InsertedAt.UnixMicro(), c.UpdatedAt.UnixMicro(),
				key,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert candidate %q: %w", c.Username, err)
			}
		}
		return nil
	})
	return candidates, err
}

// GetCandidate retrieves a single candidate by ID.
func (s *Store) GetCandidate(ctx context.Context, id core.ID) (*core.Candidate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, int64(id))
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// GetCandidates retrieves the candidates that exist, in request order.
func (s *Store) GetCandidates(ctx context.Context, ids ...core.ID) ([]*core.Candidate, error) {
	results := make([]*core.Candidate, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetCandidate(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		results = append(results, c)
	}
	return results, nil
}

// DeleteCandidates removes candidates and their embeddings.
func (s *Store) DeleteCandidates(ctx context.Context, ids ...core.ID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, int64(id))
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return storage.ErrNotFound
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM embeddings WHERE candidate_id = ?`, int64(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of candidates matching pred.
func (s *Store) Count(ctx context.Context, pred storage.Predicate) (int, error) {
	where, args, err := compilePredicate(pred)
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return count, nil
}

// Query returns one ordered page of candidates matching pred.
func (s *Store) Query(ctx context.Context, pred storage.Predicate, order storage.Order, offset, limit int) ([]*core.Candidate, error) {
	where, args, err := compilePredicate(pred)
	if err != nil {
		return nil, err
	}
	orderBy, orderArgs := compileOrder(order)
	args = append(args, orderArgs...)

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit, offset)

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE ` + where +
		` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []*core.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
