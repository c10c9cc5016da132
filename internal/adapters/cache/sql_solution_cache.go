package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/db"
	"forklift-route-agent/internal/platform/obs"
	"strings"
	"time"
)

// SQLSolutionCache is a SQL-backed cache of solver solutions keyed by
// problem fingerprint. Works on SQLite and Postgres.
type SQLSolutionCache struct {
	DB     *sql.DB
	Driver string
	TTL    time.Duration

	now func() time.Time
}

func NewSQLSolutionCache(conn *sql.DB, driver string, ttl time.Duration) *SQLSolutionCache {
	return &SQLSolutionCache{DB: conn, Driver: driver, TTL: ttl, now: time.Now}
}

// Fetch a cached solution. Expired rows count as misses.
func (s *SQLSolutionCache) Get(ctx context.Context, key string) (_ *domain.SolutionRecord, _ bool, err error) {
	defer obs.Time(ctx, "solution.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("solution cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get solution cache: key must not be empty")
	}

	q := db.Rebind(s.Driver, `
	SELECT payload
	FROM solution_cache
	WHERE cache_key = ?
		AND expires_at > ?;
	`)

	var payload string
	err = s.DB.QueryRowContext(ctx, q, key, s.clock().Unix()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get solution cache: query solution_cache table: %w", err)
	}

	var sol domain.SolutionRecord
	if err := json.Unmarshal([]byte(payload), &sol); err != nil {
		return nil, false, fmt.Errorf("get solution cache: decode payload: %w", err)
	}
	return &sol, true, nil
}

// Store a solution, replacing any previous entry for key.
func (s *SQLSolutionCache) Put(ctx context.Context, key string, sol *domain.SolutionRecord) error {
	if s.DB == nil {
		return errors.New("solution cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert solution cache: key must not be empty")
	}
	if sol == nil {
		return nil
	}

	payload, err := json.Marshal(sol)
	if err != nil {
		return fmt.Errorf("insert solution cache: encode payload: %w", err)
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	expires := s.clock().Add(ttl).Unix()

	q := db.Rebind(s.Driver, `
	INSERT INTO solution_cache (cache_key, payload, expires_at)
	VALUES (?, ?, ?)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`)
	if _, err := s.DB.ExecContext(ctx, q, key, string(payload), expires); err != nil {
		return fmt.Errorf("insert solution cache key=%q: %w", key, err)
	}

	return nil
}

func (s *SQLSolutionCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
