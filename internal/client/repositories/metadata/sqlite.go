package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hotelbook/internal/dbx"
)

// SQLiteRepository stores pairs in the session_metadata table, one row per
// (profile, key).
type SQLiteRepository struct {
	db      dbx.DBTX
	profile string
}

func NewSQLiteRepository(db dbx.DBTX, profile string) *SQLiteRepository {
	return &SQLiteRepository{db: db, profile: profile}
}

// Profile returns the profile the repository is scoped to.
func (r *SQLiteRepository) Profile() string {
	return r.profile
}

// WithDB returns a copy of the repository bound to db (usually a transaction).
func (r *SQLiteRepository) WithDB(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, profile: r.profile}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM session_metadata WHERE profile = ? AND key = ?`, r.profile, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s/%s]: %w", r.profile, key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_metadata (profile, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, r.profile, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s/%s]: %w", r.profile, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	args := make([]any, 0, len(keys)+1)
	args = append(args, r.profile)
	for _, k := range keys {
		args = append(args, k)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session_metadata WHERE profile = ? AND key IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s/%s]: %w", r.profile, strings.Join(keys, ","), err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_metadata WHERE profile = ?`, r.profile)
	if err != nil {
		return fmt.Errorf("failed to clear metadata[%s]: %w", r.profile, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM session_metadata WHERE profile = ?`, r.profile)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata[%s]: %w", r.profile, err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metadata rows: %w", err)
	}

	return result, nil
}
