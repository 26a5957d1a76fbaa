package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
)

// SortedSet is the embedded history backend, one row per member.
type SortedSet struct {
	db *sql.DB
}

func NewSortedSet(db *sql.DB) *SortedSet {
	return &SortedSet{db: db}
}

func (s *SortedSet) Add(ctx context.Context, key string, score float64, member string) error {
	query := `INSERT INTO sorted_sets (set_key, member, score) VALUES (?, ?, ?)
		ON CONFLICT (set_key, member) DO UPDATE SET score = excluded.score`
	if _, err := s.db.ExecContext(ctx, query, key, member, score); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (s *SortedSet) RangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	var (
		sb   strings.Builder
		args = []any{key}
	)
	sb.WriteString(`SELECT member FROM sorted_sets WHERE set_key = ?`)

	// SQLite has no portable infinity literal, so open bounds are simply omitted
	if !math.IsInf(min, -1) {
		sb.WriteString(` AND score >= ?`)
		args = append(args, min)
	}
	if !math.IsInf(max, 1) {
		sb.WriteString(` AND score <= ?`)
		args = append(args, max)
	}
	sb.WriteString(` ORDER BY score ASC, member ASC`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (s *SortedSet) Exists(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sorted_sets WHERE set_key = ? LIMIT 1`, key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check key: %w", err)
	}
	return true, nil
}

func (s *SortedSet) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sorted_sets WHERE set_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}
