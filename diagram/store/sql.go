package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Both SQL stores keep created_at as Unix nanoseconds so ordering and
// round-tripping do not depend on the driver's time handling.

const selectColumns = "id, run_id, description, code, explanation, step_count, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var createdAt int64
	if err := row.Scan(&rec.ID, &rec.RunID, &rec.Description, &rec.Code,
		&rec.Explanation, &rec.StepCount, &createdAt); err != nil {
		return Record{}, err
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return rec, nil
}

func loadRecord(ctx context.Context, db *sql.DB, id string) (Record, error) {
	row := db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM diagram_records WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load record: %w", err)
	}
	return rec, nil
}

func listRecords(ctx context.Context, db *sql.DB, limit int) ([]Record, error) {
	query := "SELECT " + selectColumns + " FROM diagram_records ORDER BY created_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return out, nil
}
