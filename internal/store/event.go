package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// Every event row carries a sequence drawn from the single-row
// global_sequence table, so a game record can be ordered against the LLM
// requests that fed it even though they live in different tables.

// nextSequence claims the next sequence number inside tx.
func nextSequence(ctx context.Context, tx *sql.Tx) (int64, error) {
	query, args, err := sqlBuilder.Update("global_sequence").
		Set("next_val", squirrel.Expr("next_val + 1")).
		Where(squirrel.Eq{"id": 1}).
		Suffix("RETURNING next_val - 1").
		ToSql()
	if err != nil {
		return 0, err
	}
	var seq int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo.
type eventRepo struct {
	db  *sql.DB
	now func() time.Time
}

// appendEvent inserts one event row. The sequence and timestamp columns
// are filled in here; columns and values describe the rest.
func (r *eventRepo) appendEvent(ctx context.Context, table string, columns []string, values ...any) error {
	return tx(ctx, r.db, func(tx *sql.Tx) error {
		seq, err := nextSequence(ctx, tx)
		if err != nil {
			return err
		}
		query, args, err := sqlBuilder.Insert(table).
			Columns(append([]string{"sequence", "timestamp"}, columns...)...).
			Values(append([]any{seq, r.now().UnixMilli()}, values...)...).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
		return nil
	})
}
