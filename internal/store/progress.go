package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) Load(ctx context.Context) (Progress, error) {
	query, args, err := sqlBuilder.Select(
		"high_score", "best_level", "games_played", "total_correct",
		"average_time_secs", "updated_at",
	).
		From("progress").
		Where(squirrel.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return Progress{}, fmt.Errorf("build query: %w", err)
	}

	var p Progress
	var avgSecs float64
	var updated int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&p.HighScore, &p.BestLevel, &p.GamesPlayed, &p.TotalCorrect, &avgSecs, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultProgress(), nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("load progress: %w", err)
	}

	p.AverageTime = time.Duration(avgSecs * float64(time.Second))
	if updated > 0 {
		p.UpdatedAt = time.UnixMilli(updated)
	}
	return p, nil
}

func (r *progressRepo) Save(ctx context.Context, p Progress) error {
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	query, args, err := sqlBuilder.Insert("progress").
		Columns(
			"id", "high_score", "best_level", "games_played", "total_correct",
			"average_time_secs", "updated_at",
		).
		Values(
			1, p.HighScore, p.BestLevel, p.GamesPlayed, p.TotalCorrect,
			p.AverageTime.Seconds(), updated.UnixMilli(),
		).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			high_score = excluded.high_score,
			best_level = excluded.best_level,
			games_played = excluded.games_played,
			total_correct = excluded.total_correct,
			average_time_secs = excluded.average_time_secs,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
