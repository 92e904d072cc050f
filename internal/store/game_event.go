package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendGameResult(ctx context.Context, data GameResultData) error {
	err := r.appendEvent(ctx, "game_events",
		[]string{
			"session_id", "start_level", "final_level", "score",
			"attempted", "correct", "degraded", "avg_answer_ms",
		},
		data.SessionID, data.StartLevel, data.FinalLevel, data.Score,
		data.Attempted, data.Correct, data.Degraded, data.AvgAnswerTime.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("save game event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentGames(ctx context.Context, opts QueryOpts) ([]GameRecord, error) {
	sel := applyQueryOpts(sqlBuilder.Select(
		"id", "sequence", "timestamp", "session_id", "start_level", "final_level",
		"score", "attempted", "correct", "degraded", "avg_answer_ms",
	).From("game_events"), opts)

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query game events: %w", err)
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		var g GameRecord
		var ts, avgMs int64
		if err := rows.Scan(
			&g.ID, &g.Sequence, &ts, &g.SessionID, &g.StartLevel, &g.FinalLevel,
			&g.Score, &g.Attempted, &g.Correct, &g.Degraded, &avgMs,
		); err != nil {
			return nil, fmt.Errorf("scan game event: %w", err)
		}
		g.Timestamp = time.UnixMilli(ts)
		g.AvgAnswerTime = time.Duration(avgMs) * time.Millisecond
		out = append(out, g)
	}
	return out, rows.Err()
}
