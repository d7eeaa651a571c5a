package store

import (
	"context"
	"database/sql"
	"fmt"
)

type resultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *resultRepo) Append(ctx context.Context, data ResultData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO results (sequence, session_id, user_id, total_score, band_label, warning_count, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.UserID, data.TotalScore, data.BandLabel, data.WarningCount, data.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (r *resultRepo) Recent(ctx context.Context, limit int) ([]ResultRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT sequence, session_id, user_id, total_score, band_label, warning_count, completed_at
		 FROM results ORDER BY sequence DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		if err := rows.Scan(&rec.Sequence, &rec.SessionID, &rec.UserID, &rec.TotalScore, &rec.BandLabel, &rec.WarningCount, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}
