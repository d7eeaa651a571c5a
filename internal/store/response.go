package store

import (
	"context"
	"database/sql"
	"fmt"
)

type responseRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *responseRepo) Append(ctx context.Context, data ResponseData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO responses (sequence, session_id, user_id, question_id, value, answered_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.UserID, data.QuestionID, data.Value, data.At,
	)
	if err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}

func (r *responseRepo) BySession(ctx context.Context, sessionID string) ([]ResponseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sequence, session_id, user_id, question_id, value, answered_at
		 FROM responses WHERE session_id = ? ORDER BY sequence`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var out []ResponseRecord
	for rows.Next() {
		var rec ResponseRecord
		if err := rows.Scan(&rec.Sequence, &rec.SessionID, &rec.UserID, &rec.QuestionID, &rec.Value, &rec.At); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return out, nil
}
