package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	id "samadhan/pkg/domain"
)

// PostgresStore reads reference data from Postgres.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the catalog tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS member_questions (
	id           TEXT PRIMARY KEY,
	concept_name TEXT NOT NULL,
	concept_type TEXT NOT NULL,
	option_ids   JSONB NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS options (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure catalog schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) QuestionsByID(ctx context.Context, ids []id.QuestionID) ([]Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, questionID := range ids {
		raw[i] = string(questionID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, concept_name, concept_type, option_ids FROM member_questions WHERE id = ANY($1)`,
		pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	byID := make(map[id.QuestionID]Question)
	for rows.Next() {
		var (
			q          Question
			optionsRaw []byte
		)
		if err := rows.Scan(&q.ID, &q.ConceptName, &q.ConceptType, &optionsRaw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(optionsRaw, &q.OptionIDs); err != nil {
			return nil, fmt.Errorf("unmarshal question option ids: %w", err)
		}
		byID[q.ID] = q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	result := make([]Question, 0, len(ids))
	for _, questionID := range ids {
		if q, ok := byID[questionID]; ok {
			result = append(result, q)
		}
	}
	return result, nil
}

func (s *PostgresStore) OptionsByID(ctx context.Context, ids []id.OptionID) ([]Option, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, optionID := range ids {
		raw[i] = string(optionID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM options WHERE id = ANY($1)`,
		pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	byID := make(map[id.OptionID]Option)
	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}

	result := make([]Option, 0, len(ids))
	for _, optionID := range ids {
		if o, ok := byID[optionID]; ok {
			result = append(result, o)
		}
	}
	return result, nil
}
