package eligibility

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	id "samadhan/pkg/domain"
)

// PostgresStore reads scheme and document definitions from Postgres. Criteria
// are stored in their wire shape (schemeQuestions) and resolved into the
// tagged variant once at load time.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the scheme tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS schemes (
	id          TEXT PRIMARY KEY,
	program_id  TEXT NOT NULL,
	name        TEXT NOT NULL,
	description JSONB NOT NULL DEFAULT '{}',
	criteria    JSONB NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS schemes_program_idx ON schemes (program_id);
CREATE TABLE IF NOT EXISTS documents (
	id                   TEXT PRIMARY KEY,
	program_id           TEXT NOT NULL,
	name                 TEXT NOT NULL,
	description          JSONB NOT NULL DEFAULT '{}',
	criteria             JSONB NOT NULL DEFAULT '[]',
	required_descriptors JSONB NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS documents_program_idx ON documents (program_id);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure scheme schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSchemes(ctx context.Context, programID id.ProgramID) ([]Scheme, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, program_id, name, description, criteria FROM schemes WHERE program_id = $1 ORDER BY name`,
		string(programID))
	if err != nil {
		return nil, fmt.Errorf("query schemes: %w", err)
	}
	defer rows.Close()

	var schemes []Scheme
	for rows.Next() {
		var (
			scheme         Scheme
			descriptionRaw []byte
			criteriaRaw    []byte
		)
		if err := rows.Scan(&scheme.ID, &scheme.ProgramID, &scheme.Name, &descriptionRaw, &criteriaRaw); err != nil {
			return nil, fmt.Errorf("scan scheme: %w", err)
		}
		if err := json.Unmarshal(descriptionRaw, &scheme.Description); err != nil {
			return nil, fmt.Errorf("unmarshal scheme description: %w", err)
		}
		var records []CriterionRecord
		if err := json.Unmarshal(criteriaRaw, &records); err != nil {
			return nil, fmt.Errorf("unmarshal scheme criteria: %w", err)
		}
		scheme.Criteria = ParseCriteria(records)
		schemes = append(schemes, scheme)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schemes: %w", err)
	}
	return schemes, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, programID id.ProgramID) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, program_id, name, description, criteria, required_descriptors FROM documents WHERE program_id = $1 ORDER BY name`,
		string(programID))
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var documents []Document
	for rows.Next() {
		var (
			document       Document
			descriptionRaw []byte
			criteriaRaw    []byte
			descriptorsRaw []byte
		)
		if err := rows.Scan(&document.ID, &document.ProgramID, &document.Name, &descriptionRaw, &criteriaRaw, &descriptorsRaw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if err := json.Unmarshal(descriptionRaw, &document.Description); err != nil {
			return nil, fmt.Errorf("unmarshal document description: %w", err)
		}
		var records []CriterionRecord
		if err := json.Unmarshal(criteriaRaw, &records); err != nil {
			return nil, fmt.Errorf("unmarshal document criteria: %w", err)
		}
		document.Criteria = ParseCriteria(records)
		if err := json.Unmarshal(descriptorsRaw, &document.RequiredDescriptors); err != nil {
			return nil, fmt.Errorf("unmarshal document descriptors: %w", err)
		}
		documents = append(documents, document)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return documents, nil
}
