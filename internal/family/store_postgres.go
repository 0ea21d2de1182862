package family

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "samadhan/pkg/domain"
	"samadhan/pkg/platform/sentinel"
	"samadhan/pkg/platform/tx"
)

const uniqueViolation = "23505"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists families. Member IDs and the denormalized arrays are
// jsonb columns written together, so one UPDATE keeps them aligned.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS families (
	id                   UUID PRIMARY KEY,
	family_name          TEXT NOT NULL,
	program_id           TEXT NOT NULL,
	member_ids           JSONB NOT NULL DEFAULT '[]',
	member_names         JSONB NOT NULL DEFAULT '[]',
	member_aadhar_list   JSONB NOT NULL DEFAULT '[]',
	member_phone_numbers JSONB NOT NULL DEFAULT '[]',
	created_by           TEXT NOT NULL DEFAULT '',
	created_at           TIMESTAMPTZ NOT NULL,
	updated_at           TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS families_program ON families (program_id);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure families schema: %w", err)
	}
	return nil
}

const familyColumns = `id, family_name, program_id, member_ids, member_names,
	member_aadhar_list, member_phone_numbers, created_by, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, f Family) error {
	ids, names, aadhars, phones, err := marshalArrays(f)
	if err != nil {
		return err
	}

	_, err = s.q(ctx).ExecContext(ctx, `
		INSERT INTO families (`+familyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		f.ID.String(), f.FamilyName, string(f.ProgramID),
		ids, names, aadhars, phones,
		string(f.CreatedBy), f.CreatedAt, f.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("family %s: %w", f.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert family: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, f Family) error {
	ids, names, aadhars, phones, err := marshalArrays(f)
	if err != nil {
		return err
	}

	result, err := s.q(ctx).ExecContext(ctx, `
		UPDATE families SET
			family_name = $2, member_ids = $3, member_names = $4,
			member_aadhar_list = $5, member_phone_numbers = $6, updated_at = $7
		WHERE id = $1`,
		f.ID.String(), f.FamilyName, ids, names, aadhars, phones, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update family: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("family %s: %w", f.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, familyID id.FamilyID) (Family, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+familyColumns+` FROM families WHERE id = $1`, familyID.String())
	f, err := scanFamilyRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Family{}, fmt.Errorf("family %s: %w", familyID, sentinel.ErrNotFound)
	}
	if err != nil {
		return Family{}, fmt.Errorf("scan family: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) ListByProgram(ctx context.Context, programID id.ProgramID) ([]Family, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT `+familyColumns+` FROM families
		WHERE program_id = $1 ORDER BY created_at`, string(programID))
	if err != nil {
		return nil, fmt.Errorf("query families by program: %w", err)
	}
	return scanFamilies(rows)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Family, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT `+familyColumns+` FROM families ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query families: %w", err)
	}
	return scanFamilies(rows)
}

func marshalArrays(f Family) (ids, names, aadhars, phones []byte, err error) {
	memberIDs := make([]string, len(f.MemberIDs))
	for i, memberID := range f.MemberIDs {
		memberIDs[i] = memberID.String()
	}
	if ids, err = json.Marshal(memberIDs); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal member ids: %w", err)
	}
	if names, err = json.Marshal(orEmpty(f.MemberNames)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal member names: %w", err)
	}
	if aadhars, err = json.Marshal(orEmpty(f.MemberAadharList)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal member aadhars: %w", err)
	}
	if phones, err = json.Marshal(orEmpty(f.MemberPhoneNumbers)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal member phones: %w", err)
	}
	return ids, names, aadhars, phones, nil
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFamilyRow(scanner rowScanner) (Family, error) {
	var (
		f         Family
		rawID     string
		programID string
		agentID   string
		ids       []byte
		names     []byte
		aadhars   []byte
		phones    []byte
	)
	err := scanner.Scan(&rawID, &f.FamilyName, &programID, &ids, &names,
		&aadhars, &phones, &agentID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return Family{}, err
	}

	parsed, err := uuid.Parse(rawID)
	if err != nil {
		return Family{}, fmt.Errorf("parse family id: %w", err)
	}
	f.ID = id.FamilyID(parsed)
	f.ProgramID = id.ProgramID(programID)
	f.CreatedBy = id.AgentID(agentID)

	var memberIDs []string
	if err := json.Unmarshal(ids, &memberIDs); err != nil {
		return Family{}, fmt.Errorf("unmarshal member ids: %w", err)
	}
	f.MemberIDs = make([]id.MemberID, 0, len(memberIDs))
	for _, raw := range memberIDs {
		memberID, err := id.ParseMemberID(raw)
		if err != nil {
			return Family{}, err
		}
		f.MemberIDs = append(f.MemberIDs, memberID)
	}

	if err := json.Unmarshal(names, &f.MemberNames); err != nil {
		return Family{}, fmt.Errorf("unmarshal member names: %w", err)
	}
	if err := json.Unmarshal(aadhars, &f.MemberAadharList); err != nil {
		return Family{}, fmt.Errorf("unmarshal member aadhars: %w", err)
	}
	if err := json.Unmarshal(phones, &f.MemberPhoneNumbers); err != nil {
		return Family{}, fmt.Errorf("unmarshal member phones: %w", err)
	}
	return f, nil
}

func scanFamilies(rows *sql.Rows) ([]Family, error) {
	defer rows.Close()

	var families []Family
	for rows.Next() {
		f, err := scanFamilyRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate families: %w", err)
	}
	return families, nil
}
