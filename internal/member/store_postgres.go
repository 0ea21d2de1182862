package member

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"samadhan/internal/eligibility"
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

// PostgresStore persists members. Answer and eligibility lists live in jsonb
// columns; the natural key is guarded by a unique index so concurrent
// registrations for the same person collapse to one record.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// q returns the context transaction when a multi-record write is in flight,
// else the pool.
func (s *PostgresStore) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS members (
	id                 UUID PRIMARY KEY,
	name               TEXT NOT NULL,
	normalized_name    TEXT NOT NULL,
	phone_number       TEXT NOT NULL DEFAULT '',
	date_of_birth      TEXT NOT NULL DEFAULT '',
	aadhar_last_four   TEXT NOT NULL,
	program_id         TEXT NOT NULL,
	family_id          UUID,
	village            TEXT NOT NULL DEFAULT '',
	district           TEXT NOT NULL DEFAULT '',
	state              TEXT NOT NULL DEFAULT '',
	question_answers   JSONB NOT NULL DEFAULT '[]',
	eligible_schemes   JSONB NOT NULL DEFAULT '[]',
	eligible_documents JSONB NOT NULL DEFAULT '[]',
	registered_by      TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS members_natural_key
	ON members (normalized_name, aadhar_last_four, program_id);
CREATE INDEX IF NOT EXISTS members_family ON members (family_id) WHERE family_id IS NOT NULL;`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure members schema: %w", err)
	}
	return nil
}

const memberColumns = `id, name, normalized_name, phone_number, date_of_birth,
	aadhar_last_four, program_id, family_id, village, district, state,
	question_answers, eligible_schemes, eligible_documents, registered_by,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, m Member) error {
	answers, schemes, documents, err := marshalLists(m)
	if err != nil {
		return err
	}

	_, err = s.q(ctx).ExecContext(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		m.ID.String(), m.Name, m.NormalizedName, m.PhoneNumber, m.DateOfBirth,
		m.AadharLastFour, string(m.ProgramID), nullFamilyID(m.FamilyID),
		m.Location.Village, m.Location.District, m.Location.State,
		answers, schemes, documents, string(m.RegisteredBy),
		m.CreatedAt, m.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("member natural key: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, m Member) error {
	answers, schemes, documents, err := marshalLists(m)
	if err != nil {
		return err
	}

	result, err := s.q(ctx).ExecContext(ctx, `
		UPDATE members SET
			phone_number = $2, date_of_birth = $3, family_id = $4,
			village = $5, district = $6, state = $7,
			question_answers = $8, eligible_schemes = $9, eligible_documents = $10,
			updated_at = $11
		WHERE id = $1`,
		m.ID.String(), m.PhoneNumber, m.DateOfBirth, nullFamilyID(m.FamilyID),
		m.Location.Village, m.Location.District, m.Location.State,
		answers, schemes, documents, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return requireOneRow(result, m.ID)
}

func (s *PostgresStore) FindByID(ctx context.Context, memberID id.MemberID) (Member, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, memberID.String())
	return scanMember(row)
}

func (s *PostgresStore) FindByNaturalKey(ctx context.Context, key NaturalKey) (Member, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE normalized_name = $1 AND aadhar_last_four = $2 AND program_id = $3`,
		key.NormalizedName, key.AadharLastFour, string(key.ProgramID))
	return scanMember(row)
}

func (s *PostgresStore) ListByProgram(ctx context.Context, programID id.ProgramID) ([]Member, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE program_id = $1 ORDER BY created_at`, string(programID))
	if err != nil {
		return nil, fmt.Errorf("query members by program: %w", err)
	}
	return scanMembers(rows)
}

func (s *PostgresStore) ListByFamily(ctx context.Context, familyID id.FamilyID) ([]Member, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE family_id = $1 ORDER BY created_at`, familyID.String())
	if err != nil {
		return nil, fmt.Errorf("query members by family: %w", err)
	}
	return scanMembers(rows)
}

func (s *PostgresStore) SetFamilyID(ctx context.Context, memberID id.MemberID, familyID id.FamilyID) error {
	result, err := s.q(ctx).ExecContext(ctx,
		`UPDATE members SET family_id = $2, updated_at = now() WHERE id = $1`,
		memberID.String(), nullFamilyID(familyID))
	if err != nil {
		return fmt.Errorf("set member family: %w", err)
	}
	return requireOneRow(result, memberID)
}

func (s *PostgresStore) ListAssigned(ctx context.Context) ([]Member, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE family_id IS NOT NULL ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query assigned members: %w", err)
	}
	return scanMembers(rows)
}

func marshalLists(m Member) (answers, schemes, documents []byte, err error) {
	if answers, err = json.Marshal(orEmptyAnswers(m.QuestionAnswers)); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal question answers: %w", err)
	}
	if schemes, err = json.Marshal(orEmptyMatches(m.EligibleSchemes)); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal eligible schemes: %w", err)
	}
	if documents, err = json.Marshal(orEmptyMatches(m.EligibleDocuments)); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal eligible documents: %w", err)
	}
	return answers, schemes, documents, nil
}

func orEmptyAnswers(in []eligibility.QuestionAnswer) []eligibility.QuestionAnswer {
	if in == nil {
		return []eligibility.QuestionAnswer{}
	}
	return in
}

func orEmptyMatches(in []eligibility.Match) []eligibility.Match {
	if in == nil {
		return []eligibility.Match{}
	}
	return in
}

func nullFamilyID(familyID id.FamilyID) sql.NullString {
	if familyID.IsNil() {
		return sql.NullString{}
	}
	return sql.NullString{String: familyID.String(), Valid: true}
}

func requireOneRow(result sql.Result, memberID id.MemberID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member %s: %w", memberID, sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemberRow(scanner rowScanner) (Member, error) {
	var (
		m         Member
		rawID     string
		programID string
		familyID  sql.NullString
		agentID   string
		answers   []byte
		schemes   []byte
		documents []byte
	)
	err := scanner.Scan(&rawID, &m.Name, &m.NormalizedName, &m.PhoneNumber,
		&m.DateOfBirth, &m.AadharLastFour, &programID, &familyID,
		&m.Location.Village, &m.Location.District, &m.Location.State,
		&answers, &schemes, &documents, &agentID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return Member{}, err
	}

	parsed, err := uuid.Parse(rawID)
	if err != nil {
		return Member{}, fmt.Errorf("parse member id: %w", err)
	}
	m.ID = id.MemberID(parsed)
	m.ProgramID = id.ProgramID(programID)
	m.RegisteredBy = id.AgentID(agentID)
	if familyID.Valid {
		fid, err := id.ParseFamilyID(familyID.String)
		if err != nil {
			return Member{}, err
		}
		m.FamilyID = fid
	}

	if err := json.Unmarshal(answers, &m.QuestionAnswers); err != nil {
		return Member{}, fmt.Errorf("unmarshal question answers: %w", err)
	}
	if err := json.Unmarshal(schemes, &m.EligibleSchemes); err != nil {
		return Member{}, fmt.Errorf("unmarshal eligible schemes: %w", err)
	}
	if err := json.Unmarshal(documents, &m.EligibleDocuments); err != nil {
		return Member{}, fmt.Errorf("unmarshal eligible documents: %w", err)
	}
	return m, nil
}

func scanMember(row *sql.Row) (Member, error) {
	m, err := scanMemberRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Member{}, fmt.Errorf("member lookup: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return Member{}, fmt.Errorf("scan member: %w", err)
	}
	return m, nil
}

func scanMembers(rows *sql.Rows) ([]Member, error) {
	defer rows.Close()

	var members []Member
	for rows.Next() {
		m, err := scanMemberRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}
