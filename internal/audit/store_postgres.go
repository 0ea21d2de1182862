package audit

import (
	"context"
	"database/sql"
	"fmt"

	id "samadhan/pkg/domain"
)

// PostgresStore keeps the audit trail in an append-only table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id         BIGSERIAL PRIMARY KEY,
	action     TEXT NOT NULL,
	ts         TIMESTAMPTZ NOT NULL,
	program_id TEXT NOT NULL DEFAULT '',
	member_id  TEXT NOT NULL DEFAULT '',
	family_id  TEXT NOT NULL DEFAULT '',
	agent_id   TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	detail     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_events_member ON audit_events (member_id) WHERE member_id <> '';`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (action, ts, program_id, member_id, family_id, agent_id, request_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(event.Action), event.Timestamp, string(event.ProgramID),
		event.MemberID, event.FamilyID, string(event.AgentID),
		event.RequestID, event.Detail)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByMember(ctx context.Context, memberID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action, ts, program_id, member_id, family_id, agent_id, request_id, detail
		FROM audit_events WHERE member_id = $1 ORDER BY id`, memberID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event     Event
			action    string
			programID string
			agentID   string
		)
		if err := rows.Scan(&action, &event.Timestamp, &programID, &event.MemberID,
			&event.FamilyID, &agentID, &event.RequestID, &event.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Action = Action(action)
		event.ProgramID = id.ProgramID(programID)
		event.AgentID = id.AgentID(agentID)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
