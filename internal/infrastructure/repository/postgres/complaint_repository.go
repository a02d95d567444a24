package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/fir-intake/internal/core/domain"
)

type ComplaintRepository struct {
	db *sql.DB
}

func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ComplaintRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS complaints (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	narrative TEXT NOT NULL,
	language TEXT,
	incident_date TEXT,
	incident_time TEXT,
	location TEXT,
	station_id TEXT,
	suggested_sections JSONB NOT NULL DEFAULT '[]'::jsonb,
	applied_sections JSONB NOT NULL DEFAULT '[]'::jsonb,
	officer_notes TEXT,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_complaints_user_id ON complaints(user_id);
CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints(status);
CREATE INDEX IF NOT EXISTS idx_complaints_created_at ON complaints(created_at DESC);

CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	message TEXT NOT NULL,
	read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ComplaintRepository) Create(ctx context.Context, c *domain.Complaint) error {
	suggested, err := marshalSections(c.SuggestedSections)
	if err != nil {
		return err
	}
	applied, err := marshalSections(c.AppliedSections)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO complaints (
	id, user_id, narrative, language, incident_date, incident_time, location, station_id,
	suggested_sections, applied_sections, officer_notes, status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`,
		c.ID, c.UserID, c.Narrative, c.Language, c.IncidentDate, c.IncidentTime, c.Location, c.StationID,
		suggested, applied, c.OfficerNotes, string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

const complaintColumns = `id, user_id, narrative, language, incident_date, incident_time, location, station_id,
suggested_sections, applied_sections, officer_notes, status, created_at, updated_at`

func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+complaintColumns+`
FROM complaints
WHERE id = $1
`, id)

	c, err := scanComplaint(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrComplaintNotFound, "fetch complaint", errors.New(id))
		}
		return nil, fmt.Errorf("scan complaint: %w", err)
	}
	return c, nil
}

func (r *ComplaintRepository) ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+complaintColumns+`
FROM complaints
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query complaints by user: %w", err)
	}
	defer rows.Close()
	return collectComplaints(rows)
}

// ListPending returns open complaints oldest-first; an empty stationID
// means all stations.
func (r *ComplaintRepository) ListPending(ctx context.Context, stationID string) ([]domain.Complaint, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+complaintColumns+`
FROM complaints
WHERE status IN ('submitted', 'in_review')
  AND ($1 = '' OR station_id = $1)
ORDER BY created_at ASC
`, stationID)
	if err != nil {
		return nil, fmt.Errorf("query pending complaints: %w", err)
	}
	defer rows.Close()
	return collectComplaints(rows)
}

func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, notes string, sections []string) error {
	applied, err := marshalSections(sections)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE complaints
SET status = $2, officer_notes = $3, applied_sections = $4, updated_at = $5
WHERE id = $1
`, id, string(status), notes, applied, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update complaint status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update complaint status: rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrComplaintNotFound, "update complaint status", errors.New(id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner) (*domain.Complaint, error) {
	var c domain.Complaint
	var suggestedRaw, appliedRaw []byte
	var status string

	err := row.Scan(
		&c.ID, &c.UserID, &c.Narrative, &c.Language, &c.IncidentDate, &c.IncidentTime, &c.Location, &c.StationID,
		&suggestedRaw, &appliedRaw, &c.OfficerNotes, &status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(suggestedRaw, &c.SuggestedSections); err != nil {
		return nil, fmt.Errorf("unmarshal suggested sections: %w", err)
	}
	if err := json.Unmarshal(appliedRaw, &c.AppliedSections); err != nil {
		return nil, fmt.Errorf("unmarshal applied sections: %w", err)
	}
	c.Status = domain.ComplaintStatus(status)
	return &c, nil
}

func collectComplaints(rows *sql.Rows) ([]domain.Complaint, error) {
	var out []domain.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complaints: %w", err)
	}
	return out, nil
}

func marshalSections(sections []string) ([]byte, error) {
	if sections == nil {
		sections = []string{}
	}
	raw, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("marshal sections: %w", err)
	}
	return raw, nil
}
