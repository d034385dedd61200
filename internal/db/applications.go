package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/apply-pilot/internal/types"
)

// ErrDuplicateApplication indicates an application already exists for
// the (user, job) pair. At-most-once inserts surface this instead of
// creating a second record.
var ErrDuplicateApplication = errors.New("application already exists for this user and job")

// -----------------------------------------------------------------------------
// Application Record Methods
// -----------------------------------------------------------------------------

// InsertApplication creates an application record and returns its ID.
// The insert is at-most-once per (user_id, job_id); a conflicting
// insert returns ErrDuplicateApplication and writes nothing.
func (db *DB) InsertApplication(ctx context.Context, input *ApplicationInsert) (uuid.UUID, error) {
	var dataJSON []byte
	var err error
	if input.ApplicationData != nil {
		dataJSON, err = json.Marshal(input.ApplicationData)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal application data: %w", err)
		}
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO applications
		        (user_id, job_id, job_title, company_name, job_url, status,
		         notes, salary, location, job_type, application_data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (user_id, job_id) DO NOTHING
		 RETURNING id`,
		input.UserID, input.JobID, input.JobTitle, input.CompanyName,
		input.JobURL, input.Status, input.Notes, input.Salary,
		input.Location, input.JobType, dataJSON,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			// The conflict target swallowed the insert.
			return uuid.Nil, ErrDuplicateApplication
		}
		return uuid.Nil, fmt.Errorf("failed to insert application: %w", err)
	}
	return id, nil
}

// UpdateApplicationStatus advances a record to a new status, replacing
// its notes. updated_at always moves forward so a terminal transition
// is strictly later than applied_at.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status types.ApplicationStatus, notes string) error {
	if !status.Valid() {
		return fmt.Errorf("invalid application status: %q", status)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE applications
		 SET status = $1, notes = $2, updated_at = NOW()
		 WHERE id = $3`,
		string(status), notes, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}

// MarkResponseReceived records that the employer responded, alongside a
// review status transition (interview, accepted, rejected).
func (db *DB) MarkResponseReceived(ctx context.Context, id uuid.UUID, status types.ApplicationStatus) error {
	switch status {
	case types.StatusInterview, types.StatusAccepted, types.StatusRejected:
	default:
		return fmt.Errorf("status %q is not a review outcome", status)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE applications
		 SET status = $1, response_received_at = NOW(), updated_at = NOW()
		 WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to record response for application %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}

// GetApplication retrieves an application record by ID
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.ApplicationRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, user_id, job_id, job_title, company_name, job_url, status,
		        notes, salary, location, job_type, application_data,
		        applied_at, updated_at, response_received_at
		 FROM applications WHERE id = $1`,
		id,
	)
	rec, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return rec, nil
}

// GetApplicationByUserAndJob retrieves the record for a (user, job) pair
func (db *DB) GetApplicationByUserAndJob(ctx context.Context, userID uuid.UUID, jobID string) (*types.ApplicationRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, user_id, job_id, job_title, company_name, job_url, status,
		        notes, salary, location, job_type, application_data,
		        applied_at, updated_at, response_received_at
		 FROM applications WHERE user_id = $1 AND job_id = $2`,
		userID, jobID,
	)
	rec, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return rec, nil
}

// ListApplicationsByUser retrieves a user's application records, most
// recent first.
func (db *DB) ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]types.ApplicationRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_id, job_title, company_name, job_url, status,
		        notes, salary, location, job_type, application_data,
		        applied_at, updated_at, response_received_at
		 FROM applications WHERE user_id = $1
		 ORDER BY applied_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	records := make([]types.ApplicationRecord, 0)
	for rows.Next() {
		rec, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applications: %w", err)
	}
	return records, nil
}

// scanApplication reads one applications row into a record.
func scanApplication(row pgx.Row) (*types.ApplicationRecord, error) {
	var rec types.ApplicationRecord
	var status string
	var dataJSON []byte
	var responseAt *time.Time

	err := row.Scan(&rec.ID, &rec.UserID, &rec.JobID, &rec.JobTitle,
		&rec.CompanyName, &rec.JobURL, &status, &rec.Notes, &rec.Salary,
		&rec.Location, &rec.JobType, &dataJSON,
		&rec.AppliedAt, &rec.UpdatedAt, &responseAt)
	if err != nil {
		return nil, err
	}

	rec.Status = types.ApplicationStatus(status)
	rec.ResponseAt = responseAt
	if dataJSON != nil {
		_ = json.Unmarshal(dataJSON, &rec.ApplicationData)
	}
	return &rec, nil
}
