package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/apply-pilot/internal/types"
)

// -----------------------------------------------------------------------------
// User Profile Methods
// -----------------------------------------------------------------------------

// UpsertUserProfile creates or refreshes a user's profile row. Called
// by the orchestrator before every dispatch so records always reflect
// the profile the batch was submitted with.
func (db *DB) UpsertUserProfile(ctx context.Context, input *ProfileUpsert) error {
	var cvJSON []byte
	var err error
	if input.CV != nil {
		cvJSON, err = json.Marshal(input.CV)
		if err != nil {
			return fmt.Errorf("failed to marshal cv data: %w", err)
		}
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO user_profiles
		        (user_id, full_name, email, phone, location, portfolio, linkedin, cv)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id) DO UPDATE SET
		        full_name = $2, email = $3, phone = $4, location = $5,
		        portfolio = $6, linkedin = $7, cv = $8, updated_at = NOW()`,
		input.UserID, input.FullName, input.Email, input.Phone,
		input.Location, input.Portfolio, input.LinkedIn, cvJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}
	return nil
}

// GetUserProfile retrieves a user's profile row
func (db *DB) GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	var p types.UserProfile
	var cvJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT full_name, email, phone, location, portfolio, linkedin, cv
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.FullName, &p.Email, &p.Phone, &p.Location, &p.Portfolio, &p.LinkedIn, &cvJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	if cvJSON != nil {
		_ = json.Unmarshal(cvJSON, &p.CV)
	}
	return &p, nil
}
