// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pdiddy/discovery-engine/pkg/types"
)

// CreateUser inserts a new user, assigning an ID and timestamps. The
// profile is normalized before storage so enum fields are always valid.
func (s *Store) CreateUser(ctx context.Context, u *types.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := nowUTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.Profile.Normalize()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, created_at, updated_at, description, scholar_url, profile)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
		u.Description, u.ScholarURL, marshal(u.Profile),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUser loads a user by ID. Returns ErrNotFound when no such user exists.
func (s *Store) GetUser(ctx context.Context, id string) (*types.User, error) {
	var (
		u                types.User
		created, updated string
		profileJSON      string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at, description, scholar_url, profile
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &created, &updated, &u.Description, &u.ScholarURL, &profileJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", id, err)
	}

	u.CreatedAt = parseTime(created)
	u.UpdatedAt = parseTime(updated)
	if err := json.Unmarshal([]byte(profileJSON), &u.Profile); err != nil {
		return nil, fmt.Errorf("parsing stored profile for user %s: %w", id, err)
	}
	u.Profile.Normalize()
	return &u, nil
}

// UpdateUserProfile overwrites a user's profile and, when description is
// non-empty, the stored description. The profile is normalized first.
func (s *Store) UpdateUserProfile(ctx context.Context, id, description string, profile types.ResearcherProfile) error {
	profile.Normalize()

	var res sql.Result
	var err error
	if description != "" {
		res, err = s.db.ExecContext(ctx,
			`UPDATE users SET description = ?, profile = ?, updated_at = ? WHERE id = ?`,
			description, marshal(profile), formatTime(nowUTC()), id)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE users SET profile = ?, updated_at = ? WHERE id = ?`,
			marshal(profile), formatTime(nowUTC()), id)
	}
	if err != nil {
		return fmt.Errorf("updating user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}
