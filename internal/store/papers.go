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

// CreatePaper inserts a new paper record, assigning an ID and upload
// timestamp. When a user ID is set the user must exist.
func (s *Store) CreatePaper(ctx context.Context, p *types.Paper) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UploadedAt = nowUTC()

	userID := sql.NullString{String: p.UserID, Valid: p.UserID != ""}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, year, venue, doi, pdf_path, pdf_size_bytes, user_id, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, marshal(p.Authors), p.Year, p.Venue, p.DOI,
		p.PDFPath, p.PDFSizeBytes, userID, formatTime(p.UploadedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting paper: %w", err)
	}
	return nil
}

// GetPaper loads a paper by ID. Returns ErrNotFound when absent.
func (s *Store) GetPaper(ctx context.Context, id string) (*types.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, authors, year, venue, doi, pdf_path, pdf_size_bytes, user_id, uploaded_at
		 FROM papers WHERE id = ?`, id)
	p, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading paper %s: %w", id, err)
	}
	return p, nil
}

// ListPapers returns all papers, most recently uploaded first.
func (s *Store) ListPapers(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, year, venue, doi, pdf_path, pdf_size_bytes, user_id, uploaded_at
		 FROM papers ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(r rowScanner) (*types.Paper, error) {
	var (
		p           types.Paper
		authorsJSON string
		userID      sql.NullString
		uploaded    string
	)
	err := r.Scan(&p.ID, &p.Title, &authorsJSON, &p.Year, &p.Venue, &p.DOI,
		&p.PDFPath, &p.PDFSizeBytes, &userID, &uploaded)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors: %w", err)
	}
	p.UserID = userID.String
	p.UploadedAt = parseTime(uploaded)
	return &p, nil
}
