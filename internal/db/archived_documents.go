package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/easel/internal/archive"
)

var _ archive.Recorder = (*DB)(nil)

// ArchivedDocument is one ledger row
type ArchivedDocument struct {
	ID           uuid.UUID `json:"id"`
	ArchivedPath string    `json:"archived_path"`
	SourcePath   string    `json:"source_path"`
	RunDirectory string    `json:"run_directory"`
	Company      string    `json:"company"`
	Position     string    `json:"position"`
	AppliedAt    time.Time `json:"applied_at"`
	ArchivedAt   time.Time `json:"archived_at"`
}

// ListFilter narrows ListArchivedDocuments
type ListFilter struct {
	Company string    // case-insensitive exact match; empty matches all
	Since   time.Time // zero means no lower bound on applied_at
	Limit   int       // zero or negative means no limit
}

// RecordArchivedDocument upserts the ledger row for doc, keyed by its archived path
func (db *DB) RecordArchivedDocument(ctx context.Context, doc archive.ArchivedDocument) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO archived_documents (id, archived_path, source_path, run_directory, company, position, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (archived_path) DO UPDATE SET
		   source_path = EXCLUDED.source_path,
		   run_directory = EXCLUDED.run_directory,
		   company = EXCLUDED.company,
		   position = EXCLUDED.position,
		   applied_at = EXCLUDED.applied_at,
		   archived_at = NOW()`,
		uuid.New(), doc.Destination, doc.Source, doc.RunDirectory, doc.Company, doc.Position, doc.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record archived document %s: %w", doc.Destination, err)
	}
	return nil
}

// ListArchivedDocuments returns ledger rows, most recent application first
func (db *DB) ListArchivedDocuments(ctx context.Context, filter ListFilter) ([]ArchivedDocument, error) {
	query, args := buildListQuery(filter)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived documents: %w", err)
	}
	defer rows.Close()

	var docs []ArchivedDocument
	for rows.Next() {
		var d ArchivedDocument
		if err := rows.Scan(&d.ID, &d.ArchivedPath, &d.SourcePath, &d.RunDirectory, &d.Company, &d.Position, &d.AppliedAt, &d.ArchivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archived document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list archived documents: %w", err)
	}
	return docs, nil
}

func buildListQuery(filter ListFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, archived_path, source_path, run_directory, company, position, applied_at, archived_at
		 FROM archived_documents`)

	var conditions []string
	var args []any
	if filter.Company != "" {
		args = append(args, filter.Company)
		conditions = append(conditions, fmt.Sprintf("LOWER(company) = LOWER($%d)", len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		conditions = append(conditions, fmt.Sprintf("applied_at >= $%d", len(args)))
	}
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	sb.WriteString(" ORDER BY applied_at DESC, archived_path")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	return sb.String(), args
}
