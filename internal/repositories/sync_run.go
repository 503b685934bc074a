package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/shared"
)

const syncRunColumns = "id, sequence, direction, status, uploaded, matched, existing, failed, total, error_msg, created_at, updated_at, deleted_at"

// SyncRunRepository implements models.Repository[*models.SyncRun] for sync history.
//
// Handles run CRUD operations with soft delete support and status-based queries.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a new sync run into the database with generated ID and sequence
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	run.SetSequence(sequence)

	id := shared.GenerateID()
	run.SetID(id)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_runs (id, sequence, direction, status, uploaded, matched, existing, failed, total, error_msg, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.Direction(),
		string(run.Status()),
		run.Uploaded(),
		run.Matched(),
		run.Existing(),
		run.Failed(),
		run.Total(),
		run.ErrorMsg(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// Get retrieves a sync run by ID, excluding soft-deleted runs
func (r *SyncRunRepository) Get(id string) (*models.SyncRun, error) {
	query := fmt.Sprintf("SELECT %s FROM sync_runs WHERE id = ? AND deleted_at IS NULL", syncRunColumns)

	return scanSyncRun(r.db.QueryRow(query, id))
}

// Update persists a run's status and counts
func (r *SyncRunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE sync_runs
		SET status = ?, uploaded = ?, matched = ?, existing = ?, failed = ?, total = ?, error_msg = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(run.Status()),
		run.Uploaded(),
		run.Matched(),
		run.Existing(),
		run.Failed(),
		run.Total(),
		run.ErrorMsg(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update sync run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync run not found or already deleted: %s", run.ID())
	}

	return nil
}

// Delete soft-deletes a sync run by ID
func (r *SyncRunRepository) Delete(id string) error {
	now := time.Now()

	result, err := r.db.Exec("UPDATE sync_runs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", now, id)
	if err != nil {
		return fmt.Errorf("failed to delete sync run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync run not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all sync runs matching the given criteria, excluding soft-deleted runs
func (r *SyncRunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := fmt.Sprintf("SELECT %s FROM sync_runs WHERE deleted_at IS NULL", syncRunColumns)

	args := []any{}

	if direction, ok := criteria["direction"].(string); ok && direction != "" {
		query += " AND direction = ?"
		args = append(args, direction)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanSyncRun scans a database row into a [models.SyncRun]
func scanSyncRun(row rowScanner) (*models.SyncRun, error) {
	var (
		id        string
		sequence  int
		direction string
		status    string
		uploaded  int
		matched   int
		existing  int
		failed    int
		total     int
		errorMsg  string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &direction, &status, &uploaded, &matched, &existing, &failed, &total, &errorMsg, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sync run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreSyncRun(id, sequence, direction, models.SyncStatus(status), uploaded, matched, existing, failed, total, errorMsg, createdAt, updatedAt, deleted), nil
}
