package audit

import (
	"context"
	"database/sql"
	"fmt"

	"agrimarket/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Record(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	ByTarget(ctx context.Context, targetType, targetID string) ([]Entry, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Record(ctx context.Context, e *Entry) error {
	if e.ActorID == "" || e.Action == "" || e.TargetID == "" {
		return ErrInvalidEntry
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO audit_log (actor_id, actor_role, action, target_type, target_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, e.ActorID, e.ActorRole, string(e.Action), e.TargetType, e.TargetID, e.Detail).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, actor_role, action, target_type, target_id, detail, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *repository) ByTarget(ctx context.Context, targetType, targetID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, actor_role, action, target_type, target_id, detail, created_at
		FROM audit_log
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at DESC
	`, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var action string
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorRole, &action, &e.TargetType, &e.TargetID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = Action(action)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Recorder writes entries without failing the caller.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Record is a no-op on a nil Recorder, so dashboards work without a database.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.repo == nil {
		return
	}
	if err := r.repo.Record(ctx, &e); err != nil {
		logger.FromCtx(ctx).Warn("audit record failed",
			zap.String("action", string(e.Action)),
			zap.String("target_id", e.TargetID),
			zap.Error(err),
		)
	}
}

func (r *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if r == nil || r.repo == nil {
		return nil, nil
	}
	return r.repo.Recent(ctx, limit)
}
